package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	sharedauth "aideo-backend/internal/shared/auth"
	"aideo-backend/internal/shared/server/respond"
	"aideo-backend/internal/shared/telemetry"
	"aideo-backend/internal/users"
)

const minPasswordLength = 8

// Handler serves the registration and login routes.
type Handler struct {
	Users  users.Repo
	Tokens *sharedauth.Tokens
}

// NewHandler constructs a Handler.
func NewHandler(repo users.Repo, tokens *sharedauth.Tokens) *Handler {
	return &Handler{Users: repo, Tokens: tokens}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid email address", nil)
		return
	}
	if len(req.Password) < minPasswordLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "password must be at least 8 characters", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create user", nil)
		return
	}

	user := users.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			respond.Error(c, http.StatusConflict, "email_taken", "this email is already registered", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create user", nil)
		return
	}

	telemetry.Info("auth.registered", map[string]any{"user_id": user.ID})
	respond.JSON(c, http.StatusCreated, registerResponse{
		ID:       user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
	})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// login follows the OAuth2 password-grant form shape: the username field
// carries the email.
func (h *Handler) login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "username and password are required", nil)
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable on purpose.
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.JSON(c, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
