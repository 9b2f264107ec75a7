package users

import (
	"context"
	"errors"
)

// Resolver adapts a Repo to the auth middleware's subject lookup.
type Resolver struct {
	Repo Repo
}

// Exists reports whether userID names a known user.
func (r Resolver) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := r.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
