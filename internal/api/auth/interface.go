package auth

import (
	"context"

	"planner-app/internal/domain/users"
)

type Store interface {
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
	GetUserByID(ctx context.Context, id uint) (users.User, error)
	GetUserByGoogleSub(ctx context.Context, sub string) (users.User, error)
	CreateUser(ctx context.Context, u *users.User) error
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}
