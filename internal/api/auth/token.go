package auth

import (
	"time"

	"planner-app/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// issueAppJWT signs the session token read back by middleware.AuthMiddleware.
func issueAppJWT(user users.User, secret string, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	})
	return t.SignedString([]byte(secret))
}
