package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"planner-app/database"
	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/access"
	"planner-app/internal/domain/users"
	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
)

type Store interface {
	GetUserByID(ctx context.Context, id uint) (users.User, error)
}

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log.With(slog.String("component", "users"))}
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := c.GetUint(middleware.KeyUserID)

	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to load user", slog.Uint64("user_id", uint64(userID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	policy := access.ComputePolicy(middleware.NowFrom(c), middleware.AccessFrom(c))

	c.JSON(http.StatusOK, MeResponse{
		User:    BuildUserDTO(user),
		Billing: BuildBillingDTO(user),
		Access:  BuildAccessDTO(policy),
	})
}
