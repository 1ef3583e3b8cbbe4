package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"planner-app/database"
	"planner-app/internal/domain/access"
	"planner-app/internal/domain/plans"
	"planner-app/internal/domain/users"
	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
)

type Store interface {
	ListUsers(ctx context.Context) ([]users.User, error)
	GetUserByID(ctx context.Context, id uint) (users.User, error)
}

type AdminUser struct {
	ID                   uint       `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Role                 string     `json:"role"`
	AuthProvider         string     `json:"auth_provider"`
	SubscriptionTier     string     `json:"subscription_tier"`
	SubscriptionStatus   string     `json:"subscription_status"`
	SubscriptionEndDate  *time.Time `json:"subscription_end_date,omitempty"`
	HasElevatedAccess    bool       `json:"has_elevated_access"`
	StripeCustomerID     *string    `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers   int            `json:"total_users"`
	ProEffective int            `json:"pro_effective"`
	UsersPerTier map[string]int `json:"users_per_tier"`
}

type Handler struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log.With(slog.String("component", "admin")), now: time.Now}
}

func toAdminUser(u users.User, now time.Time) AdminUser {
	return AdminUser{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                u.Email,
		Role:                 u.Role,
		AuthProvider:         u.AuthProvider,
		SubscriptionTier:     u.SubscriptionTier,
		SubscriptionStatus:   u.SubscriptionStatus,
		SubscriptionEndDate:  u.SubscriptionEndDate,
		HasElevatedAccess:    access.Resolve(now, access.SnapshotFromUser(u)).HasElevatedAccess,
		StripeCustomerID:     u.StripeCustomerID,
		StripeSubscriptionID: u.StripeSubscriptionID,
		CreatedAt:            u.CreatedAt,
	}
}

// GET /admin/users
func (h *Handler) ListAllUsers(c *gin.Context) {
	list, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list users", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	now := h.now()
	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		out = append(out, toAdminUser(u, now))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/users/:id
func (h *Handler) GetUserDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	u, err := h.store.GetUserByID(c.Request.Context(), uint(id))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to load user", slog.Uint64("user_id", id), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, toAdminUser(u, h.now()))
}

// GET /admin/stats
func (h *Handler) GetAdminStats(c *gin.Context) {
	list, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list users", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	now := h.now()
	stats := AdminStats{
		TotalUsers:   len(list),
		UsersPerTier: map[string]int{plans.TierFree: 0, plans.TierPro: 0},
	}
	for _, u := range list {
		stats.UsersPerTier[plans.NormalizeTier(u.SubscriptionTier)]++
		if access.Resolve(now, access.SnapshotFromUser(u)).HasElevatedAccess {
			stats.ProEffective++
		}
	}

	c.JSON(http.StatusOK, stats)
}
