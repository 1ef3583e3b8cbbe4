package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"planner-app/database"
	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"
	"planner-app/internal/lib/metrics"
	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	return &Handler{store: store, log: log.With(slog.String("component", "planner"))}
}

// gateResult carries what every single-day handler needs after the gate.
type gateResult struct {
	userID  uint
	day     time.Time
	now     time.Time
	res     access.Resolution
	outcome access.Outcome
}

// gate parses :date and evaluates it on the planner surface. It writes the
// rejection itself and returns false when the request must stop. write
// additionally refuses read-only dates.
func (h *Handler) gate(c *gin.Context, write bool) (gateResult, bool) {
	now := middleware.NowFrom(c)
	g := gateResult{
		userID: c.GetUint(middleware.KeyUserID),
		now:    now,
		res:    middleware.AccessFrom(c),
	}

	day, err := access.ParseDay(c.Param("date"), now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return g, false
	}
	g.day = day
	g.outcome = access.CheckAccess(day, g.res.HasElevatedAccess, now, access.SurfacePlanner)
	metrics.ObserveGate(string(access.SurfacePlanner), string(g.outcome))

	switch g.outcome {
	case access.UpgradeRequired:
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":           "Upgrade to Pro to open plans older than 7 days",
			"upgradeRequired": true,
			"date":            day.Format(access.DateLayout),
			"readCutoff":      access.Cutoff(false, now).Format(access.DateLayout),
			"isPro":           g.res.HasElevatedAccess,
			"limitApplied":    true,
		})
		return g, false
	case access.Denied:
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "This date is outside your history window",
			"isPro":        g.res.HasElevatedAccess,
			"limitApplied": true,
		})
		return g, false
	case access.ReadOnlyLocked:
		if write {
			c.JSON(http.StatusLocked, gin.H{
				"error":    "This plan is now historical and can no longer be edited",
				"readOnly": true,
				"isPro":    g.res.HasElevatedAccess,
			})
			return g, false
		}
	}
	return g, true
}

func (h *Handler) zoneParam(c *gin.Context) (planner.Zone, bool) {
	zone, ok := planner.ParseZone(c.Param("zone"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown planning zone"})
		return "", false
	}
	return zone, true
}

// ------------------------------
// GET /plans/:date
// ------------------------------
func (h *Handler) GetDay(c *gin.Context) {
	g, ok := h.gate(c, false)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	plan, err := h.store.GetPlan(ctx, g.userID, g.day)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		h.log.Error("failed to load plan", slog.Uint64("user_id", uint64(g.userID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return
	}

	zones := emptyZones()
	for _, z := range planner.Zones {
		items, err := h.store.ListDayItems(ctx, z, g.userID, g.day)
		if err != nil {
			h.log.Error("failed to load zone", slog.String("zone", string(z)), sl.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
			return
		}
		zones[string(z)] = toItemDTOs(items)
	}

	// A day that passed the gate is only limited by the age lock.
	policy := access.ComputePolicy(g.now, g.res)
	c.JSON(http.StatusOK, DayResponse{
		Date:         g.day.Format(access.DateLayout),
		Plan:         toPlanDTO(plan),
		Zones:        zones,
		ReadOnly:     g.outcome == access.ReadOnlyLocked,
		IsPro:        policy.IsPro,
		LimitApplied: g.outcome != access.Allowed,
		ReadCutoff:   policy.ReadCutoff.Format(access.DateLayout),
		EditCutoff:   policy.EditCutoff.Format(access.DateLayout),
	})
}

// ------------------------------
// PUT /plans/:date
// ------------------------------
func (h *Handler) UpdateDay(c *gin.Context) {
	var body struct {
		Intention string `json:"intention"`
		Mood      int    `json:"mood"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Mood < 0 || body.Mood > planner.MaxMood {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("mood must be between 0 and %d", planner.MaxMood)})
		return
	}

	g, ok := h.gate(c, true)
	if !ok {
		return
	}

	plan := planner.DailyPlan{
		UserID:    g.userID,
		PlanDate:  datatypes.Date(g.day),
		Intention: body.Intention,
		Mood:      body.Mood,
		Notes:     body.Notes,
	}
	if err := h.store.UpsertPlan(c.Request.Context(), &plan); err != nil {
		h.log.Error("failed to save plan", slog.Uint64("user_id", uint64(g.userID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": g.day.Format(access.DateLayout), "plan": toPlanDTO(plan)})
}

type itemInput struct {
	Title     string `json:"title" binding:"required,max=500"`
	Notes     string `json:"notes" binding:"max=5000"`
	Completed bool   `json:"completed"`
	Minutes   int    `json:"minutes" binding:"min=0,max=1440"`
	Project   string `json:"project" binding:"max=200"`
	SortIndex int    `json:"sortIndex"`
}

// ------------------------------
// POST /plans/:date/:zone
// ------------------------------
func (h *Handler) CreateItem(c *gin.Context) {
	zone, ok := h.zoneParam(c)
	if !ok {
		return
	}
	var in itemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, ok := h.gate(c, true)
	if !ok {
		return
	}

	it := planner.Item{
		UserID:    g.userID,
		PlanDate:  datatypes.Date(g.day),
		Title:     in.Title,
		Notes:     in.Notes,
		Completed: in.Completed,
		Minutes:   in.Minutes,
		Project:   in.Project,
		SortIndex: in.SortIndex,
	}
	if err := h.store.CreateItem(c.Request.Context(), zone, &it); err != nil {
		h.log.Error("failed to create item", slog.String("zone", string(zone)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, toItemDTO(it))
}

// loadOwnedItem fetches :id and checks it belongs to the gated :date, so an
// old entry cannot be edited through a recent date in the URL.
func (h *Handler) loadOwnedItem(c *gin.Context, zone planner.Zone, g gateResult) (planner.Item, bool) {
	it, err := h.store.GetItem(c.Request.Context(), zone, g.userID, c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return planner.Item{}, false
	}
	if err != nil {
		h.log.Error("failed to load item", slog.String("zone", string(zone)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return planner.Item{}, false
	}
	if it.Date().Format(access.DateLayout) != g.day.Format(access.DateLayout) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return planner.Item{}, false
	}
	return it, true
}

// ------------------------------
// PUT /plans/:date/:zone/:id
// ------------------------------
func (h *Handler) UpdateItem(c *gin.Context) {
	zone, ok := h.zoneParam(c)
	if !ok {
		return
	}
	var in itemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, ok := h.gate(c, true)
	if !ok {
		return
	}
	it, ok := h.loadOwnedItem(c, zone, g)
	if !ok {
		return
	}

	it.Title = in.Title
	it.Notes = in.Notes
	it.Completed = in.Completed
	it.Minutes = in.Minutes
	it.Project = in.Project
	it.SortIndex = in.SortIndex

	if err := h.store.UpdateItem(c.Request.Context(), zone, &it); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		h.log.Error("failed to update item", slog.String("zone", string(zone)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, toItemDTO(it))
}

// ------------------------------
// DELETE /plans/:date/:zone/:id
// ------------------------------
func (h *Handler) DeleteItem(c *gin.Context) {
	zone, ok := h.zoneParam(c)
	if !ok {
		return
	}
	g, ok := h.gate(c, true)
	if !ok {
		return
	}
	it, ok := h.loadOwnedItem(c, zone, g)
	if !ok {
		return
	}

	if err := h.store.DeleteItem(c.Request.Context(), zone, g.userID, it.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		h.log.Error("failed to delete item", slog.String("zone", string(zone)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
