package planner

import (
	"log/slog"
	"net/http"

	"planner-app/internal/app/http/middleware"
	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"
	"planner-app/internal/lib/metrics"
	"planner-app/internal/lib/sl"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// GET /timeline?filter=
// ------------------------------
func (h *Handler) Timeline(c *gin.Context) {
	userID := c.GetUint(middleware.KeyUserID)
	res := middleware.AccessFrom(c)
	now := middleware.NowFrom(c)

	kw := access.ParseKeyword(c.Query("filter"))
	f := access.BuildDateFilter(kw, res.HasElevatedAccess, now)
	preds := f.Predicates(userID)

	byZone := make(map[planner.Zone][]planner.Item, len(planner.Zones))
	for _, z := range planner.Zones {
		items, err := h.store.ListItems(c.Request.Context(), z, preds)
		if err != nil {
			h.log.Error("failed to load timeline", slog.String("zone", string(z)), sl.Err(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load timeline"})
			return
		}
		byZone[z] = items
	}

	c.JSON(http.StatusOK, TimelineResponse{
		Filter:       string(kw),
		Since:        formatBound(f.LowerBound),
		IsPro:        res.HasElevatedAccess,
		LimitApplied: f.LimitApplied,
		Days:         groupByDay(byZone),
	})
}

// ------------------------------
// GET /quick-wins?filter=
// ------------------------------
func (h *Handler) QuickWins(c *gin.Context) {
	userID := c.GetUint(middleware.KeyUserID)
	res := middleware.AccessFrom(c)
	now := middleware.NowFrom(c)

	kw := access.ParseKeyword(c.Query("filter"))
	f := access.BuildDateFilter(kw, res.HasElevatedAccess, now)

	items, err := h.store.ListItems(c.Request.Context(), planner.ZoneQuickWins, f.Predicates(userID))
	if err != nil {
		h.log.Error("failed to load quick wins", slog.Uint64("user_id", uint64(userID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load quick wins"})
		return
	}

	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}

	c.JSON(http.StatusOK, QuickWinsResponse{
		Filter:       string(kw),
		Since:        formatBound(f.LowerBound),
		IsPro:        res.HasElevatedAccess,
		LimitApplied: f.LimitApplied,
		Total:        len(items),
		Completed:    done,
		Items:        toItemDTOs(items),
	})
}

// ------------------------------
// GET /history
// ------------------------------
// Dates outside the tier window are dropped rather than reported as errors.
func (h *Handler) History(c *gin.Context) {
	userID := c.GetUint(middleware.KeyUserID)
	res := middleware.AccessFrom(c)
	now := middleware.NowFrom(c)

	dates, err := h.store.ListPlanDates(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to load history", slog.Uint64("user_id", uint64(userID)), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	out := make([]string, 0, len(dates))
	dropped := 0
	for _, d := range dates {
		day := access.DayIn(d, now.Location())
		outcome := access.CheckAccess(day, res.HasElevatedAccess, now, access.SurfaceHistory)
		metrics.ObserveGate(string(access.SurfaceHistory), string(outcome))
		if !outcome.CanRead() {
			dropped++
			continue
		}
		out = append(out, day.Format(access.DateLayout))
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Dates:        out,
		IsPro:        res.HasElevatedAccess,
		LimitApplied: dropped > 0,
		ReadCutoff:   access.Cutoff(res.HasElevatedAccess, now).Format(access.DateLayout),
	})
}
