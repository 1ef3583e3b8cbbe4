package planner

import (
	"sort"
	"time"

	"planner-app/internal/domain/access"
	"planner-app/internal/domain/planner"
)

type ItemDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Notes     string `json:"notes,omitempty"`
	Completed bool   `json:"completed"`
	Minutes   int    `json:"minutes,omitempty"`
	Project   string `json:"project,omitempty"`
	SortIndex int    `json:"sortIndex"`
}

type PlanDTO struct {
	Intention string `json:"intention"`
	Mood      int    `json:"mood"`
	Notes     string `json:"notes"`
}

// DayResponse is the single-day planner payload.
type DayResponse struct {
	Date         string               `json:"date"`
	Plan         PlanDTO              `json:"plan"`
	Zones        map[string][]ItemDTO `json:"zones"`
	ReadOnly     bool                 `json:"readOnly"`
	IsPro        bool                 `json:"isPro"`
	LimitApplied bool                 `json:"limitApplied"`
	ReadCutoff   string               `json:"readCutoff"`
	EditCutoff   string               `json:"editCutoff"`
}

type TimelineDay struct {
	Date  string               `json:"date"`
	Zones map[string][]ItemDTO `json:"zones"`
}

type TimelineResponse struct {
	Filter       string        `json:"filter"`
	Since        *string       `json:"since"`
	IsPro        bool          `json:"isPro"`
	LimitApplied bool          `json:"limitApplied"`
	Days         []TimelineDay `json:"days"`
}

type QuickWinsResponse struct {
	Filter       string    `json:"filter"`
	Since        *string   `json:"since"`
	IsPro        bool      `json:"isPro"`
	LimitApplied bool      `json:"limitApplied"`
	Total        int       `json:"total"`
	Completed    int       `json:"completed"`
	Items        []ItemDTO `json:"items"`
}

type HistoryResponse struct {
	Dates        []string `json:"dates"`
	IsPro        bool     `json:"isPro"`
	LimitApplied bool     `json:"limitApplied"`
	ReadCutoff   string   `json:"readCutoff"`
}

func toItemDTO(it planner.Item) ItemDTO {
	return ItemDTO{
		ID:        it.ID,
		Date:      it.Date().Format(access.DateLayout),
		Title:     it.Title,
		Notes:     it.Notes,
		Completed: it.Completed,
		Minutes:   it.Minutes,
		Project:   it.Project,
		SortIndex: it.SortIndex,
	}
}

func toItemDTOs(items []planner.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toItemDTO(it))
	}
	return out
}

func toPlanDTO(p planner.DailyPlan) PlanDTO {
	return PlanDTO{Intention: p.Intention, Mood: p.Mood, Notes: p.Notes}
}

func emptyZones() map[string][]ItemDTO {
	zones := make(map[string][]ItemDTO, len(planner.Zones))
	for _, z := range planner.Zones {
		zones[string(z)] = []ItemDTO{}
	}
	return zones
}

// groupByDay folds per-zone item lists into days, newest first.
func groupByDay(byZone map[planner.Zone][]planner.Item) []TimelineDay {
	days := map[string]*TimelineDay{}
	for zone, items := range byZone {
		for _, it := range items {
			key := it.Date().Format(access.DateLayout)
			d, ok := days[key]
			if !ok {
				d = &TimelineDay{Date: key, Zones: emptyZones()}
				days[key] = d
			}
			d.Zones[string(zone)] = append(d.Zones[string(zone)], toItemDTO(it))
		}
	}

	out := make([]TimelineDay, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func formatBound(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(access.DateLayout)
	return &s
}
