package planner

// Zone is one fixed section of the daily plan. Each zone has its own table.
type Zone string

const (
	ZoneDeepWork       Zone = "deep_work"
	ZoneQuickWins      Zone = "quick_wins"
	ZoneRecharge       Zone = "recharge"
	ZoneLittleJoys     Zone = "little_joys"
	ZoneReflections    Zone = "reflections"
	ZoneProjectUpdates Zone = "project_updates"
	ZoneCoreMemories   Zone = "core_memories"
)

// Zones lists every zone in display order.
var Zones = []Zone{
	ZoneDeepWork,
	ZoneQuickWins,
	ZoneRecharge,
	ZoneLittleJoys,
	ZoneReflections,
	ZoneProjectUpdates,
	ZoneCoreMemories,
}

var zoneTables = map[Zone]string{
	ZoneDeepWork:       "deep_work_items",
	ZoneQuickWins:      "quick_wins",
	ZoneRecharge:       "recharge_entries",
	ZoneLittleJoys:     "little_joys",
	ZoneReflections:    "reflections",
	ZoneProjectUpdates: "project_updates",
	ZoneCoreMemories:   "core_memories",
}

// ParseZone accepts the snake_case zone name used in URLs.
func ParseZone(s string) (Zone, bool) {
	z := Zone(s)
	_, ok := zoneTables[z]
	return z, ok
}

func (z Zone) Table() string {
	return zoneTables[z]
}
