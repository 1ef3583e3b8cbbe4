package access

// Outcome is the per-request result of evaluating one calendar date.
type Outcome string

const (
	Allowed         Outcome = "allowed"
	ReadOnlyLocked  Outcome = "read_only"
	Denied          Outcome = "denied"
	UpgradeRequired Outcome = "upgrade_required"
)

func (o Outcome) CanRead() bool {
	return o == Allowed || o == ReadOnlyLocked
}

func (o Outcome) CanWrite() bool {
	return o == Allowed
}

// Surface is the kind of screen asking for a date.
type Surface string

const (
	// SurfacePlanner is the single-day planner view.
	SurfacePlanner Surface = "planner"
	// SurfaceHistory is any listing of past entries.
	SurfaceHistory Surface = "history"
)

// Resolution is the reduced view of a user's subscription.
type Resolution struct {
	Tier              string
	HasElevatedAccess bool
}
