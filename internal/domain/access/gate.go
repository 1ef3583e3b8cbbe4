package access

import "time"

// CheckAccess evaluates one requested date against the tier window and the
// tier-independent age gate. It is pure; the same inputs give the same
// outcome.
//
// On the history surface a date outside the tier window is Denied and the
// caller drops it silently. On the planner surface the same date asks a
// free user to upgrade; a pro user past the safety bound is Denied.
func CheckAccess(requested time.Time, hasElevatedAccess bool, now time.Time, surface Surface) Outcome {
	day := Day(requested)

	if day.Before(Cutoff(hasElevatedAccess, now)) {
		if surface == SurfacePlanner && !hasElevatedAccess {
			return UpgradeRequired
		}
		return Denied
	}

	if surface == SurfacePlanner && day.Before(EditCutoff(now)) {
		return ReadOnlyLocked
	}

	return Allowed
}
