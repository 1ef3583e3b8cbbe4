package access

import "time"

// Policy summarizes a user's access for the account screen.
type Policy struct {
	Tier       string
	IsPro      bool
	ReadCutoff time.Time
	EditCutoff time.Time
}

func ComputePolicy(now time.Time, r Resolution) Policy {
	return Policy{
		Tier:       r.Tier,
		IsPro:      r.HasElevatedAccess,
		ReadCutoff: Cutoff(r.HasElevatedAccess, now),
		EditCutoff: EditCutoff(now),
	}
}
