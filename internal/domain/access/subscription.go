package access

import (
	"strings"
	"time"

	"planner-app/internal/domain/plans"
	"planner-app/internal/domain/users"
	"planner-app/internal/infra/stripe"
)

// Snapshot holds the subscription fields the resolver reads.
type Snapshot struct {
	Tier    string
	Status  string
	EndDate *time.Time
}

// FreeSnapshot is what every unreadable subscription collapses to.
func FreeSnapshot() Snapshot {
	return Snapshot{Tier: plans.TierFree, Status: stripe.StatusInactive}
}

func SnapshotFromUser(u users.User) Snapshot {
	return Snapshot{
		Tier:    u.SubscriptionTier,
		Status:  u.SubscriptionStatus,
		EndDate: u.SubscriptionEndDate,
	}
}

var fieldNames = map[string][2]string{
	"tier":    {"subscriptionTier", "subscription_tier"},
	"status":  {"subscriptionStatus", "subscription_status"},
	"endDate": {"subscriptionEndDate", "subscription_end_date"},
}

// SnapshotFromFields normalizes a loosely typed record whose subscription
// fields may use camelCase or snake_case keys. A present but unparseable
// value yields FreeSnapshot.
func SnapshotFromFields(fields map[string]any) Snapshot {
	if fields == nil {
		return FreeSnapshot()
	}

	lookup := func(name string) (any, bool) {
		keys := fieldNames[name]
		for _, k := range keys {
			if v, ok := fields[k]; ok && v != nil {
				return v, true
			}
		}
		return nil, false
	}

	var s Snapshot

	if v, ok := lookup("tier"); ok {
		str, isStr := asString(v)
		if !isStr {
			return FreeSnapshot()
		}
		s.Tier = str
	}
	if v, ok := lookup("status"); ok {
		str, isStr := asString(v)
		if !isStr {
			return FreeSnapshot()
		}
		s.Status = str
	}
	if v, ok := lookup("endDate"); ok {
		end, parsed := parseEndDate(v)
		if !parsed {
			return FreeSnapshot()
		}
		s.EndDate = end
	}

	return s
}

// Drivers may hand text columns back as bytes.
func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

func parseEndDate(v any) (*time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return &t, true
	case *time.Time:
		return t, true
	case string:
		str := strings.TrimSpace(t)
		if str == "" {
			return nil, true
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", DateLayout} {
			if parsed, err := time.Parse(layout, str); err == nil {
				return &parsed, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// Resolve reduces a snapshot to a tier and the elevated-access flag.
// The end date must be strictly after now for access to stay elevated.
func Resolve(now time.Time, s Snapshot) Resolution {
	tier := plans.NormalizeTier(s.Tier)
	status := stripe.NormalizeStripeStatus(s.Status)

	elevated := tier == plans.TierPro &&
		stripe.GrantsAccess(status) &&
		(s.EndDate == nil || s.EndDate.After(now))

	return Resolution{Tier: tier, HasElevatedAccess: elevated}
}
