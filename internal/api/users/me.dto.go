package users

import "time"

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider"`
	HasPassword  bool   `json:"has_password"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Tier         string           `json:"tier"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	EndDate              *time.Time `json:"end_date"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
	HasCustomer          bool       `json:"has_customer"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	Tier       string `json:"tier"`
	IsPro      bool   `json:"isPro"`
	ReadCutoff string `json:"readCutoff"`
	EditCutoff string `json:"editCutoff"`
	// days of history readable at all
	HistoryDays int `json:"historyDays"`
}
