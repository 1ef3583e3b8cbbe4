package users

import "time"

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"not null;default:'user'"`

	SubscriptionTier    string     `gorm:"column:subscription_tier;type:varchar(16);not null;default:'free'"`
	SubscriptionStatus  string     `gorm:"column:subscription_status;type:varchar(16);not null;default:'inactive'"`
	SubscriptionEndDate *time.Time `gorm:"column:subscription_end_date"`

	StripeCustomerID     *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id;uniqueIndex:idx_users_stripe_subscription_id"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)
