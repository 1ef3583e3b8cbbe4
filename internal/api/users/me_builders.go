package users

import (
	"planner-app/internal/domain/access"
	"planner-app/internal/domain/plans"
	"planner-app/internal/domain/users"
	"planner-app/internal/infra/stripe"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		HasPassword:  u.Password != nil && *u.Password != "",
	}
}

func BuildBillingDTO(u users.User) BillingDTO {
	return BillingDTO{
		Tier:         plans.NormalizeTier(u.SubscriptionTier),
		Subscription: BuildSubscriptionDTO(u),
	}
}

// BuildSubscriptionDTO is nil for users who never went through checkout.
func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.StripeSubscriptionID == nil || *u.StripeSubscriptionID == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               stripe.NormalizeStripeStatus(u.SubscriptionStatus),
		EndDate:              u.SubscriptionEndDate,
		StripeSubscriptionID: u.StripeSubscriptionID,
		HasCustomer:          u.StripeCustomerID != nil && *u.StripeCustomerID != "",
	}
}

func BuildAccessDTO(policy access.Policy) AccessDTO {
	days := access.FreeHistoryDays
	if policy.IsPro {
		days = access.ProHistoryDays
	}
	return AccessDTO{
		Tier:        policy.Tier,
		IsPro:       policy.IsPro,
		ReadCutoff:  policy.ReadCutoff.Format(access.DateLayout),
		EditCutoff:  policy.EditCutoff.Format(access.DateLayout),
		HistoryDays: days,
	}
}
