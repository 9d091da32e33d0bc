package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// ShareCapPercent is the hard ceiling on a user's total stake. Enforced
// inside the settlement transaction, never from submission-time state.
const ShareCapPercent = 50.0

// System setting keys (the admin-editable pricing variables).
const (
	SettingPricePerPercent  = "ppp" // FCFA cost of 1% of stake
	SettingPayoutNumber     = "payout_number"
	SettingPayoutNumberName = "payout_number_name"
	SettingMinWithdrawal    = "min_withdrawal" // FCFA, advisory submission floor
)

// Notification types.
const (
	NotifPurchaseApproved   = "PURCHASE_APPROVED"
	NotifPurchaseRejected   = "PURCHASE_REJECTED"
	NotifWithdrawalApproved = "WITHDRAWAL_APPROVED"
	NotifWithdrawalRejected = "WITHDRAWAL_REJECTED"
	NotifCommissionEarned   = "COMMISSION_EARNED"
)
