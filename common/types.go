package common

import "time"

// Статусы платежей
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusPending   = "pending"
	PaymentStatusCanceled  = "canceled"
)

// Статусы заявок на вывод реферального баланса
const (
	WithdrawStatusPending  = "pending"
	WithdrawStatusApproved = "approved"
	WithdrawStatusRejected = "rejected"
)

// User представляет пользователя бота
type User struct {
	UserID           int64     `db:"user_id" json:"user_id"`
	Username         string    `db:"username" json:"username"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LanguageCode     string    `db:"language_code" json:"language_code"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
	ReferredByID     int64     `db:"referred_by_id" json:"referred_by_id"` // 0 = пришел сам
	ReferralBalance  float64   `db:"referral_balance" json:"referral_balance"`
	ReferralCount    int       `db:"referral_count" json:"referral_count"`
}

// Payment представляет запись о платеже пользователя
type Payment struct {
	PaymentID         int64     `db:"payment_id" json:"payment_id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	Amount            float64   `db:"amount" json:"amount"`
	Currency          string    `db:"currency" json:"currency"`
	Status            string    `db:"status" json:"status"`
	Description       string    `db:"description" json:"description"`
	DurationMonths    int       `db:"subscription_duration_months" json:"subscription_duration_months"`
	Provider          string    `db:"provider" json:"provider"`
	ProviderPaymentID string    `db:"provider_payment_id" json:"provider_payment_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// ReferralBonus представляет начисление денежного реферального бонуса
type ReferralBonus struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	BonusType     string    `db:"bonus_type" json:"bonus_type"` // пока только "cash"
	Amount        float64   `db:"amount" json:"amount"`
	Provider      string    `db:"provider" json:"provider"`
	RelatedUserID int64     `db:"related_user_id" json:"related_user_id"` // приглашенный, за которого начислен бонус
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReferralWithdrawRequest представляет заявку на вывод реферального баланса
type ReferralWithdrawRequest struct {
	RequestID          int64     `db:"request_id" json:"request_id"`
	UserID             int64     `db:"user_id" json:"user_id"`
	Amount             float64   `db:"amount" json:"amount"`
	Contact            string    `db:"contact" json:"contact"`
	Status             string    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	ProcessedAt        time.Time `db:"processed_at" json:"processed_at"`
	ProcessedByAdminID int64     `db:"processed_by_admin_id" json:"processed_by_admin_id"`
	AdminComment       string    `db:"admin_comment" json:"admin_comment"`
}

// ReferralStats представляет статистику рефералов пользователя
type ReferralStats struct {
	InvitedCount   int `json:"invited_count"`   // всего приглашенных
	PurchasedCount int `json:"purchased_count"` // приглашенные с успешным платежом
}
