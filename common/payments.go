package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewTestPayment собирает тестовый платеж для ручных проверок реферальной
// программы: валюта RUB, статус succeeded, provider_payment_id с префиксом
// test:, чтобы такие платежи было легко отличить от боевых
func NewTestPayment(userID int64, amount float64, provider string) *Payment {
	return &Payment{
		UserID:            userID,
		Amount:            amount,
		Currency:          "RUB",
		Status:            PaymentStatusSucceeded,
		Description:       "test referral payment",
		DurationMonths:    1,
		Provider:          provider,
		ProviderPaymentID: fmt.Sprintf("test:%s:%s", provider, uuid.NewString()),
	}
}

// CreatePaymentRecord создает запись о платеже и проставляет PaymentID
func CreatePaymentRecord(payment *Payment) error {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO payments (user_id, amount, currency, status, description,
		                      subscription_duration_months, provider, provider_payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING payment_id`

	err := db.QueryRow(query,
		payment.UserID, payment.Amount, payment.Currency, payment.Status,
		nullIfEmpty(payment.Description), payment.DurationMonths,
		payment.Provider, nullIfEmpty(payment.ProviderPaymentID), payment.CreatedAt,
	).Scan(&payment.PaymentID)
	if err != nil {
		return fmt.Errorf("ошибка создания платежа для пользователя %d: %v", payment.UserID, err)
	}

	return nil
}

// GetPaymentsByUserID получает платежи пользователя, новые первыми
func GetPaymentsByUserID(userID int64, limit int) ([]Payment, error) {
	query := `
		SELECT payment_id, user_id, amount, currency, status,
		       COALESCE(description, ''), subscription_duration_months,
		       provider, COALESCE(provider_payment_id, ''), created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения платежей пользователя %d: %v", userID, err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		err := rows.Scan(
			&p.PaymentID, &p.UserID, &p.Amount, &p.Currency, &p.Status,
			&p.Description, &p.DurationMonths, &p.Provider, &p.ProviderPaymentID,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования платежа: %v", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
