package common

import (
	"database/sql"
	"fmt"
	"time"
)

// GetUserByTelegramID получает пользователя по Telegram ID.
// Возвращает nil без ошибки, если пользователь не найден
func GetUserByTelegramID(userID int64) (*User, error) {
	query := `
		SELECT user_id, username, first_name, language_code, registration_date,
		       referred_by_id, referral_balance, referral_count
		FROM users WHERE user_id = $1`

	var user User
	var username, firstName, languageCode sql.NullString
	var referredByID sql.NullInt64

	err := db.QueryRow(query, userID).Scan(
		&user.UserID, &username, &firstName, &languageCode,
		&user.RegistrationDate, &referredByID,
		&user.ReferralBalance, &user.ReferralCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователя: %v", err)
	}

	// Обработка NULL значений
	if username.Valid {
		user.Username = username.String
	}
	if firstName.Valid {
		user.FirstName = firstName.String
	}
	if languageCode.Valid {
		user.LanguageCode = languageCode.String
	}
	if referredByID.Valid {
		user.ReferredByID = referredByID.Int64
	}

	return &user, nil
}

// CreateUser создает пользователя (thread-safe с UPSERT, как это делает бот
// при обработке /start). Обновляет профиль, если пользователь уже существует
func CreateUser(user *User) error {
	now := time.Now()
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = now
	}

	query := `
		INSERT INTO users (user_id, username, first_name, language_code,
		                   registration_date, referred_by_id, referral_balance, referral_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			language_code = EXCLUDED.language_code
		RETURNING user_id`

	var referredBy interface{}
	if user.ReferredByID != 0 {
		referredBy = user.ReferredByID
	}

	var returnedUserID int64
	err := db.QueryRow(query,
		user.UserID, nullIfEmpty(user.Username), nullIfEmpty(user.FirstName),
		nullIfEmpty(user.LanguageCode), user.RegistrationDate, referredBy,
	).Scan(&returnedUserID)
	if err != nil {
		return fmt.Errorf("ошибка UPSERT пользователя %d: %v", user.UserID, err)
	}

	return nil
}

// GetReferralBalance возвращает реферальный баланс пользователя
func GetReferralBalance(userID int64) (float64, error) {
	var balance float64
	err := db.QueryRow("SELECT COALESCE(referral_balance, 0) FROM users WHERE user_id = $1", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, &NotFoundError{Msg: fmt.Sprintf("пользователь %d не найден в базе", userID)}
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка получения реферального баланса: %v", err)
	}
	return balance, nil
}

// AdjustReferralBalance изменяет реферальный баланс пользователя на delta
// (может быть отрицательной при выводе) и возвращает новый баланс
func AdjustReferralBalance(userID int64, delta float64) (float64, error) {
	query := `
		UPDATE users SET referral_balance = COALESCE(referral_balance, 0) + $2
		WHERE user_id = $1
		RETURNING referral_balance`

	var newBalance float64
	err := db.QueryRow(query, userID, delta).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return 0, &NotFoundError{Msg: fmt.Sprintf("пользователь %d не найден в базе", userID)}
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка изменения реферального баланса: %v", err)
	}

	return newBalance, nil
}

// IncrementReferralCount увеличивает счетчик приглашенных у пригласившего
func IncrementReferralCount(userID int64) error {
	query := `UPDATE users SET referral_count = COALESCE(referral_count, 0) + 1 WHERE user_id = $1`
	_, err := db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счетчика рефералов: %v", err)
	}
	return nil
}

// GetReferralStats получает статистику рефералов пользователя:
// сколько всего приглашено и сколько из них оплатили
func GetReferralStats(userID int64) (*ReferralStats, error) {
	query := `
		SELECT
			COUNT(DISTINCT u.user_id) AS invited_count,
			COUNT(DISTINCT p.user_id) AS purchased_count
		FROM users u
		LEFT JOIN payments p ON p.user_id = u.user_id AND p.status = $2
		WHERE u.referred_by_id = $1`

	var stats ReferralStats
	err := db.QueryRow(query, userID, PaymentStatusSucceeded).Scan(
		&stats.InvitedCount, &stats.PurchasedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики рефералов: %v", err)
	}

	return &stats, nil
}
