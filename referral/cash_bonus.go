package referral

import (
	"database/sql"
	"fmt"
	"log"
	"math"

	"shopbot/common"
)

// EvaluateCashBonus вычисляет денежный бонус пригласившему за платеж приглашенного.
// Бонус положен только если процент больше нуля и провайдер участвует в денежной
// программе. Процент передается явно, а не читается из конфигурации, чтобы правило
// можно было проверять изолированно. Сумма округляется до копеек
func EvaluateCashBonus(percent, amount float64, provider string) (float64, bool) {
	if percent <= 0 || !IsCashProvider(provider) {
		return 0, false
	}
	return round2(amount * percent / 100.0), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CashBonusService начисляет денежные реферальные бонусы
type CashBonusService struct {
	db *sql.DB
}

// NewCashBonusService создает новый экземпляр сервиса денежных бонусов
func NewCashBonusService(db *sql.DB) *CashBonusService {
	return &CashBonusService{db: db}
}

// ApplyCashBonus оценивает и при необходимости начисляет бонус пригласившему
// за платеж приглашенного. Возвращает сумму бонуса и признак начисления
func (s *CashBonusService) ApplyCashBonus(referrerID int64, payment *common.Payment, percent float64) (float64, bool, error) {
	bonus, ok := EvaluateCashBonus(percent, payment.Amount, payment.Provider)
	if !ok {
		log.Printf("CASH_BONUS: Бонус не положен (percent=%.2f, provider=%s)", percent, payment.Provider)
		return 0, false, nil
	}

	newBalance, err := common.AdjustReferralBalance(referrerID, bonus)
	if err != nil {
		return 0, false, fmt.Errorf("ошибка начисления бонуса пригласившему %d: %v", referrerID, err)
	}

	// Записываем в историю бонусов
	query := `
		INSERT INTO referral_bonuses (user_id, bonus_type, amount, provider, related_user_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)`

	description := fmt.Sprintf("Денежный бонус %.2f%% за платеж приглашенного", percent)
	_, err = s.db.Exec(query, referrerID, "cash", bonus, payment.Provider, payment.UserID, description)
	if err != nil {
		// Не возвращаем ошибку, так как бонус уже начислен
		log.Printf("CASH_BONUS: Ошибка записи в историю бонусов для пользователя %d: %v", referrerID, err)
	}

	log.Printf("CASH_BONUS: Начислено %.2f₽ пригласившему %d (баланс: %.2f₽)", bonus, referrerID, newBalance)
	return bonus, true, nil
}

// GetBonusHistory получает историю денежных бонусов пользователя, новые первыми
func (s *CashBonusService) GetBonusHistory(userID int64, limit int) ([]common.ReferralBonus, error) {
	query := `
		SELECT id, user_id, bonus_type, amount, provider,
		       COALESCE(related_user_id, 0), COALESCE(description, ''), created_at
		FROM referral_bonuses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории бонусов: %v", err)
	}
	defer rows.Close()

	var bonuses []common.ReferralBonus
	for rows.Next() {
		var b common.ReferralBonus
		err := rows.Scan(
			&b.ID, &b.UserID, &b.BonusType, &b.Amount, &b.Provider,
			&b.RelatedUserID, &b.Description, &b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования истории бонусов: %v", err)
		}
		bonuses = append(bonuses, b)
	}

	return bonuses, rows.Err()
}
