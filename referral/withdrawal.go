package referral

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"shopbot/common"
)

// WithdrawalService работает с заявками на вывод реферального баланса
type WithdrawalService struct {
	db *sql.DB
}

// NewWithdrawalService создает новый экземпляр сервиса заявок на вывод
func NewWithdrawalService(db *sql.DB) *WithdrawalService {
	return &WithdrawalService{db: db}
}

// CreateWithdrawRequest создает заявку на вывод со статусом pending
func (s *WithdrawalService) CreateWithdrawRequest(userID int64, amount float64, contact string) (*common.ReferralWithdrawRequest, error) {
	query := `
		INSERT INTO referral_withdraw_requests (user_id, amount, contact, status)
		VALUES ($1, $2, $3, $4)
		RETURNING request_id, created_at`

	request := &common.ReferralWithdrawRequest{
		UserID:  userID,
		Amount:  amount,
		Contact: contact,
		Status:  common.WithdrawStatusPending,
	}

	err := s.db.QueryRow(query, userID, amount, contact, common.WithdrawStatusPending).
		Scan(&request.RequestID, &request.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания заявки на вывод: %v", err)
	}

	log.Printf("WITHDRAWAL: Создана заявка %d на вывод %.2f₽ для пользователя %d",
		request.RequestID, amount, userID)
	return request, nil
}

// GetPendingRequestByUser возвращает последнюю необработанную заявку пользователя.
// Возвращает nil без ошибки, если таких заявок нет
func (s *WithdrawalService) GetPendingRequestByUser(userID int64) (*common.ReferralWithdrawRequest, error) {
	query := `
		SELECT request_id, user_id, amount, COALESCE(contact, ''), status, created_at
		FROM referral_withdraw_requests
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var request common.ReferralWithdrawRequest
	err := s.db.QueryRow(query, userID, common.WithdrawStatusPending).Scan(
		&request.RequestID, &request.UserID, &request.Amount,
		&request.Contact, &request.Status, &request.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска необработанной заявки: %v", err)
	}

	return &request, nil
}

// ListRequests возвращает заявки на вывод, новые первыми.
// При пустом status возвращаются заявки во всех статусах
func (s *WithdrawalService) ListRequests(status string, limit, offset int) ([]common.ReferralWithdrawRequest, error) {
	query := `
		SELECT request_id, user_id, amount, COALESCE(contact, ''), status, created_at
		FROM referral_withdraw_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок на вывод: %v", err)
	}
	defer rows.Close()

	var requests []common.ReferralWithdrawRequest
	for rows.Next() {
		var r common.ReferralWithdrawRequest
		err := rows.Scan(&r.RequestID, &r.UserID, &r.Amount, &r.Contact, &r.Status, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки на вывод: %v", err)
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

// CountRequests возвращает количество заявок в указанном статусе
// (во всех статусах при пустом status)
func (s *WithdrawalService) CountRequests(status string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM referral_withdraw_requests WHERE ($1 = '' OR status = $1)",
		status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета заявок на вывод: %v", err)
	}
	return count, nil
}

// UpdateRequestStatus переводит заявку в новый статус и фиксирует, кто и когда
// ее обработал. Возвращает NotFoundError, если заявки нет
func (s *WithdrawalService) UpdateRequestStatus(requestID int64, status string, adminID int64, comment string) error {
	query := `
		UPDATE referral_withdraw_requests
		SET status = $2, processed_at = $3, processed_by_admin_id = $4, admin_comment = $5
		WHERE request_id = $1`

	result, err := s.db.Exec(query, requestID, status, time.Now(), adminID, comment)
	if err != nil {
		return fmt.Errorf("ошибка обновления заявки %d: %v", requestID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка обновления заявки %d: %v", requestID, err)
	}
	if affected == 0 {
		return &common.NotFoundError{Msg: fmt.Sprintf("заявка %d не найдена", requestID)}
	}

	log.Printf("WITHDRAWAL: Заявка %d переведена в статус %s", requestID, status)
	return nil
}
