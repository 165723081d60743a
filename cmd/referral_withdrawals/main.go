package main

import (
	"flag"
	"log"

	"shopbot/common"
	"shopbot/referral"

	_ "github.com/lib/pq"
)

// Управление заявками на вывод реферального баланса: просмотр очереди,
// одобрение/отклонение, создание тестовой заявки для ручных проверок
func main() {
	status := flag.String("status", common.WithdrawStatusPending, "Статус заявок для просмотра (пусто = все)")
	limit := flag.Int("limit", 10, "Сколько заявок показать")
	offset := flag.Int("offset", 0, "Смещение списка заявок")

	approve := flag.Int64("approve", 0, "Одобрить заявку с указанным номером")
	reject := flag.Int64("reject", 0, "Отклонить заявку с указанным номером")
	comment := flag.String("comment", "", "Комментарий администратора к решению")

	request := flag.Bool("request", false, "Создать тестовую заявку на вывод")
	userID := flag.Int64("user-id", 0, "Пользователь тестовой заявки")
	amount := flag.Float64("amount", 0, "Сумма тестовой заявки")
	contact := flag.String("contact", "", "Контакт для выплаты")
	flag.Parse()

	common.InitConfig()

	if err := common.InitPostgreSQL(); err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer common.DisconnectPostgreSQL()

	withdrawals := referral.NewWithdrawalService(common.GetDB())

	switch {
	case *approve != 0:
		updateStatus(withdrawals, *approve, common.WithdrawStatusApproved, *comment)
	case *reject != 0:
		updateStatus(withdrawals, *reject, common.WithdrawStatusRejected, *comment)
	case *request:
		createTestRequest(withdrawals, *userID, *amount, *contact)
	default:
		listRequests(withdrawals, *status, *limit, *offset)
	}
}

func listRequests(withdrawals *referral.WithdrawalService, status string, limit, offset int) {
	total, err := withdrawals.CountRequests(status)
	if err != nil {
		log.Fatalf("Ошибка подсчета заявок: %v", err)
	}

	requests, err := withdrawals.ListRequests(status, limit, offset)
	if err != nil {
		log.Fatalf("Ошибка получения заявок: %v", err)
	}

	log.Printf("=== ЗАЯВКИ НА ВЫВОД (статус: %s, всего: %d) ===", status, total)
	for _, r := range requests {
		log.Printf("№%d: пользователь %d, %.2f₽, контакт: %s, статус: %s, создана: %s",
			r.RequestID, r.UserID, r.Amount, r.Contact, r.Status,
			r.CreatedAt.Format("02.01.2006 15:04"))
	}
	if len(requests) == 0 {
		log.Println("Заявок нет")
	}
}

func updateStatus(withdrawals *referral.WithdrawalService, requestID int64, status, comment string) {
	err := withdrawals.UpdateRequestStatus(requestID, status, common.ADMIN_ID, comment)
	if err != nil {
		log.Fatalf("Ошибка обработки заявки %d: %v", requestID, err)
	}
	log.Printf("✅ Заявка %d: %s", requestID, status)
}

// createTestRequest повторяет пользовательский сценарий вывода: проверяет
// минимальную сумму и баланс, списывает баланс и создает заявку
func createTestRequest(withdrawals *referral.WithdrawalService, userID int64, amount float64, contact string) {
	if userID <= 0 || amount <= 0 || contact == "" {
		log.Fatalf("Для тестовой заявки укажите --user-id, --amount и --contact")
	}
	if amount < common.REFERRAL_WITHDRAW_MIN_RUB {
		log.Fatalf("Сумма %.2f₽ меньше минимальной %.2f₽", amount, common.REFERRAL_WITHDRAW_MIN_RUB)
	}

	pending, err := withdrawals.GetPendingRequestByUser(userID)
	if err != nil {
		log.Fatalf("Ошибка поиска необработанных заявок: %v", err)
	}
	if pending != nil {
		log.Fatalf("У пользователя %d уже есть необработанная заявка №%d", userID, pending.RequestID)
	}

	balance, err := common.GetReferralBalance(userID)
	if err != nil {
		log.Fatalf("Ошибка получения баланса: %v", err)
	}
	if balance < amount {
		log.Fatalf("Недостаточный баланс: %.2f₽ < %.2f₽", balance, amount)
	}

	newBalance, err := common.AdjustReferralBalance(userID, -amount)
	if err != nil {
		log.Fatalf("Ошибка списания баланса: %v", err)
	}

	request, err := withdrawals.CreateWithdrawRequest(userID, amount, contact)
	if err != nil {
		// Баланс уже списан, возвращаем его
		if _, rollbackErr := common.AdjustReferralBalance(userID, amount); rollbackErr != nil {
			log.Printf("❌ Ошибка возврата баланса после неудачной заявки: %v", rollbackErr)
		}
		log.Fatalf("Ошибка создания заявки: %v", err)
	}

	log.Printf("✅ Создана заявка №%d на %.2f₽, остаток баланса: %.2f₽",
		request.RequestID, amount, newBalance)
}
