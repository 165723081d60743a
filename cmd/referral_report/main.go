package main

import (
	"flag"
	"log"

	"shopbot/common"
	"shopbot/referral"

	_ "github.com/lib/pq"
)

// Отчет по реферальной программе пользователя: статистика, баланс,
// история бонусов и необработанные заявки на вывод
func main() {
	userID := flag.Int64("user-id", 0, "Telegram ID пользователя (обязательный)")
	limit := flag.Int("limit", 10, "Сколько последних бонусов показать")
	flag.Parse()

	if *userID <= 0 {
		log.Fatalf("Укажите корректный --user-id")
	}

	common.InitConfig()

	if err := common.InitPostgreSQL(); err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer common.DisconnectPostgreSQL()

	user, err := common.GetUserByTelegramID(*userID)
	if err != nil {
		log.Fatalf("Ошибка получения пользователя: %v", err)
	}
	if user == nil {
		log.Fatalf("Пользователь %d не найден в базе", *userID)
	}

	log.Println("=== ОТЧЕТ ПО РЕФЕРАЛЬНОЙ ПРОГРАММЕ ===")
	log.Printf("Пользователь: %s (@%s, ID: %d)", user.FirstName, user.Username, user.UserID)
	log.Printf("Реферальный баланс: %.2f₽ (счетчик рефералов: %d)", user.ReferralBalance, user.ReferralCount)

	stats, err := common.GetReferralStats(*userID)
	if err != nil {
		log.Printf("❌ Ошибка получения статистики: %v", err)
	} else {
		log.Printf("Приглашено: %d, с оплатой: %d", stats.InvitedCount, stats.PurchasedCount)
	}

	bonuses := referral.NewCashBonusService(common.GetDB())
	history, err := bonuses.GetBonusHistory(*userID, *limit)
	if err != nil {
		log.Printf("❌ Ошибка получения истории бонусов: %v", err)
	} else {
		log.Printf("История бонусов (записей: %d):", len(history))
		for i, bonus := range history {
			log.Printf("   %d. %s: %.2f₽ (провайдер: %s, приглашенный: %d)",
				i+1, bonus.CreatedAt.Format("02.01.2006 15:04"), bonus.Amount,
				bonus.Provider, bonus.RelatedUserID)
		}
	}

	payments, err := common.GetPaymentsByUserID(*userID, *limit)
	if err != nil {
		log.Printf("❌ Ошибка получения платежей: %v", err)
	} else if len(payments) > 0 {
		log.Printf("Платежи пользователя (записей: %d):", len(payments))
		for i, p := range payments {
			log.Printf("   %d. %s: %.2f %s (%s, статус: %s)",
				i+1, p.CreatedAt.Format("02.01.2006 15:04"), p.Amount, p.Currency,
				p.Provider, p.Status)
		}
	}

	withdrawals := referral.NewWithdrawalService(common.GetDB())
	pending, err := withdrawals.GetPendingRequestByUser(*userID)
	if err != nil {
		log.Printf("❌ Ошибка поиска заявок на вывод: %v", err)
	} else if pending != nil {
		log.Printf("Необработанная заявка на вывод: №%d на %.2f₽ от %s",
			pending.RequestID, pending.Amount, pending.CreatedAt.Format("02.01.2006 15:04"))
	} else {
		log.Println("Необработанных заявок на вывод нет")
	}

	log.Println("=== ОТЧЕТ ЗАВЕРШЕН ===")
}
