package main

import (
	"flag"
	"fmt"
	"log"

	"shopbot/common"
	"shopbot/seed"

	_ "github.com/lib/pq"
)

func main() {
	referrerID := flag.Int64("referrer-id", 0, "Telegram ID пригласившего (обязательный)")
	count := flag.Int("count", seed.DefaultCount, "Сколько тестовых рефералов создать")
	amount := flag.Float64("amount", seed.DefaultAmount, "Сумма тестового платежа каждого реферала")
	provider := flag.String("provider", seed.DefaultProvider, "Платежный провайдер тестовых платежей")
	flag.Parse()

	log.Println("=== СОЗДАНИЕ ТЕСТОВЫХ РЕФЕРАЛОВ ===")

	common.InitConfig()

	if err := common.InitPostgreSQL(); err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer common.DisconnectPostgreSQL()

	if err := common.InitBot(); err != nil {
		log.Printf("BOT: Бот не инициализирован, уведомления отключены: %v", err)
	}

	runner := seed.NewRunner(common.REFERRAL_CASH_BONUS_PERCENT)
	summary, err := runner.Run(seed.Params{
		ReferrerID: *referrerID,
		Count:      *count,
		Amount:     *amount,
		Provider:   *provider,
	})
	if err != nil {
		log.Fatalf("Ошибка создания тестовых рефералов: %v", err)
	}

	log.Printf("Создано %d из %d рефералов с платежами для пригласившего %d",
		summary.Created, summary.Requested, *referrerID)
	log.Printf("Начислено бонусов: %d на сумму %.2f₽", summary.BonusesApplied, summary.BonusTotal)

	notifyAdmin(*referrerID, summary)

	log.Println("=== ГОТОВО ===")
}

// notifyAdmin отправляет администратору итоги прогона, если бот настроен
func notifyAdmin(referrerID int64, summary *seed.Summary) {
	if common.GlobalBot == nil {
		return
	}

	text := "🧪 <b>Созданы тестовые рефералы</b>\n\n"
	text += fmt.Sprintf("👤 Пригласивший: <code>%d</code>\n", referrerID)
	text += fmt.Sprintf("➕ Создано: %d из %d\n", summary.Created, summary.Requested)
	text += fmt.Sprintf("💰 Бонусов: %d на сумму %.2f₽", summary.BonusesApplied, summary.BonusTotal)
	common.SendAdminNotification(text)
}
