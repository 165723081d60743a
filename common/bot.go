package common

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Глобальный бот для отправки уведомлений администратору.
// Скрипты работают и без него: если токен не задан, уведомления просто не отправляются
var GlobalBot *tgbotapi.BotAPI

// InitBot инициализирует глобального бота, если задан BOT_TOKEN
func InitBot() error {
	if BOT_TOKEN == "" {
		log.Println("BOT: BOT_TOKEN не задан, уведомления администратору отключены")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(BOT_TOKEN)
	if err != nil {
		return err
	}

	GlobalBot = bot
	log.Printf("BOT: Авторизован как @%s", bot.Self.UserName)
	return nil
}

// SendAdminNotification отправляет HTML-сообщение администратору
func SendAdminNotification(text string) {
	if GlobalBot == nil || ADMIN_ID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(ADMIN_ID, text)
	msg.ParseMode = "HTML"
	if _, err := GlobalBot.Send(msg); err != nil {
		log.Printf("BOT: Ошибка отправки уведомления администратору: %v", err)
	}
}
