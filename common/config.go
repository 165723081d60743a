package common

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Глобальные переменные конфигурации
var (
	// Телеграм
	BOT_TOKEN string // Токен бота для уведомлений администратору (может быть пустым)
	ADMIN_ID  int64  // Telegram ID администратора

	// PostgreSQL
	PG_HOST     string // Хост PostgreSQL сервера
	PG_PORT     string // Порт PostgreSQL (обычно 5432)
	PG_USER     string // Имя пользователя БД
	PG_PASSWORD string // Пароль пользователя БД
	PG_DBNAME   string // Название базы данных

	// ---РЕФЕРАЛЬНАЯ ПРОГРАММА---
	REFERRAL_CASH_BONUS_PERCENT float64 // Процент денежного бонуса пригласившему (0 = отключено)
	REFERRAL_WITHDRAW_MIN_RUB   float64 // Минимальная сумма вывода реферального баланса
)

// InitConfig загружает конфигурацию из .env файла и переменных окружения.
// Переменные окружения имеют приоритет над .env
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("CONFIG: .env файл не найден, используем переменные окружения")
	}

	BOT_TOKEN = os.Getenv("BOT_TOKEN")
	ADMIN_ID = getEnvInt64("ADMIN_ID", 0)

	PG_HOST = getEnvOrDefault("PG_HOST", "localhost")
	PG_PORT = getEnvOrDefault("PG_PORT", "5432")
	PG_USER = getEnvOrDefault("PG_USER", "shop_bot_user")
	PG_PASSWORD = getEnvOrDefault("PG_PASSWORD", "")
	PG_DBNAME = getEnvOrDefault("PG_DBNAME", "shop_bot")

	REFERRAL_CASH_BONUS_PERCENT = getEnvFloat("REFERRAL_CASH_BONUS_PERCENT", 0)
	REFERRAL_WITHDRAW_MIN_RUB = getEnvFloat("REFERRAL_WITHDRAW_MIN_RUB", 1000)

	log.Printf("CONFIG: REFERRAL_CASH_BONUS_PERCENT=%.2f", REFERRAL_CASH_BONUS_PERCENT)
}

// Вспомогательные функции

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("CONFIG: Некорректное значение %s='%s', используем %.2f", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("CONFIG: Некорректное значение %s='%s', используем %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
