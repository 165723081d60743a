package seed

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"shopbot/common"
	"shopbot/referral"
)

// Значения параметров по умолчанию
const (
	DefaultCount    = 3
	DefaultAmount   = 300.0
	DefaultProvider = referral.ProviderYookassa
)

// MaxCount ограничивает размер одного прогона: защищает от опечаток в --count
// и от переполнения синтетических ID при очень больших индексах
const MaxCount = 1000

// Params задает параметры создания тестовых рефералов
type Params struct {
	ReferrerID int64   // Telegram ID пригласившего (должен существовать в базе)
	Count      int     // Сколько приглашенных создать
	Amount     float64 // Сумма тестового платежа каждого приглашенного
	Provider   string  // Платежный провайдер тестовых платежей
}

// Normalize приводит провайдера к нижнему регистру. Значения по умолчанию
// подставляет CLI-слой: явно переданные count=0 или amount=0 считаются ошибкой,
// а не просьбой взять умолчание
func (p *Params) Normalize() {
	p.Provider = strings.ToLower(strings.TrimSpace(p.Provider))
}

// Validate проверяет параметры до каких-либо записей в базу.
// Провайдер может быть любым непустым тегом: платежи с провайдером вне денежной
// программы создаются, просто без начисления бонуса
func (p *Params) Validate() error {
	if p.ReferrerID <= 0 {
		return &common.ValidationError{Msg: fmt.Sprintf("некорректный ID пригласившего: %d", p.ReferrerID)}
	}
	if p.Count <= 0 {
		return &common.ValidationError{Msg: fmt.Sprintf("количество рефералов должно быть положительным: %d", p.Count)}
	}
	if p.Count > MaxCount {
		return &common.ValidationError{Msg: fmt.Sprintf("количество рефералов не больше %d за прогон: %d", MaxCount, p.Count)}
	}
	if p.Amount <= 0 {
		return &common.ValidationError{Msg: fmt.Sprintf("сумма платежа должна быть положительной: %.2f", p.Amount)}
	}
	if p.Provider == "" {
		return &common.ValidationError{Msg: "провайдер не указан"}
	}
	return nil
}

// Summary содержит итоги прогона
type Summary struct {
	Requested      int     // сколько рефералов запрошено
	Created        int     // сколько пар пользователь+платеж создано
	BonusesApplied int     // сколько бонусов начислено
	BonusTotal     float64 // общая сумма начисленных бонусов
}

// UserStore описывает операции с пользователями, нужные прогону
type UserStore interface {
	GetUserByTelegramID(userID int64) (*common.User, error)
	CreateUser(user *common.User) error
	IncrementReferralCount(userID int64) error
}

// PaymentStore описывает создание платежей
type PaymentStore interface {
	CreatePaymentRecord(payment *common.Payment) error
}

// BonusApplier оценивает и начисляет денежный бонус за платеж приглашенного
type BonusApplier interface {
	ApplyCashBonus(referrerID int64, payment *common.Payment, percent float64) (float64, bool, error)
}

// dbStore реализует UserStore и PaymentStore поверх глобального соединения common
type dbStore struct{}

func (dbStore) GetUserByTelegramID(userID int64) (*common.User, error) {
	return common.GetUserByTelegramID(userID)
}

func (dbStore) CreateUser(user *common.User) error {
	return common.CreateUser(user)
}

func (dbStore) IncrementReferralCount(userID int64) error {
	return common.IncrementReferralCount(userID)
}

func (dbStore) CreatePaymentRecord(payment *common.Payment) error {
	return common.CreatePaymentRecord(payment)
}

// Runner создает тестовых рефералов с платежами и прогоняет правило
// денежного бонуса для каждого платежа
type Runner struct {
	users        UserStore
	payments     PaymentStore
	bonuses      BonusApplier
	bonusPercent float64
}

// NewRunner создает новый экземпляр поверх глобального соединения с базой
// (common.InitPostgreSQL должен быть вызван раньше). bonusPercent передается
// явно (обычно из common.REFERRAL_CASH_BONUS_PERCENT)
func NewRunner(bonusPercent float64) *Runner {
	return &Runner{
		users:        dbStore{},
		payments:     dbStore{},
		bonuses:      referral.NewCashBonusService(common.GetDB()),
		bonusPercent: bonusPercent,
	}
}

// Run выполняет прогон: проверяет параметры, убеждается что пригласивший
// существует, затем создает Count приглашенных, по одному платежу на каждого,
// и для каждого платежа оценивает правило денежного бонуса. Ошибка на одной
// итерации не прерывает прогон: итерация пропускается, остальные продолжаются
func (r *Runner) Run(params Params) (*Summary, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	referrer, err := r.users.GetUserByTelegramID(params.ReferrerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пригласившего %d: %v", params.ReferrerID, err)
	}
	if referrer == nil {
		return nil, &common.NotFoundError{Msg: fmt.Sprintf("пригласивший %d не найден в базе", params.ReferrerID)}
	}

	log.Printf("SEED: Пригласивший найден: %s (ID: %d, реферальный баланс: %.2f₽)",
		referrer.FirstName, referrer.UserID, referrer.ReferralBalance)

	now := time.Now()
	seedValue := now.Unix() % 1000000000
	summary := &Summary{Requested: params.Count}

	for i := 0; i < params.Count; i++ {
		userID := BuildTestUserID(seedValue, i)

		user := &common.User{
			UserID:           userID,
			Username:         fmt.Sprintf("test_ref_%d", userID),
			FirstName:        fmt.Sprintf("TestRef%d", i+1),
			LanguageCode:     "ru",
			RegistrationDate: now,
			ReferredByID:     params.ReferrerID,
		}
		if err := r.users.CreateUser(user); err != nil {
			log.Printf("SEED: [%d/%d] ❌ Ошибка создания приглашенного %d, итерация пропущена: %v",
				i+1, params.Count, userID, err)
			continue
		}

		if err := r.users.IncrementReferralCount(params.ReferrerID); err != nil {
			log.Printf("SEED: [%d/%d] Ошибка обновления счетчика рефералов: %v", i+1, params.Count, err)
		}

		payment := common.NewTestPayment(userID, params.Amount, params.Provider)
		if err := r.payments.CreatePaymentRecord(payment); err != nil {
			log.Printf("SEED: [%d/%d] ❌ Ошибка создания платежа для %d, итерация пропущена: %v",
				i+1, params.Count, userID, err)
			continue
		}

		summary.Created++
		log.Printf("SEED: [%d/%d] ✅ Создан приглашенный %d и платеж %.2f₽ (%s)",
			i+1, params.Count, userID, payment.Amount, payment.Provider)

		bonus, applied, err := r.bonuses.ApplyCashBonus(params.ReferrerID, payment, r.bonusPercent)
		if err != nil {
			log.Printf("SEED: [%d/%d] ❌ Ошибка начисления бонуса: %v", i+1, params.Count, err)
			continue
		}
		if applied {
			summary.BonusesApplied++
			summary.BonusTotal += bonus
		}
	}

	return summary, nil
}

// BuildTestUserID строит синтетический Telegram-подобный ID вида 9<seed:09d><idx>.
// Префикс 9 и девятизначная временная часть не дают пересечься с реальными
// пользователями. При idx в пределах MaxCount переполнение int64 невозможно
func BuildTestUserID(seed int64, idx int) int64 {
	id, err := strconv.ParseInt(fmt.Sprintf("9%09d%d", seed, idx), 10, 64)
	if err != nil {
		log.Printf("SEED: Ошибка построения тестового ID (seed=%d, idx=%d): %v", seed, idx, err)
	}
	return id
}
