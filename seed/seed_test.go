package seed

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"shopbot/common"
	"shopbot/referral"
)

// TestParamsNormalize тестирует канонизацию тега провайдера
func TestParamsNormalize(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected Params
	}{
		{
			name:     "ProviderLowercased",
			params:   Params{ReferrerID: 1, Count: 5, Amount: 100, Provider: "YooKassa"},
			expected: Params{ReferrerID: 1, Count: 5, Amount: 100, Provider: "yookassa"},
		},
		{
			name:     "ProviderTrimmed",
			params:   Params{ReferrerID: 1, Count: 1, Amount: 50, Provider: " freekassa "},
			expected: Params{ReferrerID: 1, Count: 1, Amount: 50, Provider: "freekassa"},
		},
		{
			name:     "ExplicitValuesKept",
			params:   Params{ReferrerID: 1, Count: 7, Amount: 450, Provider: "platega"},
			expected: Params{ReferrerID: 1, Count: 7, Amount: 450, Provider: "platega"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Normalize()
			if tt.params != tt.expected {
				t.Errorf("Normalize() = %+v, expected %+v", tt.params, tt.expected)
			}
		})
	}
}

// TestParamsValidate тестирует проверку параметров перед записью в базу
func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name        string
		params      Params
		expectError bool
		description string
	}{
		{
			name:        "Valid",
			params:      Params{ReferrerID: 8448246169, Count: 3, Amount: 300, Provider: "yookassa"},
			expectError: false,
			description: "Корректные параметры проходят проверку",
		},
		{
			name:        "UnknownProviderAllowed",
			params:      Params{ReferrerID: 1, Count: 3, Amount: 300, Provider: "unknown_provider"},
			expectError: false,
			description: "Провайдер вне денежной программы допустим: платежи создаются без бонуса",
		},
		{
			name:        "ZeroReferrer",
			params:      Params{ReferrerID: 0, Count: 3, Amount: 300, Provider: "yookassa"},
			expectError: true,
			description: "Нулевой ID пригласившего отклоняется",
		},
		{
			name:        "NegativeCount",
			params:      Params{ReferrerID: 1, Count: -1, Amount: 300, Provider: "yookassa"},
			expectError: true,
			description: "Отрицательное количество отклоняется",
		},
		{
			name:        "CountAboveLimit",
			params:      Params{ReferrerID: 1, Count: MaxCount + 1, Amount: 300, Provider: "yookassa"},
			expectError: true,
			description: "Количество сверх лимита прогона отклоняется",
		},
		{
			name:        "EmptyProvider",
			params:      Params{ReferrerID: 1, Count: 3, Amount: 300, Provider: "  "},
			expectError: true,
			description: "Пустой провайдер отклоняется",
		},
		{
			name:        "NegativeAmount",
			params:      Params{ReferrerID: 1, Count: 3, Amount: -10, Provider: "yookassa"},
			expectError: true,
			description: "Отрицательная сумма отклоняется",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Normalize()
			err := tt.params.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatalf("Validate() = nil, ожидалась ошибка. %s", tt.description)
				}
				var validationErr *common.ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("Validate() вернул %T, ожидался *common.ValidationError. %s", err, tt.description)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v, ожидался nil. %s", err, tt.description)
			}
		})
	}
}

// TestParamsValidate_ZeroCount проверяет, что явно нулевое количество отклоняется,
// а не подменяется значением по умолчанию
func TestParamsValidate_ZeroCount(t *testing.T) {
	params := Params{ReferrerID: 1, Count: 0, Amount: 300, Provider: "yookassa"}
	params.Normalize()
	err := params.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, ожидалась ошибка для count=0")
	}
	var validationErr *common.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Validate() вернул %T, ожидался *common.ValidationError", err)
	}
}

// TestBuildTestUserID тестирует генерацию синтетических Telegram ID
func TestBuildTestUserID(t *testing.T) {
	seed := int64(1725000000) % 1000000000

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		id := BuildTestUserID(seed, i)

		if id <= 0 {
			t.Fatalf("BuildTestUserID(%d, %d) = %d, ID должен быть положительным", seed, i, id)
		}

		str := fmt.Sprintf("%d", id)
		if !strings.HasPrefix(str, "9") {
			t.Errorf("BuildTestUserID(%d, %d) = %s, ожидался префикс 9", seed, i, str)
		}
		expected := fmt.Sprintf("9%09d%d", seed, i)
		if str != expected {
			t.Errorf("BuildTestUserID(%d, %d) = %s, expected %s", seed, i, str, expected)
		}

		if seen[id] {
			t.Errorf("BuildTestUserID(%d, %d) = %d, ID повторяется внутри прогона", seed, i, id)
		}
		seen[id] = true
	}
}

// TestBuildTestUserID_SmallSeed проверяет дополнение временной части нулями
func TestBuildTestUserID_SmallSeed(t *testing.T) {
	id := BuildTestUserID(42, 0)
	if got := fmt.Sprintf("%d", id); got != "90000000420" {
		t.Errorf("BuildTestUserID(42, 0) = %s, expected 90000000420", got)
	}
}

// Фейковые хранилища для проверки прогона без живой базы

type fakeUserStore struct {
	existing    map[int64]*common.User
	created     []*common.User
	failOnCall  int // номер вызова CreateUser, возвращающий ошибку (0 = без ошибок)
	createCalls int
	lookupCalls int
	increments  int
}

func (f *fakeUserStore) GetUserByTelegramID(userID int64) (*common.User, error) {
	f.lookupCalls++
	return f.existing[userID], nil
}

func (f *fakeUserStore) CreateUser(user *common.User) error {
	f.createCalls++
	if f.failOnCall != 0 && f.createCalls == f.failOnCall {
		return fmt.Errorf("ошибка UPSERT пользователя %d: соединение потеряно", user.UserID)
	}
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserStore) IncrementReferralCount(userID int64) error {
	f.increments++
	return nil
}

type fakePaymentStore struct {
	payments   []*common.Payment
	failOnCall int
	calls      int
}

func (f *fakePaymentStore) CreatePaymentRecord(payment *common.Payment) error {
	f.calls++
	if f.failOnCall != 0 && f.calls == f.failOnCall {
		return fmt.Errorf("ошибка создания платежа для пользователя %d: соединение потеряно", payment.UserID)
	}
	f.payments = append(f.payments, payment)
	return nil
}

// fakeBonusApplier применяет настоящее правило EvaluateCashBonus, но без записей в базу
type fakeBonusApplier struct {
	applied []float64
	err     error
}

func (f *fakeBonusApplier) ApplyCashBonus(referrerID int64, payment *common.Payment, percent float64) (float64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	bonus, ok := referral.EvaluateCashBonus(percent, payment.Amount, payment.Provider)
	if ok {
		f.applied = append(f.applied, bonus)
	}
	return bonus, ok, nil
}

func newTestRunner(users *fakeUserStore, payments *fakePaymentStore, bonuses *fakeBonusApplier, percent float64) *Runner {
	return &Runner{
		users:        users,
		payments:     payments,
		bonuses:      bonuses,
		bonusPercent: percent,
	}
}

// TestRun_FullSuccess тестирует базовый сценарий: count рефералов, платежи
// с заданными суммой и провайдером, бонус за каждый платеж
func TestRun_FullSuccess(t *testing.T) {
	referrerID := int64(8448246169)
	users := &fakeUserStore{existing: map[int64]*common.User{
		referrerID: {UserID: referrerID, FirstName: "Referrer"},
	}}
	payments := &fakePaymentStore{}
	bonuses := &fakeBonusApplier{}

	runner := newTestRunner(users, payments, bonuses, 10)
	summary, err := runner.Run(Params{ReferrerID: referrerID, Count: 3, Amount: 300, Provider: "yookassa"})
	if err != nil {
		t.Fatalf("Run() = %v, ожидался nil", err)
	}

	if summary.Created != 3 || summary.BonusesApplied != 3 {
		t.Errorf("Summary = %+v, ожидалось Created=3, BonusesApplied=3", summary)
	}
	if math.Abs(summary.BonusTotal-90) > 1e-9 {
		t.Errorf("BonusTotal = %.2f, expected 90.00", summary.BonusTotal)
	}

	if len(users.created) != 3 {
		t.Fatalf("Создано пользователей: %d, ожидалось 3", len(users.created))
	}
	for _, u := range users.created {
		if u.ReferredByID != referrerID {
			t.Errorf("ReferredByID = %d, expected %d", u.ReferredByID, referrerID)
		}
	}
	if users.increments != 3 {
		t.Errorf("Счетчик рефералов увеличен %d раз, ожидалось 3", users.increments)
	}

	if len(payments.payments) != 3 {
		t.Fatalf("Создано платежей: %d, ожидалось 3", len(payments.payments))
	}
	for _, p := range payments.payments {
		if p.Amount != 300 || p.Provider != "yookassa" || p.Status != common.PaymentStatusSucceeded {
			t.Errorf("Платеж = %+v, ожидалось amount=300, provider=yookassa, status=succeeded", p)
		}
	}
}

// TestRun_ReferrerNotFound тестирует фатальный останов до каких-либо записей
func TestRun_ReferrerNotFound(t *testing.T) {
	users := &fakeUserStore{existing: map[int64]*common.User{}}
	payments := &fakePaymentStore{}
	bonuses := &fakeBonusApplier{}

	runner := newTestRunner(users, payments, bonuses, 10)
	summary, err := runner.Run(Params{ReferrerID: 404, Count: 3, Amount: 300, Provider: "yookassa"})

	if err == nil {
		t.Fatal("Run() = nil, ожидалась ошибка для отсутствующего пригласившего")
	}
	var notFoundErr *common.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("Run() вернул %T, ожидался *common.NotFoundError", err)
	}
	if summary != nil {
		t.Errorf("Summary = %+v, ожидался nil", summary)
	}
	if users.createCalls != 0 || payments.calls != 0 || len(bonuses.applied) != 0 {
		t.Errorf("Записи при отсутствующем пригласившем: users=%d, payments=%d, bonuses=%d, ожидалось 0",
			users.createCalls, payments.calls, len(bonuses.applied))
	}
}

// TestRun_ValidationBeforeLookup тестирует, что некорректные параметры
// отклоняются до обращения к базе
func TestRun_ValidationBeforeLookup(t *testing.T) {
	users := &fakeUserStore{existing: map[int64]*common.User{}}
	runner := newTestRunner(users, &fakePaymentStore{}, &fakeBonusApplier{}, 10)

	_, err := runner.Run(Params{ReferrerID: 1, Count: -1, Amount: 300, Provider: "yookassa"})
	var validationErr *common.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Run() вернул %T (%v), ожидался *common.ValidationError", err, err)
	}
	if users.lookupCalls != 0 {
		t.Errorf("Поиск пригласившего вызван %d раз, ожидалось 0", users.lookupCalls)
	}
}

// TestRun_SkipsFailedIteration тестирует, что ошибка на одной итерации
// не прерывает прогон: остальные итерации продолжаются
func TestRun_SkipsFailedIteration(t *testing.T) {
	referrerID := int64(100)

	t.Run("FailedUserCreate", func(t *testing.T) {
		users := &fakeUserStore{
			existing:   map[int64]*common.User{referrerID: {UserID: referrerID}},
			failOnCall: 2,
		}
		payments := &fakePaymentStore{}
		bonuses := &fakeBonusApplier{}

		runner := newTestRunner(users, payments, bonuses, 10)
		summary, err := runner.Run(Params{ReferrerID: referrerID, Count: 3, Amount: 300, Provider: "yookassa"})
		if err != nil {
			t.Fatalf("Run() = %v, ожидался nil", err)
		}

		if summary.Created != 2 || summary.BonusesApplied != 2 {
			t.Errorf("Summary = %+v, ожидалось Created=2, BonusesApplied=2", summary)
		}
		if summary.Requested != 3 {
			t.Errorf("Requested = %d, expected 3", summary.Requested)
		}
		if len(payments.payments) != 2 {
			t.Errorf("Создано платежей: %d, ожидалось 2", len(payments.payments))
		}
	})

	t.Run("FailedPaymentCreate", func(t *testing.T) {
		users := &fakeUserStore{
			existing: map[int64]*common.User{referrerID: {UserID: referrerID}},
		}
		payments := &fakePaymentStore{failOnCall: 1}
		bonuses := &fakeBonusApplier{}

		runner := newTestRunner(users, payments, bonuses, 10)
		summary, err := runner.Run(Params{ReferrerID: referrerID, Count: 3, Amount: 300, Provider: "yookassa"})
		if err != nil {
			t.Fatalf("Run() = %v, ожидался nil", err)
		}

		// Пользователь первой итерации создан, но платеж не удался:
		// итерация не входит в Created и бонус за нее не начисляется
		if summary.Created != 2 || summary.BonusesApplied != 2 {
			t.Errorf("Summary = %+v, ожидалось Created=2, BonusesApplied=2", summary)
		}
		if len(users.created) != 3 {
			t.Errorf("Создано пользователей: %d, ожидалось 3", len(users.created))
		}
	})
}

// TestRun_NonCashProviderNoBonuses тестирует прогон с провайдером вне
// денежной программы: платежи создаются, бонусы не начисляются
func TestRun_NonCashProviderNoBonuses(t *testing.T) {
	referrerID := int64(100)
	users := &fakeUserStore{existing: map[int64]*common.User{referrerID: {UserID: referrerID}}}
	payments := &fakePaymentStore{}
	bonuses := &fakeBonusApplier{}

	runner := newTestRunner(users, payments, bonuses, 10)
	summary, err := runner.Run(Params{ReferrerID: referrerID, Count: 3, Amount: 300, Provider: "unknown_provider"})
	if err != nil {
		t.Fatalf("Run() = %v, ожидался nil", err)
	}

	if summary.Created != 3 {
		t.Errorf("Created = %d, expected 3", summary.Created)
	}
	if summary.BonusesApplied != 0 || summary.BonusTotal != 0 {
		t.Errorf("Summary = %+v, ожидалось BonusesApplied=0, BonusTotal=0", summary)
	}
	if len(payments.payments) != 3 {
		t.Errorf("Создано платежей: %d, ожидалось 3", len(payments.payments))
	}
}

// TestRun_BonusErrorDoesNotUndoCreation тестирует, что ошибка начисления
// бонуса не отменяет созданную пару пользователь+платеж
func TestRun_BonusErrorDoesNotUndoCreation(t *testing.T) {
	referrerID := int64(100)
	users := &fakeUserStore{existing: map[int64]*common.User{referrerID: {UserID: referrerID}}}
	payments := &fakePaymentStore{}
	bonuses := &fakeBonusApplier{err: fmt.Errorf("ошибка начисления бонуса: соединение потеряно")}

	runner := newTestRunner(users, payments, bonuses, 10)
	summary, err := runner.Run(Params{ReferrerID: referrerID, Count: 2, Amount: 300, Provider: "yookassa"})
	if err != nil {
		t.Fatalf("Run() = %v, ожидался nil", err)
	}

	if summary.Created != 2 || summary.BonusesApplied != 0 {
		t.Errorf("Summary = %+v, ожидалось Created=2, BonusesApplied=0", summary)
	}
}
