package referral

import "sort"

// Провайдеры, за платежи которых пригласившему начисляется денежный бонус.
// Список принадлежит платежному слою бота и должен совпадать с ним
const (
	ProviderYookassa  = "yookassa"
	ProviderFreekassa = "freekassa"
	ProviderSeverpay  = "severpay"
	ProviderPlatega   = "platega"
)

var cashProviders = map[string]bool{
	ProviderYookassa:  true,
	ProviderFreekassa: true,
	ProviderSeverpay:  true,
	ProviderPlatega:   true,
}

// IsCashProvider проверяет, участвует ли провайдер в денежной реферальной программе
func IsCashProvider(provider string) bool {
	return cashProviders[provider]
}

// CashProviders возвращает отсортированный список провайдеров денежной программы
func CashProviders() []string {
	providers := make([]string, 0, len(cashProviders))
	for p := range cashProviders {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}
