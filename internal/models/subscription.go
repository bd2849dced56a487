// Package models содержит доменные структуры фронтенда: идентичность посетителя,
// статус подписки, чтения оракула и анкету с данными рождения.
package models

// SubscriptionStatus описывает состояние подписки, которое бэкенд возвращает
// на каждый запрос страницы. Значение никогда не кешируется локально.
type SubscriptionStatus struct {
	IsActive     bool `json:"is_active"`
	HasBirthData bool `json:"has_birth_data"`
}

// InactiveStatus возвращает статус по умолчанию: подписки нет, анкеты нет.
// Отсутствие аккаунта трактуется так же, как неоплаченная подписка.
func InactiveStatus() SubscriptionStatus {
	return SubscriptionStatus{IsActive: false, HasBirthData: false}
}
