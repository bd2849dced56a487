package models

// Identity — единственный «credential» посетителя: email, сохранённый в сессии.
// Email не проверяется на реальность, пустая строка означает отсутствие идентичности.
type Identity struct {
	Email string
}

// Present сообщает, есть ли у посетителя сохранённая идентичность.
func (i Identity) Present() bool {
	return i.Email != ""
}

// Profile — тело запроса POST /api/user с данными рождения подписчика.
type Profile struct {
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	BirthYear      int     `json:"birth_year"`
	BirthMonth     int     `json:"birth_month"`
	BirthDay       int     `json:"birth_day"`
	BirthHour      float64 `json:"birth_hour"`
	BirthLatitude  float64 `json:"birth_latitude"`
	BirthLongitude float64 `json:"birth_longitude"`
}
