package create_reservation

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	GuestID    int64     // ID гостя
	PropertyID int64     // ID объекта
	CheckIn    time.Time // Дата заезда
	CheckOut   time.Time // Дата выезда (не включается)
	Guests     int       // Число гостей
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	PropertyID int64
	GuestID    int64
	CheckIn    time.Time
	CheckOut   time.Time
	Nights     int
	Guests     int
	TotalPrice float64
	Status     string
	CreatedAt  time.Time
}
