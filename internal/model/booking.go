package model

// Booking представляет заявку на поездку, отправленную через форму бронирования.
// Все поля текстовые; Date хранится в формате YYYY-MM-DD.
type Booking struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Email       string `form:"email" json:"email" binding:"required,email"`
	Phone       string `form:"phone" json:"phone" binding:"required"`
	Destination string `form:"destination" json:"destination" binding:"required"`
	Date        string `form:"date" json:"date" binding:"required"`
	Notes       string `form:"notes" json:"notes"`
}

// HasNotes сообщает, нужно ли выводить строку с примечаниями.
func (b Booking) HasNotes() bool {
	return b.Notes != ""
}
