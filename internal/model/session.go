package model

import "time"

// SessionSnapshot представляет сохраненное состояние сессии посетителя.
type SessionSnapshot struct {
	ID        string
	Route     RouteState
	MenuOpen  bool
	Booking   *Booking // nil, если бронирование еще не отправлялось
	ExpiresAt time.Time
}
