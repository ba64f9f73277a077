package model

// Route определяет страницу сайта.
type Route string

const (
	RouteHome     Route = "/"
	RouteBooking  Route = "/booking"
	RouteThankYou Route = "/thankyou"
)

// ParseRoute проверяет, что путь соответствует одной из страниц сайта.
func ParseRoute(path string) (Route, bool) {
	switch r := Route(path); r {
	case RouteHome, RouteBooking, RouteThankYou:
		return r, true
	}
	return "", false
}

// RouteState представляет текущее состояние навигации.
// PendingAnchor имеет смысл только при Path == RouteHome.
type RouteState struct {
	Path          Route
	PendingAnchor string
}
