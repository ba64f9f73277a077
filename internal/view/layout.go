package view

import (
	"time"

	"sudaistravel/internal/format"
	"sudaistravel/internal/model"
)

const (
	linkClass       = "hover:text-blue-600 font-medium"
	linkActiveClass = "text-blue-600 font-extrabold border-b-2 border-blue-600"
)

// NavLink - пункт навигации: либо страница (To), либо секция главной (Hash).
type NavLink struct {
	Label string
	To    model.Route
	Hash  string
}

// Target возвращает страницу, на которую ведет ссылка. Якоря всегда ведут на главную.
func (l NavLink) Target() model.Route {
	if l.To != "" {
		return l.To
	}
	return model.RouteHome
}

// NavLinks - навигация сайта в порядке отображения.
var NavLinks = []NavLink{
	{Label: "Destinations", Hash: "#destinations"},
	{Label: "Packages", Hash: "#packages"},
	{Label: "About", Hash: "#about"},
	{Label: "Contact", Hash: "#contact"},
	{Label: "Booking", To: model.RouteBooking},
}

// IsActive сообщает, подсвечивается ли ссылка на текущей странице.
// Якорные ссылки считаются активными все сразу, пока открыта главная:
// положение прокрутки не отслеживается.
func IsActive(current model.Route, l NavLink) bool {
	if l.To != "" && l.To == current {
		return true
	}
	return l.Hash != "" && current == model.RouteHome
}

// NavItem - ссылка навигации, готовая к отрисовке.
type NavItem struct {
	NavLink
	Active bool
	Class  string
}

// Shell - общий каркас страниц: шапка, навигация, мобильное меню и подвал.
type Shell struct {
	Brand    string
	Route    model.Route
	MenuOpen bool
	Links    []NavItem
	Year     int
}

// NewShell собирает каркас для текущей страницы.
func NewShell(brand string, route model.Route, menuOpen bool, now time.Time) Shell {
	links := make([]NavItem, 0, len(NavLinks))
	for _, l := range NavLinks {
		active := IsActive(route, l)
		activeClass := ""
		if active {
			activeClass = linkActiveClass
		}
		links = append(links, NavItem{
			NavLink: l,
			Active:  active,
			Class:   format.ClassNames(linkClass, activeClass),
		})
	}
	return Shell{
		Brand:    brand,
		Route:    route,
		MenuOpen: menuOpen,
		Links:    links,
		Year:     now.Year(),
	}
}
