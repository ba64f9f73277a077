package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"sudaistravel/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
)

const imageBase = "https://source.unsplash.com/600x400/?"

var markdown = goldmark.New()

// Page - данные для отрисовки одной страницы внутри каркаса.
// Заполнено ровно одно из полей Home, Booking, ThankYou.
type Page struct {
	Shell        Shell
	Route        model.Route
	ScrollTarget string
	ScrollDelay  int64 // мс

	Home     *HomePage
	Booking  *BookingPage
	ThankYou *ThankYouPage
}

// Card - направление на главной странице.
type Card struct {
	Name  string
	Image string
}

// PackageCard - тур на главной странице.
type PackageCard struct {
	Title string
	Price string
	Image string
}

// HomePage - главная страница с промо-блоками.
type HomePage struct {
	Hero         string
	Tagline      string
	Brand        string
	Destinations []Card
	Packages     []PackageCard
	About        template.HTML
	Contact      model.Contact
}

// BookingPage - форма бронирования. Draft содержит значения полей по умолчанию
// или введенные ранее, если форма вернулась с ошибкой.
type BookingPage struct {
	Draft model.Booking
	Error string
}

// ThankYouPage - подтверждение заявки. Booking равен nil, если заявки еще не было.
type ThankYouPage struct {
	Booking *model.Booking
}

// NewHomePage готовит главную страницу из контента сайта.
func NewHomePage(site *model.Site) (*HomePage, error) {
	var about bytes.Buffer
	if err := markdown.Convert([]byte(site.About), &about); err != nil {
		return nil, fmt.Errorf("отрисовка блока About: %w", err)
	}

	p := &HomePage{
		Hero:    site.Hero,
		Tagline: site.Tagline,
		Brand:   site.Brand,
		About:   template.HTML(about.String()),
		Contact: site.Contact,
	}
	for _, d := range site.Destinations {
		p.Destinations = append(p.Destinations, Card{Name: d.Name, Image: imageURL(d.Name)})
	}
	for _, pkg := range site.Packages {
		p.Packages = append(p.Packages, PackageCard{
			Title: pkg.Title,
			Price: "$" + humanize.Comma(int64(pkg.Price)),
			Image: imageURL(pkg.Image),
		})
	}
	return p, nil
}

func imageURL(keyword string) string {
	return imageBase + url.PathEscape(keyword) + ",travel"
}

// PageInput - все, что нужно для отрисовки текущей страницы.
type PageInput struct {
	Site         *model.Site
	Route        model.Route
	MenuOpen     bool
	Booking      *model.Booking // последнее бронирование
	Draft        model.Booking  // значения формы бронирования
	FormError    string
	ScrollTarget string
	ScrollDelay  time.Duration
	Now          time.Time
}

// NewPage собирает каркас и ровно одну страницу для маршрута in.Route.
func NewPage(in PageInput) (Page, error) {
	p := Page{
		Shell:        NewShell(in.Site.Brand, in.Route, in.MenuOpen, in.Now),
		Route:        in.Route,
		ScrollTarget: in.ScrollTarget,
		ScrollDelay:  in.ScrollDelay.Milliseconds(),
	}
	switch in.Route {
	case model.RouteHome:
		home, err := NewHomePage(in.Site)
		if err != nil {
			return Page{}, err
		}
		p.Home = home
	case model.RouteBooking:
		p.Booking = &BookingPage{Draft: in.Draft, Error: in.FormError}
	case model.RouteThankYou:
		p.ThankYou = &ThankYouPage{Booking: in.Booking}
	default:
		return Page{}, fmt.Errorf("нет страницы для маршрута %q", in.Route)
	}
	return p, nil
}
