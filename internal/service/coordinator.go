package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"sudaistravel/internal/model"
)

// ScrollDelay - задержка перед прокруткой к якорю после перехода на главную,
// чтобы новый контент успел отрисоваться.
const ScrollDelay = 50 * time.Millisecond

// ErrUnknownRoute возвращается при переходе на несуществующую страницу.
var ErrUnknownRoute = errors.New("неизвестная страница")

// Scroller прокручивает страницу к секции с указанным id.
type Scroller interface {
	ScrollTo(id string)
}

// AfterFunc планирует f через d и возвращает функцию отмены.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Coordinator хранит единственное общее состояние сайта: текущую страницу,
// ожидающий якорь и последнее бронирование. Меняется только через Navigate и SubmitBooking.
type Coordinator struct {
	mu       sync.Mutex
	state    model.RouteState
	booking  *model.Booking
	scroller Scroller
	after    AfterFunc
	stop     func() bool
	gen      uint64
}

// NewCoordinator создает координатор в начальном состоянии: главная страница, без бронирования.
func NewCoordinator(scroller Scroller) *Coordinator {
	return &Coordinator{
		state:    model.RouteState{Path: model.RouteHome},
		scroller: scroller,
		after:    timeAfterFunc,
	}
}

// WithAfterFunc подменяет планировщик отложенной прокрутки.
func (c *Coordinator) WithAfterFunc(f AfterFunc) *Coordinator {
	c.after = f
	return c
}

// State возвращает текущее состояние навигации.
func (c *Coordinator) State() model.RouteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Booking возвращает копию последнего бронирования или nil.
func (c *Coordinator) Booking() *model.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.booking == nil {
		return nil
	}
	b := *c.booking
	return &b
}

// Restore восстанавливает сохраненное состояние без запуска таймера.
// Ожидающий якорь будет прокручен при следующем Flush.
func (c *Coordinator) Restore(state model.RouteState, booking *model.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	if state.Path != model.RouteHome {
		state.PendingAnchor = ""
	}
	c.state = state
	c.booking = nil
	if booking != nil {
		b := *booking
		c.booking = &b
	}
}

// Navigate переходит на страницу path. Непустой hash означает ссылку на секцию
// главной страницы: с другой страницы сначала выполняется переход на главную
// и откладывается прокрутка, а на главной прокрутка выполняется сразу.
func (c *Coordinator) Navigate(path model.Route, hash string) error {
	if _, ok := model.ParseRoute(string(path)); !ok {
		return ErrUnknownRoute
	}
	anchor := strings.TrimPrefix(hash, "#")

	c.mu.Lock()
	if anchor != "" && c.state.Path == model.RouteHome {
		c.mu.Unlock()
		c.scroll(anchor)
		return nil
	}

	c.cancelLocked()
	if anchor == "" {
		c.state = model.RouteState{Path: path}
		c.mu.Unlock()
		return nil
	}

	c.state = model.RouteState{Path: model.RouteHome, PendingAnchor: anchor}
	gen := c.gen
	c.stop = c.after(ScrollDelay, func() { c.fire(gen) })
	c.mu.Unlock()
	return nil
}

// SubmitBooking сохраняет b как текущее бронирование и переходит на страницу благодарности.
func (c *Coordinator) SubmitBooking(b model.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.booking = &b
	c.state = model.RouteState{Path: model.RouteThankYou}
}

// Flush немедленно выполняет отложенную прокрутку, если она есть.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	anchor := c.consumeLocked()
	c.mu.Unlock()
	if anchor != "" {
		c.scroll(anchor)
	}
}

// Close отменяет отложенную прокрутку.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	anchor := c.consumeLocked()
	c.mu.Unlock()
	if anchor != "" {
		c.scroll(anchor)
	}
}

// consumeLocked снимает ожидающий якорь и отменяет таймер.
func (c *Coordinator) consumeLocked() string {
	if c.state.Path != model.RouteHome || c.state.PendingAnchor == "" {
		return ""
	}
	anchor := c.state.PendingAnchor
	c.cancelLocked()
	c.state = model.RouteState{Path: model.RouteHome}
	return anchor
}

func (c *Coordinator) cancelLocked() {
	c.gen++
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *Coordinator) scroll(anchor string) {
	if c.scroller != nil {
		c.scroller.ScrollTo(anchor)
	}
}
