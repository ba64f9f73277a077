package service

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"sudaistravel/internal/model"
)

type scrollRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (s *scrollRecorder) ScrollTo(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
}

func (s *scrollRecorder) got() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

// manualTimers собирает запланированные функции, чтобы тест сам решал, когда они сработают.
type manualTimers struct {
	pending []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) func() bool {
	t := &manualTimer{d: d, f: f}
	m.pending = append(m.pending, t)
	return func() bool {
		was := !t.stopped
		t.stopped = true
		return was
	}
}

// elapse запускает все неотмененные таймеры, даже если их отмена запоздала.
func (m *manualTimers) elapse(includeStopped bool) {
	timers := m.pending
	m.pending = nil
	for _, t := range timers {
		if !t.stopped || includeStopped {
			t.f()
		}
	}
}

func newTestCoordinator() (*Coordinator, *scrollRecorder, *manualTimers) {
	s := &scrollRecorder{}
	timers := &manualTimers{}
	return NewCoordinator(s).WithAfterFunc(timers.AfterFunc), s, timers
}

func TestCoordinator_InitialState(t *testing.T) {
	c, _, _ := newTestCoordinator()

	want := model.RouteState{Path: model.RouteHome}
	if got := c.State(); got != want {
		t.Fatalf("wanted: %+v\ngot: %+v", want, got)
	}
	if c.Booking() != nil {
		t.Fatalf("wanted: nil booking\ngot: %+v", c.Booking())
	}
}

func TestCoordinator_Navigate(t *testing.T) {
	t.Run("should reach every page", func(t *testing.T) {
		for _, r := range []model.Route{model.RouteBooking, model.RouteThankYou, model.RouteHome} {
			c, _, _ := newTestCoordinator()
			if err := c.Navigate(r, ""); err != nil {
				t.Fatalf("wanted: nil\ngot: %v", err)
			}
			if got := c.State(); got != (model.RouteState{Path: r}) {
				t.Fatalf("wanted: %q\ngot: %+v", r, got)
			}
		}
	})

	t.Run("should reject unknown pages", func(t *testing.T) {
		c, _, _ := newTestCoordinator()
		err := c.Navigate("/admin", "")
		if !errors.Is(err, ErrUnknownRoute) {
			t.Fatalf("wanted: %v\ngot: %v", ErrUnknownRoute, err)
		}
		if got := c.State().Path; got != model.RouteHome {
			t.Fatalf("wanted state untouched\ngot: %q", got)
		}
	})

	t.Run("should go home and scroll after the delay when an anchor is clicked elsewhere", func(t *testing.T) {
		c, s, timers := newTestCoordinator()
		c.Navigate(model.RouteBooking, "")

		c.Navigate(model.RouteHome, "#packages")

		want := model.RouteState{Path: model.RouteHome, PendingAnchor: "packages"}
		if got := c.State(); got != want {
			t.Fatalf("wanted: %+v\ngot: %+v", want, got)
		}
		if len(s.got()) != 0 {
			t.Fatalf("wanted no scroll before the delay\ngot: %v", s.got())
		}
		if len(timers.pending) != 1 || timers.pending[0].d != ScrollDelay {
			t.Fatalf("wanted one timer of %v\ngot: %+v", ScrollDelay, timers.pending)
		}

		timers.elapse(false)

		if got := s.got(); !reflect.DeepEqual(got, []string{"packages"}) {
			t.Fatalf("wanted: [packages]\ngot: %v", got)
		}
		if got := c.State(); got != (model.RouteState{Path: model.RouteHome}) {
			t.Fatalf("wanted anchor consumed\ngot: %+v", got)
		}
	})

	t.Run("should force home when an anchor accompanies another path", func(t *testing.T) {
		c, _, _ := newTestCoordinator()
		c.Navigate(model.RouteThankYou, "")

		c.Navigate(model.RouteBooking, "#about")

		want := model.RouteState{Path: model.RouteHome, PendingAnchor: "about"}
		if got := c.State(); got != want {
			t.Fatalf("wanted: %+v\ngot: %+v", want, got)
		}
	})

	t.Run("should scroll immediately without a state change when already home", func(t *testing.T) {
		c, s, timers := newTestCoordinator()

		c.Navigate(model.RouteHome, "#contact")

		if got := s.got(); !reflect.DeepEqual(got, []string{"contact"}) {
			t.Fatalf("wanted: [contact]\ngot: %v", got)
		}
		if got := c.State(); got != (model.RouteState{Path: model.RouteHome}) {
			t.Fatalf("wanted: home without anchor\ngot: %+v", got)
		}
		if len(timers.pending) != 0 {
			t.Fatalf("wanted no timers\ngot: %d", len(timers.pending))
		}
	})

	t.Run("should cancel a pending scroll when navigating again", func(t *testing.T) {
		c, s, timers := newTestCoordinator()
		c.Navigate(model.RouteBooking, "")
		c.Navigate(model.RouteHome, "#packages")

		c.Navigate(model.RouteBooking, "")
		timers.elapse(true)

		if got := s.got(); len(got) != 0 {
			t.Fatalf("wanted no stale scroll\ngot: %v", got)
		}
	})

	t.Run("should only apply the latest anchor after rapid re-navigation", func(t *testing.T) {
		c, s, timers := newTestCoordinator()
		c.Navigate(model.RouteBooking, "")
		c.Navigate(model.RouteHome, "#packages")
		c.Navigate(model.RouteBooking, "")
		c.Navigate(model.RouteHome, "#about")

		timers.elapse(true)

		if got := s.got(); !reflect.DeepEqual(got, []string{"about"}) {
			t.Fatalf("wanted: [about]\ngot: %v", got)
		}
	})

	t.Run("should not scroll twice after the anchor is consumed", func(t *testing.T) {
		c, s, timers := newTestCoordinator()
		c.Navigate(model.RouteBooking, "")
		c.Navigate(model.RouteHome, "#destinations")

		timers.elapse(false)
		c.Flush()
		c.Flush()

		if got := s.got(); len(got) != 1 {
			t.Fatalf("wanted exactly one scroll\ngot: %v", got)
		}
	})
}

func TestCoordinator_Flush(t *testing.T) {
	t.Run("should fire the pending scroll now and drop the timer", func(t *testing.T) {
		c, s, timers := newTestCoordinator()
		c.Navigate(model.RouteBooking, "")
		c.Navigate(model.RouteHome, "#packages")

		c.Flush()
		timers.elapse(true)

		if got := s.got(); !reflect.DeepEqual(got, []string{"packages"}) {
			t.Fatalf("wanted: [packages]\ngot: %v", got)
		}
	})

	t.Run("should do nothing without a pending anchor", func(t *testing.T) {
		c, s, _ := newTestCoordinator()
		c.Flush()
		if got := s.got(); len(got) != 0 {
			t.Fatalf("wanted no scroll\ngot: %v", got)
		}
	})
}

func TestCoordinator_Close(t *testing.T) {
	c, s, timers := newTestCoordinator()
	c.Navigate(model.RouteBooking, "")
	c.Navigate(model.RouteHome, "#packages")

	c.Close()
	timers.elapse(true)

	if got := s.got(); len(got) != 0 {
		t.Fatalf("wanted no scroll after close\ngot: %v", got)
	}
}

func TestCoordinator_SubmitBooking(t *testing.T) {
	t.Run("should go to thank-you with the submitted booking", func(t *testing.T) {
		c, _, _ := newTestCoordinator()
		c.Navigate(model.RouteBooking, "")
		b := model.Booking{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-1234", Destination: "Bali", Date: "2024-06-01"}

		c.SubmitBooking(b)

		if got := c.State(); got != (model.RouteState{Path: model.RouteThankYou}) {
			t.Fatalf("wanted: thank-you\ngot: %+v", got)
		}
		if got := c.Booking(); got == nil || *got != b {
			t.Fatalf("wanted: %+v\ngot: %+v", b, got)
		}
	})

	t.Run("should replace the previous booking entirely", func(t *testing.T) {
		c, _, _ := newTestCoordinator()
		c.SubmitBooking(model.Booking{Name: "Old", Email: "old@example.com", Phone: "1", Destination: "Paris", Date: "2024-01-01", Notes: "old notes"})
		c.Navigate(model.RouteBooking, "")
		second := model.Booking{Name: "New", Email: "new@example.com", Phone: "2", Destination: "Dubai", Date: "2024-02-02"}

		c.SubmitBooking(second)

		if got := c.Booking(); *got != second {
			t.Fatalf("wanted: %+v\ngot: %+v", second, got)
		}
	})

	t.Run("should hand out copies", func(t *testing.T) {
		c, _, _ := newTestCoordinator()
		c.SubmitBooking(model.Booking{Name: "Jane"})

		c.Booking().Name = "Mallory"

		if got := c.Booking().Name; got != "Jane" {
			t.Fatalf("wanted: %q\ngot: %q", "Jane", got)
		}
	})
}

func TestCoordinator_Restore(t *testing.T) {
	c, s, timers := newTestCoordinator()
	b := &model.Booking{Name: "Jane"}

	c.Restore(model.RouteState{Path: model.RouteHome, PendingAnchor: "about"}, b)
	b.Name = "changed"

	if len(timers.pending) != 0 {
		t.Fatalf("wanted no timer on restore\ngot: %d", len(timers.pending))
	}
	if got := c.Booking().Name; got != "Jane" {
		t.Fatalf("wanted: %q\ngot: %q", "Jane", got)
	}
	c.Flush()
	if got := s.got(); !reflect.DeepEqual(got, []string{"about"}) {
		t.Fatalf("wanted: [about]\ngot: %v", got)
	}
}

func TestCoordinator_RealTimer(t *testing.T) {
	s := &scrollRecorder{}
	c := NewCoordinator(s)
	c.Navigate(model.RouteBooking, "")
	c.Navigate(model.RouteHome, "#packages")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.got()) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("wanted scroll after %v\ngot: %v", ScrollDelay, s.got())
}
