package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sudaistravel/internal/model"
	"sudaistravel/internal/repository"

	"github.com/google/uuid"
)

// DefaultSessionTTL - время жизни сессии без активности.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore сохраняет снимки сессий между перезапусками сервиса.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.SessionSnapshot, error)
	Save(ctx context.Context, snap model.SessionSnapshot) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ScrollBuffer запоминает секцию, к которой нужно прокрутить страницу при следующей отрисовке.
type ScrollBuffer struct {
	mu     sync.Mutex
	target string
}

// ScrollTo реализует Scroller.
func (b *ScrollBuffer) ScrollTo(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = id
}

// Take возвращает цель прокрутки и очищает буфер.
func (b *ScrollBuffer) Take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.target
	b.target = ""
	return t
}

// Session - состояние одного посетителя: координатор, мобильное меню и прокрутка.
type Session struct {
	ID          string
	Coordinator *Coordinator
	Scroll      *ScrollBuffer

	mu       sync.Mutex
	menuOpen bool
	expires  time.Time
}

func newSession(id string, after AfterFunc) *Session {
	scroll := &ScrollBuffer{}
	c := NewCoordinator(scroll)
	if after != nil {
		c.WithAfterFunc(after)
	}
	return &Session{ID: id, Coordinator: c, Scroll: scroll}
}

// MenuOpen сообщает, открыто ли мобильное меню.
func (s *Session) MenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuOpen
}

// ToggleMenu открывает или закрывает мобильное меню.
func (s *Session) ToggleMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = !s.menuOpen
}

// CloseMenu закрывает мобильное меню.
func (s *Session) CloseMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = false
}

func (s *Session) snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SessionSnapshot{
		ID:        s.ID,
		Route:     s.Coordinator.State(),
		MenuOpen:  s.menuOpen,
		Booking:   s.Coordinator.Booking(),
		ExpiresAt: s.expires,
	}
}

func (s *Session) touch(until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires = until
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.expires.After(now)
}

// Sessions хранит живые сессии посетителей. Если задан store, снимки сессий
// переживают перезапуск сервиса, но не дольше ttl.
type Sessions struct {
	mu     sync.Mutex
	live   map[string]*Session
	store  SessionStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
	after  AfterFunc
}

// NewSessions создает менеджер сессий. store может быть nil - тогда сессии живут только в памяти.
func NewSessions(store SessionStore, ttl time.Duration, logger *slog.Logger) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		live:   make(map[string]*Session),
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get возвращает сессию по id. Если сессии нет или она истекла, создается новая
// с новым id - вызывающий должен сравнить Session.ID с переданным.
func (m *Sessions) Get(ctx context.Context, id string) (*Session, error) {
	now := m.now()

	m.mu.Lock()
	sess, ok := m.live[id]
	if ok && sess.expired(now) {
		delete(m.live, id)
		sess.Coordinator.Close()
		ok = false
	}
	m.mu.Unlock()

	if ok {
		sess.touch(now.Add(m.ttl))
		return sess, nil
	}

	if id != "" && m.store != nil {
		restored, err := m.restore(ctx, id, now)
		if err != nil {
			return nil, err
		}
		if restored != nil {
			return restored, nil
		}
	}

	sess = newSession(uuid.NewString(), m.after)
	sess.touch(now.Add(m.ttl))
	m.mu.Lock()
	m.live[sess.ID] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *Sessions) restore(ctx context.Context, id string, now time.Time) (*Session, error) {
	snap, err := m.store.Get(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("загрузка сессии: %w", err)
	}
	if !snap.ExpiresAt.After(now) {
		return nil, nil
	}

	sess := newSession(snap.ID, m.after)
	sess.Coordinator.Restore(snap.Route, snap.Booking)
	sess.menuOpen = snap.MenuOpen
	sess.touch(now.Add(m.ttl))

	m.mu.Lock()
	defer m.mu.Unlock()
	// Параллельный запрос мог восстановить ту же сессию раньше.
	if existing, ok := m.live[id]; ok {
		sess.Coordinator.Close()
		return existing, nil
	}
	m.live[id] = sess
	m.logger.Debug("сессия восстановлена", "session", id)
	return sess, nil
}

// Save сохраняет снимок сессии, если настроено хранилище.
func (m *Sessions) Save(ctx context.Context, sess *Session) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(ctx, sess.snapshot()); err != nil {
		return fmt.Errorf("сохранение сессии: %w", err)
	}
	return nil
}

// Purge удаляет истекшие сессии из памяти и из хранилища.
func (m *Sessions) Purge(ctx context.Context) error {
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.live {
		if sess.expired(now) {
			expired = append(expired, sess)
			delete(m.live, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Coordinator.Close()
	}

	if m.store == nil {
		return nil
	}
	n, err := m.store.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("очистка сессий: %w", err)
	}
	if n > 0 || len(expired) > 0 {
		m.logger.Debug("истекшие сессии удалены", "live", len(expired), "stored", n)
	}
	return nil
}

// Run периодически вызывает Purge, пока не отменен ctx.
func (m *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Purge(ctx); err != nil {
				m.logger.Warn("не удалось очистить сессии", "error", err)
			}
		}
	}
}

// Close отменяет отложенные действия всех живых сессий.
func (m *Sessions) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.live {
		sess.Coordinator.Close()
		delete(m.live, id)
	}
}

// Len возвращает число живых сессий.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}
