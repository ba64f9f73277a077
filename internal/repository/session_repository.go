package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sudaistravel/internal/model"

	"github.com/jmoiron/sqlx"
)

// ErrSessionNotFound возвращается, если снимка сессии нет в базе.
var ErrSessionNotFound = errors.New("сессия не найдена")

type sessionRow struct {
	ID        string         `db:"id"`
	Route     string         `db:"route"`
	Anchor    string         `db:"anchor"`
	MenuOpen  bool           `db:"menu_open"`
	Booking   sql.NullString `db:"booking"`
	ExpiresAt int64          `db:"expires_at"`
}

// SessionRepository обеспечивает доступ к снимкам сессий в базе данных.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository создает новый репозиторий сессий.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get возвращает снимок сессии по ID.
func (r *SessionRepository) Get(ctx context.Context, id string) (*model.SessionSnapshot, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT * FROM sessions WHERE id=?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось получить сессию: %w", err)
	}

	route, ok := model.ParseRoute(row.Route)
	if !ok {
		route = model.RouteHome
	}
	snap := &model.SessionSnapshot{
		ID:        row.ID,
		Route:     model.RouteState{Path: route, PendingAnchor: row.Anchor},
		MenuOpen:  row.MenuOpen,
		ExpiresAt: time.Unix(row.ExpiresAt, 0),
	}
	if row.Booking.Valid {
		var b model.Booking
		if err := json.Unmarshal([]byte(row.Booking.String), &b); err != nil {
			return nil, fmt.Errorf("повреждены данные бронирования сессии: %w", err)
		}
		snap.Booking = &b
	}
	return snap, nil
}

// Save создает или обновляет снимок сессии.
func (r *SessionRepository) Save(ctx context.Context, snap model.SessionSnapshot) error {
	row := sessionRow{
		ID:        snap.ID,
		Route:     string(snap.Route.Path),
		Anchor:    snap.Route.PendingAnchor,
		MenuOpen:  snap.MenuOpen,
		ExpiresAt: snap.ExpiresAt.Unix(),
	}
	if snap.Booking != nil {
		data, err := json.Marshal(snap.Booking)
		if err != nil {
			return fmt.Errorf("не удалось сериализовать бронирование: %w", err)
		}
		row.Booking = sql.NullString{String: string(data), Valid: true}
	}

	query := `INSERT INTO sessions (id, route, anchor, menu_open, booking, expires_at)
		VALUES (:id, :route, :anchor, :menu_open, :booking, :expires_at)
		ON CONFLICT (id) DO UPDATE SET
			route = excluded.route,
			anchor = excluded.anchor,
			menu_open = excluded.menu_open,
			booking = excluded.booking,
			expires_at = excluded.expires_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("не удалось сохранить сессию: %w", err)
	}
	return nil
}

// Delete удаляет снимок сессии.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM sessions WHERE id=?"), id)
	if err != nil {
		return fmt.Errorf("не удалось удалить сессию: %w", err)
	}
	return nil
}

// DeleteExpired удаляет все сессии, истекшие к моменту now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM sessions WHERE expires_at <= ?"), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("не удалось удалить истекшие сессии: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("не удалось получить число удаленных сессий: %w", err)
	}
	return n, nil
}

// Close закрывает соединение с базой.
func (r *SessionRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("не удалось закрыть базу данных: %w", err)
	}
	return nil
}
