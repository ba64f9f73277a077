package service

import (
	"context"
	"log/slog"
	"time"

	"sudaistravel/internal/format"
	"sudaistravel/internal/model"
)

// notifyTimeout ограничивает отправку уведомления агентству.
const notifyTimeout = 10 * time.Second

// BookingNotifier сообщает агентству о новой заявке.
type BookingNotifier interface {
	NotifyBooking(ctx context.Context, b model.Booking) error
}

// BookingService содержит бизнес-логику, связанную с бронированиями.
type BookingService struct {
	notifier BookingNotifier
	logger   *slog.Logger
	wait     func(func())
}

// NewBookingService создает новый сервис бронирований. notifier может быть nil.
func NewBookingService(notifier BookingNotifier, logger *slog.Logger) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		notifier: notifier,
		logger:   logger,
		wait:     func(f func()) { go f() },
	}
}

// NewDraft возвращает пустую форму бронирования с сегодняшней датой.
func (s *BookingService) NewDraft() model.Booking {
	return model.Booking{Date: format.Today()}
}

// Submit фиксирует заявку в сессии и переводит посетителя на страницу благодарности.
// Уведомление агентству отправляется в фоне, его ошибка только логируется.
func (s *BookingService) Submit(ctx context.Context, sess *Session, b model.Booking) {
	sess.Coordinator.SubmitBooking(b)
	s.logger.Info("получена заявка на бронирование", "session", sess.ID, "destination", b.Destination, "date", b.Date)

	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.wait(func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyBooking(ctx, b); err != nil {
			s.logger.Warn("не удалось уведомить агентство", "session", sess.ID, "error", err)
		}
	})
}
