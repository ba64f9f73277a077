// Package notify отправляет агентству уведомления о новых заявках.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sudaistravel/internal/export"
	"sudaistravel/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender - часть tgbotapi.BotAPI, которая нужна уведомителю.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram отправляет текст подтверждения в чат агентства.
type Telegram struct {
	bot    sender
	chatID int64
}

// requestTimeout ограничивает каждый запрос к Bot API.
const requestTimeout = 15 * time.Second

// NewTelegram подключается к Telegram Bot API с токеном token.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: requestTimeout})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации бота: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// BotName возвращает имя бота, если он подключен через NewTelegram.
func (t *Telegram) BotName() string {
	if bot, ok := t.bot.(*tgbotapi.BotAPI); ok {
		return bot.Self.UserName
	}
	return ""
}

// NotifyBooking реализует service.BookingNotifier.
func (t *Telegram) NotifyBooking(ctx context.Context, b model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, "Новая заявка на бронирование\n\n"+string(export.PlainText(b)))

	// Send не принимает контекст, поэтому ждем его в отдельной горутине.
	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(msg)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("не удалось отправить уведомление в чат %d: %w", t.chatID, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("уведомление в чат %d не отправлено: %w", t.chatID, ctx.Err())
	}
}
