package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sudaistravel/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

type slowBot struct {
	release chan struct{}
}

func (s *slowBot) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-s.release
	return tgbotapi.Message{}, nil
}

func TestTelegram_NotifyBooking(t *testing.T) {
	b := model.Booking{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-1234", Destination: "Bali", Date: "2024-06-01", Notes: "Late arrival"}

	t.Run("should send the confirmation text to the agency chat", func(t *testing.T) {
		bot := &fakeBot{}
		n := &Telegram{bot: bot, chatID: 42}

		if err := n.NotifyBooking(context.Background(), b); err != nil {
			t.Fatalf("wanted: nil\ngot: %v", err)
		}
		if len(bot.sent) != 1 {
			t.Fatalf("wanted: 1 message\ngot: %d", len(bot.sent))
		}
		msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
		if !ok {
			t.Fatalf("wanted a MessageConfig\ngot: %T", bot.sent[0])
		}
		if msg.ChatID != 42 {
			t.Fatalf("wanted: 42\ngot: %d", msg.ChatID)
		}
		for _, want := range []string{"Name: Jane Doe", "Destination: Bali", "Notes: Late arrival"} {
			if !strings.Contains(msg.Text, want) {
				t.Fatalf("wanted text to contain %q\ngot:\n%s", want, msg.Text)
			}
		}
	})

	t.Run("should wrap send errors", func(t *testing.T) {
		n := &Telegram{bot: &fakeBot{err: errors.New("forbidden")}, chatID: 1}
		if err := n.NotifyBooking(context.Background(), b); err == nil || !strings.Contains(err.Error(), "forbidden") {
			t.Fatalf("wanted wrapped error\ngot: %v", err)
		}
	})

	t.Run("should not send after the context is done", func(t *testing.T) {
		bot := &fakeBot{}
		n := &Telegram{bot: bot, chatID: 1}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := n.NotifyBooking(ctx, b); !errors.Is(err, context.Canceled) {
			t.Fatalf("wanted: %v\ngot: %v", context.Canceled, err)
		}
		if len(bot.sent) != 0 {
			t.Fatalf("wanted nothing sent")
		}
	})

	t.Run("should give up when the deadline passes during send", func(t *testing.T) {
		bot := &slowBot{release: make(chan struct{})}
		defer close(bot.release)
		n := &Telegram{bot: bot, chatID: 1}
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := n.NotifyBooking(ctx, b)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("wanted: %v\ngot: %v", context.DeadlineExceeded, err)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("wanted return soon after the deadline\ngot: %v", elapsed)
		}
	})
}
