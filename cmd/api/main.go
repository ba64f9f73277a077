package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sudaistravel/internal/config"
	"sudaistravel/internal/export"
	"sudaistravel/internal/handler"
	"sudaistravel/internal/logging"
	"sudaistravel/internal/notify"
	"sudaistravel/internal/repository"
	"sudaistravel/internal/service"
	"sudaistravel/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "api",
		Short:        "Сайт Sudais Travel & Tours",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "путь к файлу конфигурации (yaml)")
	flags.String("port", "", "порт HTTP-сервера")
	flags.String("log-level", "", "уровень логирования: DEBUG, INFO, WARN, ERROR")
	flags.String("db-driver", "", "хранилище сессий: memory, sqlite, postgres")
	flags.String("db-path", "", "файл базы sqlite")
	flags.String("content", "", "YAML-файл с контентом сайта")
	flags.Bool("pretty", false, "форматировать HTML")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	// Хранилище сессий
	var store service.SessionStore
	if cfg.DB.Driver != repository.DriverMemory {
		dsn := cfg.DB.Path
		if cfg.DB.Driver == repository.DriverPostgres {
			dsn = repository.PostgresDSN(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Pass, cfg.DB.Name)
		}
		db, err := repository.Open(cfg.DB.Driver, dsn)
		if err != nil {
			logger.Error("не удалось подключиться к базе данных", "driver", cfg.DB.Driver, "error", err)
			return err
		}
		sessionRepo := repository.NewSessionRepository(db)
		defer sessionRepo.Close()
		store = sessionRepo
		logger.Info("сессии хранятся в базе", "driver", cfg.DB.Driver)
	}

	// Инициализируем сервисы
	contentService, err := service.NewContentService(repository.NewContentRepository(cfg.Content.Path), logger)
	if err != nil {
		logger.Error("не удалось загрузить контент", "error", err)
		return err
	}
	if cfg.Content.Watch {
		go func() {
			if err := contentService.Watch(ctx); err != nil {
				logger.Warn("наблюдение за контентом остановлено", "error", err)
			}
		}()
	}

	var notifier service.BookingNotifier
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Error("уведомления в Telegram отключены", "error", err)
		} else {
			notifier = tg
			logger.Info("уведомления в Telegram включены", "bot", tg.BotName())
		}
	}
	bookingService := service.NewBookingService(notifier, logger)

	sessions := service.NewSessions(store, cfg.Session.TTL, logger)
	defer sessions.Close()
	go sessions.Run(ctx, cfg.Session.PurgeInterval)

	caps := export.NewRegistry()
	if cfg.Export.Document == "pdf" {
		caps.Register("pdf", export.PDFGenerator{})
	}
	exporter := export.NewExporter(caps, logger)

	renderer, err := view.NewRenderer(cfg.Server.PrettyHTML)
	if err != nil {
		logger.Error("не удалось разобрать шаблоны", "error", err)
		return err
	}

	// Создаем Handler и регистрируем маршруты
	gin.SetMode(gin.ReleaseMode)
	h := handler.NewHandler(sessions, contentService, bookingService, exporter, renderer, logger)
	h.CookieName = cfg.Session.Cookie
	h.CookieMaxAge = cfg.Session.TTL
	router := handler.NewRouter(h, cfg.Server.Compress, logger)

	// Запускаем HTTP-сервер
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("сервер запущен", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ошибка запуска сервера", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка остановки сервера", "error", err)
		return err
	}
	logger.Info("сервер остановлен")
	return nil
}
