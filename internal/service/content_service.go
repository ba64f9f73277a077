package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"sudaistravel/internal/model"
	"sudaistravel/internal/repository"

	"github.com/fsnotify/fsnotify"
)

// ContentService отдает актуальный контент сайта.
type ContentService struct {
	contentRepo *repository.ContentRepository
	site        atomic.Pointer[model.Site]
	logger      *slog.Logger
}

// NewContentService создает сервис и сразу загружает контент.
func NewContentService(contentRepo *repository.ContentRepository, logger *slog.Logger) (*ContentService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ContentService{contentRepo: contentRepo, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Site возвращает текущий контент. Возвращаемое значение нельзя изменять.
func (s *ContentService) Site() *model.Site {
	return s.site.Load()
}

// Reload перечитывает контент. При ошибке остается прежняя версия.
func (s *ContentService) Reload() error {
	site, err := s.contentRepo.Load()
	if err != nil {
		return err
	}
	s.site.Store(site)
	return nil
}

// Watch перечитывает контент при изменении файла, пока не отменен ctx.
// Для встроенного контента ничего не делает.
func (s *ContentService) Watch(ctx context.Context) error {
	path := s.contentRepo.Path()
	if path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("создание наблюдателя за контентом: %w", err)
	}
	defer watcher.Close()

	// Следим за каталогом: редакторы часто заменяют файл целиком.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("наблюдение за %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("контент не перечитан", "path", path, "error", err)
				continue
			}
			s.logger.Info("контент перечитан", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				s.logger.Warn("ошибка наблюдения за контентом", "error", err)
			}
		}
	}
}
