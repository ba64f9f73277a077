// Package export формирует файл с подтверждением бронирования.
//
// Сначала пробуется "богатый" документ через необязательную возможность
// (генератор документов, зарегистрированный в Registry). Любая ошибка или паника
// на этом пути поглощается, и посетитель получает обычный текстовый файл.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sudaistravel/internal/model"
)

const (
	Title        = "Sudais Travel & Tours - Booking Confirmation"
	Closing      = "Thank you for booking with Sudais Travel & Tours!"
	rule         = "---------------------------------------------"
	DocumentName = "Booking_Confirmation.pdf"
	TextName     = "Booking_Confirmation.txt"
)

// CapabilityNames - общепринятые имена, под которыми ищется генератор документов.
var CapabilityNames = []string{"pdf", "document"}

var errNoCapability = errors.New("генератор документов не зарегистрирован")

// Document - содержимое подтверждения, независимое от формата файла.
type Document struct {
	Title string
	Lines []string
}

// Generator строит файл документа из Document.
type Generator interface {
	Generate(doc Document) ([]byte, error)
}

// Downloader отдает готовый файл посетителю.
type Downloader interface {
	Download(name string, data []byte) error
}

// Registry хранит необязательные возможности окружения по имени.
type Registry struct {
	mu   sync.RWMutex
	gens map[string]Generator
}

// NewRegistry создает пустой реестр.
func NewRegistry() *Registry {
	return &Registry{gens: make(map[string]Generator)}
}

// Register регистрирует генератор под именем name.
func (r *Registry) Register(name string, g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[name] = g
}

// Lookup возвращает первый генератор, найденный под одним из имен.
func (r *Registry) Lookup(names ...string) (Generator, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range names {
		if g, ok := r.gens[n]; ok && g != nil {
			return g, true
		}
	}
	return nil, false
}

// Exporter выгружает подтверждение бронирования.
type Exporter struct {
	caps   *Registry
	logger *slog.Logger
}

// NewExporter создает Exporter. caps может быть nil - тогда всегда используется текст.
func NewExporter(caps *Registry, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{caps: caps, logger: logger}
}

// Export выгружает подтверждение для b через dst и всегда возвращает true.
func (e *Exporter) Export(b model.Booking, dst Downloader) bool {
	err := e.exportDocument(b, dst)
	if err == nil {
		return true
	}
	e.logger.Debug("документ недоступен, выгружаем текст", "error", err)

	if err := dst.Download(TextName, PlainText(b)); err != nil {
		e.logger.Warn("не удалось выгрузить текстовое подтверждение", "error", err)
	}
	return true
}

func (e *Exporter) exportDocument(b model.Booking, dst Downloader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("генерация документа: %v", r)
		}
	}()

	gen, ok := e.caps.Lookup(CapabilityNames...)
	if !ok {
		return errNoCapability
	}
	data, err := gen.Generate(NewDocument(b))
	if err != nil {
		return fmt.Errorf("генерация документа: %w", err)
	}
	if err := dst.Download(DocumentName, data); err != nil {
		return fmt.Errorf("выгрузка документа: %w", err)
	}
	return nil
}

// NewDocument собирает строки подтверждения в фиксированном порядке полей.
// Строка Notes появляется только при непустых примечаниях.
func NewDocument(b model.Booking) Document {
	lines := []string{
		"Name: " + b.Name,
		"Email: " + b.Email,
		"Phone: " + b.Phone,
		"Destination: " + b.Destination,
		"Date: " + b.Date,
	}
	if b.HasNotes() {
		lines = append(lines, "Notes: "+b.Notes)
	}
	lines = append(lines, Closing)
	return Document{Title: Title, Lines: lines}
}

// PlainText возвращает текстовый вариант подтверждения.
func PlainText(b model.Booking) []byte {
	doc := NewDocument(b)
	parts := append([]string{doc.Title, rule}, doc.Lines...)
	return []byte(strings.Join(parts, "\n"))
}
