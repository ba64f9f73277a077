package repository

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"sudaistravel/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed content/site.yaml
var defaultContent []byte

// ContentRepository загружает контент страниц из YAML-файла.
// Без пути используется встроенный контент.
type ContentRepository struct {
	path string
}

// NewContentRepository создает новый репозиторий контента.
func NewContentRepository(path string) *ContentRepository {
	return &ContentRepository{path: path}
}

// Path возвращает путь к файлу контента или пустую строку.
func (r *ContentRepository) Path() string {
	return r.path
}

// Load читает и разбирает контент сайта.
func (r *ContentRepository) Load() (*model.Site, error) {
	data := defaultContent
	if r.path != "" {
		var err error
		data, err = os.ReadFile(r.path)
		if err != nil {
			return nil, fmt.Errorf("ошибка при чтении контента: %w", err)
		}
	}
	return ParseContent(data)
}

// ParseContent разбирает YAML с контентом и проверяет обязательные поля.
func ParseContent(data []byte) (*model.Site, error) {
	var site model.Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("ошибка при разборе контента: %w", err)
	}
	if site.Brand == "" {
		return nil, errors.New("в контенте не указано название агентства")
	}
	return &site, nil
}
