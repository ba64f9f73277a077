// Package config загружает настройки сервиса из файла, переменных окружения и флагов.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port       string `mapstructure:"port"`
	PrettyHTML bool   `mapstructure:"pretty_html"` // форматировать HTML (для отладки)
	Compress   bool   `mapstructure:"compress"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // memory, sqlite или postgres
	Path   string `mapstructure:"path"`   // файл базы для sqlite
	Host   string `mapstructure:"host"`
	Port   string `mapstructure:"port"`
	User   string `mapstructure:"user"`
	Pass   string `mapstructure:"pass"`
	Name   string `mapstructure:"name"`
}

type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	Cookie        string        `mapstructure:"cookie"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

type ExportConfig struct {
	Document string `mapstructure:"document"` // pdf или none
}

type ContentConfig struct {
	Path  string `mapstructure:"path"` // пусто - встроенный контент
	Watch bool   `mapstructure:"watch"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Config - все настройки сервиса.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Session  SessionConfig  `mapstructure:"session"`
	Export   ExportConfig   `mapstructure:"export"`
	Content  ContentConfig  `mapstructure:"content"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// Исторические имена переменных окружения продолжают работать.
var envAliases = map[string]string{
	"server.port":      "API_PORT",
	"db.host":          "DB_HOST",
	"db.port":          "DB_PORT",
	"db.user":          "DB_USER",
	"db.pass":          "DB_PASS",
	"db.name":          "DB_NAME",
	"telegram.token":   "BOT_TOKEN",
	"telegram.chat_id": "BOT_CHAT_ID",
}

// Флаги командной строки и ключи, к которым они привязаны
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "log.level",
	"db-driver": "db.driver",
	"db-path":   "db.path",
	"content":   "content.path",
	"pretty":    "server.pretty_html",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.pretty_html", false)
	v.SetDefault("server.compress", true)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("db.driver", "memory")
	v.SetDefault("db.path", "sessions.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.cookie", "sudais_session")
	v.SetDefault("session.purge_interval", 10*time.Minute)
	v.SetDefault("export.document", "pdf")
	v.SetDefault("content.path", "")
	v.SetDefault("content.watch", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
}

// Load собирает настройки. Приоритет: флаги, окружение (SUDAIS_*), файл, значения по умолчанию.
// path может быть пустым, flags - nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SUDAIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, "SUDAIS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("привязка %s: %w", env, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("привязка флага %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("неизвестный драйвер базы данных %q", c.DB.Driver)
	}
	switch c.Export.Document {
	case "pdf", "none":
	default:
		return fmt.Errorf("неизвестный формат документа %q", c.Export.Document)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl должен быть положительным")
	}
	if c.Session.PurgeInterval <= 0 {
		return errors.New("session.purge_interval должен быть положительным")
	}
	if c.Session.Cookie == "" {
		return errors.New("не указано имя cookie сессии")
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return errors.New("для уведомлений в Telegram нужен telegram.chat_id")
	}
	return nil
}

// Addr возвращает адрес для http-сервера.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
