// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Discord ---
	DiscordBotToken string `envconfig:"DISCORD_BOT_TOKEN" required:"true"`
	// ID сервера, на котором бот работает (единственный разрешённый guild)
	GuildID string `envconfig:"GUILD_ID" required:"true"`

	// --- Репутация ---
	// Эмодзи "+1": реакция этим эмодзи даёт очко автору сообщения.
	PointEmoteID   string `envconfig:"POINT_EMOTE_ID" required:"true"`
	PointEmoteName string `envconfig:"POINT_EMOTE_NAME" default:"plusone"`
	// Как называются очки в ответах бота ("points", "rep", ...)
	PointsName string `envconfig:"POINTS_NAME" default:"points"`

	// Роли Discord, управляющие правами /rep give.
	RoleGiveUnlimited string `envconfig:"ROLE_GIVE_UNLIMITED"`
	RoleGiveMany      string `envconfig:"ROLE_GIVE_MANY"`
	RoleGiveNegative  string `envconfig:"ROLE_GIVE_NEGATIVE"`
	// Максимум очков за одну команду (в обе стороны)
	GiveManyLimit int `envconfig:"GIVE_MANY_LIMIT" default:"10"`

	// Размер страницы таблицы лидеров
	ScoreboardPageSize int `envconfig:"SCOREBOARD_PAGE_SIZE" default:"10"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"discord_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	// --- Bot runtime ---
	// Сколько событий обрабатываем параллельно. Иначе "go на каждое событие" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`

	// --- Metrics ---
	// Адрес HTTP-эндпоинта Prometheus (":9090"). Пустая строка — метрики выключены.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Digest (ежедневная сводка лидеров) ---
	// Канал для публикации сводки. Пустая строка — сводка выключена.
	DigestChannelID string `envconfig:"DIGEST_CHANNEL_ID" default:""`
	DigestCron      string `envconfig:"DIGEST_CRON" default:"0 9 * * *"`
	DigestSize      int    `envconfig:"DIGEST_SIZE" default:"5"`

	// --- Package resolver ---
	// Базовые URL каталогов пакетов. Переопределяются в тестах.
	BazaarBaseURL     string `envconfig:"BAZAAR_BASE_URL" default:"https://forge-vtt.com"`
	FoundryHubBaseURL string `envconfig:"FOUNDRY_HUB_BASE_URL" default:"https://www.foundryvtt-hub.com"`

	// --- Feature Flags ---
	FeatureReactionRep bool `envconfig:"FEATURE_REACTION_REP" default:"true"`
	FeatureMessageRep  bool `envconfig:"FEATURE_MESSAGE_REP" default:"true"`
	FeaturePackages    bool `envconfig:"FEATURE_PACKAGES" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// PointEmoteToken возвращает токен эмодзи "+1" в разметке Discord.
// В ответах бота он заменяет число, когда начислено ровно одно очко.
func (c *Config) PointEmoteToken() string {
	return fmt.Sprintf("<:%s:%s>", c.PointEmoteName, c.PointEmoteID)
}

func (c *Config) Validate() error {
	if c.GuildID == "" {
		return fmt.Errorf("GUILD_ID не задан")
	}
	if c.PointEmoteID == "" {
		return fmt.Errorf("POINT_EMOTE_ID не задан")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.GiveManyLimit <= 0 {
		return fmt.Errorf("GIVE_MANY_LIMIT должен быть > 0")
	}
	if c.ScoreboardPageSize <= 0 {
		return fmt.Errorf("SCOREBOARD_PAGE_SIZE должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
