// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/bot"
	"leobot.dev/discord-bot/internal/config"
	"leobot.dev/discord-bot/internal/db/postgres"
	"leobot.dev/discord-bot/internal/features/members"
	"leobot.dev/discord-bot/internal/features/packages"
	"leobot.dev/discord-bot/internal/features/reputation"
	"leobot.dev/discord-bot/internal/jobs"
	"leobot.dev/discord-bot/internal/obs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Session   *discordgo.Session
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Discord-сессия ===
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Discord-сессии: %w", err)
	}
	session.LogLevel = discordgo.LogWarning
	if cfg.AppEnv == "development" {
		session.LogLevel = discordgo.LogInformational
	}

	// === 3. Репозитории ===
	memberRepo := members.NewRepository(pool)
	repStore := reputation.NewRepository(pool)

	// === 4. Сервисы ===
	memberService := members.NewService(memberRepo)
	repService := reputation.NewService(repStore, cfg)
	pkgResolver := packages.NewResolver(cfg)

	// === 5. Обработчики ===
	repHandler := reputation.NewHandler(repService, memberService, session, cfg)
	pkgHandler := packages.NewHandler(pkgResolver, session)

	// === 6. Собираем бота ===
	b := bot.New(session, cfg, repHandler, pkgHandler)

	// === 7. Планировщик задач ===
	scheduler := jobs.NewScheduler(repService, cfg, b.SendMessageToChannel)

	// === 8. Метрики ===
	if cfg.MetricsAddr != "" {
		obs.Init()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", obs.Handler())
			log.WithField("addr", cfg.MetricsAddr).Info("Метрики Prometheus включены")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.WithError(err).Error("Сервер метрик остановился")
			}
		}()
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		Session:   session,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return postgres.Migrate(ctx, pool, []postgres.Migration{
		{Version: 1, SQL: migration001Members},
		{Version: 2, SQL: migration002Reputation},
	})
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    id BIGSERIAL PRIMARY KEY,
    user_id VARCHAR(32) UNIQUE NOT NULL,
    username VARCHAR(255) NOT NULL,
    tag VARCHAR(255) NOT NULL,
    is_bot BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
`

var migration002Reputation = `
CREATE TABLE IF NOT EXISTS reputation_events (
    id BIGSERIAL PRIMARY KEY,
    recipient_id VARCHAR(32) NOT NULL,
    delta INTEGER NOT NULL,
    reason TEXT,
    giver_id VARCHAR(32),
    channel_id VARCHAR(32),
    message_id VARCHAR(32),
    trigger VARCHAR(16) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reputation_events_recipient ON reputation_events(recipient_id);
CREATE INDEX IF NOT EXISTS idx_reputation_events_created_at ON reputation_events(created_at DESC);
-- Авторитетная защита от двойного начисления за одну реакцию:
-- на пару (сообщение, реагирующий) допускается не более одной записи-реакции.
CREATE UNIQUE INDEX IF NOT EXISTS uq_reputation_reaction_once
    ON reputation_events(message_id, giver_id) WHERE trigger = 'reaction';
`
