// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики discordgo, регистрирует слэш-команды
// и маршрутизирует события к фичам.
package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/bot/filters"
	"leobot.dev/discord-bot/internal/bot/middleware"
	"leobot.dev/discord-bot/internal/config"
	"leobot.dev/discord-bot/internal/features/packages"
	"leobot.dev/discord-bot/internal/features/reputation"
	"leobot.dev/discord-bot/internal/obs"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config

	guildFilter *filters.GuildFilter
	rateLimiter *middleware.RateLimiter

	repHandler *reputation.Handler
	pkgHandler *packages.Handler

	// ограничитель параллелизма обработки событий
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	session *discordgo.Session,
	cfg *config.Config,
	repHandler *reputation.Handler,
	pkgHandler *packages.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		session:     session,
		cfg:         cfg,
		guildFilter: filters.NewGuildFilter(cfg.GuildID),
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		repHandler:  repHandler,
		pkgHandler:  pkgHandler,
		inflight:    make(chan struct{}, maxInFlight),
	}
}

// Start подключает обработчики, открывает gateway-сессию
// и регистрирует слэш-команды. Блокируется до отмены контекста.
func (b *Bot) Start(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.handle(ctx, func() { b.handleMessage(ctx, m) })
	})
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		b.handle(ctx, func() { b.handleReaction(ctx, r) })
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handle(ctx, func() { b.handleInteraction(ctx, i) })
	})

	if err := b.session.Open(); err != nil {
		return err
	}
	log.WithField("user", b.session.State.User.Username).Info("Авторизован в Discord")

	if err := b.registerCommands(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"guild_id":     b.cfg.GuildID,
	}).Info("Бот запущен и ожидает события...")

	<-ctx.Done()
	log.Info("Бот останавливается (ctx done)...")
	b.rateLimiter.Close()
	return b.session.Close()
}

// handle оборачивает обработку события: лимит параллелизма,
// восстановление после паники, метрика событий в полёте.
func (b *Bot) handle(ctx context.Context, fn func()) {
	select {
	case b.inflight <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-b.inflight }()
	defer middleware.RecoverFromPanic()

	obs.EventStarted()
	defer obs.EventFinished()

	fn()
}

// handleMessage обрабатывает новое сообщение: триггер-фразы благодарности.
func (b *Bot) handleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Content == "" {
		return
	}
	if !b.guildFilter.Allow(m.GuildID) {
		return
	}

	middleware.LogMessage(m)

	if !b.cfg.FeatureMessageRep {
		return
	}
	if !b.rateLimiter.Allow(m.Author.ID) {
		log.WithField("user_id", m.Author.ID).Debug("rate limited")
		return
	}

	b.repHandler.HandleMessage(ctx, m)
}

// handleReaction обрабатывает добавление реакции.
func (b *Bot) handleReaction(ctx context.Context, r *discordgo.MessageReactionAdd) {
	if !b.guildFilter.Allow(r.GuildID) {
		return
	}

	middleware.LogReaction(r)

	if !b.cfg.FeatureReactionRep {
		return
	}
	if !b.rateLimiter.Allow(r.UserID) {
		log.WithField("user_id", r.UserID).Debug("rate limited")
		return
	}

	b.repHandler.HandleReaction(ctx, r)
}

// handleInteraction маршрутизирует слэш-команды и кнопки.
func (b *Bot) handleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if !b.guildFilter.Allow(i.GuildID) {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	middleware.LogInteraction(i)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.routeCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, "page:") {
			b.repHandler.HandlePageComponent(ctx, i, customID)
		}
	}
}

// routeCommand маршрутизирует слэш-команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	log.WithField("command", data.Name).Debug("routing command")

	switch data.Name {
	case "rep":
		if len(data.Options) == 0 {
			return
		}
		sub := data.Options[0]
		opts := reputation.ParseOptions(sub.Options)
		switch sub.Name {
		case "give":
			b.repHandler.HandleGiveCommand(ctx, i, opts)
		case "check":
			b.repHandler.HandleCheckCommand(ctx, i, opts)
		case "scoreboard":
			b.repHandler.HandleScoreboardCommand(ctx, i, opts)
		}

	case "package":
		if !b.cfg.FeaturePackages {
			return
		}
		opts := reputation.ParseOptions(data.Options)
		var name, manifest string
		if o, ok := opts["name"]; ok {
			name = o.StringValue()
		}
		if o, ok := opts["manifest"]; ok {
			manifest = o.StringValue()
		}
		b.pkgHandler.HandlePackageCommand(ctx, i, name, manifest)
	}
}

// registerCommands регистрирует слэш-команды на настроенном сервере.
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "rep",
			Description: "Reputation points",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "give",
					Description: "Give reputation points to a user",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Who receives the points", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "How many points (default 1)"},
						{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why they deserve it"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "check",
					Description: "Check a user's score and rank",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Whose score to check"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "scoreboard",
					Description: "Show the scoreboard",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "page", Description: "Page number"},
					},
				},
			},
		},
		{
			Name:        "package",
			Description: "Look up a Foundry VTT package",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Package name", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "manifest", Description: "Manifest URL for self-hosted packages"},
			},
		},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.cfg.GuildID, cmd); err != nil {
			return err
		}
		log.WithField("command", cmd.Name).Info("Слэш-команда зарегистрирована")
	}
	return nil
}

// SendMessageToChannel отправляет сообщение в канал (для сводок).
func (b *Bot) SendMessageToChannel(channelID, text string) {
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Debug("Не удалось отправить сообщение")
	} else {
		log.WithField("channel_id", channelID).Debug("message sent")
	}
}
