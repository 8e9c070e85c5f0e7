// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневная сводка лидеров.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/config"
	"leobot.dev/discord-bot/internal/features/reputation"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron       *cron.Cron
	repService *reputation.Service
	cfg        *config.Config
	sendFunc   func(channelID, text string)
}

// NewScheduler создаёт планировщик задач с часовым поясом из конфига.
func NewScheduler(repService *reputation.Service, cfg *config.Config, sendFunc func(channelID, text string)) *Scheduler {
	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		log.WithError(err).Warnf("Не удалось загрузить %s, используем UTC", cfg.AppTimezone)
		loc = time.UTC
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		repService: repService,
		cfg:        cfg,
		sendFunc:   sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	if s.cfg.DigestChannelID == "" {
		log.Info("Сводка лидеров выключена (DIGEST_CHANNEL_ID пуст)")
		return
	}

	_, err := s.cron.AddFunc(s.cfg.DigestCron, func() {
		log.Info("[CRON] Сводка лидеров")
		if err := s.postDigest(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка сводки")
		}
	})
	if err != nil {
		log.WithError(err).Error("Некорректное cron-выражение DIGEST_CRON")
		return
	}

	s.cron.Start()
	log.WithField("cron", s.cfg.DigestCron).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// postDigest публикует топ рейтинга в настроенный канал.
func (s *Scheduler) postDigest(ctx context.Context) error {
	page, err := s.repService.RenderPage(ctx, 1, s.cfg.DigestSize)
	if err != nil {
		return err
	}
	if len(page.Rows) == 0 {
		// Пустой рейтинг — нечего публиковать
		return nil
	}

	text := fmt.Sprintf("Today's top %s:\n```\n%s\n```",
		s.cfg.PointsName, reputation.BuildScoreboardTable(page.Rows))
	s.sendFunc(s.cfg.DigestChannelID, text)
	return nil
}
