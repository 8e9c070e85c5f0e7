// Package reputation — service.go содержит бизнес-логику начисления очков.
package reputation

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/common"
	"leobot.dev/discord-bot/internal/config"
	"leobot.dev/discord-bot/internal/obs"
)

// Service управляет журналом репутации.
type Service struct {
	store Store
	cfg   *config.Config
}

// NewService создаёт сервис репутации.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// GiveRep начисляет очки по запросу.
//
// Для реакций сначала выполняется быстрая проверка дубликата; гонку двух
// одновременных реакций закрывает уникальный индекс хранилища, поэтому
// common.ErrDuplicateGrant из Append — тоже ожидаемый no-op, а не сбой.
// Ошибки хранилища не ретраятся: запрос падает сразу, решение об
// уведомлении пользователя принимает вызывающий.
func (s *Service) GiveRep(ctx context.Context, req GrantRequest) (Event, error) {
	if req.RecipientID == "" {
		return Event{}, common.ErrNoRecipient
	}

	if req.Trigger == TriggerReaction {
		exists, err := s.store.ExistsReactionGrant(ctx, req.MessageID, req.GiverID)
		if err != nil {
			return Event{}, err
		}
		if exists {
			obs.DuplicateGrant()
			return Event{}, common.ErrDuplicateGrant
		}
	}

	e, err := s.store.Append(ctx, buildEvent(req))
	if err != nil {
		if errors.Is(err, common.ErrDuplicateGrant) {
			obs.DuplicateGrant()
			return Event{}, common.ErrDuplicateGrant
		}
		return Event{}, err
	}

	obs.GrantAppended(string(req.Trigger))
	log.WithFields(log.Fields{
		"recipient": e.RecipientID,
		"delta":     e.Delta,
		"trigger":   e.Trigger,
	}).Debug("rep granted")

	return e, nil
}

// Score возвращает счёт и ранг пользователя.
// Для пользователя без записей — нулевая запись (Score 0, Rank 0).
func (s *Service) Score(ctx context.Context, userID string) (ScoreRecord, error) {
	return s.store.ScoreOf(ctx, userID)
}

// buildEvent переводит запрос в запись журнала:
// пустые строки становятся NULL-полями.
func buildEvent(req GrantRequest) Event {
	e := Event{
		RecipientID: req.RecipientID,
		Delta:       req.Delta,
		Trigger:     req.Trigger,
	}
	if req.Reason != "" {
		reason := req.Reason
		e.Reason = &reason
	}
	if req.GiverID != "" {
		giver := req.GiverID
		e.GiverID = &giver
	}
	if req.ChannelID != "" {
		ch := req.ChannelID
		e.ChannelID = &ch
	}
	if req.MessageID != "" {
		msg := req.MessageID
		e.MessageID = &msg
	}
	return e
}
