// Package members — service.go содержит бизнес-логику учёта пользователей.
package members

import (
	"context"
)

// Service управляет учётом пользователей.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис пользователей.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsureMember фиксирует пользователя в БД (insert-or-update).
// Вызывается на каждое событие, где виден пользователь.
func (s *Service) EnsureMember(ctx context.Context, userID, username, tag string, isBot bool) error {
	return s.repo.Upsert(ctx, &Member{
		UserID:   userID,
		Username: username,
		Tag:      tag,
		IsBot:    isBot,
	})
}

// Get возвращает пользователя по Discord ID.
func (s *Service) Get(ctx context.Context, userID string) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}
