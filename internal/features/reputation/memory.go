// Package reputation — memory.go: реализация Store в памяти.
// Используется в тестах и как образец семантики для Postgres-реализации:
// обе обязаны вести себя одинаково (дедупликация реакций, плотный ранг,
// стабильный порядок при равных счетах).
package reputation

import (
	"context"
	"sort"
	"sync"
	"time"

	"leobot.dev/discord-bot/internal/common"
)

// InMemory реализует Store в памяти с потокобезопасностью.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	events []Event
	// быстрый индекс дедупликации: "messageID/giverID" → есть запись-реакция
	reactions map[string]struct{}
	// отображаемые теги (аналог таблицы members)
	tags map[string]string
}

// NewInMemory создаёт пустой журнал в памяти.
func NewInMemory() *InMemory {
	return &InMemory{
		nextID:    1,
		reactions: make(map[string]struct{}),
		tags:      make(map[string]string),
	}
}

// SetTag задаёт отображаемый тег пользователя (аналог upsert в members).
func (s *InMemory) SetTag(userID, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[userID] = tag
}

func reactionKey(messageID, giverID string) string {
	return messageID + "/" + giverID
}

func (s *InMemory) Append(ctx context.Context, e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Trigger == TriggerReaction && e.MessageID != nil && e.GiverID != nil {
		key := reactionKey(*e.MessageID, *e.GiverID)
		if _, ok := s.reactions[key]; ok {
			return Event{}, common.ErrDuplicateGrant
		}
		s.reactions[key] = struct{}{}
	}

	e.ID = s.nextID
	s.nextID++
	e.CreatedAt = time.Now().UTC()
	s.events = append(s.events, e)
	return e, nil
}

func (s *InMemory) ExistsReactionGrant(ctx context.Context, messageID, giverID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reactions[reactionKey(messageID, giverID)]
	return ok, nil
}

func (s *InMemory) ScoreOf(ctx context.Context, userID string) (ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.ranked() {
		if rec.UserID == userID {
			return rec, nil
		}
	}
	return ScoreRecord{UserID: userID}, nil
}

func (s *InMemory) PageScores(ctx context.Context, offset, limit int) ([]ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ranked := s.ranked()
	if offset >= len(ranked) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	out := make([]ScoreRecord, end-offset)
	copy(out, ranked[offset:end])
	return out, nil
}

func (s *InMemory) CountRanked(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.events {
		seen[e.RecipientID] = struct{}{}
	}
	return int64(len(seen)), nil
}

// ranked пересчитывает рейтинг из журнала: сумма очков на пользователя,
// сортировка по убыванию счёта (при равенстве — по первой записи),
// плотный ранг. Вызывается под блокировкой.
func (s *InMemory) ranked() []ScoreRecord {
	type agg struct {
		score   int64
		firstID int64
	}
	byUser := make(map[string]*agg)
	for _, e := range s.events {
		a, ok := byUser[e.RecipientID]
		if !ok {
			a = &agg{firstID: e.ID}
			byUser[e.RecipientID] = a
		}
		a.score += int64(e.Delta)
	}

	users := make([]string, 0, len(byUser))
	for id := range byUser {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool {
		a, b := byUser[users[i]], byUser[users[j]]
		if a.score != b.score {
			return a.score > b.score
		}
		return a.firstID < b.firstID
	})

	out := make([]ScoreRecord, 0, len(users))
	var rank int64
	var prevScore int64
	for i, id := range users {
		a := byUser[id]
		if i == 0 || a.score != prevScore {
			rank++
			prevScore = a.score
		}
		out = append(out, ScoreRecord{
			UserID:     id,
			Score:      a.score,
			Rank:       rank,
			DisplayTag: s.tags[id],
		})
	}
	return out
}
