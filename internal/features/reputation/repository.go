// Package reputation — repository.go выполняет операции с таблицей
// reputation_events. Журнал append-only: только INSERT и SELECT.
package reputation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"leobot.dev/discord-bot/internal/common"
)

// uniqueViolation — код PostgreSQL для нарушения уникальности (23505).
// Частичный уникальный индекс на (message_id, giver_id) WHERE trigger='reaction'
// — авторитетная защита от двойного начисления за одну реакцию.
const uniqueViolation = "23505"

// Repository реализует Store поверх PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала репутации.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал.
// Повторная реакция (нарушение уникального индекса) возвращается
// как common.ErrDuplicateGrant, не как ошибка хранилища.
func (r *Repository) Append(ctx context.Context, e Event) (Event, error) {
	query := `
		INSERT INTO reputation_events (recipient_id, delta, reason, giver_id, channel_id, message_id, trigger)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		e.RecipientID, e.Delta, e.Reason, e.GiverID, e.ChannelID, e.MessageID, string(e.Trigger),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Event{}, common.ErrDuplicateGrant
		}
		return Event{}, fmt.Errorf("ошибка записи в журнал репутации: %w", err)
	}
	return e, nil
}

// ExistsReactionGrant проверяет, начислялось ли уже очко за реакцию
// пользователя giverID на сообщение messageID.
func (r *Repository) ExistsReactionGrant(ctx context.Context, messageID, giverID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reputation_events
			WHERE message_id = $1 AND giver_id = $2 AND trigger = 'reaction'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, messageID, giverID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки дубликата реакции: %w", err)
	}
	return exists, nil
}

// ScoreOf возвращает счёт и плотный ранг пользователя.
// Ранг считается по всему журналу при каждом вызове — никакого
// инкрементального состояния, которое могло бы разойтись с журналом.
func (r *Repository) ScoreOf(ctx context.Context, userID string) (ScoreRecord, error) {
	query := `
		WITH scores AS (
			SELECT recipient_id, SUM(delta) AS score, MIN(id) AS first_id
			FROM reputation_events
			GROUP BY recipient_id
		), ranked AS (
			SELECT recipient_id, score, first_id,
			       DENSE_RANK() OVER (ORDER BY score DESC) AS rank
			FROM scores
		)
		SELECT r.recipient_id, r.score, r.rank, COALESCE(m.tag, '')
		FROM ranked r
		LEFT JOIN members m ON m.user_id = r.recipient_id
		WHERE r.recipient_id = $1
	`
	var s ScoreRecord
	err := r.db.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.Score, &s.Rank, &s.DisplayTag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Нет ни одной записи — нулевая запись, не ошибка
			return ScoreRecord{UserID: userID}, nil
		}
		return ScoreRecord{}, fmt.Errorf("ошибка получения счёта (user_id=%s): %w", userID, err)
	}
	return s, nil
}

// PageScores возвращает срез рейтинга (по возрастанию ранга).
// При равных счетах раньше идёт тот, чья первая запись в журнале старше —
// так повторные запросы одной страницы дают одинаковый порядок.
func (r *Repository) PageScores(ctx context.Context, offset, limit int) ([]ScoreRecord, error) {
	query := `
		WITH scores AS (
			SELECT recipient_id, SUM(delta) AS score, MIN(id) AS first_id
			FROM reputation_events
			GROUP BY recipient_id
		), ranked AS (
			SELECT recipient_id, score, first_id,
			       DENSE_RANK() OVER (ORDER BY score DESC) AS rank
			FROM scores
		)
		SELECT r.recipient_id, r.score, r.rank, COALESCE(m.tag, '')
		FROM ranked r
		LEFT JOIN members m ON m.user_id = r.recipient_id
		ORDER BY r.rank ASC, r.first_id ASC
		OFFSET $1 LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса рейтинга: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var s ScoreRecord
		if err := rows.Scan(&s.UserID, &s.Score, &s.Rank, &s.DisplayTag); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки рейтинга: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк рейтинга: %w", err)
	}
	return out, nil
}

// CountRanked возвращает число пользователей с хотя бы одной записью.
// Нужен пагинатору для вычисления последней страницы.
func (r *Repository) CountRanked(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT recipient_id) FROM reputation_events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта участников рейтинга: %w", err)
	}
	return n, nil
}
