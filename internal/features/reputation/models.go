// Package reputation реализует систему репутации: журнал начислений,
// подсчёт очков и таблицу лидеров.
// models.go описывает структуры журнала и производные записи.
package reputation

import "time"

// TriggerKind — источник начисления очков.
// Каждое начисление помечается тем, откуда оно пришло: реакция,
// триггер-фраза в сообщении или явная команда /rep give.
type TriggerKind string

const (
	TriggerReaction TriggerKind = "reaction"
	TriggerMessage  TriggerKind = "message"
	TriggerCommand  TriggerKind = "command"
)

// Event — одна запись журнала репутации.
// Журнал append-only: записи никогда не изменяются и не удаляются,
// все суммы и ранги выводятся из него заново при каждом запросе.
type Event struct {
	ID          int64       `db:"id"`           // ID записи в БД
	RecipientID string      `db:"recipient_id"` // Кому начислены очки
	Delta       int         `db:"delta"`        // Сколько очков (обычно ±1)
	Reason      *string     `db:"reason"`       // Обоснование (nil — без причины)
	GiverID     *string     `db:"giver_id"`     // Кто начислил (nil — системное начисление)
	ChannelID   *string     `db:"channel_id"`   // Канал исходного сообщения (nil для команд)
	MessageID   *string     `db:"message_id"`   // Исходное сообщение (nil для команд)
	Trigger     TriggerKind `db:"trigger"`      // Источник начисления
	CreatedAt   time.Time   `db:"created_at"`   // Время начисления
}

// ScoreRecord — производная запись счёта. Не хранится в БД:
// вычисляется из журнала на время одного запроса.
//
// Rank — плотный ранг по убыванию счёта: равные счета делят один ранг,
// следующий отличный счёт получает ранг предыдущего + 1.
// Rank == 0 означает «не в рейтинге» (у пользователя нет ни одной записи).
type ScoreRecord struct {
	UserID     string
	Score      int64
	Rank       int64
	DisplayTag string
}

// Ranked сообщает, есть ли пользователь в рейтинге.
func (s ScoreRecord) Ranked() bool {
	return s.Rank > 0
}

// GrantRequest — запрос на начисление очков.
// Собирается обработчиками из события Discord и передаётся сервису.
type GrantRequest struct {
	RecipientID string
	Delta       int
	Reason      string // пустая строка — без причины
	GiverID     string // пустая строка — системное начисление
	ChannelID   string
	MessageID   string
	Trigger     TriggerKind
}
