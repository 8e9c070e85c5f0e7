// Package reputation — store.go описывает интерфейс журнала репутации.
package reputation

import "context"

// Store — журнал начислений и производные запросы по нему.
//
// Append обязан атомарно обеспечивать уникальность реакций: на пару
// (message_id, giver_id) с триггером reaction допускается не более одной
// записи. Нарушение уникальности возвращается как common.ErrDuplicateGrant,
// а не как ошибка хранилища — проверка ExistsReactionGrant перед записью
// лишь быстрый путь, гонку двух одновременных реакций закрывает Append.
type Store interface {
	// Append добавляет запись в журнал и возвращает её с заполненным ID.
	Append(ctx context.Context, e Event) (Event, error)
	// ExistsReactionGrant сообщает, есть ли уже начисление за реакцию
	// данного пользователя на данное сообщение.
	ExistsReactionGrant(ctx context.Context, messageID, giverID string) (bool, error)
	// ScoreOf возвращает счёт и ранг пользователя.
	// Для пользователя без записей — нулевая запись (Score 0, Rank 0).
	ScoreOf(ctx context.Context, userID string) (ScoreRecord, error)
	// PageScores возвращает срез рейтинга по возрастанию ранга.
	// При равных счетах порядок стабилен: раньше тот, чья первая запись старше.
	PageScores(ctx context.Context, offset, limit int) ([]ScoreRecord, error)
	// CountRanked возвращает число пользователей, имеющих хотя бы одну запись.
	CountRanked(ctx context.Context) (int64, error)
}
