// Package members управляет известными боту пользователями Discord.
// models.go описывает структуры данных для работы с таблицей members.
package members

import "time"

// Member представляет пользователя Discord в базе данных.
// Запись создаётся (или обновляется) каждый раз, когда бот видит
// пользователя в событии — чтобы таблица лидеров могла показывать
// актуальный тег без обращения к Discord API.
type Member struct {
	ID        int64     `db:"id"`         // Автоинкрементный ID записи в БД
	UserID    string    `db:"user_id"`    // Discord snowflake (уникальный)
	Username  string    `db:"username"`   // Имя аккаунта
	Tag       string    `db:"tag"`        // Отображаемый тег (username#discriminator или @username)
	IsBot     bool      `db:"is_bot"`     // Флаг бота
	CreatedAt time.Time `db:"created_at"` // Когда запись создана в БД
	UpdatedAt time.Time `db:"updated_at"` // Последнее обновление записи
}
