// Package reputation — response.go строит тексты ответов бота.
// Форматирование детерминированное: одно очко рендерится эмодзи "+1",
// остальные суммы — числом со знаком; получатели перечисляются
// по правилам естественного списка ("A, B, and C").
package reputation

import (
	"fmt"
	"strings"

	"leobot.dev/discord-bot/internal/common"
	"leobot.dev/discord-bot/internal/config"
)

// Recipient — получатель в ответе: упоминание и (опционально) его счёт.
type Recipient struct {
	UserID string
	Score  *ScoreRecord
}

// GrantResponse — параметры текста ответа на начисление.
type GrantResponse struct {
	SenderID   string // пустая строка — системное начисление ("Gave ...")
	Recipients []Recipient
	Amount     int
	Reason     string
}

// BuildGrantResponse строит текст ответа на начисление очков.
//
// Примеры:
//
//	<@!1> gave **<:plusone:42>** points to <@!2> (**#1** • 5)
//	<@!1> gave **+3** points to <@!2> and <@!3> for helping out
func BuildGrantResponse(p GrantResponse, cfg *config.Config) string {
	intro := "Gave"
	if p.SenderID != "" {
		intro = fmt.Sprintf("<@!%s> gave", p.SenderID)
	}

	// Одно очко — эмодзи вместо числа
	amount := common.FormatSigned(p.Amount)
	if p.Amount == 1 {
		amount = cfg.PointEmoteToken()
	}

	parts := make([]string, 0, len(p.Recipients))
	for _, r := range p.Recipients {
		mention := fmt.Sprintf("<@!%s>", r.UserID)
		if r.Score != nil {
			mention += fmt.Sprintf(" (**#%d** • %d)", r.Score.Rank, r.Score.Score)
		}
		parts = append(parts, mention)
	}

	text := fmt.Sprintf("%s **%s** %s to %s", intro, amount, cfg.PointsName, common.JoinList(parts))
	if p.Reason != "" {
		text += " " + p.Reason
	}
	return text
}

// BuildCheckResponse строит ответ команды /rep check.
//
// Пример: <@!123>: **5** points (#**2**)
func BuildCheckResponse(userID string, score ScoreRecord, cfg *config.Config) string {
	return fmt.Sprintf("<@!%s>: **%d** %s (#**%d**)", userID, score.Score, cfg.PointsName, score.Rank)
}

// BuildScoreboardTable строит моноширинную таблицу страницы рейтинга.
// Колонки: ранг, очки, тег пользователя. Показывается в code block
// внутри embed-а.
func BuildScoreboardTable(rows []ScoreRecord) string {
	if len(rows) == 0 {
		return "No scores yet."
	}

	// Ширина колонок подстраивается под содержимое
	rankW, pointsW := len("Rank"), len("Points")
	for _, r := range rows {
		if w := len(fmt.Sprintf("#%d", r.Rank)); w > rankW {
			rankW = w
		}
		if w := len(fmt.Sprintf("%d", r.Score)); w > pointsW {
			pointsW = w
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %-*s | %*s | %s\n", rankW, "Rank", pointsW, "Points", "-- User Tag --")
	for _, r := range rows {
		tag := r.DisplayTag
		if tag == "" {
			tag = r.UserID
		}
		fmt.Fprintf(&b, " %-*s | %*d | %s\n", rankW, fmt.Sprintf("#%d", r.Rank), pointsW, r.Score, tag)
	}
	return strings.TrimRight(b.String(), "\n")
}
