// Package reputation — classifier.go определяет, является ли событие
// (реакция или обычное сообщение) триггером начисления очков.
package reputation

import "regexp"

// Триггер-фразы. Достаточно совпадения любого правила (логическое ИЛИ).
// Регистр не важен, совпадение проверяется по границам слов.
//
// В Go regexp нет lookbehind, поэтому отрицание «no thanks» реализовано
// через необязательную захватывающую группу: совпадение с непустой
// группой отрицания отбрасывается, поиск продолжается дальше по тексту.
var (
	// thanks, thank, thx, thnx, thanx — но не после "no " и не "thxs"
	thanksRe = regexp.MustCompile(`(?i)(no )?\bth(?:a?n(?:ks?|x)|x)\b`)
	// ty / tyvm как отдельное слово ("typo" не считается)
	tyRe = regexp.MustCompile(`(?i)\bty(?:vm)?\b`)
	// фраза "point(s) to @user" / "points for @user" — привет, Гарри Поттер
	pointsToRe = regexp.MustCompile(`(?i)\bpoints? (?:to|for) <@`)
	// cheers как отдельное слово
	cheersRe = regexp.MustCompile(`(?i)\bcheers\b`)
	// danke / dankee
	dankeRe = regexp.MustCompile(`(?i)\bdankee?\b`)
	// токен эмодзи :vote:
	voteRe = regexp.MustCompile(`(?i):vote:`)
)

// IsTriggerText проверяет, содержит ли текст триггер-фразу благодарности.
//
// Примеры:
//
//	IsTriggerText("thanks!")         → true
//	IsTriggerText("no thanks")       → false
//	IsTriggerText("ty")              → true
//	IsTriggerText("cheers")          → true
//	IsTriggerText("point to <@123>") → true
//	IsTriggerText("hello")           → false
func IsTriggerText(text string) bool {
	if containsThanks(text) {
		return true
	}
	for _, re := range []*regexp.Regexp{tyRe, pointsToRe, cheersRe, dankeRe, voteRe} {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// containsThanks ищет благодарность, не предварённую «no ».
// «no thanks, but thanks anyway» всё равно триггерит: отбрасывается
// только то вхождение, что стоит сразу после отрицания.
func containsThanks(text string) bool {
	for _, m := range thanksRe.FindAllStringSubmatch(text, -1) {
		if m[1] == "" {
			return true
		}
	}
	return false
}

// ClassifyReaction решает, даёт ли реакция очко автору сообщения.
// Условия: реакция именно настроенным эмодзи "+1" и реагирует
// не сам автор (самореакция молча игнорируется, это не ошибка).
func ClassifyReaction(emoteID, pointEmoteID, reactorID, authorID string) bool {
	if emoteID == "" || emoteID != pointEmoteID {
		return false
	}
	return reactorID != authorID
}

// ClassifyMessage возвращает получателей очков за сообщение.
// Пустой срез означает «не триггер» — вызывающий обязан ничего не делать.
//
// Сообщение даёт очки, только если:
//   - автор не бот;
//   - в тексте есть триггер-фраза;
//   - после удаления автора из упомянутых остаётся хотя бы один получатель
//     (самоупоминание отфильтровывается, даже если автор упомянул и себя).
func ClassifyMessage(authorID string, isBot bool, mentionedIDs []string, text string) []string {
	if isBot || len(mentionedIDs) == 0 {
		return nil
	}
	if !IsTriggerText(text) {
		return nil
	}

	recipients := make([]string, 0, len(mentionedIDs))
	for _, id := range mentionedIDs {
		if id != authorID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return nil
	}
	return recipients
}
