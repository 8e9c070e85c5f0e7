// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// LogMessage логирует входящее сообщение.
// Записывает: user_id, channel_id, username, текст (первые 50 символов).
func LogMessage(m *discordgo.MessageCreate) {
	if m == nil || m.Author == nil {
		return
	}

	text := m.Content
	if len(text) > 50 {
		text = text[:50] + "..."
	}

	log.WithFields(log.Fields{
		"user_id":    m.Author.ID,
		"channel_id": m.ChannelID,
		"username":   m.Author.Username,
		"text":       text,
	}).Debug("Входящее сообщение")
}

// LogReaction логирует добавленную реакцию.
func LogReaction(r *discordgo.MessageReactionAdd) {
	if r == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":    r.UserID,
		"message_id": r.MessageID,
		"emoji":      r.Emoji.Name,
	}).Debug("Реакция")
}

// LogInteraction логирует слэш-команду или нажатие кнопки.
func LogInteraction(i *discordgo.InteractionCreate) {
	if i == nil {
		return
	}

	fields := log.Fields{"type": i.Type.String()}
	if i.Member != nil && i.Member.User != nil {
		fields["user_id"] = i.Member.User.ID
	}
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		fields["command"] = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		fields["custom_id"] = i.MessageComponentData().CustomID
	}
	log.WithFields(fields).Debug("Интеракция")
}
