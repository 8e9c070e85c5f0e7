package filters

import (
	log "github.com/sirupsen/logrus"
)

// GuildFilter пропускает только события с настроенного сервера.
// Личные сообщения и чужие guild-ы игнорируются: бот обслуживает
// ровно одно сообщество.
type GuildFilter struct {
	guildID string
}

func NewGuildFilter(guildID string) *GuildFilter {
	return &GuildFilter{guildID: guildID}
}

func (f *GuildFilter) Allow(guildID string) bool {
	if f.guildID == "" {
		log.WithField("component", "GuildFilter").Error("guildID is empty (config bug)")
		return false
	}
	if guildID != f.guildID {
		log.WithFields(log.Fields{
			"component": "GuildFilter",
			"guild_id":  guildID,
		}).Debug("deny: not the configured guild")
		return false
	}
	return true
}
