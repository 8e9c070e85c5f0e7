// Package packages — handlers.go обрабатывает команду /package.
package packages

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/common"
)

const packageEmbedColor = 0xff6400

// Handler обрабатывает команды пакетов.
type Handler struct {
	resolver *Resolver
	session  *discordgo.Session
}

// NewHandler создаёт обработчик команды /package.
func NewHandler(resolver *Resolver, session *discordgo.Session) *Handler {
	return &Handler{resolver: resolver, session: session}
}

// HandlePackageCommand обрабатывает /package <name> [manifest-url].
func (h *Handler) HandlePackageCommand(ctx context.Context, i *discordgo.InteractionCreate, name, manifestURL string) {
	var (
		info *Info
		err  error
	)
	if manifestURL != "" {
		info, err = h.resolver.ResolveManifest(ctx, name, manifestURL)
	} else {
		info, err = h.resolver.Resolve(ctx, name)
	}
	if err != nil {
		log.WithError(err).WithField("package", name).Error("Ошибка резолва пакета")
		h.respondText(i, "Could not look up that package.")
		return
	}

	if info.BadData() {
		h.respondText(i, fmt.Sprintf("The package \"%s\" could not be found.", name))
		return
	}

	h.respond(i, packageEmbed(info))
}

// packageEmbed строит embed с карточкой пакета.
func packageEmbed(info *Info) *discordgo.MessageEmbed {
	title := info.Title
	if title == "" {
		title = info.Name
	}

	embed := &discordgo.MessageEmbed{
		Color:       packageEmbedColor,
		Title:       title,
		Description: common.TruncateText(info.Description, 2000),
		URL:         info.ProjectURL,
	}

	addField := func(name, value string) {
		if value == "" {
			return
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: name, Value: value, Inline: true,
		})
	}

	addField("Author", info.Author)
	addField("Version", info.Version)
	addField("Type", info.Type)
	if !info.FromManifest {
		if !info.HasError(ErrTagBazaar) {
			addField("Installs", fmt.Sprintf("%.1f%%", info.Installs))
		}
		if !info.HasError(ErrTagFoundryHub) {
			addField("Endorsements", fmt.Sprintf("%d", info.Endorsements))
			addField("Comments", fmt.Sprintf("%d", info.Comments))
		}
	}
	if info.ManifestURL != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Manifest", Value: info.ManifestURL,
		})
	}

	if info.ManifestInvalid() {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Warning: the manifest for this package did not pass validation.",
		}
	}

	return embed
}

func (h *Handler) respond(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.WithError(err).Error("Ошибка отправки карточки пакета")
	}
}

func (h *Handler) respondText(i *discordgo.InteractionCreate, text string) {
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: text},
	})
	if err != nil {
		log.WithError(err).Error("Ошибка отправки ответа")
	}
}
