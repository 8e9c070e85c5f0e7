// Package reputation — handlers.go обрабатывает события Discord:
// реакции "+1", триггер-фразы в сообщениях и команду /rep.
package reputation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"leobot.dev/discord-bot/internal/common"
	"leobot.dev/discord-bot/internal/config"
	"leobot.dev/discord-bot/internal/features/members"
	"leobot.dev/discord-bot/internal/obs"
)

const scoreboardColor = 0xff6400

// Handler обрабатывает события репутации.
type Handler struct {
	service       *Service
	memberService *members.Service
	session       *discordgo.Session
	cfg           *config.Config
}

// NewHandler создаёт обработчик репутации.
func NewHandler(service *Service, memberService *members.Service, session *discordgo.Session, cfg *config.Config) *Handler {
	return &Handler{
		service:       service,
		memberService: memberService,
		session:       session,
		cfg:           cfg,
	}
}

// noPing — опции ответа без упоминаний (чтобы бот не пинговал получателей).
func noPing() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
}

// HandleReaction обрабатывает реакцию на сообщение.
// Если реакция настроенным эмодзи "+1" и реагирует не автор — автор
// сообщения получает очко. Ответ в канал не отправляется (как дубликаты,
// так и самореакции игнорируются молча).
func (h *Handler) HandleReaction(ctx context.Context, r *discordgo.MessageReactionAdd) {
	msg, err := h.resolveMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.WithError(err).WithField("message_id", r.MessageID).Warn("Не удалось получить сообщение для реакции")
		return
	}
	if msg.Author == nil {
		return
	}

	if !ClassifyReaction(r.Emoji.ID, h.cfg.PointEmoteID, r.UserID, msg.Author.ID) {
		return
	}

	h.ensureMember(ctx, reactionUser(r))
	h.ensureMember(ctx, msg.Author)

	_, err = h.service.GiveRep(ctx, GrantRequest{
		RecipientID: msg.Author.ID,
		Delta:       1,
		Reason:      "Reaction +1",
		GiverID:     r.UserID,
		ChannelID:   r.ChannelID,
		MessageID:   r.MessageID,
		Trigger:     TriggerReaction,
	})
	if err != nil && !errors.Is(err, common.ErrDuplicateGrant) {
		log.WithError(err).Error("Ошибка начисления очка за реакцию")
	}
}

// HandleMessage обрабатывает обычное сообщение: если текст содержит
// триггер-фразу и упоминает других пользователей, каждый упомянутый
// (кроме автора) получает очко, а бот отвечает сводкой без пингов.
func (h *Handler) HandleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	mentionIDs := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		mentionIDs = append(mentionIDs, u.ID)
	}

	recipients := ClassifyMessage(m.Author.ID, m.Author.Bot, mentionIDs, m.Content)
	if len(recipients) == 0 {
		return
	}

	h.ensureMember(ctx, m.Author)
	for _, u := range m.Mentions {
		h.ensureMember(ctx, u)
	}

	resp := GrantResponse{SenderID: m.Author.ID, Amount: 1}
	for _, userID := range recipients {
		_, err := h.service.GiveRep(ctx, GrantRequest{
			RecipientID: userID,
			Delta:       1,
			Reason:      m.Content,
			GiverID:     m.Author.ID,
			ChannelID:   m.ChannelID,
			MessageID:   m.ID,
			Trigger:     TriggerMessage,
		})
		if err != nil {
			log.WithError(err).WithField("recipient", userID).Error("Ошибка начисления очка за сообщение")
			return
		}

		score, err := h.service.Score(ctx, userID)
		if err != nil {
			log.WithError(err).WithField("recipient", userID).Error("Ошибка получения счёта")
			return
		}
		sc := score
		resp.Recipients = append(resp.Recipients, Recipient{UserID: userID, Score: &sc})
	}

	_, err := h.session.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:         BuildGrantResponse(resp, h.cfg),
		Reference:       m.Reference(),
		AllowedMentions: noPing(),
	})
	if err != nil {
		log.WithError(err).Error("Ошибка отправки ответа на благодарность")
	}
}

// HandleGiveCommand обрабатывает /rep give.
// Сначала проверка прав; отказ отправляется эфемерно и в журнал не попадает.
func (h *Handler) HandleGiveCommand(ctx context.Context, i *discordgo.InteractionCreate, opts OptionMap) {
	actor := i.Member.User
	target := opts.user("user")
	if target == nil {
		h.respondEphemeral(i, "You must specify a user.")
		return
	}

	amount := 1
	if v, ok := opts.integer("amount"); ok {
		amount = int(v)
	}
	reason := opts.str("reason")

	decision := Authorize(i.Member.Roles, amount, actor.ID == target.ID, h.cfg)
	if !decision.Allowed {
		obs.PermissionDenied(string(decision.Violation))
		h.respondEphemeral(i, ViolationMessage(decision.Violation, h.cfg))
		return
	}

	h.ensureMember(ctx, actor)
	h.ensureMember(ctx, target)

	event, err := h.service.GiveRep(ctx, GrantRequest{
		RecipientID: target.ID,
		Delta:       amount,
		Reason:      reason,
		GiverID:     actor.ID,
		ChannelID:   i.ChannelID,
		MessageID:   i.ID,
		Trigger:     TriggerCommand,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка начисления очков командой")
		h.respondEphemeral(i, "Something went wrong, no points were given.")
		return
	}

	score, err := h.service.Score(ctx, target.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения счёта после начисления")
		h.respondEphemeral(i, "Points were given, but the score could not be read.")
		return
	}

	var eventReason string
	if event.Reason != nil {
		eventReason = *event.Reason
	}
	content := BuildGrantResponse(GrantResponse{
		SenderID:   actor.ID,
		Recipients: []Recipient{{UserID: target.ID, Score: &score}},
		Amount:     event.Delta,
		Reason:     eventReason,
	}, h.cfg)

	h.respond(i, &discordgo.InteractionResponseData{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{target.ID}},
	})
}

// HandleCheckCommand обрабатывает /rep check: счёт и место пользователя.
// Без аргумента показывает счёт самого спрашивающего.
func (h *Handler) HandleCheckCommand(ctx context.Context, i *discordgo.InteractionCreate, opts OptionMap) {
	target := opts.user("user")
	if target == nil {
		target = i.Member.User
	}

	score, err := h.service.Score(ctx, target.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения счёта")
		h.respondEphemeral(i, "Could not read the score.")
		return
	}

	h.respond(i, &discordgo.InteractionResponseData{
		Content:         BuildCheckResponse(target.ID, score, h.cfg),
		AllowedMentions: noPing(),
	})
}

// HandleScoreboardCommand обрабатывает /rep scoreboard [page].
func (h *Handler) HandleScoreboardCommand(ctx context.Context, i *discordgo.InteractionCreate, opts OptionMap) {
	page := 1
	if v, ok := opts.integer("page"); ok {
		page = int(v)
	}
	h.displayPage(ctx, i, page, false)
}

// HandlePageComponent обрабатывает нажатие кнопки навигации рейтинга.
// CustomID имеет вид "page:N".
func (h *Handler) HandlePageComponent(ctx context.Context, i *discordgo.InteractionCreate, customID string) {
	page, err := strconv.Atoi(strings.TrimPrefix(customID, "page:"))
	if err != nil {
		log.WithField("custom_id", customID).Warn("Некорректный custom_id кнопки страницы")
		return
	}
	h.displayPage(ctx, i, page, true)
}

// displayPage отвечает (или обновляет ответ) страницей рейтинга.
func (h *Handler) displayPage(ctx context.Context, i *discordgo.InteractionCreate, number int, update bool) {
	page, err := h.service.RenderPage(ctx, number, h.cfg.ScoreboardPageSize)
	if err != nil {
		log.WithError(err).Error("Ошибка построения страницы рейтинга")
		h.respondEphemeral(i, "Could not load the scoreboard.")
		return
	}

	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{scoreboardEmbed(page)},
		Components: pageComponents(page),
	}

	respType := discordgo.InteractionResponseChannelMessageWithSource
	if update {
		respType = discordgo.InteractionResponseUpdateMessage
	}
	err = h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: respType,
		Data: data,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка отправки страницы рейтинга")
	}
}

// scoreboardEmbed переводит страницу в embed с моноширинной таблицей.
func scoreboardEmbed(page Page) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       scoreboardColor,
		Title:       "Scoreboard",
		Description: "```\n" + BuildScoreboardTable(page.Rows) + "\n```",
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d", page.Number)},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// pageComponents переводит дескрипторы навигации в кнопки Discord.
func pageComponents(page Page) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, 3)
	for _, nav := range page.NavButtons() {
		style := discordgo.PrimaryButton
		if nav.Kind == NavRefresh {
			style = discordgo.SecondaryButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    nav.Label,
			Style:    style,
			CustomID: fmt.Sprintf("page:%d", nav.TargetPage),
			Disabled: nav.Disabled,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// respond отвечает на интеракцию обычным сообщением.
func (h *Handler) respond(i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка ответа на интеракцию")
	}
}

// respondEphemeral отвечает эфемерно (видно только автору команды).
func (h *Handler) respondEphemeral(i *discordgo.InteractionCreate, text string) {
	h.respond(i, &discordgo.InteractionResponseData{
		Content: text,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// resolveMessage достаёт сообщение из кэша, при промахе — по REST API.
func (h *Handler) resolveMessage(channelID, messageID string) (*discordgo.Message, error) {
	if msg, err := h.session.State.Message(channelID, messageID); err == nil {
		return msg, nil
	}
	return h.session.ChannelMessage(channelID, messageID)
}

// ensureMember фиксирует пользователя в БД, чтобы рейтинг знал его тег.
func (h *Handler) ensureMember(ctx context.Context, u *discordgo.User) {
	if u == nil || h.memberService == nil {
		return
	}
	if err := h.memberService.EnsureMember(ctx, u.ID, u.Username, u.String(), u.Bot); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Warn("EnsureMember failed")
	}
}

// reactionUser возвращает пользователя из события реакции (если Discord его прислал).
func reactionUser(r *discordgo.MessageReactionAdd) *discordgo.User {
	if r.Member != nil {
		return r.Member.User
	}
	return nil
}

// OptionMap — опции слэш-команды по имени.
type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// ParseOptions собирает опции подкоманды в map.
func ParseOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) OptionMap {
	m := make(OptionMap, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (m OptionMap) user(name string) *discordgo.User {
	if o, ok := m[name]; ok {
		return o.UserValue(nil)
	}
	return nil
}

func (m OptionMap) integer(name string) (int64, bool) {
	if o, ok := m[name]; ok {
		return o.IntValue(), true
	}
	return 0, false
}

func (m OptionMap) str(name string) string {
	if o, ok := m[name]; ok {
		return o.StringValue()
	}
	return ""
}
