package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/logger"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/keyboard"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/render"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Args         string
	CallbackData string
	CallbackID   string
}

// UserKey is the pipeline user id of a Telegram user.
func UserKey(userID int64) string {
	return fmt.Sprintf("tg:%d", userID)
}

// ChatHandler turns chat messages into pipeline queries
type ChatHandler struct {
	queryUC   QueryUsecase
	regions   RegionResolver
	districts []string
	prefs     *state.Store
	bot       Sender
	sender    *MessageSender
	logger    *zap.Logger
}

func NewChatHandler(
	queryUC QueryUsecase,
	regions RegionResolver,
	districts []string,
	prefs *state.Store,
	bot Sender,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		queryUC:   queryUC,
		regions:   regions,
		districts: districts,
		prefs:     prefs,
		bot:       bot,
		sender:    NewMessageSender(bot, logger),
		logger:    logger,
	}
}

// HandleText answers a free-text question
func (h *ChatHandler) HandleText(ctx context.Context, msg *Message) error {
	prefs := h.prefs.Get(msg.UserID)
	lang := h.language(prefs, msg.Text)

	ctx = logger.WithAction(ctx, "TelegramQuestion", zap.Int64("telegram_user_id", msg.UserID))
	ctx = logger.WithDistrict(ctx, prefs.District)

	stop := startTyping(ctx, h.bot, msg.ChatID, h.logger)
	result, err := h.queryUC.Answer(ctx, entity.QueryRequest{
		Query:    msg.Text,
		Language: lang,
		UserID:   UserKey(msg.UserID),
		Location: prefs.District,
	})
	stop()

	if err != nil {
		if errors.Is(err, entity.ErrRegionNotFound) {
			// The stored district is no longer known; forget it.
			h.prefs.SetDistrict(msg.UserID, "")
			return h.sender.Send(msg.ChatID, fmt.Sprintf(render.MsgUnknownDistrict.In(lang), prefs.District), nil)
		}
		ctxzap.Warn(ctx, "failed to answer question", zap.Error(err))
		return h.sender.Send(msg.ChatID, render.ClassifyError(err).In(lang), nil)
	}

	ctxzap.Info(ctx, "question answered",
		zap.String("provider", result.Provider),
		zap.Bool("degraded", result.Degraded),
	)

	return h.sender.Send(msg.ChatID, render.Answer(result), nil)
}

// HandleCommand runs a slash command
func (h *ChatHandler) HandleCommand(ctx context.Context, msg *Message) error {
	prefs := h.prefs.Get(msg.UserID)
	lang := h.language(prefs, msg.Args)

	ctxzap.Info(ctx, "command received",
		zap.String("command", msg.Command),
		zap.Int64("telegram_user_id", msg.UserID),
	)

	switch msg.Command {
	case "start", "help":
		return h.sender.Send(msg.ChatID, render.MsgWelcome.In(lang), nil)
	case "lang":
		return h.setLanguage(msg, lang)
	case "district":
		return h.setDistrict(msg, lang)
	case "history":
		history := h.queryUC.History(UserKey(msg.UserID))
		return h.sender.Send(msg.ChatID, render.History(lang, history.Exchanges), nil)
	case "reset":
		h.prefs.Reset(msg.UserID)
		return h.sender.Send(msg.ChatID, render.MsgReset.In(lang), nil)
	default:
		return h.sender.Send(msg.ChatID, render.MsgUnknownCommand.In(lang), nil)
	}
}

// HandleCallback handles inline keyboard presses
func (h *ChatHandler) HandleCallback(ctx context.Context, msg *Message) error {
	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		h.sender.AnswerCallback(msg.CallbackID, "")
		return err
	}

	switch cb.Action {
	case keyboard.ActionLanguage:
		lang := entity.Language(cb.Value)
		if !lang.IsSupported() {
			h.sender.AnswerCallback(msg.CallbackID, "")
			return fmt.Errorf("%w: %s", entity.ErrUnsupportedLanguage, cb.Value)
		}
		h.prefs.SetLanguage(msg.UserID, lang)
		h.sender.AnswerCallback(msg.CallbackID, "")
		return h.sender.Send(msg.ChatID, render.MsgLanguageSet.In(lang), nil)
	default:
		h.sender.AnswerCallback(msg.CallbackID, "")
		return fmt.Errorf("unknown callback action %q", cb.Action)
	}
}

func (h *ChatHandler) setLanguage(msg *Message, lang entity.Language) error {
	arg := entity.Language(strings.ToLower(strings.TrimSpace(msg.Args)))
	if arg == "" || !arg.IsSupported() {
		return h.sender.Send(msg.ChatID, render.MsgChooseLanguage.In(lang), keyboard.LanguageKeyboard())
	}

	h.prefs.SetLanguage(msg.UserID, arg)
	return h.sender.Send(msg.ChatID, render.MsgLanguageSet.In(arg), nil)
}

func (h *ChatHandler) setDistrict(msg *Message, lang entity.Language) error {
	name := strings.TrimSpace(msg.Args)
	if name == "" {
		return h.sender.Send(msg.ChatID, render.MsgChooseDistrict.In(lang), keyboard.DistrictKeyboard(h.districts))
	}

	region, err := h.regions.ResolveRegion(name)
	if err != nil {
		return h.sender.Send(msg.ChatID, fmt.Sprintf(render.MsgUnknownDistrict.In(lang), name), nil)
	}

	h.prefs.SetDistrict(msg.UserID, region.Name)
	return h.sender.Send(msg.ChatID, fmt.Sprintf(render.MsgDistrictSet.In(lang), region.Name), nil)
}

// language prefers the user's explicit choice and otherwise follows the script of text.
func (h *ChatHandler) language(prefs state.Preferences, text string) entity.Language {
	if prefs.Language != "" {
		return prefs.Language
	}
	return DetectLanguage(text)
}
