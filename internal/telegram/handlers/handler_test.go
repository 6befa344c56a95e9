package handlers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/render"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

type fakeQuery struct {
	lastReq entity.QueryRequest
	err     error
}

func (f *fakeQuery) Answer(ctx context.Context, req entity.QueryRequest) (*entity.UnifiedResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &entity.UnifiedResult{Response: "answer for " + req.Location, Language: req.Language}, nil
}

func (f *fakeQuery) History(userID string) *entity.HistoryResponse {
	return &entity.HistoryResponse{UserID: userID, Exchanges: []entity.Exchange{{Query: "q1", Response: "a1"}}}
}

type fakeRegions struct{}

func (fakeRegions) ResolveRegion(name string) (entity.ReferenceRegion, error) {
	if name == "nalanda" || name == "Nalanda" {
		return entity.ReferenceRegion{Name: "Nalanda"}, nil
	}
	return entity.ReferenceRegion{}, fmt.Errorf("%w: %s", entity.ErrRegionNotFound, name)
}

func newTestHandler() (*ChatHandler, *fakeSender, *fakeQuery, *state.Store) {
	sender := &fakeSender{}
	query := &fakeQuery{}
	prefs := state.NewStore(time.Hour, time.Minute)
	h := NewChatHandler(query, fakeRegions{}, []string{"Nalanda"}, prefs, sender, zap.NewNop())
	return h, sender, query, prefs
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, entity.LanguageHindi, DetectLanguage("भूजल स्तर कैसे जांचें?"))
	assert.Equal(t, entity.LanguageHindi, DetectLanguage("Nalanda में भूजल स्तर"))
	assert.Equal(t, entity.LanguageEnglish, DetectLanguage("How deep should a borewell be?"))
	assert.Equal(t, entity.LanguageEnglish, DetectLanguage("123 ?"))
}

func TestHandleText_UsesPreferencesAndUserKey(t *testing.T) {
	h, sender, query, prefs := newTestHandler()
	prefs.SetDistrict(42, "Nalanda")

	require.NoError(t, h.HandleText(context.Background(), &Message{ChatID: 1, UserID: 42, Text: "भूजल स्तर क्या है?"}))

	assert.Equal(t, "tg:42", query.lastReq.UserID)
	assert.Equal(t, "Nalanda", query.lastReq.Location)
	assert.Equal(t, entity.LanguageHindi, query.lastReq.Language)
	assert.Equal(t, "answer for Nalanda", sender.last(t).Text)
	assert.NotEmpty(t, sender.requests, "typing action sent")
}

func TestHandleText_PreferredLanguageWins(t *testing.T) {
	h, _, query, prefs := newTestHandler()
	prefs.SetLanguage(42, entity.LanguageHindi)

	require.NoError(t, h.HandleText(context.Background(), &Message{ChatID: 1, UserID: 42, Text: "water level"}))
	assert.Equal(t, entity.LanguageHindi, query.lastReq.Language)
}

func TestHandleText_Errors(t *testing.T) {
	h, sender, query, prefs := newTestHandler()
	prefs.SetDistrict(42, "Atlantis")
	query.err = fmt.Errorf("%w: Atlantis", entity.ErrRegionNotFound)

	require.NoError(t, h.HandleText(context.Background(), &Message{ChatID: 1, UserID: 42, Text: "water level"}))
	assert.Contains(t, sender.last(t).Text, "Atlantis")
	assert.Empty(t, prefs.Get(42).District)

	query.err = fmt.Errorf("%w: too long", entity.ErrInvalidQuery)
	require.NoError(t, h.HandleText(context.Background(), &Message{ChatID: 1, UserID: 42, Text: "x"}))
	assert.Equal(t, render.ErrInvalidQuestion.In(entity.LanguageEnglish), sender.last(t).Text)
}

func TestHandleCommand_District(t *testing.T) {
	h, sender, _, prefs := newTestHandler()
	ctx := context.Background()

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "district", Args: "nalanda"}))
	assert.Equal(t, "Nalanda", prefs.Get(5).District)
	assert.Contains(t, sender.last(t).Text, "Nalanda")

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "district", Args: "Atlantis"}))
	assert.Equal(t, "Nalanda", prefs.Get(5).District)

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "district"}))
	_, isKeyboard := sender.last(t).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	assert.True(t, isKeyboard)
}

func TestHandleCommand_LanguageAndCallback(t *testing.T) {
	h, sender, _, prefs := newTestHandler()
	ctx := context.Background()

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "lang", Args: "HI"}))
	assert.Equal(t, entity.LanguageHindi, prefs.Get(5).Language)
	assert.Equal(t, render.MsgLanguageSet.In(entity.LanguageHindi), sender.last(t).Text)

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "lang"}))
	_, isInline := sender.last(t).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, isInline)

	require.NoError(t, h.HandleCallback(ctx, &Message{ChatID: 1, UserID: 5, CallbackData: "lang:en", CallbackID: "cb1"}))
	assert.Equal(t, entity.LanguageEnglish, prefs.Get(5).Language)

	assert.ErrorIs(t, h.HandleCallback(ctx, &Message{ChatID: 1, UserID: 5, CallbackData: "lang:fr", CallbackID: "cb2"}), entity.ErrUnsupportedLanguage)
	assert.Error(t, h.HandleCallback(ctx, &Message{ChatID: 1, UserID: 5, CallbackData: "bogus", CallbackID: "cb3"}))
}

func TestHandleCommand_HistoryResetUnknown(t *testing.T) {
	h, sender, _, prefs := newTestHandler()
	ctx := context.Background()

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "history"}))
	assert.Contains(t, sender.last(t).Text, "q1")

	prefs.SetDistrict(5, "Nalanda")
	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "reset"}))
	assert.Equal(t, state.Preferences{}, prefs.Get(5))

	require.NoError(t, h.HandleCommand(ctx, &Message{ChatID: 1, UserID: 5, Command: "nope"}))
	assert.Equal(t, render.MsgUnknownCommand.In(entity.LanguageEnglish), sender.last(t).Text)
}

func TestMessageSender_SplitsLongText(t *testing.T) {
	sender := &fakeSender{}
	ms := NewMessageSender(sender, zap.NewNop())

	long := make([]byte, render.MaxMessageLength+100)
	for i := range long {
		long[i] = 'a'
	}

	require.NoError(t, ms.Send(1, string(long), "markup"))
	require.Len(t, sender.messages, 2)
	assert.Nil(t, sender.messages[0].ReplyMarkup)
	assert.Equal(t, "markup", sender.messages[1].ReplyMarkup)
}
