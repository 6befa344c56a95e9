package middleware

import (
	"runtime/debug"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware keeps a panicking handler from taking the update loop down.
type RecoveryMiddleware struct {
	logger *zap.Logger
	sender Sender
}

func NewRecoveryMiddleware(logger *zap.Logger, sender Sender) *RecoveryMiddleware {
	return &RecoveryMiddleware{
		logger: logger,
		sender: sender,
	}
}

func (m *RecoveryMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		userID, chatID, ok := origin(update)
		m.logger.Error("Panic in telegram handler",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
			zap.Int("update_id", update.UpdateID),
			zap.String("update_type", updateType(update)),
			zap.Int64("telegram_user_id", userID),
		)
		if !ok {
			return
		}

		if _, err := m.sender.Send(tgbotapi.NewMessage(chatID, render.ErrGeneric.Bilingual())); err != nil {
			m.logger.Warn("Failed to notify user after panic", zap.Error(err), zap.Int64("chat_id", chatID))
		}
	}()

	next(update)
}
