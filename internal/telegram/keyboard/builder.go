package keyboard

import (
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LanguageKeyboard offers the supported answer languages
func LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English", EncodeCallback(ActionLanguage, string(entity.LanguageEnglish))),
			tgbotapi.NewInlineKeyboardButtonData("हिंदी", EncodeCallback(ActionLanguage, string(entity.LanguageHindi))),
		),
	)
}

// DistrictKeyboard lists districts as one button per row, each sending /district <name>
func DistrictKeyboard(districts []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(districts))
	for _, d := range districts {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("/district "+d)))
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}
