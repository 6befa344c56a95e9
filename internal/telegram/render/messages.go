package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

// Text is one user-facing message in every supported language.
type Text map[entity.Language]string

// In picks the message in lang, falling back to English.
func (t Text) In(lang entity.Language) string {
	if s, ok := t[lang]; ok {
		return s
	}
	return t[entity.LanguageEnglish]
}

// Bilingual joins the English and Hindi variants, for replies sent before
// the user's language is known.
func (t Text) Bilingual() string {
	return t.In(entity.LanguageEnglish) + "\n" + t.In(entity.LanguageHindi)
}

var (
	MsgWelcome = Text{
		entity.LanguageEnglish: `💧 Namaste! I am jalBuddy, your groundwater assistant.

Ask me about water levels, water quality, rainfall, borewell drilling or recharge.

/district <name> - set your district for live data
/lang - choose English or हिंदी
/history - your recent questions
/reset - forget your settings`,
		entity.LanguageHindi: `💧 नमस्ते! मैं जलबडी हूं, आपका भूजल सहायक।

मुझसे जल स्तर, पानी की गुणवत्ता, वर्षा, बोरवेल ड्रिलिंग या पुनर्भरण के बारे में पूछें।

/district <नाम> - लाइव डेटा के लिए अपना जिला चुनें
/lang - English या हिंदी चुनें
/history - आपके हाल के प्रश्न
/reset - अपनी सेटिंग्स हटाएं`,
	}

	MsgChooseLanguage = Text{
		entity.LanguageEnglish: "Choose your answer language:",
		entity.LanguageHindi:   "उत्तर की भाषा चुनें:",
	}

	MsgLanguageSet = Text{
		entity.LanguageEnglish: "✅ I will answer in English.",
		entity.LanguageHindi:   "✅ मैं हिंदी में उत्तर दूंगा।",
	}

	MsgChooseDistrict = Text{
		entity.LanguageEnglish: "Which district are you in? Pick one below or send /district <name>.",
		entity.LanguageHindi:   "आप किस जिले में हैं? नीचे से चुनें या /district <नाम> भेजें।",
	}

	MsgDistrictSet = Text{
		entity.LanguageEnglish: "📍 District set to %s. Answers will include live groundwater data.",
		entity.LanguageHindi:   "📍 जिला %s चुना गया। उत्तरों में लाइव भूजल डेटा शामिल होगा।",
	}

	MsgUnknownDistrict = Text{
		entity.LanguageEnglish: "❓ I don't have data for %q. Send /district to see the supported districts.",
		entity.LanguageHindi:   "❓ %q के लिए डेटा उपलब्ध नहीं है। समर्थित जिले देखने के लिए /district भेजें।",
	}

	MsgReset = Text{
		entity.LanguageEnglish: "🔄 Your district and language settings were cleared.",
		entity.LanguageHindi:   "🔄 आपकी जिला और भाषा सेटिंग्स हटा दी गईं।",
	}

	MsgNoHistory = Text{
		entity.LanguageEnglish: "You haven't asked anything yet.",
		entity.LanguageHindi:   "आपने अभी तक कुछ नहीं पूछा है।",
	}

	MsgUnknownCommand = Text{
		entity.LanguageEnglish: "❌ Unknown command. Send /start for help.",
		entity.LanguageHindi:   "❌ अज्ञात कमांड। सहायता के लिए /start भेजें।",
	}

	MsgOfflineData = Text{
		entity.LanguageEnglish: "ℹ️ Some live data was unavailable, so parts of this answer use estimates.",
		entity.LanguageHindi:   "ℹ️ कुछ लाइव डेटा उपलब्ध नहीं था, इसलिए उत्तर के कुछ भाग अनुमान पर आधारित हैं।",
	}

	MsgSlowDown = Text{
		entity.LanguageEnglish: "⚠️ Too many messages. Please wait a little.",
		entity.LanguageHindi:   "⚠️ बहुत सारे संदेश। कृपया थोड़ा रुकें।",
	}

	MsgRateLimited = Text{
		entity.LanguageEnglish: "🛑 You are sending messages too often. Please wait a minute.",
		entity.LanguageHindi:   "🛑 आप बहुत जल्दी संदेश भेज रहे हैं। कृपया एक मिनट रुकें।",
	}

	ErrGeneric = Text{
		entity.LanguageEnglish: "❌ Something went wrong. Please try again.",
		entity.LanguageHindi:   "❌ कुछ गलत हो गया। कृपया फिर से प्रयास करें।",
	}

	ErrTimeout = Text{
		entity.LanguageEnglish: "⏱ That took too long. Please try again in a moment.",
		entity.LanguageHindi:   "⏱ बहुत समय लग गया। कृपया थोड़ी देर बाद फिर प्रयास करें।",
	}

	ErrNetworkIssue = Text{
		entity.LanguageEnglish: "🌐 Network problem. Please try again later.",
		entity.LanguageHindi:   "🌐 नेटवर्क समस्या। कृपया बाद में प्रयास करें।",
	}

	ErrInvalidQuestion = Text{
		entity.LanguageEnglish: "✏️ Please send a question of at most 1000 characters.",
		entity.LanguageHindi:   "✏️ कृपया अधिकतम 1000 अक्षरों का प्रश्न भेजें।",
	}
)

// Answer formats a pipeline result for chat.
func Answer(result *entity.UnifiedResult) string {
	var b strings.Builder
	b.WriteString(result.Response)

	if len(result.FacetsUnavailable) > 0 {
		b.WriteString("\n\n")
		b.WriteString(MsgOfflineData.In(result.Language))
	}

	return b.String()
}

// History formats recent exchanges, oldest first.
func History(lang entity.Language, exchanges []entity.Exchange) string {
	if len(exchanges) == 0 {
		return MsgNoHistory.In(lang)
	}

	var b strings.Builder
	for i, ex := range exchanges {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. ❓ %s\n💬 %s", i+1, ex.Query, truncate(ex.Response, 200))
	}
	return b.String()
}

// Split cuts text into Telegram-sized parts, preferring paragraph and line breaks.
func Split(text string) []string {
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > MaxMessageLength {
		cut := MaxMessageLength
		window := string(runes[:MaxMessageLength])
		if i := strings.LastIndex(window, "\n"); i > 0 {
			cut = utf8.RuneCountInString(window[:i])
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), "\n"))
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) Text {
	switch {
	case err == nil:
		return ErrGeneric
	case errors.Is(err, entity.ErrInvalidQuery):
		return ErrInvalidQuestion
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
