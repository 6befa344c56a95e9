package keyboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback(EncodeCallback(ActionLanguage, "hi"))
	require.NoError(t, err)
	assert.Equal(t, ActionLanguage, cb.Action)
	assert.Equal(t, "hi", cb.Value)

	_, err = ParseCallback("garbage")
	assert.Error(t, err)
	_, err = ParseCallback(":hi")
	assert.Error(t, err)
}

func TestEncodeCallback_FitsTelegramLimit(t *testing.T) {
	data := EncodeCallback(ActionLanguage, strings.Repeat("x", 100))
	assert.Len(t, data, 64)
}

func TestLanguageKeyboard(t *testing.T) {
	kb := LanguageKeyboard()
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, "lang:en", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "lang:hi", *kb.InlineKeyboard[0][1].CallbackData)
}

func TestDistrictKeyboard(t *testing.T) {
	kb := DistrictKeyboard([]string{"Anantapur", "Nalanda"})
	require.Len(t, kb.Keyboard, 2)
	assert.Equal(t, "/district Nalanda", kb.Keyboard[1][0].Text)
	assert.True(t, kb.OneTimeKeyboard)
}
