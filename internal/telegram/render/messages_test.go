package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText_In(t *testing.T) {
	assert.Equal(t, MsgReset[entity.LanguageHindi], MsgReset.In(entity.LanguageHindi))
	assert.Equal(t, MsgReset[entity.LanguageEnglish], MsgReset.In("ta"))
}

func TestAnswer_MentionsOfflineData(t *testing.T) {
	result := &entity.UnifiedResult{Response: "Level is 12m.", Language: entity.LanguageEnglish}
	assert.Equal(t, "Level is 12m.", Answer(result))

	result.FacetsUnavailable = []entity.DataType{entity.DataTypeRainfall}
	assert.Contains(t, Answer(result), MsgOfflineData.In(entity.LanguageEnglish))
}

func TestHistory(t *testing.T) {
	assert.Equal(t, MsgNoHistory.In(entity.LanguageHindi), History(entity.LanguageHindi, nil))

	out := History(entity.LanguageEnglish, []entity.Exchange{
		{Query: "water level?", Response: "12m"},
		{Query: "quality?", Response: strings.Repeat("x", 300)},
	})
	assert.True(t, strings.HasPrefix(out, "1. ❓ water level?"))
	assert.Contains(t, out, "2. ❓ quality?")
	assert.Contains(t, out, "…")
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"short"}, Split("short"))

	para := strings.Repeat("भूजल ", 600)
	text := para + "\n" + para
	parts := Split(text)
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), MaxMessageLength)
	}

	long := strings.Repeat("a", MaxMessageLength*2+10)
	parts = Split(long)
	require.Len(t, parts, 3)
	assert.Equal(t, long, strings.Join(parts, ""))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrTimeout, ClassifyError(fmt.Errorf("answer: %w", context.DeadlineExceeded)))
	assert.Equal(t, ErrInvalidQuestion, ClassifyError(fmt.Errorf("%w: too long", entity.ErrInvalidQuery)))
	assert.Equal(t, ErrGeneric, ClassifyError(errors.New("boom")))
}
