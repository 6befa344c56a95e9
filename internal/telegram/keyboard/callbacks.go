package keyboard

import (
	"fmt"
	"strings"
)

const ActionLanguage = "lang"

// Telegram rejects callback data longer than 64 bytes.
const maxCallbackData = 64

type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback splits "action:value" as produced by EncodeCallback.
func ParseCallback(data string) (*CallbackData, error) {
	action, value, ok := strings.Cut(data, ":")
	if !ok || action == "" {
		return nil, fmt.Errorf("invalid callback format: %q", data)
	}
	return &CallbackData{Action: action, Value: value}, nil
}

func EncodeCallback(action, value string) string {
	data := action + ":" + value
	if len(data) > maxCallbackData {
		data = data[:maxCallbackData]
	}
	return data
}
