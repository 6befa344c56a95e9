package gateway

import (
	"context"
	"encoding/json"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

type UpstreamConnector interface {
	Fetch(ctx context.Context, dataType entity.DataType, district string, q entity.Qualifiers) (json.RawMessage, error)
}
