package ingres

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

type GatewayUsecase interface {
	Fetch(ctx context.Context, dataType entity.DataType, subject string, q entity.Qualifiers) (*entity.StructuredResult, error)
	Districts(ctx context.Context) (*entity.StructuredResult, error)
	FetchFacets(ctx context.Context, district string, q entity.Qualifiers) (*entity.LiveData, error)
}
