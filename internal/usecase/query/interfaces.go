package query

import (
	"context"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

type Gateway interface {
	ResolveRegion(name string) (entity.ReferenceRegion, error)
	FetchFacets(ctx context.Context, district string, q entity.Qualifiers) (*entity.LiveData, error)
}

type Retriever interface {
	Search(ctx context.Context, req entity.SearchRequest) []entity.ScoredChunk
}

type Synthesizer interface {
	Resolve(
		ctx context.Context,
		query string,
		qctx entity.QueryContext,
		chunks []entity.ScoredChunk,
		live *entity.LiveData,
	) *entity.ProviderResult
}

type History interface {
	Recent(userID string) []entity.Exchange
}
