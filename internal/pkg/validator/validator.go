package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
)

const (
	MaxQueryLength    = 1000
	MaxDocumentLength = 20000
	MaxSearchLimit    = 50
	MaxUserIDLength   = 128
	MaxScoreThreshold = 1.01
)

// Validator checks request payloads before they reach the usecases
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateQuery(req *entity.QueryRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Query) > MaxQueryLength {
		return fmt.Errorf("%w: query exceeds %d characters", entity.ErrInvalidQuery, MaxQueryLength)
	}
	if err := validateLanguage(req.Language); err != nil {
		return err
	}
	if len(req.UserID) > MaxUserIDLength {
		return fmt.Errorf("%w: user_id exceeds %d characters", entity.ErrInvalidParameter, MaxUserIDLength)
	}
	return nil
}

func (v *Validator) ValidateSearch(req *entity.SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if err := validateLanguage(req.Language); err != nil {
		return err
	}
	if req.Limit < 0 || req.Limit > MaxSearchLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", entity.ErrInvalidParameter, MaxSearchLimit)
	}
	if t := req.ScoreThreshold; t != nil && (*t < 0 || *t > MaxScoreThreshold) {
		return fmt.Errorf("%w: score_threshold must be between 0 and %.2f", entity.ErrInvalidParameter, MaxScoreThreshold)
	}
	return nil
}

func (v *Validator) ValidateDocument(req *entity.AddDocumentRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Content) > MaxDocumentLength {
		return fmt.Errorf("%w: content exceeds %d characters", entity.ErrInvalidParameter, MaxDocumentLength)
	}
	if strings.TrimSpace(req.DocumentType) == "" {
		return fmt.Errorf("%w: document_type", entity.ErrMissingField)
	}
	return validateLanguage(req.Language)
}

func (v *Validator) ValidateDistrict(district string) error {
	if strings.TrimSpace(district) == "" {
		return fmt.Errorf("%w: district", entity.ErrMissingField)
	}
	return nil
}

func validateLanguage(lang entity.Language) error {
	if lang != "" && !lang.IsSupported() {
		return fmt.Errorf("%w: %s", entity.ErrUnsupportedLanguage, lang)
	}
	return nil
}
