package contentdto

import (
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// TranslationUpsertInput is one translation write. value may be a string, a
// list of strings or an object.
type TranslationUpsertInput struct {
	ElementID  string                         `json:"elementId" validate:"required,objectid"`
	LanguageID string                         `json:"languageId" validate:"required,objectid"`
	Value      contentmodels.TranslationValue `json:"value"`
	IsActive   *bool                          `json:"isActive,omitempty"`
}

func (in TranslationUpsertInput) ToInput() contentsvc.TranslationInput {
	return contentsvc.TranslationInput{
		ElementID:  utility.String2ObjectID(in.ElementID),
		LanguageID: utility.String2ObjectID(in.LanguageID),
		Value:      in.Value,
		IsActive:   in.IsActive,
	}
}

// TranslationBulkInput is the body of PUT /translations/bulk.
type TranslationBulkInput struct {
	Translations []TranslationUpsertInput `json:"translations" validate:"required,min=1,max=500,dive"`
}

func (in TranslationBulkInput) ToInputs() []contentsvc.TranslationInput {
	out := make([]contentsvc.TranslationInput, 0, len(in.Translations))
	for _, t := range in.Translations {
		out = append(out, t.ToInput())
	}
	return out
}

// LanguageCreateInput is the body of POST /languages.
type LanguageCreateInput struct {
	Name     string `json:"name" validate:"required,max=100,no_xss"`
	Code     string `json:"code" validate:"required,min=2,max=16,no_xss"`
	IsActive *bool  `json:"isActive,omitempty"`
}

func (in LanguageCreateInput) ToInput() contentsvc.LanguageInput {
	return contentsvc.LanguageInput{Name: &in.Name, Code: &in.Code, IsActive: in.IsActive}
}

// LanguageUpdateInput is the body of PUT /languages/:id.
type LanguageUpdateInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100,no_xss"`
	Code     *string `json:"code,omitempty" validate:"omitempty,min=2,max=16,no_xss"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (in LanguageUpdateInput) ToInput() contentsvc.LanguageInput {
	return contentsvc.LanguageInput{Name: in.Name, Code: in.Code, IsActive: in.IsActive}
}
