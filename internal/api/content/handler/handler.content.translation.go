package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	contentdto "github.com/AbdUllahO7/idigitek-server/internal/api/content/dto"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// UpsertTranslation writes the value of one element in one language. A
// second write for the same pair replaces the first.
func (h *ContentHandler) UpsertTranslation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.TranslationUpsertInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		translation, err := h.life.UpsertTranslation(c.Context(), input.ToInput())
		h.HandleResponse(c, translation, err)
		return nil
	})
}

// BulkUpsertTranslations applies every write or none.
func (h *ContentHandler) BulkUpsertTranslations(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.TranslationBulkInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		translations, err := h.life.BulkUpsertTranslations(c.Context(), input.ToInputs())
		h.HandleResponse(c, translations, err)
		return nil
	})
}

// GetTranslation answers ?elementId&languageId.
func (h *ContentHandler) GetTranslation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		elementID, err := h.QueryID(c, "elementId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		languageID, err := h.QueryID(c, "languageId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if elementID.IsZero() || languageID.IsZero() {
			h.HandleResponse(c, nil, common.NewValidationError("elementId and languageId are required"))
			return nil
		}
		translation, err := h.query.GetTranslation(c.Context(), elementID, languageID)
		h.HandleResponse(c, translation, err)
		return nil
	})
}

func (h *ContentHandler) DeleteTranslation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.life.DeleteTranslation(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

func (h *ContentHandler) ListLanguages(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		activeOnly, err := h.QueryBool(c, "activeOnly", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		languages, err := h.query.ListLanguages(c.Context(), activeOnly)
		h.HandleResponse(c, languages, err)
		return nil
	})
}

func (h *ContentHandler) CreateLanguage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.LanguageCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		language, err := h.life.CreateLanguage(c.Context(), input.ToInput())
		h.HandleCreated(c, language, err)
		return nil
	})
}

func (h *ContentHandler) GetLanguage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		language, err := h.query.GetLanguage(c.Context(), id)
		h.HandleResponse(c, language, err)
		return nil
	})
}

func (h *ContentHandler) UpdateLanguage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input contentdto.LanguageUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		language, err := h.life.UpdateLanguage(c.Context(), id, input.ToInput())
		h.HandleResponse(c, language, err)
		return nil
	})
}

// DeleteLanguage deactivates the language, or with ?hard=true removes it
// together with its translations.
func (h *ContentHandler) DeleteLanguage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		hard, err := h.QueryBool(c, "hard", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.life.DeleteLanguage(c.Context(), id, hard)
		h.HandleResponse(c, result, err)
		return nil
	})
}
