package contenthdl

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

func (h *ContentHandler) localizeParams(c fiber.Ctx) (id, languageID primitive.ObjectID, activeOnly bool, err error) {
	if id, err = h.ParseID(c, "id"); err != nil {
		return
	}
	if languageID, err = h.QueryID(c, "languageId"); err != nil {
		return
	}
	if languageID.IsZero() {
		err = common.NewValidationError("languageId is required")
		return
	}
	activeOnly, err = h.QueryBool(c, "activeOnly", true)
	return
}

// GetSectionContent returns the section tree with every element resolved
// to ?languageId.
func (h *ContentHandler) GetSectionContent(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, languageID, activeOnly, err := h.localizeParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		section, err := h.resolver.ResolveSection(c.Context(), id, languageID, activeOnly)
		h.HandleResponse(c, section, err)
		return nil
	})
}

func (h *ContentHandler) GetSubSectionContent(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, languageID, activeOnly, err := h.localizeParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		sub, err := h.resolver.ResolveSubSection(c.Context(), id, languageID, activeOnly)
		h.HandleResponse(c, sub, err)
		return nil
	})
}
