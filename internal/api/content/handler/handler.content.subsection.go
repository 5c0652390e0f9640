package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	contentdto "github.com/AbdUllahO7/idigitek-server/internal/api/content/dto"
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
)

// ListSubSections filters by ?sectionItemId and ?sectionId.
func (h *ContentHandler) ListSubSections(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var q contentsvc.SubSectionQuery
		var err error
		if q.SectionItemID, err = h.QueryID(c, "sectionItemId"); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if q.SectionID, err = h.QueryID(c, "sectionId"); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if q.ActiveOnly, err = h.QueryBool(c, "activeOnly", false); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		subs, err := h.query.ListSubSections(c.Context(), q)
		h.HandleResponse(c, subs, err)
		return nil
	})
}

func (h *ContentHandler) CreateSubSection(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.SubSectionCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		sub, err := h.life.CreateSubSection(c.Context(), input.ToInput())
		h.HandleCreated(c, sub, err)
		return nil
	})
}

func (h *ContentHandler) GetSubSection(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		sub, err := h.query.GetSubSection(c.Context(), id)
		h.HandleResponse(c, sub, err)
		return nil
	})
}

func (h *ContentHandler) GetSubSectionBySlug(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		sub, err := h.query.GetSubSectionBySlug(c.Context(), c.Params("slug"))
		h.HandleResponse(c, sub, err)
		return nil
	})
}

func (h *ContentHandler) UpdateSubSection(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input contentdto.SubSectionUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		sub, err := h.life.UpdateSubSection(c.Context(), id, input.ToInput())
		h.HandleResponse(c, sub, err)
		return nil
	})
}
