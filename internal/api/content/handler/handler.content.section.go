package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	contentdto "github.com/AbdUllahO7/idigitek-server/internal/api/content/dto"
)

// ListSections returns a page of sections by order.
func (h *ContentHandler) ListSections(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		activeOnly, err := h.QueryBool(c, "activeOnly", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, limit := h.ParsePagination(c)
		result, err := h.query.ListSections(c.Context(), activeOnly, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

func (h *ContentHandler) CreateSection(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.SectionCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		section, err := h.life.CreateSection(c.Context(), input.ToInput())
		h.HandleCreated(c, section, err)
		return nil
	})
}

func (h *ContentHandler) GetSection(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		section, err := h.query.GetSection(c.Context(), id)
		h.HandleResponse(c, section, err)
		return nil
	})
}

func (h *ContentHandler) UpdateSection(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input contentdto.SectionUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		section, err := h.life.UpdateSection(c.Context(), id, input.ToInput())
		h.HandleResponse(c, section, err)
		return nil
	})
}

// ListSectionItems lists the items of ?sectionId.
func (h *ContentHandler) ListSectionItems(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		sectionID, err := h.QueryID(c, "sectionId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		activeOnly, err := h.QueryBool(c, "activeOnly", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		items, err := h.query.ListSectionItems(c.Context(), sectionID, activeOnly)
		h.HandleResponse(c, items, err)
		return nil
	})
}

func (h *ContentHandler) CreateSectionItem(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.SectionItemCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		item, err := h.life.CreateSectionItem(c.Context(), input.ToInput())
		h.HandleCreated(c, item, err)
		return nil
	})
}

func (h *ContentHandler) GetSectionItem(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		item, err := h.query.GetSectionItem(c.Context(), id)
		h.HandleResponse(c, item, err)
		return nil
	})
}

func (h *ContentHandler) UpdateSectionItem(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input contentdto.SectionItemUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		item, err := h.life.UpdateSectionItem(c.Context(), id, input.ToInput())
		h.HandleResponse(c, item, err)
		return nil
	})
}
