package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	contentdto "github.com/AbdUllahO7/idigitek-server/internal/api/content/dto"
)

// ListElements lists the elements whose primary parent is
// ?parentType&parentId.
func (h *ContentHandler) ListElements(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		parent, err := h.parentFromQuery(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		activeOnly, err := h.QueryBool(c, "activeOnly", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		elements, err := h.query.ListElements(c.Context(), parent, activeOnly)
		h.HandleResponse(c, elements, err)
		return nil
	})
}

func (h *ContentHandler) CreateElement(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.ElementCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		element, err := h.life.CreateElement(c.Context(), input.ToInput())
		h.HandleCreated(c, element, err)
		return nil
	})
}

func (h *ContentHandler) GetElement(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		element, err := h.query.GetElement(c.Context(), id)
		h.HandleResponse(c, element, err)
		return nil
	})
}

func (h *ContentHandler) UpdateElement(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input contentdto.ElementUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := input.CheckParent(); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		element, err := h.life.UpdateElement(c.Context(), id, input.ToInput())
		h.HandleResponse(c, element, err)
		return nil
	})
}

// GetElementTranslations returns the element with all of its translations.
func (h *ContentHandler) GetElementTranslations(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.query.GetElementWithTranslations(c.Context(), id)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// GetElementParents lists the sections and subsections the element is
// related to.
func (h *ContentHandler) GetElementParents(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		activeOnly, err := h.QueryBool(c, "activeOnly", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.parents.ListParentsFor(c.Context(), id, activeOnly)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// Associate relates an element to a further parent.
func (h *ContentHandler) Associate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentdto.AssociationCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		relation, err := h.life.AssociateElement(c.Context(), input.ToInput())
		h.HandleCreated(c, relation, err)
		return nil
	})
}

// RemoveAssociation deletes or deactivates the relation named by
// ?elementId&parentType&parentId.
func (h *ContentHandler) RemoveAssociation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		elementID, err := h.QueryID(c, "elementId")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		parent, err := h.parentFromQuery(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		hard, err := h.QueryBool(c, "hard", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.life.RemoveAssociation(c.Context(), elementID, parent, hard)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// ListRelations lists the relations of ?parentType&parentId by order.
func (h *ContentHandler) ListRelations(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		parent, err := h.parentFromQuery(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		activeOnly, err := h.QueryBool(c, "activeOnly", false)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		relations, err := h.parents.ListRelationsFor(c.Context(), parent, activeOnly)
		h.HandleResponse(c, relations, err)
		return nil
	})
}
