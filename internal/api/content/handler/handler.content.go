// Package contenthdl serves the content API: the hierarchy, elements and
// their relations, translations and ordering.
package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/AbdUllahO7/idigitek-server/internal/api/base/handler"
	contentdto "github.com/AbdUllahO7/idigitek-server/internal/api/content/dto"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
)

// ContentHandler wires the content services to fiber.
type ContentHandler struct {
	*basehdl.BaseHandler
	life     *contentsvc.LifecycleService
	query    *contentsvc.ContentQueryService
	parents  *contentsvc.ParentResolver
	resolver *contentsvc.TranslationResolver
	ordering *contentsvc.OrderingService
}

// NewContentHandler builds every content service on store.
func NewContentHandler(store *contentsvc.ContentStore) *ContentHandler {
	return &ContentHandler{
		BaseHandler: basehdl.NewBaseHandler(),
		life:        contentsvc.NewLifecycleService(store),
		query:       contentsvc.NewContentQueryService(store),
		parents:     contentsvc.NewParentResolver(store),
		resolver:    contentsvc.NewTranslationResolver(store),
		ordering:    contentsvc.NewOrderingService(store),
	}
}

// HandleDelete returns a handler deleting the :id entity of kind. ?hard=true
// removes the subtree, otherwise it is deactivated.
func (h *ContentHandler) HandleDelete(kind contentmodels.EntityKind) fiber.Handler {
	return func(c fiber.Ctx) error {
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
			result, err := h.life.Delete(c.Context(), kind, id, hard)
			h.HandleResponse(c, result, err)
			return nil
		})
	}
}

// HandleSetActive returns a handler for PUT /:id/active.
func (h *ContentHandler) HandleSetActive(kind contentmodels.EntityKind) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error {
			id, err := h.ParseID(c, "id")
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			var input contentdto.ActiveInput
			if err := h.ParseRequestBody(c, &input); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			result, err := h.life.SetActive(c.Context(), kind, id, *input.IsActive)
			h.HandleResponse(c, result, err)
			return nil
		})
	}
}

// parentFromQuery reads parentType and parentId from the query string.
func (h *ContentHandler) parentFromQuery(c fiber.Ctx) (contentmodels.ParentRef, error) {
	id, err := h.QueryID(c, "parentId")
	if err != nil {
		return contentmodels.ParentRef{}, err
	}
	return contentmodels.ParentRef{Kind: contentmodels.ParentKind(c.Query("parentType")), ID: id}, nil
}
