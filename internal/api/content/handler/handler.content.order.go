package contenthdl

import (
	"github.com/gofiber/fiber/v3"

	contentdto "github.com/AbdUllahO7/idigitek-server/internal/api/content/dto"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// UpdateOrder applies a batch of [{id, order}] to the entities of :kind.
// One bad entry rejects the whole batch.
func (h *ContentHandler) UpdateOrder(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		kind, ok := contentmodels.ParseEntityKind(c.Params("kind"))
		if !ok {
			h.HandleResponse(c, nil, common.NewValidationError("unknown kind %q", c.Params("kind")))
			return nil
		}
		var items []contentdto.OrderItemInput
		if err := h.DecodeBody(c, &items); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		updates, err := contentdto.ToOrderUpdates(items)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		n, err := h.ordering.UpdateOrder(c.Context(), kind, updates)
		h.HandleResponse(c, fiber.Map{"updated": n}, err)
		return nil
	})
}
