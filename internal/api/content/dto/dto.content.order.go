package contentdto

import (
	"bytes"
	"encoding/json"

	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// OrderItemInput is one element of the PUT /order/:kind body. Order is kept
// raw so a non-integer value can be reported against its id.
type OrderItemInput struct {
	ID    string          `json:"id"`
	Order json.RawMessage `json:"order"`
}

// ToOrderUpdates converts items, failing on the first order that is not a
// JSON integer.
func ToOrderUpdates(items []OrderItemInput) ([]contentsvc.OrderUpdate, error) {
	out := make([]contentsvc.OrderUpdate, 0, len(items))
	for _, item := range items {
		raw := bytes.TrimSpace(item.Order)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return nil, common.NewValidationError("order of %q is required", item.ID)
		}
		var order int64
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, common.NewValidationError("order of %q must be an integer, got %s", item.ID, string(raw))
		}
		out = append(out, contentsvc.OrderUpdate{ID: item.ID, Order: order})
	}
	return out, nil
}
