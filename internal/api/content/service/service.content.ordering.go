package contentsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "github.com/AbdUllahO7/idigitek-server/internal/api/base/service"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// OrderingService rewrites the order of a batch of entities of one kind.
// The whole batch is validated before the first write and applied as one
// bulk write inside a transaction.
type OrderingService struct {
	store *ContentStore
}

// NewOrderingService binds store.
func NewOrderingService(store *ContentStore) *OrderingService {
	return &OrderingService{store: store}
}

type orderEntry struct {
	id    primitive.ObjectID
	order int64
}

// UpdateOrder applies updates and returns the number of rows written. Any
// malformed, duplicated or unknown id and any negative order fails the whole
// call with a ValidationError naming the id.
func (s *OrderingService) UpdateOrder(ctx context.Context, kind contentmodels.EntityKind, updates []OrderUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, common.NewValidationError("no order updates given")
	}

	entries := make([]orderEntry, 0, len(updates))
	seen := utility.NewIDSet()
	for _, u := range updates {
		id, ok := utility.ParseObjectID(u.ID)
		if !ok {
			return 0, common.NewValidationError("invalid id %q", u.ID)
		}
		if !seen.Add(id) {
			return 0, common.NewValidationError("id %s appears more than once", u.ID)
		}
		if u.Order < 0 {
			return 0, common.NewValidationError("order of %s must be a non-negative integer, got %d", u.ID, u.Order)
		}
		entries = append(entries, orderEntry{id: id, order: u.Order})
	}

	var err error
	switch kind {
	case contentmodels.KindSection:
		err = reorder(ctx, s.store.Tx, s.store.Sections, kind, entries)
	case contentmodels.KindSectionItem:
		err = reorder(ctx, s.store.Tx, s.store.SectionItems, kind, entries)
	case contentmodels.KindSubSection:
		err = reorder(ctx, s.store.Tx, s.store.SubSections, kind, entries)
	case contentmodels.KindElement:
		err = reorder(ctx, s.store.Tx, s.store.Elements, kind, entries)
	case contentmodels.KindRelation:
		err = reorder(ctx, s.store.Tx, s.store.Relations, kind, entries)
	default:
		return 0, common.NewValidationError("%s cannot be reordered", kind)
	}
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func reorder[T any](ctx context.Context, tx basesvc.Transactor, store basesvc.BaseServiceMongo[T], kind contentmodels.EntityKind, entries []orderEntry) error {
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.id)
	}

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := store.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
		if err != nil {
			return err
		}
		found := utility.NewIDSet()
		for _, doc := range existing {
			if id, ok := documentID(doc); ok {
				found.Add(id)
			}
		}
		for _, e := range entries {
			if !found.Has(e.id) {
				return common.NewValidationError("%s %s does not exist", kind, e.id.Hex())
			}
		}

		batch := make([]basesvc.IDUpdate, 0, len(entries))
		for _, e := range entries {
			batch = append(batch, basesvc.IDUpdate{ID: e.id, Update: bson.M{"$set": bson.M{"order": e.order}}})
		}
		_, err = store.BulkUpdateByIds(ctx, batch)
		return err
	})
	if err != nil {
		return err
	}

	events.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: store.CollectionName(),
		Operation:      events.OpReorder,
		Affected:       len(entries),
	})
	return nil
}

func documentID(doc interface{}) (primitive.ObjectID, bool) {
	switch d := doc.(type) {
	case contentmodels.Section:
		return d.ID, true
	case contentmodels.SectionItem:
		return d.ID, true
	case contentmodels.SubSection:
		return d.ID, true
	case contentmodels.ContentElement:
		return d.ID, true
	case contentmodels.Relation:
		return d.ID, true
	}
	return primitive.NilObjectID, false
}
