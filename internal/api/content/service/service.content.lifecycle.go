package contentsvc

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "github.com/AbdUllahO7/idigitek-server/internal/api/base/service"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/logger"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// LifecycleService is the only writer of the content collections. Every
// public method is atomic: it runs in one store transaction and emits its
// events only after the commit.
type LifecycleService struct {
	store    *ContentStore
	resolver *ParentResolver
}

// NewLifecycleService binds store.
func NewLifecycleService(store *ContentStore) *LifecycleService {
	return &LifecycleService{store: store, resolver: NewParentResolver(store)}
}

// CascadeResult counts the rows a delete or deactivation touched.
type CascadeResult struct {
	OperationID  string `json:"operationId"`
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	Hard         bool   `json:"hardDelete"`
	Sections     int64  `json:"sections"`
	SectionItems int64  `json:"sectionItems"`
	SubSections  int64  `json:"subSections"`
	Detached     int64  `json:"detachedSubSections"`
	Elements     int64  `json:"elements"`
	Translations int64  `json:"translations"`
	Relations    int64  `json:"relations"`
}

// Total is the number of rows removed or deactivated.
func (r *CascadeResult) Total() int64 {
	return r.Sections + r.SectionItems + r.SubSections + r.Elements + r.Translations + r.Relations
}

// afterCommit collects events raised inside a transaction.
type afterCommit struct {
	changes []events.DataChangeEvent
	assets  []events.AssetReleasedEvent
}

func (a *afterCommit) change(collection, op string, id primitive.ObjectID, doc interface{}, affected int) {
	a.changes = append(a.changes, events.DataChangeEvent{
		CollectionName: collection,
		Operation:      op,
		DocumentID:     id,
		Document:       doc,
		Affected:       affected,
	})
}

func (a *afterCommit) release(source primitive.ObjectID, urls ...string) {
	var kept []string
	for _, u := range urls {
		if u != "" {
			kept = append(kept, u)
		}
	}
	if len(kept) > 0 {
		a.assets = append(a.assets, events.AssetReleasedEvent{Source: source, URLs: utility.Unique(kept)})
	}
}

// run executes fn in a transaction and publishes the collected events once
// it commits.
func (s *LifecycleService) run(ctx context.Context, fn func(ctx context.Context, ev *afterCommit) error) error {
	ev := &afterCommit{}
	err := s.store.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		*ev = afterCommit{}
		if err := fn(txCtx, ev); err != nil {
			return err
		}
		return s.dropReferencedAssets(txCtx, ev)
	})
	if err != nil {
		return err
	}
	for _, e := range ev.changes {
		events.EmitDataChanged(ctx, e)
	}
	for _, e := range ev.assets {
		events.EmitAssetReleased(ctx, e)
	}
	return nil
}

// dropReferencedAssets keeps only the released URLs that no section, item,
// subsection or element references once fn's writes are applied.
func (s *LifecycleService) dropReferencedAssets(ctx context.Context, ev *afterCommit) error {
	if len(ev.assets) == 0 {
		return nil
	}
	inUse := map[string]bool{}
	released := ev.assets[:0]
	for _, e := range ev.assets {
		var urls []string
		for _, u := range e.URLs {
			used, seen := inUse[u]
			if !seen {
				var err error
				if used, err = s.assetReferenced(ctx, u); err != nil {
					return err
				}
				inUse[u] = used
			}
			if !used {
				urls = append(urls, u)
			}
		}
		if len(urls) > 0 {
			e.URLs = urls
			released = append(released, e)
		}
	}
	ev.assets = released
	return nil
}

func (s *LifecycleService) assetReferenced(ctx context.Context, url string) (bool, error) {
	byImage := bson.M{"image": url}
	for _, exists := range []func() (bool, error){
		func() (bool, error) { return s.store.Sections.DocumentExists(ctx, byImage) },
		func() (bool, error) { return s.store.SectionItems.DocumentExists(ctx, byImage) },
		func() (bool, error) { return s.store.SubSections.DocumentExists(ctx, byImage) },
		func() (bool, error) { return s.store.Elements.DocumentExists(ctx, bson.M{"defaultContent": url}) },
	} {
		found, err := exists()
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

// keepActive rejects an update that would flip the active flag. Deactivation
// must cascade and reactivation is explicit, both through SetActive.
func keepActive(requested *bool, current bool) error {
	if requested != nil && *requested != current {
		return common.NewValidationError("isActive cannot be changed by update, use setActive")
	}
	return nil
}

// ensureUnique fails with a ConflictError when a document other than
// exclude matches filter.
func ensureUnique[T any](ctx context.Context, store basesvc.BaseServiceMongo[T], filter bson.M, exclude primitive.ObjectID, format string, args ...any) error {
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	exists, err := store.DocumentExists(ctx, filter)
	if err != nil {
		return err
	}
	if exists {
		return common.NewConflictError(format, args...)
	}
	return nil
}

// ===== delete / deactivate =====

// Delete removes (hard) or deactivates (soft) the entity and its
// descendants. A root that does not exist is a NotFoundError, descendants
// that vanished meanwhile are skipped.
func (s *LifecycleService) Delete(ctx context.Context, kind contentmodels.EntityKind, id primitive.ObjectID, hard bool) (*CascadeResult, error) {
	switch kind {
	case contentmodels.KindSection, contentmodels.KindSectionItem,
		contentmodels.KindSubSection, contentmodels.KindElement:
	default:
		return nil, common.NewValidationError("%s does not support cascading delete", kind)
	}

	result := &CascadeResult{OperationID: uuid.NewString(), Kind: string(kind), ID: id.Hex(), Hard: hard}
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		*result = CascadeResult{OperationID: result.OperationID, Kind: result.Kind, ID: result.ID, Hard: hard}

		plan, err := s.collect(ctx, kind, id)
		if err != nil {
			return err
		}
		if hard {
			err = s.applyHardDelete(ctx, plan, result)
		} else {
			err = s.applySoftDelete(ctx, plan, result)
		}
		if err != nil {
			return err
		}

		op := events.OpSoftDelete
		if hard {
			op = events.OpDelete
			ev.release(id, plan.assets...)
		}
		ev.change(s.collectionOf(kind), op, id, nil, int(result.Total()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"operation_id": result.OperationID,
		"kind":         kind,
		"id":           id.Hex(),
		"hard":         hard,
		"affected":     result.Total(),
		"detached":     result.Detached,
	}).Info("Cascade committed")
	return result, nil
}

// SetActive flips the active flag. Deactivation cascades like a soft delete;
// activation touches the entity alone.
func (s *LifecycleService) SetActive(ctx context.Context, kind contentmodels.EntityKind, id primitive.ObjectID, active bool) (*CascadeResult, error) {
	if !active {
		return s.Delete(ctx, kind, id, false)
	}

	result := &CascadeResult{OperationID: uuid.NewString(), Kind: string(kind), ID: id.Hex()}
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		update := bson.M{"$set": bson.M{"isActive": true}}
		var err error
		switch kind {
		case contentmodels.KindSection:
			_, err = s.store.Sections.UpdateById(ctx, id, update)
			result.Sections = 1
		case contentmodels.KindSectionItem:
			_, err = s.store.SectionItems.UpdateById(ctx, id, update)
			result.SectionItems = 1
		case contentmodels.KindSubSection:
			_, err = s.store.SubSections.UpdateById(ctx, id, update)
			result.SubSections = 1
		case contentmodels.KindElement:
			_, err = s.store.Elements.UpdateById(ctx, id, update)
			result.Elements = 1
		default:
			return common.NewValidationError("%s cannot be activated", kind)
		}
		if err != nil {
			return notFoundAs(err, "%s %s not found", kind, id.Hex())
		}
		ev.change(s.collectionOf(kind), events.OpUpdate, id, nil, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *LifecycleService) collectionOf(kind contentmodels.EntityKind) string {
	switch kind {
	case contentmodels.KindSection:
		return s.store.Sections.CollectionName()
	case contentmodels.KindSectionItem:
		return s.store.SectionItems.CollectionName()
	case contentmodels.KindSubSection:
		return s.store.SubSections.CollectionName()
	case contentmodels.KindElement:
		return s.store.Elements.CollectionName()
	case contentmodels.KindRelation:
		return s.store.Relations.CollectionName()
	case contentmodels.KindTranslation:
		return s.store.Translations.CollectionName()
	case contentmodels.KindLanguage:
		return s.store.Languages.CollectionName()
	}
	return string(kind)
}
