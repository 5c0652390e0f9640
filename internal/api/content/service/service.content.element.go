package contentsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// CreateElement inserts an element under its primary parent. The name is
// unique within that parent.
func (s *LifecycleService) CreateElement(ctx context.Context, in ElementInput) (*contentmodels.ContentElement, error) {
	name, err := requiredName(in.Name, "name")
	if err != nil {
		return nil, err
	}
	if in.Type == nil || !in.Type.Valid() {
		return nil, common.NewValidationError("type must be one of text, image, icon, gallery, video, link, custom")
	}
	if in.Parent == nil {
		return nil, common.NewValidationError("parentType and parentId are required")
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}
	parent := *in.Parent

	var created contentmodels.ContentElement
	err = s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		if _, err := s.resolver.ResolveParent(ctx, parent); err != nil {
			return err
		}
		if err := ensureUnique(ctx, s.store.Elements,
			bson.M{"parentType": parent.Kind, "parentId": parent.ID, "name": name}, primitive.NilObjectID,
			"element %q already exists in %s", name, parent); err != nil {
			return err
		}
		created, err = s.store.Elements.InsertOne(ctx, contentmodels.ContentElement{
			Name:           name,
			Type:           *in.Type,
			ParentType:     parent.Kind,
			ParentID:       parent.ID,
			DefaultContent: stringOr(in.DefaultContent, ""),
			IsActive:       boolOr(in.IsActive, true),
			Order:          intOr(in.Order, 0),
		})
		if err != nil {
			return err
		}
		ev.change(s.store.Elements.CollectionName(), events.OpInsert, created.ID, created, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateElement changes the given fields. Moving an element to another
// parent re-checks the parent and the name scope and refreshes the language
// lists of both subsections involved.
func (s *LifecycleService) UpdateElement(ctx context.Context, id primitive.ObjectID, in ElementInput) (*contentmodels.ContentElement, error) {
	if in.Type != nil && !in.Type.Valid() {
		return nil, common.NewValidationError("type must be one of text, image, icon, gallery, video, link, custom")
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	var updated contentmodels.ContentElement
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		current, err := s.store.Elements.FindOneById(ctx, id)
		if err != nil {
			return notFoundAs(err, "element %s not found", id.Hex())
		}

		set := bson.M{}
		parent := current.Parent()
		moved := false
		if in.Parent != nil && *in.Parent != parent {
			if _, err := s.resolver.ResolveParent(ctx, *in.Parent); err != nil {
				return err
			}
			parent, moved = *in.Parent, true
			set["parentType"] = parent.Kind
			set["parentId"] = parent.ID
		}
		name := current.Name
		if in.Name != nil {
			if name, err = requiredName(in.Name, "name"); err != nil {
				return err
			}
			set["name"] = name
		}
		if name != current.Name || moved {
			if err := ensureUnique(ctx, s.store.Elements,
				bson.M{"parentType": parent.Kind, "parentId": parent.ID, "name": name}, id,
				"element %q already exists in %s", name, parent); err != nil {
				return err
			}
		}
		if in.Type != nil {
			set["type"] = *in.Type
		}
		if in.DefaultContent != nil && *in.DefaultContent != current.DefaultContent {
			set["defaultContent"] = *in.DefaultContent
			ev.release(id, elementAsset(&current))
		}
		if err := keepActive(in.IsActive, current.IsActive); err != nil {
			return err
		}
		if in.Order != nil {
			set["order"] = *in.Order
		}

		updated, err = s.store.Elements.UpdateById(ctx, id, bson.M{"$set": set})
		if err != nil {
			return notFoundAs(err, "element %s not found", id.Hex())
		}
		if moved {
			for _, ref := range []contentmodels.ParentRef{current.Parent(), parent} {
				if ref.Kind != contentmodels.ParentKindSubSection {
					continue
				}
				if err := s.refreshLanguageIDs(ctx, ref.ID); err != nil {
					return err
				}
			}
		}
		ev.change(s.store.Elements.CollectionName(), events.OpUpdate, id, updated, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AssociateElement creates or updates the relation between an element and
// a parent. Repeating the call for the same pair updates the one relation.
func (s *LifecycleService) AssociateElement(ctx context.Context, in AssociationInput) (*contentmodels.Relation, error) {
	if in.ElementID.IsZero() {
		return nil, common.NewValidationError("elementId is required")
	}
	if !in.Parent.Kind.Valid() {
		return nil, common.NewValidationError("invalid parentType %q", in.Parent.Kind)
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}
	config := in.Config
	if config == nil {
		config = map[string]interface{}{}
	}

	var relation contentmodels.Relation
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		exists, err := s.store.Elements.DocumentExists(ctx, bson.M{"_id": in.ElementID})
		if err != nil {
			return err
		}
		if !exists {
			return common.NewNotFoundError("element %s not found", in.ElementID.Hex())
		}
		if _, err := s.resolver.ResolveParent(ctx, in.Parent); err != nil {
			return err
		}

		relation, err = s.store.Relations.Upsert(ctx,
			bson.M{"elementId": in.ElementID, "parentType": in.Parent.Kind, "parentId": in.Parent.ID},
			bson.M{"$set": bson.M{
				"order":    intOr(in.Order, 0),
				"isActive": boolOr(in.IsActive, true),
				"config":   config,
			}})
		if err != nil {
			return err
		}
		ev.change(s.store.Relations.CollectionName(), events.OpUpsert, relation.ID, relation, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

// RemoveAssociation deletes the relation (hard) or deactivates it. A pair
// without a relation is a NotFoundError.
func (s *LifecycleService) RemoveAssociation(ctx context.Context, elementID primitive.ObjectID, parent contentmodels.ParentRef, hard bool) error {
	if !parent.Kind.Valid() {
		return common.NewValidationError("invalid parentType %q", parent.Kind)
	}
	filter := bson.M{"elementId": elementID, "parentType": parent.Kind, "parentId": parent.ID}

	return s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		relation, err := s.store.Relations.FindOne(ctx, filter, nil)
		if err != nil {
			return notFoundAs(err, "association between element %s and %s not found", elementID.Hex(), parent)
		}
		if hard {
			if err := s.store.Relations.DeleteById(ctx, relation.ID); err != nil {
				return notFoundAs(err, "association %s not found", relation.ID.Hex())
			}
			ev.change(s.store.Relations.CollectionName(), events.OpDelete, relation.ID, nil, 1)
			return nil
		}
		if _, err := s.store.Relations.UpdateById(ctx, relation.ID, bson.M{"$set": bson.M{"isActive": false}}); err != nil {
			return notFoundAs(err, "association %s not found", relation.ID.Hex())
		}
		ev.change(s.store.Relations.CollectionName(), events.OpSoftDelete, relation.ID, nil, 1)
		return nil
	})
}
