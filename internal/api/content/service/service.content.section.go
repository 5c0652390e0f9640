package contentsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// ===== Section =====

// CreateSection inserts an active section. Names are unique.
func (s *LifecycleService) CreateSection(ctx context.Context, in SectionInput) (*contentmodels.Section, error) {
	name, err := requiredName(in.Name, "name")
	if err != nil {
		return nil, err
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	var created contentmodels.Section
	err = s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		if err := ensureUnique(ctx, s.store.Sections, bson.M{"name": name}, primitive.NilObjectID,
			"section name %q already exists", name); err != nil {
			return err
		}
		created, err = s.store.Sections.InsertOne(ctx, contentmodels.Section{
			Name:        name,
			Description: stringOr(in.Description, ""),
			Image:       stringOr(in.Image, ""),
			IsActive:    boolOr(in.IsActive, true),
			Order:       intOr(in.Order, 0),
		})
		if err != nil {
			return err
		}
		ev.change(s.store.Sections.CollectionName(), events.OpInsert, created.ID, created, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSection changes the given fields. A replaced image is released.
func (s *LifecycleService) UpdateSection(ctx context.Context, id primitive.ObjectID, in SectionInput) (*contentmodels.Section, error) {
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	var updated contentmodels.Section
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		current, err := s.store.Sections.FindOneById(ctx, id)
		if err != nil {
			return notFoundAs(err, "section %s not found", id.Hex())
		}

		set := bson.M{}
		if in.Name != nil {
			name, err := requiredName(in.Name, "name")
			if err != nil {
				return err
			}
			if name != current.Name {
				if err := ensureUnique(ctx, s.store.Sections, bson.M{"name": name}, id,
					"section name %q already exists", name); err != nil {
					return err
				}
			}
			set["name"] = name
		}
		if in.Description != nil {
			set["description"] = stringOr(in.Description, "")
		}
		if changedString(in.Image, current.Image) {
			set["image"] = stringOr(in.Image, "")
			ev.release(id, current.Image)
		}
		if err := keepActive(in.IsActive, current.IsActive); err != nil {
			return err
		}
		if in.Order != nil {
			set["order"] = *in.Order
		}

		updated, err = s.store.Sections.UpdateById(ctx, id, bson.M{"$set": set})
		if err != nil {
			return notFoundAs(err, "section %s not found", id.Hex())
		}
		ev.change(s.store.Sections.CollectionName(), events.OpUpdate, id, updated, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ===== SectionItem =====

// CreateSectionItem inserts an item under an existing section. Names are
// unique per section and at most one item per section is main.
func (s *LifecycleService) CreateSectionItem(ctx context.Context, in SectionItemInput) (*contentmodels.SectionItem, error) {
	name, err := requiredName(in.Name, "name")
	if err != nil {
		return nil, err
	}
	if in.SectionID == nil || in.SectionID.IsZero() {
		return nil, common.NewValidationError("sectionId is required")
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}
	sectionID := *in.SectionID

	var created contentmodels.SectionItem
	err = s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		if _, err := s.resolver.ResolveParent(ctx, contentmodels.SectionRef(sectionID)); err != nil {
			return err
		}
		if err := ensureUnique(ctx, s.store.SectionItems, bson.M{"sectionId": sectionID, "name": name}, primitive.NilObjectID,
			"section item %q already exists in section %s", name, sectionID.Hex()); err != nil {
			return err
		}
		created, err = s.store.SectionItems.InsertOne(ctx, contentmodels.SectionItem{
			Name:        name,
			Description: stringOr(in.Description, ""),
			Image:       stringOr(in.Image, ""),
			IsActive:    boolOr(in.IsActive, true),
			IsMain:      boolOr(in.IsMain, false),
			Order:       intOr(in.Order, 0),
			SectionID:   sectionID,
		})
		if err != nil {
			return err
		}
		if created.IsMain {
			if err := s.clearMainItems(ctx, sectionID, created.ID); err != nil {
				return err
			}
		}
		ev.change(s.store.SectionItems.CollectionName(), events.OpInsert, created.ID, created, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSectionItem changes the given fields. Moving the item re-checks the
// target section and the name scope.
func (s *LifecycleService) UpdateSectionItem(ctx context.Context, id primitive.ObjectID, in SectionItemInput) (*contentmodels.SectionItem, error) {
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	var updated contentmodels.SectionItem
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		current, err := s.store.SectionItems.FindOneById(ctx, id)
		if err != nil {
			return notFoundAs(err, "section item %s not found", id.Hex())
		}

		set := bson.M{}
		sectionID := current.SectionID
		if in.SectionID != nil && *in.SectionID != current.SectionID {
			if in.SectionID.IsZero() {
				return common.NewValidationError("sectionId is required")
			}
			if _, err := s.resolver.ResolveParent(ctx, contentmodels.SectionRef(*in.SectionID)); err != nil {
				return err
			}
			sectionID = *in.SectionID
			set["sectionId"] = sectionID
		}
		name := current.Name
		if in.Name != nil {
			if name, err = requiredName(in.Name, "name"); err != nil {
				return err
			}
			set["name"] = name
		}
		if name != current.Name || sectionID != current.SectionID {
			if err := ensureUnique(ctx, s.store.SectionItems, bson.M{"sectionId": sectionID, "name": name}, id,
				"section item %q already exists in section %s", name, sectionID.Hex()); err != nil {
				return err
			}
		}
		if in.Description != nil {
			set["description"] = stringOr(in.Description, "")
		}
		if changedString(in.Image, current.Image) {
			set["image"] = stringOr(in.Image, "")
			ev.release(id, current.Image)
		}
		if err := keepActive(in.IsActive, current.IsActive); err != nil {
			return err
		}
		if in.IsMain != nil {
			set["isMain"] = *in.IsMain
		}
		if in.Order != nil {
			set["order"] = *in.Order
		}

		updated, err = s.store.SectionItems.UpdateById(ctx, id, bson.M{"$set": set})
		if err != nil {
			return notFoundAs(err, "section item %s not found", id.Hex())
		}
		if updated.IsMain {
			if err := s.clearMainItems(ctx, updated.SectionID, id); err != nil {
				return err
			}
		}
		ev.change(s.store.SectionItems.CollectionName(), events.OpUpdate, id, updated, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *LifecycleService) clearMainItems(ctx context.Context, sectionID, keep primitive.ObjectID) error {
	_, err := s.store.SectionItems.UpdateMany(ctx,
		bson.M{"sectionId": sectionID, "isMain": true, "_id": bson.M{"$ne": keep}},
		bson.M{"$set": bson.M{"isMain": false}})
	return err
}

// ===== SubSection =====

// CreateSubSection inserts a subsection owned by a section item, by parent
// sections, or by both. The slug defaults to the slugified name and is
// globally unique.
func (s *LifecycleService) CreateSubSection(ctx context.Context, in SubSectionInput) (*contentmodels.SubSection, error) {
	name, err := requiredName(in.Name, "name")
	if err != nil {
		return nil, err
	}
	slug := utility.Slugify(stringOr(in.Slug, ""))
	if slug == "" {
		slug = utility.Slugify(name)
	}
	if slug == "" {
		return nil, common.NewValidationError("slug is required")
	}
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	var itemID *primitive.ObjectID
	if in.SectionItemID != nil && !in.SectionItemID.IsZero() {
		id := *in.SectionItemID
		itemID = &id
	}
	parents := []primitive.ObjectID{}
	if in.ParentSectionIDs != nil {
		parents = utility.Unique(*in.ParentSectionIDs)
	}
	if itemID == nil && len(parents) == 0 {
		return nil, common.NewValidationError("sectionItemId or parentSectionIds is required")
	}

	var created contentmodels.SubSection
	err = s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		if err := s.checkSubSectionOwners(ctx, itemID, parents); err != nil {
			return err
		}
		if err := ensureUnique(ctx, s.store.SubSections, bson.M{"slug": slug}, primitive.NilObjectID,
			"subsection slug %q already exists", slug); err != nil {
			return err
		}
		created, err = s.store.SubSections.InsertOne(ctx, contentmodels.SubSection{
			Name:             name,
			Description:      stringOr(in.Description, ""),
			Slug:             slug,
			Image:            stringOr(in.Image, ""),
			IsActive:         boolOr(in.IsActive, true),
			IsMain:           boolOr(in.IsMain, false),
			Order:            intOr(in.Order, 0),
			SectionItemID:    itemID,
			ParentSectionIDs: parents,
			LanguageIDs:      []primitive.ObjectID{},
			Metadata:         in.Metadata,
		})
		if err != nil {
			return err
		}
		if created.IsMain && itemID != nil {
			if err := s.clearMainSubSections(ctx, *itemID, created.ID); err != nil {
				return err
			}
		}
		ev.change(s.store.SubSections.CollectionName(), events.OpInsert, created.ID, created, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSubSection changes the given fields. The subsection must keep at
// least one owner.
func (s *LifecycleService) UpdateSubSection(ctx context.Context, id primitive.ObjectID, in SubSectionInput) (*contentmodels.SubSection, error) {
	if err := checkOrder(in.Order); err != nil {
		return nil, err
	}

	var updated contentmodels.SubSection
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		current, err := s.store.SubSections.FindOneById(ctx, id)
		if err != nil {
			return notFoundAs(err, "subsection %s not found", id.Hex())
		}

		set := bson.M{}
		unset := bson.M{}

		itemID := current.SectionItemID
		if in.SectionItemID != nil {
			if in.SectionItemID.IsZero() {
				itemID = nil
				unset["sectionItemId"] = ""
			} else {
				v := *in.SectionItemID
				itemID = &v
				set["sectionItemId"] = v
			}
		}
		parents := current.ParentSectionIDs
		if in.ParentSectionIDs != nil {
			parents = utility.Unique(*in.ParentSectionIDs)
			set["parentSectionIds"] = parents
		}
		if in.SectionItemID != nil || in.ParentSectionIDs != nil {
			if itemID == nil && len(parents) == 0 {
				return common.NewValidationError("sectionItemId or parentSectionIds is required")
			}
			if err := s.checkSubSectionOwners(ctx, itemID, parents); err != nil {
				return err
			}
		}

		if in.Name != nil {
			name, err := requiredName(in.Name, "name")
			if err != nil {
				return err
			}
			set["name"] = name
		}
		if in.Slug != nil {
			slug := utility.Slugify(*in.Slug)
			if slug == "" {
				return common.NewValidationError("slug is required")
			}
			if slug != current.Slug {
				if err := ensureUnique(ctx, s.store.SubSections, bson.M{"slug": slug}, id,
					"subsection slug %q already exists", slug); err != nil {
					return err
				}
			}
			set["slug"] = slug
		}
		if in.Description != nil {
			set["description"] = stringOr(in.Description, "")
		}
		if changedString(in.Image, current.Image) {
			set["image"] = stringOr(in.Image, "")
			ev.release(id, current.Image)
		}
		if err := keepActive(in.IsActive, current.IsActive); err != nil {
			return err
		}
		if in.IsMain != nil {
			set["isMain"] = *in.IsMain
		}
		if in.Order != nil {
			set["order"] = *in.Order
		}
		if in.Metadata != nil {
			set["metadata"] = in.Metadata
		}

		update := bson.M{"$set": set}
		if len(unset) > 0 {
			update["$unset"] = unset
		}
		updated, err = s.store.SubSections.UpdateById(ctx, id, update)
		if err != nil {
			return notFoundAs(err, "subsection %s not found", id.Hex())
		}
		if updated.IsMain && updated.SectionItemID != nil {
			if err := s.clearMainSubSections(ctx, *updated.SectionItemID, id); err != nil {
				return err
			}
		}
		ev.change(s.store.SubSections.CollectionName(), events.OpUpdate, id, updated, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// checkSubSectionOwners resolves the item and every parent section.
func (s *LifecycleService) checkSubSectionOwners(ctx context.Context, itemID *primitive.ObjectID, parents []primitive.ObjectID) error {
	if itemID != nil {
		exists, err := s.store.SectionItems.DocumentExists(ctx, bson.M{"_id": *itemID})
		if err != nil {
			return err
		}
		if !exists {
			return common.NewNotFoundError("section item %s not found", itemID.Hex())
		}
	}
	if len(parents) == 0 {
		return nil
	}
	found, err := s.store.Sections.FindManyByIds(ctx, parents)
	if err != nil {
		return err
	}
	have := utility.NewIDSet()
	for _, section := range found {
		have.Add(section.ID)
	}
	for _, id := range parents {
		if !have.Has(id) {
			return common.NewNotFoundError("section %s not found", id.Hex())
		}
	}
	return nil
}

func (s *LifecycleService) clearMainSubSections(ctx context.Context, itemID, keep primitive.ObjectID) error {
	_, err := s.store.SubSections.UpdateMany(ctx,
		bson.M{"sectionItemId": itemID, "isMain": true, "_id": bson.M{"$ne": keep}},
		bson.M{"$set": bson.M{"isMain": false}})
	return err
}
