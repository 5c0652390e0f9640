package contentsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// cascadePlan is the full set of rows a delete touches, collected level by
// level before anything is written.
type cascadePlan struct {
	kind contentmodels.EntityKind
	root primitive.ObjectID

	sections    []primitive.ObjectID
	items       []primitive.ObjectID
	subSections []primitive.ObjectID
	elements    []primitive.ObjectID

	// detached subsections keep at least one owner outside the cascade.
	detached []contentmodels.SubSection
	// touched subsections survive but lose primary elements, so their
	// languageIds must be recomputed.
	touched []primitive.ObjectID

	assets []string
}

// collect walks the tree below the root. The root must exist.
func (s *LifecycleService) collect(ctx context.Context, kind contentmodels.EntityKind, id primitive.ObjectID) (*cascadePlan, error) {
	plan := &cascadePlan{kind: kind, root: id}

	switch kind {
	case contentmodels.KindSection:
		section, err := s.store.Sections.FindOneById(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, "section %s not found", id.Hex())
		}
		plan.sections = []primitive.ObjectID{id}
		plan.assets = append(plan.assets, section.Image)

		items, err := s.store.SectionItems.Find(ctx, bson.M{"sectionId": id}, nil)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			plan.items = append(plan.items, item.ID)
			plan.assets = append(plan.assets, item.Image)
		}

	case contentmodels.KindSectionItem:
		item, err := s.store.SectionItems.FindOneById(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, "section item %s not found", id.Hex())
		}
		plan.items = []primitive.ObjectID{id}
		plan.assets = append(plan.assets, item.Image)

	case contentmodels.KindSubSection:
		sub, err := s.store.SubSections.FindOneById(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, "subsection %s not found", id.Hex())
		}
		plan.subSections = []primitive.ObjectID{id}
		plan.assets = append(plan.assets, sub.Image)

	case contentmodels.KindElement:
		element, err := s.store.Elements.FindOneById(ctx, id)
		if err != nil {
			return nil, notFoundAs(err, "element %s not found", id.Hex())
		}
		plan.elements = []primitive.ObjectID{id}
		plan.assets = append(plan.assets, elementAsset(&element))
		if element.ParentType == contentmodels.ParentKindSubSection {
			plan.touched = append(plan.touched, element.ParentID)
		}
		return plan, nil
	}

	if err := s.collectSubSections(ctx, plan); err != nil {
		return nil, err
	}
	if err := s.collectElements(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// collectSubSections adds the subsections whose every owner is in the plan
// and records the others as detached.
func (s *LifecycleService) collectSubSections(ctx context.Context, plan *cascadePlan) error {
	if len(plan.sections) == 0 && len(plan.items) == 0 {
		return nil
	}

	var or bson.A
	if len(plan.items) > 0 {
		or = append(or, bson.M{"sectionItemId": bson.M{"$in": plan.items}})
	}
	if len(plan.sections) > 0 {
		or = append(or, bson.M{"parentSectionIds": bson.M{"$in": plan.sections}})
	}
	candidates, err := s.store.SubSections.Find(ctx, bson.M{"$or": or}, nil)
	if err != nil {
		return err
	}

	owners := utility.NewIDSet(append(append([]primitive.ObjectID{}, plan.sections...), plan.items...)...)
	for _, sub := range candidates {
		owned := true
		for _, owner := range sub.Owners() {
			if !owners.Has(owner) {
				owned = false
				break
			}
		}
		if owned {
			plan.subSections = append(plan.subSections, sub.ID)
			plan.assets = append(plan.assets, sub.Image)
		} else {
			plan.detached = append(plan.detached, sub)
		}
	}
	return nil
}

// collectElements adds the elements whose primary parent is in the plan.
// Elements only related to a planned parent stay; their relations do not.
func (s *LifecycleService) collectElements(ctx context.Context, plan *cascadePlan) error {
	var or bson.A
	if len(plan.sections) > 0 {
		or = append(or, bson.M{"parentType": contentmodels.ParentKindSection, "parentId": bson.M{"$in": plan.sections}})
	}
	if len(plan.subSections) > 0 {
		or = append(or, bson.M{"parentType": contentmodels.ParentKindSubSection, "parentId": bson.M{"$in": plan.subSections}})
	}
	if len(or) == 0 {
		return nil
	}
	elements, err := s.store.Elements.Find(ctx, bson.M{"$or": or}, nil)
	if err != nil {
		return err
	}
	for i := range elements {
		plan.elements = append(plan.elements, elements[i].ID)
		plan.assets = append(plan.assets, elementAsset(&elements[i]))
	}
	return nil
}

// relationFilter matches relations from a planned element or to a planned
// parent. It is nil when the plan has neither.
func (p *cascadePlan) relationFilter() bson.M {
	var or bson.A
	if len(p.elements) > 0 {
		or = append(or, bson.M{"elementId": bson.M{"$in": p.elements}})
	}
	if len(p.sections) > 0 {
		or = append(or, bson.M{"parentType": contentmodels.ParentKindSection, "parentId": bson.M{"$in": p.sections}})
	}
	if len(p.subSections) > 0 {
		or = append(or, bson.M{"parentType": contentmodels.ParentKindSubSection, "parentId": bson.M{"$in": p.subSections}})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

func elementAsset(e *contentmodels.ContentElement) string {
	switch e.Type {
	case contentmodels.ElementTypeImage, contentmodels.ElementTypeGallery,
		contentmodels.ElementTypeVideo, contentmodels.ElementTypeIcon:
		return e.DefaultContent
	}
	return ""
}

// applyHardDelete removes the root, then everything below it. Rows already
// gone are not an error.
func (s *LifecycleService) applyHardDelete(ctx context.Context, plan *cascadePlan, result *CascadeResult) error {
	var err error
	switch plan.kind {
	case contentmodels.KindSection:
		err = s.store.Sections.DeleteById(ctx, plan.root)
	case contentmodels.KindSectionItem:
		err = s.store.SectionItems.DeleteById(ctx, plan.root)
	case contentmodels.KindSubSection:
		err = s.store.SubSections.DeleteById(ctx, plan.root)
	case contentmodels.KindElement:
		err = s.store.Elements.DeleteById(ctx, plan.root)
	}
	if err != nil {
		return notFoundAs(err, "%s %s not found", plan.kind, plan.root.Hex())
	}

	if len(plan.sections) > 0 {
		result.Sections = int64(len(plan.sections))
	}
	if len(plan.items) > 0 {
		n, err := s.store.SectionItems.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": plan.items}})
		if err != nil {
			return err
		}
		result.SectionItems = n
		if plan.kind == contentmodels.KindSectionItem {
			result.SectionItems++
		}
	}
	if len(plan.subSections) > 0 {
		n, err := s.store.SubSections.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": plan.subSections}})
		if err != nil {
			return err
		}
		result.SubSections = n
		if plan.kind == contentmodels.KindSubSection {
			result.SubSections++
		}
	}
	if len(plan.elements) > 0 {
		n, err := s.store.Elements.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": plan.elements}})
		if err != nil {
			return err
		}
		result.Elements = n
		if plan.kind == contentmodels.KindElement {
			result.Elements++
		}

		n, err = s.store.Translations.DeleteMany(ctx, bson.M{"elementId": bson.M{"$in": plan.elements}})
		if err != nil {
			return err
		}
		result.Translations = n
	}
	if filter := plan.relationFilter(); filter != nil {
		n, err := s.store.Relations.DeleteMany(ctx, filter)
		if err != nil {
			return err
		}
		result.Relations = n
	}

	owners := utility.NewIDSet(append(append([]primitive.ObjectID{}, plan.sections...), plan.items...)...)
	for _, sub := range plan.detached {
		update := bson.M{}
		if sub.SectionItemID != nil && owners.Has(*sub.SectionItemID) {
			update["$unset"] = bson.M{"sectionItemId": ""}
		}
		if len(plan.sections) > 0 {
			update["$pull"] = bson.M{"parentSectionIds": bson.M{"$in": plan.sections}}
		}
		if len(update) == 0 {
			continue
		}
		if _, err := s.store.SubSections.UpdateById(ctx, sub.ID, update); err != nil {
			if common.IsNotFound(err) {
				continue
			}
			return err
		}
		result.Detached++
	}

	for _, id := range plan.touched {
		if err := s.refreshLanguageIDs(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// applySoftDelete deactivates the root and its descendants. Detached
// subsections and translations are left as they are.
func (s *LifecycleService) applySoftDelete(ctx context.Context, plan *cascadePlan, result *CascadeResult) error {
	off := bson.M{"$set": bson.M{"isActive": false}}

	var err error
	switch plan.kind {
	case contentmodels.KindSection:
		_, err = s.store.Sections.UpdateById(ctx, plan.root, off)
		result.Sections = 1
	case contentmodels.KindSectionItem:
		_, err = s.store.SectionItems.UpdateById(ctx, plan.root, off)
	case contentmodels.KindSubSection:
		_, err = s.store.SubSections.UpdateById(ctx, plan.root, off)
	case contentmodels.KindElement:
		_, err = s.store.Elements.UpdateById(ctx, plan.root, off)
	}
	if err != nil {
		return notFoundAs(err, "%s %s not found", plan.kind, plan.root.Hex())
	}

	if len(plan.items) > 0 {
		n, err := s.store.SectionItems.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": plan.items}}, off)
		if err != nil {
			return err
		}
		result.SectionItems = n
	}
	if len(plan.subSections) > 0 {
		n, err := s.store.SubSections.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": plan.subSections}}, off)
		if err != nil {
			return err
		}
		result.SubSections = n
	}
	if len(plan.elements) > 0 {
		n, err := s.store.Elements.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": plan.elements}}, off)
		if err != nil {
			return err
		}
		result.Elements = n
	}
	if filter := plan.relationFilter(); filter != nil {
		n, err := s.store.Relations.UpdateMany(ctx, filter, off)
		if err != nil {
			return err
		}
		result.Relations = n
	}
	return nil
}
