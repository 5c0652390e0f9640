package contentsvc

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// LocalizedElement is an element with its value in the requested language.
// Value is nil when the element has no translation in that language.
// Relation is set when the element is attached through a relation rather
// than by its primary parent.
type LocalizedElement struct {
	contentmodels.ContentElement
	Value    *contentmodels.TranslationValue `json:"value"`
	Relation *contentmodels.Relation         `json:"relation,omitempty"`
}

type LocalizedSubSection struct {
	contentmodels.SubSection
	Elements []LocalizedElement `json:"elements"`
}

type LocalizedSectionItem struct {
	contentmodels.SectionItem
	SubSections []LocalizedSubSection `json:"subSections"`
}

// LocalizedSection is a section tree. SubSections holds the subsections
// attached to the section directly that are not already under one of its
// items.
type LocalizedSection struct {
	contentmodels.Section
	Elements     []LocalizedElement     `json:"elements"`
	SectionItems []LocalizedSectionItem `json:"sectionItems"`
	SubSections  []LocalizedSubSection  `json:"subSections"`
}

// TranslationResolver builds localized trees. It never writes.
type TranslationResolver struct {
	store    *ContentStore
	resolver *ParentResolver
}

// NewTranslationResolver binds store.
func NewTranslationResolver(store *ContentStore) *TranslationResolver {
	return &TranslationResolver{store: store, resolver: NewParentResolver(store)}
}

// ResolveSection localizes the section tree rooted at id.
func (r *TranslationResolver) ResolveSection(ctx context.Context, id, languageID primitive.ObjectID, activeOnly bool) (*LocalizedSection, error) {
	root, err := r.resolver.ResolveParent(ctx, contentmodels.SectionRef(id))
	if err != nil {
		return nil, err
	}
	if activeOnly && !root.IsActive() {
		return nil, common.NewNotFoundError("section %s not found", id.Hex())
	}

	items, err := r.store.SectionItems.Find(ctx, activeFilter(bson.M{"sectionId": id}, activeOnly), siblingOrder())
	if err != nil {
		return nil, err
	}
	itemIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	subFilter := bson.M{"parentSectionIds": id}
	if len(itemIDs) > 0 {
		subFilter = bson.M{"$or": bson.A{
			bson.M{"sectionItemId": bson.M{"$in": itemIDs}},
			bson.M{"parentSectionIds": id},
		}}
	}
	subSections, err := r.store.SubSections.Find(ctx, activeFilter(subFilter, activeOnly), siblingOrder())
	if err != nil {
		return nil, err
	}

	parents := []contentmodels.ParentRef{contentmodels.SectionRef(id)}
	for _, sub := range subSections {
		parents = append(parents, contentmodels.SubSectionRef(sub.ID))
	}
	elements, err := r.localizeParents(ctx, parents, languageID, activeOnly)
	if err != nil {
		return nil, err
	}

	out := &LocalizedSection{
		Section:      *root.Section,
		Elements:     elements[contentmodels.SectionRef(id)],
		SectionItems: make([]LocalizedSectionItem, 0, len(items)),
		SubSections:  []LocalizedSubSection{},
	}
	byItem := make(map[primitive.ObjectID][]LocalizedSubSection, len(items))
	for _, sub := range subSections {
		localized := LocalizedSubSection{SubSection: sub, Elements: elements[contentmodels.SubSectionRef(sub.ID)]}
		if sub.SectionItemID != nil && utility.Contains(itemIDs, *sub.SectionItemID) {
			byItem[*sub.SectionItemID] = append(byItem[*sub.SectionItemID], localized)
			continue
		}
		out.SubSections = append(out.SubSections, localized)
	}
	for _, item := range items {
		subs := byItem[item.ID]
		if subs == nil {
			subs = []LocalizedSubSection{}
		}
		out.SectionItems = append(out.SectionItems, LocalizedSectionItem{SectionItem: item, SubSections: subs})
	}
	return out, nil
}

// ResolveSubSection localizes one subsection.
func (r *TranslationResolver) ResolveSubSection(ctx context.Context, id, languageID primitive.ObjectID, activeOnly bool) (*LocalizedSubSection, error) {
	ref := contentmodels.SubSectionRef(id)
	root, err := r.resolver.ResolveParent(ctx, ref)
	if err != nil {
		return nil, err
	}
	if activeOnly && !root.IsActive() {
		return nil, common.NewNotFoundError("subsection %s not found", id.Hex())
	}

	elements, err := r.localizeParents(ctx, []contentmodels.ParentRef{ref}, languageID, activeOnly)
	if err != nil {
		return nil, err
	}
	return &LocalizedSubSection{SubSection: *root.SubSection, Elements: elements[ref]}, nil
}

// localizeParents gathers the primary and related elements of every parent,
// reads their translations in one query and returns each parent's elements
// sorted by order.
func (r *TranslationResolver) localizeParents(ctx context.Context, parents []contentmodels.ParentRef, languageID primitive.ObjectID, activeOnly bool) (map[contentmodels.ParentRef][]LocalizedElement, error) {
	var sectionIDs, subSectionIDs []primitive.ObjectID
	for _, p := range parents {
		if p.Kind == contentmodels.ParentKindSection {
			sectionIDs = append(sectionIDs, p.ID)
		} else {
			subSectionIDs = append(subSectionIDs, p.ID)
		}
	}
	byParent := func() bson.A {
		var or bson.A
		if len(sectionIDs) > 0 {
			or = append(or, bson.M{"parentType": contentmodels.ParentKindSection, "parentId": bson.M{"$in": sectionIDs}})
		}
		if len(subSectionIDs) > 0 {
			or = append(or, bson.M{"parentType": contentmodels.ParentKindSubSection, "parentId": bson.M{"$in": subSectionIDs}})
		}
		return or
	}

	primaries, err := r.store.Elements.Find(ctx, activeFilter(bson.M{"$or": byParent()}, activeOnly), siblingOrder())
	if err != nil {
		return nil, err
	}
	relations, err := r.store.Relations.Find(ctx, activeFilter(bson.M{"$or": byParent()}, activeOnly), siblingOrder())
	if err != nil {
		return nil, err
	}

	elementByID := make(map[primitive.ObjectID]contentmodels.ContentElement, len(primaries))
	for _, e := range primaries {
		elementByID[e.ID] = e
	}
	var missing []primitive.ObjectID
	for _, rel := range relations {
		if _, ok := elementByID[rel.ElementID]; !ok {
			missing = append(missing, rel.ElementID)
		}
	}
	if len(missing) > 0 {
		related, err := r.store.Elements.Find(ctx,
			activeFilter(bson.M{"_id": bson.M{"$in": utility.Unique(missing)}}, activeOnly), nil)
		if err != nil {
			return nil, err
		}
		for _, e := range related {
			elementByID[e.ID] = e
		}
	}

	values, err := r.translations(ctx, elementByID, languageID, activeOnly)
	if err != nil {
		return nil, err
	}

	out := make(map[contentmodels.ParentRef][]LocalizedElement, len(parents))
	for _, p := range parents {
		out[p] = []LocalizedElement{}
	}
	type placement struct {
		element LocalizedElement
		order   int
	}
	placed := make(map[contentmodels.ParentRef][]placement, len(parents))
	listed := make(map[contentmodels.ParentRef]utility.IDSet, len(parents))
	add := func(ref contentmodels.ParentRef, e contentmodels.ContentElement, rel *contentmodels.Relation, order int) {
		if listed[ref] == nil {
			listed[ref] = utility.NewIDSet()
		}
		if !listed[ref].Add(e.ID) {
			return
		}
		placed[ref] = append(placed[ref], placement{
			element: LocalizedElement{ContentElement: e, Value: values[e.ID], Relation: rel},
			order:   order,
		})
	}

	for _, e := range primaries {
		add(e.Parent(), e, nil, e.Order)
	}
	for i := range relations {
		rel := relations[i]
		e, ok := elementByID[rel.ElementID]
		if !ok {
			continue
		}
		add(rel.Parent(), e, &rel, rel.Order)
	}

	for ref, list := range placed {
		sort.SliceStable(list, func(i, j int) bool { return list[i].order < list[j].order })
		elements := make([]LocalizedElement, 0, len(list))
		for _, p := range list {
			elements = append(elements, p.element)
		}
		out[ref] = elements
	}
	return out, nil
}

// translations maps element id to its value in languageID with one query.
func (r *TranslationResolver) translations(ctx context.Context, elements map[primitive.ObjectID]contentmodels.ContentElement, languageID primitive.ObjectID, activeOnly bool) (map[primitive.ObjectID]*contentmodels.TranslationValue, error) {
	values := make(map[primitive.ObjectID]*contentmodels.TranslationValue, len(elements))
	if len(elements) == 0 {
		return values, nil
	}
	ids := make([]primitive.ObjectID, 0, len(elements))
	for id := range elements {
		ids = append(ids, id)
	}

	rows, err := r.store.Translations.Find(ctx,
		activeFilter(bson.M{"elementId": bson.M{"$in": ids}, "languageId": languageID}, activeOnly), nil)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Value.IsZero() {
			continue
		}
		v := rows[i].Value
		values[rows[i].ElementID] = &v
	}
	return values, nil
}
