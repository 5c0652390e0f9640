package contentsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// ParentEntity is a resolved ParentRef. Exactly one of Section and
// SubSection is set, matching Ref.Kind.
type ParentEntity struct {
	Ref        contentmodels.ParentRef
	Section    *contentmodels.Section
	SubSection *contentmodels.SubSection
}

// IsActive reports the active flag of the resolved entity.
func (p *ParentEntity) IsActive() bool {
	if p.Section != nil {
		return p.Section.IsActive
	}
	return p.SubSection != nil && p.SubSection.IsActive
}

// ElementParents groups the relation targets of an element by kind.
type ElementParents struct {
	Sections            []contentmodels.Section    `json:"sections"`
	SubSections         []contentmodels.SubSection `json:"subsections"`
	SectionRelations    []contentmodels.Relation   `json:"sectionRelations"`
	SubSectionRelations []contentmodels.Relation   `json:"subsectionRelations"`
}

// ParentResolver turns polymorphic parent references into entities and
// entities into the relations pointing at them. It never writes.
type ParentResolver struct {
	store *ContentStore
}

// NewParentResolver binds store.
func NewParentResolver(store *ContentStore) *ParentResolver {
	return &ParentResolver{store: store}
}

// ResolveParent loads the entity ref points at.
func (r *ParentResolver) ResolveParent(ctx context.Context, ref contentmodels.ParentRef) (*ParentEntity, error) {
	if ref.ID.IsZero() {
		return nil, common.NewValidationError("parentId is required")
	}
	switch ref.Kind {
	case contentmodels.ParentKindSection:
		section, err := r.store.Sections.FindOneById(ctx, ref.ID)
		if err != nil {
			return nil, notFoundAs(err, "section %s not found", ref.ID.Hex())
		}
		return &ParentEntity{Ref: ref, Section: &section}, nil
	case contentmodels.ParentKindSubSection:
		subSection, err := r.store.SubSections.FindOneById(ctx, ref.ID)
		if err != nil {
			return nil, notFoundAs(err, "subsection %s not found", ref.ID.Hex())
		}
		return &ParentEntity{Ref: ref, SubSection: &subSection}, nil
	}
	return nil, common.NewValidationError("invalid parentType %q", ref.Kind)
}

// ListRelationsFor returns the relations targeting ref in sibling order.
func (r *ParentResolver) ListRelationsFor(ctx context.Context, ref contentmodels.ParentRef, activeOnly bool) ([]contentmodels.Relation, error) {
	if !ref.Kind.Valid() {
		return nil, common.NewValidationError("invalid parentType %q", ref.Kind)
	}
	filter := activeFilter(bson.M{"parentType": ref.Kind, "parentId": ref.ID}, activeOnly)
	return r.store.Relations.Find(ctx, filter, siblingOrder())
}

// ListParentsFor returns the entities elementID is related to. Relations
// whose target no longer exists are skipped.
func (r *ParentResolver) ListParentsFor(ctx context.Context, elementID primitive.ObjectID, activeOnly bool) (*ElementParents, error) {
	relations, err := r.store.Relations.Find(ctx, activeFilter(bson.M{"elementId": elementID}, activeOnly), siblingOrder())
	if err != nil {
		return nil, err
	}

	var sectionIDs, subSectionIDs []primitive.ObjectID
	for _, rel := range relations {
		switch rel.ParentType {
		case contentmodels.ParentKindSection:
			sectionIDs = append(sectionIDs, rel.ParentID)
		case contentmodels.ParentKindSubSection:
			subSectionIDs = append(subSectionIDs, rel.ParentID)
		}
	}

	sections, err := r.store.Sections.FindManyByIds(ctx, sectionIDs)
	if err != nil {
		return nil, err
	}
	subSections, err := r.store.SubSections.FindManyByIds(ctx, subSectionIDs)
	if err != nil {
		return nil, err
	}
	sectionByID := make(map[primitive.ObjectID]contentmodels.Section, len(sections))
	for _, s := range sections {
		sectionByID[s.ID] = s
	}
	subSectionByID := make(map[primitive.ObjectID]contentmodels.SubSection, len(subSections))
	for _, s := range subSections {
		subSectionByID[s.ID] = s
	}

	out := &ElementParents{
		Sections:            []contentmodels.Section{},
		SubSections:         []contentmodels.SubSection{},
		SectionRelations:    []contentmodels.Relation{},
		SubSectionRelations: []contentmodels.Relation{},
	}
	for _, rel := range relations {
		switch rel.ParentType {
		case contentmodels.ParentKindSection:
			if s, ok := sectionByID[rel.ParentID]; ok {
				out.Sections = append(out.Sections, s)
				out.SectionRelations = append(out.SectionRelations, rel)
			}
		case contentmodels.ParentKindSubSection:
			if s, ok := subSectionByID[rel.ParentID]; ok {
				out.SubSections = append(out.SubSections, s)
				out.SubSectionRelations = append(out.SubSectionRelations, rel)
			}
		}
	}
	return out, nil
}

// notFoundAs replaces a bare not-found error with a message naming the
// missing entity. Other errors pass through.
func notFoundAs(err error, format string, args ...any) error {
	if common.IsNotFound(err) {
		return common.NewNotFoundError(format, args...)
	}
	return err
}
