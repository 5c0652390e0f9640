package contentsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "github.com/AbdUllahO7/idigitek-server/internal/api/base/models"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// ContentQueryService serves the plain listing and lookup reads.
type ContentQueryService struct {
	store *ContentStore
}

// NewContentQueryService binds store.
func NewContentQueryService(store *ContentStore) *ContentQueryService {
	return &ContentQueryService{store: store}
}

// ElementWithTranslations is an element with its translations in every
// language.
type ElementWithTranslations struct {
	contentmodels.ContentElement
	Translations []contentmodels.ContentTranslation `json:"translations"`
}

// SubSectionQuery narrows ListSubSections. Zero ids are ignored.
type SubSectionQuery struct {
	SectionItemID primitive.ObjectID
	SectionID     primitive.ObjectID
	ActiveOnly    bool
}

func (s *ContentQueryService) ListSections(ctx context.Context, activeOnly bool, page, limit int64) (*basemodels.PaginateResult[contentmodels.Section], error) {
	return s.store.Sections.FindWithPagination(ctx, activeFilter(bson.M{}, activeOnly), page, limit, siblingOrder())
}

func (s *ContentQueryService) GetSection(ctx context.Context, id primitive.ObjectID) (*contentmodels.Section, error) {
	section, err := s.store.Sections.FindOneById(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "section %s not found", id.Hex())
	}
	return &section, nil
}

// ListSectionItems returns the items of a section in sibling order.
func (s *ContentQueryService) ListSectionItems(ctx context.Context, sectionID primitive.ObjectID, activeOnly bool) ([]contentmodels.SectionItem, error) {
	filter := bson.M{}
	if !sectionID.IsZero() {
		filter["sectionId"] = sectionID
	}
	return s.store.SectionItems.Find(ctx, activeFilter(filter, activeOnly), siblingOrder())
}

func (s *ContentQueryService) GetSectionItem(ctx context.Context, id primitive.ObjectID) (*contentmodels.SectionItem, error) {
	item, err := s.store.SectionItems.FindOneById(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "section item %s not found", id.Hex())
	}
	return &item, nil
}

// ListSubSections returns subsections owned by the given item and/or
// attached to the given section.
func (s *ContentQueryService) ListSubSections(ctx context.Context, q SubSectionQuery) ([]contentmodels.SubSection, error) {
	filter := bson.M{}
	if !q.SectionItemID.IsZero() {
		filter["sectionItemId"] = q.SectionItemID
	}
	if !q.SectionID.IsZero() {
		filter["parentSectionIds"] = q.SectionID
	}
	return s.store.SubSections.Find(ctx, activeFilter(filter, q.ActiveOnly), siblingOrder())
}

func (s *ContentQueryService) GetSubSection(ctx context.Context, id primitive.ObjectID) (*contentmodels.SubSection, error) {
	sub, err := s.store.SubSections.FindOneById(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "subsection %s not found", id.Hex())
	}
	return &sub, nil
}

func (s *ContentQueryService) GetSubSectionBySlug(ctx context.Context, slug string) (*contentmodels.SubSection, error) {
	sub, err := s.store.SubSections.FindOne(ctx, bson.M{"slug": slug}, nil)
	if err != nil {
		return nil, notFoundAs(err, "subsection %q not found", slug)
	}
	return &sub, nil
}

// ListElements returns the primary elements of parent in sibling order.
func (s *ContentQueryService) ListElements(ctx context.Context, parent contentmodels.ParentRef, activeOnly bool) ([]contentmodels.ContentElement, error) {
	if !parent.Kind.Valid() {
		return nil, common.NewValidationError("invalid parentType %q", parent.Kind)
	}
	filter := bson.M{"parentType": parent.Kind, "parentId": parent.ID}
	return s.store.Elements.Find(ctx, activeFilter(filter, activeOnly), siblingOrder())
}

func (s *ContentQueryService) GetElement(ctx context.Context, id primitive.ObjectID) (*contentmodels.ContentElement, error) {
	element, err := s.store.Elements.FindOneById(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "element %s not found", id.Hex())
	}
	return &element, nil
}

// GetElementWithTranslations returns the element and all its translations.
func (s *ContentQueryService) GetElementWithTranslations(ctx context.Context, id primitive.ObjectID) (*ElementWithTranslations, error) {
	element, err := s.GetElement(ctx, id)
	if err != nil {
		return nil, err
	}
	translations, err := s.store.Translations.Find(ctx, bson.M{"elementId": id},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return &ElementWithTranslations{ContentElement: *element, Translations: translations}, nil
}

// GetTranslation returns the translation of an element in one language.
func (s *ContentQueryService) GetTranslation(ctx context.Context, elementID, languageID primitive.ObjectID) (*contentmodels.ContentTranslation, error) {
	t, err := s.store.Translations.FindOne(ctx, bson.M{"elementId": elementID, "languageId": languageID}, nil)
	if err != nil {
		return nil, notFoundAs(err, "translation of element %s in language %s not found", elementID.Hex(), languageID.Hex())
	}
	return &t, nil
}

func (s *ContentQueryService) ListLanguages(ctx context.Context, activeOnly bool) ([]contentmodels.Language, error) {
	return s.store.Languages.Find(ctx, activeFilter(bson.M{}, activeOnly),
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *ContentQueryService) GetLanguage(ctx context.Context, id primitive.ObjectID) (*contentmodels.Language, error) {
	language, err := s.store.Languages.FindOneById(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "language %s not found", id.Hex())
	}
	return &language, nil
}
