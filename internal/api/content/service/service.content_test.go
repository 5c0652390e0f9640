package contentsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "github.com/AbdUllahO7/idigitek-server/internal/api/base/service"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	t        *testing.T
	ctx      context.Context
	db       *basesvc.MemoryDatabase
	store    *ContentStore
	life     *LifecycleService
	query    *ContentQueryService
	resolver *ParentResolver
	i18n     *TranslationResolver
	ordering *OrderingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	events.Reset()
	t.Cleanup(events.Reset)

	db := basesvc.NewMemoryDatabase()
	store := NewMemoryContentStore(db)
	return &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		store:    store,
		life:     NewLifecycleService(store),
		query:    NewContentQueryService(store),
		resolver: NewParentResolver(store),
		i18n:     NewTranslationResolver(store),
		ordering: NewOrderingService(store),
	}
}

func (f *fixture) section(name string, order int) *contentmodels.Section {
	f.t.Helper()
	s, err := f.life.CreateSection(f.ctx, SectionInput{Name: ptr(name), Order: ptr(order)})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) item(sectionID primitive.ObjectID, name string, order int) *contentmodels.SectionItem {
	f.t.Helper()
	it, err := f.life.CreateSectionItem(f.ctx, SectionItemInput{Name: ptr(name), SectionID: &sectionID, Order: ptr(order)})
	require.NoError(f.t, err)
	return it
}

func (f *fixture) subSection(itemID *primitive.ObjectID, parents []primitive.ObjectID, name, slug string) *contentmodels.SubSection {
	f.t.Helper()
	in := SubSectionInput{Name: ptr(name), Slug: ptr(slug), SectionItemID: itemID}
	if parents != nil {
		in.ParentSectionIDs = &parents
	}
	sub, err := f.life.CreateSubSection(f.ctx, in)
	require.NoError(f.t, err)
	return sub
}

func (f *fixture) element(parent contentmodels.ParentRef, name string, order int) *contentmodels.ContentElement {
	f.t.Helper()
	typ := contentmodels.ElementTypeText
	e, err := f.life.CreateElement(f.ctx, ElementInput{Name: ptr(name), Type: &typ, Parent: &parent, Order: ptr(order)})
	require.NoError(f.t, err)
	return e
}

func (f *fixture) language(name, code string) *contentmodels.Language {
	f.t.Helper()
	l, err := f.life.CreateLanguage(f.ctx, LanguageInput{Name: ptr(name), Code: ptr(code)})
	require.NoError(f.t, err)
	return l
}

func (f *fixture) translate(elementID, languageID primitive.ObjectID, value contentmodels.TranslationValue) *contentmodels.ContentTranslation {
	f.t.Helper()
	tr, err := f.life.UpsertTranslation(f.ctx, TranslationInput{ElementID: elementID, LanguageID: languageID, Value: value})
	require.NoError(f.t, err)
	return tr
}

// servicesTree is Services → Consulting → intro-consulting → hero-title,
// translated in English and French.
type servicesTree struct {
	section  *contentmodels.Section
	item     *contentmodels.SectionItem
	sub      *contentmodels.SubSection
	hero     *contentmodels.ContentElement
	en, fr   *contentmodels.Language
	heroEn   *contentmodels.ContentTranslation
	heroFr   *contentmodels.ContentTranslation
	relation *contentmodels.Relation
}

func (f *fixture) servicesTree() *servicesTree {
	f.t.Helper()
	tree := &servicesTree{}
	tree.section = f.section("Services", 0)
	tree.item = f.item(tree.section.ID, "Consulting", 0)
	tree.sub = f.subSection(&tree.item.ID, nil, "intro", "intro-consulting")
	tree.hero = f.element(contentmodels.SubSectionRef(tree.sub.ID), "hero-title", 0)
	tree.en = f.language("English", "en")
	tree.fr = f.language("French", "fr")
	tree.heroEn = f.translate(tree.hero.ID, tree.en.ID, contentmodels.TextValue("Welcome"))
	tree.heroFr = f.translate(tree.hero.ID, tree.fr.ID, contentmodels.TextValue("Bienvenue"))

	rel, err := f.life.AssociateElement(f.ctx, AssociationInput{
		ElementID: tree.hero.ID,
		Parent:    contentmodels.SectionRef(tree.section.ID),
	})
	require.NoError(f.t, err)
	tree.relation = rel
	return tree
}
