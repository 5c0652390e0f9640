package contentsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
)

func TestUpsertTranslationLastWriteWins(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()
	names := global.DefaultCollectionNames()

	again := f.translate(tree.hero.ID, tree.fr.ID, contentmodels.TextValue("Salut"))
	assert.Equal(t, tree.heroFr.ID, again.ID)
	assert.Equal(t, 2, f.db.Count(names.ContentTranslations))

	got, err := f.query.GetTranslation(f.ctx, tree.hero.ID, tree.fr.ID)
	require.NoError(t, err)
	s, ok := got.Value.Text()
	require.True(t, ok)
	assert.Equal(t, "Salut", s)
	assert.True(t, got.IsActive)
}

func TestUpsertTranslationValueShapes(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()
	features := f.element(contentmodels.SubSectionRef(tree.sub.ID), "features", 1)
	card := f.element(contentmodels.SubSectionRef(tree.sub.ID), "card", 2)

	f.translate(features.ID, tree.en.ID, contentmodels.ListValue("fast", "safe"))
	f.translate(card.ID, tree.en.ID, contentmodels.StructuredValue(map[string]interface{}{"title": "Card"}))

	got, err := f.query.GetTranslation(f.ctx, features.ID, tree.en.ID)
	require.NoError(t, err)
	list, ok := got.Value.List()
	require.True(t, ok)
	assert.Equal(t, []string{"fast", "safe"}, list)

	got, err = f.query.GetTranslation(f.ctx, card.ID, tree.en.ID)
	require.NoError(t, err)
	fields, ok := got.Value.Fields()
	require.True(t, ok)
	assert.Equal(t, "Card", fields["title"])
}

func TestUpsertTranslationErrors(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()

	_, err := f.life.UpsertTranslation(f.ctx, TranslationInput{
		ElementID: tree.hero.ID, LanguageID: primitive.NewObjectID(), Value: contentmodels.TextValue("x"),
	})
	assert.True(t, common.IsNotFound(err))

	_, err = f.life.UpsertTranslation(f.ctx, TranslationInput{
		ElementID: primitive.NewObjectID(), LanguageID: tree.en.ID, Value: contentmodels.TextValue("x"),
	})
	assert.True(t, common.IsNotFound(err))

	_, err = f.life.UpsertTranslation(f.ctx, TranslationInput{ElementID: tree.hero.ID, LanguageID: tree.en.ID})
	assert.True(t, common.IsValidation(err))
}

func TestUpsertTranslationTracksLanguages(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()

	sub, err := f.query.GetSubSection(f.ctx, tree.sub.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{tree.en.ID, tree.fr.ID}, sub.LanguageIDs)
}

func TestBulkUpsertIsAtomic(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()
	names := global.DefaultCollectionNames()
	cta := f.element(contentmodels.SubSectionRef(tree.sub.ID), "cta", 1)

	_, err := f.life.BulkUpsertTranslations(f.ctx, []TranslationInput{
		{ElementID: cta.ID, LanguageID: tree.en.ID, Value: contentmodels.TextValue("Go")},
		{ElementID: primitive.NewObjectID(), LanguageID: tree.en.ID, Value: contentmodels.TextValue("lost")},
	})
	assert.True(t, common.IsNotFound(err))
	assert.Equal(t, 2, f.db.Count(names.ContentTranslations))

	saved, err := f.life.BulkUpsertTranslations(f.ctx, []TranslationInput{
		{ElementID: cta.ID, LanguageID: tree.en.ID, Value: contentmodels.TextValue("Go")},
		{ElementID: cta.ID, LanguageID: tree.fr.ID, Value: contentmodels.TextValue("Allez")},
	})
	require.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.Equal(t, 4, f.db.Count(names.ContentTranslations))

	_, err = f.life.BulkUpsertTranslations(f.ctx, nil)
	assert.True(t, common.IsValidation(err))
}

func TestDeleteTranslationRefreshesLanguages(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()

	require.NoError(t, f.life.DeleteTranslation(f.ctx, tree.heroFr.ID))
	sub, err := f.query.GetSubSection(f.ctx, tree.sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{tree.en.ID}, sub.LanguageIDs)

	err = f.life.DeleteTranslation(f.ctx, tree.heroFr.ID)
	assert.True(t, common.IsNotFound(err))
}

func TestDeleteLanguage(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()
	names := global.DefaultCollectionNames()

	result, err := f.life.DeleteLanguage(f.ctx, tree.en.ID, false)
	require.NoError(t, err)
	assert.False(t, result.Hard)
	en, err := f.query.GetLanguage(f.ctx, tree.en.ID)
	require.NoError(t, err)
	assert.False(t, en.IsActive)
	assert.Equal(t, 2, f.db.Count(names.ContentTranslations))

	result, err = f.life.DeleteLanguage(f.ctx, tree.fr.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Translations)
	assert.Equal(t, int64(1), result.SubSections)
	assert.Equal(t, 1, f.db.Count(names.ContentTranslations))

	sub, err := f.query.GetSubSection(f.ctx, tree.sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{tree.en.ID}, sub.LanguageIDs)

	_, err = f.life.DeleteLanguage(f.ctx, tree.fr.ID, true)
	assert.True(t, common.IsNotFound(err))
}

func TestLanguageUniqueness(t *testing.T) {
	f := newFixture(t)
	f.language("English", "en")

	_, err := f.life.CreateLanguage(f.ctx, LanguageInput{Name: ptr("Anglais"), Code: ptr("EN")})
	assert.True(t, common.IsConflict(err))
	_, err = f.life.CreateLanguage(f.ctx, LanguageInput{Name: ptr("English"), Code: ptr("gb")})
	assert.True(t, common.IsConflict(err))

	de := f.language("German", "de")
	_, err = f.life.UpdateLanguage(f.ctx, de.ID, LanguageInput{Code: ptr("en")})
	assert.True(t, common.IsConflict(err))
	updated, err := f.life.UpdateLanguage(f.ctx, de.ID, LanguageInput{Name: ptr("Deutsch")})
	require.NoError(t, err)
	assert.Equal(t, "Deutsch", updated.Name)
	assert.Equal(t, "de", updated.Code)
}

func TestParentResolver(t *testing.T) {
	f := newFixture(t)
	tree := f.servicesTree()
	about := f.section("About", 1)
	_, err := f.life.AssociateElement(f.ctx, AssociationInput{ElementID: tree.hero.ID, Parent: contentmodels.SectionRef(about.ID), Order: ptr(1)})
	require.NoError(t, err)
	_, err = f.life.AssociateElement(f.ctx, AssociationInput{ElementID: tree.hero.ID, Parent: contentmodels.SubSectionRef(tree.sub.ID)})
	require.NoError(t, err)

	parents, err := f.resolver.ListParentsFor(f.ctx, tree.hero.ID, true)
	require.NoError(t, err)
	assert.Len(t, parents.Sections, 2)
	assert.Len(t, parents.SectionRelations, 2)
	require.Len(t, parents.SubSections, 1)
	assert.Equal(t, tree.sub.ID, parents.SubSections[0].ID)

	none, err := f.resolver.ListParentsFor(f.ctx, primitive.NewObjectID(), true)
	require.NoError(t, err)
	assert.Empty(t, none.Sections)
	assert.NotNil(t, none.Sections)

	p, err := f.resolver.ResolveParent(f.ctx, contentmodels.SubSectionRef(tree.sub.ID))
	require.NoError(t, err)
	require.NotNil(t, p.SubSection)
	assert.Nil(t, p.Section)

	_, err = f.resolver.ResolveParent(f.ctx, contentmodels.ParentRef{Kind: "page", ID: tree.sub.ID})
	assert.True(t, common.IsValidation(err))
	_, err = f.resolver.ResolveParent(f.ctx, contentmodels.SectionRef(primitive.NewObjectID()))
	assert.True(t, common.IsNotFound(err))
	_, err = f.resolver.ResolveParent(f.ctx, contentmodels.SectionRef(primitive.NilObjectID))
	assert.True(t, common.IsValidation(err))
}
