package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
)

func TestIndexModelsForTranslations(t *testing.T) {
	models, err := IndexModels(contentmodels.ContentTranslation{})
	require.NoError(t, err)

	var compound *options.IndexOptions
	var keys bson.D
	for _, m := range models {
		if *m.Options.Name == "translation_element_language_unique" {
			compound = m.Options
			keys = m.Keys.(bson.D)
		}
	}
	require.NotNil(t, compound)
	assert.True(t, *compound.Unique)
	assert.Equal(t, bson.D{{Key: "elementId", Value: 1}, {Key: "languageId", Value: 1}}, keys)
}

func TestCompareIndex(t *testing.T) {
	keys := bson.D{{Key: "elementId", Value: 1}, {Key: "languageId", Value: 1}}
	opts := options.Index().SetName("x").SetUnique(true)

	same := indexInfo{Name: "x", Key: bson.D{{Key: "elementId", Value: int32(1)}, {Key: "languageId", Value: int32(1)}}, Unique: true}
	assert.True(t, compareIndex(same, keys, opts))

	notUnique := same
	notUnique.Unique = false
	assert.False(t, compareIndex(notUnique, keys, opts))

	reordered := indexInfo{Name: "x", Key: bson.D{{Key: "languageId", Value: int32(1)}, {Key: "elementId", Value: int32(1)}}, Unique: true}
	assert.False(t, compareIndex(reordered, keys, opts))

	text := indexInfo{Name: "t", Key: bson.D{{Key: "_fts", Value: "text"}, {Key: "_ftsx", Value: int32(1)}}}
	assert.True(t, compareIndex(text, bson.D{{Key: "name", Value: "text"}}, options.Index().SetName("t")))

	ttl := int32(60)
	withTTL := indexInfo{Name: "e", Key: bson.D{{Key: "expires", Value: int32(1)}}, ExpireAfterSeconds: &ttl}
	assert.True(t, compareIndex(withTTL, bson.D{{Key: "expires", Value: 1}}, options.Index().SetName("e").SetExpireAfterSeconds(60)))
	assert.False(t, compareIndex(withTTL, bson.D{{Key: "expires", Value: 1}}, options.Index().SetName("e")))
}
