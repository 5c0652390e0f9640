package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type inlineRef struct {
	Kind string             `bson:"parentType" index:"compound:owner_name_unique"`
	ID   primitive.ObjectID `bson:"parentId" index:"single:1;compound:owner_name_unique"`
}

type indexedModel struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name,omitempty" index:"unique"`
	Title   string             `bson:"title" index:"text"`
	Order   int                `bson:"order" index:"single:-1"`
	Expires int64              `bson:"expires" index:"ttl:60"`
	Label   string             `bson:"label" index:"compound:owner_name_unique"`
	Ref     inlineRef          `bson:",inline"`
	Skipped string             `bson:"-" index:"unique"`
}

func TestIndexSpecs(t *testing.T) {
	specs, err := IndexSpecs(&indexedModel{})
	require.NoError(t, err)

	byName := map[string]IndexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "name_unique")
	assert.True(t, byName["name_unique"].Unique)
	assert.Equal(t, "name", byName["name_unique"].Fields[0].Name, "bson options are stripped")

	require.Contains(t, byName, "title_text")
	assert.True(t, byName["title_text"].Fields[0].Text)

	require.Contains(t, byName, "order_single")
	assert.Equal(t, -1, byName["order_single"].Fields[0].Order)

	require.Contains(t, byName, "expires_ttl")
	assert.Equal(t, int32(60), byName["expires_ttl"].TTL)

	require.Contains(t, byName, "parentId_single")

	compound := byName["owner_name_unique"]
	assert.True(t, compound.Unique)
	names := []string{}
	for _, f := range compound.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"label", "parentType", "parentId"}, names)

	assert.NotContains(t, byName, "Skipped_unique")
}

func TestIndexSpecsRejectsNonStruct(t *testing.T) {
	_, err := IndexSpecs(42)
	assert.Error(t, err)
	_, err = IndexSpecs(nil)
	assert.Error(t, err)
}

func TestUniqueKeySets(t *testing.T) {
	sets, err := UniqueKeySets(indexedModel{})
	require.NoError(t, err)
	assert.ElementsMatch(t, [][]string{
		{"name"},
		{"label", "parentType", "parentId"},
	}, sets)
}

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, ok := ParseObjectID(id.Hex())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ParseObjectID("not-an-id")
	assert.False(t, ok)
	_, ok = ParseObjectID(primitive.NilObjectID.Hex())
	assert.False(t, ok, "the zero id is never valid")

	assert.Equal(t, []primitive.ObjectID{id}, StringArray2ObjectIDArray([]string{"x", id.Hex()}))
	assert.Equal(t, []string{id.Hex()}, ObjectIDArray2StringArray([]primitive.ObjectID{id}))
}

func TestSliceHelpers(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, Unique([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []string{"a", "c"}, Without([]string{"a", "b", "c"}, []string{"b"}))
	assert.True(t, Contains([]string{"a"}, "a"))

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	set := NewIDSet(a)
	assert.True(t, set.Has(a))
	assert.False(t, set.Add(a))
	assert.True(t, set.Add(b))
	assert.Len(t, set, 2)
}

func TestToMap(t *testing.T) {
	m, err := ToMap(indexedModel{Name: "home", Order: 2})
	require.NoError(t, err)
	assert.Equal(t, "home", m["name"])
	assert.NotContains(t, m, "_id", "omitempty zero id is dropped")
	assert.Contains(t, m, "parentType", "inline fields are flattened")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("  Hello,  World! "))
	assert.Equal(t, "about-us-2", Slugify("About_us 2"))
	assert.Equal(t, "", Slugify("!!"))
}

func TestGoProtect(t *testing.T) {
	assert.NotPanics(t, func() {
		GoProtect(func() { panic("boom") })
	})
}
