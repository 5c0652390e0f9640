package contentdto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
)

func TestToOrderUpdates(t *testing.T) {
	var items []OrderItemInput
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"a","order":1},{"id":"b","order":0}]`), &items))

	updates, err := ToOrderUpdates(items)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "a", updates[0].ID)
	assert.EqualValues(t, 1, updates[0].Order)

	for _, body := range []string{
		`[{"id":"a","order":1},{"id":"c","order":"bad"}]`,
		`[{"id":"c","order":1.5}]`,
		`[{"id":"c"}]`,
		`[{"id":"c","order":null}]`,
	} {
		var batch []OrderItemInput
		require.NoError(t, json.Unmarshal([]byte(body), &batch))
		_, err := ToOrderUpdates(batch)
		require.Error(t, err, body)
		assert.True(t, common.IsValidation(err), body)
		assert.Contains(t, err.Error(), `"c"`, body)
	}
}

func TestElementInputs(t *testing.T) {
	parentID := "64b7f0c2a1b2c3d4e5f60718"
	create := ElementCreateInput{Name: "title", Type: "text", ParentType: "subsection", ParentID: parentID}
	require.NoError(t, global.GetValidator().Struct(create))

	in := create.ToInput()
	require.NotNil(t, in.Parent)
	assert.Equal(t, contentmodels.ParentKindSubSection, in.Parent.Kind)
	assert.Equal(t, parentID, in.Parent.ID.Hex())

	create.Type = "carousel"
	assert.Error(t, global.GetValidator().Struct(create))

	kind := "section"
	update := ElementUpdateInput{ParentType: &kind}
	assert.True(t, common.IsValidation(update.CheckParent()))
	update.ParentID = &parentID
	require.NoError(t, update.CheckParent())
	assert.Equal(t, contentmodels.ParentKindSection, update.ToInput().Parent.Kind)
}

func TestSubSectionUpdateDetach(t *testing.T) {
	empty := ""
	in := SubSectionUpdateInput{SectionItemID: &empty}
	require.NoError(t, global.GetValidator().Struct(in))
	out := in.ToInput()
	require.NotNil(t, out.SectionItemID)
	assert.True(t, out.SectionItemID.IsZero())
}

func TestTranslationValueShapes(t *testing.T) {
	var in TranslationUpsertInput
	require.NoError(t, json.Unmarshal([]byte(`{"elementId":"64b7f0c2a1b2c3d4e5f60718","languageId":"64b7f0c2a1b2c3d4e5f60719","value":["a","b"]}`), &in))
	list, ok := in.ToInput().Value.List()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	assert.Error(t, json.Unmarshal([]byte(`{"value":42}`), &in))
}

func TestUpdateBodiesIgnoreActiveFlag(t *testing.T) {
	body := []byte(`{"name":"renamed","isActive":false}`)

	var section SectionUpdateInput
	require.NoError(t, json.Unmarshal(body, &section))
	assert.Nil(t, section.ToInput().IsActive)
	assert.Equal(t, "renamed", *section.ToInput().Name)

	var item SectionItemUpdateInput
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Nil(t, item.ToInput().IsActive)

	var sub SubSectionUpdateInput
	require.NoError(t, json.Unmarshal(body, &sub))
	assert.Nil(t, sub.ToInput().IsActive)

	var element ElementUpdateInput
	require.NoError(t, json.Unmarshal(body, &element))
	assert.Nil(t, element.ToInput().IsActive)
}
