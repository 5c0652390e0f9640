package basesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

type widget struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Name     string               `bson:"name" index:"unique"`
	Group    string               `bson:"group" index:"compound:group_rank_unique"`
	Rank     int                  `bson:"rank" index:"compound:group_rank_unique"`
	IsActive bool                 `bson:"isActive"`
	Tags     []primitive.ObjectID `bson:"tags"`
	Created  int64                `bson:"createdAt"`
}

func newWidgetStore() (*MemoryDatabase, *BaseServiceMemoryImpl[widget]) {
	db := NewMemoryDatabase()
	return db, NewBaseServiceMemory[widget](db, "widgets")
}

func TestMemoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()

	a, err := store.InsertOne(ctx, widget{Name: "a", Group: "g", Rank: 2, IsActive: true})
	require.NoError(t, err)
	assert.False(t, a.ID.IsZero())
	assert.NotZero(t, a.Created)

	_, err = store.InsertOne(ctx, widget{Name: "b", Group: "g", Rank: 1})
	require.NoError(t, err)

	found, err := store.FindOneById(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", found.Name)

	active, err := store.Find(ctx, bson.M{"isActive": true}, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)

	sorted, err := store.Find(ctx, bson.M{"group": "g"}, options.Find().SetSort(bson.D{{Key: "rank", Value: 1}}))
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, "b", sorted[0].Name)

	_, err = store.FindOneById(ctx, primitive.NewObjectID())
	assert.True(t, common.IsNotFound(err))
}

func TestMemoryUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()

	_, err := store.InsertOne(ctx, widget{Name: "a", Group: "g", Rank: 1})
	require.NoError(t, err)

	_, err = store.InsertOne(ctx, widget{Name: "a", Group: "h", Rank: 1})
	assert.True(t, common.IsConflict(err), "single field unique")

	_, err = store.InsertOne(ctx, widget{Name: "b", Group: "g", Rank: 1})
	assert.True(t, common.IsConflict(err), "compound unique")

	b, err := store.InsertOne(ctx, widget{Name: "b", Group: "g", Rank: 2})
	require.NoError(t, err)

	_, err = store.UpdateById(ctx, b.ID, bson.M{"name": "a"})
	assert.True(t, common.IsConflict(err), "updates are checked too")
}

func TestMemoryOperators(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()
	t1, t2 := primitive.NewObjectID(), primitive.NewObjectID()

	a, _ := store.InsertOne(ctx, widget{Name: "a", Rank: 1, Tags: []primitive.ObjectID{t1}})
	b, _ := store.InsertOne(ctx, widget{Name: "b", Rank: 2, Tags: []primitive.ObjectID{t1, t2}})
	c, _ := store.InsertOne(ctx, widget{Name: "c", Rank: 3})

	byIDs, err := store.FindManyByIds(ctx, []primitive.ObjectID{a.ID, c.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	tagged, err := store.Find(ctx, bson.M{"tags": t2}, nil)
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, b.ID, tagged[0].ID)

	n, err := store.CountDocuments(ctx, bson.M{"_id": bson.M{"$nin": []primitive.ObjectID{a.ID}}, "rank": bson.M{"$gte": 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	either, err := store.Find(ctx, bson.M{"$or": bson.A{bson.M{"name": "a"}, bson.M{"name": "c"}}}, nil)
	require.NoError(t, err)
	assert.Len(t, either, 2)

	_, err = store.Find(ctx, bson.M{"name": bson.M{"$regex": "a"}}, nil)
	assert.True(t, common.IsValidation(err))
}

func TestMemoryArrayUpdates(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()
	t1, t2 := primitive.NewObjectID(), primitive.NewObjectID()

	w, _ := store.InsertOne(ctx, widget{Name: "a"})

	w, err := store.UpdateById(ctx, w.ID, bson.M{"$addToSet": bson.M{"tags": bson.M{"$each": []primitive.ObjectID{t1, t2, t1}}}})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{t1, t2}, w.Tags)

	n, err := store.UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{"tags": t1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	w, _ = store.FindOneById(ctx, w.ID)
	assert.Equal(t, []primitive.ObjectID{t2}, w.Tags)
}

func TestMemoryBulkUpdateByIds(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()

	a, err := store.InsertOne(ctx, widget{Name: "a", Group: "g", Rank: 1})
	require.NoError(t, err)
	b, err := store.InsertOne(ctx, widget{Name: "b", Group: "g", Rank: 2})
	require.NoError(t, err)

	matched, err := store.BulkUpdateByIds(ctx, []IDUpdate{
		{ID: a.ID, Update: bson.M{"$set": bson.M{"rank": 2}}},
		{ID: b.ID, Update: bson.M{"$set": bson.M{"rank": 1}}},
		{ID: primitive.NewObjectID(), Update: bson.M{"$set": bson.M{"rank": 9}}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, matched)
	got, err := store.FindOneById(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rank)

	_, err = store.BulkUpdateByIds(ctx, []IDUpdate{
		{ID: a.ID, Update: bson.M{"$set": bson.M{"rank": 5}}},
		{ID: b.ID, Update: bson.M{"$set": bson.M{"name": "a"}}},
	})
	assert.True(t, common.IsConflict(err))
	got, err = store.FindOneById(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rank, "a failed batch writes nothing")
}

func TestMemoryUpsert(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()

	first, err := store.Upsert(ctx, bson.M{"name": "a", "group": "g"}, bson.M{"rank": 4})
	require.NoError(t, err)
	assert.Equal(t, "g", first.Group, "filter fields seed the insert")
	assert.Equal(t, 4, first.Rank)

	second, err := store.Upsert(ctx, bson.M{"name": "a", "group": "g"}, bson.M{"rank": 5})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rank)
	assert.Equal(t, first.Created, second.Created, "createdAt is only set on insert")
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	db, store := newWidgetStore()

	a, _ := store.InsertOne(ctx, widget{Name: "a"})
	_, _ = store.InsertOne(ctx, widget{Name: "b", Rank: 1})

	require.NoError(t, store.DeleteById(ctx, a.ID))
	assert.True(t, common.IsNotFound(store.DeleteById(ctx, a.ID)))

	n, err := store.DeleteMany(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, db.Count("widgets"))
}

func TestMemoryTransactionRollback(t *testing.T) {
	ctx := context.Background()
	db, store := newWidgetStore()

	kept, _ := store.InsertOne(ctx, widget{Name: "kept"})

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := store.InsertOne(ctx, widget{Name: "new", Rank: 1}); err != nil {
			return err
		}
		if err := store.DeleteById(ctx, kept.ID); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.True(t, common.IsTransaction(err))
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 1, db.Count("widgets"))
	_, err = store.FindOneById(ctx, kept.ID)
	assert.NoError(t, err)
}

func TestMemoryTransactionKeepsTypedErrors(t *testing.T) {
	ctx := context.Background()
	db, store := newWidgetStore()

	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := store.FindOneById(ctx, primitive.NewObjectID())
		return err
	})
	assert.True(t, common.IsNotFound(err))
}

func TestMemoryTransactionWrapsStoreErrors(t *testing.T) {
	ctx := context.Background()
	db, store := newWidgetStore()
	cause := errors.New("disk full")

	db.InjectFault("widgets", common.ConvertMongoError(cause))
	err := db.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := store.InsertOne(ctx, widget{Name: "a"})
		return err
	})
	assert.True(t, common.IsTransaction(err))
	assert.ErrorIs(t, err, cause)

	for _, typed := range []error{
		common.NewValidationError("bad order"),
		common.ErrInvalidFormat,
		common.NewConflictError("taken"),
		common.NewTransactionError(cause),
	} {
		err = db.WithTransaction(ctx, func(context.Context) error { return typed })
		assert.Same(t, typed, err)
	}
}

func TestMemoryInjectedFault(t *testing.T) {
	ctx := context.Background()
	db, store := newWidgetStore()

	db.InjectFault("widgets", errors.New("disk full"))
	_, err := store.InsertOne(ctx, widget{Name: "a"})
	assert.Error(t, err)

	_, err = store.InsertOne(ctx, widget{Name: "a"})
	assert.NoError(t, err, "faults fire once")
}

func TestMemoryPagination(t *testing.T) {
	ctx := context.Background()
	_, store := newWidgetStore()
	for i, name := range []string{"a", "b", "c"} {
		_, err := store.InsertOne(ctx, widget{Name: name, Rank: i})
		require.NoError(t, err)
	}

	page, err := store.FindWithPagination(ctx, nil, 2, 2, options.Find().SetSort(bson.D{{Key: "rank", Value: 1}}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Name)
}

func TestToUpdateData(t *testing.T) {
	u, err := ToUpdateData(bson.M{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", u.Set["name"])

	u, err = ToUpdateData(bson.M{"$set": bson.M{"a": 1}, "$unset": bson.M{"b": ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, u.Set["a"])
	assert.Contains(t, u.Unset, "b")
}
