package basesvc

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "github.com/AbdUllahO7/idigitek-server/internal/api/base/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// MemoryDatabase is an in-process document store with the query subset the
// services use: equality, $in, $nin, $ne, $exists and range operators, $or
// and $and, array membership, and $set/$unset/$setOnInsert/$addToSet/$pull
// updates. Unique indexes declared with `index` tags are enforced.
type MemoryDatabase struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
	uniques     map[string][][]string
	faults      map[string]error
}

// NewMemoryDatabase returns an empty database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		collections: map[string][]bson.M{},
		uniques:     map[string][][]string{},
		faults:      map[string]error{},
	}
}

type memTxKey struct{}

func (db *MemoryDatabase) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(memTxKey{}).(*MemoryDatabase)
	return owner == db
}

func (db *MemoryDatabase) read(ctx context.Context, fn func() error) error {
	if !db.inTx(ctx) {
		db.mu.RLock()
		defer db.mu.RUnlock()
	}
	return fn()
}

func (db *MemoryDatabase) write(ctx context.Context, name string, fn func() error) error {
	if !db.inTx(ctx) {
		db.mu.Lock()
		defer db.mu.Unlock()
	}
	if err, ok := db.faults[name]; ok {
		delete(db.faults, name)
		return err
	}
	return fn()
}

// InjectFault makes the next write to collection fail with err.
func (db *MemoryDatabase) InjectFault(collection string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.faults[collection] = err
}

// Count returns the number of documents in collection.
func (db *MemoryDatabase) Count(collection string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.collections[collection])
}

// WithTransaction runs fn holding the database exclusively. Any error restores
// the state captured before fn. Nested calls join the outer transaction.
func (db *MemoryDatabase) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if db.inTx(ctx) {
		return fn(ctx)
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := make(map[string][]bson.M, len(db.collections))
	for name, docs := range db.collections {
		snapshot[name] = append([]bson.M(nil), docs...)
	}

	if err := fn(context.WithValue(ctx, memTxKey{}, db)); err != nil {
		db.collections = snapshot
		return wrapTxError(err)
	}
	return nil
}

// BaseServiceMemoryImpl implements BaseServiceMongo on a MemoryDatabase.
// Documents are never mutated in place, so a snapshot is a shallow copy.
type BaseServiceMemoryImpl[T any] struct {
	db   *MemoryDatabase
	name string
}

// NewBaseServiceMemory binds collection name in db to model T and registers
// the unique indexes declared on T.
func NewBaseServiceMemory[T any](db *MemoryDatabase, name string) *BaseServiceMemoryImpl[T] {
	var zero T
	sets, err := utility.UniqueKeySets(zero)
	if err != nil {
		panic(fmt.Sprintf("memory store %s: %v", name, err))
	}
	db.mu.Lock()
	db.uniques[name] = sets
	db.mu.Unlock()
	return &BaseServiceMemoryImpl[T]{db: db, name: name}
}

func (s *BaseServiceMemoryImpl[T]) CollectionName() string { return s.name }

func (s *BaseServiceMemoryImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	doc, err := toDoc(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	for key, value := range doc {
		if str, ok := value.(string); ok && str == "" {
			delete(doc, key)
		}
	}
	if id, ok := doc["_id"].(primitive.ObjectID); !ok || id.IsZero() {
		doc["_id"] = primitive.NewObjectID()
	}
	now := time.Now().UnixMilli()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	err = s.db.write(ctx, s.name, func() error {
		if err := s.checkUnique(doc, -1); err != nil {
			return err
		}
		s.db.collections[s.name] = append(s.db.collections[s.name], doc)
		return nil
	})
	if err != nil {
		return zero, err
	}
	return fromDoc[T](doc)
}

func (s *BaseServiceMemoryImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	findOpts := options.Find().SetLimit(1)
	if opts != nil {
		if opts.Sort != nil {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Skip != nil {
			findOpts.SetSkip(*opts.Skip)
		}
	}
	docs, err := s.findDocs(ctx, filter, findOpts)
	if err != nil {
		return zero, err
	}
	if len(docs) == 0 {
		return zero, common.ErrNotFound
	}
	return fromDoc[T](docs[0])
}

func (s *BaseServiceMemoryImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	docs, err := s.findDocs(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	results := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := fromDoc[T](doc)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *BaseServiceMemoryImpl[T]) findDocs(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]bson.M, error) {
	cond, err := filterDoc(filter)
	if err != nil {
		return nil, err
	}
	var matched []bson.M
	err = s.db.read(ctx, func() error {
		for _, doc := range s.db.collections[s.name] {
			ok, err := matchDoc(doc, cond)
			if err != nil {
				return err
			}
			if ok {
				matched = append(matched, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opts == nil {
		return matched, nil
	}
	if opts.Sort != nil {
		if err := sortDocs(matched, opts.Sort); err != nil {
			return nil, err
		}
	}
	if opts.Skip != nil {
		skip := int(*opts.Skip)
		if skip >= len(matched) {
			return nil, nil
		}
		matched = matched[skip:]
	}
	if opts.Limit != nil && *opts.Limit > 0 && int(*opts.Limit) < len(matched) {
		matched = matched[:*opts.Limit]
	}
	return matched, nil
}

func (s *BaseServiceMemoryImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (T, error) {
	var zero T
	doc, found, err := s.updateFirst(ctx, filter, update)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, common.ErrNotFound
	}
	return fromDoc[T](doc)
}

func (s *BaseServiceMemoryImpl[T]) updateFirst(ctx context.Context, filter interface{}, update interface{}) (bson.M, bool, error) {
	cond, err := filterDoc(filter)
	if err != nil {
		return nil, false, err
	}
	updateData, err := ToUpdateData(update)
	if err != nil {
		return nil, false, common.ErrInvalidFormat
	}
	touch(updateData)

	var result bson.M
	found := false
	err = s.db.write(ctx, s.name, func() error {
		docs := s.db.collections[s.name]
		for i, doc := range docs {
			ok, err := matchDoc(doc, cond)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			next, err := applyUpdate(doc, updateData, false)
			if err != nil {
				return err
			}
			if err := s.checkUnique(next, i); err != nil {
				return err
			}
			docs[i] = next
			result, found = next, true
			return nil
		}
		return nil
	})
	return result, found, err
}

// UpdateMany validates every updated document before storing any of them.
func (s *BaseServiceMemoryImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	cond, err := filterDoc(filter)
	if err != nil {
		return 0, err
	}
	updateData, err := ToUpdateData(update)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	touch(updateData)

	var count int64
	err = s.db.write(ctx, s.name, func() error {
		docs := s.db.collections[s.name]
		next := append([]bson.M(nil), docs...)
		for i, doc := range docs {
			ok, err := matchDoc(doc, cond)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			updated, err := applyUpdate(doc, updateData, false)
			if err != nil {
				return err
			}
			next[i] = updated
			count++
		}
		for i := range next {
			if err := checkUniqueIn(next, s.db.uniques[s.name], next[i], i, s.name); err != nil {
				return err
			}
		}
		s.db.collections[s.name] = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *BaseServiceMemoryImpl[T]) DeleteOne(ctx context.Context, filter interface{}) error {
	cond, err := filterDoc(filter)
	if err != nil {
		return err
	}
	deleted := false
	err = s.db.write(ctx, s.name, func() error {
		docs := s.db.collections[s.name]
		for i, doc := range docs {
			ok, err := matchDoc(doc, cond)
			if err != nil {
				return err
			}
			if ok {
				next := append(append([]bson.M(nil), docs[:i]...), docs[i+1:]...)
				s.db.collections[s.name] = next
				deleted = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !deleted {
		return common.ErrNotFound
	}
	return nil
}

func (s *BaseServiceMemoryImpl[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	cond, err := filterDoc(filter)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.db.write(ctx, s.name, func() error {
		docs := s.db.collections[s.name]
		kept := make([]bson.M, 0, len(docs))
		for _, doc := range docs {
			ok, err := matchDoc(doc, cond)
			if err != nil {
				return err
			}
			if ok {
				count++
				continue
			}
			kept = append(kept, doc)
		}
		s.db.collections[s.name] = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *BaseServiceMemoryImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	docs, err := s.findDocs(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (s *BaseServiceMemoryImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

func (s *BaseServiceMemoryImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *BaseServiceMemoryImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if opts == nil {
		opts = options.Find()
	}
	page, limit = basemodels.NormalizePage(page, limit)
	total, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	opts.SetSkip((page - 1) * limit)
	opts.SetLimit(limit)
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return basemodels.NewPaginateResult(items, page, limit, total), nil
}

func (s *BaseServiceMemoryImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, data)
}

// BulkUpdateByIds applies the batch as a single write: a unique index
// violation leaves every document unchanged.
func (s *BaseServiceMemoryImpl[T]) BulkUpdateByIds(ctx context.Context, updates []IDUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	datas := make([]*UpdateData, len(updates))
	for i, u := range updates {
		updateData, err := ToUpdateData(u.Update)
		if err != nil {
			return 0, common.ErrInvalidFormat
		}
		touch(updateData)
		datas[i] = updateData
	}

	var matched int64
	err := s.db.write(ctx, s.name, func() error {
		next := append([]bson.M(nil), s.db.collections[s.name]...)
		for i, u := range updates {
			cond := bson.M{"_id": u.ID}
			for j, doc := range next {
				ok, err := matchDoc(doc, cond)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				updated, err := applyUpdate(doc, datas[i], false)
				if err != nil {
					return err
				}
				next[j] = updated
				matched++
				break
			}
		}
		for i := range next {
			if err := checkUniqueIn(next, s.db.uniques[s.name], next[i], i, s.name); err != nil {
				return err
			}
		}
		s.db.collections[s.name] = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}

func (s *BaseServiceMemoryImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// Upsert updates the first match or inserts a document seeded with the
// equality fields of filter.
func (s *BaseServiceMemoryImpl[T]) Upsert(ctx context.Context, filter interface{}, data interface{}) (T, error) {
	var zero T
	cond, err := filterDoc(filter)
	if err != nil {
		return zero, err
	}
	updateData, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	touch(updateData)
	if updateData.SetOnInsert == nil {
		updateData.SetOnInsert = map[string]interface{}{}
	}
	updateData.SetOnInsert["createdAt"] = updateData.Set["updatedAt"]

	var result bson.M
	err = s.db.write(ctx, s.name, func() error {
		docs := s.db.collections[s.name]
		for i, doc := range docs {
			ok, err := matchDoc(doc, cond)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			next, err := applyUpdate(doc, updateData, false)
			if err != nil {
				return err
			}
			if err := s.checkUnique(next, i); err != nil {
				return err
			}
			docs[i] = next
			result = next
			return nil
		}

		seed := bson.M{}
		for key, value := range cond {
			if strings.HasPrefix(key, "$") {
				continue
			}
			if _, isOp := operatorMap(value); isOp {
				continue
			}
			seed[key] = value
		}
		next, err := applyUpdate(seed, updateData, true)
		if err != nil {
			return err
		}
		if id, ok := next["_id"].(primitive.ObjectID); !ok || id.IsZero() {
			next["_id"] = primitive.NewObjectID()
		}
		if err := s.checkUnique(next, -1); err != nil {
			return err
		}
		s.db.collections[s.name] = append(docs, next)
		result = next
		return nil
	})
	if err != nil {
		return zero, err
	}
	return fromDoc[T](result)
}

func (s *BaseServiceMemoryImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	docs, err := s.findDocs(ctx, filter, options.Find().SetLimit(1))
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

func (s *BaseServiceMemoryImpl[T]) checkUnique(doc bson.M, skip int) error {
	return checkUniqueIn(s.db.collections[s.name], s.db.uniques[s.name], doc, skip, s.name)
}

func checkUniqueIn(docs []bson.M, sets [][]string, doc bson.M, skip int, name string) error {
	id := doc["_id"]
	for i, other := range docs {
		if i == skip {
			continue
		}
		if skip < 0 && equalValues(other["_id"], id) {
			return common.NewConflictError("duplicate _id in %s", name)
		}
		for _, keys := range sets {
			same := true
			for _, key := range keys {
				if !equalValues(other[key], doc[key]) {
					same = false
					break
				}
			}
			if same {
				return common.NewConflictError("duplicate key in %s: %s", name, strings.Join(keys, ", "))
			}
		}
	}
	return nil
}

// ===== documents =====

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDoc[T any](doc bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, common.ErrInvalidFormat
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return out, common.ErrInvalidFormat
	}
	return out, nil
}

// normalizeValue gives v the shape it would have after a store round trip.
func normalizeValue(v interface{}) (interface{}, error) {
	doc, err := toDoc(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func filterDoc(filter interface{}) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}
	doc, err := toDoc(filter)
	if err != nil {
		return nil, common.NewValidationError("invalid filter: %v", err)
	}
	return doc, nil
}

func asMap(v interface{}) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]interface{}:
		return bson.M(m), true
	case primitive.D:
		return m.Map(), true
	}
	return nil, false
}

// operatorMap reports whether v is a map whose keys are all operators.
func operatorMap(v interface{}) (bson.M, bool) {
	m, ok := asMap(v)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			return nil, false
		}
	}
	return m, true
}

func asList(v interface{}) ([]interface{}, bool) {
	switch l := v.(type) {
	case primitive.A:
		return l, true
	case []interface{}:
		return l, true
	}
	return nil, false
}

// ===== matching =====

func matchDoc(doc bson.M, cond bson.M) (bool, error) {
	for key, want := range cond {
		switch key {
		case "$or", "$and":
			clauses, ok := asList(want)
			if !ok {
				return false, common.NewValidationError("%s needs an array", key)
			}
			matchedAny := false
			for _, clause := range clauses {
				sub, ok := asMap(clause)
				if !ok {
					return false, common.NewValidationError("%s clause must be a document", key)
				}
				matched, err := matchDoc(doc, sub)
				if err != nil {
					return false, err
				}
				if key == "$and" && !matched {
					return false, nil
				}
				matchedAny = matchedAny || matched
			}
			if key == "$or" && !matchedAny {
				return false, nil
			}
			continue
		}

		got, exists := doc[key]
		if ops, ok := operatorMap(want); ok {
			matched, err := matchOperators(got, exists, ops)
			if err != nil || !matched {
				return false, err
			}
			continue
		}
		if !matchValue(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func matchOperators(got interface{}, exists bool, ops bson.M) (bool, error) {
	for op, arg := range ops {
		switch op {
		case "$eq":
			if !matchValue(got, arg) {
				return false, nil
			}
		case "$ne":
			if matchValue(got, arg) {
				return false, nil
			}
		case "$in", "$nin":
			list, ok := asList(arg)
			if !ok {
				return false, common.NewValidationError("%s needs an array", op)
			}
			found := false
			for _, item := range list {
				if matchValue(got, item) {
					found = true
					break
				}
			}
			if found != (op == "$in") {
				return false, nil
			}
		case "$exists":
			want, _ := arg.(bool)
			if exists != want {
				return false, nil
			}
		case "$gt", "$gte", "$lt", "$lte":
			if !exists {
				return false, nil
			}
			c := compareValues(got, arg)
			if (op == "$gt" && c <= 0) || (op == "$gte" && c < 0) ||
				(op == "$lt" && c >= 0) || (op == "$lte" && c > 0) {
				return false, nil
			}
		default:
			return false, common.NewValidationError("unsupported operator %s", op)
		}
	}
	return true, nil
}

// matchValue compares a stored value to a wanted one. A stored array matches
// when it equals want or contains it.
func matchValue(got, want interface{}) bool {
	if list, ok := asList(got); ok {
		if _, wantList := asList(want); wantList {
			return equalValues(got, want)
		}
		for _, item := range list {
			if equalValues(item, want) {
				return true
			}
		}
		return false
	}
	return equalValues(got, want)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func equalValues(a, b interface{}) bool {
	if na, ok := toFloat(a); ok {
		if nb, ok := toFloat(b); ok {
			return na == nb
		}
		return false
	}
	if la, ok := asList(a); ok {
		lb, ok := asList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !equalValues(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	case primitive.ObjectID:
		return 3
	case bool:
		return 4
	}
	return 5
}

func compareValues(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case primitive.ObjectID:
		y := b.(primitive.ObjectID)
		return bytes.Compare(x[:], y[:])
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	if fa, ok := toFloat(a); ok {
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	}
	return 0
}

func sortDocs(docs []bson.M, spec interface{}) error {
	var keys primitive.D
	switch s := spec.(type) {
	case primitive.D:
		keys = s
	case bson.M:
		if len(s) > 1 {
			return common.NewValidationError("multi-key sort needs an ordered document")
		}
		for k, v := range s {
			keys = append(keys, primitive.E{Key: k, Value: v})
		}
	default:
		return common.NewValidationError("unsupported sort %T", spec)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range keys {
			dir, _ := toFloat(key.Value)
			c := compareValues(docs[i][key.Key], docs[j][key.Key])
			if c == 0 {
				continue
			}
			if dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

// ===== updates =====

func applyUpdate(doc bson.M, update *UpdateData, isInsert bool) (bson.M, error) {
	next := make(bson.M, len(doc)+len(update.Set))
	for k, v := range doc {
		next[k] = v
	}

	set := func(fields map[string]interface{}) error {
		for key, value := range fields {
			if strings.Contains(key, ".") {
				return common.NewValidationError("dotted update path %s is not supported", key)
			}
			normalized, err := normalizeValue(value)
			if err != nil {
				return common.ErrInvalidFormat
			}
			next[key] = normalized
		}
		return nil
	}

	if isInsert {
		if err := set(update.SetOnInsert); err != nil {
			return nil, err
		}
	}
	if err := set(update.Set); err != nil {
		return nil, err
	}
	for key := range update.Unset {
		delete(next, key)
	}

	for key, value := range update.AddToSet {
		items := []interface{}{value}
		if ops, ok := operatorMap(value); ok {
			each, ok := asList(ops["$each"])
			if !ok {
				normalized, err := normalizeValue(ops["$each"])
				if err != nil {
					return nil, common.ErrInvalidFormat
				}
				if each, ok = asList(normalized); !ok {
					return nil, common.NewValidationError("$addToSet.$each needs an array")
				}
			}
			items = each
		}
		current, _ := asList(next[key])
		out := append(primitive.A{}, current...)
		for _, item := range items {
			normalized, err := normalizeValue(item)
			if err != nil {
				return nil, common.ErrInvalidFormat
			}
			present := false
			for _, existing := range out {
				if equalValues(existing, normalized) {
					present = true
					break
				}
			}
			if !present {
				out = append(out, normalized)
			}
		}
		next[key] = out
	}

	for key, value := range update.Pull {
		current, ok := asList(next[key])
		if !ok {
			continue
		}
		normalized, err := normalizeValue(value)
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		var remove []interface{}
		if ops, ok := operatorMap(normalized); ok {
			list, ok := asList(ops["$in"])
			if !ok {
				return nil, common.NewValidationError("$pull supports only $in")
			}
			remove = list
		} else {
			remove = []interface{}{normalized}
		}
		out := primitive.A{}
		for _, existing := range current {
			drop := false
			for _, r := range remove {
				if equalValues(existing, r) {
					drop = true
					break
				}
			}
			if !drop {
				out = append(out, existing)
			}
		}
		next[key] = out
	}
	return next, nil
}
