package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AbdUllahO7/idigitek-server/internal/logger"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// EnsureCollections creates every missing collection in db. Collections must
// exist before they are written inside a transaction.
func EnsureCollections(db *mongo.Database, names []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.GetAppLogger().Infof("Collection %s does not exist, creating it", name)
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	logger.GetAppLogger().Infof("Collections are ensured in database: %s", db.Name())
	return nil
}

// IndexModels turns the `index` tags of model into index models.
func IndexModels(model interface{}) ([]mongo.IndexModel, error) {
	specs, err := utility.IndexSpecs(model)
	if err != nil {
		return nil, err
	}
	models := make([]mongo.IndexModel, 0, len(specs))
	for _, spec := range specs {
		keys := bson.D{}
		for _, f := range spec.Fields {
			if f.Text {
				keys = append(keys, bson.E{Key: f.Name, Value: "text"})
			} else {
				keys = append(keys, bson.E{Key: f.Name, Value: f.Order})
			}
		}
		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts.SetUnique(true)
		}
		if spec.Sparse {
			opts.SetSparse(true)
		}
		if spec.TTL > 0 {
			opts.SetExpireAfterSeconds(spec.TTL)
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: opts})
	}
	return models, nil
}

// CreateIndexes makes the indexes of collection match the tags of model.
// An index whose definition changed is dropped and recreated.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	log := logger.GetAppLogger().WithField("collection", collection.Name())

	models, err := IndexModels(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existing := map[string]indexInfo{}
	for cursor.Next(ctx) {
		var info indexInfo
		if err := cursor.Decode(&info); err != nil {
			return fmt.Errorf("failed to decode index info: %w", err)
		}
		existing[info.Name] = info
	}

	for _, model := range models {
		name := *model.Options.Name
		if current, ok := existing[name]; ok {
			if compareIndex(current, model.Keys.(bson.D), model.Options) {
				log.Debugf("Index %s is up to date", name)
				continue
			}
			if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", name, err)
			}
			log.Infof("Dropped outdated index %s", name)
		}
		if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
		log.Infof("Created index %s", name)
	}
	return nil
}

// indexInfo is one entry of listIndexes.
type indexInfo struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	Unique             bool   `bson:"unique"`
	Sparse             bool   `bson:"sparse"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds"`
}

// compareIndex reports whether an existing index matches keys and opts.
func compareIndex(existing indexInfo, keys bson.D, opts *options.IndexOptions) bool {
	if !sameKeys(existing.Key, keys) {
		return false
	}
	if existing.Unique != (opts.Unique != nil && *opts.Unique) {
		return false
	}
	if existing.Sparse != (opts.Sparse != nil && *opts.Sparse) {
		return false
	}
	switch {
	case opts.ExpireAfterSeconds == nil:
		return existing.ExpireAfterSeconds == nil
	case existing.ExpireAfterSeconds == nil:
		return false
	}
	return *existing.ExpireAfterSeconds == *opts.ExpireAfterSeconds
}

// sameKeys compares key documents. Text indexes are stored as _fts/_ftsx, so
// any text key matches an existing text index.
func sameKeys(existing, want bson.D) bool {
	for _, k := range want {
		if k.Value == "text" {
			for _, e := range existing {
				if e.Key == "_fts" {
					return true
				}
			}
			return false
		}
	}
	if len(existing) != len(want) {
		return false
	}
	for i, k := range want {
		if existing[i].Key != k.Key || !sameIndexValue(existing[i].Value, k.Value) {
			return false
		}
	}
	return true
}

func sameIndexValue(existing, want interface{}) bool {
	wantInt, isInt := want.(int)
	if !isInt {
		return existing == want
	}
	switch ev := existing.(type) {
	case int32:
		return int(ev) == wantInt
	case int64:
		return int(ev) == wantInt
	case float64:
		return int(ev) == wantInt
	}
	return false
}
