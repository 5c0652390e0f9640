// Package contentsvc implements the content engine: parent resolution, the
// lifecycle orchestrator, translation resolution and ordering.
package contentsvc

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	basesvc "github.com/AbdUllahO7/idigitek-server/internal/api/base/service"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
)

// ContentStore groups the typed stores of every content collection and the
// transactor they share.
type ContentStore struct {
	Sections     basesvc.BaseServiceMongo[contentmodels.Section]
	SectionItems basesvc.BaseServiceMongo[contentmodels.SectionItem]
	SubSections  basesvc.BaseServiceMongo[contentmodels.SubSection]
	Elements     basesvc.BaseServiceMongo[contentmodels.ContentElement]
	Translations basesvc.BaseServiceMongo[contentmodels.ContentTranslation]
	Relations    basesvc.BaseServiceMongo[contentmodels.Relation]
	Languages    basesvc.BaseServiceMongo[contentmodels.Language]
	Tx           basesvc.Transactor
}

// NewContentStore builds the store from the registered mongo collections.
func NewContentStore() (*ContentStore, error) {
	names := global.MongoDB_ColNames
	get := func(name string) (*mongo.Collection, error) {
		collection, exist := global.RegistryCollections.Get(name)
		if !exist {
			return nil, fmt.Errorf("failed to get %s collection: %w", name, common.ErrNotFound)
		}
		return collection, nil
	}

	sections, err := get(names.Sections)
	if err != nil {
		return nil, err
	}
	items, err := get(names.SectionItems)
	if err != nil {
		return nil, err
	}
	subSections, err := get(names.SubSections)
	if err != nil {
		return nil, err
	}
	elements, err := get(names.ContentElements)
	if err != nil {
		return nil, err
	}
	translations, err := get(names.ContentTranslations)
	if err != nil {
		return nil, err
	}
	relations, err := get(names.Relations)
	if err != nil {
		return nil, err
	}
	languages, err := get(names.Languages)
	if err != nil {
		return nil, err
	}
	if global.MongoDB_Session == nil {
		return nil, fmt.Errorf("mongo client is not initialized: %w", common.ErrConnection)
	}

	return &ContentStore{
		Sections:     basesvc.NewBaseServiceMongo[contentmodels.Section](sections),
		SectionItems: basesvc.NewBaseServiceMongo[contentmodels.SectionItem](items),
		SubSections:  basesvc.NewBaseServiceMongo[contentmodels.SubSection](subSections),
		Elements:     basesvc.NewBaseServiceMongo[contentmodels.ContentElement](elements),
		Translations: basesvc.NewBaseServiceMongo[contentmodels.ContentTranslation](translations),
		Relations:    basesvc.NewBaseServiceMongo[contentmodels.Relation](relations),
		Languages:    basesvc.NewBaseServiceMongo[contentmodels.Language](languages),
		Tx:           basesvc.NewMongoTransactor(global.MongoDB_Session),
	}, nil
}

// NewMemoryContentStore builds the store on an in-memory database using the
// production collection names.
func NewMemoryContentStore(db *basesvc.MemoryDatabase) *ContentStore {
	names := global.DefaultCollectionNames()
	return &ContentStore{
		Sections:     basesvc.NewBaseServiceMemory[contentmodels.Section](db, names.Sections),
		SectionItems: basesvc.NewBaseServiceMemory[contentmodels.SectionItem](db, names.SectionItems),
		SubSections:  basesvc.NewBaseServiceMemory[contentmodels.SubSection](db, names.SubSections),
		Elements:     basesvc.NewBaseServiceMemory[contentmodels.ContentElement](db, names.ContentElements),
		Translations: basesvc.NewBaseServiceMemory[contentmodels.ContentTranslation](db, names.ContentTranslations),
		Relations:    basesvc.NewBaseServiceMemory[contentmodels.Relation](db, names.Relations),
		Languages:    basesvc.NewBaseServiceMemory[contentmodels.Language](db, names.Languages),
		Tx:           db,
	}
}

// siblingOrder sorts by order; equal orders keep insertion order.
func siblingOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
}

func activeFilter(filter bson.M, activeOnly bool) bson.M {
	if activeOnly {
		filter["isActive"] = true
	}
	return filter
}
