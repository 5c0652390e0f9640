package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AbdUllahO7/idigitek-server/config"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/database"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
)

// InitGlobal sets up the process-wide singletons in dependency order.
func InitGlobal() {
	initColNames()
	initValidator()
	initConfig()
	initDatabase_MongoDB()
}

func initColNames() {
	global.MongoDB_ColNames = global.DefaultCollectionNames()
	logrus.Info("Initialized collection names")
}

func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// initDatabase_MongoDB connects, creates the content collections and syncs
// the indexes declared on the models.
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName_Content)
	if err := database.EnsureCollections(db, global.MongoDB_ColNames.All()); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	if global.MongoDB_ServerConfig.MongoDB_SkipIndexes {
		logrus.Warn("Skipping index creation")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	names := global.MongoDB_ColNames
	models := []struct {
		collection string
		model      interface{}
	}{
		{names.Sections, contentmodels.Section{}},
		{names.SectionItems, contentmodels.SectionItem{}},
		{names.SubSections, contentmodels.SubSection{}},
		{names.ContentElements, contentmodels.ContentElement{}},
		{names.ContentTranslations, contentmodels.ContentTranslation{}},
		{names.Relations, contentmodels.Relation{}},
		{names.Languages, contentmodels.Language{}},
	}
	for _, m := range models {
		if err := database.CreateIndexes(ctx, db.Collection(m.collection), m.model); err != nil {
			logrus.Fatalf("Failed to create indexes on %s: %v", m.collection, err)
		}
	}
	logrus.Info("Synced collection indexes")
}
