package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbdUllahO7/idigitek-server/config"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
)

func InitRegistry() {
	if err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections registers the content database and each of its
// collections under their configured names.
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName_Content)
	if _, err := global.RegistryDatabase.Register(cfg.MongoDB_DBName_Content, db); err != nil {
		return err
	}

	for _, name := range global.MongoDB_ColNames.All() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		if registered {
			logrus.Debugf("Collection %s registered", name)
		} else {
			logrus.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}
