package main

import (
	"context"
	"time"

	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
	"github.com/AbdUllahO7/idigitek-server/internal/logger"
)

// InitDefaultData seeds the default language on an empty database.
func InitDefaultData() {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	store, err := contentsvc.NewContentStore()
	if err != nil {
		log.Fatalf("Failed to create content store: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	languages, err := contentsvc.NewContentQueryService(store).ListLanguages(ctx, false)
	if err != nil {
		log.Fatalf("Failed to list languages: %v", err)
	}
	if len(languages) > 0 {
		log.Debugf("Found %d languages, skipping seed", len(languages))
		return
	}

	language, err := contentsvc.NewLifecycleService(store).CreateLanguage(ctx, contentsvc.LanguageInput{
		Name: &cfg.DefaultLanguage_Name,
		Code: &cfg.DefaultLanguage_Code,
	})
	switch {
	case err == nil:
		log.WithField("code", language.Code).Info("Seeded default language")
	case common.IsConflict(err):
		// Another instance seeded it first.
		log.Debug("Default language already exists")
	default:
		log.Fatalf("Failed to seed default language: %v", err)
	}
}
