// Package router mounts the content API: sections, section items,
// subsections, elements, relations, translations, languages and ordering.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	contenthdl "github.com/AbdUllahO7/idigitek-server/internal/api/content/handler"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	apirouter "github.com/AbdUllahO7/idigitek-server/internal/api/router"
)

// Register mounts the content routes on the registered mongo collections.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	store, err := contentsvc.NewContentStore()
	if err != nil {
		return fmt.Errorf("create content store: %w", err)
	}
	return Routes(store)(v1, r)
}

// Routes returns a RegisterFunc serving store.
func Routes(store *contentsvc.ContentStore) apirouter.RegisterFunc {
	return func(v1 fiber.Router, _ *apirouter.Router) error {
		h := contenthdl.NewContentHandler(store)

		sections := v1.Group("/sections")
		sections.Get("", h.ListSections)
		sections.Post("", h.CreateSection)
		sections.Get("/:id", h.GetSection)
		sections.Put("/:id", h.UpdateSection)
		sections.Delete("/:id", h.HandleDelete(contentmodels.KindSection))
		sections.Put("/:id/active", h.HandleSetActive(contentmodels.KindSection))
		sections.Get("/:id/content", h.GetSectionContent)

		items := v1.Group("/section-items")
		items.Get("", h.ListSectionItems)
		items.Post("", h.CreateSectionItem)
		items.Get("/:id", h.GetSectionItem)
		items.Put("/:id", h.UpdateSectionItem)
		items.Delete("/:id", h.HandleDelete(contentmodels.KindSectionItem))
		items.Put("/:id/active", h.HandleSetActive(contentmodels.KindSectionItem))

		subs := v1.Group("/subsections")
		subs.Get("", h.ListSubSections)
		subs.Post("", h.CreateSubSection)
		subs.Get("/slug/:slug", h.GetSubSectionBySlug)
		subs.Get("/:id", h.GetSubSection)
		subs.Put("/:id", h.UpdateSubSection)
		subs.Delete("/:id", h.HandleDelete(contentmodels.KindSubSection))
		subs.Put("/:id/active", h.HandleSetActive(contentmodels.KindSubSection))
		subs.Get("/:id/content", h.GetSubSectionContent)

		elements := v1.Group("/content-elements")
		elements.Get("", h.ListElements)
		elements.Post("", h.CreateElement)
		elements.Get("/:id", h.GetElement)
		elements.Put("/:id", h.UpdateElement)
		elements.Delete("/:id", h.HandleDelete(contentmodels.KindElement))
		elements.Put("/:id/active", h.HandleSetActive(contentmodels.KindElement))
		elements.Get("/:id/translations", h.GetElementTranslations)
		elements.Get("/:id/parents", h.GetElementParents)

		relations := v1.Group("/relations")
		relations.Get("", h.ListRelations)
		relations.Post("/associate", h.Associate)
		relations.Delete("", h.RemoveAssociation)

		translations := v1.Group("/translations")
		translations.Get("", h.GetTranslation)
		translations.Put("", h.UpsertTranslation)
		translations.Put("/bulk", h.BulkUpsertTranslations)
		translations.Delete("/:id", h.DeleteTranslation)

		languages := v1.Group("/languages")
		languages.Get("", h.ListLanguages)
		languages.Post("", h.CreateLanguage)
		languages.Get("/:id", h.GetLanguage)
		languages.Put("/:id", h.UpdateLanguage)
		languages.Delete("/:id", h.DeleteLanguage)

		v1.Put("/order/:kind", h.UpdateOrder)
		return nil
	}
}
