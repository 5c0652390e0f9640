// Package global holds process-wide singletons set up at startup.
package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbdUllahO7/idigitek-server/config"
	"github.com/AbdUllahO7/idigitek-server/internal/registry"
)

// MongoDB_Content_CollectionName names the content collections.
type MongoDB_Content_CollectionName struct {
	Sections            string
	SectionItems        string
	SubSections         string
	ContentElements     string
	ContentTranslations string
	Relations           string
	Languages           string
}

// All lists every collection name.
func (c MongoDB_Content_CollectionName) All() []string {
	return []string{
		c.Sections,
		c.SectionItems,
		c.SubSections,
		c.ContentElements,
		c.ContentTranslations,
		c.Relations,
		c.Languages,
	}
}

// DefaultCollectionNames returns the production collection names.
func DefaultCollectionNames() MongoDB_Content_CollectionName {
	return MongoDB_Content_CollectionName{
		Sections:            "sections",
		SectionItems:        "section_items",
		SubSections:         "sub_sections",
		ContentElements:     "content_elements",
		ContentTranslations: "content_translations",
		Relations:           "content_relations",
		Languages:           "languages",
	}
}

var Validate *validator.Validate
var MongoDB_Session *mongo.Client
var MongoDB_ServerConfig *config.Configuration
var MongoDB_ColNames = DefaultCollectionNames()

var RegistryCollections = registry.NewRegistry[*mongo.Collection]()
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()
