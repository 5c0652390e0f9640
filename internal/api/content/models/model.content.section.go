package contentmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section is the root of a content tree.
type Section struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" index:"unique"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	IsActive    bool               `json:"isActive" bson:"isActive" index:"single:1"`
	Order       int                `json:"order" bson:"order" index:"single:1"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// SectionItem belongs to exactly one Section. Name is unique within it.
type SectionItem struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" index:"compound:section_item_name_unique"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	IsMain      bool               `json:"isMain" bson:"isMain"`
	Order       int                `json:"order" bson:"order"`
	SectionID   primitive.ObjectID `json:"sectionId" bson:"sectionId" index:"single:1;compound:section_item_name_unique"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// SubSection is owned by at most one SectionItem and any number of Sections.
type SubSection struct {
	ID               primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Name             string                 `json:"name" bson:"name"`
	Description      string                 `json:"description" bson:"description"`
	Slug             string                 `json:"slug" bson:"slug" index:"unique"`
	Image            string                 `json:"image,omitempty" bson:"image,omitempty"`
	IsActive         bool                   `json:"isActive" bson:"isActive"`
	IsMain           bool                   `json:"isMain" bson:"isMain"`
	Order            int                    `json:"order" bson:"order"`
	SectionItemID    *primitive.ObjectID    `json:"sectionItemId,omitempty" bson:"sectionItemId,omitempty" index:"single:1"`
	ParentSectionIDs []primitive.ObjectID   `json:"parentSectionIds" bson:"parentSectionIds" index:"single:1"`
	LanguageIDs      []primitive.ObjectID   `json:"languageIds" bson:"languageIds"`
	Metadata         map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt        int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt        int64                  `json:"updatedAt" bson:"updatedAt"`
}

// Owners returns every parent id of the subsection: its SectionItem, if any,
// followed by its parent Sections.
func (s *SubSection) Owners() []primitive.ObjectID {
	owners := make([]primitive.ObjectID, 0, len(s.ParentSectionIDs)+1)
	if s.SectionItemID != nil && !s.SectionItemID.IsZero() {
		owners = append(owners, *s.SectionItemID)
	}
	return append(owners, s.ParentSectionIDs...)
}
