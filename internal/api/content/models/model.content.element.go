package contentmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElementType is the rendering hint of a content element.
type ElementType string

const (
	ElementTypeText    ElementType = "text"
	ElementTypeImage   ElementType = "image"
	ElementTypeIcon    ElementType = "icon"
	ElementTypeGallery ElementType = "gallery"
	ElementTypeVideo   ElementType = "video"
	ElementTypeLink    ElementType = "link"
	ElementTypeCustom  ElementType = "custom"
)

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	switch t {
	case ElementTypeText, ElementTypeImage, ElementTypeIcon, ElementTypeGallery,
		ElementTypeVideo, ElementTypeLink, ElementTypeCustom:
		return true
	}
	return false
}

// ContentElement is an atomic piece of content with exactly one primary
// parent. Name is unique within that parent.
type ContentElement struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name" index:"compound:element_parent_name_unique"`
	Type           ElementType        `json:"type" bson:"type"`
	ParentType     ParentKind         `json:"parentType" bson:"parentType" index:"compound:element_parent_name_unique"`
	ParentID       primitive.ObjectID `json:"parentId" bson:"parentId" index:"single:1;compound:element_parent_name_unique"`
	DefaultContent string             `json:"defaultContent,omitempty" bson:"defaultContent,omitempty"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	Order          int                `json:"order" bson:"order"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Parent returns the primary parent reference.
func (e *ContentElement) Parent() ParentRef {
	return ParentRef{Kind: e.ParentType, ID: e.ParentID}
}

// Relation attaches an element to a parent in addition to its primary one.
// At most one relation exists per (element, parent) pair.
type Relation struct {
	ID         primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	ElementID  primitive.ObjectID     `json:"elementId" bson:"elementId" index:"single:1;compound:relation_element_parent_unique"`
	ParentType ParentKind             `json:"parentType" bson:"parentType" index:"compound:relation_element_parent_unique;compound:relation_parent_active"`
	ParentID   primitive.ObjectID     `json:"parentId" bson:"parentId" index:"compound:relation_element_parent_unique;compound:relation_parent_active"`
	IsActive   bool                   `json:"isActive" bson:"isActive" index:"compound:relation_parent_active"`
	Order      int                    `json:"order" bson:"order"`
	Config     map[string]interface{} `json:"config,omitempty" bson:"config,omitempty"`
	CreatedAt  int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64                  `json:"updatedAt" bson:"updatedAt"`
}

// Parent returns the relation target.
func (r *Relation) Parent() ParentRef {
	return ParentRef{Kind: r.ParentType, ID: r.ParentID}
}
