// Package contentmodels defines the persisted entities of the content hierarchy:
// Section → SectionItem → SubSection → ContentElement, plus translations,
// languages and the polymorphic element relation.
package contentmodels

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParentKind tags which entity kind a ParentRef points at.
type ParentKind string

const (
	ParentKindSection    ParentKind = "section"
	ParentKindSubSection ParentKind = "subsection"
)

// Valid reports whether k is one of the two parent kinds.
func (k ParentKind) Valid() bool {
	return k == ParentKindSection || k == ParentKindSubSection
}

// ParentRef identifies the owner of a ContentElement or the target of a
// Relation. The kind and the id always travel together.
type ParentRef struct {
	Kind ParentKind         `json:"parentType"`
	ID   primitive.ObjectID `json:"parentId"`
}

// SectionRef points at a Section.
func SectionRef(id primitive.ObjectID) ParentRef {
	return ParentRef{Kind: ParentKindSection, ID: id}
}

// SubSectionRef points at a SubSection.
func SubSectionRef(id primitive.ObjectID) ParentRef {
	return ParentRef{Kind: ParentKindSubSection, ID: id}
}

func (r ParentRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID.Hex())
}

// EntityKind names a managed entity kind for the lifecycle and ordering
// operations.
type EntityKind string

const (
	KindSection     EntityKind = "section"
	KindSectionItem EntityKind = "sectionItem"
	KindSubSection  EntityKind = "subsection"
	KindElement     EntityKind = "element"
	KindRelation    EntityKind = "relation"
	KindTranslation EntityKind = "translation"
	KindLanguage    EntityKind = "language"
)

// ParseEntityKind accepts the canonical names plus a few plural route forms.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch s {
	case "section", "sections":
		return KindSection, true
	case "sectionItem", "sectionItems", "section-items":
		return KindSectionItem, true
	case "subsection", "subsections", "subSection", "subSections", "sub-sections":
		return KindSubSection, true
	case "element", "elements", "content-elements":
		return KindElement, true
	case "relation", "relations":
		return KindRelation, true
	case "translation", "translations":
		return KindTranslation, true
	case "language", "languages":
		return KindLanguage, true
	}
	return "", false
}
