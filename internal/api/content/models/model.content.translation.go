package contentmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Language is a locale a translation may be written in.
type Language struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"unique"`
	Code      string             `json:"code" bson:"code" index:"unique"`
	IsActive  bool               `json:"isActive" bson:"isActive"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// ContentTranslation is the value of one element in one language.
type ContentTranslation struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ElementID  primitive.ObjectID `json:"elementId" bson:"elementId" index:"single:1;compound:translation_element_language_unique"`
	LanguageID primitive.ObjectID `json:"languageId" bson:"languageId" index:"single:1;compound:translation_element_language_unique"`
	Value      TranslationValue   `json:"value" bson:"value"`
	IsActive   bool               `json:"isActive" bson:"isActive"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
