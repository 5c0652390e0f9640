package contentsvc

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// Lifecycle inputs. A nil field is left unchanged on update and takes its
// default on create.

type SectionInput struct {
	Name        *string
	Description *string
	Image       *string
	IsActive    *bool
	Order       *int
}

type SectionItemInput struct {
	Name        *string
	Description *string
	Image       *string
	IsActive    *bool
	IsMain      *bool
	Order       *int
	SectionID   *primitive.ObjectID
}

type SubSectionInput struct {
	Name        *string
	Description *string
	Slug        *string
	Image       *string
	IsActive    *bool
	IsMain      *bool
	Order       *int
	// SectionItemID set to the zero id detaches the subsection from its item.
	SectionItemID    *primitive.ObjectID
	ParentSectionIDs *[]primitive.ObjectID
	Metadata         map[string]interface{}
}

type ElementInput struct {
	Name           *string
	Type           *contentmodels.ElementType
	Parent         *contentmodels.ParentRef
	DefaultContent *string
	IsActive       *bool
	Order          *int
}

type TranslationInput struct {
	ElementID  primitive.ObjectID
	LanguageID primitive.ObjectID
	Value      contentmodels.TranslationValue
	IsActive   *bool
}

type AssociationInput struct {
	ElementID primitive.ObjectID
	Parent    contentmodels.ParentRef
	Order     *int
	IsActive  *bool
	Config    map[string]interface{}
}

type LanguageInput struct {
	Name     *string
	Code     *string
	IsActive *bool
}

// OrderUpdate moves one entity to a new order index.
type OrderUpdate struct {
	ID    string
	Order int64
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return strings.TrimSpace(*p)
}

// requiredName trims p and rejects a missing or blank value.
func requiredName(p *string, field string) (string, error) {
	if p == nil || strings.TrimSpace(*p) == "" {
		return "", common.NewValidationError("%s is required", field)
	}
	return strings.TrimSpace(*p), nil
}

func checkOrder(p *int) error {
	if p != nil && *p < 0 {
		return common.NewValidationError("order must be a non-negative integer, got %d", *p)
	}
	return nil
}

func changedString(p *string, current string) bool {
	return p != nil && strings.TrimSpace(*p) != current
}
