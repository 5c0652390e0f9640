package contentdto

import (
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// ElementCreateInput is the body of POST /content-elements.
type ElementCreateInput struct {
	Name           string  `json:"name" validate:"required,max=200,no_xss"`
	Type           string  `json:"type" validate:"required,oneof=text image icon gallery video link custom"`
	ParentType     string  `json:"parentType" validate:"required,oneof=section subsection"`
	ParentID       string  `json:"parentId" validate:"required,objectid"`
	DefaultContent *string `json:"defaultContent,omitempty" validate:"omitempty,max=10000"`
	IsActive       *bool   `json:"isActive,omitempty"`
	Order          *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

func (in ElementCreateInput) ToInput() contentsvc.ElementInput {
	typ := contentmodels.ElementType(in.Type)
	parent := contentmodels.ParentRef{
		Kind: contentmodels.ParentKind(in.ParentType),
		ID:   utility.String2ObjectID(in.ParentID),
	}
	return contentsvc.ElementInput{
		Name:           &in.Name,
		Type:           &typ,
		Parent:         &parent,
		DefaultContent: in.DefaultContent,
		IsActive:       in.IsActive,
		Order:          in.Order,
	}
}

// ElementUpdateInput is the body of PUT /content-elements/:id. parentType
// and parentId move the element and must be sent together.
type ElementUpdateInput struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Type           *string `json:"type,omitempty" validate:"omitempty,oneof=text image icon gallery video link custom"`
	ParentType     *string `json:"parentType,omitempty" validate:"omitempty,oneof=section subsection"`
	ParentID       *string `json:"parentId,omitempty" validate:"omitempty,objectid"`
	DefaultContent *string `json:"defaultContent,omitempty" validate:"omitempty,max=10000"`
	Order          *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

// CheckParent rejects a move that names only one of parentType and parentId.
func (in ElementUpdateInput) CheckParent() error {
	if (in.ParentType == nil) != (in.ParentID == nil) {
		return common.NewValidationError("parentType and parentId must be given together")
	}
	return nil
}

func (in ElementUpdateInput) ToInput() contentsvc.ElementInput {
	out := contentsvc.ElementInput{
		Name:           in.Name,
		DefaultContent: in.DefaultContent,
		Order:          in.Order,
	}
	if in.Type != nil {
		typ := contentmodels.ElementType(*in.Type)
		out.Type = &typ
	}
	if in.ParentType != nil && in.ParentID != nil {
		out.Parent = &contentmodels.ParentRef{
			Kind: contentmodels.ParentKind(*in.ParentType),
			ID:   utility.String2ObjectID(*in.ParentID),
		}
	}
	return out
}

// AssociationCreateInput is the body of POST /relations/associate.
type AssociationCreateInput struct {
	ElementID  string                 `json:"elementId" validate:"required,objectid"`
	ParentType string                 `json:"parentType" validate:"required,oneof=section subsection"`
	ParentID   string                 `json:"parentId" validate:"required,objectid"`
	Order      *int                   `json:"order,omitempty" validate:"omitempty,min=0"`
	IsActive   *bool                  `json:"isActive,omitempty"`
	Config     map[string]interface{} `json:"config,omitempty"`
}

func (in AssociationCreateInput) ToInput() contentsvc.AssociationInput {
	return contentsvc.AssociationInput{
		ElementID: utility.String2ObjectID(in.ElementID),
		Parent: contentmodels.ParentRef{
			Kind: contentmodels.ParentKind(in.ParentType),
			ID:   utility.String2ObjectID(in.ParentID),
		},
		Order:    in.Order,
		IsActive: in.IsActive,
		Config:   in.Config,
	}
}
