// Package contentdto holds the request bodies of the content API and their
// conversion to service inputs.
package contentdto

import (
	contentsvc "github.com/AbdUllahO7/idigitek-server/internal/api/content/service"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// SectionCreateInput is the body of POST /sections.
type SectionCreateInput struct {
	Name        string  `json:"name" validate:"required,max=200,no_xss"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=2048"`
	IsActive    *bool   `json:"isActive,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

func (in SectionCreateInput) ToInput() contentsvc.SectionInput {
	return contentsvc.SectionInput{
		Name:        &in.Name,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    in.IsActive,
		Order:       in.Order,
	}
}

// SectionUpdateInput is the body of PUT /sections/:id. Missing fields are
// left unchanged.
type SectionUpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=2048"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
}

func (in SectionUpdateInput) ToInput() contentsvc.SectionInput {
	return contentsvc.SectionInput{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Order:       in.Order,
	}
}

// SectionItemCreateInput is the body of POST /section-items.
type SectionItemCreateInput struct {
	Name        string  `json:"name" validate:"required,max=200,no_xss"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=2048"`
	IsActive    *bool   `json:"isActive,omitempty"`
	IsMain      *bool   `json:"isMain,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
	SectionID   string  `json:"sectionId" validate:"required,objectid"`
}

func (in SectionItemCreateInput) ToInput() contentsvc.SectionItemInput {
	sectionID := utility.String2ObjectID(in.SectionID)
	return contentsvc.SectionItemInput{
		Name:        &in.Name,
		Description: in.Description,
		Image:       in.Image,
		IsActive:    in.IsActive,
		IsMain:      in.IsMain,
		Order:       in.Order,
		SectionID:   &sectionID,
	}
}

// SectionItemUpdateInput is the body of PUT /section-items/:id. Setting
// sectionId moves the item to another section.
type SectionItemUpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=2048"`
	IsMain      *bool   `json:"isMain,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
	SectionID   *string `json:"sectionId,omitempty" validate:"omitempty,objectid"`
}

func (in SectionItemUpdateInput) ToInput() contentsvc.SectionItemInput {
	out := contentsvc.SectionItemInput{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		IsMain:      in.IsMain,
		Order:       in.Order,
	}
	if in.SectionID != nil {
		id := utility.String2ObjectID(*in.SectionID)
		out.SectionID = &id
	}
	return out
}

// SubSectionCreateInput is the body of POST /subsections. At least one of
// sectionItemId and parentSectionIds is required.
type SubSectionCreateInput struct {
	Name             string                 `json:"name" validate:"required,max=200,no_xss"`
	Description      *string                `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Slug             *string                `json:"slug,omitempty" validate:"omitempty,max=200"`
	Image            *string                `json:"image,omitempty" validate:"omitempty,max=2048"`
	IsActive         *bool                  `json:"isActive,omitempty"`
	IsMain           *bool                  `json:"isMain,omitempty"`
	Order            *int                   `json:"order,omitempty" validate:"omitempty,min=0"`
	SectionItemID    *string                `json:"sectionItemId,omitempty" validate:"omitempty,objectid"`
	ParentSectionIDs []string               `json:"parentSectionIds,omitempty" validate:"omitempty,dive,objectid"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

func (in SubSectionCreateInput) ToInput() contentsvc.SubSectionInput {
	out := contentsvc.SubSectionInput{
		Name:        &in.Name,
		Description: in.Description,
		Slug:        in.Slug,
		Image:       in.Image,
		IsActive:    in.IsActive,
		IsMain:      in.IsMain,
		Order:       in.Order,
		Metadata:    in.Metadata,
	}
	if in.SectionItemID != nil && *in.SectionItemID != "" {
		id := utility.String2ObjectID(*in.SectionItemID)
		out.SectionItemID = &id
	}
	if in.ParentSectionIDs != nil {
		ids := utility.StringArray2ObjectIDArray(in.ParentSectionIDs)
		out.ParentSectionIDs = &ids
	}
	return out
}

// SubSectionUpdateInput is the body of PUT /subsections/:id. An empty
// sectionItemId detaches the subsection from its item; parentSectionIds
// replaces the whole list.
type SubSectionUpdateInput struct {
	Name             *string                `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Description      *string                `json:"description,omitempty" validate:"omitempty,max=2000,no_xss"`
	Slug             *string                `json:"slug,omitempty" validate:"omitempty,max=200"`
	Image            *string                `json:"image,omitempty" validate:"omitempty,max=2048"`
	IsMain           *bool                  `json:"isMain,omitempty"`
	Order            *int                   `json:"order,omitempty" validate:"omitempty,min=0"`
	SectionItemID    *string                `json:"sectionItemId,omitempty" validate:"omitempty,objectid"`
	ParentSectionIDs *[]string              `json:"parentSectionIds,omitempty" validate:"omitempty,dive,objectid"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

func (in SubSectionUpdateInput) ToInput() contentsvc.SubSectionInput {
	out := contentsvc.SubSectionInput{
		Name:        in.Name,
		Description: in.Description,
		Slug:        in.Slug,
		Image:       in.Image,
		IsMain:      in.IsMain,
		Order:       in.Order,
		Metadata:    in.Metadata,
	}
	if in.SectionItemID != nil {
		// "" parses to the zero id, which detaches.
		id := utility.String2ObjectID(*in.SectionItemID)
		out.SectionItemID = &id
	}
	if in.ParentSectionIDs != nil {
		ids := utility.StringArray2ObjectIDArray(*in.ParentSectionIDs)
		out.ParentSectionIDs = &ids
	}
	return out
}

// ActiveInput is the body of PUT /<kind>/:id/active.
type ActiveInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
