package contentsvc

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "github.com/AbdUllahO7/idigitek-server/internal/api/base/service"
	contentmodels "github.com/AbdUllahO7/idigitek-server/internal/api/content/models"
	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// ===== translations =====

// UpsertTranslation writes the value of an element in a language. The last
// write wins; there is never more than one row per pair.
func (s *LifecycleService) UpsertTranslation(ctx context.Context, in TranslationInput) (*contentmodels.ContentTranslation, error) {
	if err := checkTranslationInput(in); err != nil {
		return nil, err
	}
	var saved contentmodels.ContentTranslation
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		var err error
		saved, err = s.upsertTranslation(ctx, in)
		if err != nil {
			return err
		}
		ev.change(s.store.Translations.CollectionName(), events.OpUpsert, saved.ID, saved, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// BulkUpsertTranslations applies every input or none of them.
func (s *LifecycleService) BulkUpsertTranslations(ctx context.Context, inputs []TranslationInput) ([]contentmodels.ContentTranslation, error) {
	if len(inputs) == 0 {
		return nil, common.NewValidationError("no translations given")
	}
	for i, in := range inputs {
		if err := checkTranslationInput(in); err != nil {
			return nil, common.NewValidationError("translation %d: %s", i, err.Error())
		}
	}

	var saved []contentmodels.ContentTranslation
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		saved = make([]contentmodels.ContentTranslation, 0, len(inputs))
		for _, in := range inputs {
			t, err := s.upsertTranslation(ctx, in)
			if err != nil {
				return err
			}
			saved = append(saved, t)
		}
		ev.change(s.store.Translations.CollectionName(), events.OpUpsert, primitive.NilObjectID, nil, len(saved))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func checkTranslationInput(in TranslationInput) error {
	if in.ElementID.IsZero() {
		return common.NewValidationError("elementId is required")
	}
	if in.LanguageID.IsZero() {
		return common.NewValidationError("languageId is required")
	}
	if in.Value.IsZero() {
		return common.NewValidationError("value is required")
	}
	return nil
}

func (s *LifecycleService) upsertTranslation(ctx context.Context, in TranslationInput) (contentmodels.ContentTranslation, error) {
	var zero contentmodels.ContentTranslation

	element, err := s.store.Elements.FindOneById(ctx, in.ElementID)
	if err != nil {
		return zero, notFoundAs(err, "element %s not found", in.ElementID.Hex())
	}
	exists, err := s.store.Languages.DocumentExists(ctx, bson.M{"_id": in.LanguageID})
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, common.NewNotFoundError("language %s not found", in.LanguageID.Hex())
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{"value": in.Value}}
	if in.IsActive != nil {
		update.Set["isActive"] = *in.IsActive
	} else {
		update.SetOnInsert = map[string]interface{}{"isActive": true}
	}
	saved, err := s.store.Translations.Upsert(ctx,
		bson.M{"elementId": in.ElementID, "languageId": in.LanguageID}, update)
	if err != nil {
		return zero, err
	}

	if element.ParentType == contentmodels.ParentKindSubSection {
		_, err := s.store.SubSections.UpdateById(ctx, element.ParentID,
			bson.M{"$addToSet": bson.M{"languageIds": in.LanguageID}})
		if err != nil && !common.IsNotFound(err) {
			return zero, err
		}
	}
	return saved, nil
}

// DeleteTranslation removes one translation and refreshes the language list
// of the owning subsection.
func (s *LifecycleService) DeleteTranslation(ctx context.Context, id primitive.ObjectID) error {
	return s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		translation, err := s.store.Translations.FindOneById(ctx, id)
		if err != nil {
			return notFoundAs(err, "translation %s not found", id.Hex())
		}
		if err := s.store.Translations.DeleteById(ctx, id); err != nil {
			return notFoundAs(err, "translation %s not found", id.Hex())
		}

		element, err := s.store.Elements.FindOneById(ctx, translation.ElementID)
		switch {
		case err == nil:
			if element.ParentType == contentmodels.ParentKindSubSection {
				if err := s.refreshLanguageIDs(ctx, element.ParentID); err != nil {
					return err
				}
			}
		case !common.IsNotFound(err):
			return err
		}
		ev.change(s.store.Translations.CollectionName(), events.OpDelete, id, nil, 1)
		return nil
	})
}

// refreshLanguageIDs recomputes languageIds of a subsection from the
// translations of its primary elements. A missing subsection is skipped.
func (s *LifecycleService) refreshLanguageIDs(ctx context.Context, subSectionID primitive.ObjectID) error {
	elements, err := s.store.Elements.Find(ctx,
		bson.M{"parentType": contentmodels.ParentKindSubSection, "parentId": subSectionID}, nil)
	if err != nil {
		return err
	}
	languages := []primitive.ObjectID{}
	if len(elements) > 0 {
		ids := make([]primitive.ObjectID, 0, len(elements))
		for _, e := range elements {
			ids = append(ids, e.ID)
		}
		translations, err := s.store.Translations.Find(ctx, bson.M{"elementId": bson.M{"$in": ids}}, nil)
		if err != nil {
			return err
		}
		seen := utility.NewIDSet()
		for _, t := range translations {
			if seen.Add(t.LanguageID) {
				languages = append(languages, t.LanguageID)
			}
		}
	}

	_, err = s.store.SubSections.UpdateById(ctx, subSectionID, bson.M{"$set": bson.M{"languageIds": languages}})
	if err != nil && !common.IsNotFound(err) {
		return err
	}
	return nil
}

// ===== languages =====

// CreateLanguage inserts a language. Name and code are unique.
func (s *LifecycleService) CreateLanguage(ctx context.Context, in LanguageInput) (*contentmodels.Language, error) {
	name, err := requiredName(in.Name, "name")
	if err != nil {
		return nil, err
	}
	code, err := requiredName(in.Code, "code")
	if err != nil {
		return nil, err
	}
	code = strings.ToLower(code)

	var created contentmodels.Language
	err = s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		if err := s.ensureLanguageUnique(ctx, name, code, primitive.NilObjectID); err != nil {
			return err
		}
		created, err = s.store.Languages.InsertOne(ctx, contentmodels.Language{
			Name:     name,
			Code:     code,
			IsActive: boolOr(in.IsActive, true),
		})
		if err != nil {
			return err
		}
		ev.change(s.store.Languages.CollectionName(), events.OpInsert, created.ID, created, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateLanguage changes the given fields.
func (s *LifecycleService) UpdateLanguage(ctx context.Context, id primitive.ObjectID, in LanguageInput) (*contentmodels.Language, error) {
	var updated contentmodels.Language
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		current, err := s.store.Languages.FindOneById(ctx, id)
		if err != nil {
			return notFoundAs(err, "language %s not found", id.Hex())
		}

		set := bson.M{}
		name, code := current.Name, current.Code
		if in.Name != nil {
			if name, err = requiredName(in.Name, "name"); err != nil {
				return err
			}
			set["name"] = name
		}
		if in.Code != nil {
			if code, err = requiredName(in.Code, "code"); err != nil {
				return err
			}
			code = strings.ToLower(code)
			set["code"] = code
		}
		if name != current.Name || code != current.Code {
			if err := s.ensureLanguageUnique(ctx, name, code, id); err != nil {
				return err
			}
		}
		if in.IsActive != nil {
			set["isActive"] = *in.IsActive
		}

		updated, err = s.store.Languages.UpdateById(ctx, id, bson.M{"$set": set})
		if err != nil {
			return notFoundAs(err, "language %s not found", id.Hex())
		}
		ev.change(s.store.Languages.CollectionName(), events.OpUpdate, id, updated, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *LifecycleService) ensureLanguageUnique(ctx context.Context, name, code string, exclude primitive.ObjectID) error {
	if err := ensureUnique(ctx, s.store.Languages, bson.M{"name": name}, exclude,
		"language name %q already exists", name); err != nil {
		return err
	}
	return ensureUnique(ctx, s.store.Languages, bson.M{"code": code}, exclude,
		"language code %q already exists", code)
}

// DeleteLanguage deactivates a language, or removes it together with its
// translations and its entries in subsection language lists.
func (s *LifecycleService) DeleteLanguage(ctx context.Context, id primitive.ObjectID, hard bool) (*CascadeResult, error) {
	result := &CascadeResult{Kind: string(contentmodels.KindLanguage), ID: id.Hex(), Hard: hard}
	err := s.run(ctx, func(ctx context.Context, ev *afterCommit) error {
		result.Translations, result.SubSections = 0, 0

		if !hard {
			if _, err := s.store.Languages.UpdateById(ctx, id, bson.M{"$set": bson.M{"isActive": false}}); err != nil {
				return notFoundAs(err, "language %s not found", id.Hex())
			}
			ev.change(s.store.Languages.CollectionName(), events.OpSoftDelete, id, nil, 1)
			return nil
		}

		if err := s.store.Languages.DeleteById(ctx, id); err != nil {
			return notFoundAs(err, "language %s not found", id.Hex())
		}
		n, err := s.store.Translations.DeleteMany(ctx, bson.M{"languageId": id})
		if err != nil {
			return err
		}
		result.Translations = n
		n, err = s.store.SubSections.UpdateMany(ctx, bson.M{"languageIds": id},
			bson.M{"$pull": bson.M{"languageIds": id}})
		if err != nil {
			return err
		}
		result.SubSections = n
		ev.change(s.store.Languages.CollectionName(), events.OpDelete, id, nil, int(result.Translations)+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
