package utility

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// IndexField is one key of an index.
type IndexField struct {
	Name  string // bson field name
	Order int    // 1 or -1
	Text  bool
}

// IndexSpec is an index declared through `index:"..."` struct tags.
//
// Tag grammar, parts separated by ';', options by ',':
//
//	index:"single:1"                 single field, ascending
//	index:"unique" / "unique,sparse" unique single field
//	index:"text"                     text index
//	index:"ttl:3600"                 TTL in seconds
//	index:"compound:elem_lang_unique" member of a compound index; a group
//	                                  name containing "_unique" makes it unique
//
// "order:-1" anywhere in a part flips the direction.
type IndexSpec struct {
	Name   string
	Fields []IndexField
	Unique bool
	Sparse bool
	TTL    int32
}

// ParseIndexTag splits a tag into option maps.
func ParseIndexTag(tag string) []map[string]string {
	parts := strings.Split(tag, ";")
	result := make([]map[string]string, 0, len(parts))
	for _, part := range parts {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			kv := strings.SplitN(sub, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

func parseOrder(entry map[string]string) int {
	if entry["order"] == "-1" || entry["single"] == "-1" {
		return -1
	}
	return 1
}

// bsonName returns the bson key of a field and whether it is inlined.
func bsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("bson")
	if tag == "-" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "inline" {
			return "", true
		}
	}
	if parts[0] == "" {
		return strings.ToLower(field.Name), false
	}
	return parts[0], false
}

// IndexSpecs collects the indexes declared on model (struct or pointer to
// struct), descending into inline structs. Compound groups are returned in
// name order after the single-field indexes.
func IndexSpecs(model interface{}) ([]IndexSpec, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("nil model")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model %s is not a struct", t)
	}

	var specs []IndexSpec
	compound := map[string]*IndexSpec{}
	if err := collectIndexSpecs(t, &specs, compound); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(compound))
	for name := range compound {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		specs = append(specs, *compound[name])
	}
	return specs, nil
}

func collectIndexSpecs(t reflect.Type, specs *[]IndexSpec, compound map[string]*IndexSpec) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, inline := bsonName(field)
		if inline {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := collectIndexSpecs(ft, specs, compound); err != nil {
					return err
				}
			}
			continue
		}
		tag, ok := field.Tag.Lookup("index")
		if !ok || name == "" {
			continue
		}

		for _, entry := range ParseIndexTag(tag) {
			_, sparse := entry["sparse"]
			if _, ok := entry["text"]; ok {
				*specs = append(*specs, IndexSpec{
					Name:   name + "_text",
					Fields: []IndexField{{Name: name, Text: true}},
				})
			}
			if _, ok := entry["single"]; ok {
				*specs = append(*specs, IndexSpec{
					Name:   name + "_single",
					Fields: []IndexField{{Name: name, Order: parseOrder(entry)}},
				})
			}
			if _, ok := entry["unique"]; ok {
				*specs = append(*specs, IndexSpec{
					Name:   name + "_unique",
					Fields: []IndexField{{Name: name, Order: 1}},
					Unique: true,
					Sparse: sparse,
				})
			}
			if ttl, ok := entry["ttl"]; ok {
				seconds, err := strconv.Atoi(ttl)
				if err != nil {
					return fmt.Errorf("invalid ttl %q on %s: %w", ttl, name, err)
				}
				*specs = append(*specs, IndexSpec{
					Name:   name + "_ttl",
					Fields: []IndexField{{Name: name, Order: 1}},
					TTL:    int32(seconds),
				})
			}
			if group, ok := entry["compound"]; ok && group != "" {
				spec, exists := compound[group]
				if !exists {
					spec = &IndexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
					compound[group] = spec
				}
				spec.Fields = append(spec.Fields, IndexField{Name: name, Order: parseOrder(entry)})
				if sparse {
					spec.Sparse = true
				}
			}
		}
	}
	return nil
}

// UniqueKeySets returns the field sets of every unique index on model.
func UniqueKeySets(model interface{}) ([][]string, error) {
	specs, err := IndexSpecs(model)
	if err != nil {
		return nil, err
	}
	var sets [][]string
	for _, spec := range specs {
		if !spec.Unique {
			continue
		}
		keys := make([]string, 0, len(spec.Fields))
		for _, f := range spec.Fields {
			keys = append(keys, f.Name)
		}
		sets = append(sets, keys)
	}
	return sets, nil
}
