package utility

import "go.mongodb.org/mongo-driver/bson/primitive"

// Contains reports whether item is in slice.
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// Unique keeps the first occurrence of every element, preserving order.
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Without returns slice minus every element of remove.
func Without[T comparable](slice []T, remove []T) []T {
	drop := make(map[T]struct{}, len(remove))
	for _, v := range remove {
		drop[v] = struct{}{}
	}
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := drop[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// IDSet is a set of ObjectIDs.
type IDSet map[primitive.ObjectID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...primitive.ObjectID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s IDSet) Add(id primitive.ObjectID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports membership.
func (s IDSet) Has(id primitive.ObjectID) bool {
	_, ok := s[id]
	return ok
}
