package utility

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID converts a hex string to an ObjectID, NilObjectID when malformed.
func String2ObjectID(id string) primitive.ObjectID {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectId
}

// ParseObjectID converts a hex string to an ObjectID and reports whether it was valid.
func ParseObjectID(id string) (primitive.ObjectID, bool) {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil || objectId.IsZero() {
		return primitive.NilObjectID, false
	}
	return objectId, true
}

// StringArray2ObjectIDArray converts hex strings, dropping malformed ones.
func StringArray2ObjectIDArray(ids []string) []primitive.ObjectID {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := ParseObjectID(id); ok {
			objectIDs = append(objectIDs, oid)
		}
	}
	return objectIDs
}

// ObjectIDArray2StringArray converts ObjectIDs to hex strings.
func ObjectIDArray2StringArray(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
