package domain

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrMalformedID = errors.New("malformed identifier")

// ParseID turns the textual form of a document identifier (24 hex digits)
// into an ObjectID.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrMalformedID
	}
	return id, nil
}
