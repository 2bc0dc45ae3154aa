package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh document id. Both store backends use the same format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed document id.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
