package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Category is a movie genre label managed by administrators.
type Category struct {
	ID    bson.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title string        `json:"title" bson:"title" validate:"required,min=1,max=100"`
}
