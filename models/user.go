package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialized into responses.
type User struct {
	ID          bson.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	FullName    string          `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Email       string          `json:"email" bson:"email" validate:"required,email"`
	Password    string          `json:"-" bson:"password"`
	Image       string          `json:"image,omitempty" bson:"image,omitempty"`
	IsAdmin     bool            `json:"is_admin" bson:"is_admin"`
	LikedMovies []bson.ObjectID `json:"liked_movies" bson:"liked_movies"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// LikeMovie appends movieID to the liked list, refusing duplicates.
func (u *User) LikeMovie(movieID bson.ObjectID) error {
	for _, id := range u.LikedMovies {
		if id == movieID {
			return ErrConflict
		}
	}
	u.LikedMovies = append(u.LikedMovies, movieID)
	return nil
}
