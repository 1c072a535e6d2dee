package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Movie is the catalog document. Rate and NumberOfReviews are derived from
// the embedded Reviews slice and recomputed in full on every change.
// Version guards whole-document saves against concurrent writers.
type Movie struct {
	ID              bson.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name            string        `json:"name" bson:"name" validate:"required,min=1,max=400"`
	Desc            string        `json:"desc" bson:"desc"`
	Image           string        `json:"image" bson:"image"`
	TitleImage      string        `json:"title_image" bson:"title_image"`
	Category        string        `json:"category" bson:"category"`
	Time            int           `json:"time" bson:"time"`
	Language        string        `json:"language" bson:"language"`
	Year            int           `json:"year" bson:"year"`
	Video           string        `json:"video" bson:"video"`
	Casts           []Cast        `json:"casts" bson:"casts"`
	Rate            float64       `json:"rate" bson:"rate"`
	NumberOfReviews int           `json:"number_of_reviews" bson:"number_of_reviews"`
	Reviews         []Review      `json:"reviews" bson:"reviews"`
	UserID          bson.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Version         int64         `json:"-" bson:"version"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// Cast is an actor credit embedded in a movie.
type Cast struct {
	Name  string `json:"name" bson:"name"`
	Image string `json:"image" bson:"image"`
}

// Review is an immutable per-user rating embedded in a movie. UserName and
// UserImage are snapshots taken at submission time; later profile edits do
// not rewrite history. Rating range is deliberately not validated here.
type Review struct {
	UserID    bson.ObjectID `json:"user_id" bson:"user_id"`
	UserName  string        `json:"user_name" bson:"user_name"`
	UserImage string        `json:"user_image,omitempty" bson:"user_image,omitempty"`
	Rating    float64       `json:"rating" bson:"rating"`
	Comment   string        `json:"comment" bson:"comment"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

// AddReview appends a review by user and recomputes the aggregate rating and
// review count from the full review set. At most one review per user is
// allowed; a second attempt returns ErrConflict and leaves the movie
// untouched.
func (m *Movie) AddReview(user *User, rating float64, comment string) error {
	for _, r := range m.Reviews {
		if r.UserID == user.ID {
			return ErrConflict
		}
	}

	m.Reviews = append(m.Reviews, Review{
		UserID:    user.ID,
		UserName:  user.FullName,
		UserImage: user.Image,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})

	// Recompute from scratch rather than adjusting a running average, so the
	// stored rate is always exactly the mean of what is in the document.
	var sum float64
	for _, r := range m.Reviews {
		sum += r.Rating
	}
	m.NumberOfReviews = len(m.Reviews)
	m.Rate = sum / float64(len(m.Reviews))
	return nil
}
