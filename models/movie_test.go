package models

import (
	"errors"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func newTestUser(name string) *User {
	return &User{
		ID:       bson.NewObjectID(),
		FullName: name,
		Email:    name + "@example.com",
		Image:    "https://img.example.com/" + name + ".png",
	}
}

func TestAddReviewRecomputesAggregate(t *testing.T) {
	movie := &Movie{Name: "Heat"}
	userA := newTestUser("alice")
	userB := newTestUser("bob")

	if err := movie.AddReview(userA, 4, "great"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if movie.Rate != 4 || movie.NumberOfReviews != 1 {
		t.Fatalf("after first review got rate=%v count=%d, want 4/1", movie.Rate, movie.NumberOfReviews)
	}

	if err := movie.AddReview(userB, 2, "meh"); err != nil {
		t.Fatalf("second review: %v", err)
	}
	if movie.Rate != 3 || movie.NumberOfReviews != 2 {
		t.Fatalf("after second review got rate=%v count=%d, want 3/2", movie.Rate, movie.NumberOfReviews)
	}
}

func TestAddReviewRejectsDuplicateReviewer(t *testing.T) {
	movie := &Movie{Name: "Heat"}
	userA := newTestUser("alice")
	userB := newTestUser("bob")

	if err := movie.AddReview(userA, 4, "great"); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if err := movie.AddReview(userB, 2, "meh"); err != nil {
		t.Fatalf("second review: %v", err)
	}

	err := movie.AddReview(userA, 5, "changed my mind")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if movie.Rate != 3 || movie.NumberOfReviews != 2 || len(movie.Reviews) != 2 {
		t.Fatalf("movie mutated by rejected review: rate=%v count=%d reviews=%d",
			movie.Rate, movie.NumberOfReviews, len(movie.Reviews))
	}
}

func TestAddReviewRateIsExactMean(t *testing.T) {
	movie := &Movie{Name: "Heat"}
	ratings := []float64{5, 3, 4, 1, 2, 5, 4}

	for i, r := range ratings {
		user := newTestUser(string(rune('a' + i)))
		if err := movie.AddReview(user, r, "c"); err != nil {
			t.Fatalf("review %d: %v", i, err)
		}

		var sum float64
		for _, rv := range movie.Reviews {
			sum += rv.Rating
		}
		want := sum / float64(len(movie.Reviews))
		if movie.Rate != want {
			t.Fatalf("after %d reviews rate=%v, want exact mean %v", i+1, movie.Rate, want)
		}
	}
	if movie.NumberOfReviews != len(ratings) {
		t.Fatalf("count=%d, want %d", movie.NumberOfReviews, len(ratings))
	}
}

func TestAddReviewSnapshotsReviewerIdentity(t *testing.T) {
	movie := &Movie{Name: "Heat"}
	user := newTestUser("alice")

	if err := movie.AddReview(user, 4, "great"); err != nil {
		t.Fatalf("review: %v", err)
	}

	// Later profile edits must not rewrite past reviews.
	user.FullName = "Alice Renamed"
	user.Image = "https://img.example.com/new.png"

	review := movie.Reviews[0]
	if review.UserName != "alice" {
		t.Fatalf("snapshot name changed: %q", review.UserName)
	}
	if review.UserImage != "https://img.example.com/alice.png" {
		t.Fatalf("snapshot image changed: %q", review.UserImage)
	}
	if review.UserID != user.ID {
		t.Fatalf("reviewer reference mismatch")
	}
}

func TestAddReviewPreservesInsertionOrder(t *testing.T) {
	movie := &Movie{Name: "Heat"}
	var ids []bson.ObjectID
	for i := 0; i < 5; i++ {
		user := newTestUser(string(rune('a' + i)))
		ids = append(ids, user.ID)
		if err := movie.AddReview(user, float64(i+1), "c"); err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
	}
	for i, r := range movie.Reviews {
		if r.UserID != ids[i] {
			t.Fatalf("review %d out of order", i)
		}
	}
}

func TestAddReviewDoesNotValidateRatingRange(t *testing.T) {
	// Out-of-range ratings are accepted and folded into the mean unchanged.
	movie := &Movie{Name: "Heat"}

	if err := movie.AddReview(newTestUser("a"), -5, "awful"); err != nil {
		t.Fatalf("negative rating rejected: %v", err)
	}
	if err := movie.AddReview(newTestUser("b"), 999, "bot"); err != nil {
		t.Fatalf("huge rating rejected: %v", err)
	}
	if want := (float64(-5) + 999) / 2; movie.Rate != want || math.IsNaN(movie.Rate) {
		t.Fatalf("rate=%v, want %v", movie.Rate, want)
	}
}

func TestLikeMovieRejectsDuplicate(t *testing.T) {
	user := newTestUser("alice")
	movieID := bson.NewObjectID()

	if err := user.LikeMovie(movieID); err != nil {
		t.Fatalf("first like: %v", err)
	}
	if err := user.LikeMovie(movieID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(user.LikedMovies) != 1 {
		t.Fatalf("liked list mutated by rejected like: %d entries", len(user.LikedMovies))
	}
}
