package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PastEvent is a gallery entry shown on the public site, up to three
// uploaded per admin submission.
type PastEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Date      string             `bson:"date" json:"date"`
	PosterURL string             `bson:"posterURL" json:"poster_url"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
}
