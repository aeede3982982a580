package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin is a dashboard user. Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
}
