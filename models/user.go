package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	FirstName       string             `json:"first_name" bson:"firstName"`
	LastName        string             `json:"last_name" bson:"lastName"`
	Email           string             `json:"email" bson:"email"`
	Password        string             `json:"-" bson:"password"`
	Verified        bool               `json:"verified" bson:"verified"`
	ProfilePhotoURL string             `json:"profile_photo_url,omitempty" bson:"profilePhotoURL,omitempty"`
	ProfilePhotoID  string             `json:"-" bson:"profilePhotoID,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"createdAt"`
}

// OTP holds a pending email verification code. Codes are 6 digits and
// expire 10 minutes after issue.
type OTP struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Email        string             `json:"email" bson:"email"`
	Code         string             `json:"-" bson:"code"`
	ExpiresAt    time.Time          `json:"expires_at" bson:"expiresAt"`
	Registration bool               `json:"registration" bson:"registration"`
}

// Expired reports whether the code is past its expiry at the given time
func (o OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
