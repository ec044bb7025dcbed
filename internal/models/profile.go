package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the player-facing details of a user (MongoDB). One per user.
type Profile struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        string             `json:"user_id" bson:"user_id"`
	Location      string             `json:"location" bson:"location"`
	Bio           string             `json:"bio" bson:"bio"`
	Position      string             `json:"position" bson:"position"`
	SkillLevel    string             `json:"skill_level" bson:"skill_level"`
	Availability  []string           `json:"availability" bson:"availability"`
	ProfileImage  string             `json:"profile_image" bson:"profile_image"`
	Notifications bool               `json:"notifications" bson:"notifications"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProfilePatch is the body of PATCH /profile. Nil fields are left untouched.
type ProfilePatch struct {
	Location      *string  `json:"location" validate:"omitempty,max=200"`
	Bio           *string  `json:"bio" validate:"omitempty,max=500"`
	Position      *string  `json:"position" validate:"omitempty,max=50"`
	SkillLevel    *string  `json:"skill_level" validate:"omitempty,oneof=Beginner Intermediate Advanced Professional"`
	Availability  []string `json:"availability"`
	ProfileImage  *string  `json:"profile_image" validate:"omitempty,max=2048"`
	Notifications *bool    `json:"notifications"`
}

// ProfileFilter narrows GET /profiles. Empty fields match everything.
type ProfileFilter struct {
	ExcludeUserID string
	Position      string
	SkillLevel    string
}

// ProfileWithUser is a profile joined with its owner's compact identity.
type ProfileWithUser struct {
	Profile
	User *UserCompact `json:"user,omitempty"`
}
