package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill levels accepted on users and profiles.
const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillAdvanced     = "Advanced"
	SkillProfessional = "Professional"
)

// NotificationPreferences controls which notification channels a user wants.
type NotificationPreferences struct {
	Email    bool `json:"email" gorm:"default:true"`
	App      bool `json:"app" gorm:"default:true"`
	Matches  bool `json:"matches" gorm:"default:true"`
	Messages bool `json:"messages" gorm:"default:true"`
}

// User is an account (PostgreSQL). Users are never hard-deleted.
type User struct {
	ID            string                  `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string                  `json:"name" gorm:"size:100;not null"`
	Email         string                  `json:"email" gorm:"uniqueIndex;not null"`
	Password      string                  `json:"-"`
	FirebaseUID   *string                 `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	Phone         string                  `json:"phone"`
	Location      string                  `json:"location"`
	Bio           string                  `json:"bio"`
	Position      string                  `json:"position"`
	SkillLevel    string                  `json:"skill_level" gorm:"size:20"`
	Availability  []string                `json:"availability" gorm:"serializer:json"`
	Notifications NotificationPreferences `json:"notifications" gorm:"embedded;embeddedPrefix:notify_"`
	Image         string                  `json:"image"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserCompact is the public identity embedded in chats, notifications and profiles.
type UserCompact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UpdateUserRequest is the body of PUT /profile. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name          *string                  `json:"name" validate:"omitempty,min=2,max=50"`
	Phone         *string                  `json:"phone" validate:"omitempty,max=30"`
	Location      *string                  `json:"location" validate:"omitempty,max=200"`
	Bio           *string                  `json:"bio" validate:"omitempty,max=500"`
	Position      *string                  `json:"position" validate:"omitempty,max=50"`
	SkillLevel    *string                  `json:"skill_level" validate:"omitempty,oneof=Beginner Intermediate Advanced Professional"`
	Availability  []string                 `json:"availability"`
	Notifications *NotificationPreferences `json:"notifications"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
