package models

import "time"

type Account struct {
	UserID    string    `bson:"userid" json:"userid"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	ImageURL  string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Favorites []string  `bson:"favorites" json:"favorites"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Credential holds the login identity for an account. Kept separate from the
// profile document so the directory can stay lazy about profile creation.
type Credential struct {
	UserID       string    `bson:"userid" json:"userid"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Author is the read-time projection attached to recipes and comments.
// Never persisted alongside them.
type Author struct {
	UserID string `json:"userid"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
