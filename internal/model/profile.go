package model

import (
	"encoding/json"
	"time"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	LookingForBoth = "both"

	MinAge = 18
	MaxAge = 100

	// SearchLimit caps the number of profiles a search returns.
	SearchLimit = 50
)

// Profile is the public-facing part of a user, 1:1 with User.
type Profile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	Location   string    `json:"location"`
	About      *string   `json:"about"`
	LookingFor string    `json:"lookingFor"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UpdateProfileRequest represents a profile update. About, LookingFor and
// IsActive keep their stored values when omitted; an explicit null about
// clears it.
type UpdateProfileRequest struct {
	Name       string         `json:"name" validate:"required,max=100"`
	Age        int            `json:"age" validate:"required,gte=18,lte=100"`
	Gender     string         `json:"gender" validate:"required,oneof=male female other"`
	Location   string         `json:"location" validate:"required,max=255"`
	About      OptionalString `json:"about"`
	LookingFor *string        `json:"lookingFor" validate:"omitempty,oneof=male female both"`
	IsActive   *bool          `json:"isActive"`
}

// OptionalString is a JSON string field that remembers whether its key was
// present at all, so an omitted key differs from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// SomeString returns a present, non-null OptionalString.
func SomeString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// ProfileResponse wraps an updated profile.
type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

// SearchFilter holds the optional, AND-combined search constraints.
// Nil/empty fields impose no constraint.
type SearchFilter struct {
	AgeMin        *int
	AgeMax        *int
	Gender        string
	Location      string
	ExcludeUserID string
}

// SearchResult is the projection of a profile returned by search.
type SearchResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	Location string  `json:"location"`
	About    *string `json:"about"`
	UserID   string  `json:"userId"`
}
