package models

import (
	"time"
)

// Identity is a verified assertion from the auth provider. It is never
// built from client input; handlers derive it from the authenticated
// request record.
type Identity struct {
	Subject   string `json:"subject"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type User struct {
	ID                     string            `json:"id"`
	SubjectID              string            `json:"subject_id"`
	Name                   string            `json:"name"`
	Email                  string            `json:"email"`
	AvatarURL              string            `json:"avatar_url"`
	HasCompletedOnboarding bool              `json:"has_completed_onboarding"`
	FreeEventsCreated      int               `json:"free_events_created"`
	Location               *UserLocation     `json:"location,omitempty"`
	Interests              []string          `json:"interests,omitempty"`
	OrganizerProfile       *OrganizerProfile `json:"organizer_profile,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

type UserLocation struct {
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

type OrganizerProfile struct {
	Bio         string      `json:"bio,omitempty"`
	Website     string      `json:"website,omitempty"`
	SocialLinks SocialLinks `json:"social_links,omitempty"`
}

type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// OnboardingRequest carries the attendee preferences collected after the
// first sign-in.
type OnboardingRequest struct {
	Location  UserLocation `json:"location"`
	Interests []string     `json:"interests"`
}
