package services

import (
	"context"
	"errors"
	"fmt"

	"event-system/internal/status"
	"event-system/models"
)

// UserService resolves authenticated callers to local user records. The
// identity assertion comes from the auth provider boundary; it is an
// idempotent upsert keyed by the provider subject, never a session object.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// ResolveOrCreate returns the local record for the asserted identity,
// creating it with defaults on first sight and patching only the cached
// profile fields that drifted since last contact.
func (s *UserService) ResolveOrCreate(ctx context.Context, identity *models.Identity) (*models.User, error) {
	if identity == nil || identity.Subject == "" {
		return nil, status.ErrUnauthenticated
	}

	user, err := s.users.FindUserBySubject(ctx, identity.Subject)
	if err != nil {
		if !errors.Is(err, status.ErrNotFound) {
			return nil, err
		}
		return s.createFromIdentity(ctx, identity)
	}

	updates := map[string]any{}
	name := identity.Name
	if name == "" {
		name = "Anonymous"
	}
	if user.Name != name {
		updates["name"] = name
	}
	if user.Email != identity.Email {
		updates["email"] = identity.Email
	}
	if user.AvatarURL != identity.AvatarURL {
		updates["avatar_url"] = identity.AvatarURL
	}

	if len(updates) > 0 {
		if err := s.users.PatchUser(ctx, user.ID, updates); err != nil {
			return nil, fmt.Errorf("sync profile: %w", err)
		}
		return s.users.FindUserByID(ctx, user.ID)
	}
	return user, nil
}

func (s *UserService) createFromIdentity(ctx context.Context, identity *models.Identity) (*models.User, error) {
	user := &models.User{
		SubjectID:              identity.Subject,
		Name:                   identity.Name,
		Email:                  identity.Email,
		AvatarURL:              identity.AvatarURL,
		HasCompletedOnboarding: false,
		FreeEventsCreated:      0,
	}
	if user.Name == "" {
		user.Name = "Anonymous"
	}

	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return user, nil
}

// CurrentUser returns nil (not an error) when the subject is unknown, so
// the frontend can render the signed-out state.
func (s *UserService) CurrentUser(ctx context.Context, subject string) (*models.User, error) {
	if subject == "" {
		return nil, status.ErrUnauthenticated
	}
	user, err := s.users.FindUserBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CompleteOnboarding stores the attendee preferences collected after the
// first sign-in and marks onboarding done.
func (s *UserService) CompleteOnboarding(ctx context.Context, subject string, req *models.OnboardingRequest) (*models.User, error) {
	user, err := s.requireUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"location":                 req.Location,
		"interests":                req.Interests,
		"has_completed_onboarding": true,
	}
	if err := s.users.PatchUser(ctx, user.ID, updates); err != nil {
		return nil, fmt.Errorf("complete onboarding: %w", err)
	}
	return s.users.FindUserByID(ctx, user.ID)
}

func (s *UserService) UpdateOrganizerProfile(ctx context.Context, subject string, profile *models.OrganizerProfile) (*models.User, error) {
	user, err := s.requireUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	if err := s.users.PatchUser(ctx, user.ID, map[string]any{"organizer_profile": profile}); err != nil {
		return nil, fmt.Errorf("update organizer profile: %w", err)
	}
	return s.users.FindUserByID(ctx, user.ID)
}

func (s *UserService) requireUser(ctx context.Context, subject string) (*models.User, error) {
	if subject == "" {
		return nil, status.ErrUnauthenticated
	}
	return s.users.FindUserBySubject(ctx, subject)
}
