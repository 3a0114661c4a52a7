package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

// UserService handles profile management and admin user operations.
type UserService struct {
	db     repository.DBTX
	tx     repository.Transactor
	users  repository.UserRepository
	outbox repository.OutboxRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(db repository.DBTX, tx repository.Transactor, users repository.UserRepository, outbox repository.OutboxRepository, logger *slog.Logger) *UserService {
	return &UserService{db: db, tx: tx, users: users, outbox: outbox, logger: logger}
}

// Get returns one user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", id.String())
	}
	return user, nil
}

// UpdateProfileInput holds the player-editable profile fields.
type UpdateProfileInput struct {
	DisplayName string  `json:"display_name"`
	WhatsApp    string  `json:"whatsapp"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// UpdateProfile updates the caller's own profile. Display name is sanitized
// and the contact number must be a plausible phone number, since both gate
// paid tournament entry.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	displayName := domain.SanitizeText(input.DisplayName)
	if displayName == "" {
		return nil, domain.ErrValidation("display name is required")
	}
	whatsapp := strings.TrimSpace(input.WhatsApp)
	if err := domain.ValidatePhone(whatsapp); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	if err := s.users.UpdateProfile(ctx, s.db, userID, displayName, whatsapp, input.AvatarURL); err != nil {
		return nil, domain.ErrInternal("update profile", err)
	}
	return s.Get(ctx, userID)
}

// ChangeRole sets a user's role. Admins cannot change their own role:
// demoting the last admin would lock the platform out of its review queue.
func (s *UserService) ChangeRole(ctx context.Context, adminID, userID uuid.UUID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrValidation("unknown role: " + role)
	}
	if adminID == userID {
		return nil, domain.ErrValidation("cannot change your own role")
	}

	err := s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		if err := s.users.UpdateRole(ctx, db, userID, domain.Role(role)); err != nil {
			return err
		}
		return s.outbox.Insert(ctx, db, domain.NewRoleChangedEvent(userID, adminID, domain.Role(role)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "user_id", userID, "role", role, "changed_by", adminID)
	return s.Get(ctx, userID)
}

// Search returns users matching the query by username or email.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	users, err := s.users.Search(ctx, s.db, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, domain.ErrInternal("search users", err)
	}
	return users, nil
}
