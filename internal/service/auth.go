package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/auth"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login for players and staff.
type AuthService struct {
	db      repository.DBTX
	tx      repository.Transactor
	users   repository.UserRepository
	wallets repository.WalletRepository
	outbox  repository.OutboxRepository
	jwtMgr  *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	db repository.DBTX,
	tx repository.Transactor,
	users repository.UserRepository,
	wallets repository.WalletRepository,
	outbox repository.OutboxRepository,
	jwtMgr *auth.JWTManager,
) *AuthService {
	return &AuthService{
		db:      db,
		tx:      tx,
		users:   users,
		wallets: wallets,
		outbox:  outbox,
		jwtMgr:  jwtMgr,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates a user account and its empty wallet in one transaction.
// Every account starts as a player; roles are only ever granted by an admin.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(input.Password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}

	if existing, err := s.users.FindByUsername(ctx, s.db, input.Username); err != nil {
		return nil, domain.ErrInternal("find user", err)
	} else if existing != nil {
		return nil, domain.ErrConflict("username already taken")
	}
	if existing, err := s.users.FindByEmail(ctx, s.db, input.Email); err != nil {
		return nil, domain.ErrInternal("find user", err)
	} else if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RolePlayer,
	}

	err = s.tx.WithinTx(ctx, func(db repository.DBTX) error {
		if err := s.users.Create(ctx, db, user); err != nil {
			return domain.ErrInternal("create user", err)
		}
		if err := s.wallets.Create(ctx, db, user.ID); err != nil {
			return domain.ErrInternal("create wallet", err)
		}
		return s.outbox.Insert(ctx, db, domain.NewUserCreatedEvent(user.ID, user.Username, user.Email))
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwtMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// LoginInput holds the login request fields. Identifier accepts username or
// email.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	IP         string `json:"-"`
}

// Login authenticates an account and returns a JWT. Repeated failures lock
// the account out for a window.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := guard.CheckLocked(ctx, s.db, input.Identifier); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, s.db, input.Identifier)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		user, err = s.users.FindByEmail(ctx, s.db, input.Identifier)
		if err != nil {
			return nil, domain.ErrInternal("find user", err)
		}
	}
	if user == nil {
		guard.RecordAttempt(ctx, s.db, input.Identifier, input.IP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		guard.RecordAttempt(ctx, s.db, input.Identifier, input.IP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	guard.RecordAttempt(ctx, s.db, input.Identifier, input.IP, true)

	token, err := s.jwtMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
