package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/session"
	apperr "go-inventory-tracker/pkg/errors"
	"go-inventory-tracker/pkg/jwt"
	"go-inventory-tracker/pkg/logger"
	"go-inventory-tracker/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginLimiter throttles sign-in attempts per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type SessionResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	SignUp(ctx context.Context, in Credentials) (*SessionResponse, error)
	SignIn(ctx context.Context, in Credentials) (*SessionResponse, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
	Authenticate(ctx context.Context, token string) (session.Identity, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	limiter  LoginLimiter
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthService wires the built-in identity provider. limiter may be nil.
func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, limiter LoginLimiter, logg *logger.Logger) AuthService {
	if logg == nil {
		logg = logger.Nop()
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		limiter:  limiter,
		log:      logg,
		now:      time.Now,
	}
}

func (in *Credentials) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func (in *Credentials) validate() error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return apperr.New(apperr.CodeInvalidInput, validator.Message(errs))
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, in Credentials) (*SessionResponse, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceFailure(err, "checking email")
	}

	now := s.now().UTC()
	user := &model.User{Email: in.Email, TokenVersion: uuid.NewString(), LastSeenAt: &now}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "hashing password")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, persistenceFailure(err, "creating user")
	}

	s.log.Info(s.log.WithUserID(ctx, user.ID.String()), "user signed up")
	return s.issue(user)
}

// SignIn rotates the token version, so earlier sessions of the user stop working.
func (s *authService) SignIn(ctx context.Context, in Credentials) (*SessionResponse, error) {
	in.normalize()
	if in.Email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, in.Email)
		if err != nil {
			// Fail open.
			s.log.Error(ctx, "login limiter unavailable", err)
		} else if !allowed {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistenceFailure(err, "loading user")
	}
	if !user.CheckPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}

	user.TokenVersion = uuid.NewString()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion); err != nil {
		return nil, persistenceFailure(err, "starting session")
	}
	now := s.now().UTC()
	if err := s.userRepo.UpdateLastSeen(ctx, user.ID, now); err != nil {
		return nil, persistenceFailure(err, "starting session")
	}
	user.LastSeenAt = &now

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Email); err != nil {
			s.log.Warn(ctx, "resetting login limiter failed")
		}
	}

	return s.issue(user)
}

func (s *authService) SignOut(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateTokenVersion(ctx, userID, uuid.NewString()); err != nil {
		return lookupFailure(err, ErrSessionRevoked, "ending session")
	}
	return nil
}

// Authenticate resolves a bearer token into the request identity.
func (s *authService) Authenticate(ctx context.Context, token string) (session.Identity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return session.Identity{}, apperr.Wrap(apperr.CodeUnauthorized, err, err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return session.Identity{}, lookupFailure(err, ErrSessionRevoked, "loading user")
	}
	if user.TokenVersion != claims.TokenVersion {
		return session.Identity{}, ErrSessionRevoked
	}

	return session.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupFailure(err, ErrSessionRevoked, "loading user")
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ResetPassword sets a new password and revokes existing sessions.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	in := Credentials{Email: email, Password: newPassword}
	in.normalize()
	if err := in.validate(); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return lookupFailure(err, apperr.New(apperr.CodeNotFound, "user not found"), "loading user")
	}
	if err := user.SetPassword(in.Password); err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "hashing password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return persistenceFailure(err, "saving password")
	}
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.NewString()); err != nil {
		return persistenceFailure(err, "revoking sessions")
	}
	return nil
}

func (s *authService) issue(user *model.User) (*SessionResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "generating token")
	}
	return &SessionResponse{Token: token, User: user.ToResponse()}, nil
}
