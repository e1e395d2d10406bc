package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/auth"
	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
)

const minPasswordLength = 6

type TokenIssuer interface {
	Issue(userID string, role entity.Role) (string, error)
	Parse(token string) (*auth.Claims, error)
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *entity.User
	Token string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

type AdminUserUpdate struct {
	Name  *string
	Email *string
	Role  *entity.Role
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*AuthResult, error)
	List(ctx context.Context) ([]entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	AdminUpdate(ctx context.Context, id string, upd AdminUserUpdate) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo  repository.UserRepository
	tokens    TokenIssuer
	notifier  Notifier
	clientURL string
	resetTTL  time.Duration
	log       logger.Logger
	now       func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	notifier Notifier,
	clientURL string,
	resetTTL time.Duration,
	log logger.Logger,
) UserService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &userService{
		userRepo:  userRepo,
		tokens:    tokens,
		notifier:  notifier,
		clientURL: strings.TrimRight(clientURL, "/"),
		resetTTL:  resetTTL,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) issue(u *entity.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token for user %s: %w", u.ID, err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := entity.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return nil, invalid("Name, email and password are required")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		s.log.Errorf("Failed to create user %s: %v", email, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Infof("User %s registered with ID %s", email, created.ID)
	return s.issue(created)
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		s.log.Warnf("Failed login attempt for user %s", u.ID)
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	expires := s.now().Add(s.resetTTL)
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = &expires

	if err := s.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to store reset token for user %s: %w", u.ID, err)
	}

	s.notifier.PasswordReset(*u, s.clientURL+"/reset-password/"+token)
	s.log.Infof("Password reset requested for user %s", u.ID)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	u, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if !u.ResetTokenValid(token, s.now()) {
		return ErrInvalidResetToken
	}
	if len(password) < minPasswordLength {
		return invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil

	if err := s.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to reset password for user %s: %w", u.ID, err)
	}
	s.log.Infof("Password reset for user %s", u.ID)
	return nil
}

// Authenticate resolves a bearer token to the current user record.
func (s *userService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	u, err := s.userRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", claims.ID, err)
	}
	return u, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Get(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*AuthResult, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		u.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil && strings.TrimSpace(*upd.Email) != "" {
		u.Email = entity.NormalizeEmail(*upd.Email)
	}
	if upd.Password != nil && *upd.Password != "" {
		if len(*upd.Password) < minPasswordLength {
			return nil, invalid(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *userService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

func (s *userService) AdminUpdate(ctx context.Context, id string, upd AdminUserUpdate) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		u.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil && strings.TrimSpace(*upd.Email) != "" {
		u.Email = entity.NormalizeEmail(*upd.Email)
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, invalid("Role must be user or admin")
		}
		u.Role = *upd.Role
	}

	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.log.Infof("User %s updated by admin", u.ID)
	return u, nil
}

func (s *userService) save(ctx context.Context, u *entity.User) error {
	if err := s.userRepo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user %s: %w", u.ID, err)
	}
	return nil
}

// Delete removes the user only; their orders are left in place.
func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	s.log.Infof("User %s deleted", id)
	return nil
}
