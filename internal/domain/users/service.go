package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"paywall-app/internal/domain/subscriptions"
	"paywall-app/internal/shared/logger"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Service struct {
	users      Repository
	profiles   ProfileRepository
	subs       subscriptions.Writer
	log        logger.Interface
	bcryptCost int
}

func NewService(users Repository, profiles ProfileRepository, subs subscriptions.Writer, log logger.Interface) *Service {
	return &Service{
		users:      users,
		profiles:   profiles,
		subs:       subs,
		log:        log.Named("users"),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost is used by tests to keep hashing fast.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// SignUp creates the account, then best-effort creates the profile and the
// default free subscription. Only the account itself is mandatory.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*User, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if !isPasswordStrong(password) {
		return nil, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	hash := string(hashed)

	user := &User{
		Email:        email,
		PasswordHash: &hash,
		AuthProvider: ProviderLocal,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.provision(ctx, user, name)
	return user, nil
}

func (s *Service) provision(ctx context.Context, user *User, name string) {
	if err := s.profiles.CreateProfile(ctx, &Profile{ID: user.ID, FullName: name}); err != nil {
		s.log.Errorw("failed to create user profile", "user_id", user.ID, "error", err)
	}
	if err := s.subs.Create(ctx, subscriptions.NewFree(user.ID)); err != nil {
		s.log.Errorw("failed to create subscription", "user_id", user.ID, "error", err)
	}
}

// Authenticate checks an email/password pair. Unknown emails, accounts
// without a password and wrong passwords all return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == nil || *user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

type GoogleProfile struct {
	Sub   string
	Email string
	Name  string
}

// FindOrCreateGoogle matches by Google subject, then by email (linking the
// subject), and otherwise creates a new account.
func (s *Service) FindOrCreateGoogle(ctx context.Context, gp GoogleProfile) (*User, error) {
	if gp.Sub == "" || gp.Email == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByGoogleSub(ctx, gp.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	email := normalizeEmail(gp.Email)
	user, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleSub == nil {
			sub := gp.Sub
			user.GoogleSub = &sub
			if err := s.users.Save(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	sub := gp.Sub
	user = &User{
		Email:        email,
		AuthProvider: ProviderGoogle,
		GoogleSub:    &sub,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.provision(ctx, user, gp.Name)
	return user, nil
}
