package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const (
	resetTokenBytes = 20
	resetTokenTTL   = time.Hour
)

// AuthService implements signup, signin and the password-reset exchange.
type AuthService struct {
	users       ports.UserRepository
	mail        ports.MailDispatcher
	jwtSecret   string
	tokenTTL    time.Duration
	frontendURL string
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(users ports.UserRepository, mail ports.MailDispatcher, jwtSecret, frontendURL string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		// Sessions ride an HTTP-only cookie with a one-year max age; the
		// token expiry matches the cookie.
		tokenTTL = 365 * 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		mail:        mail,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		frontendURL: frontendURL,
		log:         log,
		now:         time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*ports.AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Permissions:  []domain.Permission{domain.PermUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(created.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return &ports.AuthSession{User: created, Token: token}, nil
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (*ports.AuthSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthSession{User: user, Token: token}, nil
}

// RequestReset issues a single-use reset token and queues the reset email.
// The token is durable before mail is queued, so delivery failure never
// invalidates an issued token.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiry := s.now().UTC().Add(resetTokenTTL)

	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.mail.Enqueue(ports.MailJob{
		To:      user.Email,
		Subject: "Your Password Reset Token",
		HTML: fmt.Sprintf(`Your password reset token is here!<br/><br/><a href="%s/reset?resetToken=%s">Click here to reset</a>`,
			s.frontendURL, token),
	})

	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) (*ports.AuthSession, error) {
	if password == "" || password != confirm {
		return nil, domain.ErrPasswordMismatch
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	if user.ResetTokenExpiry == nil || s.now().After(*user.ResetTokenExpiry) {
		return nil, domain.ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Nulls the token as well: single use.
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}

	signed, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return &ports.AuthSession{User: user, Token: signed}, nil
}

func (s *AuthService) signToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
