// Package auth implements the two-step login flow: password check plus a
// one-time emailed code. Successful logins are handed an opaque token that
// maps back to the user for the lifetime of the session.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmoreira/storefront/internal/database"
	"github.com/dmoreira/storefront/internal/kv"
	"github.com/dmoreira/storefront/internal/mail"
	"github.com/dmoreira/storefront/internal/models"
	"github.com/dmoreira/storefront/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Service struct {
	DB       *sql.DB
	KV       kv.Store
	Mailer   mail.Sender
	CodeTTL  time.Duration
	TokenTTL time.Duration
}

// VerifyEmail checks the password and, when it matches, emails a one-time
// six-digit code. A wrong email and a wrong password are indistinguishable to
// the caller.
func (s *Service) VerifyEmail(ctx context.Context, email, password string) error {
	user, err := store.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if err := s.KV.SetTTL(ctx, kv.AuthCodeKey(user.Email), code, s.CodeTTL); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	if err := s.Mailer.SendLoginCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("mail code: %w", err)
	}

	return nil
}

// VerifyCode redeems the emailed code. Codes are single use: a successful
// redemption deletes the code and issues a session token.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (string, error) {
	user, err := store.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}

	stored, err := s.KV.Get(ctx, kv.AuthCodeKey(user.Email))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	if stored == "" || stored != code {
		return "", ErrInvalidCode
	}

	if err := s.KV.Del(ctx, kv.AuthCodeKey(user.Email)); err != nil {
		return "", fmt.Errorf("consume code: %w", err)
	}

	token := uuid.NewString()
	userID := strconv.FormatInt(user.ID, 10)
	if err := s.KV.SetTTL(ctx, kv.AuthTokenKey(token), userID, s.TokenTTL); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return token, nil
}

// Me resolves a session token back to its user.
func (s *Service) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	raw, err := s.KV.Get(ctx, kv.AuthTokenKey(token))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := store.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
