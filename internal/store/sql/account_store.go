package sqlstore

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/sageverse/tree/internal/backend"
)

// AccountOptions tunes account creation.
type AccountOptions struct {
	// RequireConfirmation leaves new accounts unconfirmed until Confirm is called.
	RequireConfirmation bool
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// AccountStore implements backend.Auth with bcrypt password hashes.
type AccountStore struct {
	db   *bun.DB
	opts AccountOptions
}

var _ backend.Auth = (*AccountStore)(nil)

func NewAccountStore(db *bun.DB, opts AccountOptions) (*AccountStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AccountStore{db: db, opts: opts}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountStore) SignUp(ctx context.Context, email, password string) (backend.SignUpResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return backend.SignUpResult{}, backend.ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return backend.SignUpResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	record := &accountRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    !s.opts.RequireConfirmation,
		CreatedAt:    time.Now().UTC(),
	}
	if s.opts.RequireConfirmation {
		token, err := randomToken()
		if err != nil {
			return backend.SignUpResult{}, err
		}
		record.ConfirmToken = token
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*accountRecord)(nil)).
			Where("email = ?", email).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return backend.ErrEmailTaken
		}
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert account: %w", err)
		}
		return nil
	})
	if err != nil {
		return backend.SignUpResult{}, err
	}

	return backend.SignUpResult{
		Account:           record.toDomain(),
		ConfirmationToken: record.ConfirmToken,
	}, nil
}

func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (backend.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return backend.Account{}, backend.ErrMissingCredentials
	}

	record := new(accountRecord)
	err := s.db.NewSelect().Model(record).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return backend.Account{}, backend.ErrInvalidCredentials
		}
		return backend.Account{}, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return backend.Account{}, backend.ErrInvalidCredentials
	}
	if !record.Confirmed {
		return backend.Account{}, backend.ErrNotConfirmed
	}

	return record.toDomain(), nil
}

func (s *AccountStore) Confirm(ctx context.Context, token string) (backend.Account, error) {
	if token == "" {
		return backend.Account{}, backend.ErrInvalidToken
	}

	record := new(accountRecord)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(record).Where("confirm_token = ?", token).Limit(1).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return backend.ErrInvalidToken
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		record.Confirmed = true
		record.ConfirmToken = ""
		if _, err := tx.NewUpdate().
			Model(record).
			Column("confirmed", "confirm_token").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to confirm account: %w", err)
		}
		return nil
	})
	if err != nil {
		return backend.Account{}, err
	}
	return record.toDomain(), nil
}

func (s *AccountStore) Account(ctx context.Context, id string) (backend.Account, error) {
	record := new(accountRecord)
	err := s.db.NewSelect().Model(record).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return backend.Account{}, backend.ErrNotFound
		}
		return backend.Account{}, fmt.Errorf("failed to load account: %w", err)
	}
	return record.toDomain(), nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
