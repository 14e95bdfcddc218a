package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/domain"
)

// ProfileStore implements backend.Data on top of bun.
type ProfileStore struct {
	db *bun.DB
}

var _ backend.Data = (*ProfileStore)(nil)

func NewProfileStore(db *bun.DB) (*ProfileStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &ProfileStore{db: db}, nil
}

func (s *ProfileStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ProfileStore) GetProfile(ctx context.Context, ownerID string) (domain.Profile, error) {
	return getProfile(ctx, s.db, ownerID)
}

func getProfile(ctx context.Context, db bun.IDB, ownerID string) (domain.Profile, error) {
	record := new(profileRecord)
	err := db.NewSelect().
		Model(record).
		Where("id = ?", ownerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, backend.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return record.toDomain(), nil
}

func (s *ProfileStore) CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	if p.OwnerID == "" {
		return domain.Profile{}, fmt.Errorf("sqlstore: owner id is required")
	}

	var out domain.Profile
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(newProfileRecord(p)).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert profile: %w", err)
		}
		stored, err := getProfile(ctx, tx, p.OwnerID)
		if err != nil {
			return err
		}
		out = stored
		return nil
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return out, nil
}

func (s *ProfileStore) UpdateProfile(ctx context.Context, p domain.Profile) error {
	res, err := s.db.NewUpdate().
		Model(newProfileRecord(p)).
		Column("name", "bio", "avatar_url").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func (s *ProfileStore) ListLinks(ctx context.Context, ownerID string) ([]domain.Link, error) {
	return listLinks(ctx, s.db, ownerID)
}

func listLinks(ctx context.Context, db bun.IDB, ownerID string) ([]domain.Link, error) {
	var records []linkRecord
	err := db.NewSelect().
		Model(&records).
		Where("user_id = ?", ownerID).
		OrderExpr("? ASC", bun.Ident("position")).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return linksToDomain(records), nil
}

func (s *ProfileStore) SeedLinks(ctx context.Context, ownerID string, links []domain.Link) ([]domain.Link, error) {
	var out []domain.Link
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*linkRecord)(nil)).
			Where("user_id = ?", ownerID).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count links: %w", err)
		}
		if count == 0 && len(links) > 0 {
			records := newLinkRecords(ownerID, links)
			if _, err := tx.NewInsert().Model(&records).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert links: %w", err)
			}
		}
		out, err = listLinks(ctx, tx, ownerID)
		return err
	})
	if err != nil {
		// Another writer may have seeded between our count and insert.
		if existing, listErr := s.ListLinks(ctx, ownerID); listErr == nil && len(existing) > 0 {
			return existing, nil
		}
		return nil, err
	}
	return out, nil
}

func (s *ProfileStore) ReplaceLinks(ctx context.Context, ownerID string, links []domain.Link) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*linkRecord)(nil)).
			Where("user_id = ?", ownerID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete links: %w", err)
		}
		if len(links) == 0 {
			return nil
		}
		records := newLinkRecords(ownerID, links)
		if _, err := tx.NewInsert().Model(&records).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert links: %w", err)
		}
		return nil
	})
}
