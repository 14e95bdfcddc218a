package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/domain"
)

type profileRecord struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID        string `bun:"id,pk"`
	Name      string `bun:"name,notnull"`
	Bio       string `bun:"bio,notnull"`
	AvatarURL string `bun:"avatar_url,notnull"`
}

func newProfileRecord(p domain.Profile) *profileRecord {
	return &profileRecord{
		ID:        p.OwnerID,
		Name:      p.Name,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
	}
}

func (r *profileRecord) toDomain() domain.Profile {
	return domain.Profile{
		OwnerID:   r.ID,
		Name:      r.Name,
		Bio:       r.Bio,
		AvatarURL: r.AvatarURL,
	}
}

// linkRecord has no surrogate key; (user_id, position) is unique.
type linkRecord struct {
	bun.BaseModel `bun:"table:links,alias:l"`

	UserID   string `bun:"user_id,notnull"`
	Title    string `bun:"title,notnull"`
	URL      string `bun:"url,notnull"`
	Position int    `bun:"position,notnull"`
}

func newLinkRecords(ownerID string, links []domain.Link) []linkRecord {
	records := make([]linkRecord, len(links))
	for i, l := range links {
		records[i] = linkRecord{
			UserID:   ownerID,
			Title:    l.Title,
			URL:      l.URL,
			Position: i,
		}
	}
	return records
}

func linksToDomain(records []linkRecord) []domain.Link {
	links := make([]domain.Link, len(records))
	for i, r := range records {
		links[i] = domain.Link{
			OwnerID:  r.UserID,
			Title:    r.Title,
			URL:      r.URL,
			Position: r.Position,
		}
	}
	return links
}

type accountRecord struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID           string    `bun:"id,pk"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Confirmed    bool      `bun:"confirmed,notnull"`
	ConfirmToken string    `bun:"confirm_token,nullzero"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r *accountRecord) toDomain() backend.Account {
	return backend.Account{
		ID:        r.ID,
		Email:     r.Email,
		Confirmed: r.Confirmed,
		CreatedAt: r.CreatedAt,
	}
}
