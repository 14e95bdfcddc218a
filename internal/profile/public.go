package profile

import (
	"context"
	"fmt"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/domain"
)

// PublicPage is the read-only view of someone's profile.
type PublicPage struct {
	Profile domain.Profile
	Links   []domain.Link
}

// PublicFetcher reads profiles for anonymous visitors. It never writes.
type PublicFetcher struct {
	data backend.Data
}

func NewPublicFetcher(data backend.Data) *PublicFetcher {
	return &PublicFetcher{data: data}
}

// Fetch returns backend.ErrNotFound (wrapped) when ownerID has no profile.
func (f *PublicFetcher) Fetch(ctx context.Context, ownerID string) (PublicPage, error) {
	p, err := f.data.GetProfile(ctx, ownerID)
	if err != nil {
		return PublicPage{}, fmt.Errorf("fetch profile %s: %w", ownerID, err)
	}

	links, err := f.data.ListLinks(ctx, ownerID)
	if err != nil {
		return PublicPage{}, fmt.Errorf("fetch links %s: %w", ownerID, err)
	}
	return PublicPage{Profile: p, Links: links}, nil
}
