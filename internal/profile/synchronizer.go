// Package profile loads, initializes and saves an owner's profile and links.
package profile

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/domain"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/seed"
)

// Page is what the dashboard renders for one owner.
type Page struct {
	Profile domain.Profile
	Links   []domain.LinkView
}

// Synchronizer is the only writer of profile and link rows.
type Synchronizer struct {
	data   backend.Data
	seeds  *seed.Source
	log    logger.Logger
	flight singleflight.Group
}

func NewSynchronizer(data backend.Data, seeds *seed.Source, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		data:  data,
		seeds: seeds,
		log:   log,
	}
}

// Load returns the owner's profile and links, creating the defaults on
// first access. Concurrent loads for one owner share a single run.
//
// A links read failure degrades to an empty list; only profile errors are
// returned.
func (s *Synchronizer) Load(ctx context.Context, ownerID string) (Page, error) {
	v, err, _ := s.flight.Do(ownerID, func() (interface{}, error) {
		// Shared by every waiter, so one caller going away must not fail the rest.
		return s.load(context.WithoutCancel(ctx), ownerID)
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

func (s *Synchronizer) load(ctx context.Context, ownerID string) (Page, error) {
	tpl := s.seeds.Current()
	log := s.log.With(logger.String("owner_id", ownerID))

	p, err := s.data.GetProfile(ctx, ownerID)
	if errors.Is(err, backend.ErrNotFound) {
		p, err = s.data.CreateProfile(ctx, tpl.Profile(ownerID))
		if err == nil {
			log.Info("profile initialized")
		}
	}
	if err != nil {
		return Page{}, fmt.Errorf("load profile %s: %w", ownerID, err)
	}

	links, err := s.data.ListLinks(ctx, ownerID)
	if err != nil {
		log.Error("failed to load links", logger.Error(err))
		return Page{Profile: p, Links: []domain.LinkView{}}, nil
	}

	if len(links) == 0 {
		links, err = s.data.SeedLinks(ctx, ownerID, tpl.SeedLinks(ownerID))
		if err != nil {
			log.Error("failed to seed links", logger.Error(err))
			return Page{Profile: p, Links: []domain.LinkView{}}, nil
		}
		log.Info("links initialized", logger.Int("count", len(links)))
	}

	return Page{Profile: p, Links: tpl.Views(links)}, nil
}

// SaveProfile overwrites the owner's name, bio and avatar URL.
func (s *Synchronizer) SaveProfile(ctx context.Context, ownerID string, p domain.Profile) error {
	p.OwnerID = ownerID
	if err := s.data.UpdateProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile %s: %w", ownerID, err)
	}
	return nil
}

// SaveLinks replaces the owner's links with views, in order.
// Every row is stored, blank ones included, with positions renumbered from zero.
func (s *Synchronizer) SaveLinks(ctx context.Context, ownerID string, views []domain.LinkView) error {
	if err := s.data.ReplaceLinks(ctx, ownerID, domain.Persisted(ownerID, views)); err != nil {
		return fmt.Errorf("save links %s: %w", ownerID, err)
	}
	return nil
}

// Save runs SaveProfile and SaveLinks concurrently and returns once both
// have finished. A failure of one does not cancel the other.
func (s *Synchronizer) Save(ctx context.Context, ownerID string, d Draft) error {
	var g errgroup.Group
	g.Go(func() error { return s.SaveProfile(ctx, ownerID, d.Profile) })
	g.Go(func() error { return s.SaveLinks(ctx, ownerID, d.Links) })

	if err := g.Wait(); err != nil {
		s.log.Error("save failed", logger.String("owner_id", ownerID), logger.Error(err))
		return err
	}
	s.log.Info("profile saved", logger.String("owner_id", ownerID), logger.Int("links", len(d.Links)))
	return nil
}

// Decorate resolves icons for links edited in a form.
func (s *Synchronizer) Decorate(views []domain.LinkView) []domain.LinkView {
	tpl := s.seeds.Current()
	out := make([]domain.LinkView, len(views))
	for i, v := range views {
		v.Position = i
		v.Icon = tpl.Icon(v.Title)
		out[i] = v
	}
	return out
}
