package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageverse/tree/internal/backend"
	"github.com/sageverse/tree/internal/domain"
	"github.com/sageverse/tree/internal/logger"
	"github.com/sageverse/tree/internal/seed"
)

func newTestSynchronizer(data backend.Data) *Synchronizer {
	return NewSynchronizer(data, seed.NewSource(nil), logger.Nop())
}

func TestLoadInitializesDefaults(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)

	page, err := s.Load(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTemplate().Profile("owner-1"), page.Profile)

	wantTitles := []string{"Twitter", "Discord", "Portfolio", "Extra Link 1", "Extra Link 2"}
	wantIcons := []string{"🐦", "💬", "🌐", "🔗", "🔗"}
	require.Len(t, page.Links, 5)
	for i, l := range page.Links {
		assert.Equal(t, i, l.Position)
		assert.Equal(t, wantTitles[i], l.Title)
		assert.Equal(t, wantIcons[i], l.Icon)
	}

	profiles, links := data.counts("owner-1")
	assert.Equal(t, 1, profiles)
	assert.Equal(t, 5, links)
}

func TestLoadIsIdempotent(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)
	ctx := context.Background()

	first, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)
	writes := data.writes

	second, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, writes, data.writes, "second load must not write")
}

func TestLoadKeepsExistingRows(t *testing.T) {
	data := newFakeData()
	data.profiles["owner-1"] = domain.Profile{OwnerID: "owner-1", Name: "Ada"}
	data.links["owner-1"] = []domain.Link{
		{OwnerID: "owner-1", Title: "My Blog", URL: "https://blog", Position: 1},
		{OwnerID: "owner-1", Title: "Discord", URL: "https://discord", Position: 0},
	}
	s := newTestSynchronizer(data)

	page, err := s.Load(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", page.Profile.Name)
	require.Len(t, page.Links, 2)
	assert.Equal(t, domain.LinkView{Title: "Discord", URL: "https://discord", Position: 0, Icon: "💬"}, page.Links[0])
	assert.Equal(t, domain.LinkView{Title: "My Blog", URL: "https://blog", Position: 1, Icon: domain.FallbackIcon}, page.Links[1])
	assert.Zero(t, data.createCalls)
	assert.Zero(t, data.seedCalls)
}

func TestLoadLinksErrorDegradesToEmpty(t *testing.T) {
	data := newFakeData()
	data.listErr = errors.New("connection reset")
	s := newTestSynchronizer(data)

	page, err := s.Load(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, "Sageverse Tree", page.Profile.Name)
	assert.NotNil(t, page.Links)
	assert.Empty(t, page.Links)
	assert.Zero(t, data.seedCalls)
}

func TestLoadProfileErrorIsReturned(t *testing.T) {
	data := newFakeData()
	data.getErr = errors.New("connection refused")
	s := newTestSynchronizer(data)

	_, err := s.Load(context.Background(), "owner-1")
	assert.ErrorIs(t, err, data.getErr)
	assert.Zero(t, data.createCalls)
}

func TestConcurrentLoadsCreateOnce(t *testing.T) {
	data := newFakeData()
	data.getDelay = 20 * time.Millisecond
	s := newTestSynchronizer(data)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Load(context.Background(), "owner-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	profiles, links := data.counts("owner-1")
	assert.Equal(t, 1, profiles)
	assert.Equal(t, 5, links)
	assert.Less(t, data.getCalls, 8, "loads should be coalesced")
}

func TestLoadSurvivesCallerCancel(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)
}

func TestSaveLinksThenLoadPreservesOrder(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)
	ctx := context.Background()

	_, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	edited := []domain.LinkView{
		{Title: "C", URL: "https://c", Position: 9},
		{Title: "", URL: ""},
		{Title: "A", URL: "https://a", Position: 4},
		{Title: "B", URL: "https://b", Position: 0},
	}
	require.NoError(t, s.SaveLinks(ctx, "owner-1", edited))

	page, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	require.Len(t, page.Links, len(edited))
	for i, want := range []string{"C", "", "A", "B"} {
		assert.Equal(t, want, page.Links[i].Title)
		assert.Equal(t, i, page.Links[i].Position)
	}
}

func TestSaveBlankLinkIsKept(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)
	ctx := context.Background()

	_, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	require.NoError(t, s.SaveLinks(ctx, "owner-1", []domain.LinkView{{}}))

	page, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, page.Links, 1)
	assert.Equal(t, domain.LinkView{Position: 0, Icon: domain.FallbackIcon}, page.Links[0])
}

func TestSaveProfileIsIdempotent(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)
	ctx := context.Background()

	_, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	p := domain.Profile{Name: "Ada", Bio: "math", AvatarURL: "https://a/img.png"}
	require.NoError(t, s.SaveProfile(ctx, "owner-1", p))
	once := data.profiles["owner-1"]
	require.NoError(t, s.SaveProfile(ctx, "owner-1", p))

	assert.Equal(t, once, data.profiles["owner-1"])
	assert.Equal(t, "owner-1", once.OwnerID)
	assert.Equal(t, "Ada", once.Name)
}

func TestSaveWaitsForBothWrites(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)
	ctx := context.Background()

	page, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	d := DraftFrom(page)
	d.Profile.Name = "Ada"
	d.RemoveLink(0)
	require.NoError(t, s.Save(ctx, "owner-1", d))

	assert.Equal(t, "Ada", data.profiles["owner-1"].Name)
	_, links := data.counts("owner-1")
	assert.Equal(t, 4, links)
}

func TestSaveReportsEitherFailure(t *testing.T) {
	data := newFakeData()
	s := newTestSynchronizer(data)
	ctx := context.Background()

	page, err := s.Load(ctx, "owner-1")
	require.NoError(t, err)

	data.replaceErr = errors.New("disk full")
	d := DraftFrom(page)
	d.Profile.Name = "Ada"

	err = s.Save(ctx, "owner-1", d)
	assert.ErrorIs(t, err, data.replaceErr)
	// The profile write still completed.
	assert.Equal(t, "Ada", data.profiles["owner-1"].Name)
}

func TestDecorate(t *testing.T) {
	s := newTestSynchronizer(newFakeData())

	got := s.Decorate([]domain.LinkView{
		{Title: "Twitter", Position: 3},
		{Title: "Mine", Position: 3},
	})

	assert.Equal(t, []domain.LinkView{
		{Title: "Twitter", Position: 0, Icon: "🐦"},
		{Title: "Mine", Position: 1, Icon: domain.FallbackIcon},
	}, got)
}

func TestDraftEdits(t *testing.T) {
	d := Draft{Links: []domain.LinkView{
		{Title: "A", Position: 0},
		{Title: "B", Position: 1},
	}}

	d.AddLink()
	require.Len(t, d.Links, 3)
	assert.Equal(t, domain.LinkView{Title: "New Link", Position: 2, Icon: domain.FallbackIcon}, d.Links[2])

	assert.True(t, d.RemoveLink(0))
	assert.False(t, d.RemoveLink(5))
	assert.False(t, d.RemoveLink(-1))

	require.Len(t, d.Links, 2)
	assert.Equal(t, "B", d.Links[0].Title)
	assert.Equal(t, 0, d.Links[0].Position)
	assert.Equal(t, 1, d.Links[1].Position)
}

func TestDraftFromCopiesLinks(t *testing.T) {
	page := Page{Links: []domain.LinkView{{Title: "A"}}}
	d := DraftFrom(page)
	d.Links[0].Title = "changed"

	assert.Equal(t, "A", page.Links[0].Title)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "viewing", Viewing.String())
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "unknown", State(42).String())
}
