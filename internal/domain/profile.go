package domain

// Profile is the display identity of one owner.
//
// Exactly one Profile exists per owner. It is created lazily on the
// owner's first authenticated load, seeded from the default Template.
type Profile struct {
	// OwnerID is the account identity that owns this profile.
	// It doubles as the public path parameter (/u/{OwnerID}).
	OwnerID string

	Name      string
	Bio       string
	AvatarURL string
}

// Link is the persisted shape of one outbound link.
//
// Links of one owner form an ordered sequence. Position is reassigned to
// the slice index on every save, so after any save the positions of one
// owner are exactly 0..n-1.
type Link struct {
	OwnerID  string
	Title    string
	URL      string
	Position int
}

// LinkView is a Link decorated with display-only data.
// It is never persisted.
type LinkView struct {
	Title    string
	URL      string
	Position int

	// Icon is a glyph resolved from the Title at read time.
	Icon string
}

// NewLink is the row appended by the editor's "add link" action.
func NewLink(position int) LinkView {
	return LinkView{
		Title:    "New Link",
		Position: position,
		Icon:     FallbackIcon,
	}
}

// Persisted strips display data and renumbers positions from zero.
// Every row is kept, blank ones included.
func Persisted(ownerID string, views []LinkView) []Link {
	links := make([]Link, len(views))
	for i, v := range views {
		links[i] = Link{
			OwnerID:  ownerID,
			Title:    v.Title,
			URL:      v.URL,
			Position: i,
		}
	}
	return links
}
