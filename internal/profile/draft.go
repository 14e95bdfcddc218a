package profile

import "github.com/sageverse/tree/internal/domain"

// State is where a visitor's dashboard is. A page is only rendered once
// its load has finished, so there is no loading state to show.
type State int

const (
	NotAuthenticated State = iota
	Viewing
	Editing
)

func (s State) String() string {
	switch s {
	case NotAuthenticated:
		return "not_authenticated"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// Draft is the unsaved content of the edit form. Changes to a Draft never
// reach the backend until Synchronizer.Save.
type Draft struct {
	Profile domain.Profile
	Links   []domain.LinkView
}

// DraftFrom starts an edit session from a loaded page.
func DraftFrom(p Page) Draft {
	links := make([]domain.LinkView, len(p.Links))
	copy(links, p.Links)
	return Draft{Profile: p.Profile, Links: links}
}

// AddLink appends the placeholder row.
func (d *Draft) AddLink() {
	d.Links = append(d.Links, domain.NewLink(len(d.Links)))
}

// RemoveLink drops row i and renumbers the rest. Out of range is a no-op.
func (d *Draft) RemoveLink(i int) bool {
	if i < 0 || i >= len(d.Links) {
		return false
	}
	d.Links = append(d.Links[:i], d.Links[i+1:]...)
	for j := range d.Links {
		d.Links[j].Position = j
	}
	return true
}
