package domain

// FallbackIcon is shown for links whose title matches no default entry.
const FallbackIcon = "🔗"

// TemplateLink is one seeded link with its display icon.
type TemplateLink struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

// Template holds the values a brand new owner starts with.
//
// It is also the icon table: a stored link whose title equals a template
// title is displayed with that entry's icon.
type Template struct {
	Name      string         `yaml:"name"`
	Bio       string         `yaml:"bio"`
	AvatarURL string         `yaml:"avatar_url"`
	Links     []TemplateLink `yaml:"links"`
}

// DefaultTemplate returns the built-in seed used when no template file is configured.
func DefaultTemplate() *Template {
	return &Template{
		Name:      "Sageverse Tree",
		Bio:       "Community manager & philanthropist",
		AvatarURL: "https://i.pravatar.cc/150?u=sageverse",
		Links: []TemplateLink{
			{Title: "Twitter", URL: "https://twitter.com/mrjungle", Icon: "🐦"},
			{Title: "Discord", URL: "https://discord.gg/example", Icon: "💬"},
			{Title: "Portfolio", URL: "https://mrjungle.com", Icon: "🌐"},
			{Title: "Extra Link 1", URL: "https://extra1.com", Icon: "🔗"},
			{Title: "Extra Link 2", URL: "https://extra2.com", Icon: "🔗"},
		},
	}
}

// Profile builds the seeded profile for ownerID.
func (t *Template) Profile(ownerID string) Profile {
	return Profile{
		OwnerID:   ownerID,
		Name:      t.Name,
		Bio:       t.Bio,
		AvatarURL: t.AvatarURL,
	}
}

// SeedLinks builds the seeded links for ownerID, positioned in declared order.
func (t *Template) SeedLinks(ownerID string) []Link {
	links := make([]Link, len(t.Links))
	for i, l := range t.Links {
		links[i] = Link{
			OwnerID:  ownerID,
			Title:    l.Title,
			URL:      l.URL,
			Position: i,
		}
	}
	return links
}

// Icon resolves the display glyph for a link title.
// Matching is exact and case-sensitive.
func (t *Template) Icon(title string) string {
	for _, l := range t.Links {
		if l.Title == title && l.Icon != "" {
			return l.Icon
		}
	}
	return FallbackIcon
}

// Views decorates stored links with icons.
func (t *Template) Views(links []Link) []LinkView {
	views := make([]LinkView, len(links))
	for i, l := range links {
		views[i] = LinkView{
			Title:    l.Title,
			URL:      l.URL,
			Position: l.Position,
			Icon:     t.Icon(l.Title),
		}
	}
	return views
}
