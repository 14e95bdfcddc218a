package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sageverse/tree/internal/domain"
)

// Loader reads a default template from a YAML file.
//
// Example file:
//
//	name: Sageverse Tree
//	bio: Community manager & philanthropist
//	avatar_url: https://i.pravatar.cc/150?u=sageverse
//	links:
//	  - title: Twitter
//	    url: https://twitter.com/${TWITTER_HANDLE}
//	    icon: 🐦
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads, expands and validates the template file.
// ${VAR} references are replaced by environment values before parsing.
func (l *Loader) Load() (*domain.Template, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes a YAML template.
func Parse(data []byte) (*domain.Template, error) {
	var tpl domain.Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	if err := validate(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func validate(tpl *domain.Template) error {
	if tpl.Name == "" {
		return fmt.Errorf("seed template: name is required")
	}
	for i, l := range tpl.Links {
		if l.Title == "" {
			return fmt.Errorf("seed template: links[%d].title is required", i)
		}
		if l.URL == "" {
			return fmt.Errorf("seed template: links[%d].url is required", i)
		}
	}
	return nil
}
