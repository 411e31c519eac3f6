package client

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ViewRegistry maps view names to their declared requirements. Portals ship
// one YAML file listing every protected view, so the requirement lives in
// configuration instead of being repeated at each call site.
type ViewRegistry struct {
	views map[string]View
}

type viewsFile struct {
	Views []View `yaml:"views"`
}

// LoadViews reads a view registry from YAML:
//
//	views:
//	  - name: pharmacy-dashboard
//	    required_role: pharmacy
//	  - name: admin-users
//	    required_role: admin
func LoadViews(r io.Reader) (*ViewRegistry, error) {
	var file viewsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode views: %w", err)
	}

	views := make(map[string]View, len(file.Views))
	for _, v := range file.Views {
		if v.Name == "" {
			return nil, fmt.Errorf("view with empty name")
		}
		if v.RequiredRole == "" {
			return nil, fmt.Errorf("view %q has no required role", v.Name)
		}
		if _, dup := views[v.Name]; dup {
			return nil, fmt.Errorf("duplicate view %q", v.Name)
		}
		views[v.Name] = v
	}

	return &ViewRegistry{views: views}, nil
}

// LoadViewsFile reads a view registry from a YAML file on disk
func LoadViewsFile(path string) (*ViewRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open views file: %w", err)
	}
	defer f.Close()
	return LoadViews(f)
}

// View returns the declared view by name
func (r *ViewRegistry) View(name string) (View, bool) {
	v, ok := r.views[name]
	return v, ok
}

// Len returns the number of registered views
func (r *ViewRegistry) Len() int {
	return len(r.views)
}
