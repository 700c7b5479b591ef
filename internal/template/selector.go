// Package template loads and caches the template catalog and resolves a
// chosen template's text content for inclusion in generation requests.
package template

import (
	"context"
	"strings"
	"sync"

	"github.com/assisitant-dever/docgen/internal/api"
)

// Catalog is the slice of the API client the selector consumes.
type Catalog interface {
	ListTemplates(ctx context.Context) ([]*api.Template, error)
	GetTemplateContent(ctx context.Context, id int64) (string, error)
	UploadTemplate(ctx context.Context, path string) (*api.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
}

// Selector caches the template catalog after the first load. Uploads and
// deletes go through the selector so the cache is invalidated.
type Selector struct {
	catalog Catalog

	mu        sync.Mutex
	templates []*api.Template
	loaded    bool
}

// NewSelector returns a selector over the given catalog.
func NewSelector(catalog Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// List returns the catalog, fetching it on first use.
func (s *Selector) List(ctx context.Context) ([]*api.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.templates, nil
	}
	templates, err := s.catalog.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	s.templates = templates
	s.loaded = true
	return templates, nil
}

// Refresh invalidates the cache; the next List fetches anew.
func (s *Selector) Refresh() {
	s.mu.Lock()
	s.templates = nil
	s.loaded = false
	s.mu.Unlock()
}

// Select resolves a template's text content on demand. The caller holds
// the returned content as an opaque string for the request lifecycle; a
// template deleted after selection does not affect a submission already
// carrying its content.
func (s *Selector) Select(ctx context.Context, id int64) (string, error) {
	return s.catalog.GetTemplateContent(ctx, id)
}

// Upload adds a local file to the catalog and invalidates the cache.
func (s *Selector) Upload(ctx context.Context, path string) (*api.Template, error) {
	template, err := s.catalog.UploadTemplate(ctx, path)
	if err != nil {
		return nil, err
	}
	s.Refresh()
	return template, nil
}

// Delete removes a template and invalidates the cache.
func (s *Selector) Delete(ctx context.Context, id int64) error {
	if err := s.catalog.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	s.Refresh()
	return nil
}

// Filter returns the templates whose original name contains the given
// substring, case-insensitively, order preserved.
func Filter(templates []*api.Template, query string) []*api.Template {
	if query == "" {
		return templates
	}
	query = strings.ToLower(query)
	var filtered []*api.Template
	for _, template := range templates {
		if strings.Contains(strings.ToLower(template.OriginalName), query) {
			filtered = append(filtered, template)
		}
	}
	return filtered
}
