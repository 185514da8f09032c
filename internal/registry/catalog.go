package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/veridoc-dev/veridoc/internal/backend"
	"github.com/veridoc-dev/veridoc/internal/log"
)

// Document is one catalog entry. FetchedAt is client-local metadata; the
// backend does not report upload timestamps.
type Document struct {
	ID        string
	Name      string
	Type      string
	FetchedAt time.Time
}

// Lister is the backend dependency of a Catalog.
type Lister interface {
	ListDocuments(ctx context.Context) ([]backend.DocumentInfo, error)
}

const catalogKey = "documents"

// Catalog is a pass-through TTL cache over the backend's document listing.
type Catalog struct {
	lister Lister
	cache  *cache.Cache
	logger *log.Logger
}

// NewCatalog creates a Catalog caching listings for ttl. logger may be nil.
func NewCatalog(l Lister, ttl time.Duration, logger *log.Logger) *Catalog {
	return &Catalog{
		lister: l,
		cache:  cache.New(ttl, 10*time.Minute),
		logger: logger,
	}
}

// Documents returns the document catalog, served from cache when fresh.
func (c *Catalog) Documents(ctx context.Context) ([]Document, error) {
	if x, found := c.cache.Get(catalogKey); found {
		return x.([]Document), nil
	}

	infos, err := c.lister.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: refreshing catalog: %w", err)
	}

	now := time.Now()
	docs := make([]Document, len(infos))
	for i, info := range infos {
		docs[i] = Document{
			ID:        info.ID,
			Name:      info.Name,
			Type:      info.Type,
			FetchedAt: now,
		}
	}

	c.cache.Set(catalogKey, docs, cache.DefaultExpiration)
	if c.logger != nil {
		_ = c.logger.Append(log.LogEvent{Event: log.EventDocumentsRefreshed, Documents: len(docs)})
	}

	return docs, nil
}

// Invalidate drops the cached listing so the next read refetches. Called
// after a successful upload changes the corpus.
func (c *Catalog) Invalidate() {
	c.cache.Delete(catalogKey)
}
