package fern

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Catalog serves compiled templates from a TemplateStore, caching
// compilation results so repeated renders of the same stored template
// skip recompilation. It is safe for concurrent use.
type Catalog struct {
	store  TemplateStore
	engine *Engine
	config CatalogConfig
	logger *zap.Logger

	mu     sync.RWMutex
	cache  map[string]*catalogEntry
	closed bool
}

// CatalogConfig configures catalog caching behavior.
type CatalogConfig struct {
	// TTL is how long cached compilations remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached templates.
	// When exceeded, the least recently accessed entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeTTL is how long to cache "not found" results.
	// Set to 0 to disable negative caching.
	// Default: 30 seconds.
	NegativeTTL time.Duration
}

// DefaultCatalogConfig returns the default catalog configuration.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		TTL:         5 * time.Minute,
		MaxEntries:  1000,
		NegativeTTL: 30 * time.Second,
	}
}

// catalogEntry is a cached compilation result. accessedAt is atomic
// because cache hits update it while holding only the read lock.
type catalogEntry struct {
	template   *Template
	stored     *StoredTemplate
	notFound   bool
	cachedAt   time.Time
	accessedAt atomic.Int64 // unix nanoseconds
	key        string
}

// NewCatalog creates a catalog over a store and engine.
// A nil engine falls back to a default Engine.
func NewCatalog(store TemplateStore, engine *Engine, config CatalogConfig, opts ...Option) *Catalog {
	if engine == nil {
		engine = MustNew(opts...)
	}
	if config.TTL == 0 {
		config.TTL = 5 * time.Minute
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = 1000
	}

	logger := engine.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Catalog{
		store:  store,
		engine: engine,
		config: config,
		logger: logger,
		cache:  make(map[string]*catalogEntry),
	}
}

// Get returns the compiled latest version of a named template.
func (c *Catalog) Get(ctx context.Context, name string) (*Template, error) {
	entry, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return entry.template, nil
}

// GetStored returns the stored record backing the compiled template.
func (c *Catalog) GetStored(ctx context.Context, name string) (*StoredTemplate, error) {
	entry, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return copyStoredTemplate(entry.stored), nil
}

// Render fetches, compiles (or reuses), and renders a stored template.
func (c *Catalog) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	tmpl, err := c.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data), nil
}

// Save stores a template source and invalidates the cached compilation.
// The source is compiled first so broken templates never reach the store.
func (c *Catalog) Save(ctx context.Context, name, source string, tags ...string) (*StoredTemplate, error) {
	if _, err := c.engine.Compile(source); err != nil {
		return nil, err
	}

	stored := &StoredTemplate{
		Name:   name,
		Source: source,
		Tags:   tags,
	}
	if err := c.store.Save(ctx, stored); err != nil {
		return nil, err
	}

	c.Invalidate(name)
	c.logger.Debug(LogMsgTemplateSaved,
		zap.String(LogFieldTemplate, name),
		zap.Int(LogFieldVersion, stored.Version))

	return stored, nil
}

// Delete removes a template from the store and the cache.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, name); err != nil {
		return err
	}
	c.Invalidate(name)
	return nil
}

// Invalidate drops a cached compilation.
func (c *Catalog) Invalidate(name string) {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
}

// InvalidateAll clears the entire compilation cache.
func (c *Catalog) InvalidateAll() {
	c.mu.Lock()
	c.cache = make(map[string]*catalogEntry)
	c.mu.Unlock()
}

// Stats returns cache statistics.
func (c *Catalog) Stats() CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var validCount, negativeCount int
	for _, entry := range c.cache {
		if c.isValid(entry) {
			if entry.notFound {
				negativeCount++
			} else {
				validCount++
			}
		}
	}

	return CatalogStats{
		Entries:         len(c.cache),
		ValidEntries:    validCount,
		NegativeEntries: negativeCount,
	}
}

// CatalogStats contains catalog cache statistics.
type CatalogStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

// Close closes the catalog and the underlying store.
func (c *Catalog) Close() error {
	c.mu.Lock()
	c.closed = true
	c.cache = nil
	c.mu.Unlock()

	return c.store.Close()
}

// lookup resolves a name to a cached entry, fetching and compiling on miss.
func (c *Catalog) lookup(ctx context.Context, name string) (*catalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, NewStoreClosedError()
	}

	entry, ok := c.cache[name]
	if ok && c.isValid(entry) {
		entry.accessedAt.Store(time.Now().UnixNano())
		c.mu.RUnlock()

		if entry.notFound {
			return nil, NewStoreTemplateNotFoundError(name)
		}
		return entry, nil
	}
	c.mu.RUnlock()

	stored, err := c.store.Get(ctx, name)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, NewStoreClosedError()
	}

	if err != nil {
		if IsTemplateNotFound(err) && c.config.NegativeTTL > 0 {
			c.addEntry(name, nil, nil, true)
		}
		return nil, err
	}

	tmpl, err := c.engine.Compile(stored.Source)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(LogMsgTemplateCompiled,
		zap.String(LogFieldTemplate, name),
		zap.Int(LogFieldVersion, stored.Version))

	return c.addEntry(name, tmpl, stored, false), nil
}

// isValid checks if a cache entry is still within its TTL.
func (c *Catalog) isValid(entry *catalogEntry) bool {
	ttl := c.config.TTL
	if entry.notFound {
		ttl = c.config.NegativeTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// addEntry adds an entry to the cache, evicting if necessary.
// Caller must hold write lock.
func (c *Catalog) addEntry(name string, tmpl *Template, stored *StoredTemplate, notFound bool) *catalogEntry {
	if len(c.cache) >= c.config.MaxEntries {
		c.evictOldest()
	}

	now := time.Now()
	entry := &catalogEntry{
		template: tmpl,
		stored:   stored,
		notFound: notFound,
		cachedAt: now,
		key:      name,
	}
	entry.accessedAt.Store(now.UnixNano())

	c.cache[name] = entry
	return entry
}

// evictOldest removes the least recently accessed entry.
// Caller must hold write lock.
func (c *Catalog) evictOldest() {
	var oldest *catalogEntry
	for _, entry := range c.cache {
		if oldest == nil || entry.accessedAt.Load() < oldest.accessedAt.Load() {
			oldest = entry
		}
	}

	if oldest != nil {
		delete(c.cache, oldest.key)
	}
}
