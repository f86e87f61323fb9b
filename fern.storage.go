package fern

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"sync"
	"time"
)

// TemplateID is a unique identifier for a stored template version.
// IDs use a prefixed random format (e.g., "tmpl_6ByTSYmGzT2c").
type TemplateID string

// StoredTemplate represents a template with metadata held by a store.
type StoredTemplate struct {
	// ID is the unique identifier for this template version.
	ID TemplateID `json:"id" yaml:"id"`

	// Name is the template name used for lookups.
	Name string `json:"name" yaml:"name"`

	// Source is the raw template source text.
	Source string `json:"source" yaml:"source"`

	// Version is the version number (1, 2, 3, ...).
	// Higher versions are newer.
	Version int `json:"version" yaml:"version"`

	// Metadata contains arbitrary key-value pairs for user-defined data.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// CreatedAt is when this version was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when this version was last modified.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// TemplateQuery defines filters for listing templates.
type TemplateQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Tags filters to templates having ALL specified tags.
	Tags []string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip (for pagination).
	Offset int

	// IncludeAllVersions includes all versions, not just the latest.
	IncludeAllVersions bool
}

// TemplateStore is the interface for pluggable template storage
// backends. Implementations must be safe for concurrent use.
//
// The interface follows patterns from database/sql for familiarity:
// context for cancellation and timeouts, explicit error returns, and
// Close for resource cleanup.
type TemplateStore interface {
	// Get retrieves the latest version of a template by name.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// GetByID retrieves a specific template version by ID.
	GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error)

	// GetVersion retrieves a specific version of a template.
	GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error)

	// Save stores a template. If a template with the same name exists,
	// a new version is created. The template's ID, Version, CreatedAt,
	// and UpdatedAt fields are set by the store.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes all versions of a template by name.
	Delete(ctx context.Context, name string) error

	// DeleteVersion removes a specific version of a template.
	DeleteVersion(ctx context.Context, name string, version int) error

	// List returns templates matching the query.
	// Results are ordered by name, then by version (descending).
	List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error)

	// Exists checks if a template with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns all version numbers for a template.
	// Returns an empty slice if the template doesn't exist.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases any resources held by the store.
	// After Close, the store must not be used.
	Close() error
}

// StoreDriver is a factory for creating store instances.
// Drivers register themselves during init().
type StoreDriver interface {
	// Open creates a new store with the given connection string.
	// The format of the connection string is driver-specific.
	Open(connectionString string) (TemplateStore, error)
}

// Store driver registry
var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]StoreDriver)
)

// RegisterStoreDriver registers a store driver by name.
// This is typically called from a driver's init() function.
// Panics if a driver with the same name is already registered.
func RegisterStoreDriver(name string, driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStoreDriver)
	}
	if _, exists := storeDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storeDrivers[name] = driver
}

// OpenStore opens a template store using the named driver.
// The connection string format is driver-specific.
//
// Example:
//
//	store, err := fern.OpenStore("memory", "")
//	store, err := fern.OpenStore("filesystem", "/path/to/templates")
func OpenStore(driverName, connectionString string) (TemplateStore, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[driverName]
	storeDriversMu.RUnlock()

	if !ok {
		return nil, NewStoreDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStoreDrivers returns the names of all registered store drivers.
func ListStoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	return names
}

// Store error message constants
const (
	ErrMsgNilStoreDriver          = "store driver is nil"
	ErrMsgDriverAlreadyRegistered = "store driver already registered"
	ErrMsgStoreDriverNotFound     = "store driver not found"
	ErrMsgStoreClosed             = "store is closed"
	ErrMsgTemplateNotFound        = "template not found"
	ErrMsgVersionNotFound         = "template version not found"
	ErrMsgInvalidTemplateName     = "invalid template name"
)

// NewStoreDriverNotFoundError creates an error for a missing driver.
func NewStoreDriverNotFoundError(name string) error {
	return &StoreError{
		Message: ErrMsgStoreDriverNotFound,
		Name:    name,
	}
}

// NewStoreTemplateNotFoundError creates an error for a missing template.
func NewStoreTemplateNotFoundError(name string) error {
	return &StoreError{
		Message: ErrMsgTemplateNotFound,
		Name:    name,
	}
}

// NewStoreVersionNotFoundError creates an error for a missing version.
func NewStoreVersionNotFoundError(name string, version int) error {
	return &StoreError{
		Message: ErrMsgVersionNotFound,
		Name:    name,
		Version: version,
	}
}

// NewStoreClosedError creates an error for operations on a closed store.
func NewStoreClosedError() error {
	return &StoreError{
		Message: ErrMsgStoreClosed,
	}
}

// StoreError represents a store-related error.
type StoreError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Name != "" && e.Version > 0 {
		return e.Message + ": " + e.Name + " v" + strconv.Itoa(e.Version)
	}
	if e.Name != "" {
		return e.Message + ": " + e.Name
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// IsTemplateNotFound reports whether err is a not-found store error for
// either a template or a specific version.
func IsTemplateNotFound(err error) bool {
	se, ok := err.(*StoreError)
	if !ok {
		return false
	}
	return se.Message == ErrMsgTemplateNotFound || se.Message == ErrMsgVersionNotFound
}

// generateTemplateID generates a unique template ID.
func generateTemplateID() TemplateID {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	id := base64.RawURLEncoding.EncodeToString(b)
	return TemplateID(TemplateIDPrefix + id)
}

// copyStoredTemplate creates a deep copy of a StoredTemplate.
func copyStoredTemplate(tmpl *StoredTemplate) *StoredTemplate {
	if tmpl == nil {
		return nil
	}
	return &StoredTemplate{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		Source:    tmpl.Source,
		Version:   tmpl.Version,
		Metadata:  copyStringMap(tmpl.Metadata),
		CreatedAt: tmpl.CreatedAt,
		UpdatedAt: tmpl.UpdatedAt,
		Tags:      copyStringSlice(tmpl.Tags),
	}
}

// copyStringMap creates a copy of a string map.
func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// copyStringSlice creates a copy of a string slice.
func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	result := make([]string, len(s))
	copy(result, s)
	return result
}
