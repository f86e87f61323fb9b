package fern

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStore stores templates as YAML files on disk.
// Versioning is supported through one file per version.
//
// Directory structure:
//
//	<root>/
//	  <template-name>/
//	    v1.yaml
//	    v2.yaml
//	    ...
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// Filesystem layout constants
const (
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".yaml"
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
)

// Filesystem error messages
const (
	ErrMsgInvalidStoreRoot      = "invalid store root path"
	ErrMsgCreateStoreDir        = "failed to create store directory"
	ErrMsgReadStoreDir          = "failed to read store directory"
	ErrMsgMarshalTemplate       = "failed to marshal template"
	ErrMsgUnmarshalTemplate     = "failed to unmarshal template"
	ErrMsgWriteTemplate         = "failed to write template file"
	ErrMsgReadTemplate          = "failed to read template file"
	ErrMsgDeleteTemplate        = "failed to delete template"
	ErrMsgPathTraversalDetected = "path traversal detected in template name"
)

// FilesystemStoreDriver is the driver for creating FilesystemStore instances.
type FilesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameFilesystem, &FilesystemStoreDriver{})
}

// Open creates a new FilesystemStore instance.
// The connection string is the root directory path.
func (d *FilesystemStoreDriver) Open(connectionString string) (TemplateStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a new filesystem-backed template store.
// The root directory is created if it doesn't exist.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, &StoreError{Message: ErrMsgInvalidStoreRoot}
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StoreError{
			Message: ErrMsgCreateStoreDir,
			Name:    root,
			Cause:   err,
		}
	}

	return &FilesystemStore{
		root: root,
	}, nil
}

// Get retrieves the latest version of a template by name.
func (s *FilesystemStore) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateFilesystemName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	versions, err := s.listVersionsLocked(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewStoreTemplateNotFoundError(name)
	}

	// Latest version is first (sorted descending)
	return s.loadTemplate(name, versions[0])
}

// GetByID retrieves a specific template version by ID.
func (s *FilesystemStore) GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	// Scan all templates to find by ID (inefficient but correct)
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgReadStoreDir, Cause: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		versions, err := s.listVersionsLocked(entry.Name())
		if err != nil {
			continue
		}

		for _, version := range versions {
			tmpl, err := s.loadTemplate(entry.Name(), version)
			if err != nil {
				continue
			}
			if tmpl.ID == id {
				return tmpl, nil
			}
		}
	}

	return nil, NewStoreTemplateNotFoundError(string(id))
}

// GetVersion retrieves a specific version of a template.
func (s *FilesystemStore) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateFilesystemName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	return s.loadTemplate(name, version)
}

// Save stores a template, creating a new version if one exists.
func (s *FilesystemStore) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := validateFilesystemName(tmpl.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	templateDir := filepath.Join(s.root, tmpl.Name)
	if err := os.MkdirAll(templateDir, FilesystemDirPermissions); err != nil {
		return &StoreError{Message: ErrMsgCreateStoreDir, Name: templateDir, Cause: err}
	}

	versions, _ := s.listVersionsLocked(tmpl.Name)
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0] + 1
	}

	now := time.Now()

	stored := &StoredTemplate{
		ID:        generateTemplateID(),
		Name:      tmpl.Name,
		Source:    tmpl.Source,
		Version:   nextVersion,
		Metadata:  copyStringMap(tmpl.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      copyStringSlice(tmpl.Tags),
	}

	filename := s.versionPath(tmpl.Name, nextVersion)
	data, err := yaml.Marshal(stored)
	if err != nil {
		return &StoreError{Message: ErrMsgMarshalTemplate, Name: tmpl.Name, Cause: err}
	}

	if err := os.WriteFile(filename, data, FilesystemFilePermissions); err != nil {
		return &StoreError{Message: ErrMsgWriteTemplate, Name: filename, Cause: err}
	}

	tmpl.ID = stored.ID
	tmpl.Version = stored.Version
	tmpl.CreatedAt = stored.CreatedAt
	tmpl.UpdatedAt = stored.UpdatedAt

	return nil
}

// Delete removes all versions of a template by name.
func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := validateFilesystemName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	templateDir := filepath.Join(s.root, name)
	if _, err := os.Stat(templateDir); os.IsNotExist(err) {
		return NewStoreTemplateNotFoundError(name)
	}

	if err := os.RemoveAll(templateDir); err != nil {
		return &StoreError{Message: ErrMsgDeleteTemplate, Name: name, Cause: err}
	}

	return nil
}

// DeleteVersion removes a specific version of a template.
func (s *FilesystemStore) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := validateFilesystemName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	filename := s.versionPath(name, version)
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return NewStoreVersionNotFoundError(name, version)
	}

	if err := os.Remove(filename); err != nil {
		return &StoreError{Message: ErrMsgDeleteTemplate, Name: filename, Cause: err}
	}

	// Remove directory if no versions remain
	templateDir := filepath.Join(s.root, name)
	remaining, err := s.listVersionsLocked(name)
	if err == nil && len(remaining) == 0 {
		_ = os.RemoveAll(templateDir)
	}

	return nil
}

// List returns templates matching the query.
func (s *FilesystemStore) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	if query == nil {
		query = &TemplateQuery{}
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgReadStoreDir, Cause: err}
	}

	var results []*StoredTemplate

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !matchesName(name, query) {
			continue
		}

		versions, err := s.listVersionsLocked(name)
		if err != nil || len(versions) == 0 {
			continue
		}

		if query.IncludeAllVersions {
			for _, version := range versions {
				tmpl, err := s.loadTemplate(name, version)
				if err != nil {
					continue
				}
				if matchesTags(tmpl, query) {
					results = append(results, tmpl)
				}
			}
		} else {
			tmpl, err := s.loadTemplate(name, versions[0])
			if err != nil {
				continue
			}
			if matchesTags(tmpl, query) {
				results = append(results, tmpl)
			}
		}
	}

	// Sort by name, then version descending
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})

	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredTemplate{}, nil
		}
		results = results[query.Offset:]
	}

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	return results, nil
}

// Exists checks if a template with the given name exists.
func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	templateDir := filepath.Join(s.root, name)
	if _, err := os.Stat(templateDir); os.IsNotExist(err) {
		return false, nil
	}

	versions, _ := s.listVersionsLocked(name)
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers for a template.
func (s *FilesystemStore) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	return s.listVersionsLocked(name)
}

// Close marks the store as closed.
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// listVersionsLocked lists version numbers for a template (no locking).
func (s *FilesystemStore) listVersionsLocked(name string) ([]int, error) {
	templateDir := filepath.Join(s.root, name)
	entries, err := os.ReadDir(templateDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, err
	}

	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filename := entry.Name()
		if strings.HasPrefix(filename, FilesystemVersionPrefix) && strings.HasSuffix(filename, FilesystemVersionSuffix) {
			versionStr := filename[len(FilesystemVersionPrefix) : len(filename)-len(FilesystemVersionSuffix)]
			version, err := strconv.Atoi(versionStr)
			if err == nil && version > 0 {
				versions = append(versions, version)
			}
		}
	}

	// Sort descending
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// loadTemplate loads a template version from disk.
func (s *FilesystemStore) loadTemplate(name string, version int) (*StoredTemplate, error) {
	filename := s.versionPath(name, version)
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewStoreVersionNotFoundError(name, version)
		}
		return nil, &StoreError{Message: ErrMsgReadTemplate, Name: filename, Cause: err}
	}

	var tmpl StoredTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, &StoreError{Message: ErrMsgUnmarshalTemplate, Name: filename, Cause: err}
	}

	return &tmpl, nil
}

func (s *FilesystemStore) versionPath(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// validateFilesystemName validates a template name for filesystem safety.
// Prevents path traversal and invalid filesystem characters.
func validateFilesystemName(name string) error {
	if name == "" {
		return &StoreError{Message: ErrMsgInvalidTemplateName}
	}
	if strings.Contains(name, "..") {
		return &StoreError{Message: ErrMsgPathTraversalDetected, Name: name}
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return &StoreError{Message: ErrMsgInvalidTemplateName, Name: name}
	}
	return nil
}

var _ TemplateStore = (*FilesystemStore)(nil)
