// Package localstore keeps metadata profiles and documents as files.
//
// Layout under the store root:
//
//	<profileID>.xsd              schema of a profile
//	<profileID>/<entryID>.xml    document of an entry
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/kaltura/kal-metadata-utils/internal/files/filesystem"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// Store implements kmeta.MetadataStore on a FileSystemProvider.
type Store struct {
	fs   filesystem.FileSystemProvider
	root string
}

// New creates a store rooted at root.
// Panics if provider is nil.
func New(provider filesystem.FileSystemProvider, root string) *Store {
	if provider == nil {
		panic("provider cannot be nil")
	}
	if root == "" {
		root = "."
	}
	return &Store{fs: provider, root: root}
}

// SchemaPath returns where the schema of profileID is kept.
func (s *Store) SchemaPath(profileID string) string {
	return path.Join(s.root, profileID+".xsd")
}

// DocumentPath returns where the document of entryID is kept.
func (s *Store) DocumentPath(entryID, profileID string) string {
	return path.Join(s.root, profileID, entryID+".xml")
}

func (s *Store) FetchSchema(ctx context.Context, profileID string) (string, error) {
	if err := checkID("profile", profileID); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p := s.SchemaPath(profileID)
	data, err := s.fs.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: schema for profile %s (%s)", kmeta.ErrNotFound, profileID, p)
		}
		return "", fmt.Errorf("%w: %v", kmeta.ErrStoreFailed, err)
	}
	return string(data), nil
}

func (s *Store) FetchExisting(ctx context.Context, entryID, profileID string) (kmeta.ExistingDocument, bool, error) {
	if err := checkID("entry", entryID); err != nil {
		return kmeta.ExistingDocument{}, false, err
	}
	if err := checkID("profile", profileID); err != nil {
		return kmeta.ExistingDocument{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return kmeta.ExistingDocument{}, false, err
	}

	data, err := s.fs.ReadFile(s.DocumentPath(entryID, profileID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return kmeta.ExistingDocument{}, false, nil
		}
		return kmeta.ExistingDocument{}, false, fmt.Errorf("%w: %v", kmeta.ErrStoreFailed, err)
	}
	return kmeta.ExistingDocument{XML: string(data)}, true, nil
}

func (s *Store) Upsert(ctx context.Context, entryID, profileID, xml string) (kmeta.UpsertResult, error) {
	if err := checkID("entry", entryID); err != nil {
		return kmeta.UpsertResult{}, err
	}
	if err := checkID("profile", profileID); err != nil {
		return kmeta.UpsertResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return kmeta.UpsertResult{}, err
	}

	p := s.DocumentPath(entryID, profileID)
	_, statErr := s.fs.Stat(p)
	created := errors.Is(statErr, fs.ErrNotExist)

	if err := s.fs.WriteFile(p, []byte(xml)); err != nil {
		return kmeta.UpsertResult{}, fmt.Errorf("%w: %v", kmeta.ErrStoreFailed, err)
	}
	return kmeta.UpsertResult{ID: p, Created: created}, nil
}

// Entries lists the entry IDs that have a document for profileID.
func (s *Store) Entries(profileID string) ([]string, error) {
	if err := checkID("profile", profileID); err != nil {
		return nil, err
	}
	infos, err := s.fs.ReadDir(path.Join(s.root, profileID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", kmeta.ErrStoreFailed, err)
	}

	var ids []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(info.Name(), ".xml"); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func checkID(kind, id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: invalid %s id %q", kmeta.ErrUsage, kind, id)
	}
	return nil
}
