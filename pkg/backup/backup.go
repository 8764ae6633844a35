// Package backup serializes the vault collections to a portable JSON
// archive and reads them back. Encrypted fields are carried verbatim as
// their {ct,iv,salt} envelopes, so locked entries restore bit-exact and
// still answer to their original passwords.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/promptvault/promptvault/pkg/vault"
)

// FormatVersion identifies the archive layout. Bumped on incompatible
// changes; readers reject versions they do not know.
const FormatVersion = 1

var (
	ErrBadFormat          = errors.New("backup: not a prompt vault archive")
	ErrUnsupportedVersion = errors.New("backup: unsupported archive version")
)

// Archive is the on-disk export shape.
type Archive struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Prompts    []*vault.Prompt `json:"prompts"`
	Folders    []*vault.Folder `json:"folders"`
	GlobalTags []string        `json:"globalTags"`
}

// Write serializes an archive to w.
func Write(w io.Writer, prompts []*vault.Prompt, folders []*vault.Folder, tags []string) error {
	a := Archive{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Prompts:    prompts,
		Folders:    folders,
		GlobalTags: tags,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("backup: encoding archive: %w", err)
	}
	return nil
}

// Read parses and validates an archive from r.
func Read(r io.Reader) (*Archive, error) {
	var a Archive
	dec := json.NewDecoder(r)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if a.Version == 0 {
		// Bare interchange files predate the versioned envelope; read them
		// as the current format.
		a.Version = FormatVersion
	}
	if a.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, a.Version)
	}
	if err := validate(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// WriteFile writes an archive to path with owner-only permissions.
func WriteFile(path string, prompts []*vault.Prompt, folders []*vault.Folder, tags []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("backup: creating %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, prompts, folders, tags)
}

// ReadFile reads an archive from path.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("backup: opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// validate rejects archives that would corrupt the model: duplicate ids,
// nameless entries, locked entries without an oracle.
func validate(a *Archive) error {
	folderIDs := make(map[int64]struct{}, len(a.Folders))
	for _, f := range a.Folders {
		if f == nil || f.Name == "" {
			return fmt.Errorf("%w: folder without a name", ErrBadFormat)
		}
		if _, dup := folderIDs[f.ID]; dup {
			return fmt.Errorf("%w: duplicate folder id %d", ErrBadFormat, f.ID)
		}
		folderIDs[f.ID] = struct{}{}
		if f.IsLocked && f.PasswordCheck == nil {
			return fmt.Errorf("%w: locked folder %d has no password check", ErrBadFormat, f.ID)
		}
	}

	promptIDs := make(map[int64]struct{}, len(a.Prompts))
	for _, p := range a.Prompts {
		if p == nil || p.Title == "" {
			return fmt.Errorf("%w: prompt without a title", ErrBadFormat)
		}
		if _, dup := promptIDs[p.ID]; dup {
			return fmt.Errorf("%w: duplicate prompt id %d", ErrBadFormat, p.ID)
		}
		promptIDs[p.ID] = struct{}{}
		if p.IsLocked && p.PasswordCheck == nil {
			return fmt.Errorf("%w: locked prompt %d has no password check", ErrBadFormat, p.ID)
		}
	}
	return nil
}
