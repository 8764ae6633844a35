// Package vault implements the encrypted prompt organizer core: the lock
// state machine for folders and prompts, session password caching, and the
// orchestration of encrypt/decrypt across structural mutations.
package vault

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptvault/promptvault/pkg/crypto"
)

// Content is a prompt field that is either plaintext or ciphertext. The two
// shapes share one storage slot: a JSON string is plaintext, a {ct,iv,salt}
// object is ciphertext. Consumers must branch on Encrypted() explicitly.
type Content struct {
	plain string
	enc   *crypto.Ciphertext
}

// PlainContent wraps a plaintext string.
func PlainContent(s string) Content {
	return Content{plain: s}
}

// EncryptedContent wraps a ciphertext envelope.
func EncryptedContent(ct *crypto.Ciphertext) Content {
	if ct == nil {
		return Content{}
	}
	return Content{enc: ct}
}

// Encrypted reports whether the content is ciphertext.
func (c Content) Encrypted() bool {
	return c.enc != nil
}

// Plaintext returns the plaintext string. It is empty for encrypted content;
// callers that need the real text must decrypt first.
func (c Content) Plaintext() string {
	if c.enc != nil {
		return ""
	}
	return c.plain
}

// Cipher returns the ciphertext envelope, or nil for plaintext content.
func (c Content) Cipher() *crypto.Ciphertext {
	return c.enc
}

// Empty reports whether the content holds neither text nor ciphertext.
func (c Content) Empty() bool {
	return c.enc == nil && c.plain == ""
}

// MarshalJSON encodes plaintext as a JSON string and ciphertext as its
// {ct,iv,salt} object, matching the interchange format.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.enc != nil {
		return json.Marshal(c.enc)
	}
	return json.Marshal(c.plain)
}

// UnmarshalJSON accepts either shape. Anything that is not a string and not
// a complete ciphertext envelope is rejected rather than silently treated
// as plaintext.
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{plain: s}
		return nil
	}

	var ct crypto.Ciphertext
	if err := json.Unmarshal(data, &ct); err != nil {
		return fmt.Errorf("vault: content is neither string nor ciphertext: %w", err)
	}
	if ct.CT == "" || ct.IV == "" || ct.Salt == "" {
		return fmt.Errorf("vault: ciphertext object missing ct/iv/salt")
	}
	*c = Content{enc: &ct}
	return nil
}

// Folder groups prompts. A locked folder forces lock semantics on every
// prompt it contains, regardless of the prompts' own flags.
type Folder struct {
	ID            int64              `json:"id"` // creation timestamp, unique
	Name          string             `json:"name"`
	IsLocked      bool               `json:"isLocked"`
	PasswordCheck *crypto.Ciphertext `json:"passwordCheck"` // nil when unlocked
}

// Prompt is a single note/prompt. Body and Notes are plaintext when neither
// the prompt nor its folder is locked, ciphertext otherwise.
type Prompt struct {
	ID            int64              `json:"id"` // creation timestamp, unique
	Title         string             `json:"title"`
	Body          Content            `json:"body"`
	Notes         Content            `json:"notes"`
	FolderID      *int64             `json:"folderId"` // nil = unfiled
	Tags          []string           `json:"tags"`
	IsFavorite    bool               `json:"isFavorite"`
	IsLocked      bool               `json:"isLocked"`
	PasswordCheck *crypto.Ciphertext `json:"passwordCheck"`
	DateCreated   int64              `json:"dateCreated"`
	DateModified  int64              `json:"dateModified"`
}

// Clone returns a deep copy. The write-through mirror hands out clones so
// callers cannot mutate committed state behind the store's back.
func (p *Prompt) Clone() *Prompt {
	cp := *p
	if p.FolderID != nil {
		id := *p.FolderID
		cp.FolderID = &id
	}
	if p.PasswordCheck != nil {
		check := *p.PasswordCheck
		cp.PasswordCheck = &check
	}
	if p.Body.enc != nil {
		enc := *p.Body.enc
		cp.Body.enc = &enc
	}
	if p.Notes.enc != nil {
		enc := *p.Notes.enc
		cp.Notes.enc = &enc
	}
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}

// Clone returns a deep copy of the folder.
func (f *Folder) Clone() *Folder {
	cf := *f
	if f.PasswordCheck != nil {
		check := *f.PasswordCheck
		cf.PasswordCheck = &check
	}
	return &cf
}

// HasTag reports whether the prompt carries the tag. Tag order is irrelevant.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// newID stamps a creation-timestamp id in milliseconds. Callers must ensure
// uniqueness against existing ids (two creations within one millisecond).
func newID(now time.Time) int64 {
	return now.UnixMilli()
}
