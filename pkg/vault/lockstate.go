package vault

import (
	"fmt"

	"github.com/promptvault/promptvault/pkg/crypto"
)

// PromptLockState is the derived (never stored) lock state of a prompt.
type PromptLockState int

const (
	// StatePlaintext: neither the prompt nor its folder is locked.
	StatePlaintext PromptLockState = iota
	// StateLockedOwn: the prompt carries its own lock and its folder is unlocked.
	StateLockedOwn
	// StateLockedByFolder: the owning folder is locked. Dominates the
	// prompt's own flag.
	StateLockedByFolder
)

// String returns a human-readable lock state.
func (s PromptLockState) String() string {
	switch s {
	case StatePlaintext:
		return "unlocked"
	case StateLockedOwn:
		return "locked"
	case StateLockedByFolder:
		return "locked (folder)"
	default:
		return "unknown"
	}
}

// OwnerKind distinguishes the two kinds of lockable entities.
type OwnerKind string

const (
	OwnerFolder OwnerKind = "folder"
	OwnerPrompt OwnerKind = "prompt"
)

// Owner is the effective owner of a prompt's encryption: the folder if it is
// locked, else the prompt itself. The owner's passwordCheck is the oracle
// that proves a candidate password.
type Owner struct {
	Kind  OwnerKind
	ID    int64
	Check *crypto.Ciphertext
}

// CacheKey is the session-cache key for this owner ("folder-<id>" or
// "prompt-<id>").
func (o Owner) CacheKey() string {
	return fmt.Sprintf("%s-%d", o.Kind, o.ID)
}

// Verify reports whether password is the owner's true password, via the
// passwordCheck oracle.
func (o Owner) Verify(password string) bool {
	return crypto.VerifyPasswordCheck(o.Check, o.ID, password)
}

// PromptState derives a prompt's lock state. folder is the prompt's owning
// folder, or nil for an unfiled prompt.
func PromptState(p *Prompt, folder *Folder) PromptLockState {
	if folder != nil && folder.IsLocked {
		return StateLockedByFolder
	}
	if p.IsLocked {
		return StateLockedOwn
	}
	return StatePlaintext
}

// EffectiveOwner resolves the entity whose password governs the prompt's
// encryption. ok is false when the prompt is plaintext and has no owner.
func EffectiveOwner(p *Prompt, folder *Folder) (Owner, bool) {
	switch PromptState(p, folder) {
	case StateLockedByFolder:
		return Owner{Kind: OwnerFolder, ID: folder.ID, Check: folder.PasswordCheck}, true
	case StateLockedOwn:
		return Owner{Kind: OwnerPrompt, ID: p.ID, Check: p.PasswordCheck}, true
	default:
		return Owner{}, false
	}
}

// CanToggleOwnLock rejects prompt-level lock transitions while the owning
// folder is locked; the own flag is only meaningful under an unlocked folder.
func CanToggleOwnLock(p *Prompt, folder *Folder) error {
	if folder != nil && folder.IsLocked {
		return ErrFolderLocked
	}
	return nil
}
