package vault

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/promptvault/promptvault/pkg/crypto"
)

// Ops orchestrates the vault: it owns the in-memory mirror of the persisted
// collections (write-through: every mutation hits the store before it is
// considered committed), the session password cache, and the decrypted
// content cache. Public entry points run to completion under one mutex, so
// no two operations interleave their mutating phases.
type Ops struct {
	mu      sync.Mutex
	store   Store
	ui      Interactor
	prompts map[int64]*Prompt
	folders map[int64]*Folder
	tags    map[string]struct{}

	sessions *SessionPasswordCache
	views    *DecryptedContentCache

	now func() time.Time
}

// New loads the persisted collections into the in-memory mirror and returns
// a ready Ops.
func New(store Store, ui Interactor) (*Ops, error) {
	o := &Ops{
		store:    store,
		ui:       ui,
		prompts:  make(map[int64]*Prompt),
		folders:  make(map[int64]*Folder),
		tags:     make(map[string]struct{}),
		sessions: NewSessionPasswordCache(),
		views:    NewDecryptedContentCache(),
		now:      time.Now,
	}

	prompts, err := store.GetAllPrompts()
	if err != nil {
		return nil, fmt.Errorf("vault: loading prompts: %w", err)
	}
	for _, p := range prompts {
		o.prompts[p.ID] = p
	}

	folders, err := store.GetAllFolders()
	if err != nil {
		return nil, fmt.Errorf("vault: loading folders: %w", err)
	}
	for _, f := range folders {
		o.folders[f.ID] = f
	}

	tags, err := store.GetAllTags()
	if err != nil {
		return nil, fmt.Errorf("vault: loading tags: %w", err)
	}
	for _, t := range tags {
		o.tags[t] = struct{}{}
	}

	return o, nil
}

// Draft is the input for creating a prompt.
type Draft struct {
	Title    string
	Body     string
	Notes    string
	FolderID *int64
	Tags     []string
	Favorite bool

	// Lock requests an own-password lock on the new prompt. Ignored when
	// the destination folder is locked; the folder password governs then.
	Lock bool
}

// Update carries partial changes for SavePrompt. Nil fields are untouched.
type Update struct {
	Title    *string
	Body     *string
	Notes    *string
	Tags     *[]string
	Favorite *bool
}

// MoveStatus is the per-item outcome of a batch move.
type MoveStatus string

const (
	MoveDone    MoveStatus = "moved"
	MoveSkipped MoveStatus = "skipped"
)

// MoveOutcome reports what happened to one prompt in a batch move.
type MoveOutcome struct {
	PromptID int64
	Status   MoveStatus
	Reason   string // empty when moved
}

// DeleteStrategy selects what happens to a deleted folder's prompts.
type DeleteStrategy int

const (
	// MoveOut detaches contained prompts to unfiled, decrypting them first
	// if the folder is locked.
	MoveOut DeleteStrategy = iota
	// DeleteContents removes contained prompts outright. No password is
	// needed because nothing is retained.
	DeleteContents
)

// ---- accessors ----

// Prompt returns a copy of the prompt with the given id.
func (o *Ops) Prompt(id int64) (*Prompt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.prompts[id]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %d", ErrNotFound, id)
	}
	return p.Clone(), nil
}

// Folder returns a copy of the folder with the given id.
func (o *Ops) Folder(id int64) (*Folder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, ok := o.folders[id]
	if !ok {
		return nil, fmt.Errorf("%w: folder %d", ErrNotFound, id)
	}
	return f.Clone(), nil
}

// Prompts returns copies of all prompts ordered by creation.
func (o *Ops) Prompts() []*Prompt {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Prompt, 0, len(o.prompts))
	for _, p := range o.prompts {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Folders returns copies of all folders ordered by creation.
func (o *Ops) Folders() []*Folder {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Folder, 0, len(o.folders))
	for _, f := range o.folders {
		out = append(out, f.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tags returns the global tag registry, sorted.
func (o *Ops) Tags() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.tags))
	for t := range o.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// State derives the lock state of a prompt.
func (o *Ops) State(promptID int64) (PromptLockState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.prompts[promptID]
	if !ok {
		return StatePlaintext, fmt.Errorf("%w: prompt %d", ErrNotFound, promptID)
	}
	return PromptState(p, o.folderOf(p)), nil
}

// ---- prompt lifecycle ----

// CreatePrompt creates and persists a new prompt. Content destined for a
// locked folder is encrypted under the folder password before it is written;
// a Draft with Lock set collects a fresh password and locks the new prompt
// itself.
func (o *Ops) CreatePrompt(d Draft) (*Prompt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if d.Title == "" {
		return nil, ErrNameEmpty
	}

	var folder *Folder
	if d.FolderID != nil {
		var ok bool
		folder, ok = o.folders[*d.FolderID]
		if !ok {
			return nil, fmt.Errorf("%w: folder %d", ErrNotFound, *d.FolderID)
		}
	}

	now := o.now()
	p := &Prompt{
		ID:           o.nextID(),
		Title:        d.Title,
		Body:         PlainContent(d.Body),
		Notes:        PlainContent(d.Notes),
		Tags:         append([]string(nil), d.Tags...),
		IsFavorite:   d.Favorite,
		DateCreated:  now.UnixMilli(),
		DateModified: now.UnixMilli(),
	}
	if d.FolderID != nil {
		id := *d.FolderID
		p.FolderID = &id
	}

	switch {
	case folder != nil && folder.IsLocked:
		// Folder lock dominates; encrypt under the folder password.
		owner := Owner{Kind: OwnerFolder, ID: folder.ID, Check: folder.PasswordCheck}
		pw, err := o.ownerPassword(owner, fmt.Sprintf("Enter password for folder %q", folder.Name))
		if err != nil {
			return nil, err
		}
		if err := o.encryptPrompt(p, pw); err != nil {
			return nil, err
		}
	case d.Lock:
		pw, err := o.newPassword(fmt.Sprintf("Set a password for %q", d.Title))
		if err != nil {
			return nil, err
		}
		check, err := crypto.MakePasswordCheck(p.ID, pw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
		p.IsLocked = true
		p.PasswordCheck = check
		if err := o.encryptPrompt(p, pw); err != nil {
			return nil, err
		}
	}

	if err := o.registerTags(p.Tags); err != nil {
		return nil, err
	}
	if err := o.store.PutPrompt(p); err != nil {
		return nil, fmt.Errorf("vault: persisting prompt: %w", err)
	}
	o.prompts[p.ID] = p
	return p.Clone(), nil
}

// SavePrompt applies a partial update. When the prompt's effective owner is
// locked, the password (remembered or freshly entered) is required and new
// content is re-encrypted with it before persisting; cancelling leaves the
// prompt untouched.
func (o *Ops) SavePrompt(id int64, u Update) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.prompts[id]
	if !ok {
		return fmt.Errorf("%w: prompt %d", ErrNotFound, id)
	}
	folder := o.folderOf(p)

	// The owner password is only needed when content changes and must be
	// re-encrypted; metadata updates leave the ciphertext untouched.
	var password string
	owner, locked := EffectiveOwner(p, folder)
	if locked && (u.Body != nil || u.Notes != nil) {
		pw, err := o.ownerPassword(owner, fmt.Sprintf("Enter password for %q", p.Title))
		if err != nil {
			return err
		}
		password = pw
	}

	clone := p.Clone()
	if u.Title != nil {
		if *u.Title == "" {
			return ErrNameEmpty
		}
		clone.Title = *u.Title
	}
	if u.Body != nil {
		c, err := encryptContent(PlainContent(*u.Body), password)
		if err != nil {
			return err
		}
		clone.Body = c
	}
	if u.Notes != nil {
		c, err := encryptContent(PlainContent(*u.Notes), password)
		if err != nil {
			return err
		}
		clone.Notes = c
	}
	if u.Tags != nil {
		clone.Tags = append([]string(nil), (*u.Tags)...)
		if err := o.registerTags(clone.Tags); err != nil {
			return err
		}
	}
	if u.Favorite != nil {
		clone.IsFavorite = *u.Favorite
	}
	clone.DateModified = o.now().UnixMilli()

	if err := o.store.PutPrompt(clone); err != nil {
		return fmt.Errorf("vault: persisting prompt: %w", err)
	}
	o.prompts[id] = clone

	// Keep an already-open view coherent with the new content.
	if body, notes, ok := o.views.Get(id); ok {
		if u.Body != nil {
			body = *u.Body
		}
		if u.Notes != nil {
			notes = *u.Notes
		}
		o.views.Put(id, body, notes)
	}
	return nil
}

// DeletePrompt removes a prompt. No password is required; nothing is
// retained.
func (o *Ops) DeletePrompt(id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.prompts[id]
	if !ok {
		return fmt.Errorf("%w: prompt %d", ErrNotFound, id)
	}
	if err := o.store.DeletePrompt(id); err != nil {
		return fmt.Errorf("vault: deleting prompt: %w", err)
	}
	delete(o.prompts, id)
	o.sessions.Forget(Owner{Kind: OwnerPrompt, ID: p.ID})
	o.views.Clear()
	return nil
}

// ---- open / view ----

// OpenForView resolves the lock state of a prompt and returns its plaintext
// view. A locked entity consults the session cache first, then prompts for
// the password. Unlocking a folder-locked prompt decrypts every sibling in
// the folder into the content cache, so browsing the folder does not
// re-prompt. Cancelling returns ErrCancelled and leaves the cache empty.
func (o *Ops) OpenForView(promptID int64) (*DecryptedView, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.prompts[promptID]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %d", ErrNotFound, promptID)
	}
	folder := o.folderOf(p)

	owner, locked := EffectiveOwner(p, folder)
	if !locked {
		return &DecryptedView{
			PromptID: p.ID,
			Title:    p.Title,
			Body:     p.Body.Plaintext(),
			Notes:    p.Notes.Plaintext(),
		}, nil
	}

	if body, notes, ok := o.views.Get(promptID); ok {
		return &DecryptedView{PromptID: p.ID, Title: p.Title, Body: body, Notes: notes}, nil
	}

	pw, err := o.ownerPassword(owner, fmt.Sprintf("Enter password for %q", p.Title))
	if err != nil {
		return nil, err
	}

	if owner.Kind == OwnerFolder {
		// Amortize the prompt's password across the whole folder.
		for _, sibling := range o.promptsInFolder(owner.ID) {
			body, err := decryptContent(sibling.Body, pw)
			if err != nil {
				log.Printf("vault: prompt %d in folder %d did not decrypt, skipping", sibling.ID, owner.ID)
				continue
			}
			notes, err := decryptContent(sibling.Notes, pw)
			if err != nil {
				log.Printf("vault: prompt %d in folder %d did not decrypt, skipping", sibling.ID, owner.ID)
				continue
			}
			o.views.Put(sibling.ID, body.Plaintext(), notes.Plaintext())
		}
	} else {
		body, err := decryptContent(p.Body, pw)
		if err != nil {
			return nil, err
		}
		notes, err := decryptContent(p.Notes, pw)
		if err != nil {
			return nil, err
		}
		o.views.Put(p.ID, body.Plaintext(), notes.Plaintext())
	}

	body, notes, ok := o.views.Get(promptID)
	if !ok {
		return nil, fmt.Errorf("%w: prompt %d content", ErrWrongPassword, promptID)
	}
	return &DecryptedView{PromptID: p.ID, Title: p.Title, Body: body, Notes: notes}, nil
}

// CloseView invalidates the decrypted content cache. Called whenever the
// detail view closes; always a full clear.
func (o *Ops) CloseView() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.views.Clear()
}

// ---- lock transitions ----

// TogglePromptLock locks or unlocks a single prompt with its own password.
// Rejected while the owning folder is locked. Unlocking returns the
// plaintext view so the caller can re-display the content.
func (o *Ops) TogglePromptLock(promptID int64, locked bool) (*DecryptedView, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.prompts[promptID]
	if !ok {
		return nil, fmt.Errorf("%w: prompt %d", ErrNotFound, promptID)
	}
	folder := o.folderOf(p)
	if err := CanToggleOwnLock(p, folder); err != nil {
		return nil, err
	}
	if p.IsLocked == locked {
		return nil, nil
	}

	clone := p.Clone()
	var view *DecryptedView

	if locked {
		pw, err := o.newPassword(fmt.Sprintf("Set a password for %q", p.Title))
		if err != nil {
			return nil, err
		}
		check, err := crypto.MakePasswordCheck(p.ID, pw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
		}
		clone.IsLocked = true
		clone.PasswordCheck = check
		if err := o.encryptPrompt(clone, pw); err != nil {
			return nil, err
		}
	} else {
		owner := Owner{Kind: OwnerPrompt, ID: p.ID, Check: p.PasswordCheck}
		pw, err := o.ownerPassword(owner, fmt.Sprintf("Enter password for %q", p.Title))
		if err != nil {
			return nil, err
		}
		body, err := decryptContent(clone.Body, pw)
		if err != nil {
			return nil, err
		}
		notes, err := decryptContent(clone.Notes, pw)
		if err != nil {
			return nil, err
		}
		clone.Body = body
		clone.Notes = notes
		clone.IsLocked = false
		clone.PasswordCheck = nil
		o.sessions.Forget(owner)
		view = &DecryptedView{
			PromptID: clone.ID,
			Title:    clone.Title,
			Body:     body.Plaintext(),
			Notes:    notes.Plaintext(),
		}
	}

	clone.DateModified = o.now().UnixMilli()
	if err := o.store.PutPrompt(clone); err != nil {
		return nil, fmt.Errorf("vault: persisting prompt: %w", err)
	}
	o.prompts[promptID] = clone
	o.views.Clear()
	return view, nil
}

// SetFolderLock locks or unlocks a folder and re-encrypts or decrypts every
// contained prompt under the folder password. The bulk write goes through
// one store transaction; the per-item transform is idempotent, so re-running
// after an interruption converges on the target state.
func (o *Ops) SetFolderLock(folderID int64, locked bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	f, ok := o.folders[folderID]
	if !ok {
		return fmt.Errorf("%w: folder %d", ErrNotFound, folderID)
	}
	if f.IsLocked == locked {
		return nil
	}

	if locked {
		return o.lockFolder(f)
	}
	return o.unlockFolder(f)
}

func (o *Ops) lockFolder(f *Folder) error {
	pw, err := o.newPassword(fmt.Sprintf("Set a password for folder %q", f.Name))
	if err != nil {
		return err
	}
	check, err := crypto.MakePasswordCheck(f.ID, pw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	var updated []*Prompt
	for _, p := range o.promptsInFolder(f.ID) {
		clone := p.Clone()

		// A prompt carrying its own lock must be re-keyed to the folder
		// password, which needs its own password first. If the user cannot
		// supply it the prompt keeps its own lock; its content stays
		// recoverable through its own oracle.
		if clone.IsLocked {
			own := Owner{Kind: OwnerPrompt, ID: clone.ID, Check: clone.PasswordCheck}
			opw, err := o.ownerPassword(own, fmt.Sprintf("Enter the current password for %q", clone.Title))
			if err != nil {
				o.ui.Alert(fmt.Sprintf("%q kept its own lock: no password supplied.", clone.Title))
				continue
			}
			body, err := decryptContent(clone.Body, opw)
			if err != nil {
				o.ui.Alert(fmt.Sprintf("%q kept its own lock: content did not decrypt.", clone.Title))
				continue
			}
			notes, err := decryptContent(clone.Notes, opw)
			if err != nil {
				o.ui.Alert(fmt.Sprintf("%q kept its own lock: content did not decrypt.", clone.Title))
				continue
			}
			clone.Body = body
			clone.Notes = notes
			clone.IsLocked = false
			clone.PasswordCheck = nil
			o.sessions.Forget(own)
		}

		if err := o.encryptPrompt(clone, pw); err != nil {
			return err
		}
		updated = append(updated, clone)
	}

	fc := f.Clone()
	fc.IsLocked = true
	fc.PasswordCheck = check

	if err := o.store.BulkPutPrompts(updated); err != nil {
		return fmt.Errorf("vault: persisting folder contents: %w", err)
	}
	if err := o.store.PutFolder(fc); err != nil {
		return fmt.Errorf("vault: persisting folder: %w", err)
	}
	for _, p := range updated {
		o.prompts[p.ID] = p
	}
	o.folders[f.ID] = fc
	o.views.Clear()
	return nil
}

func (o *Ops) unlockFolder(f *Folder) error {
	owner := Owner{Kind: OwnerFolder, ID: f.ID, Check: f.PasswordCheck}
	pw, err := o.ownerPassword(owner, fmt.Sprintf("Enter password for folder %q", f.Name))
	if err != nil {
		return err
	}

	var updated []*Prompt
	for _, p := range o.promptsInFolder(f.ID) {
		clone := p.Clone()
		body, err := decryptContent(clone.Body, pw)
		if err != nil {
			log.Printf("vault: prompt %d in folder %d did not decrypt, leaving as-is", p.ID, f.ID)
			continue
		}
		notes, err := decryptContent(clone.Notes, pw)
		if err != nil {
			log.Printf("vault: prompt %d in folder %d did not decrypt, leaving as-is", p.ID, f.ID)
			continue
		}
		clone.Body = body
		clone.Notes = notes
		updated = append(updated, clone)
	}

	fc := f.Clone()
	fc.IsLocked = false
	fc.PasswordCheck = nil

	if err := o.store.BulkPutPrompts(updated); err != nil {
		return fmt.Errorf("vault: persisting folder contents: %w", err)
	}
	if err := o.store.PutFolder(fc); err != nil {
		return fmt.Errorf("vault: persisting folder: %w", err)
	}
	for _, p := range updated {
		o.prompts[p.ID] = p
	}
	o.folders[f.ID] = fc
	o.sessions.Forget(owner)
	o.views.Clear()
	return nil
}

// ---- folders ----

// CreateFolder creates and persists a new, unlocked folder.
func (o *Ops) CreateFolder(name string) (*Folder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if name == "" {
		return nil, ErrNameEmpty
	}
	f := &Folder{ID: o.nextID(), Name: name}
	if err := o.store.PutFolder(f); err != nil {
		return nil, fmt.Errorf("vault: persisting folder: %w", err)
	}
	o.folders[f.ID] = f
	return f.Clone(), nil
}

// RenameFolder changes a folder's display name. The password oracle is bound
// to the folder id, so renaming never touches encryption state.
func (o *Ops) RenameFolder(id int64, name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if name == "" {
		return ErrNameEmpty
	}
	f, ok := o.folders[id]
	if !ok {
		return fmt.Errorf("%w: folder %d", ErrNotFound, id)
	}
	clone := f.Clone()
	clone.Name = name
	if err := o.store.PutFolder(clone); err != nil {
		return fmt.Errorf("vault: persisting folder: %w", err)
	}
	o.folders[id] = clone
	return nil
}

// DeleteFolder removes a folder. MoveOut detaches contained prompts to
// unfiled as plaintext, which requires the folder password when locked.
// DeleteContents removes the prompts outright without any password.
func (o *Ops) DeleteFolder(folderID int64, strategy DeleteStrategy) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	f, ok := o.folders[folderID]
	if !ok {
		return fmt.Errorf("%w: folder %d", ErrNotFound, folderID)
	}
	contained := o.promptsInFolder(folderID)
	owner := Owner{Kind: OwnerFolder, ID: f.ID, Check: f.PasswordCheck}

	switch strategy {
	case MoveOut:
		var pw string
		if f.IsLocked {
			var err error
			pw, err = o.ownerPassword(owner, fmt.Sprintf("Enter password for folder %q", f.Name))
			if err != nil {
				return err
			}
		}

		// Decrypt everything up front: deleting the folder destroys its
		// oracle, so a prompt that will not decrypt must abort the whole
		// operation instead of being detached as orphaned ciphertext.
		detached := make([]*Prompt, 0, len(contained))
		for _, p := range contained {
			clone := p.Clone()
			clone.FolderID = nil
			clone.DateModified = o.now().UnixMilli()

			// A prompt carrying its own lock answers to its own password,
			// not the folder's: detach it with its lock and oracle intact.
			if clone.IsLocked {
				detached = append(detached, clone)
				continue
			}

			body, err := decryptContent(clone.Body, pw)
			if err != nil {
				return fmt.Errorf("%w: prompt %d did not decrypt", ErrWrongPassword, p.ID)
			}
			notes, err := decryptContent(clone.Notes, pw)
			if err != nil {
				return fmt.Errorf("%w: prompt %d did not decrypt", ErrWrongPassword, p.ID)
			}
			clone.Body = body
			clone.Notes = notes
			clone.PasswordCheck = nil
			detached = append(detached, clone)
		}

		if err := o.store.BulkPutPrompts(detached); err != nil {
			return fmt.Errorf("vault: detaching prompts: %w", err)
		}
		if err := o.store.DeleteFolder(folderID); err != nil {
			return fmt.Errorf("vault: deleting folder: %w", err)
		}
		for _, p := range detached {
			o.prompts[p.ID] = p
		}

	case DeleteContents:
		ids := make([]int64, 0, len(contained))
		for _, p := range contained {
			ids = append(ids, p.ID)
		}
		if err := o.store.BulkDeletePrompts(ids); err != nil {
			return fmt.Errorf("vault: deleting prompts: %w", err)
		}
		if err := o.store.DeleteFolder(folderID); err != nil {
			return fmt.Errorf("vault: deleting folder: %w", err)
		}
		for _, p := range contained {
			delete(o.prompts, p.ID)
			o.sessions.Forget(Owner{Kind: OwnerPrompt, ID: p.ID})
		}

	default:
		return fmt.Errorf("vault: unknown delete strategy %d", strategy)
	}

	delete(o.folders, folderID)
	o.sessions.Forget(owner)
	o.views.Clear()
	return nil
}

// ---- move ----

// MovePrompts moves prompts into the destination folder (nil = unfiled) and
// reports a per-item outcome. Each distinct locked source owner is asked for
// its password at most once; a wrong or withheld source password skips that
// owner's prompts without failing the batch. A withheld destination password
// cancels the whole batch before anything mutates. Moving always clears a
// prompt's own lock: lock state is inherited solely from the destination
// folder afterwards.
func (o *Ops) MovePrompts(promptIDs []int64, destFolderID *int64) ([]MoveOutcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var dest *Folder
	if destFolderID != nil {
		var ok bool
		dest, ok = o.folders[*destFolderID]
		if !ok {
			return nil, fmt.Errorf("%w: folder %d", ErrNotFound, *destFolderID)
		}
	}

	var destPW string
	if dest != nil && dest.IsLocked {
		owner := Owner{Kind: OwnerFolder, ID: dest.ID, Check: dest.PasswordCheck}
		pw, err := o.ownerPassword(owner, fmt.Sprintf("Enter password for destination folder %q", dest.Name))
		if err != nil {
			return nil, err
		}
		destPW = pw
	}

	srcPasswords := make(map[string]string)
	srcRefused := make(map[string]string) // owner key -> reason

	outcomes := make([]MoveOutcome, 0, len(promptIDs))
	var moved []*Prompt
	var clearedOwn []int64

	for _, id := range promptIDs {
		p, ok := o.prompts[id]
		if !ok {
			outcomes = append(outcomes, MoveOutcome{PromptID: id, Status: MoveSkipped, Reason: "not found"})
			continue
		}
		folder := o.folderOf(p)
		clone := p.Clone()

		if owner, locked := EffectiveOwner(p, folder); locked {
			key := owner.CacheKey()
			if reason, refused := srcRefused[key]; refused {
				outcomes = append(outcomes, MoveOutcome{PromptID: id, Status: MoveSkipped, Reason: reason})
				continue
			}
			pw, have := srcPasswords[key]
			if !have {
				var err error
				pw, err = o.ownerPassword(owner, fmt.Sprintf("Enter password for %q", ownerLabel(owner, folder, p)))
				if err != nil {
					reason := "password withheld"
					if errors.Is(err, ErrWrongPassword) {
						reason = "wrong password"
					}
					srcRefused[key] = reason
					outcomes = append(outcomes, MoveOutcome{PromptID: id, Status: MoveSkipped, Reason: reason})
					continue
				}
				srcPasswords[key] = pw
			}

			body, err := decryptContent(clone.Body, pw)
			if err != nil {
				outcomes = append(outcomes, MoveOutcome{PromptID: id, Status: MoveSkipped, Reason: "content did not decrypt"})
				continue
			}
			notes, err := decryptContent(clone.Notes, pw)
			if err != nil {
				outcomes = append(outcomes, MoveOutcome{PromptID: id, Status: MoveSkipped, Reason: "content did not decrypt"})
				continue
			}
			clone.Body = body
			clone.Notes = notes
			if owner.Kind == OwnerPrompt {
				clearedOwn = append(clearedOwn, p.ID)
			}
		}

		clone.IsLocked = false
		clone.PasswordCheck = nil
		if destFolderID != nil {
			fid := *destFolderID
			clone.FolderID = &fid
		} else {
			clone.FolderID = nil
		}

		if destPW != "" {
			if err := o.encryptPrompt(clone, destPW); err != nil {
				return outcomes, err
			}
		}

		clone.DateModified = o.now().UnixMilli()
		moved = append(moved, clone)
		outcomes = append(outcomes, MoveOutcome{PromptID: id, Status: MoveDone})
	}

	if err := o.store.BulkPutPrompts(moved); err != nil {
		return nil, fmt.Errorf("vault: persisting moved prompts: %w", err)
	}
	for _, p := range moved {
		o.prompts[p.ID] = p
	}
	for _, id := range clearedOwn {
		o.sessions.Forget(Owner{Kind: OwnerPrompt, ID: id})
	}
	if len(moved) > 0 {
		o.views.Clear()
	}
	return outcomes, nil
}

// ---- tags ----

// AddTag adds a name to the global tag registry.
func (o *Ops) AddTag(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if name == "" {
		return ErrNameEmpty
	}
	if _, ok := o.tags[name]; ok {
		return fmt.Errorf("%w: %q", ErrTagExists, name)
	}
	if err := o.store.PutTag(name); err != nil {
		return fmt.Errorf("vault: persisting tag: %w", err)
	}
	o.tags[name] = struct{}{}
	return nil
}

// RemoveTag removes a tag from the registry and strips it from every prompt
// carrying it. Tags are not security-relevant, so locked prompts are updated
// without any password.
func (o *Ops) RemoveTag(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.tags[name]; !ok {
		return fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}

	var updated []*Prompt
	for _, p := range o.prompts {
		if !p.HasTag(name) {
			continue
		}
		clone := p.Clone()
		kept := clone.Tags[:0]
		for _, t := range clone.Tags {
			if t != name {
				kept = append(kept, t)
			}
		}
		clone.Tags = kept
		updated = append(updated, clone)
	}

	if err := o.store.BulkPutPrompts(updated); err != nil {
		return fmt.Errorf("vault: persisting prompts: %w", err)
	}
	if err := o.store.DeleteTag(name); err != nil {
		return fmt.Errorf("vault: deleting tag: %w", err)
	}
	for _, p := range updated {
		o.prompts[p.ID] = p
	}
	delete(o.tags, name)
	return nil
}

// ---- export / import ----

// ExportData returns copies of all collections for serialization. Ciphertext
// fields pass through untouched; export never decrypts.
func (o *Ops) ExportData() (prompts []*Prompt, folders []*Folder, tags []string) {
	return o.Prompts(), o.Folders(), o.Tags()
}

// ImportData merges collections by id: existing ids are overwritten, unknown
// ids inserted, tags unioned. Ciphertext fields are taken verbatim, so
// locked entries stay locked and need their original passwords. A prompt
// referencing a folder absent after the merge is detached to unfiled.
func (o *Ops) ImportData(prompts []*Prompt, folders []*Folder, tags []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, f := range folders {
		clone := f.Clone()
		if err := o.store.PutFolder(clone); err != nil {
			return fmt.Errorf("vault: importing folder %d: %w", f.ID, err)
		}
		o.folders[clone.ID] = clone
	}

	imported := make([]*Prompt, 0, len(prompts))
	for _, p := range prompts {
		clone := p.Clone()
		if clone.FolderID != nil {
			if _, ok := o.folders[*clone.FolderID]; !ok {
				clone.FolderID = nil
			}
		}
		imported = append(imported, clone)
	}
	if err := o.store.BulkPutPrompts(imported); err != nil {
		return fmt.Errorf("vault: importing prompts: %w", err)
	}
	for _, p := range imported {
		o.prompts[p.ID] = p
	}

	for _, t := range tags {
		if _, ok := o.tags[t]; ok || t == "" {
			continue
		}
		if err := o.store.PutTag(t); err != nil {
			return fmt.Errorf("vault: importing tag %q: %w", t, err)
		}
		o.tags[t] = struct{}{}
	}
	return nil
}

// ---- internals ----

func (o *Ops) folderOf(p *Prompt) *Folder {
	if p.FolderID == nil {
		return nil
	}
	return o.folders[*p.FolderID]
}

func (o *Ops) promptsInFolder(folderID int64) []*Prompt {
	var out []*Prompt
	for _, p := range o.prompts {
		if p.FolderID != nil && *p.FolderID == folderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// nextID stamps a creation-timestamp id, bumping past collisions so ids stay
// unique across both collections.
func (o *Ops) nextID() int64 {
	id := newID(o.now())
	for {
		_, p := o.prompts[id]
		_, f := o.folders[id]
		if !p && !f {
			return id
		}
		id++
	}
}

// ownerPassword resolves the password for a locked owner: the session cache
// first, then a prompt through the interactor. The returned password is
// always verified against the owner's oracle; a result failing verification
// maps to ErrWrongPassword, a nil result to ErrCancelled.
func (o *Ops) ownerPassword(owner Owner, message string) (string, error) {
	if pw, ok := o.sessions.Get(owner); ok && owner.Verify(pw) {
		return pw, nil
	}

	res := o.ui.Password(message, owner.Verify)
	if res == nil {
		return "", ErrCancelled
	}
	if !owner.Verify(res.Password) {
		return "", ErrWrongPassword
	}
	if res.Remember {
		o.sessions.Put(owner, res.Password)
	}
	return res.Password, nil
}

// newPassword collects a fresh password for a lock transition. Empty input
// counts as cancelling; an empty password would make encryption a no-op.
func (o *Ops) newPassword(message string) (string, error) {
	res := o.ui.Password(message, nil)
	if res == nil || res.Password == "" {
		return "", ErrCancelled
	}
	return res.Password, nil
}

// encryptPrompt encrypts the prompt's body and notes in place under password.
// Already-encrypted or empty fields pass through, which makes re-running an
// interrupted bulk operation idempotent.
func (o *Ops) encryptPrompt(p *Prompt, password string) error {
	body, err := encryptContent(p.Body, password)
	if err != nil {
		return err
	}
	notes, err := encryptContent(p.Notes, password)
	if err != nil {
		return err
	}
	p.Body = body
	p.Notes = notes
	return nil
}

// encryptContent encrypts plaintext content. Encrypted input, empty text and
// empty passwords pass through unchanged; a cipher failure blocks the caller
// with ErrEncryptionFailed rather than silently degrading to plaintext.
func encryptContent(c Content, password string) (Content, error) {
	if c.Encrypted() || password == "" || c.Plaintext() == "" {
		return c, nil
	}
	ct, err := crypto.Encrypt(c.Plaintext(), password)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	return EncryptedContent(ct), nil
}

// decryptContent decrypts encrypted content. Plaintext input and empty
// passwords pass through unchanged. A failure maps to ErrWrongPassword;
// wrong password and corrupt data are indistinguishable by design.
func decryptContent(c Content, password string) (Content, error) {
	if !c.Encrypted() || password == "" {
		return c, nil
	}
	plain, err := crypto.Decrypt(c.Cipher(), password)
	if err != nil {
		return c, ErrWrongPassword
	}
	return PlainContent(plain), nil
}

// registerTags adds unknown tags to the global registry.
func (o *Ops) registerTags(tags []string) error {
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := o.tags[t]; ok {
			continue
		}
		if err := o.store.PutTag(t); err != nil {
			return fmt.Errorf("vault: persisting tag: %w", err)
		}
		o.tags[t] = struct{}{}
	}
	return nil
}

func ownerLabel(owner Owner, folder *Folder, p *Prompt) string {
	if owner.Kind == OwnerFolder && folder != nil {
		return "folder " + folder.Name
	}
	return p.Title
}
