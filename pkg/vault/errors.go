package vault

import "errors"

// Sentinel errors for the vault core. WrongPassword and Cancelled are
// user-recoverable outcomes; NotFound indicates a consistency fault between
// the in-memory mirror and the caller's view.
var (
	// ErrWrongPassword is the oracle-mismatch outcome. It never destroys
	// data; the operation aborts with state untouched.
	ErrWrongPassword = errors.New("vault: incorrect password")

	// ErrCancelled means the user declined to supply a password. It is a
	// control-flow outcome, not a failure to report.
	ErrCancelled = errors.New("vault: cancelled")

	// ErrNotFound means a referenced id is absent from the model. Fatal to
	// the operation, not to the process.
	ErrNotFound = errors.New("vault: not found")

	// ErrFolderLocked rejects prompt-level lock toggles while the owning
	// folder is locked; the folder's lock dominates.
	ErrFolderLocked = errors.New("vault: folder lock governs this prompt")

	// ErrEncryptionFailed blocks a save when content could not be
	// encrypted. Nothing is persisted in that case.
	ErrEncryptionFailed = errors.New("vault: encryption failed, save aborted")

	// ErrNameEmpty rejects blank folder names and prompt titles.
	ErrNameEmpty = errors.New("vault: name must not be empty")

	// ErrTagExists and ErrTagNotFound guard the global tag registry.
	ErrTagExists   = errors.New("vault: tag already exists")
	ErrTagNotFound = errors.New("vault: tag not found")
)
