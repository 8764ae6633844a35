package vault

// PasswordResult is the outcome of a password prompt. Remember asks the
// vault to keep the password in the session cache.
type PasswordResult struct {
	Password string
	Remember bool
}

// Interactor is the user-interaction boundary. Implementations may suspend
// indefinitely waiting for human input; there is no timeout on a password
// prompt.
type Interactor interface {
	// Alert shows a blocking message. Every user-facing failure goes
	// through here before control returns; silent failure is disallowed.
	Alert(message string)

	// Confirm asks a yes/no question.
	Confirm(message string) bool

	// Password asks for a password. When validate is non-nil the
	// implementation should keep re-prompting while validate returns
	// false, rather than returning a bad password. A nil result means the
	// user cancelled.
	Password(message string, validate func(string) bool) *PasswordResult
}
