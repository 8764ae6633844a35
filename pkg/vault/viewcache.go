package vault

// DecryptedView is the plaintext rendering of a prompt handed to the caller
// after a successful unlock.
type DecryptedView struct {
	PromptID int64
	Title    string
	Body     string
	Notes    string
}

// DecryptedContentCache holds decrypted bodies for the currently open locked
// view. Unlocking a folder-locked prompt decrypts all its siblings in here,
// so browsing within the folder does not re-prompt. Invalidation is
// conservative: the whole cache is cleared when the detail view closes.
type DecryptedContentCache struct {
	m map[int64]decryptedBody
}

type decryptedBody struct {
	body  string
	notes string
}

// NewDecryptedContentCache returns an empty cache.
func NewDecryptedContentCache() *DecryptedContentCache {
	return &DecryptedContentCache{m: make(map[int64]decryptedBody)}
}

// Get returns the cached plaintext for a prompt id.
func (c *DecryptedContentCache) Get(promptID int64) (body, notes string, ok bool) {
	d, ok := c.m[promptID]
	return d.body, d.notes, ok
}

// Put caches the plaintext for a prompt id.
func (c *DecryptedContentCache) Put(promptID int64, body, notes string) {
	c.m[promptID] = decryptedBody{body: body, notes: notes}
}

// Clear drops everything. Always clear fully rather than per-entry; partial
// invalidation risks serving stale plaintext after a structural mutation.
func (c *DecryptedContentCache) Clear() {
	c.m = make(map[int64]decryptedBody)
}

// Len returns the number of cached entries.
func (c *DecryptedContentCache) Len() int {
	return len(c.m)
}
