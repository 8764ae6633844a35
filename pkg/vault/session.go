package vault

// SessionPasswordCache remembers passwords the user opted to keep for the
// duration of the process. It lives only in memory: nothing here is ever
// written to the store, and a restart clears it.
type SessionPasswordCache struct {
	m map[string]string
}

// NewSessionPasswordCache returns an empty cache.
func NewSessionPasswordCache() *SessionPasswordCache {
	return &SessionPasswordCache{m: make(map[string]string)}
}

// Get returns the remembered password for an owner, if any.
func (c *SessionPasswordCache) Get(owner Owner) (string, bool) {
	pw, ok := c.m[owner.CacheKey()]
	return pw, ok
}

// Put remembers a password for an owner.
func (c *SessionPasswordCache) Put(owner Owner, password string) {
	c.m[owner.CacheKey()] = password
}

// Forget drops the remembered password for an owner. Called when the owner
// is unlocked or deleted; a stale entry would silently bypass a future
// password change.
func (c *SessionPasswordCache) Forget(owner Owner) {
	delete(c.m, owner.CacheKey())
}

// Clear drops every remembered password.
func (c *SessionPasswordCache) Clear() {
	c.m = make(map[string]string)
}

// Len returns the number of remembered passwords.
func (c *SessionPasswordCache) Len() int {
	return len(c.m)
}
