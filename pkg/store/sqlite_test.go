package store

import (
	"testing"

	"github.com/promptvault/promptvault/pkg/crypto"
	"github.com/promptvault/promptvault/pkg/vault"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBusyTimeoutApplied(t *testing.T) {
	s := openTestStore(t)

	// The DSN pragma must actually reach the connection; a silently ignored
	// parameter leaves it at 0.
	var timeout int
	if err := s.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("querying busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestPromptRoundTrip(t *testing.T) {
	s := openTestStore(t)

	ct, err := crypto.Encrypt("secret body", "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	check, err := crypto.MakePasswordCheck(100, "pw")
	if err != nil {
		t.Fatalf("make check: %v", err)
	}
	fid := int64(7)
	p := &vault.Prompt{
		ID:            100,
		Title:         "greeting",
		Body:          vault.EncryptedContent(ct),
		Notes:         vault.PlainContent("a note"),
		FolderID:      &fid,
		Tags:          []string{"daily", "work"},
		IsFavorite:    true,
		IsLocked:      true,
		PasswordCheck: check,
		DateCreated:   1000,
		DateModified:  2000,
	}
	if err := s.PutPrompt(p); err != nil {
		t.Fatalf("PutPrompt() error = %v", err)
	}

	got, err := s.GetAllPrompts()
	if err != nil {
		t.Fatalf("GetAllPrompts() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d prompts, want 1", len(got))
	}
	r := got[0]
	if r.ID != p.ID || r.Title != p.Title || !r.IsFavorite || !r.IsLocked {
		t.Errorf("scalar fields changed: %+v", r)
	}
	if r.FolderID == nil || *r.FolderID != fid {
		t.Errorf("folder id changed: %v", r.FolderID)
	}
	if len(r.Tags) != 2 || r.Tags[0] != "daily" {
		t.Errorf("tags changed: %v", r.Tags)
	}
	if !r.Body.Encrypted() {
		t.Fatal("body lost its ciphertext shape")
	}
	if plain, err := crypto.Decrypt(r.Body.Cipher(), "pw"); err != nil || plain != "secret body" {
		t.Errorf("ciphertext did not survive storage: %q %v", plain, err)
	}
	if r.Notes.Encrypted() || r.Notes.Plaintext() != "a note" {
		t.Errorf("notes changed: %+v", r.Notes)
	}
	if !crypto.VerifyPasswordCheck(r.PasswordCheck, 100, "pw") {
		t.Error("password check did not survive storage")
	}
}

func TestPromptUpsertOverwrites(t *testing.T) {
	s := openTestStore(t)

	p := &vault.Prompt{ID: 1, Title: "v1", Body: vault.PlainContent("x"), Notes: vault.PlainContent("")}
	if err := s.PutPrompt(p); err != nil {
		t.Fatalf("PutPrompt() error = %v", err)
	}
	p.Title = "v2"
	if err := s.PutPrompt(p); err != nil {
		t.Fatalf("PutPrompt() second error = %v", err)
	}

	got, err := s.GetAllPrompts()
	if err != nil {
		t.Fatalf("GetAllPrompts() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "v2" {
		t.Errorf("upsert did not overwrite: %+v", got)
	}
}

func TestBulkPutAndDelete(t *testing.T) {
	s := openTestStore(t)

	var ps []*vault.Prompt
	for i := int64(1); i <= 5; i++ {
		ps = append(ps, &vault.Prompt{ID: i, Title: "p", Body: vault.PlainContent("x"), Notes: vault.PlainContent("")})
	}
	if err := s.BulkPutPrompts(ps); err != nil {
		t.Fatalf("BulkPutPrompts() error = %v", err)
	}
	got, _ := s.GetAllPrompts()
	if len(got) != 5 {
		t.Fatalf("got %d prompts, want 5", len(got))
	}

	if err := s.BulkDeletePrompts([]int64{1, 3, 5}); err != nil {
		t.Fatalf("BulkDeletePrompts() error = %v", err)
	}
	got, _ = s.GetAllPrompts()
	if len(got) != 2 {
		t.Errorf("got %d prompts after delete, want 2", len(got))
	}

	if err := s.BulkPutPrompts(nil); err != nil {
		t.Errorf("empty bulk put: %v", err)
	}
	if err := s.BulkDeletePrompts(nil); err != nil {
		t.Errorf("empty bulk delete: %v", err)
	}
}

func TestFolderRoundTrip(t *testing.T) {
	s := openTestStore(t)

	check, err := crypto.MakePasswordCheck(7, "pw")
	if err != nil {
		t.Fatalf("make check: %v", err)
	}
	f := &vault.Folder{ID: 7, Name: "work", IsLocked: true, PasswordCheck: check}
	if err := s.PutFolder(f); err != nil {
		t.Fatalf("PutFolder() error = %v", err)
	}

	got, err := s.GetAllFolders()
	if err != nil {
		t.Fatalf("GetAllFolders() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d folders, want 1", len(got))
	}
	if got[0].Name != "work" || !got[0].IsLocked {
		t.Errorf("folder fields changed: %+v", got[0])
	}
	if !crypto.VerifyPasswordCheck(got[0].PasswordCheck, 7, "pw") {
		t.Error("folder password check did not survive storage")
	}

	// Unlock clears the check column back to NULL.
	f.IsLocked = false
	f.PasswordCheck = nil
	if err := s.PutFolder(f); err != nil {
		t.Fatalf("PutFolder() unlock error = %v", err)
	}
	got, _ = s.GetAllFolders()
	if got[0].IsLocked || got[0].PasswordCheck != nil {
		t.Errorf("unlocked folder kept lock state: %+v", got[0])
	}

	if err := s.DeleteFolder(7); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	got, _ = s.GetAllFolders()
	if len(got) != 0 {
		t.Errorf("folder not deleted")
	}
}

func TestTags(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"b", "a", "a"} {
		if err := s.PutTag(name); err != nil {
			t.Fatalf("PutTag(%q) error = %v", name, err)
		}
	}
	got, err := s.GetAllTags()
	if err != nil {
		t.Fatalf("GetAllTags() error = %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("tags = %v, want [a b]", got)
	}

	if err := s.DeleteTag("a"); err != nil {
		t.Fatalf("DeleteTag() error = %v", err)
	}
	got, _ = s.GetAllTags()
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("tags after delete = %v, want [b]", got)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	p := &vault.Prompt{ID: 1, Title: "kept", Body: vault.PlainContent("x"), Notes: vault.PlainContent("")}
	if err := s.PutPrompt(p); err != nil {
		t.Fatalf("PutPrompt() error = %v", err)
	}
	s.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	got, err := s2.GetAllPrompts()
	if err != nil {
		t.Fatalf("GetAllPrompts() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "kept" {
		t.Errorf("data lost across reopen: %+v", got)
	}
}
