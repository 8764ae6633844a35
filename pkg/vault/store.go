package vault

// Store is the persistent key-value backend the vault writes through to.
// Bulk operations must be transactional at the single-collection level:
// either every item in the batch is persisted or none are.
type Store interface {
	GetAllPrompts() ([]*Prompt, error)
	PutPrompt(p *Prompt) error
	BulkPutPrompts(ps []*Prompt) error
	DeletePrompt(id int64) error
	BulkDeletePrompts(ids []int64) error

	GetAllFolders() ([]*Folder, error)
	PutFolder(f *Folder) error
	DeleteFolder(id int64) error

	GetAllTags() ([]string, error)
	PutTag(name string) error
	DeleteTag(name string) error
}
