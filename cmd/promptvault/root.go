package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/promptvault/promptvault/internal/config"
	"github.com/promptvault/promptvault/internal/ui"
	"github.com/promptvault/promptvault/pkg/store"
	"github.com/promptvault/promptvault/pkg/vault"
)

var (
	dataDir string

	cfg      *config.Config
	st       *store.SQLite
	ops      *vault.Ops
	interact terminalInteractor
)

var rootCmd = &cobra.Command{
	Use:   "promptvault",
	Short: "promptvault is an encrypted organizer for prompts and notes",
	Long: `An organizer for prompts and notes with per-folder and per-prompt
password locks. Content of locked entries is encrypted at rest; everything
else stays local and plaintext.`,
	SilenceUsage: true,
	// PersistentPreRunE opens the database and builds the vault before any
	// subcommand runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(dataDir)
		if err != nil {
			return err
		}
		st, err = store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		interact = terminalInteractor{t: ui.New()}
		ops, err = vault.New(st, interact)
		if err != nil {
			st.Close()
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st != nil {
			return st.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.promptvault)")
}

// terminalInteractor adapts the terminal UI to the vault's interaction
// boundary.
type terminalInteractor struct {
	t *ui.Terminal
}

func (i terminalInteractor) Alert(message string) { i.t.Alert(message) }

func (i terminalInteractor) Confirm(message string) bool { return i.t.Confirm(message) }

func (i terminalInteractor) Password(message string, validate func(string) bool) *vault.PasswordResult {
	res := i.t.Password(message, validate)
	if res == nil {
		return nil
	}
	return &vault.PasswordResult{Password: res.Password, Remember: res.Remember}
}

// parseID parses a numeric id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// resolveFolder accepts a folder id or a unique folder name.
func resolveFolder(arg string) (*vault.Folder, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if f, err := ops.Folder(id); err == nil {
			return f, nil
		}
	}
	var match *vault.Folder
	for _, f := range ops.Folders() {
		if f.Name == arg {
			if match != nil {
				return nil, fmt.Errorf("folder name %q is ambiguous, use the id", arg)
			}
			match = f
		}
	}
	if match == nil {
		return nil, fmt.Errorf("folder %q not found", arg)
	}
	return match, nil
}
