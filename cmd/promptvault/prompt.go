package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/promptvault/promptvault/pkg/vault"
)

// List command flags
var (
	listFolder    string
	listTag       string
	listFavorites bool
	listByTitle   bool
)

// Add command flags
var (
	addBody     string
	addNotes    string
	addFolder   string
	addTags     string
	addFavorite bool
	addLock     bool
)

// Edit command flags
var (
	editTitle string
	editBody  string
	editNotes string
	editTags  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts",
	Long: `List prompts with their folder, tags and lock state.

Examples:
  promptvault list
  promptvault list --folder Work --by-title
  promptvault list --tag golang --favorites`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts := ops.Prompts()

		var folderID *int64
		if listFolder != "" {
			f, err := resolveFolder(listFolder)
			if err != nil {
				return err
			}
			folderID = &f.ID
		}

		filtered := prompts[:0]
		for _, p := range prompts {
			if folderID != nil && (p.FolderID == nil || *p.FolderID != *folderID) {
				continue
			}
			if listTag != "" && !p.HasTag(listTag) {
				continue
			}
			if listFavorites && !p.IsFavorite {
				continue
			}
			filtered = append(filtered, p)
		}

		if listByTitle {
			c := collate.New(language.Make(cfg.Locale))
			sort.SliceStable(filtered, func(i, j int) bool {
				return c.CompareString(filtered[i].Title, filtered[j].Title) < 0
			})
		}

		folderNames := make(map[int64]string)
		for _, f := range ops.Folders() {
			folderNames[f.ID] = f.Name
		}

		for _, p := range filtered {
			state, err := ops.State(p.ID)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%d  %s", p.ID, p.Title)
			if p.IsFavorite {
				line += "  *"
			}
			if p.FolderID != nil {
				line += "  [" + folderNames[*p.FolderID] + "]"
			}
			if len(p.Tags) > 0 {
				line += "  #" + strings.Join(p.Tags, " #")
			}
			if state != vault.StatePlaintext {
				line += "  (" + state.String() + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a prompt's content",
	Long: `Show a prompt. Locked prompts ask for the owning password; unlocking
a folder-locked prompt also decrypts its siblings for this invocation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		view, err := ops.OpenForView(id)
		if err != nil {
			if errors.Is(err, vault.ErrCancelled) {
				return nil
			}
			return err
		}
		defer ops.CloseView()

		fmt.Println(view.Title)
		fmt.Println()
		fmt.Println(view.Body)
		if view.Notes != "" {
			fmt.Println()
			fmt.Println("Notes:", view.Notes)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a prompt",
	Long: `Add a prompt.

Examples:
  promptvault add "Review checklist" --body "..." --tags work,review
  promptvault add "API key notes" --lock`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := vault.Draft{
			Title:    args[0],
			Body:     addBody,
			Notes:    addNotes,
			Favorite: addFavorite,
			Lock:     addLock,
			Tags:     splitTags(addTags),
		}
		if addFolder != "" {
			f, err := resolveFolder(addFolder)
			if err != nil {
				return err
			}
			d.FolderID = &f.ID
		}

		p, err := ops.CreatePrompt(d)
		if err != nil {
			return err
		}
		fmt.Printf("Created prompt %d\n", p.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a prompt",
	Long: `Edit a prompt. Only the given flags change; editing a locked prompt
asks for the owning password and re-encrypts the new content.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var u vault.Update
		if cmd.Flags().Changed("title") {
			u.Title = &editTitle
		}
		if cmd.Flags().Changed("body") {
			u.Body = &editBody
		}
		if cmd.Flags().Changed("notes") {
			u.Notes = &editNotes
		}
		if cmd.Flags().Changed("tags") {
			tags := splitTags(editTags)
			u.Tags = &tags
		}
		if err := ops.SavePrompt(id, u); err != nil {
			return err
		}
		fmt.Println("Saved.")
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p, err := ops.Prompt(id)
		if err != nil {
			return err
		}
		if !terminalConfirm(fmt.Sprintf("Delete %q?", p.Title)) {
			return nil
		}
		return ops.DeletePrompt(id)
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle a prompt's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p, err := ops.Prompt(id)
		if err != nil {
			return err
		}
		fav := !p.IsFavorite
		return ops.SavePrompt(id, vault.Update{Favorite: &fav})
	},
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func terminalConfirm(message string) bool {
	return interact.Confirm(message)
}

func init() {
	listCmd.Flags().StringVar(&listFolder, "folder", "", "only prompts in this folder (name or id)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only prompts carrying this tag")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "only favorite prompts")
	listCmd.Flags().BoolVar(&listByTitle, "by-title", false, "sort by title (locale-aware)")

	addCmd.Flags().StringVar(&addBody, "body", "", "prompt body")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "prompt notes")
	addCmd.Flags().StringVar(&addFolder, "folder", "", "destination folder (name or id)")
	addCmd.Flags().StringVar(&addTags, "tags", "", "comma-separated tags")
	addCmd.Flags().BoolVar(&addFavorite, "favorite", false, "mark as favorite")
	addCmd.Flags().BoolVar(&addLock, "lock", false, "lock the new prompt with its own password")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editBody, "body", "", "new body")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "new notes")
	editCmd.Flags().StringVar(&editTags, "tags", "", "new comma-separated tags")

	rootCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, rmCmd, favoriteCmd)
}
