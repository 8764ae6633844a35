package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptvault/promptvault/pkg/vault"
)

// Move command flags
var (
	moveTo      string
	moveUnfiled bool
)

var moveCmd = &cobra.Command{
	Use:   "move <id>...",
	Short: "Move prompts to another folder",
	Long: `Move prompts into a folder (or to unfiled with --unfiled).

Moving is also how content changes hands between locks: the prompt is
decrypted with its current owner's password and re-encrypted under the
destination folder's password if that folder is locked. A wrong or withheld
source password skips that owner's prompts; the rest of the batch proceeds.

Examples:
  promptvault move 17 --to Work
  promptvault move 17 23 42 --unfiled`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (moveTo != "") == moveUnfiled {
			return fmt.Errorf("specify exactly one of --to or --unfiled")
		}

		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		var dest *int64
		if moveTo != "" {
			f, err := resolveFolder(moveTo)
			if err != nil {
				return err
			}
			dest = &f.ID
		}

		outcomes, err := ops.MovePrompts(ids, dest)
		if err != nil {
			return err
		}
		for _, oc := range outcomes {
			if oc.Status == vault.MoveDone {
				fmt.Printf("%d moved\n", oc.PromptID)
			} else {
				fmt.Printf("%d skipped: %s\n", oc.PromptID, oc.Reason)
			}
		}
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveTo, "to", "", "destination folder (name or id)")
	moveCmd.Flags().BoolVar(&moveUnfiled, "unfiled", false, "move out of any folder")
	rootCmd.AddCommand(moveCmd)
}
