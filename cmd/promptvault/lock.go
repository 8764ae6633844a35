package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock <id>",
	Short: "Lock a prompt with its own password",
	Long: `Lock a single prompt with its own password. Rejected while the
prompt's folder is locked; the folder password governs then.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = ops.TogglePromptLock(id, true)
		return err
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <id>",
	Short: "Unlock a prompt permanently",
	Long:  `Remove a prompt's own lock and store its content as plaintext again.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		view, err := ops.TogglePromptLock(id, false)
		if err != nil {
			return err
		}
		if view != nil {
			fmt.Println(view.Title)
			fmt.Println()
			fmt.Println(view.Body)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lockCmd, unlockCmd)
}
