package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptvault/promptvault/pkg/vault"
)

// Folder command flags
var (
	folderRmMoveOut       bool
	folderRmDeleteContent bool
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Folder operations",
	Long: `Manage folders for organizing prompts.

A locked folder encrypts the content of every prompt it contains under one
password. The folder lock dominates any per-prompt lock.`,
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := ops.CreateFolder(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created folder %d\n", f.ID)
		return nil
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := make(map[int64]int)
		for _, p := range ops.Prompts() {
			if p.FolderID != nil {
				counts[*p.FolderID]++
			}
		}
		for _, f := range ops.Folders() {
			line := fmt.Sprintf("%d  %s  (%d prompts)", f.ID, f.Name, counts[f.ID])
			if f.IsLocked {
				line += "  [locked]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <folder> <new-name>",
	Short: "Rename a folder",
	Long:  `Rename a folder. A locked folder keeps its password; no re-encryption happens.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFolder(args[0])
		if err != nil {
			return err
		}
		return ops.RenameFolder(f.ID, args[1])
	},
}

var folderLockCmd = &cobra.Command{
	Use:   "lock <folder>",
	Short: "Lock a folder",
	Long: `Lock a folder with a new password. The content of every contained
prompt is encrypted; prompts carrying their own lock are asked for their
current password so they can be re-keyed to the folder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFolder(args[0])
		if err != nil {
			return err
		}
		return ops.SetFolderLock(f.ID, true)
	},
}

var folderUnlockCmd = &cobra.Command{
	Use:   "unlock <folder>",
	Short: "Unlock a folder",
	Long:  `Unlock a folder permanently, decrypting all contained prompts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := resolveFolder(args[0])
		if err != nil {
			return err
		}
		return ops.SetFolderLock(f.ID, false)
	},
}

var folderRmCmd = &cobra.Command{
	Use:   "rm <folder>",
	Short: "Delete a folder",
	Long: `Delete a folder.

With --move-out, contained prompts are detached to unfiled as plaintext;
a locked folder asks for its password first. With --delete-contents, the
prompts are destroyed along with the folder and no password is needed.

Examples:
  promptvault folder rm Work --move-out
  promptvault folder rm Scratch --delete-contents`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if folderRmMoveOut == folderRmDeleteContent {
			return fmt.Errorf("specify exactly one of --move-out or --delete-contents")
		}
		f, err := resolveFolder(args[0])
		if err != nil {
			return err
		}

		strategy := vault.MoveOut
		if folderRmDeleteContent {
			strategy = vault.DeleteContents
			if !terminalConfirm(fmt.Sprintf("Delete folder %q and all prompts in it?", f.Name)) {
				return nil
			}
		}
		return ops.DeleteFolder(f.ID, strategy)
	},
}

func init() {
	folderRmCmd.Flags().BoolVar(&folderRmMoveOut, "move-out", false, "detach contained prompts to unfiled")
	folderRmCmd.Flags().BoolVar(&folderRmDeleteContent, "delete-contents", false, "delete contained prompts too")

	folderCmd.AddCommand(folderCreateCmd, folderListCmd, folderRenameCmd,
		folderLockCmd, folderUnlockCmd, folderRmCmd)
	rootCmd.AddCommand(folderCmd)
}
