package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptvault/promptvault/pkg/backup"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the vault to a JSON archive",
	Long: `Export all prompts, folders and tags to a JSON archive. Encrypted
content is exported as-is; locked entries in the archive still need their
original passwords after an import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts, folders, tags := ops.ExportData()
		if err := backup.WriteFile(args[0], prompts, folders, tags); err != nil {
			return err
		}
		fmt.Printf("Exported %d prompts, %d folders, %d tags\n", len(prompts), len(folders), len(tags))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON archive",
	Long: `Import an archive, merging by id: entries with known ids are
overwritten, new ids are added, tags are unioned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := backup.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := ops.ImportData(a.Prompts, a.Folders, a.GlobalTags); err != nil {
			return err
		}
		fmt.Printf("Imported %d prompts, %d folders, %d tags\n", len(a.Prompts), len(a.Folders), len(a.GlobalTags))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
