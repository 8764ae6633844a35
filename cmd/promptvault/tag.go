package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Tag registry operations",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a tag to the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ops.AddTag(args[0])
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a tag from the registry and from every prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ops.RemoveTag(args[0])
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range ops.Tags() {
			fmt.Println(t)
		}
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagListCmd)
	rootCmd.AddCommand(tagCmd)
}
