package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tagDescription string

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagRmCmd)
	tagCmd.AddCommand(tagAttachCmd)
	tagCmd.AddCommand(tagDetachCmd)

	tagAddCmd.Flags().StringVar(&tagDescription, "description", "", "Tag description")
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long:  `Commands for creating tags and attaching them to papers.`,
}

// TagResponse is one tag in tag command output.
type TagResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	t, err := db.GetOrCreateTag(ctx, args[0], tagDescription)
	if err != nil {
		exitWithError(ExitError, "creating tag: %v", err)
	}

	if humanOutput {
		fmt.Printf("Tag %q ready (id %d)\n", t.Name, t.ID)
	} else {
		outputJSON(TagResponse{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	return nil
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags",
	Args:  cobra.NoArgs,
	RunE:  runTagList,
}

func runTagList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	tags, err := db.Tags(ctx)
	if err != nil {
		exitWithError(ExitError, "listing tags: %v", err)
	}

	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResponse{ID: t.ID, Name: t.Name, Description: t.Description})
	}

	if humanOutput {
		if len(out) == 0 {
			fmt.Println("No tags")
			return nil
		}
		for _, t := range out {
			fmt.Printf("  %-20s %s\n", t.Name, t.Description)
		}
	} else {
		outputJSON(out)
	}
	return nil
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagRm,
}

func runTagRm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	deleted, err := db.DeleteTag(ctx, args[0])
	if err != nil {
		exitWithError(ExitError, "deleting tag: %v", err)
	}
	if !deleted {
		exitWithError(ExitNotFound, "tag not found: %s", args[0])
	}

	if humanOutput {
		fmt.Printf("Deleted tag %q\n", args[0])
	} else {
		outputJSON(StatusResponse{Status: "deleted"})
	}
	return nil
}

var tagAttachCmd = &cobra.Command{
	Use:   "attach <name> <paper-id>",
	Short: "Attach a tag to a paper",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagAttach,
}

func runTagAttach(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	p, err := db.Paper(ctx, args[1])
	if err != nil {
		exitWithError(ExitError, "loading paper: %v", err)
	}
	if p == nil {
		exitWithError(ExitNotFound, "paper not found: %s", args[1])
	}

	t, err := db.GetOrCreateTag(ctx, args[0], "")
	if err != nil {
		exitWithError(ExitError, "creating tag: %v", err)
	}
	if err := db.TagPaper(ctx, p.ID, t.ID); err != nil {
		exitWithError(ExitError, "tagging paper: %v", err)
	}

	if humanOutput {
		fmt.Printf("Tagged %s with %q\n", p.ID, t.Name)
	} else {
		outputJSON(StatusResponse{Status: "tagged"})
	}
	return nil
}

var tagDetachCmd = &cobra.Command{
	Use:   "detach <name> <paper-id>",
	Short: "Remove a tag from a paper",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagDetach,
}

func runTagDetach(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := mustFindHub()
	db := mustOpenDatabase(root)
	defer db.Close()

	t, err := db.TagByName(ctx, args[0])
	if err != nil {
		exitWithError(ExitError, "loading tag: %v", err)
	}
	if t == nil {
		exitWithError(ExitNotFound, "tag not found: %s", args[0])
	}
	if err := db.UntagPaper(ctx, args[1], t.ID); err != nil {
		exitWithError(ExitError, "untagging paper: %v", err)
	}

	if humanOutput {
		fmt.Printf("Removed %q from %s\n", t.Name, args[1])
	} else {
		outputJSON(StatusResponse{Status: "untagged"})
	}
	return nil
}
