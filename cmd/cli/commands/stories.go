package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// flag names for story commands
const (
	flagTheme   = "theme"
	flagStoryID = "id"
)

func init() {
	storiesCmd.AddCommand(createStoryCmd)
	storiesCmd.AddCommand(getStoryCmd)

	createStoryCmd.Flags().StringP(flagTheme, "t", "", "Theme to generate the story around")
	_ = createStoryCmd.MarkFlagRequired(flagTheme)

	getStoryCmd.Flags().StringP(flagStoryID, "i", "", "Story ID to fetch")
	_ = getStoryCmd.MarkFlagRequired(flagStoryID)
}

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Submit and fetch stories",
}

var createStoryCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new story generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		theme, err := cmd.Flags().GetString(flagTheme)
		if err != nil {
			return fmt.Errorf("error getting theme flag: %w", err)
		}

		job, err := apiClient.CreateStory(context.Background(), theme)
		if err != nil {
			return fmt.Errorf("error submitting story: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var getStoryCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a completed story as a tree",
	RunE: func(cmd *cobra.Command, _ []string) error {
		storyID, err := cmd.Flags().GetString(flagStoryID)
		if err != nil {
			return fmt.Errorf("error getting story ID flag: %w", err)
		}

		story, err := apiClient.GetCompleteStory(context.Background(), storyID)
		if err != nil {
			return fmt.Errorf("error getting story: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(story, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}
