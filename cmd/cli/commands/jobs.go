package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// flag names for job commands
const (
	flagJobID    = "id"
	flagJobLimit = "limit"
)

func init() {
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(listJobsCmd)

	getJobCmd.Flags().StringP(flagJobID, "i", "", "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired(flagJobID)

	listJobsCmd.Flags().IntP(flagJobLimit, "l", 0, "Limit the number of jobs returned")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage story generation jobs",
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job by its ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, err := cmd.Flags().GetString(flagJobID)
		if err != nil {
			return fmt.Errorf("error getting job ID flag: %w", err)
		}

		job, err := apiClient.GetJob(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error getting job: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(job, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the session's jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, err := cmd.Flags().GetInt(flagJobLimit)
		if err != nil {
			return fmt.Errorf("error getting limit flag: %w", err)
		}

		queryParams := url.Values{}
		if limit > 0 {
			queryParams.Set("limit", strconv.Itoa(limit))
		}

		jobs, err := apiClient.ListJobs(context.Background(), queryParams)
		if err != nil {
			return fmt.Errorf("error listing jobs: %w", err)
		}

		prettyJSON, err := json.MarshalIndent(jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}
