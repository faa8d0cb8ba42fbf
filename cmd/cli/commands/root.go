package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fableforge/fable/pkg/api/v1/client"
	"github.com/fableforge/fable/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagSessionID     = "session-id"
)

// environment variable names
const (
	envServerAddress = "FABLE_SERVER_ADDRESS"
	envSessionID     = "FABLE_SESSION_ID"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// sessionID identifies the caller's session across commands
	sessionID string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions() // Start with defaults
	opts.BaseURL = serverAddress    // Override BaseURL
	opts.SessionID = sessionID

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	// Set basic defaults for the flags. PersistentPreRunE handles env var overrides.
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the story API server (env: FABLE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVar(&sessionID, flagSessionID, "", "Session id to act as (env: FABLE_SESSION_ID)")

	RootCmd.AddCommand(storiesCmd)
	RootCmd.AddCommand(jobsCmd)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "fable",
	Short: "Fable CLI - A command line interface for the story generation API",
	Long: `Fable CLI is a command line tool for submitting story themes, polling
generation jobs, and fetching completed stories from the Fable API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Check if the server address flag was explicitly set by the user.
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr // Override the default value with the env var
			}
		}
		if !cmd.Flags().Changed(flagSessionID) {
			if envSession := os.Getenv(envSessionID); envSession != "" {
				sessionID = envSession
			}
		}

		// Validate the final server address
		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		// Initialization now happens here, using the correct serverAddress
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
