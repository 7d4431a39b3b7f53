// Package main provides the altcred terminal dashboard for the scoring API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"altcred/internal/dashboard"
)

var rootCmd = &cobra.Command{
	Use:           "altcred",
	Short:         "AltCred AI alternate credit scoring dashboard",
	Long:          "altcred scores applicants against a running scoring-api and renders the assessment in the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiURL     string
	apiTimeout time.Duration
)

func init() {
	defaultURL := os.Getenv("ALTCRED_API_URL")
	if defaultURL == "" {
		defaultURL = dashboard.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "Base URL of the scoring API")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", 10*time.Second, "HTTP timeout for API calls")
}

func newClient() *dashboard.Client {
	return dashboard.NewClient(apiURL, apiTimeout)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
