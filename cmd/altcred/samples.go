package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"altcred/internal/dashboard"
	"altcred/internal/models"
	"altcred/internal/profiles"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the sample applicant profiles",
	RunE:  runSamples,
}

var samplesOffline bool

func init() {
	samplesCmd.Flags().BoolVar(&samplesOffline, "offline", false, "Print the built-in profiles without calling the API")
	rootCmd.AddCommand(samplesCmd)
}

func runSamples(cmd *cobra.Command, _ []string) error {
	var list []models.SampleProfile
	if samplesOffline {
		list = profiles.Defaults()
	} else {
		var err error
		list, err = newClient().Samples(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", dashboard.ErrorMessage(err))
		}
	}

	out := cmd.OutOrStdout()
	for i, p := range list {
		if i > 0 {
			fmt.Fprintln(out)
		}
		dashboard.RenderProfile(out, p)
	}
	return nil
}
