package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"altcred/internal/dashboard"
	"altcred/internal/models"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an applicant and render the assessment",
	Long:  "Builds the applicant from flags, or from a sample profile served by the API, posts it to /score and renders the credit score gauge, rating, decision and feature impact.",
	RunE:  runScore,
}

var (
	scoreSample   string
	scoreJSON     bool
	scoreFeatures = models.FeatureVector{
		Age:                 30,
		Income:              50000,
		UPITxnCount:         100,
		BillPaymentScore:    80,
		MobileRechargeScore: 70,
		EcommerceSpend:      10000,
	}
)

func init() {
	f := scoreCmd.Flags()
	f.StringVarP(&scoreSample, "sample", "s", "", "Sample profile id to score instead of the manual inputs (see 'altcred samples')")
	f.BoolVar(&scoreJSON, "json", false, "Print the raw scoring result as JSON")

	f.Float64Var(&scoreFeatures.Age, models.FeatureAge, scoreFeatures.Age, "Age in years")
	f.Float64Var(&scoreFeatures.Income, models.FeatureIncome, scoreFeatures.Income, "Monthly income")
	f.Float64Var(&scoreFeatures.UPITxnCount, models.FeatureUPITxnCount, scoreFeatures.UPITxnCount, "UPI transactions per month")
	f.Float64Var(&scoreFeatures.BillPaymentScore, models.FeatureBillPaymentScore, scoreFeatures.BillPaymentScore, "Bill payment score (0-100)")
	f.Float64Var(&scoreFeatures.MobileRechargeScore, models.FeatureMobileRechargeScore, scoreFeatures.MobileRechargeScore, "Mobile recharge score (0-100)")
	f.Float64Var(&scoreFeatures.EcommerceSpend, models.FeatureEcommerceSpend, scoreFeatures.EcommerceSpend, "E-commerce spend per month")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newClient()
	out := cmd.OutOrStdout()

	features := scoreFeatures
	if scoreSample != "" {
		profile, err := client.Sample(ctx, scoreSample)
		if err != nil {
			return fmt.Errorf("%s", dashboard.ErrorMessage(err))
		}
		dashboard.RenderProfile(out, *profile)
		fmt.Fprintln(out)
		features = profile.Features
	}

	res, err := client.Score(ctx, features)
	if err != nil {
		return fmt.Errorf("%s", dashboard.ErrorMessage(err))
	}

	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	dashboard.Render(out, features, res)
	return nil
}
