package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/brandlift/partnerfit/internal/model"
)

var (
	analyzeProfiles []string
	analyzeType     string
	analyzeBusiness string
	analyzeUser     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a bulk analysis from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAnalysis(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Analyzer.AnalyzeBulk(ctx, model.BulkRequest{
			Profiles:     analyzeProfiles,
			AnalysisType: model.AnalysisType(analyzeType),
			BusinessID:   analyzeBusiness,
			UserID:       analyzeUser,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeProfiles, "profile", nil, "profile handle (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeType, "type", string(model.AnalysisTypeBrandFit), "analysis type")
	analyzeCmd.Flags().StringVar(&analyzeBusiness, "business", "", "business context ID")
	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "", "user ID to bill")
	_ = analyzeCmd.MarkFlagRequired("profile")
	_ = analyzeCmd.MarkFlagRequired("business")
	_ = analyzeCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(analyzeCmd)
}
