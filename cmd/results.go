package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/spigell/lexnorm/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect stored mapping runs",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mapping runs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		query := store.ResultQuery{}
		query.Limit, _ = cmd.Flags().GetInt("limit")
		if cmd.Flags().Changed("content-id") {
			id, _ := cmd.Flags().GetUint("content-id")
			query.ContentID = &id
		}

		runs, err := a.results.List(cmd.Context(), query)
		if err != nil {
			return err
		}

		// The blob is left out of listings.
		for i := range runs {
			runs[i].MappingData = nil
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), runs)
	},
}

var resultsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one mapping run with its resolved matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cast.ToUintE(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}

		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		run, err := a.results.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		var data any
		if err := json.Unmarshal(run.MappingData, &data); err != nil {
			return fmt.Errorf("decoding mapping data of run %d: %w", id, err)
		}

		return render(cmd.OutOrStdout(), outputFlag(cmd), map[string]any{
			"id":                       run.ID,
			"content_id":               run.ContentID,
			"settings_id":              run.SettingsID,
			"job_role_filter":          run.JobRoleFilter,
			"overall_confidence_score": run.OverallConfidenceScore,
			"standards_count":          run.StandardsCount,
			"created_at":               run.CreatedAt,
			"mapping_data":             data,
		})
	},
}

func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := cast.ToUintE(arg)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsListCmd, resultsGetCmd)
	resultsCmd.PersistentFlags().StringP("output", "o", outputJSON, "output format: json or yaml")

	resultsListCmd.Flags().Uint("content-id", 0, "only runs of this content")
	resultsListCmd.Flags().Int("limit", 50, "maximum runs to return")
}
