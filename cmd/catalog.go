package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/lexnorm/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the occupational standards catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import standards from a csv export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		replace, _ := cmd.Flags().GetBool("replace")
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		report, err := a.loader.LoadCSV(cmd.Context(), f, catalog.Options{Replace: replace, BatchSize: batchSize})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), report)
	},
}

var catalogRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List distinct job roles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		roles, err := a.catalog.JobRoles(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), roles)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd, catalogRolesCmd)
	catalogCmd.PersistentFlags().StringP("output", "o", outputJSON, "output format: json or yaml")

	catalogImportCmd.Flags().Bool("replace", false, "replace the whole catalog in one transaction")
	catalogImportCmd.Flags().Int("batch-size", 100, "rows per insert batch")
}
