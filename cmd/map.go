package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/spigell/lexnorm/internal/mapping"
)

const promptAllRoles = "All job roles"

var errContentIDRequired = errors.New("--content-id is required")

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a content to occupational standards",
	RunE: func(cmd *cobra.Command, _ []string) error {
		contentID, _ := cmd.Flags().GetUint("content-id")
		if contentID == 0 {
			return errContentIDRequired
		}

		a, err := newApplication(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		req := mapping.Request{ContentID: contentID}
		req.JobRoleFilter, _ = cmd.Flags().GetString("job-role")

		if cmd.Flags().Changed("settings-id") {
			id, _ := cmd.Flags().GetUint("settings-id")
			req.SettingsID = &id
		}

		if selectRole, _ := cmd.Flags().GetBool("select-role"); selectRole && req.JobRoleFilter == "" {
			roles, err := a.catalog.JobRoles(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing job roles: %w", err)
			}

			rolePrompt := promptui.Select{
				Label: "Choose a job role and press ENTER",
				Items: append([]string{promptAllRoles}, roles...),
				Size:  15,
			}

			_, selected, err := rolePrompt.Run()
			if err != nil {
				return err
			}
			if selected != promptAllRoles {
				req.JobRoleFilter = selected
			}
		}

		resp, err := a.mapping.MapContent(cmd.Context(), req)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), resp)
	},
}

var batchMapCmd = &cobra.Command{
	Use:   "batch-map ID...",
	Short: "Map several contents one after another",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		a, err := newApplication(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		req := mapping.BatchRequest{ContentIDs: ids}
		req.JobRoleFilter, _ = cmd.Flags().GetString("job-role")
		if cmd.Flags().Changed("settings-id") {
			id, _ := cmd.Flags().GetUint("settings-id")
			req.SettingsID = &id
		}

		return render(cmd.OutOrStdout(), outputFlag(cmd), a.mapping.BatchMap(cmd.Context(), req))
	},
}

func init() {
	rootCmd.AddCommand(mapCmd, batchMapCmd)

	for _, c := range []*cobra.Command{mapCmd, batchMapCmd} {
		c.Flags().Uint("settings-id", 0, "settings record to apply")
		c.Flags().String("job-role", "", "case-insensitive job role substring filter")
		c.Flags().StringP("output", "o", outputJSON, "output format: json or yaml")
	}

	mapCmd.Flags().Uint("content-id", 0, "content to map")
	mapCmd.Flags().Bool("select-role", false, "choose the job role filter interactively")
}
