package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/logger"
	"github.com/spigell/lexnorm/internal/store"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage course content",
}

var contentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create content from text",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		title, _ := cmd.Flags().GetString("title")
		text, _ := cmd.Flags().GetString("text")

		c, err := a.contents.Create(cmd.Context(), title, text)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), c)
	},
}

var contentUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Create content from a .txt, .md, .pdf or .docx file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = filepath.Base(args[0])
		}

		c, err := a.contents.Upload(cmd.Context(), title, filepath.Base(args[0]), data)
		if err != nil {
			return err
		}

		a.logger.Info("content uploaded", zap.Uint(logger.FieldContentID, c.ID), zap.String("file", args[0]))

		return render(cmd.OutOrStdout(), outputFlag(cmd), c)
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := a.contents.List(cmd.Context(), store.Page{Offset: skip, Limit: limit})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), list)
	},
}

var contentSummarizeCmd = &cobra.Command{
	Use:   "summarize ID",
	Short: "Generate and store the summary of a content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cast.ToUintE(args[0])
		if err != nil {
			return fmt.Errorf("invalid content id %q: %w", args[0], err)
		}

		a, err := newApplication(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		prompt, _ := cmd.Flags().GetString("prompt")

		c, err := a.contents.GenerateSummary(cmd.Context(), id, prompt)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFlag(cmd), c)
	},
}

func outputFlag(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentAddCmd, contentUploadCmd, contentListCmd, contentSummarizeCmd)
	contentCmd.PersistentFlags().StringP("output", "o", outputJSON, "output format: json or yaml")

	contentAddCmd.Flags().String("title", "", "content title")
	contentAddCmd.Flags().String("text", "", "content text")
	contentAddCmd.MarkFlagRequired("title")
	contentAddCmd.MarkFlagRequired("text")

	contentUploadCmd.Flags().String("title", "", "content title (default is the file name)")

	contentListCmd.Flags().Int("skip", 0, "records to skip")
	contentListCmd.Flags().Int("limit", 100, "maximum records to return")

	contentSummarizeCmd.Flags().String("prompt", "", "custom summary prompt")
}
