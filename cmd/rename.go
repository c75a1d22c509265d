package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"novelpack/internal/app"
	"novelpack/internal/service"
)

var renameCmd = &cobra.Command{
	Use:   "rename <dir>",
	Short: "Rename record files in place after their (translated) novel title",
	Args:  cobra.ExactArgs(1),
	RunE:  runRename,
}

var copyRenameCmd = &cobra.Command{
	Use:   "copy-rename <dir>",
	Short: `Copy record files to "{dir}_txt/" named after their (translated) novel title`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCopyRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(copyRenameCmd)

	renameCmd.Flags().Bool("dry-run", false, "print the plan without renaming")
	for _, c := range []*cobra.Command{renameCmd, copyRenameCmd} {
		c.Flags().String("translate", "", "title translate provider (none/eino/ark)")
	}
}

func runRename(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return withLibrary(cmd, func(ctx context.Context, lib *service.LibraryService) ([]service.RenameResult, error) {
		return lib.Rename(ctx, args[0], dryRun)
	})
}

func runCopyRename(cmd *cobra.Command, args []string) error {
	return withLibrary(cmd, func(ctx context.Context, lib *service.LibraryService) ([]service.RenameResult, error) {
		return lib.CopyRename(ctx, args[0])
	})
}

func withLibrary(cmd *cobra.Command, fn func(context.Context, *service.LibraryService) ([]service.RenameResult, error)) error {
	cfg := GetConfig()
	if p, _ := cmd.Flags().GetString("translate"); p != "" {
		cfg.Translate.Provider = p
	}
	if err := cfg.ValidateProcessing(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	results, err := fn(ctx, a.Library)
	out := cmd.OutOrStdout()
	for _, r := range results {
		line := fmt.Sprintf("%-8s %s", r.Status, r.Source)
		if r.Target != "" {
			line += " -> " + r.Target
		}
		if r.Reason != "" {
			line += " (" + r.Reason + ")"
		}
		fmt.Fprintln(out, line)
	}
	return err
}
