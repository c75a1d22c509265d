package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"novelpack/internal/app"
	"novelpack/internal/model/run"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <file-or-dir>",
	Short: "Split record files into chunked text files",
	Long: `Split a JSON Lines record file (or every .jl/.jsonl file under a directory)
into text files of --length chapters each, written to "{dir}_text/{title}/".`,
	Args: cobra.ExactArgs(1),
	RunE: runUnpack,
}

func init() {
	rootCmd.AddCommand(unpackCmd)

	flags := unpackCmd.Flags()
	flags.IntP("length", "l", 10, "chapters per output file")
	flags.Int("start-chapter", 0, "range-label start of the first chunk when records begin mid-chunk; label only, chapter grouping is unchanged (0 = first record)")
	flags.StringSlice("skip-title", nil, "chapter titles to skip (default: 人物紹介, 登場人物)")
	flags.String("translate", "", "title translate provider (none/eino/ark)")
	flags.String("storage", "", "output storage type (local/oss)")

	_ = viper.BindPFlag("chunk.size", flags.Lookup("length"))
	_ = viper.BindPFlag("chunk.start_chapter", flags.Lookup("start-chapter"))
	_ = viper.BindPFlag("chunk.skip_titles", flags.Lookup("skip-title"))
	_ = viper.BindPFlag("translate.provider", flags.Lookup("translate"))
	_ = viper.BindPFlag("storage.type", flags.Lookup("storage"))
}

func runUnpack(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
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

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var runs []*run.Run
	if info.IsDir() {
		runs, err = a.Unpack.ProcessDirectory(ctx, path)
	} else {
		var r *run.Run
		r, err = a.Unpack.ProcessFile(ctx, path)
		if r != nil {
			runs = append(runs, r)
		}
	}

	printRuns(cmd, runs)
	return err
}

func printRuns(cmd *cobra.Command, runs []*run.Run) {
	out := cmd.OutOrStdout()
	for _, r := range runs {
		var bytes uint64
		for _, c := range r.Chunks {
			bytes += uint64(c.Bytes)
		}
		fmt.Fprintf(out, "%-9s %s\n", r.Status, r.SourcePath)
		fmt.Fprintf(out, "          %s: %d chunks, %d chapters, %d skipped, %s\n",
			r.DisplayTitle, len(r.Chunks), r.Chapters, r.SkippedChapters, humanize.Bytes(bytes))
		if r.Error != "" {
			fmt.Fprintf(out, "          error: %s\n", r.Error)
		}
	}
}
