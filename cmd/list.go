package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"novelpack/internal/service"
)

var listCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List record files under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("titles", false, "also print the novel title of each file")
}

func runList(cmd *cobra.Command, args []string) error {
	withTitles, _ := cmd.Flags().GetBool("titles")

	entries, err := service.NewLibraryService(nil, "").ListRecordFiles(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	var total uint64
	for _, e := range entries {
		total += uint64(e.Size)
		if withTitles {
			title, err := service.TitleFromFile(e.Path)
			if err != nil {
				title = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Bytes(uint64(e.Size)), e.Path, title)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", humanize.Bytes(uint64(e.Size)), e.Path)
	}
	fmt.Fprintf(w, "%s\t%s files\n", humanize.Bytes(total), humanize.Comma(int64(len(entries))))
	return w.Flush()
}
