package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sargunv/hgpaktool/internal/style"
	"github.com/sargunv/hgpaktool/lib/hgpak"
)

var (
	listPlatform string
	listFilters  []string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list <archive.hgpak>",
	Short: "List the files stored in an HGPAK archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listPlatform, "platform", "", "platform the archive was packed for (disambiguates the codec when needed)")
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "glob or exact path to list (repeatable); default is everything")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "emit the file list as a JSON array instead of text")
}

func runList(cmd *cobra.Command, args []string) error {
	archivePath := args[0]

	reader, err := openArchiveForCLI(archivePath, listPlatform)
	if err != nil {
		return err
	}
	defer reader.Close()

	filter := hgpak.AllFiles()
	if len(listFilters) > 0 {
		filter = hgpak.NewFilter(listFilters...)
	}
	files := reader.Select(filter)

	if listJSON {
		return printListJSON(cmd, files)
	}

	header := reader.Header()
	fmt.Println(style.HeaderStyle.Render(fmt.Sprintf("%s (version %d, %s)", archivePath, header.Version, compressionLabel(header))))
	for _, pf := range files {
		fmt.Printf("  %s\n", pf.Path)
		fmt.Printf("    %s\n", style.LabelStyle.Render(formatSize(pf.Size)))
	}
	fmt.Println(style.LabelStyle.Render(fmt.Sprintf("%d files", len(files))))
	return nil
}

type listEntry struct {
	Path string `json:"path"`
	Size uint64 `json:"size"`
}

func printListJSON(cmd *cobra.Command, files []*hgpak.PackedFile) error {
	entries := make([]listEntry, len(files))
	for i, pf := range files {
		entries[i] = listEntry{Path: pf.Path, Size: pf.Size}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func compressionLabel(h *hgpak.Header) string {
	if h.IsCompressed {
		return "compressed"
	}
	return "uncompressed"
}

func formatSize(n uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.2f GiB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.2f MiB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.2f KiB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
