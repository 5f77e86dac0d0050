package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sargunv/hgpaktool/internal/progress"
	"github.com/sargunv/hgpaktool/internal/style"
	"github.com/sargunv/hgpaktool/lib/hgpak"
)

var (
	unpackPlatform string
	unpackFilters  []string
	unpackManifest string
	unpackQuiet    bool
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <archive.hgpak> <output-dir>",
	Short: "Extract every (or selected) file from an HGPAK archive",
	Long: `Unpack extracts every (or, with --filter, selected) file from archivePath
into output-dir.

With --manifest, the archive's file order is also written to the given path
as a manifest, so the extracted tree can later be repacked via
pack --manifest and reproduce the archive byte-for-byte.`,
	Args: cobra.ExactArgs(2),
	RunE: runUnpack,
}

func init() {
	unpackCmd.Flags().StringVar(&unpackPlatform, "platform", "", "platform the archive was packed for (disambiguates the codec when needed)")
	unpackCmd.Flags().StringArrayVar(&unpackFilters, "filter", nil, "glob or exact path to extract (repeatable); default is everything")
	unpackCmd.Flags().StringVar(&unpackManifest, "manifest", "", "write the archive's file order to this path, for a later byte-identical repack")
	unpackCmd.Flags().BoolVarP(&unpackQuiet, "quiet", "q", false, "suppress the progress bar")
}

func runUnpack(cmd *cobra.Command, args []string) error {
	archivePath, outputDir := args[0], args[1]

	reader, err := openArchiveForCLI(archivePath, unpackPlatform)
	if err != nil {
		return err
	}
	defer reader.Close()

	filter := hgpak.AllFiles()
	if len(unpackFilters) > 0 {
		filter = hgpak.NewFilter(unpackFilters...)
	}
	files := reader.Select(filter)
	if len(files) == 0 {
		return fmt.Errorf("no files matched in %s", archivePath)
	}

	var total int64
	for _, pf := range files {
		total += int64(pf.Size)
	}

	extract := func(tracker *progress.Tracker) error {
		for _, pf := range files {
			if err := extractOne(reader, pf, outputDir, tracker); err != nil {
				return err
			}
		}
		return nil
	}

	if unpackQuiet || !isTerminal(os.Stdout) {
		if err := extract(progress.NewTracker("", 0)); err != nil {
			return err
		}
	} else {
		tracker := progress.NewTracker(fmt.Sprintf("unpacking %d files", len(files)), total)
		if err := progress.Run(tracker, func() error { return extract(tracker) }); err != nil {
			return err
		}
	}

	if unpackManifest != "" {
		paths := make([]string, len(files))
		for i, pf := range files {
			paths[i] = pf.Path
		}
		if err := hgpak.WriteManifestFile(unpackManifest, &hgpak.Manifest{Paths: paths}); err != nil {
			return err
		}
	}

	fmt.Println(style.OkStyle.Render(fmt.Sprintf("unpacked %d files into %s", len(files), outputDir)))
	return nil
}

func extractOne(reader *hgpak.Reader, pf *hgpak.PackedFile, outputDir string, tracker *progress.Tracker) error {
	destPath := filepath.Join(outputDir, filepath.FromSlash(pf.Path))
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", pf.Path, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := reader.WriteTo(pf, progress.WrapWriter(f, tracker)); err != nil {
		return fmt.Errorf("extract %s: %w", pf.Path, err)
	}
	return nil
}

// openArchiveForCLI opens archivePath with Open, or OpenWithPlatform when
// platformFlag names a platform.
func openArchiveForCLI(archivePath, platformFlag string) (*hgpak.Reader, error) {
	if platformFlag == "" {
		r, err := hgpak.Open(archivePath)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return hgpak.OpenWithPlatform(archivePath, hgpak.Platform(platformFlag))
}
