package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sargunv/hgpaktool/internal/pakfs"
	"github.com/sargunv/hgpaktool/internal/progress"
	"github.com/sargunv/hgpaktool/internal/style"
	"github.com/sargunv/hgpaktool/lib/hgpak"
)

var (
	packPlatform     string
	packUncompressed bool
	packManifest     string
	packQuiet        bool
)

var packCmd = &cobra.Command{
	Use:   "pack <input-dir> <output.hgpak>",
	Short: "Pack a directory tree into an HGPAK archive",
	Long: `Pack walks input-dir and writes every regular file it finds into a new
HGPAK archive at output.hgpak, stored under its path relative to input-dir.

Files are packed in lowercase path order unless --manifest names an explicit
order; any file not named by the manifest is still packed, appended after
the manifest's entries.`,
	Args: cobra.ExactArgs(2),
	RunE: runPack,
}

func init() {
	packCmd.Flags().StringVar(&packPlatform, "platform", "", "target platform: windows, linux, mac, or switch (required unless --uncompressed)")
	packCmd.Flags().BoolVar(&packUncompressed, "uncompressed", false, "store files as raw bytes instead of compressed chunks")
	packCmd.Flags().StringVar(&packManifest, "manifest", "", "manifest file giving an explicit pack order")
	packCmd.Flags().BoolVarP(&packQuiet, "quiet", "q", false, "suppress the progress bar")
}

func runPack(cmd *cobra.Command, args []string) error {
	inputDir, outputPath := args[0], args[1]

	var platform hgpak.Platform
	if !packUncompressed {
		if packPlatform == "" {
			return fmt.Errorf("--platform is required unless --uncompressed is set")
		}
		platform = hgpak.Platform(packPlatform)
		if _, err := platform.ChunkSize(); err != nil {
			return err
		}
	}

	sources, err := pakfs.Walk(inputDir)
	if err != nil {
		return fmt.Errorf("walk %s: %w", inputDir, err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no files found under %s", inputDir)
	}

	if packManifest != "" {
		manifest, err := hgpak.ReadManifestFile(packManifest)
		if err != nil {
			return err
		}
		sources, err = pakfs.Order(sources, manifest)
		if err != nil {
			return err
		}
	}

	opts := hgpak.WriteOptions{Platform: platform, Compressed: !packUncompressed}

	var total int64
	for _, s := range sources {
		total += int64(s.Size)
	}

	pack := func() error {
		return hgpak.Pack(outputPath, sources, opts)
	}

	if packQuiet || !isTerminal(os.Stdout) {
		if err := pack(); err != nil {
			return err
		}
	} else {
		tracker := progress.NewTracker(fmt.Sprintf("packing %d files", len(sources)), total)
		sources = withProgress(sources, tracker)
		if err := progress.Run(tracker, pack); err != nil {
			return err
		}
	}

	fmt.Println(style.OkStyle.Render(fmt.Sprintf("packed %d files into %s", len(sources), outputPath)))
	return nil
}

// withProgress wraps each source's Open so reads against it report to
// tracker, without the writer package knowing progress reporting exists.
func withProgress(sources []hgpak.FileSource, tracker *progress.Tracker) []hgpak.FileSource {
	out := make([]hgpak.FileSource, len(sources))
	for i, s := range sources {
		open := s.Open
		out[i] = s
		out[i].Open = func() (io.ReadCloser, error) {
			rc, err := open()
			if err != nil {
				return nil, err
			}
			return progress.Wrap(rc, tracker), nil
		}
	}
	return out
}
