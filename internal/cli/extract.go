package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractPlatform string

var extractCmd = &cobra.Command{
	Use:   "extract <archive.hgpak> <path-in-archive> [output-file]",
	Short: "Extract a single file, writing it to stdout by default",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractPlatform, "platform", "", "platform the archive was packed for (disambiguates the codec when needed)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	archivePath, innerPath := args[0], args[1]

	reader, err := openArchiveForCLI(archivePath, extractPlatform)
	if err != nil {
		return err
	}
	defer reader.Close()

	pf, err := reader.Lookup(innerPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 3 {
		f, err := os.Create(args[2])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[2], err)
		}
		defer f.Close()
		out = f
	}

	_, err = reader.WriteTo(pf, out)
	return err
}
