// Package cli implements the hgpaktool command-line interface: pack,
// unpack, list, extract, and verify subcommands over an HGPAK archive.
package cli

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "hgpaktool",
	Short: "Read and write HGPAK chunk-compressed game asset archives",
	Long: `hgpaktool packs a directory tree into an HGPAK archive, and unpacks,
lists, extracts from, or verifies one that already exists.

HGPAK archives store their data as independently compressed, fixed-size
chunks (Zstd, LZ4, or Oodle depending on target platform), so a single file
can be extracted without decompressing the whole archive.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(packCmd, unpackCmd, listCmd, extractCmd, verifyCmd)
}
