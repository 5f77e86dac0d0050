package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sargunv/hgpaktool/internal/style"
	"github.com/sargunv/hgpaktool/lib/hgpak"
)

var verifyPlatform string

var verifyCmd = &cobra.Command{
	Use:   "verify <archive.hgpak>",
	Short: "Check that every file in an archive decompresses cleanly and its hash matches its name",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPlatform, "platform", "", "platform the archive was packed for (disambiguates the codec when needed)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	archivePath := args[0]

	reader, err := openArchiveForCLI(archivePath, verifyPlatform)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer reader.Close()

	files := reader.Files()
	var failed int
	for i := range files {
		pf := &files[i]
		if err := verifyOne(reader, pf); err != nil {
			failed++
			fmt.Println(style.ErrorStyle.Render(fmt.Sprintf("FAIL %s: %v", pf.Path, err)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, len(files))
	}
	fmt.Println(style.OkStyle.Render(fmt.Sprintf("%d files verified", len(files))))
	return nil
}

func verifyOne(reader *hgpak.Reader, pf *hgpak.PackedFile) error {
	expectedHash := hgpak.HashPath(pf.Path)
	if !bytes.Equal(expectedHash[:], pf.Hash[:]) {
		return fmt.Errorf("stored hash does not match computed hash of its own path")
	}

	var n uint64
	for chunk, err := range reader.Extract(pf, -1) {
		if err != nil {
			return err
		}
		n += uint64(len(chunk))
	}
	if n != pf.Size {
		return fmt.Errorf("extracted %d bytes, expected %d", n, pf.Size)
	}
	return nil
}
