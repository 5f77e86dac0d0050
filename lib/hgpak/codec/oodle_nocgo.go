//go:build !cgo

package codec

import "fmt"

// openLibrary always fails when cgo is disabled: the Oodle codec cannot
// be reached without calling into the native shared library. This keeps
// the package building (and every other codec usable) with
// CGO_ENABLED=0, matching the cgo/!cgo split used for google-wuffs's
// cgolz4 package.
func openLibrary(path string) (oodleLibrary, error) {
	return nil, fmt.Errorf("oodle: cgo is disabled, cannot load %s", path)
}
