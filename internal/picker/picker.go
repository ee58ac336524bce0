// Package picker models the external resource picker: it turns a
// user-supplied path into the name/transient-location shape the playlist
// store consumes. Cancellation is simply the caller never calling Add.
package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlefeuvre/tonearm/internal/store"
	"github.com/mlefeuvre/tonearm/internal/tags"
)

// ErrUnsupported is returned for files that no decoder can play.
var ErrUnsupported = errors.New("unsupported audio format")

// PickFile validates path and returns the resource to hand to the store.
func PickFile(path string) (store.Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return store.Resource{}, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return store.Resource{}, err
	}
	if info.IsDir() {
		return store.Resource{}, fmt.Errorf("%s is a directory", abs)
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if !tags.IsSupportedExt(ext) {
		return store.Resource{}, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	return store.Resource{
		Name:         filepath.Base(abs),
		TransientURI: abs,
	}, nil
}
