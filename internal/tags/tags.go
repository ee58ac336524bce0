// Package tags reads display metadata from audio files.
//
// Only read access is needed here: tags provide a friendlier default
// display name when a track is added to the playlist. Files without
// readable tags are not an error.
package tags

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Supported file extensions, lowercase with the leading dot.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtWAV  = ".wav"
)

// IsSupportedExt reports whether ext (lowercase, with dot) names a
// playable audio format.
func IsSupportedExt(ext string) bool {
	switch ext {
	case ExtMP3, ExtFLAC, ExtOGG, ExtWAV:
		return true
	}
	return false
}

// Title returns the title tag of the audio file at path, or "" when the
// file has no readable tags.
func Title(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(m.Title())
}
