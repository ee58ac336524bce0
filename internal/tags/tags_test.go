package tags

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".mp3", true},
		{".flac", true},
		{".ogg", true},
		{".wav", true},
		{".m4a", false},
		{".txt", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSupportedExt(tt.ext); got != tt.want {
			t.Errorf("IsSupportedExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestTitle_MissingFileReturnsEmpty(t *testing.T) {
	if got := Title("/nonexistent/file.mp3"); got != "" {
		t.Errorf("Title() = %q, want empty", got)
	}
}

func TestTitle_UntaggedFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.mp3")
	if err := os.WriteFile(path, []byte("not an mp3 at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := Title(path); got != "" {
		t.Errorf("Title() = %q, want empty", got)
	}
}
