// Package cmd implements the tonearm command line interface.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlefeuvre/tonearm/internal/config"
	"github.com/mlefeuvre/tonearm/internal/errmsg"
	"github.com/mlefeuvre/tonearm/internal/kv"
	"github.com/mlefeuvre/tonearm/internal/logging"
	"github.com/mlefeuvre/tonearm/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tonearm",
	Short: "Single-voice audio player with a durable playlist",
	Long: `tonearm manages a durable playlist of audio files and plays exactly
one of them at a time, like the tonearm of a turntable.

Added files are copied into a managed media directory; the playlist
survives restarts and reconciles itself against the files actually
present on disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging. Every subcommand
// goes through it.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%s", errmsg.Format(errmsg.OpConfigLoad, err))
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	return cfg, nil
}

// openStore opens the playlist database and loads the reconciled
// playlist. The caller owns the returned kv store and must close it.
func openStore(cfg *config.Config) (*store.Store, *kv.SQLite, error) {
	kvs, err := kv.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s", errmsg.Format(errmsg.OpStoreOpen, err))
	}
	s := store.New(kvs, cfg.MediaDir)
	s.Load()
	return s, kvs, nil
}

// findTrack resolves a user argument to a track: a 1-based playlist
// position, a full id, a unique id prefix, or an exact display name.
func findTrack(tracks []store.Track, arg string) (store.Track, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(tracks) {
			return store.Track{}, fmt.Errorf("position %d out of range (playlist has %d tracks)", n, len(tracks))
		}
		return tracks[n-1], nil
	}

	var matches []store.Track
	for _, t := range tracks {
		if t.ID == arg || t.DisplayName == arg {
			return t, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return store.Track{}, fmt.Errorf("no track matches %q", arg)
	default:
		return store.Track{}, fmt.Errorf("%q is ambiguous (%d tracks match)", arg, len(matches))
	}
}

// shortID trims an id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
