package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the playlist",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		s, kvs, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer kvs.Close()

		tracks := s.Tracks()
		if len(tracks) == 0 {
			fmt.Println("playlist is empty")
			return nil
		}

		for i, t := range tracks {
			size := "?"
			if info, err := os.Stat(t.SourceURI); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(t.SourceURI)), ".")
			fmt.Printf("%3d  %s  %-40s %5s %s\n", i+1, shortID(t.ID), t.DisplayName, ext, size)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
