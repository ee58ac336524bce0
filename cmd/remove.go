package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlefeuvre/tonearm/internal/errmsg"
)

var removeCmd = &cobra.Command{
	Use:     "remove <track>",
	Aliases: []string{"rm"},
	Short:   "Remove a track and delete its managed file",
	Args:    cobra.ExactArgs(1),
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

		t, err := findTrack(s.Tracks(), args[0])
		if err != nil {
			return err
		}

		if err := s.Remove(t.ID); err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpPlaylistRemove, t.DisplayName, err))
		}
		fmt.Printf("removed %s (%s)\n", t.DisplayName, shortID(t.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
