package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlefeuvre/tonearm/internal/errmsg"
	"github.com/mlefeuvre/tonearm/internal/picker"
	"github.com/mlefeuvre/tonearm/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Copy audio files into the managed playlist",
	Args:  cobra.MinimumNArgs(1),
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

		var failed bool
		for _, arg := range args {
			res, err := picker.PickFile(arg)
			if err != nil {
				fmt.Println(errmsg.FormatWith(errmsg.OpResourcePick, arg, err))
				failed = true
				continue
			}

			t, err := s.Add(res)
			switch {
			case errors.Is(err, store.ErrAlreadyExists):
				fmt.Printf("%s is already in the playlist (%s)\n", res.Name, shortID(t.ID))
			case errors.Is(err, store.ErrSnapshotWrite):
				fmt.Printf("added %s (%s), but saving the playlist failed: %v\n", t.DisplayName, shortID(t.ID), err)
				failed = true
			case err != nil:
				fmt.Println(errmsg.FormatWith(errmsg.OpPlaylistAdd, res.Name, err))
				failed = true
			default:
				fmt.Printf("added %s (%s)\n", t.DisplayName, shortID(t.ID))
			}
		}

		if failed {
			return fmt.Errorf("some files could not be added")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
