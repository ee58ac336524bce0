package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlefeuvre/tonearm/internal/errmsg"
	"github.com/mlefeuvre/tonearm/internal/player"
	"github.com/mlefeuvre/tonearm/internal/session"
	"github.com/mlefeuvre/tonearm/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play <track>",
	Short: "Play a track from the playlist",
	Long: `Play a track, selected by playlist position, id, or name.

While playing, single-letter commands control the session:
  p  pause        r  resume
  s  stop         q  quit
  n  <position>   play another track
An empty line prints the current position.`,
	Args: cobra.ExactArgs(1),
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

		sess := session.New(player.NewEngine(), session.WithAutoplay(cfg.AutoplayEnabled()))
		defer sess.Close()
		sub := sess.Subscribe()

		if err := sess.Play(toSessionTrack(t)); err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpPlaybackStart, t.DisplayName, err))
		}

		input := readLines()
		for {
			select {
			case e := <-sub.PhaseChanged:
				printPhase(e)
				if e.Current == session.PhaseIdle {
					return nil
				}
			case e := <-sub.Errors:
				fmt.Println(errmsg.FormatWith(errmsg.OpPlaybackStart, e.URI, e.Err))
			case line, ok := <-input:
				if !ok {
					sess.Stop()
					return nil
				}
				if done := handleCommand(sess, s, line); done {
					return nil
				}
			}
		}
	},
}

// handleCommand applies one interactive command. Returns true to quit.
func handleCommand(sess *session.Session, s *store.Store, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		printStatus(sess.Status())
		return false
	}

	switch fields[0] {
	case "p":
		sess.Pause()
	case "r":
		sess.Resume()
	case "s":
		sess.Stop()
	case "q":
		sess.Stop()
		return true
	case "n":
		if len(fields) < 2 {
			fmt.Println("usage: n <position|id|name>")
			return false
		}
		t, err := findTrack(s.Tracks(), fields[1])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if err := sess.Play(toSessionTrack(t)); err != nil {
			fmt.Println(errmsg.FormatWith(errmsg.OpPlaybackStart, t.DisplayName, err))
		}
	default:
		fmt.Println("commands: p pause, r resume, s stop, q quit, n <track> next")
	}
	return false
}

func toSessionTrack(t store.Track) session.Track {
	return session.Track{ID: t.ID, DisplayName: t.DisplayName, SourceURI: t.SourceURI}
}

// readLines feeds stdin lines into a channel, closed on EOF.
func readLines() <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			ch <- scanner.Text()
		}
	}()
	return ch
}

func printPhase(e session.PhaseChange) {
	switch e.Current {
	case session.PhasePlaying:
		if e.Track != nil {
			fmt.Printf("playing %s\n", e.Track.DisplayName)
		}
	case session.PhasePaused:
		fmt.Println("paused")
	case session.PhaseIdle:
		fmt.Println("stopped")
	case session.PhaseFaulted:
		fmt.Println("playback failed; pick another track or retry")
	case session.PhaseLoading:
		// Too short-lived to be worth printing.
	}
}

func printStatus(st session.Status) {
	if st.Track == nil {
		fmt.Println(st.Phase)
		return
	}
	fmt.Printf("%s  %s  %s / %s\n",
		st.Phase,
		st.Track.DisplayName,
		formatDuration(st.Position),
		formatDuration(st.Duration))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func init() {
	rootCmd.AddCommand(playCmd)
}
