package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spotii/internal/ai"
	"spotii/internal/catalog"
)

// controlOrder lists the playback commands in help order.
var controlOrder = []string{"play", "pause", "next", "previous"}

var controlCommands = map[string]struct {
	action  catalog.Action
	short   string
	aliases []string
	done    string
}{
	"play":     {action: catalog.ActionPlay, short: "Resume playback", done: "Playing"},
	"pause":    {action: catalog.ActionPause, short: "Pause playback", done: "Paused"},
	"next":     {action: catalog.ActionNext, short: "Skip to the next track", aliases: []string{"skip"}, done: "Skipped to next track"},
	"previous": {action: catalog.ActionPrevious, short: "Go back to the previous track", aliases: []string{"prev"}, done: "Back to previous track"},
}

func newControlCmd(a *app, name string) *cobra.Command {
	c := controlCommands[name]
	return &cobra.Command{
		Use:     name,
		Short:   c.short,
		Aliases: c.aliases,
		Args:    exactArgs(0, "spotii "+name),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := a.spotify(cmd.Context())
			if err != nil {
				return err
			}
			if err := sp.Control(cmd.Context(), c.action); err != nil {
				return fmt.Errorf("playback %s: %w", c.action, err)
			}
			if a.opts.JSON {
				return a.out.EmitJSON(map[string]any{"success": true, "action": c.action})
			}
			a.out.Success(c.done)
			return nil
		},
	}
}

func newPlaylistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "playlists",
		Short: "List your Spotify playlists",
		Args:  exactArgs(0, "spotii playlists"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := a.spotify(cmd.Context())
			if err != nil {
				return err
			}
			page, err := sp.Playlists(cmd.Context())
			if err != nil {
				return err
			}
			if a.opts.JSON {
				return a.out.EmitJSON(page)
			}
			a.out.Print(a.out.Bold(fmt.Sprintf("Playlists (%d of %d):", len(page.Playlists), page.Total)))
			for _, p := range page.Playlists {
				a.out.Print(fmt.Sprintf("  %s %s", p.Name, a.out.Gray(fmt.Sprintf("(%d tracks)", p.TrackCount))))
			}
			return nil
		},
	}
}

func newNowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "now",
		Aliases: []string{"status"},
		Short:   "Show the currently playing track",
		Args:    exactArgs(0, "spotii now"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := a.spotify(cmd.Context())
			if err != nil {
				return err
			}
			np, err := sp.CurrentlyPlaying(cmd.Context())
			if err != nil {
				return err
			}
			if a.opts.JSON {
				return a.out.EmitJSON(np)
			}
			if np.Track == nil {
				a.out.Info("Nothing is playing")
				return nil
			}
			state := "Paused"
			if np.IsPlaying {
				state = "Playing"
			}
			t := np.Track
			progress := time.Duration(t.ProgressMs) * time.Millisecond
			a.out.Print(fmt.Sprintf("%s: %s - %s %s", state, joinArtists(t.Artists), t.Name,
				a.out.Gray(fmt.Sprintf("[%s / %s]", clock(progress), clock(time.Duration(t.Duration)*time.Millisecond)))))
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently saved playlists",
		Args:  exactArgs(0, "spotii history"),
		RunE: func(cmd *cobra.Command, args []string) error {
			recent, err := a.history.Recent()
			if err != nil {
				return err
			}
			if a.opts.JSON {
				return a.out.EmitJSON(recent)
			}
			if len(recent) == 0 {
				a.out.Info("No playlists saved yet")
				return nil
			}
			for _, p := range recent {
				a.out.Print(fmt.Sprintf("%s  %s %s", a.out.Gray(p.ID[:min(8, len(p.ID))]), a.out.Bold(p.Name),
					a.out.Gray(fmt.Sprintf("(%d tracks, %s)", p.TrackCount, p.CreatedAt.Local().Format("Jan 2 15:04")))))
				if p.PlaylistURL != "" {
					a.out.Print("          " + p.PlaylistURL)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Summarize saved playlists",
			Args:  exactArgs(0, "spotii history stats"),
			RunE: func(cmd *cobra.Command, args []string) error {
				stats, err := a.history.Stats()
				if err != nil {
					return err
				}
				if a.opts.JSON {
					return a.out.EmitJSON(stats)
				}
				a.out.Print(fmt.Sprintf("Playlists: %d", stats.TotalPlaylists))
				a.out.Print(fmt.Sprintf("Songs:     %d", stats.TotalSongs))
				a.out.Print(fmt.Sprintf("Top genre: %s", stats.TopGenre))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Remove a playlist from history",
			Args:  exactArgs(1, "spotii history delete ID"),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.history.Delete(args[0]); err != nil {
					return err
				}
				a.out.Success("Removed " + args[0])
				return nil
			},
		},
	)
	return cmd
}

func encodeSongs(w io.Writer, songs []ai.Song) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"songs": songs})
}

func joinArtists(artists []string) string {
	if len(artists) == 0 {
		return "Unknown artist"
	}
	return strings.Join(artists, ", ")
}

func clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
