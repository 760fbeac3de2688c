package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spotii/internal/ai"
	"spotii/internal/playlist"
	"spotii/internal/storage"
)

type generateOptions struct {
	Name   string
	DryRun bool
	Output string
}

func newGenerateCmd(a *app) *cobra.Command {
	var crit criteriaFlags
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a playlist without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = true
			return a.runGenerate(cmd.Context(), &crit, opts, args)
		},
	}
	crit.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the songs as JSON to this file")
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save FILE",
		Short: "Save songs from a JSON file (or - for stdin) to Spotify",
		Args:  exactArgs(1, "spotii save FILE"),
		RunE: func(cmd *cobra.Command, args []string) error {
			songs, err := a.readSongs(args[0])
			if err != nil {
				return err
			}
			return a.save(cmd.Context(), name, ai.Criteria{}, songs)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Playlist name")
	return cmd
}

func (a *app) runGenerate(ctx context.Context, crit *criteriaFlags, opts generateOptions, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" && crit.Mood == "" && crit.Genre == "" {
		prompt = a.readPrompt()
	}
	c, err := crit.criteria(prompt)
	if err != nil {
		return err
	}

	gen, err := a.generator(crit.Provider)
	if err != nil {
		return err
	}

	var songs []ai.Song
	err = a.out.Spin(ctx, "Generating playlist...", func(ctx context.Context) error {
		var err error
		songs, err = gen.Generate(ctx, c)
		return err
	})
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		return errors.New("the model returned no songs")
	}
	a.out.Success(fmt.Sprintf("Generated %d songs", len(songs)))
	a.printSongs(songs)

	if opts.Output != "" {
		if err := writeSongs(opts.Output, songs); err != nil {
			return err
		}
		a.out.Info("Songs written to " + opts.Output)
	}
	if opts.DryRun {
		if a.opts.JSON {
			return a.out.EmitJSON(map[string]any{"songs": songs})
		}
		a.out.Warn("Dry run - not saving to Spotify")
		return nil
	}
	return a.save(ctx, opts.Name, c, songs)
}

func (a *app) save(ctx context.Context, name string, c ai.Criteria, songs []ai.Song) error {
	sp, err := a.spotify(ctx)
	if err != nil {
		return err
	}
	asm := a.assembler(nil, sp)

	var outcome playlist.Outcome
	err = a.out.Spin(ctx, fmt.Sprintf("Finding %d songs on Spotify...", len(songs)), func(ctx context.Context) error {
		var err error
		outcome, err = asm.Save(ctx, playlist.SaveRequest{Name: name, Songs: songs})
		return err
	})
	if err != nil {
		return err
	}

	if _, err := a.history.Add(storage.SavedPlaylist{
		Name:        outcome.Name,
		Mood:        c.Mood,
		Genre:       c.Genre,
		Era:         c.Era,
		Songs:       songs,
		PlaylistURL: outcome.PlaylistURL,
	}); err != nil {
		a.out.Debug("could not record history: " + err.Error())
	}

	if a.opts.JSON {
		return a.out.EmitJSON(map[string]any{
			"success":        true,
			"name":           outcome.Name,
			"playlistUrl":    outcome.PlaylistURL,
			"tracksAdded":    outcome.TracksAdded,
			"tracksNotFound": outcome.TracksNotFound,
			"notFound":       outcome.NotFound,
		})
	}
	a.out.Success(fmt.Sprintf("Saved %q with %d tracks", outcome.Name, outcome.TracksAdded))
	if outcome.TracksNotFound > 0 {
		a.out.Warn(fmt.Sprintf("%d songs not found on Spotify:", outcome.TracksNotFound))
		for _, s := range outcome.NotFound {
			a.out.Print(a.out.Gray("  - " + s.String()))
		}
	}
	a.out.Print(outcome.PlaylistURL)
	return nil
}

func (a *app) readSongs(path string) ([]ai.Song, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(a.stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	songs, err := ai.ParseSongs(string(raw))
	if err != nil {
		return nil, fmt.Errorf("read songs from %s: %w", path, err)
	}
	return songs, nil
}

func writeSongs(path string, songs []ai.Song) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := encodeSongs(f, songs); err != nil {
		return err
	}
	return f.Close()
}
