package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"spotii/internal/ai"
)

type criteriaFlags struct {
	Mood       string
	Genre      string
	Languages  []string
	Activity   string
	Energy     int
	Tempo      string
	Popularity int
	Vocals     string
	Era        string
	Explicit   string
	Duration   int
	Count      int
	Provider   string
}

func (f *criteriaFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Mood, "mood", "", "Mood or vibe, e.g. chill")
	fs.StringVar(&f.Genre, "genre", "", "Genre")
	fs.StringSliceVar(&f.Languages, "language", nil, "Song language (repeatable)")
	fs.StringVar(&f.Activity, "activity", "", "Activity or occasion")
	fs.IntVar(&f.Energy, "energy", 0, "Energy level 1-100")
	fs.StringVar(&f.Tempo, "tempo", "", "Tempo, e.g. slow, medium, fast")
	fs.IntVar(&f.Popularity, "popularity", 0, "Popularity 1-100 (hidden gems to mainstream)")
	fs.StringVar(&f.Vocals, "vocals", "", "Vocal preference, e.g. instrumental, female")
	fs.StringVar(&f.Era, "era", "", "Era, e.g. 90s")
	fs.StringVar(&f.Explicit, "explicit", "", "Explicit content: allow or avoid")
	fs.IntVar(&f.Duration, "duration", 0, "Playlist length in minutes (default 30)")
	fs.IntVarP(&f.Count, "count", "c", 0, "Number of songs (1-50); overrides --duration")
	fs.StringVarP(&f.Provider, "provider", "p", "", "AI provider: groq, openrouter, openai, claude, gemini, all")
}

func (f *criteriaFlags) criteria(prompt string) (ai.Criteria, error) {
	if f.Energy < 0 || f.Energy > 100 {
		return ai.Criteria{}, usageError{msg: "energy must be between 1 and 100"}
	}
	if f.Popularity < 0 || f.Popularity > 100 {
		return ai.Criteria{}, usageError{msg: "popularity must be between 1 and 100"}
	}
	if f.Count < 0 || f.Count > 50 {
		return ai.Criteria{}, usageError{msg: "count must be between 1 and 50"}
	}
	if f.Duration < 0 {
		return ai.Criteria{}, usageError{msg: "duration must be positive"}
	}
	switch p := strings.ToLower(f.Provider); p {
	case "", ai.ProviderGroq, ai.ProviderOpenRouter, ai.ProviderOpenAI, ai.ProviderClaude, ai.ProviderGemini, ai.ProviderAll:
		f.Provider = p
	default:
		return ai.Criteria{}, usageError{msg: "provider must be one of: groq, openrouter, openai, claude, gemini, all"}
	}
	c := ai.Criteria{
		Prompt:          prompt,
		Mood:            f.Mood,
		Genre:           f.Genre,
		Languages:       f.Languages,
		Activity:        f.Activity,
		Energy:          f.Energy,
		Tempo:           f.Tempo,
		Popularity:      f.Popularity,
		VocalPreference: f.Vocals,
		Era:             f.Era,
		ExplicitContent: f.Explicit,
		Duration:        f.Duration,
		TrackCount:      f.Count,
	}
	if c.Empty() {
		return ai.Criteria{}, usageError{msg: strings.Join([]string{
			"Missing prompt or --mood.",
			"Examples:",
			"  spotii \"telugu songs for a rainy evening\"",
			"  spotii --mood chill --genre lofi --count 15",
			"  echo \"night driving synthwave\" | spotii",
			"Run with --help for usage.",
		}, "\n")}
	}
	return c, nil
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{msg: fmt.Sprintf("usage: %s", usage)}
		}
		return nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	var crit criteriaFlags
	var gen generateOptions

	root := &cobra.Command{
		Use:           "spotii [prompt]",
		Short:         "AI playlist generator for Spotify",
		Long:          "Generate a playlist with a language model, find every song on Spotify and save it to your account.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context(), &crit, gen, args)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error() + "\n(run with --help for usage)"}
	})

	pf := root.PersistentFlags()
	pf.SortFlags = false
	pf.StringVar(&a.opts.ConfigPath, "config", "", "Config file (default ~/.config/spotii/config.toml)")
	pf.BoolVar(&a.opts.JSON, "json", false, "Output machine-readable JSON")
	pf.BoolVar(&a.opts.Plain, "plain", false, "Disable decorative formatting")
	pf.BoolVarP(&a.opts.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Enable verbose diagnostics")
	pf.BoolVar(&a.opts.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&a.opts.NoInput, "no-input", false, "Disable stdin reads")

	fs := root.Flags()
	fs.SortFlags = false
	crit.register(fs)
	fs.StringVarP(&gen.Name, "name", "n", "", "Playlist name (default \"AI Playlist <date>\")")
	fs.BoolVarP(&gen.DryRun, "dry-run", "d", false, "Preview the playlist without saving it")

	root.AddCommand(
		newGenerateCmd(a),
		newSaveCmd(a),
		newPlaylistsCmd(a),
		newNowCmd(a),
		newHistoryCmd(a),
		newLoginCmd(a),
		newServeCmd(a),
	)
	for _, name := range controlOrder {
		root.AddCommand(newControlCmd(a, name))
	}
	return root
}
