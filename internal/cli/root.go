package cli

import (
	"github.com/spf13/cobra"

	"github.com/capkit/capkit/internal/logging"
)

var (
	verbose bool
	cfgPath string
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capkit",
	Short: "Styled subtitle generator for videos",
	Long: `Capkit turns spoken-word transcriptions or user-supplied captions
into styled ASS subtitle files for video captioning.

It supports five rendering styles (classic, karaoke, highlight, underline,
word_by_word), SRT and plain-text caption sources, and AI transcription
with word-level timestamps when no captions are supplied.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&cfgPath, "config", "", "Path to config file (TOML)")
}
