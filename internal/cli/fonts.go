package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capkit/capkit/internal/config"
	"github.com/capkit/capkit/internal/fonts"
)

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "List the fonts available for captioning",
	Long: `List every font family accepted by the caption command: system
families from fontconfig plus fonts from the configured custom directory.`,
	Args: cobra.NoArgs,
	RunE: runFonts,
}

func init() {
	rootCmd.AddCommand(fontsCmd)
}

func runFonts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	catalog := fonts.NewCatalog(cfg.FontsDir, logger)
	names := catalog.AvailableFonts()
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	fmt.Fprintf(out, "\n%d fonts available\n", len(names))
	return nil
}
