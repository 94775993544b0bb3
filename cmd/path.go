package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doctags/doctags/internal/config"
)

var pathLocale string

var pathCmd = &cobra.Command{
	Use:     "path <start> [end]",
	Aliases: []string{"p"},
	Short:   "Show next steps from a tag, or the shortest learning path between two tags",
	Long: `Path with one argument prints the next-step suggestions for a tag
(tags that list it as a prerequisite). With two arguments it prints the
shortest learning path from the first tag to the second, following the
reverse-prerequisite relation.

Examples:
  doctags path golang             # Where to go after "golang"
  doctags path golang generics    # Shortest route from "golang" to "generics"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().StringVar(&pathLocale, "locale", "", "Display locale (default is i18n.default_locale)")
}

func runPath(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	locale := pathLocale
	if locale == "" {
		locale = cfg.I18n.DefaultLocale
	}

	tagStore := newStore(cfg, newLogger())
	if err := tagStore.Initialize(cmd.Context(), locale); err != nil {
		return err
	}

	startID := args[0]
	endID := ""
	if len(args) == 2 {
		endID = args[1]
	}

	path, err := tagStore.LearningPath(locale, startID, endID)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		if endID == "" {
			fmt.Printf("no next steps from %q\n", startID)
		} else {
			fmt.Printf("no path from %q to %q\n", startID, endID)
		}
		return nil
	}

	if endID == "" {
		fmt.Printf("next steps from %q: %s\n", startID, strings.Join(path, ", "))
	} else {
		fmt.Println(strings.Join(path, " -> "))
	}
	return nil
}
