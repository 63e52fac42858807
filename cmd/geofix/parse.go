package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/geofix/internal/domain"
)

func newParseCmd() *cobra.Command {
	var (
		lon      bool
		lang     string
		unmarked string
	)
	cmd := &cobra.Command{
		Use:   "parse <token>",
		Short: "Parse a single coordinate token and print its decimal value",
		Long: `Parse one latitude (or, with --lon, longitude) token the same way a run
does, which helps when a row is rejected for an unreadable coordinate.

$ geofix parse "10°30'00\" S"
-10.5
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := domain.HemisphereWordsFor(lang)
			if err != nil {
				return err
			}
			policy, err := domain.ParseUnmarkedPolicy(unmarked)
			if err != nil {
				return err
			}

			axis := domain.Latitude
			if lon {
				axis = domain.Longitude
			}
			v, err := domain.NewParser(words, policy).Parse(args[0], axis)
			if err != nil {
				return fmt.Errorf("%s %q: %w", axis, args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().BoolVar(&lon, "lon", false, "parse the token as a longitude")
	cmd.Flags().StringVar(&lang, "lang", "pt", "hemisphere word language (pt or en)")
	cmd.Flags().StringVar(&unmarked, "unmarked", "negative", "sign of unmarked values (negative or keep)")
	return cmd
}
