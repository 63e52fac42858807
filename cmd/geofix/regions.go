package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/geofix/internal/config"
	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/region"
)

func newRegionsCmd() *cobra.Command {
	var boundaries string
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the indexed region codes and their fallback centroids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if boundaries == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				boundaries = cfg.BoundariesPath
			}
			ix, err := region.Load(boundaries)
			if err != nil {
				return fmt.Errorf("load boundaries: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tCENTROID")
			for _, code := range ix.Codes() {
				centroid := "-"
				if p, ok := ix.Centroid(code); ok {
					centroid = domain.CoordinateFromPoint(p).String()
				}
				fmt.Fprintf(tw, "%s\t%s\n", code, centroid)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&boundaries, "boundaries", "", "region boundary GeoJSON (default $BOUNDARIES_PATH)")
	return cmd
}
