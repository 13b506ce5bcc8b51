package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/domain/model"
)

type discoverOptions struct {
	search   string
	category string
	near     string
	place    string
	here     bool
	radius   float64
	pages    int
}

// NewDiscoverCommand creates the discover command.
func NewDiscoverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &discoverOptions{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List events matching a filter",
		Long: `List events matching a search text, a category and a location.

Pages are fetched in order and merged without duplicates. --near takes
"lat,lng"; --place looks a place name up first. --here uses the configured
location (EVENTSPHERE_LOCATION) and the default radius.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				return runDiscover(ctx, c, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "search text")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "category (MUSIC, TECH, SPORTS, ...)")
	cmd.Flags().StringVar(&opts.near, "near", "", `restrict to a radius around "lat,lng"`)
	cmd.Flags().StringVar(&opts.place, "place", "", "restrict to a radius around a named place")
	cmd.Flags().BoolVar(&opts.here, "here", false, "restrict to the default radius around the current location")
	cmd.Flags().Float64Var(&opts.radius, "radius", 10, "radius in kilometres for --near/--place")
	cmd.Flags().IntVar(&opts.pages, "pages", 1, "number of pages to fetch")
	cmd.MarkFlagsMutuallyExclusive("near", "place", "here")

	return cmd
}

func runDiscover(ctx context.Context, c *command, opts *discoverOptions) error {
	updates, err := opts.updates(ctx, c)
	if err != nil {
		return err
	}

	engine := c.svc.Discovery()
	engine.SetFilter(updates...)
	if opts.here {
		g, err := engine.UseCurrentLocation(ctx)
		if err != nil {
			return err
		}
		c.out.VerboseLog("located at %s (%.5f, %.5f)", g.Name, g.Lat, g.Lng)
	}
	if err := engine.Load(ctx); err != nil {
		return err
	}
	for i := 1; i < opts.pages; i++ {
		if !engine.Snapshot().Cursor.HasMore {
			break
		}
		if err := engine.LoadMore(ctx); err != nil {
			return err
		}
	}

	snap := engine.Snapshot()
	c.out.VerboseLog("generation %d, state %s", snap.Generation, snap.State)
	return c.out.Success(snap, renderFeed(snap))
}

func (o *discoverOptions) updates(ctx context.Context, c *command) ([]discovery.Update, error) {
	if o.pages < 1 {
		return nil, usagef("--pages must be at least 1")
	}
	if o.radius <= 0 {
		return nil, usagef("--radius must be positive")
	}

	var out []discovery.Update
	if o.search != "" {
		out = append(out, discovery.Search(o.search))
	}
	if o.category != "" {
		cat := model.Category(strings.ToUpper(o.category))
		if !cat.Valid() {
			return nil, usagef("unknown category %q", o.category)
		}
		out = append(out, discovery.Category(cat))
	}

	switch {
	case o.near != "":
		lat, lng, err := parseLatLng("--near", o.near)
		if err != nil {
			return nil, err
		}
		out = append(out, discovery.Near(model.GeoFilter{Lat: lat, Lng: lng, RadiusKm: o.radius}))
	case o.place != "":
		pos, name, err := c.svc.Geocoder().Search(ctx, o.place)
		if err != nil {
			return nil, err
		}
		c.out.VerboseLog("resolved %q to %s (%.5f, %.5f)", o.place, name, pos.Lat, pos.Lng)
		out = append(out, discovery.Near(model.GeoFilter{Lat: pos.Lat, Lng: pos.Lng, RadiusKm: o.radius, Name: name}))
	}
	return out, nil
}

func parseLatLng(flag, s string) (float64, float64, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, usagef(`%s must be "lat,lng", got %q`, flag, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, usagef("invalid latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, usagef("invalid longitude %q", lngStr)
	}
	return lat, lng, nil
}
