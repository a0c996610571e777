package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tripbook/internal/app"
	"tripbook/internal/bootstrap"
	"tripbook/internal/catalog"
	"tripbook/internal/domain"
)

var (
	customer string
	date     string
	filter   domain.HotelFilter
)

var bookCmd = &cobra.Command{
	Use:   "book <package-id>",
	Short: "Print the booking report for a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		inv, flights, err := bootstrap.Clients(cfg)
		if err != nil {
			return err
		}
		svc := bootstrap.Build(cfg, inv, flights, bootstrap.Infra{})
		fmt.Fprintln(cmd.OutOrStdout(), svc.Booking.BookTravel(cmd.Context(), args[0], customer, date))
		return nil
	},
}

var hotelsCmd = &cobra.Command{
	Use:   "hotels <destination-id>",
	Short: "List catalog hotels for a destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hotels := catalogMatcher().HotelsByDestinationAndPackage(cmd.Context(), args[0], filter)
		if len(hotels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No hotels found.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "Hotel\tRoom Type\tMeal Plan\tSeason\tRoom\tAdult\tChild")
		for _, h := range hotels {
			for _, r := range h.Rooms {
				for _, mp := range r.MealPlans {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						h.Name, r.RoomType, mp.Plan, mp.Season,
						app.FormatPrice(mp.Prices.Room), app.FormatPrice(mp.Prices.Adult), app.FormatPrice(mp.Prices.Child))
				}
			}
		}
		return w.Flush()
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <destination-id>",
	Short: "Show the hotel summary for a destination as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(catalogMatcher().HotelSummaryByDestination(cmd.Context(), args[0]))
	},
}

var destinationsCmd = &cobra.Command{
	Use:   "destinations",
	Short: "List destination ids present in the hotel catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := catalogMatcher().AvailableDestinations(cmd.Context())
		if len(ids) == 0 {
			fmt.Fprintf(os.Stderr, "catalog %s is empty or unreadable\n", cfg.CatalogPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, "\n"))
		return nil
	},
}

// catalogMatcher needs no provider credentials.
func catalogMatcher() *app.HotelMatcher {
	return app.NewHotelMatcher(catalog.NewLoader(cfg.CatalogPath), nil)
}

func init() {
	bookCmd.Flags().StringVar(&customer, "customer", "", "customer name shown on the report")
	bookCmd.Flags().StringVar(&date, "date", "", "departure date (YYYY-MM-DD); defaults to two weeks from today")

	hotelsCmd.Flags().StringVar(&filter.PackageType, "package-type", "", "meal plan code, e.g. cp, map, ap")
	hotelsCmd.Flags().StringVar(&filter.RoomType, "room-type", "", "room type, e.g. Deluxe")
	hotelsCmd.Flags().StringVar(&filter.SeasonType, "season", "", "season type, e.g. peakSeason")
}
