package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// quoteFlags are the raw signal flags. Prices are strings so "$1,250.00"
// style values from a spreadsheet can be pasted as-is.
type quoteFlags struct {
	media      string
	format     string
	reference  string
	comparable string
	high       string
	suggested  string
	median     string
	last       string
	low        string
	sold       []string
	active     []string
}

func quoteCmd() *cobra.Command {
	var f quoteFlags

	c := &cobra.Command{
		Use:   "quote",
		Short: "Price a record from signals",
		Long: "Sends the given signals to the pricing cascade and prints the price,\n" +
			"strategy code and notes. Nothing is stored.\n\n" +
			"Listings take the form PRICE or PRICE+SHIPPING.",
		Example: `  vpr quote --media VG+ --ref '$12.00'
  vpr quote --media NM --sold 24.99+4 --sold 19.50
  vpr quote --format 7in --discogs-suggested 8 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			res, err := newClient().Quote(cmd.Context(), in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(res)
			}
			return printResult(os.Stdout, res)
		},
	}

	c.Flags().StringVar(&f.media, "media", "", "media condition, e.g. VG+")
	c.Flags().StringVar(&f.format, "format", "", "format, e.g. LP or 7in")
	c.Flags().StringVar(&f.reference, "ref", "", "spreadsheet reference price")
	c.Flags().StringVar(&f.comparable, "comparable", "", "comparable value")
	c.Flags().StringVar(&f.high, "discogs-high", "", "Discogs highest sale")
	c.Flags().StringVar(&f.suggested, "discogs-suggested", "", "Discogs suggested price")
	c.Flags().StringVar(&f.median, "discogs-median", "", "Discogs median sale")
	c.Flags().StringVar(&f.last, "discogs-last", "", "Discogs last sale")
	c.Flags().StringVar(&f.low, "discogs-low", "", "Discogs lowest listing")
	c.Flags().StringArrayVar(&f.sold, "sold", nil, "sold listing PRICE[+SHIPPING] (repeatable)")
	c.Flags().StringArrayVar(&f.active, "active", nil, "active listing PRICE[+SHIPPING] (repeatable)")

	return c
}

func (f *quoteFlags) input() (*pricing.Input, error) {
	in := &pricing.Input{
		FormatType:       f.format,
		MediaCondition:   f.media,
		ReferencePrice:   pricing.ParsePrice(f.reference),
		ComparablePrice:  pricing.ParsePrice(f.comparable),
		DiscogsHigh:      pricing.ParsePrice(f.high),
		DiscogsSuggested: pricing.ParsePrice(f.suggested),
		DiscogsMedian:    pricing.ParsePrice(f.median),
		DiscogsLast:      pricing.ParsePrice(f.last),
		DiscogsLow:       pricing.ParsePrice(f.low),
	}

	var err error
	if in.Sold, err = parseListings(f.sold); err != nil {
		return nil, fmt.Errorf("--sold: %w", err)
	}
	if in.Active, err = parseListings(f.active); err != nil {
		return nil, fmt.Errorf("--active: %w", err)
	}
	return in, nil
}

// parseListings reads PRICE or PRICE+SHIPPING values.
func parseListings(raw []string) ([]pricing.Listing, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]pricing.Listing, 0, len(raw))
	for _, r := range raw {
		pricePart, shipPart, hasShip := strings.Cut(r, "+")
		price := pricing.ParsePrice(pricePart)
		if price == nil {
			return nil, fmt.Errorf("invalid listing price %q", r)
		}
		l := pricing.Listing{Price: *price}
		if hasShip {
			ship := pricing.ParsePrice(shipPart)
			if ship == nil {
				return nil, fmt.Errorf("invalid shipping cost %q", r)
			}
			l.ShippingCost = *ship
		}
		out = append(out, l)
	}
	return out, nil
}
