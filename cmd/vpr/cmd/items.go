package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/vinyl-pricer/internal/api/client"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

func itemsCmd() *cobra.Command {
	itemsRoot := &cobra.Command{
		Use:   "items",
		Short: "Manage the item queue",
		Long: "Items are records awaiting a storefront price. New items are priced\n" +
			"by the next pending run, or immediately with 'vpr items price'.",
	}

	itemsRoot.AddCommand(
		itemsListCmd(),
		itemsGetCmd(),
		itemsAddCmd(),
		itemsPriceCmd(),
		itemsDeleteCmd(),
	)

	return itemsRoot
}

func itemsListCmd() *cobra.Command {
	var (
		status string
		search string
		limit  int
		offset int
	)

	c := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Example: `  vpr items list --status pending
  vpr items list --search "can tago" --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListItems(cmd.Context(), &apiclient.ListItemsParams{
				Status: status,
				Search: search,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Items) == 0 {
				fmt.Println("No items found.")
				return nil
			}
			if err := printItemTable(os.Stdout, resp.Items); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d items.\n", len(resp.Items), resp.Total)
			return nil
		},
	}
	c.Flags().StringVar(&status, "status", "", "filter by status (pending, priced, failed)")
	c.Flags().StringVar(&search, "search", "", "match artist, title or catalog number")
	c.Flags().IntVar(&limit, "limit", 50, "maximum number of results")
	c.Flags().IntVar(&offset, "offset", 0, "pagination offset")

	return c
}

func itemsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show item details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := newClient().GetItem(cmd.Context(), args[0])
			if errors.Is(err, apiclient.ErrNotFound) {
				return fmt.Errorf("item %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(it)
			}
			return printItemDetail(os.Stdout, it)
		},
	}
}

func itemsAddCmd() *cobra.Command {
	var (
		req        apiclient.ItemRequest
		reference  string
		comparable string
		releaseID  int
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the pricing queue",
		Example: `  vpr items add --artist Can --title "Tago Mago" --media VG+ --ref 45
  vpr items add --artist Can --title "Ege Bamyasi" --release 1103947`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Artist == "" && req.Title == "" {
				return errors.New("--artist or --title is required")
			}
			req.ReferencePrice = pricing.ParsePrice(reference)
			req.ComparablePrice = pricing.ParsePrice(comparable)
			if releaseID > 0 {
				req.ReleaseID = &releaseID
			}

			it, err := newClient().CreateItem(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(it)
			}
			fmt.Printf("Created item %s (%s).\n", it.ID, it.Status)
			return nil
		},
	}

	c.Flags().StringVar(&req.Artist, "artist", "", "artist name")
	c.Flags().StringVar(&req.Title, "title", "", "release title")
	c.Flags().StringVar(&req.Label, "label", "", "record label")
	c.Flags().StringVar(&req.Catalog, "catalog", "", "catalog number")
	c.Flags().StringVar(&req.Country, "country", "", "country of release")
	c.Flags().IntVar(&req.Year, "year", 0, "release year")
	c.Flags().StringVar(&req.Format, "format", "", "format, e.g. LP or 7in")
	c.Flags().StringVar(&req.MediaCondition, "media", "", "media condition, e.g. VG+")
	c.Flags().StringVar(&req.SleeveCondition, "sleeve", "", "sleeve condition")
	c.Flags().StringVar(&reference, "ref", "", "spreadsheet reference price")
	c.Flags().StringVar(&comparable, "comparable", "", "comparable value")
	c.Flags().IntVar(&releaseID, "release", 0, "known Discogs release ID")

	return c
}

func itemsPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <id>",
		Short: "Price an item now",
		Long: "Gathers Discogs and eBay signals for the item, prices it and stores\n" +
			"the decision.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := newClient().PriceItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rec)
			}
			return printPricingDetail(os.Stdout, rec)
		},
	}
}

func itemsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item and its pricing history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted item " + strconv.Quote(args[0]) + ".")
			return nil
		},
	}
}
