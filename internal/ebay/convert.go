package ebay

import (
	"strconv"
	"strings"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// ToListings converts eBay API item summaries into pricing listings. Items
// whose price does not parse, or is quoted in a different currency than
// currency, are dropped. An empty currency accepts any.
func ToListings(items []ItemSummary, currency string) []pricing.Listing {
	listings := make([]pricing.Listing, 0, len(items))
	for i := range items {
		l, ok := toListing(&items[i], currency)
		if !ok {
			continue
		}
		listings = append(listings, l)
	}
	return listings
}

func toListing(item *ItemSummary, currency string) (pricing.Listing, bool) {
	if currency != "" && item.Price.Currency != "" &&
		!strings.EqualFold(item.Price.Currency, currency) {
		return pricing.Listing{}, false
	}

	price, err := strconv.ParseFloat(item.Price.Value, 64)
	if err != nil || price <= 0 {
		return pricing.Listing{}, false
	}

	l := pricing.Listing{
		Price:        price,
		ConditionRaw: item.Condition,
	}

	// The first shipping option is the default service eBay shows buyers.
	if len(item.ShippingOptions) > 0 {
		if sc := item.ShippingOptions[0].ShippingCost; sc != nil {
			if cost, err := strconv.ParseFloat(sc.Value, 64); err == nil {
				l.ShippingCost = cost
			}
		}
	}

	return l, true
}
