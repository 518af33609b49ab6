package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

func TestItem_SearchQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item Item
		want string
	}{
		{"artist and title", Item{Artist: "John Coltrane", Title: "Blue Train"}, "John Coltrane Blue Train"},
		{"title only", Item{Title: "Blue Train"}, "Blue Train"},
		{"artist only", Item{Artist: "Coltrane"}, "Coltrane"},
		{"empty", Item{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.item.SearchQuery())
		})
	}
}

func TestItem_BaseInput(t *testing.T) {
	t.Parallel()

	item := Item{
		Format:         "LP",
		MediaCondition: "VG+",
		ReferencePrice: pricing.Price(22),
		SoldComps:      []pricing.Listing{{Price: 30, ConditionRaw: "NM"}},
	}

	in := item.BaseInput()
	assert.Equal(t, "LP", in.FormatType)
	assert.Equal(t, "VG+", in.MediaCondition)
	assert.InDelta(t, 22.0, *in.ReferencePrice, 1e-9)
	assert.Nil(t, in.ComparablePrice)
	assert.Len(t, in.Sold, 1)
	assert.Nil(t, in.DiscogsMedian)
}
