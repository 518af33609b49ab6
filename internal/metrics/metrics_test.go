package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// promauto registers on package init.
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, PricingDecisionsTotal)
	assert.NotNil(t, PricingFinalPrice)
	assert.NotNil(t, PricingReferenceOverridesTotal)
	assert.NotNil(t, PricingItemErrorsTotal)
	assert.NotNil(t, RepriceDuration)
	assert.NotNil(t, RepriceItemsTotal)
	assert.NotNil(t, SchedulerNextRunTimestamp)
	assert.NotNil(t, DiscogsRequestsTotal)
	assert.NotNil(t, DiscogsRequestDuration)
	assert.NotNil(t, MusicBrainzRequestsTotal)
	assert.NotNil(t, MusicBrainzRequestDuration)
	assert.NotNil(t, EbayAPICallsTotal)
	assert.NotNil(t, EbayRateRemaining)
}

func TestPricingDecisionsTotal_Labels(t *testing.T) {
	t.Parallel()

	c := PricingDecisionsTotal.WithLabelValues("TEST")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 1e-9)
}
