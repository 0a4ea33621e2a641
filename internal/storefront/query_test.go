package storefront

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductsQuery(t *testing.T) {
	q := parseProductsQuery(url.Values{
		"minPrice":      {"100.5"},
		"maxPrice":      {" 900 "},
		"minPopularity": {"not-a-number"},
		"realTimePrice": {"true"},
	})

	require.NotNil(t, q.Bounds.MinPrice)
	require.NotNil(t, q.Bounds.MaxPrice)
	assert.Equal(t, 100.5, *q.Bounds.MinPrice)
	assert.Equal(t, 900.0, *q.Bounds.MaxPrice)
	assert.Nil(t, q.Bounds.MinPopularity)
	assert.Nil(t, q.Bounds.MaxPopularity)
	assert.True(t, q.UseLiveMode)
}

func TestParseProductsQuery_LiveFlag(t *testing.T) {
	cases := map[string]bool{
		"realTimePrice=true":  true,
		"realTimePrice=false": false,
		"realTimePrice=yes":   false,
		"useLiveMode=1":       true,
		"":                    false,
	}
	for raw, want := range cases {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)
		assert.Equal(t, want, parseProductsQuery(v).UseLiveMode, raw)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 61.83, round2(61.82827))
	assert.Equal(t, 65.23, round2(65.23))
}
