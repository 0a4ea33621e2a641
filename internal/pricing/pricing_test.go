package pricing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldStore/internal/catalog"
)

func ptr(v float64) *float64 { return &v }

func sampleCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "A", PopularityScore: 60, Weight: 2},
		{ID: 2, Name: "B", PopularityScore: 10, Weight: 1},
		{ID: 3, Name: "C", PopularityScore: 95, Weight: 4},
		{ID: 4, Name: "D", PopularityScore: 0, Weight: 0.5},
	}
}

func TestPrice_Example(t *testing.T) {
	got := Price(catalog.Product{PopularityScore: 60, Weight: 2}, 65.23)
	assert.InDelta(t, 7958.06, got, 1e-9)
}

func TestPrice_FormulaHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		p := catalog.Product{
			PopularityScore: math.Floor(rng.Float64() * 101),
			Weight:          0.1 + rng.Float64()*10,
		}
		g := 1 + rng.Float64()*200
		assert.Equal(t, (p.PopularityScore+1)*p.Weight*g, Price(p, g))
	}
}

func TestPriceAll_KeepsOrderAndSource(t *testing.T) {
	src := sampleCatalog()
	priced := PriceAll(src, 10)

	require.Len(t, priced, len(src))
	for i := range src {
		assert.Equal(t, src[i], priced[i].Product)
	}
	assert.Equal(t, sampleCatalog(), src, "source catalog untouched")
}

func TestFilter_PriceRangeExcludesAll(t *testing.T) {
	items := PriceAll([]catalog.Product{{ID: 1, PopularityScore: 60, Weight: 2}}, 65.23)

	out := Filter(items, Bounds{MinPrice: ptr(1000), MaxPrice: ptr(5000)})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFilter_Bounds(t *testing.T) {
	items := PriceAll(sampleCatalog(), 10)
	// prices: A=1220, B=110, C=3840, D=5

	cases := []struct {
		name string
		b    Bounds
		want []int
	}{
		{"no bounds", Bounds{}, []int{1, 2, 3, 4}},
		{"min price only", Bounds{MinPrice: ptr(110)}, []int{1, 2, 3}},
		{"max price only", Bounds{MaxPrice: ptr(1220)}, []int{1, 2, 4}},
		{"inclusive price", Bounds{MinPrice: ptr(110), MaxPrice: ptr(1220)}, []int{1, 2}},
		{"min popularity only", Bounds{MinPopularity: ptr(60)}, []int{1, 3}},
		{"max popularity only", Bounds{MaxPopularity: ptr(10)}, []int{2, 4}},
		{"and composition", Bounds{MaxPrice: ptr(2000), MinPopularity: ptr(10)}, []int{1, 2}},
		{"inverted range", Bounds{MinPrice: ptr(5000), MaxPrice: ptr(1)}, []int{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(items, tc.b)
			ids := make([]int, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestFilter_SubsetInOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	products := make([]catalog.Product, 50)
	for i := range products {
		products[i] = catalog.Product{ID: i, PopularityScore: float64(rng.Intn(101)), Weight: 0.5 + rng.Float64()*5}
	}
	all := PriceAll(products, 60)

	for i := 0; i < 200; i++ {
		b := Bounds{}
		if rng.Intn(2) == 0 {
			b.MinPrice = ptr(rng.Float64() * 20000)
		}
		if rng.Intn(2) == 0 {
			b.MaxPrice = ptr(rng.Float64() * 30000)
		}
		if rng.Intn(2) == 0 {
			b.MinPopularity = ptr(float64(rng.Intn(101)))
		}
		if rng.Intn(2) == 0 {
			b.MaxPopularity = ptr(float64(rng.Intn(101)))
		}

		got := Filter(all, b)
		last := -1
		for _, it := range got {
			assert.Greater(t, it.ID, last, "relative order preserved")
			last = it.ID

			if b.MinPrice != nil {
				assert.GreaterOrEqual(t, it.Price, *b.MinPrice)
			}
			if b.MaxPrice != nil {
				assert.LessOrEqual(t, it.Price, *b.MaxPrice)
			}
			if b.MinPopularity != nil {
				assert.GreaterOrEqual(t, it.PopularityScore, *b.MinPopularity)
			}
			if b.MaxPopularity != nil {
				assert.LessOrEqual(t, it.PopularityScore, *b.MaxPopularity)
			}
		}
	}
}
