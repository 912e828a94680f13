package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestBuildQuote(t *testing.T) {
	tests := []struct {
		name string
		pair *Pair
		want Quote
	}{
		{name: "nil pair", pair: nil, want: Quote{}},
		{name: "empty pair", pair: &Pair{}, want: Quote{}},
		{name: "both sides", pair: &Pair{Buy: ptr(1000), Sell: ptr(1050)}, want: Quote{Bid: 1000, Ask: 1050, Mid: 1025}},
		{name: "only buy", pair: &Pair{Buy: ptr(980)}, want: Quote{Bid: 980, Ask: 980, Mid: 980}},
		{name: "only sell", pair: &Pair{Sell: ptr(1010)}, want: Quote{Bid: 1010, Ask: 1010, Mid: 1010}},
		{name: "zero buy falls back to sell for mid", pair: &Pair{Buy: ptr(0), Sell: ptr(1010)}, want: Quote{Bid: 0, Ask: 1010, Mid: 1010}},
		{name: "zero sell falls back to buy for mid", pair: &Pair{Buy: ptr(990), Sell: ptr(0)}, want: Quote{Bid: 990, Ask: 0, Mid: 990}},
		{name: "non-finite side is missing", pair: &Pair{Buy: ptr(math.NaN()), Sell: ptr(1100)}, want: Quote{Bid: 1100, Ask: 1100, Mid: 1100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuote(tt.pair))
		})
	}
}

func TestConversions(t *testing.T) {
	q := BuildQuote(&Pair{Buy: ptr(1000), Sell: ptr(1100)})

	t.Run("local to hard pays the ask", func(t *testing.T) {
		got := ToHardFromLocal(ptr(110000), q)
		require.NotNil(t, got)
		assert.InDelta(t, 100.0, *got, 1e-9)
	})

	t.Run("hard to local receives the bid", func(t *testing.T) {
		got := ToLocalFromHard(ptr(100), q)
		require.NotNil(t, got)
		assert.InDelta(t, 100000.0, *got, 1e-9)
	})

	t.Run("missing amount yields nil", func(t *testing.T) {
		assert.Nil(t, ToHardFromLocal(nil, q))
		assert.Nil(t, ToLocalFromHard(nil, q))
		assert.Nil(t, ToHardFromLocal(ptr(math.Inf(1)), q))
	})

	t.Run("unusable rate yields nil", func(t *testing.T) {
		assert.Nil(t, ToHardFromLocal(ptr(100), Quote{}))
		assert.Nil(t, ToLocalFromHard(ptr(100), Quote{Bid: math.NaN()}))
	})

	t.Run("round trip loses exactly the spread", func(t *testing.T) {
		amount := 50000.0
		hard := ToHardFromLocal(&amount, q)
		require.NotNil(t, hard)
		back := ToLocalFromHard(hard, q)
		require.NotNil(t, back)

		loss := amount - *back
		assert.InDelta(t, amount*(1-q.Bid/q.Ask), loss, 1e-6)
		assert.Positive(t, loss)

		again := ToLocalFromHard(ToHardFromLocal(&amount, q), q)
		assert.Equal(t, *back, *again)
	})

	t.Run("round trip is lossless without spread", func(t *testing.T) {
		flat := BuildQuote(&Pair{Buy: ptr(1000), Sell: ptr(1000)})
		back := ToLocalFromHard(ToHardFromLocal(ptr(12345), flat), flat)
		require.NotNil(t, back)
		assert.InDelta(t, 12345.0, *back, 1e-9)
	})
}

func TestEffectiveRate(t *testing.T) {
	q := Quote{Bid: 1000, Ask: 1100, Mid: 1050}
	assert.Equal(t, 1100.0, *EffectiveRate(q, LocalToHard))
	assert.Equal(t, 1000.0, *EffectiveRate(q, HardToLocal))
	assert.Nil(t, EffectiveRate(Quote{}, LocalToHard))
}

func TestConverter(t *testing.T) {
	q := Quote{Bid: 1000, Ask: 1100, Mid: 1050}

	t.Run("zero value is liquidation", func(t *testing.T) {
		var c Converter
		assert.Equal(t, *ToHardFromLocal(ptr(2200), q), *c.ToHard(ptr(2200), q))
		assert.Equal(t, *ToLocalFromHard(ptr(2), q), *c.ToLocal(ptr(2), q))
		assert.Equal(t, 1100.0, *c.Rate(q, LocalToHard))
	})

	t.Run("mid mode uses mid both ways", func(t *testing.T) {
		c := Converter{Mode: Mid}
		assert.InDelta(t, 2.0, *c.ToHard(ptr(2100), q), 1e-9)
		assert.InDelta(t, 2100.0, *c.ToLocal(ptr(2), q), 1e-9)
		assert.Equal(t, 1050.0, *c.Rate(q, LocalToHard))
		assert.Equal(t, 1050.0, *c.Rate(q, HardToLocal))
	})
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("mid")
	require.NoError(t, err)
	assert.Equal(t, Mid, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Liquidation, m)

	_, err = ParseMode("spot")
	assert.Error(t, err)
}

func TestQuotesGet(t *testing.T) {
	quotes := Quotes{MEP: {Bid: 1, Ask: 2, Mid: 1.5}}

	got, ok := quotes.Get(MEP)
	assert.True(t, ok)
	assert.Equal(t, 2.0, got.Ask)

	_, ok = quotes.Get(Cripto)
	assert.False(t, ok)

	id, ok := quotes.Get(Identity)
	assert.True(t, ok)
	assert.Equal(t, Quote{Bid: 1, Ask: 1, Mid: 1}, id)
}

func TestParseBenchmark(t *testing.T) {
	for raw, want := range map[string]Benchmark{"mep": MEP, " Oficial ": Oficial, "CRIPTO": Cripto} {
		got, err := ParseBenchmark(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, raw := range []string{"identity", "blue", ""} {
		_, err := ParseBenchmark(raw)
		assert.Error(t, err, raw)
	}
}
