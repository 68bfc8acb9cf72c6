package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#5B83C2")
	require.NoError(t, err)
	assert.Equal(t, Color{0x5b, 0x83, 0xc2}, c)
	assert.Equal(t, "#5b83c2", c.Hex())

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", c.Hex())

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestLerpBoundaries(t *testing.T) {
	a, b := MustHex("#f5f5f5"), MustHex("#bb000b")
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, a, Lerp(a, b, -3))
	assert.Equal(t, b, Lerp(a, b, 7))
	assert.Equal(t, Color{0x80, 0x80, 0x80}, Lerp(Color{}, Color{255, 255, 255}, 0.5))
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1.0, Luminance(Color{255, 255, 255}), 1e-9)
	assert.InDelta(t, 0.0, Luminance(Color{}), 1e-9)
	assert.True(t, IsDark(MustHex("#bb000b")))
	assert.False(t, IsDark(MustHex("#f5f5f5")))
}

func TestGradientBoundaries(t *testing.T) {
	p := NewPolicy(nil, Gradient{})
	r := p.Registry
	for _, o := range votes.Options {
		sig, ok := r.Signature(o)
		require.True(t, ok)

		zero := p.ColorFor(&aggregate.ProvinceStat{Mode: aggregate.ModeFact, WinningOption: o, Portion: 0}, votes.OptionUnknown)
		assert.Equal(t, r.Base, zero.Fill, o.String())

		one := p.ColorFor(&aggregate.ProvinceStat{Mode: aggregate.ModeFact, WinningOption: o, Portion: 1}, votes.OptionUnknown)
		assert.Equal(t, sig, one.Fill, o.String())
	}
}

func TestScenarioAColor(t *testing.T) {
	ds := &votes.Dataset{Facts: []votes.FactData{
		{Title: "Bill A", Province: "เชียงใหม่", Option: "เห็นด้วย", Portion: 0.6, Type: "All"},
	}}
	res := aggregate.Aggregate(ds, aggregate.Filter{Event: "Bill A"}, aggregate.ModeFact)
	var stat *aggregate.ProvinceStat
	for _, st := range res.Provinces {
		stat = st
	}
	require.NotNil(t, stat)

	p := NewPolicy(nil, nil)
	sig, _ := p.Registry.Signature(votes.Agree)
	got := p.ColorFor(stat, votes.OptionUnknown)
	assert.Equal(t, Lerp(p.Registry.Base, sig, 0.6), got.Fill)
}

func TestColorForIsDeterministic(t *testing.T) {
	stat := &aggregate.ProvinceStat{Mode: aggregate.ModeDetailed, Agree: 3, Disagree: 1, Total: 4, Portion: 1, WinningOption: votes.Agree}
	for _, s := range []Strategy{Gradient{}, ThreeBin{}} {
		p := NewPolicy(nil, s)
		for _, o := range []votes.Option{votes.OptionUnknown, votes.Agree, votes.Disagree, votes.Absent} {
			first := p.ColorFor(stat, o)
			for i := 0; i < 10; i++ {
				if got := p.ColorFor(stat, o); got.Fill.Hex() != first.Fill.Hex() || got.Text != first.Text {
					t.Fatalf("%s/%v: got %v, want %v", s.Name(), o, got, first)
				}
			}
		}
	}
}

func TestNoData(t *testing.T) {
	p := NewPolicy(nil, nil)
	assert.Equal(t, Pair{Fill: MustHex("#d4d4d4"), Text: MustHex("#1f2937")}, p.ColorFor(nil, votes.Agree))
	assert.Equal(t, p.NoData(), p.ColorFor(&aggregate.ProvinceStat{Mode: aggregate.ModeDetailed}, votes.OptionUnknown))
}

func TestUnknownWinnerFallsBackToNeutral(t *testing.T) {
	p := NewPolicy(nil, Gradient{})
	stat := &aggregate.ProvinceStat{Mode: aggregate.ModeFact, WinningOption: votes.OptionUnknown, Portion: 1}
	assert.Equal(t, p.Registry.Neutral, p.ColorFor(stat, votes.OptionUnknown).Fill)

	bins := NewPolicy(nil, ThreeBin{})
	assert.Equal(t, MustHex("#678967"), bins.ColorFor(stat, votes.OptionUnknown).Fill)
}

func TestSelectedOptionNormalizesDetailedCounts(t *testing.T) {
	p := NewPolicy(nil, Gradient{})
	stat := &aggregate.ProvinceStat{Mode: aggregate.ModeDetailed, Agree: 2, Disagree: 2, Total: 4}
	sig, _ := p.Registry.Signature(votes.Disagree)
	assert.Equal(t, Lerp(p.Registry.Base, sig, 0.5), p.ColorFor(stat, votes.Disagree).Fill)
}

func TestThreeBinThresholds(t *testing.T) {
	cases := []struct {
		portion float64
		bin     Bin
		ok      bool
	}{
		{0, 0, false},
		{-0.1, 0, false},
		{0.01, BinLight, true},
		{0.33, BinLight, true},
		{0.34, BinMedium, true},
		{0.67, BinMedium, true},
		{0.68, BinDark, true},
		{1, BinDark, true},
	}
	for _, tc := range cases {
		bin, ok := BinFor(tc.portion)
		if bin != tc.bin || ok != tc.ok {
			t.Errorf("BinFor(%v) = (%v, %v), want (%v, %v)", tc.portion, bin, ok, tc.bin, tc.ok)
		}
	}

	p := NewPolicy(nil, ThreeBin{})
	stat := &aggregate.ProvinceStat{Mode: aggregate.ModeFact, Disagree: 0.9}
	assert.Equal(t, MustHex("#9d0606"), p.ColorFor(stat, votes.Disagree).Fill)
	assert.Equal(t, p.NoData(), p.ColorFor(stat, votes.Agree))
}

func TestTextContrast(t *testing.T) {
	p := NewPolicy(nil, ThreeBin{})
	stat := &aggregate.ProvinceStat{Mode: aggregate.ModeFact, Disagree: 0.9}
	assert.Equal(t, p.Registry.LightText, p.ColorFor(stat, votes.Disagree).Text)

	stat = &aggregate.ProvinceStat{Mode: aggregate.ModeFact, Disagree: 0.1}
	assert.Equal(t, p.Registry.DarkText, p.ColorFor(stat, votes.Disagree).Text)
}

func TestAutoStrategy(t *testing.T) {
	assert.Equal(t, "3bin", AutoStrategy(12).Name())
	assert.Equal(t, "gradient", AutoStrategy(35).Name())

	s, err := ParseStrategy("3bin")
	require.NoError(t, err)
	assert.Equal(t, ThreeBin{}, s)
	_, err = ParseStrategy("plaid")
	assert.Error(t, err)
}

func TestLegend(t *testing.T) {
	grad := NewPolicy(nil, Gradient{})
	l := grad.Legend(votes.Agree)
	assert.True(t, l.Ramp)
	require.Len(t, l.Stops, 5)
	assert.Equal(t, grad.Registry.Base, l.Stops[0].Color)
	sig, _ := grad.Registry.Signature(votes.Agree)
	assert.Equal(t, sig, l.Stops[4].Color)

	all := grad.Legend(votes.OptionUnknown)
	assert.Len(t, all.Stops, 6)
	assert.Equal(t, votes.LabelAll, all.Title)

	bins := NewPolicy(nil, ThreeBin{}).Legend(votes.Disagree)
	assert.False(t, bins.Ramp)
	require.Len(t, bins.Stops, 3)
	assert.Equal(t, MustHex("#fdacaf"), bins.Stops[0].Color)
}

func TestRegistryLookups(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, MustHex("#e8dbcf"), r.Background(votes.OptionUnknown))
	assert.Equal(t, MustHex("#f4eeeb"), r.Background(votes.Tie))
	assert.Equal(t, MustHex("#060b7d"), r.Action(votes.Agree))
	assert.Equal(t, MustHex("#d1d5db"), r.Action(votes.OptionUnknown))
	assert.Equal(t, r.Bins(votes.OptionUnknown), r.Bins(votes.Option(42)))
}
