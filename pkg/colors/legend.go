package colors

import (
	"fmt"

	"github.com/sudorandom/vote-grid/pkg/votes"
)

type Stop struct {
	Label string
	Color Color
}

// Legend describes what a renderer should draw next to the map.
type Legend struct {
	Title  string
	Stops  []Stop
	NoData Stop
	// Ramp is true when Stops are samples of a continuous gradient.
	Ramp bool
}

const noDataLabel = "ไม่มีข้อมูล"

// Legend builds the legend for the current option using the same colors ColorFor produces.
func (p *Policy) Legend(opt votes.Option) Legend {
	l := Legend{NoData: Stop{Label: noDataLabel, Color: p.Registry.NoData}}
	_, ramp := p.Strategy.(Gradient)

	if !opt.Valid() {
		l.Title = votes.LabelAll
		for _, o := range append(votes.Options[:len(votes.Options):len(votes.Options)], votes.Tie) {
			c, _ := p.Strategy.Fill(p.Registry, o, 1)
			l.Stops = append(l.Stops, Stop{Label: o.String(), Color: c})
		}
		return l
	}

	l.Title = opt.String()
	if ramp {
		l.Ramp = true
		for i := 0; i <= 4; i++ {
			v := float64(i) / 4
			c, _ := p.Strategy.Fill(p.Registry, opt, v)
			l.Stops = append(l.Stops, Stop{Label: fmt.Sprintf("%d%%", int(v*100)), Color: c})
		}
		return l
	}

	bins := p.Registry.Bins(opt)
	l.Stops = []Stop{
		{Label: "0-33%", Color: bins[BinLight]},
		{Label: "33-67%", Color: bins[BinMedium]},
		{Label: "67-100%", Color: bins[BinDark]},
	}
	return l
}
