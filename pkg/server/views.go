package server

import (
	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

type statView struct {
	Agree         float64 `json:"agree"`
	Disagree      float64 `json:"disagree"`
	Abstain       float64 `json:"abstain"`
	NoVote        float64 `json:"novote"`
	Absent        float64 `json:"absent"`
	Total         float64 `json:"total"`
	Portion       float64 `json:"portion"`
	WinningOption string  `json:"winning_option"`
	WinningLabel  string  `json:"winning_label"`
}

type provinceView struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	English  string    `json:"name_en"`
	Abbr     string    `json:"abbr"`
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	Fill     string    `json:"fill"`
	Text     string    `json:"text"`
	Selected bool      `json:"selected,omitempty"`
	Stat     *statView `json:"stat,omitempty"`
}

type memberView struct {
	Name        string `json:"name"`
	Prefix      string `json:"prefix,omitempty"`
	Image       string `json:"image,omitempty"`
	Party       string `json:"party,omitempty"`
	PartyColor  string `json:"party_color,omitempty"`
	PartyImage  string `json:"party_image,omitempty"`
	Action      string `json:"action"`
	ActionLabel string `json:"action_label"`
	Agree       int    `json:"agree"`
	Disagree    int    `json:"disagree"`
	Abstain     int    `json:"abstain"`
	NoVote      int    `json:"novote"`
	Absent      int    `json:"absent"`
	Total       int    `json:"total"`
}

type tooltipView struct {
	Visible  bool         `json:"visible"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Province string       `json:"province,omitempty"`
	MPs      []memberView `json:"mps,omitempty"`
	Stat     *statView    `json:"stat,omitempty"`
}

type cameraView struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// stateView is what a websocket client receives after every action.
type stateView struct {
	Revision int            `json:"revision"`
	Event    string         `json:"event"`
	Option   string         `json:"option"`
	Mode     string         `json:"mode"`
	Strategy string         `json:"strategy"`
	Selected string         `json:"selected,omitempty"`
	Roster   []memberView   `json:"roster"`
	Tooltip  tooltipView    `json:"tooltip"`
	Camera   cameraView     `json:"camera"`
	Tiles    []provinceView `json:"tiles"`
	Dropped  int            `json:"dropped"`
}

func newStatView(st *aggregate.ProvinceStat) *statView {
	if st == nil {
		return nil
	}
	return &statView{
		Agree:         st.Agree,
		Disagree:      st.Disagree,
		Abstain:       st.Abstain,
		NoVote:        st.NoVote,
		Absent:        st.Absent,
		Total:         st.Total,
		Portion:       st.Portion,
		WinningOption: st.WinningOption.Key(),
		WinningLabel:  st.WinningOption.String(),
	}
}

func newProvinceView(t scene.Tile) provinceView {
	p, _ := provinces.ByID(t.Province)
	return provinceView{
		ID:       int(p.ID),
		Name:     p.Name,
		English:  p.English,
		Abbr:     p.Abbr,
		Row:      p.Row,
		Col:      p.Col,
		Fill:     t.Fill.Hex(),
		Text:     t.Text.Hex(),
		Selected: t.Selected,
		Stat:     newStatView(t.Stat),
	}
}

func newProvinceViews(tiles []scene.Tile) []provinceView {
	out := make([]provinceView, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, newProvinceView(t))
	}
	return out
}

func newMemberViews(members []aggregate.Member) []memberView {
	out := make([]memberView, 0, len(members))
	for _, m := range members {
		action := m.Action()
		out = append(out, memberView{
			Name:        m.Person.PersonName,
			Prefix:      m.Person.Prefix,
			Image:       m.Person.Image,
			Party:       m.Person.MemberOf,
			PartyColor:  m.Person.PartyColor,
			PartyImage:  m.Person.PartyImage,
			Action:      action.Key(),
			ActionLabel: action.String(),
			Agree:       m.Stat.Count(votes.Agree),
			Disagree:    m.Stat.Count(votes.Disagree),
			Abstain:     m.Stat.Count(votes.Abstain),
			NoVote:      m.Stat.Count(votes.NoVote),
			Absent:      m.Stat.Count(votes.Absent),
			Total:       m.Stat.Total,
		})
	}
	return out
}

func newStateView(st dashboard.State) stateView {
	v := stateView{
		Revision: st.Revision,
		Event:    st.Filter.Event,
		Option:   st.Filter.Option.Key(),
		Mode:     st.Mode.String(),
		Roster:   newMemberViews(st.Roster),
		Camera:   cameraView{Scale: st.Scene.Camera.Scale, X: st.Scene.Camera.X, Y: st.Scene.Camera.Y},
		Tiles:    newProvinceViews(st.Tiles),
	}
	if st.Strategy != nil {
		v.Strategy = st.Strategy.Name()
	}
	if st.Result != nil {
		v.Dropped = st.Result.Dropped
	}
	if st.HasSelection() {
		v.Selected = st.Selected().Name()
	}
	if tt := st.Scene.Tooltip; tt.Visible {
		v.Tooltip = tooltipView{
			Visible:  true,
			X:        tt.Position.X,
			Y:        tt.Position.Y,
			Province: tt.Province.Name(),
			MPs:      newMemberViews(tt.MPs),
			Stat:     newStatView(tt.Stat),
		}
	}
	return v
}

type stopView struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type legendView struct {
	Title  string     `json:"title"`
	Stops  []stopView `json:"stops"`
	NoData stopView   `json:"no_data"`
	Ramp   bool       `json:"ramp"`
}

func newLegendView(l colors.Legend) legendView {
	v := legendView{
		Title:  l.Title,
		NoData: stopView{Label: l.NoData.Label, Color: l.NoData.Color.Hex()},
		Ramp:   l.Ramp,
	}
	for _, s := range l.Stops {
		v.Stops = append(v.Stops, stopView{Label: s.Label, Color: s.Color.Hex()})
	}
	return v
}
