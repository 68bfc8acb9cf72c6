package aggregate

import (
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Member is one MP together with their ballots under the current filter and
// their totals across every event.
type Member struct {
	Person  votes.PersonData
	Stat    *PersonStat
	Overall *PersonStat
}

// Action is the member's majority action under the current filter, falling back
// to their overall record when they cast no ballot in it.
func (m Member) Action() votes.Option {
	if m.Stat != nil && m.Stat.Total > 0 {
		return m.Stat.MajorityAction()
	}
	return m.Overall.MajorityAction()
}

// Roster lists the MPs of a province, sorted by name, with stats taken from res.
func (ix *Index) Roster(res *Result, id provinces.ID) []Member {
	names := ix.byProvince[id]
	if len(names) == 0 {
		return nil
	}
	out := make([]Member, 0, len(names))
	for _, name := range names {
		out = append(out, ix.member(res, name))
	}
	return out
}

// PartyList lists the MPs without a constituency, sorted by name.
func (ix *Index) PartyList(res *Result) []Member {
	out := make([]Member, 0, len(ix.partyList))
	for _, name := range ix.partyList {
		out = append(out, ix.member(res, name))
	}
	return out
}

func (ix *Index) member(res *Result, name string) Member {
	m := Member{Person: ix.people[name], Overall: ix.overall[name]}
	if res != nil {
		m.Stat = res.People[name]
	}
	if m.Stat == nil {
		m.Stat = &PersonStat{Name: name, Province: ix.personProvince[name]}
	}
	return m
}

// ProvinceOf returns the constituency of a person.
func (ix *Index) ProvinceOf(name string) (provinces.ID, bool) {
	id, ok := ix.personProvince[name]
	return id, ok
}

// Participation splits a province into ballots that used the right to vote
// (agree or disagree) and everything else.
func Participation(s *ProvinceStat) (used, other float64) {
	if s == nil {
		return 0, 0
	}
	used = s.Agree + s.Disagree
	return used, s.Total - used
}

type Bucket struct {
	Option votes.Option
	Value  float64
}

// Breakdown returns the five buckets in declaration order.
func Breakdown(s *ProvinceStat) []Bucket {
	out := make([]Bucket, 0, len(votes.Options))
	for _, o := range votes.Options {
		out = append(out, Bucket{Option: o, Value: s.Value(o)})
	}
	return out
}

// MemberBreakdown sums the ballots of a roster per category.
func MemberBreakdown(members []Member) []Bucket {
	out := make([]Bucket, 0, len(votes.Options))
	for _, o := range votes.Options {
		var n int
		for _, m := range members {
			n += m.Stat.Count(o)
		}
		out = append(out, Bucket{Option: o, Value: float64(n)})
	}
	return out
}

type Summary struct {
	MPs          int
	Constituency int
	PartyList    int
	Events       int
	WithData     int
	Dropped      int
	LastUpdated  string
}

func (ix *Index) Summary(res *Result) Summary {
	s := Summary{
		MPs:       len(ix.ds.People),
		PartyList: len(ix.partyList),
		Events:    len(ix.ds.Events()),
	}
	s.Constituency = s.MPs - s.PartyList
	if res != nil {
		s.WithData = len(res.Provinces)
		s.Dropped = res.Dropped
	}
	if ix.ds.Metadata != nil {
		s.LastUpdated = ix.ds.Metadata.LastUpdated
	}
	return s
}
