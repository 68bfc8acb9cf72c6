package aggregate

import (
	"sort"

	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// Result is one aggregation pass. It is rebuilt wholesale on every filter change.
type Result struct {
	Mode   Mode
	Filter Filter

	// Provinces has an entry only for provinces with at least one eligible record.
	Provinces map[provinces.ID]*ProvinceStat
	People    map[string]*PersonStat

	// Dropped counts records whose province could not be resolved.
	Dropped int
}

// Stat returns the stat for id, or nil when the province has no data.
func (r *Result) Stat(id provinces.ID) *ProvinceStat {
	if r == nil {
		return nil
	}
	return r.Provinces[id]
}

// Index resolves every person and province in a dataset once so repeated
// aggregation passes only walk the records.
type Index struct {
	ds       *votes.Dataset
	resolver *provinces.Resolver

	people         map[string]votes.PersonData
	personProvince map[string]provinces.ID
	byProvince     map[provinces.ID][]string
	partyList      []string
	overall        map[string]*PersonStat
}

func NewIndex(ds *votes.Dataset) *Index {
	if ds == nil {
		ds = &votes.Dataset{}
	}
	ix := &Index{
		ds:             ds,
		resolver:       provinces.NewResolver(),
		people:         make(map[string]votes.PersonData, len(ds.People)),
		personProvince: make(map[string]provinces.ID),
		byProvince:     make(map[provinces.ID][]string),
		overall:        make(map[string]*PersonStat),
	}
	for _, p := range ds.People {
		ix.people[p.PersonName] = p
	}

	// A person's province is the first one they appear under in the ballot data.
	for _, v := range ds.Details {
		if _, ok := ix.personProvince[v.PersonName]; ok {
			continue
		}
		if id, ok := ix.resolver.Resolve(v.Province); ok {
			ix.personProvince[v.PersonName] = id
		}
	}
	for _, p := range ds.People {
		if _, ok := ix.personProvince[p.PersonName]; ok {
			continue
		}
		if id, ok := ix.resolver.Resolve(p.Province); ok {
			ix.personProvince[p.PersonName] = id
		}
	}

	for _, p := range ds.People {
		if id, ok := ix.personProvince[p.PersonName]; ok {
			ix.byProvince[id] = append(ix.byProvince[id], p.PersonName)
		} else {
			ix.partyList = append(ix.partyList, p.PersonName)
		}
	}
	for id := range ix.byProvince {
		sort.Strings(ix.byProvince[id])
	}
	sort.Strings(ix.partyList)

	for _, pv := range ds.PersonVotes {
		opt, ok := votes.ParseOption(pv.Option)
		if !ok || !opt.Valid() {
			continue
		}
		st := ix.overall[pv.PersonName]
		if st == nil {
			st = &PersonStat{Name: pv.PersonName, Province: ix.personProvince[pv.PersonName]}
			ix.overall[pv.PersonName] = st
		}
		st.add(opt, pv.NoOfOption)
	}
	return ix
}

func (ix *Index) Dataset() *votes.Dataset { return ix.ds }

// Aggregate builds province and person statistics for the filter.
func Aggregate(ds *votes.Dataset, f Filter, mode Mode) *Result {
	return NewIndex(ds).Aggregate(f, mode)
}

func (ix *Index) Aggregate(f Filter, mode Mode) *Result {
	res := &Result{
		Mode:      mode,
		Filter:    f,
		Provinces: make(map[provinces.ID]*ProvinceStat),
		People:    make(map[string]*PersonStat),
	}
	ix.tallyPeople(res)
	if mode == ModeFact {
		ix.aggregateFacts(res)
	} else {
		ix.aggregateDetails(res)
	}
	return res
}

// detailMatches narrows a ballot by event title and, when set, by option.
func detailMatches(v votes.VoteDetailData, f Filter) (votes.Option, bool) {
	if f.Event != "" && v.Title != f.Event {
		return votes.OptionUnknown, false
	}
	opt, _ := votes.ParseOption(v.Option)
	if f.HasOption() && opt != f.Option {
		return votes.OptionUnknown, false
	}
	return opt, true
}

func (ix *Index) provinceOf(v votes.VoteDetailData) (provinces.ID, bool) {
	if id, ok := ix.resolver.Resolve(v.Province); ok {
		return id, true
	}
	id, ok := ix.personProvince[v.PersonName]
	return id, ok
}

func (ix *Index) tallyPeople(res *Result) {
	for _, v := range ix.ds.Details {
		opt, ok := detailMatches(v, res.Filter)
		if !ok || !opt.Valid() {
			continue
		}
		st := res.People[v.PersonName]
		if st == nil {
			id, _ := ix.provinceOf(v)
			st = &PersonStat{Name: v.PersonName, Province: id}
			res.People[v.PersonName] = st
		}
		st.add(opt, 1)
	}
}

func (ix *Index) aggregateDetails(res *Result) {
	for _, v := range ix.ds.Details {
		opt, ok := detailMatches(v, res.Filter)
		if !ok {
			continue
		}
		id, ok := ix.provinceOf(v)
		if !ok {
			res.Dropped++
			continue
		}
		if !opt.Valid() {
			continue
		}
		st := res.Provinces[id]
		if st == nil {
			st = &ProvinceStat{Province: id, Mode: ModeDetailed}
			res.Provinces[id] = st
		}
		st.set(opt, st.Value(opt)+1)
		st.Total++
	}

	for _, st := range res.Provinces {
		st.WinningOption = winner(st.Value)
		if st.Absent == st.Total {
			st.Portion = 0
		} else {
			st.Portion = (st.Total - st.Absent) / st.Total
		}
	}
}

func (ix *Index) aggregateFacts(res *Result) {
	type pending struct {
		opt     votes.Option
		portion float64
	}
	assigned := make(map[provinces.ID]map[votes.Option]bool)
	fromAll := make(map[provinces.ID]pending)

	for _, f := range ix.ds.Facts {
		if res.Filter.Event != "" && f.Title != res.Filter.Event {
			continue
		}
		id, ok := ix.resolver.Resolve(f.Province)
		if !ok {
			res.Dropped++
			continue
		}
		opt, known := votes.ParseOption(f.Option)
		if !f.IsAll() && (!known || !opt.Valid()) {
			continue
		}

		st := res.Provinces[id]
		if st == nil {
			st = &ProvinceStat{Province: id, Mode: ModeFact}
			res.Provinces[id] = st
			assigned[id] = make(map[votes.Option]bool)
		}
		if f.IsAll() {
			st.Portion = clamp01(f.Portion)
			st.WinningOption = opt
			fromAll[id] = pending{opt: opt, portion: clamp01(f.Portion)}
			continue
		}
		st.set(opt, clamp01(f.Portion))
		assigned[id][opt] = true
	}

	// The "All" row fills its own bucket only when no option row has.
	for id, p := range fromAll {
		if p.opt.Valid() && !assigned[id][p.opt] {
			res.Provinces[id].set(p.opt, p.portion)
		}
	}
	for _, st := range res.Provinces {
		st.Total = st.Sum()
	}
}
