package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

func mustID(t *testing.T, name string) provinces.ID {
	t.Helper()
	id, ok := provinces.Lookup(name)
	require.True(t, ok, name)
	return id
}

func ballot(title, province, person, option string) votes.VoteDetailData {
	return votes.VoteDetailData{Title: title, Province: province, PersonName: person, Option: option}
}

func sampleDataset() *votes.Dataset {
	return &votes.Dataset{
		People: []votes.PersonData{
			{Prefix: "นาย", PersonName: "ก", MemberOf: "พรรค 1"},
			{Prefix: "นาง", PersonName: "ข", MemberOf: "พรรค 2"},
			{Prefix: "นาย", PersonName: "ค", MemberOf: "พรรค 1"},
			{Prefix: "นาย", PersonName: "ง", MemberOf: "พรรค 3"},
			{Prefix: "นาย", PersonName: "จ", MemberOf: "พรรค 2"},
			{Prefix: "นาย", PersonName: "บัญชีรายชื่อ", MemberOf: "พรรค 1"},
		},
		PersonVotes: []votes.PersonVoteData{
			{PersonName: "บัญชีรายชื่อ", Option: "ไม่เห็นด้วย", NoOfOption: 4},
			{PersonName: "บัญชีรายชื่อ", Option: "เห็นด้วย", NoOfOption: 1},
		},
		Details: []votes.VoteDetailData{
			ballot("Bill A", "ภูเก็ต", "ก", "เห็นด้วย"),
			ballot("Bill A", "ภูเก็ต", "ข", "เห็นด้วย"),
			ballot("Bill A", "ภูเก็ต", "ค", "ไม่เห็นด้วย"),
			ballot("Bill A", "ภูเก็ต", "ง", "งดออกเสียง"),
			ballot("Bill A", "ภูเก็ต", "จ", "ลา / ขาดลงมติ"),
			ballot("Bill B", "ภูเก็ต", "ก", "ไม่เห็นด้วย"),
			ballot("Bill B", "ภูเก็ต", "ข", "ไม่เห็นด้วย"),
		},
	}
}

func TestScenarioBDetailedCounts(t *testing.T) {
	res := Aggregate(sampleDataset(), Filter{Event: "Bill A"}, ModeDetailed)
	st := res.Stat(mustID(t, "ภูเก็ต"))
	require.NotNil(t, st)

	assert.Equal(t, 2.0, st.Agree)
	assert.Equal(t, 1.0, st.Disagree)
	assert.Equal(t, 1.0, st.Abstain)
	assert.Equal(t, 0.0, st.NoVote)
	assert.Equal(t, 1.0, st.Absent)
	assert.Equal(t, 5.0, st.Total)
	assert.Equal(t, votes.Agree, st.WinningOption)
	assert.InDelta(t, 0.8, st.Portion, 1e-9)
}

func TestDetailedPortionWhenAbsentWins(t *testing.T) {
	ds := &votes.Dataset{Details: []votes.VoteDetailData{
		ballot("Bill C", "ภูเก็ต", "ก", "ลา / ขาดลงมติ"),
		ballot("Bill C", "ภูเก็ต", "ข", "ลา / ขาดลงมติ"),
		ballot("Bill C", "ภูเก็ต", "ค", "ลา / ขาดลงมติ"),
		ballot("Bill C", "ภูเก็ต", "ง", "เห็นด้วย"),
		ballot("Bill C", "ภูเก็ต", "จ", "ไม่เห็นด้วย"),
		ballot("Bill C", "ยะลา", "ฉ", "ลา / ขาดลงมติ"),
	}}
	res := Aggregate(ds, Filter{Event: "Bill C"}, ModeDetailed)

	mixed := res.Stat(mustID(t, "ภูเก็ต"))
	require.NotNil(t, mixed)
	assert.Equal(t, votes.Absent, mixed.WinningOption)
	assert.InDelta(t, 0.4, mixed.Portion, 1e-9)

	allAbsent := res.Stat(mustID(t, "ยะลา"))
	require.NotNil(t, allAbsent)
	assert.Equal(t, votes.Absent, allAbsent.WinningOption)
	assert.Equal(t, 0.0, allAbsent.Portion)
}

func TestDetailedBucketsSumToTotal(t *testing.T) {
	for _, f := range []Filter{{}, {Event: "Bill A"}, {Event: "Bill B"}, {Option: votes.Disagree}} {
		res := Aggregate(sampleDataset(), f, ModeDetailed)
		for id, st := range res.Provinces {
			if st.Sum() != st.Total {
				t.Errorf("%v %v: buckets sum to %v, total %v", f, id, st.Sum(), st.Total)
			}
		}
	}
}

func TestDetailedOptionFilter(t *testing.T) {
	res := Aggregate(sampleDataset(), Filter{Option: votes.Disagree}, ModeDetailed)
	st := res.Stat(mustID(t, "ภูเก็ต"))
	require.NotNil(t, st)
	assert.Equal(t, 3.0, st.Disagree)
	assert.Equal(t, 3.0, st.Total)
	assert.Equal(t, 0.0, st.Agree)
}

func TestDetailedEdgeCases(t *testing.T) {
	ds := &votes.Dataset{Details: []votes.VoteDetailData{
		ballot("Bill A", "Atlantis", "x", "เห็นด้วย"),
		ballot("Bill A", "ตาก", "y", "maybe"),
		ballot("Bill A", "ยะลา", "z", "maybe"),
		ballot("Bill A", "ยะลา", "w", "เห็นด้วย"),
	}}
	res := Aggregate(ds, Filter{Event: "Bill A"}, ModeDetailed)

	assert.Equal(t, 1, res.Dropped)
	assert.Nil(t, res.Stat(mustID(t, "ตาก")), "unknown options must not create an entry")
	st := res.Stat(mustID(t, "ยะลา"))
	require.NotNil(t, st)
	assert.Equal(t, 1.0, st.Total)
	assert.Nil(t, res.Stat(mustID(t, "เชียงใหม่")))
}

func TestDetailedAliasedProvince(t *testing.T) {
	ds := &votes.Dataset{Details: []votes.VoteDetailData{
		ballot("Bill A", "อยุธยา", "x", "เห็นด้วย"),
	}}
	res := Aggregate(ds, Filter{}, ModeDetailed)
	assert.NotNil(t, res.Stat(mustID(t, "พระนครศรีอยุธยา")))
	assert.Zero(t, res.Dropped)
}

func TestWinner(t *testing.T) {
	counts := func(a, d, ab, nv, ak float64) func(votes.Option) float64 {
		st := &ProvinceStat{Agree: a, Disagree: d, Abstain: ab, NoVote: nv, Absent: ak}
		return st.Value
	}
	cases := []struct {
		name string
		in   func(votes.Option) float64
		want votes.Option
	}{
		{"empty", counts(0, 0, 0, 0, 0), votes.OptionUnknown},
		{"clear", counts(1, 3, 0, 0, 0), votes.Disagree},
		{"agree disagree tie", counts(2, 2, 0, 0, 0), votes.Tie},
		{"absent only", counts(0, 0, 0, 0, 2), votes.Absent},
		{"agree beats tied absent", counts(2, 0, 0, 0, 2), votes.Agree},
		{"disagree beats tied abstain", counts(0, 2, 2, 0, 0), votes.Disagree},
		{"abstain and absent", counts(0, 0, 2, 0, 2), votes.Abstain},
		{"abstain and no-vote", counts(0, 0, 2, 2, 0), votes.NoVote},
		{"abstain no-vote and absent", counts(0, 0, 2, 2, 2), votes.NoVote},
		{"three-way agree disagree absent", counts(1, 1, 0, 0, 1), votes.Tie},
	}
	for _, tc := range cases {
		if got := winner(tc.in); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMajorityActionTieOrder(t *testing.T) {
	p := &PersonStat{Disagree: 2, Agree: 2, Absent: 2}
	assert.Equal(t, votes.Agree, p.MajorityAction())
	p = &PersonStat{Abstain: 1, NoVote: 1}
	assert.Equal(t, votes.Abstain, p.MajorityAction())
	assert.Equal(t, votes.OptionUnknown, (&PersonStat{}).MajorityAction())
	assert.Equal(t, votes.OptionUnknown, (*PersonStat)(nil).MajorityAction())
}

func TestScenarioAFactWinningOption(t *testing.T) {
	ds := &votes.Dataset{Facts: []votes.FactData{
		{Title: "Bill A", Province: "เชียงใหม่", Option: "เห็นด้วย", Portion: 0.6, Type: "All"},
	}}
	res := Aggregate(ds, Filter{Event: "Bill A"}, ModeFact)
	st := res.Stat(mustID(t, "เชียงใหม่"))
	require.NotNil(t, st)
	assert.Equal(t, votes.Agree, st.WinningOption)
	assert.Equal(t, 0.6, st.Portion)
	assert.Equal(t, 0.6, st.Agree)
	assert.Equal(t, ModeFact, st.Mode)
}

func TestFactRowsAssignNotAccumulate(t *testing.T) {
	ds := &votes.Dataset{Facts: []votes.FactData{
		{Title: "Bill A", Province: "ตาก", Option: "เห็นด้วย", Portion: 0.9, Type: "All"},
		{Title: "Bill A", Province: "ตาก", Option: "เห็นด้วย", Portion: 0.4, Type: "เห็นด้วย"},
		{Title: "Bill A", Province: "ตาก", Option: "เห็นด้วย", Portion: 0.5, Type: "เห็นด้วย"},
		{Title: "Bill A", Province: "ตาก", Option: "ไม่เห็นด้วย", Portion: 0.3, Type: "ไม่เห็นด้วย"},
		{Title: "Bill B", Province: "ตาก", Option: "ไม่เห็นด้วย", Portion: 0.7, Type: "ไม่เห็นด้วย"},
	}}
	res := Aggregate(ds, Filter{Event: "Bill A", Option: votes.Disagree}, ModeFact)
	st := res.Stat(mustID(t, "ตาก"))
	require.NotNil(t, st)

	assert.Equal(t, 0.5, st.Agree, "option rows overwrite and win over the All row")
	assert.Equal(t, 0.3, st.Disagree, "fact rows are narrowed by title only")
	assert.Equal(t, 0.9, st.Portion)
	assert.InDelta(t, 0.8, st.Total, 1e-9)
}

func TestFactTieAndUnknownWinner(t *testing.T) {
	ds := &votes.Dataset{Facts: []votes.FactData{
		{Title: "Bill A", Province: "ตาก", Option: "ผลโหวตเสมอ", Portion: 1.2, Type: "All"},
		{Title: "Bill A", Province: "ยะลา", Option: "???", Portion: 0.5, Type: "All"},
	}}
	res := Aggregate(ds, Filter{}, ModeFact)

	tak := res.Stat(mustID(t, "ตาก"))
	require.NotNil(t, tak)
	assert.Equal(t, votes.Tie, tak.WinningOption)
	assert.Equal(t, 1.0, tak.Portion)
	assert.Zero(t, tak.Total)

	yala := res.Stat(mustID(t, "ยะลา"))
	require.NotNil(t, yala)
	assert.Equal(t, votes.OptionUnknown, yala.WinningOption)
}

func TestShare(t *testing.T) {
	detailed := &ProvinceStat{Mode: ModeDetailed, Agree: 3, Total: 4}
	v, ok := detailed.Share(votes.Agree)
	assert.True(t, ok)
	assert.Equal(t, 0.75, v)

	_, ok = (&ProvinceStat{Mode: ModeDetailed}).Share(votes.Agree)
	assert.False(t, ok)

	fact := &ProvinceStat{Mode: ModeFact, Disagree: 0.4}
	v, ok = fact.Share(votes.Disagree)
	assert.True(t, ok)
	assert.Equal(t, 0.4, v)
}

func TestRosterAndPartyList(t *testing.T) {
	ix := NewIndex(sampleDataset())
	res := ix.Aggregate(Filter{Event: "Bill B"}, ModeDetailed)

	roster := ix.Roster(res, mustID(t, "ภูเก็ต"))
	require.Len(t, roster, 5)
	assert.Equal(t, "ก", roster[0].Person.PersonName)
	assert.Equal(t, 1, roster[0].Stat.Disagree)
	assert.Equal(t, votes.Disagree, roster[0].Action())
	assert.Equal(t, 0, roster[2].Stat.Total, "members without ballots keep an empty stat")

	party := ix.PartyList(res)
	require.Len(t, party, 1)
	assert.Equal(t, votes.Disagree, party[0].Action(), "falls back to the overall record")

	assert.Nil(t, ix.Roster(res, mustID(t, "ยะลา")))

	sum := ix.Summary(res)
	assert.Equal(t, 6, sum.MPs)
	assert.Equal(t, 1, sum.PartyList)
	assert.Equal(t, 5, sum.Constituency)
	assert.Equal(t, 2, sum.Events)
}

func TestParticipationAndBreakdown(t *testing.T) {
	st := &ProvinceStat{Agree: 2, Disagree: 1, Abstain: 1, Absent: 1, Total: 5}
	used, other := Participation(st)
	assert.Equal(t, 3.0, used)
	assert.Equal(t, 2.0, other)

	b := Breakdown(st)
	require.Len(t, b, 5)
	assert.Equal(t, votes.Agree, b[0].Option)
	assert.Equal(t, 1.0, b[4].Value)

	used, other = Participation(nil)
	assert.Zero(t, used)
	assert.Zero(t, other)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("fact")
	require.NoError(t, err)
	assert.Equal(t, ModeFact, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeDetailed, m)
	_, err = ParseMode("bogus")
	assert.Error(t, err)
}
