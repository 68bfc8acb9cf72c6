package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

func reducer() *dashboard.Reducer {
	d := func(title, province, person, option string) votes.VoteDetailData {
		return votes.VoteDetailData{Title: title, Province: province, PersonName: person, Option: option}
	}
	return dashboard.NewReducer(&votes.Dataset{
		People: []votes.PersonData{
			{PersonName: "ก", MemberOf: "พรรค ก", Province: "ตาก"},
			{PersonName: "ข", Province: "ตาก"},
			{PersonName: "ค"},
		},
		Details: []votes.VoteDetailData{
			d("Newest", "ตาก", "ก", "เห็นด้วย"),
			d("Newest", "ตาก", "ข", "เห็นด้วย"),
			d("Older", "ตาก", "ก", "ไม่เห็นด้วย"),
		},
	}, nil, scene.DefaultLayout())
}

func TestFiltered(t *testing.T) {
	r := reducer()
	tak, _ := provinces.Lookup("ตาก")

	st, err := filtered(r, aggregate.ModeDetailed, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Newest", st.Filter.Event)

	st, err = filtered(r, aggregate.ModeDetailed, "*", "disagree", "ตาก")
	require.NoError(t, err)
	assert.Equal(t, "", st.Filter.Event)
	assert.Equal(t, votes.Disagree, st.Filter.Option)
	assert.Equal(t, tak, st.Selected())
	assert.Equal(t, 1.0, st.Result.Stat(tak).Disagree)

	_, err = filtered(r, aggregate.ModeDetailed, "", "maybe", "")
	assert.Error(t, err)
	_, err = filtered(r, aggregate.ModeDetailed, "", "", "Atlantis")
	assert.Error(t, err)
}

func TestReportRows(t *testing.T) {
	color.NoColor = true
	r := reducer()
	st, err := filtered(r, aggregate.ModeDetailed, "Newest", "", "")
	require.NoError(t, err)

	rows := reportRows(st.Result, st.Filter.Option, false)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"ตาก", "2", "เห็นด้วย", "100.0%", "2", "0", "0", "0", "0"}, rows[0])

	assert.Len(t, reportRows(st.Result, st.Filter.Option, true), provinces.Count())
}

func TestWriteReport(t *testing.T) {
	color.NoColor = true
	r := reducer()
	st, err := filtered(r, aggregate.ModeDetailed, "Newest", "agree", "ตาก")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, r, st, false))
	out := buf.String()
	assert.Contains(t, out, "=== Newest ===")
	assert.Contains(t, out, "ตาก")
	assert.Contains(t, out, "MPs: 3 (constituency 2, party-list 1)")
	assert.Contains(t, out, "Provinces with data: 1/77")
	assert.Contains(t, out, "พรรค ก")
}
