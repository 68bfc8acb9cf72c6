package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

var optionColors = map[votes.Option]*color.Color{
	votes.Agree:    color.New(color.FgBlue),
	votes.Disagree: color.New(color.FgRed),
	votes.Tie:      color.New(color.FgMagenta),
}

func colored(o votes.Option) string {
	if c, ok := optionColors[o]; ok {
		return c.Sprint(o.String())
	}
	return o.String()
}

// reportRows builds one row per province in registry order.
func reportRows(res *aggregate.Result, opt votes.Option, all bool) [][]string {
	var rows [][]string
	for _, p := range provinces.All() {
		s := res.Stat(p.ID)
		if s == nil {
			if all {
				rows = append(rows, []string{p.Name, "-", "-", "-", "-", "-", "-", "-", "-"})
			}
			continue
		}
		share := s.Portion
		if opt.Valid() {
			share, _ = s.Share(opt)
		}
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%.0f", s.Total),
			colored(s.WinningOption),
			fmt.Sprintf("%.1f%%", share*100),
			fmt.Sprintf("%.0f", s.Agree),
			fmt.Sprintf("%.0f", s.Disagree),
			fmt.Sprintf("%.0f", s.Abstain),
			fmt.Sprintf("%.0f", s.NoVote),
			fmt.Sprintf("%.0f", s.Absent),
		})
	}
	return rows
}

func writeReport(w io.Writer, r *dashboard.Reducer, st dashboard.State, all bool) error {
	event := st.Filter.Event
	if event == "" {
		event = votes.LabelAll
	}
	opt := votes.LabelAll
	if st.Filter.HasOption() {
		opt = st.Filter.Option.String()
	}
	fmt.Fprintf(w, "\n=== %s ===\n%s · %s · %s\n\n", event, opt, st.Mode, st.Strategy.Name())

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Province", "Total", "Winner", "Share", "Agree", "Disagree", "Abstain", "No vote", "Absent"})
	for _, row := range reportRows(st.Result, st.Filter.Option, all) {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	sum := r.Index.Summary(st.Result)
	fmt.Fprintf(w, "\nMPs: %d (constituency %d, party-list %d)\n", sum.MPs, sum.Constituency, sum.PartyList)
	fmt.Fprintf(w, "Provinces with data: %d/%d\n", sum.WithData, provinces.Count())
	if sum.Dropped > 0 {
		fmt.Fprintf(w, "Dropped records: %s\n", color.YellowString("%d", sum.Dropped))
	}
	if sum.LastUpdated != "" {
		fmt.Fprintf(w, "Last updated: %s\n", sum.LastUpdated)
	}

	if st.HasSelection() {
		fmt.Fprintf(w, "\n%s\n", st.Selected().Name())
		for _, m := range st.Roster {
			party := m.Person.MemberOf
			if party == "" {
				party = "-"
			}
			fmt.Fprintf(w, "  %-40s %-24s %s\n", m.Person.FullName(), party, colored(m.Action()))
		}
	}
	return nil
}
