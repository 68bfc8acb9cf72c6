package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

const (
	DefaultBatchSize = 100
	// MaxStalledPages stops pagination after this many pages with no new ids.
	MaxStalledPages = 2

	labelTermPrefix   = "สส. ชุดที่"
	labelConstituency = "แบ่งเขต"
	labelPartyMember  = "สมาชิกพรรค"
)

const peopleQuery = `query People($limit: Int, $offset: Int) {
  people(limit: $limit, offset: $offset) {
    id prefix name image
    memberships {
      label province district_number start_date end_date
      posts { label organizations { name image color } }
    }
  }
}`

const voteEventsQuery = `query VoteEvents($limit: Int, $offset: Int) {
  voteEvents(limit: $limit, offset: $offset) {
    id title nickname classification publish_status start_date end_date
    pass_condition result agree_count disagree_count abstain_count novote_count
    votes { option voters { name } }
  }
}`

type liveOrganization struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Color string `json:"color"`
}

type livePost struct {
	Label         string             `json:"label"`
	Organizations []liveOrganization `json:"organizations"`
}

type liveMembership struct {
	Label     string     `json:"label"`
	Province  string     `json:"province"`
	StartDate string     `json:"start_date"`
	EndDate   *string    `json:"end_date"`
	Posts     []livePost `json:"posts"`
}

type livePerson struct {
	ID          string           `json:"id"`
	Prefix      string           `json:"prefix"`
	Name        string           `json:"name"`
	Image       string           `json:"image"`
	Memberships []liveMembership `json:"memberships"`
}

type liveVoter struct {
	Name string `json:"name"`
}

type liveVote struct {
	Option string      `json:"option"`
	Voters []liveVoter `json:"voters"`
}

type liveEvent struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	StartDate string     `json:"start_date"`
	Votes     []liveVote `json:"votes"`
}

// LiveSource builds the collections from the GraphQL API on first Fetch and serves
// them from memory afterwards.
type LiveSource struct {
	Client *GraphQLClient
	Log    *zap.Logger

	// Year keeps only events whose start_date begins with it. Empty keeps all.
	Year string
	// ExcludeTitles drops events by exact title.
	ExcludeTitles []string
	BatchSize     int
	// Pause between pages.
	Pause time.Duration

	mu    sync.Mutex
	built map[string][]byte
}

func (s *LiveSource) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.built == nil {
		built, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.built = built
	}
	b, ok := s.built[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *LiveSource) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *LiveSource) batchSize() int {
	if s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

func (s *LiveSource) build(ctx context.Context) (map[string][]byte, error) {
	log := s.logger()
	log.Info("Fetching people")
	people, err := paginate(ctx, s, peopleQuery, "people", func(p livePerson) string { return p.ID })
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}
	log.Info("Fetching vote events")
	events, err := paginate(ctx, s, voteEventsQuery, "voteEvents", func(e liveEvent) string { return e.ID })
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vote events: %w", err)
	}

	ds := transform(people, s.filterEvents(events))
	out := map[string][]byte{}
	for name, v := range map[string]any{
		PersonData:     ds.People,
		PersonVoteData: ds.PersonVotes,
		FactData:       ds.Facts,
		VoteDetailData: ds.Details,
		MetadataFile:   ds.Metadata,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	log.Info("Built collections from GraphQL",
		zap.Int("people", len(ds.People)),
		zap.Int("events", len(events)),
		zap.Int("details", len(ds.Details)),
		zap.Int("facts", len(ds.Facts)))
	return out, nil
}

func (s *LiveSource) filterEvents(events []liveEvent) []liveEvent {
	excluded := make(map[string]bool, len(s.ExcludeTitles))
	for _, t := range s.ExcludeTitles {
		excluded[t] = true
	}
	out := events[:0:0]
	for _, e := range events {
		if excluded[e.Title] {
			continue
		}
		if s.Year != "" && !strings.HasPrefix(e.StartDate, s.Year) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// paginate walks limit/offset pages until an empty page, a short page, or
// MaxStalledPages pages in a row that add no unseen id.
func paginate[T any](ctx context.Context, s *LiveSource, query, key string, id func(T) string) ([]T, error) {
	batch := s.batchSize()
	seen := make(map[string]bool)
	var all []T
	offset, stalled := 0, 0
	for {
		var data map[string][]T
		if err := s.Client.Do(ctx, query, map[string]any{"limit": batch, "offset": offset}, &data); err != nil {
			return nil, err
		}
		page := data[key]
		if len(page) == 0 {
			break
		}
		added := 0
		for _, row := range page {
			k := id(row)
			if seen[k] {
				continue
			}
			seen[k] = true
			all = append(all, row)
			added++
		}
		s.logger().Debug("Fetched page",
			zap.String("key", key), zap.Int("offset", offset),
			zap.Int("fetched", len(page)), zap.Int("added", added))

		if added == 0 {
			stalled++
			if stalled >= MaxStalledPages {
				break
			}
		} else {
			stalled = 0
		}
		if len(page) < batch {
			break
		}
		offset += batch

		if s.Pause > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.Pause):
			}
		}
	}
	return all, nil
}

// transform turns GraphQL people and events into a Dataset. Events come out newest
// first. Fact rows are derived from the ballots with the detailed aggregation rules.
func transform(people []livePerson, events []liveEvent) *votes.Dataset {
	ds := &votes.Dataset{}
	known := make(map[string]bool)
	for _, p := range people {
		pd, ok := personData(p)
		if !ok {
			continue
		}
		known[pd.PersonName] = true
		ds.People = append(ds.People, pd)
	}
	province := make(map[string]string, len(ds.People))
	for _, p := range ds.People {
		province[p.PersonName] = p.Province
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].StartDate > events[j].StartDate })

	type personOption struct {
		name string
		opt  string
	}
	counts := make(map[personOption]int)
	var order []personOption
	for _, e := range events {
		for _, v := range e.Votes {
			for _, voter := range v.Voters {
				if !known[voter.Name] {
					continue
				}
				ds.Details = append(ds.Details, votes.VoteDetailData{
					Title:      e.Title,
					Province:   province[voter.Name],
					PersonName: voter.Name,
					Option:     v.Option,
				})
				if o, ok := votes.ParseOption(v.Option); ok && o.Valid() {
					k := personOption{voter.Name, o.String()}
					if counts[k] == 0 {
						order = append(order, k)
					}
					counts[k]++
				}
			}
		}
	}
	for _, k := range order {
		ds.PersonVotes = append(ds.PersonVotes, votes.PersonVoteData{PersonName: k.name, Option: k.opt, NoOfOption: counts[k]})
	}

	ds.Facts = facts(ds)
	now := time.Now().UTC()
	ds.Metadata = &votes.Metadata{LastUpdated: now.Format(time.RFC3339), Timestamp: now.Unix()}
	return ds
}

// personData keeps sitting MPs of the latest term. Party-list MPs get no province.
func personData(p livePerson) (votes.PersonData, bool) {
	term := ""
	for _, m := range p.Memberships {
		for _, post := range m.Posts {
			if strings.HasPrefix(post.Label, labelTermPrefix) && post.Label > term {
				term = post.Label
			}
		}
	}
	if term == "" {
		return votes.PersonData{}, false
	}

	pd := votes.PersonData{Prefix: p.Prefix, PersonName: p.Name, Image: p.Image}
	sitting := false
	partyStart := ""
	for _, m := range p.Memberships {
		if m.EndDate != nil {
			continue
		}
		for _, post := range m.Posts {
			switch {
			case post.Label == term:
				sitting = true
				if m.Label == labelConstituency {
					pd.Province = m.Province
				}
			case strings.Contains(post.Label, labelPartyMember) && m.StartDate >= partyStart:
				partyStart = m.StartDate
				pd.MemberOf = post.Label
				if len(post.Organizations) > 0 {
					pd.PartyImage = post.Organizations[0].Image
					pd.PartyColor = post.Organizations[0].Color
				}
			}
		}
	}
	return pd, sitting
}

func facts(ds *votes.Dataset) []votes.FactData {
	ix := aggregate.NewIndex(ds)
	var out []votes.FactData
	for _, title := range ds.Events() {
		res := ix.Aggregate(aggregate.Filter{Event: title}, aggregate.ModeDetailed)
		ids := make([]int, 0, len(res.Provinces))
		for id := range res.Provinces {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)
		for _, n := range ids {
			st := res.Provinces[provinces.ID(n)]
			name := st.Province.Name()
			out = append(out, votes.FactData{
				Title: title, Province: name, Option: st.WinningOption.String(),
				Portion: st.Portion, Type: votes.TypeAll,
			})
			for _, o := range votes.Options {
				if v := st.Value(o); v > 0 {
					out = append(out, votes.FactData{
						Title: title, Province: name, Option: o.String(),
						Portion: v / st.Total, Type: o.String(),
					})
				}
			}
		}
	}
	return out
}
