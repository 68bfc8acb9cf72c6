package votes

// PersonData is one member of parliament. Province is empty for party-list members.
type PersonData struct {
	Prefix     string `json:"prefix"`
	PersonName string `json:"person_name"`
	Image      string `json:"image"`
	MemberOf   string `json:"member_of"`
	PartyImage string `json:"party_image"`
	PartyColor string `json:"party_color"`
	Province   string `json:"m__province,omitempty"`
}

// FullName joins prefix and name the way the tooltip shows it.
func (p PersonData) FullName() string {
	if p.Prefix == "" {
		return p.PersonName
	}
	return p.Prefix + p.PersonName
}

// FactData is a precomputed share of one option in one province for one vote event.
// Rows with Type == TypeAll carry the winning option in Option.
type FactData struct {
	Title    string  `json:"title"`
	Province string  `json:"province"`
	Option   string  `json:"option"`
	Portion  float64 `json:"portion"`
	Type     string  `json:"type"`
}

// TypeAll marks the fact row holding the winning option of a province.
const TypeAll = "All"

func (f FactData) IsAll() bool { return f.Type == TypeAll }

// VoteDetailData is one ballot cast by one person on one vote event.
type VoteDetailData struct {
	Title      string `json:"title"`
	Province   string `json:"province"`
	PersonName string `json:"person_name"`
	Option     string `json:"option"`
}

// PersonVoteData is a per-person count of one option across all events.
type PersonVoteData struct {
	PersonName string `json:"person_name"`
	Option     string `json:"option"`
	NoOfOption int    `json:"no_of_option"`
}

type Metadata struct {
	LastUpdated string `json:"last_updated"`
	Timestamp   int64  `json:"timestamp"`
}

// Dataset holds every collection fetched for one session. It is not modified after load.
type Dataset struct {
	People      []PersonData
	PersonVotes []PersonVoteData
	Facts       []FactData
	Details     []VoteDetailData
	Metadata    *Metadata
}

// Empty reports whether nothing usable was loaded.
func (d *Dataset) Empty() bool {
	return d == nil || (len(d.Facts) == 0 && len(d.Details) == 0)
}

// Events lists distinct vote event titles in source order, facts first.
func (d *Dataset) Events() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	add := func(title string) {
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		out = append(out, title)
	}
	for _, f := range d.Facts {
		add(f.Title)
	}
	for _, v := range d.Details {
		add(v.Title)
	}
	return out
}
