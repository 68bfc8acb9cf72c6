// Package votes defines the raw vote records and the vote option enum.
package votes

import "strings"

// Option is a ballot category. The declaration order of the five real options
// is the tie-break order everywhere a majority is computed.
type Option int

const (
	OptionUnknown Option = iota
	Agree
	Disagree
	Abstain
	NoVote
	Absent
	// Tie is never cast; it is only produced as a winning result.
	Tie
)

// Options lists the five ballot categories in declaration order.
var Options = []Option{Agree, Disagree, Abstain, NoVote, Absent}

const (
	LabelAll         = "ทั้งหมด"
	LabelUnspecified = "ไม่ระบุ"
)

var labels = map[Option]string{
	Agree:    "เห็นด้วย",
	Disagree: "ไม่เห็นด้วย",
	Abstain:  "งดออกเสียง",
	NoVote:   "ไม่ลงคะแนนเสียง",
	Absent:   "ลา / ขาดลงมติ",
	Tie:      "ผลโหวตเสมอ",
}

var parse = map[string]Option{
	"เห็นด้วย":         Agree,
	"ไม่เห็นด้วย":      Disagree,
	"งดออกเสียง":       Abstain,
	"ไม่ลงคะแนนเสียง":  NoVote,
	"ไม่ลงคะแนน":       NoVote,
	"ลา / ขาดลงมติ":    Absent,
	"ลา/ขาดลงมติ":      Absent,
	"ลา-ขาดลงมติ":      Absent,
	"ขาดลงมติ":         Absent,
	"ผลโหวตเสมอ":       Tie,
}

func (o Option) String() string {
	if s, ok := labels[o]; ok {
		return s
	}
	return LabelUnspecified
}

// Valid reports whether o is one of the five ballot categories.
func (o Option) Valid() bool {
	return o >= Agree && o <= Absent
}

// ParseOption maps an upstream option string to an Option.
func ParseOption(s string) (Option, bool) {
	o, ok := parse[strings.TrimSpace(s)]
	return o, ok
}

// Key is a short ASCII name used in URLs, config and JSON.
func (o Option) Key() string {
	switch o {
	case Agree:
		return "agree"
	case Disagree:
		return "disagree"
	case Abstain:
		return "abstain"
	case NoVote:
		return "novote"
	case Absent:
		return "absent"
	case Tie:
		return "tie"
	}
	return ""
}

// ParseKey is the inverse of Key. It also accepts the Thai labels.
func ParseKey(s string) (Option, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	for o := Agree; o <= Tie; o++ {
		if o.Key() == k {
			return o, true
		}
	}
	return ParseOption(s)
}
