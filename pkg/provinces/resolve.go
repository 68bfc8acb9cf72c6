package provinces

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// aliases maps spellings seen in upstream data to canonical names.
var aliases = map[string]string{
	"อยุธยา":                   "พระนครศรีอยุธยา",
	"กรุงเทพฯ":                 "กรุงเทพมหานคร",
	"กรุงเทพ":                  "กรุงเทพมหานคร",
	"กทม.":                     "กรุงเทพมหานคร",
	"Krung Thep Maha Nakhon":   "กรุงเทพมหานคร",
	"Bangkok Metropolis":       "กรุงเทพมหานคร",
	"Ayutthaya":                "พระนครศรีอยุธยา",
	"Lopburi":                  "ลพบุรี",
	"Chonburi":                 "ชลบุรี",
	"Buriram":                  "บุรีรัมย์",
	"Sisaket":                  "ศรีสะเกษ",
	"Phang Nga":                "พังงา",
	"Prachinburi":              "ปราจีนบุรี",
	"Suphanburi":               "สุพรรณบุรี",
	"Singburi":                 "สิงห์บุรี",
	"Chainat":                  "ชัยนาท",
	"Nong Bua Lamphu":          "หนองบัวลำภู",
	"Bueng Kan Province":       "บึงกาฬ",
	"Kamphaengphet":            "กำแพงเพชร",
}

var prefixes = []string{"จังหวัด", "จ."}

// suffixes qualify a province name without changing it. Constituency suffixes such as
// "เขต 1" are cut separately.
var suffixes = []string{" Province", " province"}

// Resolver maps free-form province strings to IDs. Canonical, English and alias
// spellings resolve with or without a จังหวัด/จ. prefix, a "Province" suffix or a
// constituency suffix. Strings that only contain a province name do not resolve.
// A Resolver is safe for concurrent use.
type Resolver struct {
	exact   map[string]ID
	keys    []string
	ids     []ID
	matcher *ahocorasick.Matcher
}

func NewResolver() *Resolver {
	r := &Resolver{exact: make(map[string]ID, len(table)*3)}
	add := func(key string, id ID) {
		if key == "" {
			return
		}
		if _, ok := r.exact[key]; !ok {
			r.keys = append(r.keys, key)
			r.ids = append(r.ids, id)
		}
		r.exact[key] = id
		r.exact[strings.ToLower(key)] = id
	}
	for _, p := range table {
		add(p.Name, p.ID)
		add(p.English, p.ID)
	}
	for alias, canonical := range aliases {
		add(alias, byName[canonical])
	}
	r.matcher = ahocorasick.NewStringMatcher(r.keys)
	return r
}

var defaultResolver *Resolver

// Resolve uses the package-level resolver.
func Resolve(name string) (ID, bool) {
	return defaultResolver.Resolve(name)
}

func (r *Resolver) Resolve(name string) (ID, bool) {
	s := strings.TrimSpace(name)
	if s == "" {
		return None, false
	}
	if id, ok := r.exact[s]; ok {
		return id, true
	}
	s = trimQualifiers(s)
	if id, ok := r.exact[s]; ok {
		return id, true
	}
	if id, ok := r.exact[strings.ToLower(s)]; ok {
		return id, true
	}

	// A hit only counts when it spans the whole remaining string, so "ตากใบ" is not ตาก.
	for _, i := range r.matcher.MatchThreadSafe([]byte(s)) {
		if len(r.keys[i]) == len(s) {
			return r.ids[i], true
		}
	}
	return None, false
}

func trimQualifiers(s string) string {
	for _, p := range prefixes {
		if trimmed, ok := strings.CutPrefix(s, p); ok {
			s = strings.TrimSpace(trimmed)
			break
		}
	}
	if before, after, ok := strings.Cut(s, "เขต"); ok && isDigits(strings.TrimSpace(after)) {
		s = strings.TrimSpace(before)
	}
	for _, suf := range suffixes {
		if trimmed, ok := strings.CutSuffix(s, suf); ok {
			s = strings.TrimSpace(trimmed)
			break
		}
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
