package provinces

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIsValid(t *testing.T) {
	require.NoError(t, Validate(table))
	assert.Equal(t, 77, Count())

	rows, cols := GridSize()
	assert.Equal(t, 18, rows)
	assert.Equal(t, 9, cols)
}

func TestValidateRejectsSharedCell(t *testing.T) {
	list := []Province{
		{1, "ก", "A", "a", 0, 0},
		{2, "ข", "B", "b", 0, 0},
	}
	err := Validate(list)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateCell))
}

func TestValidateRejectsDuplicateName(t *testing.T) {
	list := []Province{
		{1, "ก", "A", "a", 0, 0},
		{2, "ก", "B", "b", 0, 1},
	}
	assert.ErrorIs(t, Validate(list), ErrDuplicateName)
}

func TestLayoutPositions(t *testing.T) {
	cases := []struct {
		name     string
		row, col int
		abbr     string
	}{
		{"เชียงราย", 0, 2, "ชร"},
		{"กรุงเทพมหานคร", 9, 3, "กทม"},
		{"ภูเก็ต", 14, 0, "ภก"},
		{"นราธิวาส", 17, 6, "นธ"},
		{"พระนครศรีอยุธยา", 7, 2, "อย"},
	}
	for _, tc := range cases {
		id, ok := Lookup(tc.name)
		if !ok {
			t.Errorf("Lookup(%q) failed", tc.name)
			continue
		}
		p, _ := ByID(id)
		if p.Row != tc.row || p.Col != tc.col || p.Abbr != tc.abbr {
			t.Errorf("%s: got (%d,%d,%s), want (%d,%d,%s)", tc.name, p.Row, p.Col, p.Abbr, tc.row, tc.col, tc.abbr)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	list := All()
	list[0].Name = "changed"
	assert.Equal(t, "เชียงราย", table[0].Name)
}

func TestResolve(t *testing.T) {
	bangkok, _ := Lookup("กรุงเทพมหานคร")
	ayutthaya, _ := Lookup("พระนครศรีอยุธยา")
	chiangMai, _ := Lookup("เชียงใหม่")

	cases := []struct {
		in   string
		want ID
		ok   bool
	}{
		{"กรุงเทพมหานคร", bangkok, true},
		{"Bangkok", bangkok, true},
		{"bangkok", bangkok, true},
		{"Krung Thep Maha Nakhon", bangkok, true},
		{"อยุธยา", ayutthaya, true},
		{"จังหวัดเชียงใหม่", chiangMai, true},
		{"  เชียงใหม่ ", chiangMai, true},
		{"Chiang Mai Province", chiangMai, true},
		{"", None, false},
		{"Atlantis", None, false},
		{"ตากใบ", None, false},
		{"Nantes", None, false},
		{"Takua Pa", None, false},
		{"จังหวัดตากใบ", None, false},
		{"เชียงใหม่ เขต 3", chiangMai, true},
		{"เชียงใหม่ เขตเมือง", None, false},
	}
	for _, tc := range cases {
		got, ok := Resolve(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Resolve(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveIgnoresContainedNames(t *testing.T) {
	// "นครศรีธรรมราช" must not resolve to a shorter name it happens to contain.
	want, _ := Lookup("นครศรีธรรมราช")
	got, ok := Resolve("จ.นครศรีธรรมราช เขต 1")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestIDString(t *testing.T) {
	id, _ := Lookup("ยะลา")
	assert.Equal(t, "ยะลา", id.String())
	assert.Equal(t, "province(999)", ID(999).String())
	assert.Equal(t, "", ID(999).Name())
}
