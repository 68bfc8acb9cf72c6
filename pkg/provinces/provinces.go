// Package provinces holds the canonical province table and the fixed tile grid the map is drawn on.
package provinces

import (
	"errors"
	"fmt"

	"github.com/biter777/countries"
)

// ID is a stable identifier for a province. Datasets are joined on ID, never on raw names.
type ID int

// None is the zero ID, used for records whose province could not be resolved.
const None ID = 0

// Country is the country every province in the table belongs to.
const Country = countries.TH

type Province struct {
	ID      ID
	Name    string // canonical Thai name
	English string
	Abbr    string
	Row     int
	Col     int
}

var (
	ErrDuplicateCell = errors.New("provinces: two provinces share a grid cell")
	ErrDuplicateName = errors.New("provinces: duplicate province name")
	ErrDuplicateID   = errors.New("provinces: duplicate province id")
)

// table is ordered by grid row, then column.
var table = []Province{
	{1, "เชียงราย", "Chiang Rai", "ชร", 0, 2},
	{2, "แม่ฮ่องสอน", "Mae Hong Son", "มส", 1, 0},
	{3, "เชียงใหม่", "Chiang Mai", "ชม", 1, 1},
	{4, "พะเยา", "Phayao", "พย", 1, 2},
	{5, "น่าน", "Nan", "นน", 1, 3},
	{6, "ลำพูน", "Lamphun", "ลพ", 2, 0},
	{7, "ลำปาง", "Lampang", "ลป", 2, 1},
	{8, "แพร่", "Phrae", "พร", 2, 2},
	{9, "อุตรดิตถ์", "Uttaradit", "อต", 2, 3},
	{10, "ตาก", "Tak", "ตก", 3, 0},
	{11, "สุโขทัย", "Sukhothai", "สท", 3, 1},
	{12, "พิษณุโลก", "Phitsanulok", "พล", 3, 2},
	{13, "กำแพงเพชร", "Kamphaeng Phet", "กพ", 4, 0},
	{14, "กาญจนบุรี", "Kanchanaburi", "กจ", 4, 1},
	{15, "พิจิตร", "Phichit", "พจ", 4, 2},
	{16, "เลย", "Loei", "ลย", 4, 3},
	{17, "หนองคาย", "Nong Khai", "นค", 4, 4},
	{18, "บึงกาฬ", "Bueng Kan", "บก", 4, 5},
	{19, "สกลนคร", "Sakon Nakhon", "สน", 4, 6},
	{20, "นครพนม", "Nakhon Phanom", "นพ", 4, 7},
	{21, "อุทัยธานี", "Uthai Thani", "อน", 5, 1},
	{22, "นครสวรรค์", "Nakhon Sawan", "นว", 5, 2},
	{23, "เพชรบูรณ์", "Phetchabun", "พช", 5, 3},
	{24, "หนองบัวลำภู", "Nong Bua Lam Phu", "นภ", 5, 4},
	{25, "อุดรธานี", "Udon Thani", "อด", 5, 5},
	{26, "กาฬสินธุ์", "Kalasin", "กส", 5, 6},
	{27, "มุกดาหาร", "Mukdahan", "มห", 5, 7},
	{28, "ชัยนาท", "Chai Nat", "ชน", 6, 0},
	{29, "สิงห์บุรี", "Sing Buri", "สห", 6, 1},
	{30, "ลพบุรี", "Lop Buri", "ลบ", 6, 2},
	{31, "ชัยภูมิ", "Chaiyaphum", "ชย", 6, 3},
	{32, "ขอนแก่น", "Khon Kaen", "ขก", 6, 4},
	{33, "มหาสารคาม", "Maha Sarakham", "มค", 6, 5},
	{34, "ร้อยเอ็ด", "Roi Et", "รอ", 6, 6},
	{35, "ยโสธร", "Yasothon", "ยส", 6, 7},
	{36, "อำนาจเจริญ", "Amnat Charoen", "อจ", 6, 8},
	{37, "สุพรรณบุรี", "Suphan Buri", "สพ", 7, 0},
	{38, "อ่างทอง", "Ang Thong", "อท", 7, 1},
	{39, "พระนครศรีอยุธยา", "Phra Nakhon Si Ayutthaya", "อย", 7, 2},
	{40, "สระบุรี", "Saraburi", "สบ", 7, 3},
	{41, "นครราชสีมา", "Nakhon Ratchasima", "นม", 7, 4},
	{42, "บุรีรัมย์", "Buri Ram", "บร", 7, 5},
	{43, "สุรินทร์", "Surin", "สร", 7, 6},
	{44, "ศรีสะเกษ", "Si Sa Ket", "ศก", 7, 7},
	{45, "อุบลราชธานี", "Ubon Ratchathani", "อบ", 7, 8},
	{46, "นนทบุรี", "Nonthaburi", "นบ", 8, 2},
	{47, "ปทุมธานี", "Pathum Thani", "ปท", 8, 3},
	{48, "นครนายก", "Nakhon Nayok", "นย", 8, 4},
	{49, "ปราจีนบุรี", "Prachin Buri", "ปจ", 8, 5},
	{50, "สระแก้ว", "Sa Kaeo", "สก", 8, 6},
	{51, "ราชบุรี", "Ratchaburi", "รบ", 9, 1},
	{52, "นครปฐม", "Nakhon Pathom", "นฐ", 9, 2},
	{53, "กรุงเทพมหานคร", "Bangkok", "กทม", 9, 3},
	{54, "สมุทรปราการ", "Samut Prakan", "สป", 9, 4},
	{55, "ฉะเชิงเทรา", "Chachoengsao", "ฉช", 9, 5},
	{56, "ชลบุรี", "Chon Buri", "ชบ", 9, 6},
	{57, "เพชรบุรี", "Phetchaburi", "พบ", 10, 1},
	{58, "สมุทรสาคร", "Samut Sakhon", "สค", 10, 2},
	{59, "สมุทรสงคราม", "Samut Songkhram", "สส", 10, 3},
	{60, "ระยอง", "Rayong", "รย", 10, 4},
	{61, "จันทบุรี", "Chanthaburi", "จบ", 10, 5},
	{62, "ประจวบคีรีขันธ์", "Prachuap Khiri Khan", "ปข", 11, 1},
	{63, "ตราด", "Trat", "ตร", 11, 5},
	{64, "ระนอง", "Ranong", "รน", 12, 0},
	{65, "ชุมพร", "Chumphon", "ชพ", 12, 1},
	{66, "พังงา", "Phangnga", "พง", 13, 0},
	{67, "สุราษฎร์ธานี", "Surat Thani", "สฎ", 13, 1},
	{68, "ภูเก็ต", "Phuket", "ภก", 14, 0},
	{69, "กระบี่", "Krabi", "กบ", 14, 1},
	{70, "นครศรีธรรมราช", "Nakhon Si Thammarat", "นศ", 14, 2},
	{71, "ตรัง", "Trang", "ตง", 15, 2},
	{72, "พัทลุง", "Phatthalung", "พท", 15, 3},
	{73, "สตูล", "Satun", "สต", 16, 3},
	{74, "สงขลา", "Songkhla", "สข", 16, 4},
	{75, "ปัตตานี", "Pattani", "ปน", 16, 5},
	{76, "ยะลา", "Yala", "ยล", 17, 5},
	{77, "นราธิวาส", "Narathiwat", "นธ", 17, 6},
}

var (
	byID   map[ID]Province
	byName map[string]ID
)

func init() {
	if err := Validate(table); err != nil {
		panic(err)
	}
	byID = make(map[ID]Province, len(table))
	byName = make(map[string]ID, len(table))
	for _, p := range table {
		byID[p.ID] = p
		byName[p.Name] = p.ID
	}
	defaultResolver = NewResolver()
}

// All returns a copy of the province table in grid order.
func All() []Province {
	out := make([]Province, len(table))
	copy(out, table)
	return out
}

// Count is the number of provinces in the table.
func Count() int { return len(table) }

func ByID(id ID) (Province, bool) {
	p, ok := byID[id]
	return p, ok
}

// Lookup matches a canonical Thai name exactly. Use a Resolver for anything looser.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// Name returns the canonical name for id, or "" if the id is unknown.
func (id ID) Name() string {
	return byID[id].Name
}

func (id ID) String() string {
	if p, ok := byID[id]; ok {
		return p.Name
	}
	return fmt.Sprintf("province(%d)", int(id))
}

// Validate checks that ids, names and grid cells are all unique.
func Validate(list []Province) error {
	type cell struct{ row, col int }
	ids := make(map[ID]string, len(list))
	names := make(map[string]bool, len(list))
	cells := make(map[cell]string, len(list))
	for _, p := range list {
		if prev, ok := ids[p.ID]; ok {
			return fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateID, p.ID, prev, p.Name)
		}
		ids[p.ID] = p.Name
		if names[p.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
		}
		names[p.Name] = true
		c := cell{p.Row, p.Col}
		if prev, ok := cells[c]; ok {
			return fmt.Errorf("%w: (%d,%d) used by %s and %s", ErrDuplicateCell, p.Row, p.Col, prev, p.Name)
		}
		cells[c] = p.Name
	}
	return nil
}

// GridSize returns the number of rows and columns the table spans.
func GridSize() (rows, cols int) {
	for _, p := range table {
		if p.Row+1 > rows {
			rows = p.Row + 1
		}
		if p.Col+1 > cols {
			cols = p.Col + 1
		}
	}
	return rows, cols
}
