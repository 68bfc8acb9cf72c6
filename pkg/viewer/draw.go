package viewer

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

var (
	panelShade  = color.RGBA{0, 0, 0, 100}
	panelBorder = color.RGBA{36, 42, 53, 255}
	white       = color.RGBA{255, 255, 255, 255}
)

const (
	tooltipPad      = 12.0
	tooltipMinWidth = 120.0
)

func (e *Engine) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: e.fontSource, Size: size}
}

func (e *Engine) drawText(dst *ebiten.Image, s string, size, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, e.face(size), op)
}

func (e *Engine) measure(s string, size float64) float64 {
	w, _ := text.Measure(s, e.face(size), 0)
	return w
}

func (e *Engine) drawTextRight(dst *ebiten.Image, s string, size, right, y float64, c color.Color) {
	e.drawText(dst, s, size, right-e.measure(s, size), y, c)
}

func (e *Engine) drawTextCentered(dst *ebiten.Image, s string, size, cx, cy float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, e.face(size), op)
}

func fillRoundedRect(dst *ebiten.Image, x, y, w, h, r float32, c color.Color) {
	if r*2 > w {
		r = w / 2
	}
	if r*2 > h {
		r = h / 2
	}
	if r <= 0 {
		vector.DrawFilledRect(dst, x, y, w, h, c, true)
		return
	}
	vector.DrawFilledRect(dst, x+r, y, w-2*r, h, c, true)
	vector.DrawFilledRect(dst, x, y+r, w, h-2*r, c, true)
	vector.DrawFilledCircle(dst, x+r, y+r, r, c, true)
	vector.DrawFilledCircle(dst, x+w-r, y+r, r, c, true)
	vector.DrawFilledCircle(dst, x+r, y+h-r, r, c, true)
	vector.DrawFilledCircle(dst, x+w-r, y+h-r, r, c, true)
}

// drawBox is the titled panel used for the status bar and tooltip.
func (e *Engine) drawBox(dst *ebiten.Image, x, y, w, h float64, title string, accent color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), panelShade, false)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 1, panelBorder, false)
	if title == "" {
		return
	}
	const fontSize = 16.0
	vector.DrawFilledRect(dst, float32(x), float32(y), 4, fontSize+10, accent, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+12, y+5)
	op.ColorScale.Scale(1, 1, 1, 0.7)
	text.Draw(dst, title, e.face(fontSize*0.8), op)
}

func (e *Engine) drawTiles(screen *ebiten.Image, st dashboard.State) {
	mapImg := screen.SubImage(image.Rect(0, 0, int(e.mapWidth()), e.Height)).(*ebiten.Image)
	layout := e.sess.Reducer().Layout
	reg := e.sess.Reducer().Policy.Registry
	cam := st.Scene.Camera

	for _, t := range st.Tiles {
		x, y := cam.ToScreen(t.Rect.X, t.Rect.Y)
		w, h := t.Rect.W*cam.Scale, t.Rect.H*cam.Scale
		fillRoundedRect(mapImg, float32(x), float32(y), float32(w), float32(h), float32(layout.Radius*cam.Scale), t.Fill.RGBA())
		if t.Stroke.Visible {
			sw := float32(t.Stroke.Width)
			vector.StrokeRect(mapImg, float32(x)-sw/2, float32(y)-sw/2, float32(w)+sw, float32(h)+sw, sw, t.Stroke.Color.RGBA(), true)
		} else if t.Stat == nil {
			vector.StrokeRect(mapImg, float32(x), float32(y), float32(w), float32(h), 1, reg.Base.RGBA(), true)
		}
		e.drawTextCentered(mapImg, t.Label, layout.FontSize*cam.Scale, x+w/2, y+h/2, t.Text.RGBA())
	}
}

// drawHeader is the status bar along the bottom of the map.
func (e *Engine) drawHeader(screen *ebiten.Image, st dashboard.State) {
	reg := e.sess.Reducer().Policy.Registry
	w := e.mapWidth() - 40
	if w <= 0 {
		return
	}
	x, y, h := 20.0, float64(e.Height)-84, 64.0
	e.drawBox(screen, x, y, w, h, "VOTE", reg.Panel.RGBA())

	event := st.Filter.Event
	if event == "" {
		event = "-"
	}
	opt := votes.LabelAll
	if st.Filter.HasOption() {
		opt = st.Filter.Option.String()
	}
	line := fmt.Sprintf("%s  ·  %s  ·  %s / %s", truncate(event, 70), opt, st.Mode, st.Strategy.Name())
	e.drawText(screen, line, 16, x+12, y+24, white)
	e.drawText(screen, "[ ] event   1-5 option   0 all   F mode   M colors   R reset   P capture", 12, x+12, y+46, color.RGBA{255, 255, 255, 150})
}

func (e *Engine) drawLegend(screen *ebiten.Image, st dashboard.State) {
	policy := e.sess.Reducer().Policy.WithStrategy(st.Strategy)
	legend := policy.Legend(st.Filter.Option)
	reg := policy.Registry

	x, y := e.mapWidth()+20, 70.0
	e.drawText(screen, legend.Title, 14, x, y, reg.DarkText.RGBA())
	y += 24

	stops := append(legend.Stops, legend.NoData)
	const swatch = 16.0
	for _, s := range stops {
		fillRoundedRect(screen, float32(x), float32(y), swatch, swatch, 3, s.Color.RGBA())
		vector.StrokeRect(screen, float32(x), float32(y), swatch, swatch, 1, reg.NoData.RGBA(), true)
		e.drawText(screen, s.Label, 12, x+swatch+8, y+1, reg.DarkText.RGBA())
		y += swatch + 6
	}
}

func (e *Engine) drawInfoPanel(screen *ebiten.Image, st dashboard.State) {
	r := e.sess.Reducer()
	reg := r.Policy.Registry
	x0 := e.mapWidth()

	vector.DrawFilledRect(screen, float32(x0), 0, PanelWidth, float32(e.Height), white, false)
	vector.StrokeLine(screen, float32(x0), 0, float32(x0), float32(e.Height), 1, reg.NoData.RGBA(), false)
	vector.DrawFilledRect(screen, float32(x0), 0, PanelWidth, 48, reg.Panel.RGBA(), false)
	e.drawText(screen, "ประเทศไทย · "+provinces.Country.String(), 18, x0+20, 14, white)

	legendRows := len(r.Policy.WithStrategy(st.Strategy).Legend(st.Filter.Option).Stops) + 1
	y := 70 + 24 + float64(legendRows)*22 + 16

	sum := r.Index.Summary(st.Result)
	dark := reg.DarkText.RGBA()
	e.drawText(screen, fmt.Sprintf("สส. %d คน  แบ่งเขต %d  บัญชีรายชื่อ %d", sum.MPs, sum.Constituency, sum.PartyList), 13, x0+20, y, dark)
	y += 20
	e.drawText(screen, fmt.Sprintf("มีข้อมูล %d/%d จังหวัด", sum.WithData, provinces.Count()), 13, x0+20, y, dark)
	if sum.Dropped > 0 {
		e.drawTextRight(screen, fmt.Sprintf("ตกหล่น %d", sum.Dropped), 13, x0+PanelWidth-20, y, dark)
	}
	y += 32

	if !st.HasSelection() {
		e.drawText(screen, "คลิกจังหวัดเพื่อดูรายชื่อ สส.", 14, x0+20, y, reg.Neutral.RGBA())
		return
	}

	e.drawText(screen, st.Selected().Name(), 20, x0+20, y, dark)
	e.drawTextRight(screen, fmt.Sprintf("%d คน", len(st.Roster)), 14, x0+PanelWidth-20, y+4, dark)
	y += 36

	stat := st.Result.Stat(st.Selected())
	e.drawDonut(screen, reg, stat, x0+70, y+50, 44)
	used, other := aggregate.Participation(stat)
	e.drawText(screen, fmt.Sprintf("ใช้สิทธิ์ %.0f (%.0f%%)", used, percent(used, used+other)), 13, x0+140, y+30, reg.Used.RGBA())
	e.drawText(screen, fmt.Sprintf("อื่น ๆ %.0f", other), 13, x0+140, y+52, dark)
	y += 116

	y = e.drawBars(screen, reg, aggregate.MemberBreakdown(st.Roster), x0+20, y)
	y += 12

	for _, m := range st.Roster {
		if y > float64(e.Height)-24 {
			e.drawText(screen, "…", 13, x0+20, y, dark)
			break
		}
		action := m.Action()
		vector.DrawFilledCircle(screen, float32(x0+26), float32(y+8), 5, reg.Action(action).RGBA(), true)
		e.drawText(screen, truncate(m.Person.FullName(), 26), 13, x0+40, y, dark)
		if m.Person.MemberOf != "" {
			e.drawTextRight(screen, truncate(m.Person.MemberOf, 14), 11, x0+PanelWidth-20, y+2, reg.Neutral.RGBA())
		}
		y += 20
	}
}

func (e *Engine) drawDonut(dst *ebiten.Image, reg *colors.Registry, stat *aggregate.ProvinceStat, cx, cy, r float64) {
	const thickness = 16.0
	slices := donutSlices(aggregate.Participation(stat))
	if len(slices) == 0 {
		vector.StrokeCircle(dst, float32(cx), float32(cy), float32(r), thickness, reg.NoData.RGBA(), true)
		return
	}
	for _, s := range slices {
		c := reg.NotUsed.RGBA()
		if s.Used {
			c = reg.Used.RGBA()
		}
		pts := arcPoints(cx, cy, r, s.Start, s.End)
		for i := 1; i < len(pts); i++ {
			vector.StrokeLine(dst, float32(pts[i-1].X), float32(pts[i-1].Y), float32(pts[i].X), float32(pts[i].Y), thickness, c, true)
		}
	}
	vector.StrokeCircle(dst, float32(cx), float32(cy), float32(r+thickness/2), 1, reg.NoData.RGBA(), true)
}

func (e *Engine) drawBars(dst *ebiten.Image, reg *colors.Registry, buckets []aggregate.Bucket, x, y float64) float64 {
	const labelW, rowH = 120.0, 20.0
	maxW := PanelWidth - 40 - labelW - 36
	for _, b := range barWidths(buckets, maxW) {
		sig, _ := reg.Signature(b.Option)
		e.drawText(dst, b.Option.String(), 12, x, y+2, reg.DarkText.RGBA())
		if b.Width > 0 {
			fillRoundedRect(dst, float32(x+labelW), float32(y+3), float32(b.Width), rowH-8, 3, sig.RGBA())
		}
		e.drawText(dst, fmt.Sprintf("%.0f", b.Value), 12, x+labelW+b.Width+6, y+2, reg.DarkText.RGBA())
		y += rowH
	}
	return y
}

func (e *Engine) drawTooltip(screen *ebiten.Image, st dashboard.State) {
	tt := st.Scene.Tooltip
	if !tt.Visible {
		return
	}
	reg := e.sess.Reducer().Policy.Registry

	lines := tooltipLines(tt, st.Filter)
	w := tooltipWidth(tt.Province.Name(), lines, e.measure)
	h := 34 + float64(len(lines))*18
	pos := scene.PlaceTooltip(tt.Position, w, e.mapWidth())

	vector.DrawFilledRect(screen, float32(pos.X), float32(pos.Y), float32(w), float32(h), white, false)
	e.drawBox(screen, pos.X, pos.Y, w, h, tt.Province.Name(), reg.Accent.RGBA())
	for i, l := range lines {
		e.drawText(screen, l, 12, pos.X+tooltipPad, pos.Y+30+float64(i)*18, reg.DarkText.RGBA())
	}
}

// tooltipWidth is the rendered width of the widest tooltip line, title included, plus padding.
func tooltipWidth(title string, lines []string, measure func(s string, size float64) float64) float64 {
	w := measure(title, 16*0.8)
	for _, l := range lines {
		w = max(w, measure(l, 12))
	}
	return max(w+2*tooltipPad, tooltipMinWidth)
}

// tooltipLines is the text body of the hover tooltip.
func tooltipLines(tt scene.Tooltip, f aggregate.Filter) []string {
	if tt.Stat == nil {
		return []string{"ไม่มีข้อมูล"}
	}
	var lines []string
	if tt.Stat.Mode == aggregate.ModeFact {
		// Fact buckets are portions, so their sum is not a head count.
		lines = append(lines, fmt.Sprintf("สัดส่วน %.0f%%  ·  %s", tt.Stat.Portion*100, tt.Stat.WinningOption))
		if f.HasOption() {
			lines = append(lines, fmt.Sprintf("%s %.0f%%", f.Option, tt.Stat.Value(f.Option)*100))
		}
	} else {
		lines = append(lines, fmt.Sprintf("รวม %.0f  ·  %s", tt.Stat.Total, tt.Stat.WinningOption))
		if f.HasOption() {
			v := tt.Stat.Value(f.Option)
			lines = append(lines, fmt.Sprintf("%s %.0f (%.0f%%)", f.Option, v, percent(v, tt.Stat.Total)))
		}
	}
	const maxMPs = 6
	for i, m := range tt.MPs {
		if i == maxMPs {
			lines = append(lines, fmt.Sprintf("และอีก %d คน", len(tt.MPs)-maxMPs))
			break
		}
		lines = append(lines, truncate(m.Person.FullName(), 22)+"  "+m.Action().String())
	}
	return lines
}

func (e *Engine) drawFlash(screen *ebiten.Image) {
	if e.flash == "" || time.Now().After(e.flashUntil) {
		return
	}
	e.drawText(screen, e.flash, 12, 24, float64(e.Height)-104, e.sess.Reducer().Policy.Registry.DarkText.RGBA())
}
