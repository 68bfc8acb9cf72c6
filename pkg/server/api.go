package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// view is the filter and color settings of one stateless request.
type view struct {
	filter   aggregate.Filter
	mode     aggregate.Mode
	policy   *colors.Policy
	selected provinces.ID
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// parseView reads event, option, mode, strategy and selected from the query string.
// A missing event means the most recent one; event=* means every event.
func (s *Server) parseView(c *gin.Context) (view, error) {
	v := view{mode: s.mode, policy: s.r.Policy}

	switch ev := c.Query("event"); ev {
	case "":
		if events := s.r.Events(); len(events) > 0 {
			v.filter.Event = events[0]
		}
	case "*":
	default:
		v.filter.Event = ev
	}

	if o := c.Query("option"); o != "" && o != "all" {
		opt, ok := votes.ParseKey(o)
		if !ok || !opt.Valid() {
			return v, fmt.Errorf("unknown option %q", o)
		}
		v.filter.Option = opt
	}
	if m := c.Query("mode"); m != "" {
		mode, err := aggregate.ParseMode(m)
		if err != nil {
			return v, err
		}
		v.mode = mode
	}
	if st := c.Query("strategy"); st != "" {
		strategy, err := colors.ParseStrategy(st)
		if err != nil {
			return v, err
		}
		v.policy = v.policy.WithStrategy(strategy)
	}
	if sel := c.Query("selected"); sel != "" {
		id, ok := provinces.Resolve(sel)
		if !ok {
			return v, fmt.Errorf("unknown province %q", sel)
		}
		v.selected = id
	}
	return v, nil
}

func (s *Server) compute(v view) *aggregate.Result {
	return s.r.Index.Aggregate(v.filter, v.mode)
}

func (s *Server) tiles(v view, res *aggregate.Result) []scene.Tile {
	return scene.Build(s.r.Layout, res, v.filter.Option, v.policy, v.selected)
}

func (s *Server) events(c *gin.Context) {
	events := s.r.Events()
	if events == nil {
		events = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (s *Server) provinceList(c *gin.Context) {
	v, err := s.parseView(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	res := s.compute(v)
	c.JSON(http.StatusOK, gin.H{
		"event":     v.filter.Event,
		"option":    v.filter.Option.Key(),
		"mode":      v.mode.String(),
		"provinces": newProvinceViews(s.tiles(v, res)),
		"legend":    newLegendView(v.policy.Legend(v.filter.Option)),
		"dropped":   res.Dropped,
	})
}

func (s *Server) roster(c *gin.Context) {
	v, err := s.parseView(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	name := c.Param("name")
	res := s.compute(v)

	var members []aggregate.Member
	var stat *aggregate.ProvinceStat
	if name == "party-list" {
		members = s.r.Index.PartyList(res)
	} else {
		id, ok := provinces.Resolve(name)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown province %q", name)})
			return
		}
		name = id.Name()
		members = s.r.Index.Roster(res, id)
		stat = res.Stat(id)
	}

	breakdown := make(map[string]float64)
	for _, b := range aggregate.MemberBreakdown(members) {
		breakdown[b.Option.Key()] = b.Value
	}
	used, other := aggregate.Participation(stat)
	c.JSON(http.StatusOK, gin.H{
		"province":  name,
		"event":     v.filter.Event,
		"mps":       newMemberViews(members),
		"stat":      newStatView(stat),
		"breakdown": breakdown,
		"participation": gin.H{
			"used":  used,
			"other": other,
		},
	})
}

func (s *Server) summary(c *gin.Context) {
	v, err := s.parseView(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	sum := s.r.Index.Summary(s.compute(v))
	c.JSON(http.StatusOK, gin.H{
		"event":         v.filter.Event,
		"mps":           sum.MPs,
		"constituency":  sum.Constituency,
		"party_list":    sum.PartyList,
		"events":        sum.Events,
		"with_data":     sum.WithData,
		"dropped":       sum.Dropped,
		"last_updated":  sum.LastUpdated,
		"province_grid": gridSize(),
	})
}

func gridSize() gin.H {
	rows, cols := provinces.GridSize()
	return gin.H{"rows": rows, "cols": cols, "count": provinces.Count()}
}

func (s *Server) mapSVG(c *gin.Context) {
	v, err := s.parseView(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var buf bytes.Buffer
	err = scene.EncodeSVG(&buf, s.tiles(v, s.compute(v)), scene.SVGOptions{
		Layout: s.r.Layout,
		Camera: scene.NewCamera(),
		Title:  v.filter.Event,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", buf.Bytes())
}

func (s *Server) mapPNG(c *gin.Context) {
	v, err := s.parseView(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	scale := 1.0
	if q := c.Query("scale"); q != "" {
		scale, err = strconv.ParseFloat(q, 64)
		if err != nil || scale <= 0 || scale > 4 {
			badRequest(c, fmt.Errorf("invalid scale %q", q))
			return
		}
	}
	var buf bytes.Buffer
	err = scene.EncodePNG(&buf, s.tiles(v, s.compute(v)), scene.RasterOptions{
		Layout:   s.r.Layout,
		Camera:   scene.NewCamera(),
		FontPath: s.fontPath,
		Scale:    scale,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) mapGeoJSON(c *gin.Context) {
	v, err := s.parseView(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	b, err := scene.GeoJSON(s.tiles(v, s.compute(v))).MarshalJSON()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}
