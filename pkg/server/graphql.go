package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxGraphQLBody = 1 << 20

// graphql forwards a request body to the upstream API. Upstream failures become a
// 500 with an error and details member.
func (s *Server) graphql(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxGraphQLBody))
	if err != nil {
		s.upstreamFailed(c, err.Error())
		return
	}
	status, out, err := s.gql.Raw(c.Request.Context(), body)
	if err != nil {
		s.upstreamFailed(c, err.Error())
		return
	}
	if status != http.StatusOK {
		s.upstreamFailed(c, http.StatusText(status))
		return
	}
	if len(out) == 0 {
		s.countUpstream("ok")
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}
	if !json.Valid(out) {
		s.upstreamFailed(c, "upstream returned invalid JSON")
		return
	}
	s.countUpstream("ok")
	c.Data(http.StatusOK, "application/json", out)
}

func (s *Server) upstreamFailed(c *gin.Context, details string) {
	s.countUpstream("error")
	s.log.Warn("GraphQL proxy failed", zap.String("details", details))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data", "details": details})
}

func (s *Server) countUpstream(outcome string) {
	if s.metrics != nil {
		s.metrics.UpstreamRequests.WithLabelValues(outcome).Inc()
	}
}
