package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// The passage cache and the search index are optional: without them passages
// are still served from the network, so their failure only degrades health.
// The outline database is required for outline routes and makes health unhealthy.
func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"cache":    s.checkCache(),
		"database": s.checkDatabase(ctx),
		"search":   s.checkSearchIndex(),
	}

	overall := "healthy"
	if components["database"].Status == "unhealthy" {
		overall = "unhealthy"
	} else {
		for _, c := range components {
			if c.Status != "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

func (s *Server) checkCache() ComponentHealth {
	if s.services.Cache == nil {
		return ComponentHealth{Status: "degraded", Message: "cache not configured"}
	}

	start := time.Now()
	err := s.services.Cache.Ping()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "degraded",
			Latency: latency.String(),
			Message: "cache directory unreachable",
		}
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.services.Store == nil {
		return ComponentHealth{Status: "degraded", Message: "database not configured"}
	}

	start := time.Now()
	_, err := s.services.Store.CountOutlines(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database read failed",
		}
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}

func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services.Search == nil {
		return ComponentHealth{Status: "degraded", Message: "search not configured"}
	}

	start := time.Now()
	docCount, err := s.services.Search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "degraded",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
		Message: strconv.FormatUint(docCount, 10) + " verses indexed",
	}
}
