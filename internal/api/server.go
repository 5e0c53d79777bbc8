// Package api exposes the variant data service over HTTP.
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"go.uber.org/zap"

	"github.com/inodb/vibe-filter/internal/allele"
	"github.com/inodb/vibe-filter/internal/frequency"
	"github.com/inodb/vibe-filter/internal/pathogenicity"
	"github.com/inodb/vibe-filter/internal/variantdata"
)

const keyContextKey = "alleleKey"

// Server holds the handlers' dependencies.
type Server struct {
	svc     variantdata.Service
	logger  *zap.Logger
	version string
}

// NewServer creates a server over svc.
func NewServer(svc variantdata.Service, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, logger: logger, version: version}
}

// Echo builds the HTTP router.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET},
	}))
	e.Use(s.logRequests)

	e.GET("/service-info", s.serviceInfo)
	e.GET("/sources", s.sources)

	variants := e.Group("/variants/:key", ValidateVariantKey)
	variants.GET("/frequency", s.frequency)
	variants.GET("/pathogenicity", s.pathogenicity)
	variants.GET("/regulatory", s.regulatory)

	return e
}

// ValidateVariantKey parses the :key path parameter into an allele key.
func ValidateVariantKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, err := allele.ParseKey(c.Param("key"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		c.Set(keyContextKey, key)
		return next(c)
	}
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status))
		return nil
	}
}

func (s *Server) serviceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":        "vibe-filter",
		"description": "Allele frequency, pathogenicity and regulatory annotation lookups",
		"version":     s.version,
	})
}

func (s *Server) sources(c echo.Context) error {
	freq := make([]SourceInfo, 0)
	for _, src := range frequency.Sources() {
		freq = append(freq, SourceInfo{Code: src.Code(), Name: src.String()})
	}
	path := make([]SourceInfo, 0)
	for _, src := range pathogenicity.Sources() {
		path = append(path, SourceInfo{Code: src.Code(), Name: src.String()})
	}
	return c.JSON(http.StatusOK, map[string][]SourceInfo{
		"frequency":     freq,
		"pathogenicity": path,
	})
}

func (s *Server) frequency(c echo.Context) error {
	key := c.Get(keyContextKey).(allele.Key)

	sources := frequency.AllSources()
	if qp := c.QueryParam("sources"); qp != "" {
		var list []frequency.Source
		for _, name := range splitList(qp) {
			src, ok := frequency.ParseSource(name)
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown frequency source '"+name+"'")
			}
			list = append(list, src)
		}
		sources = frequency.NewSourceSet(list...)
	}

	data, err := s.svc.FrequencyData(key, sources)
	resp := NewFrequencyResponse(key, data)
	return s.respond(c, resp, err)
}

func (s *Server) pathogenicity(c echo.Context) error {
	key := c.Get(keyContextKey).(allele.Key)

	sources := pathogenicity.AllSources()
	if qp := c.QueryParam("sources"); qp != "" {
		var list []pathogenicity.Source
		for _, name := range splitList(qp) {
			src, ok := pathogenicity.ParseSource(name)
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown pathogenicity source '"+name+"'")
			}
			list = append(list, src)
		}
		sources = pathogenicity.NewSourceSet(list...)
	}

	data, err := s.svc.PathogenicityData(key, sources)
	resp := NewPathogenicityResponse(key, data)
	return s.respond(c, resp, err)
}

func (s *Server) regulatory(c echo.Context) error {
	key := c.Get(keyContextKey).(allele.Key)
	return c.JSON(http.StatusOK, RegulatoryResponse{
		Key:    key.String(),
		Effect: s.svc.RegulatoryEffect(key).String(),
	})
}

// respond writes resp, or an error status carrying resp when err is set.
// Decode errors keep the partial data in the body.
func (s *Server) respond(c echo.Context, resp Response, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, resp)
	}
	if variantdata.IsDecodeError(err) {
		s.logger.Warn("decode error", zap.String("key", resp.VariantKey()), zap.Error(err))
		resp.SetError(err.Error())
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}
	s.logger.Error("lookup failed", zap.String("key", resp.VariantKey()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
