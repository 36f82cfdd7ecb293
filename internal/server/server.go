// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"MarketLens/internal/dashboard"
	"MarketLens/internal/logging"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
)

//go:embed static/index.html
var static embed.FS

// Server holds the HTTP handlers and the websocket hub.
type Server struct {
	svc *dashboard.Service
	hub *Hub
	log *logrus.Entry
}

// New creates a Server and subscribes its hub to dashboard refreshes.
func New(svc *dashboard.Service) *Server {
	s := &Server{
		svc: svc,
		hub: NewHub(),
		log: logging.For("server"),
	}
	svc.Subscribe(func(st dashboard.Status) {
		s.hub.Broadcast(statusMessage("Data refreshed", st))
	})
	return s
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))

	router.GET("/", s.index)
	router.GET("/health", s.health)
	router.GET("/ws", s.websocket)

	api := router.Group("/api")
	{
		api.GET("/status", s.status)
		api.GET("/modes", s.modes)
		api.GET("/treemap/:universe", s.treemap)
		api.GET("/technical/:ticker", s.technical)
		api.GET("/macro", s.macro)
		api.GET("/commodity", s.commodity)
		api.GET("/liquidity", s.liquidity)
		api.GET("/ranking", s.ranking)
		api.POST("/refresh", s.refresh)
		api.GET("/inputs", s.getInputs)
		api.PUT("/inputs", s.putInputs)
		api.GET("/export/:universe", s.export)
	}
	return router
}

func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Round(time.Millisecond).String(),
		}).Debug("request")
	}
}

// respond writes v, or maps err to a user-facing answer. Missing data is a
// message, not a failure.
func (s *Server) respond(c *gin.Context, v any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, v)
	case errors.Is(err, dashboard.ErrNoData):
		c.JSON(http.StatusOK, gin.H{"message": "No data available right now: " + err.Error()})
	case errors.Is(err, dashboard.ErrInvalidTicker),
		errors.Is(err, dashboard.ErrInvalidPeriod),
		errors.Is(err, dashboard.ErrUnknownUniverse):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(http.StatusRequestTimeout)
	default:
		s.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) index(c *gin.Context) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		s.respond(c, nil, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Status())
}

func (s *Server) modes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modes": dashboard.Modes})
}

func (s *Server) treemap(c *gin.Context) {
	view, err := s.svc.Treemaps(c.Request.Context(), c.Param("universe"))
	s.respond(c, view, err)
}

func (s *Server) technical(c *gin.Context) {
	view, err := s.svc.Technical(c.Request.Context(), c.Param("ticker"), c.Query("period"))
	s.respond(c, view, err)
}

func (s *Server) macro(c *gin.Context) {
	view, err := s.svc.Macro(c.Request.Context())
	s.respond(c, view, err)
}

func (s *Server) commodity(c *gin.Context) {
	view, err := s.svc.Commodity(c.Request.Context())
	s.respond(c, view, err)
}

func (s *Server) liquidity(c *gin.Context) {
	view, err := s.svc.Liquidity(c.Request.Context())
	s.respond(c, view, err)
}

func (s *Server) ranking(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"figure": s.svc.Ranking()})
}

func (s *Server) refresh(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Refresh(recorder.TriggerManual))
}

func (s *Server) getInputs(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.ManualInputs())
}

type inputsRequest struct {
	M2GrowthPct    float64 `json:"m2_growth_pct" binding:"gte=-100,lte=100"`
	MarginDebt     float64 `json:"margin_debt" binding:"gte=0"`
	MarginDebtPrev float64 `json:"margin_debt_prev" binding:"gte=0"`
}

func (s *Server) putInputs(c *gin.Context) {
	var req inputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inputs: " + err.Error()})
		return
	}
	in := s.svc.SetManualInputs(model.ManualInputs{
		M2GrowthPct:    req.M2GrowthPct,
		MarginDebt:     req.MarginDebt,
		MarginDebtPrev: req.MarginDebtPrev,
	})
	c.JSON(http.StatusOK, in)
}

func (s *Server) websocket(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request, statusMessage("Connected", s.svc.Status()))
}
