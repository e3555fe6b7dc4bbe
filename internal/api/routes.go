package api

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"conviction-trust/internal/cortex"
	"conviction-trust/internal/store"
	"conviction-trust/internal/trust"
	"conviction-trust/internal/util"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	AllowedOrigins []string
	SilentDB       bool
	CortexConfig   cortex.Config
}

// Server wires HTTP handlers with persistence and trust assessment.
type Server struct {
	db             *store.Database
	assessor       *trust.Assessor
	cortexBaseURL  string
	allowedOrigins []string
	notifier       *AssessmentNotifier
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	client := cortex.NewClient(cfg.CortexConfig)
	logrus.WithFields(logrus.Fields{
		"base_url": client.BaseURL(),
		"timeout":  cfg.CortexConfig.Timeout,
	}).Info("cortex conviction source configured")

	return &Server{
		db:             db,
		assessor:       trust.NewAssessor(client),
		cortexBaseURL:  client.BaseURL(),
		allowedOrigins: cfg.AllowedOrigins,
		notifier:       NewAssessmentNotifier(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/assess", s.handleAssess)
		api.GET("/assess/stream", s.handleAssessStream)
		api.GET("/assess/:wallet", s.handleAssessWallet)
		api.GET("/assessments", s.handleListAssessments)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	count, err := s.db.CountAssessments()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cortex_base_url": s.cortexBaseURL,
		"assessments":     count,
	})
}

func (s *Server) handleAssess(c *gin.Context) {
	var req AssessRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			s.renderError(c, http.StatusBadRequest, err)
			return
		}
	}

	wallet := strings.TrimSpace(req.Wallet)
	if wallet == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("wallet is required"))
		return
	}

	c.JSON(http.StatusOK, s.assess(c.Request.Context(), wallet))
}

func (s *Server) handleAssessWallet(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if wallet == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("wallet is required"))
		return
	}

	c.JSON(http.StatusOK, s.assess(c.Request.Context(), wallet))
}

// assess runs one trust evaluation, appends it to the history and notifies
// stream clients. The assessment itself is total; only persistence can fail,
// and a failed write is logged rather than surfaced to the caller.
func (s *Server) assess(ctx context.Context, wallet string) AssessmentDTO {
	timer := util.StartTimer()
	assessment := s.assessor.AssessReasoningTrust(ctx, wallet)

	row := &store.Assessment{
		Wallet:           wallet,
		TrustLevel:       string(assessment.TrustLevel),
		Reason:           assessment.Reason,
		ProcessingTimeMs: timer.ElapsedMs(),
	}
	if assessment.Conviction != nil {
		row.HasConviction = true
		row.Score = assessment.Conviction.Score
		row.DefiActivity = assessment.Conviction.DefiActivity
		row.PredictionMarketActivity = assessment.Conviction.PredictionMarketActivity
		row.CrossDomainCorrelation = assessment.Conviction.CrossDomainCorrelation
	}

	if err := s.db.SaveAssessment(row); err != nil {
		logrus.WithError(err).WithField("wallet", wallet).Warn("persist assessment")
	}

	dto := AssessmentDTO{
		ID:               row.ID,
		Wallet:           wallet,
		TrustLevel:       assessment.TrustLevel,
		Conviction:       assessment.Conviction,
		Reason:           assessment.Reason,
		ProcessingTimeMs: row.ProcessingTimeMs,
		CreatedAt:        row.CreatedAt,
	}

	logrus.WithFields(logrus.Fields{
		"wallet":      wallet,
		"trust_level": dto.TrustLevel,
		"duration_ms": dto.ProcessingTimeMs,
	}).Info("wallet assessed")

	s.notifier.Broadcast(AssessmentEvent{
		Type:       "assessment",
		Wallet:     wallet,
		Assessment: &dto,
	})

	return dto
}

func (s *Server) handleListAssessments(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 100
	}

	level := strings.TrimSpace(c.Query("trust_level"))
	if level != "" && !validLevel(level) {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid trust_level: %s", level))
		return
	}

	rows, total, err := s.db.ListAssessments(store.AssessmentQuery{
		Wallet:     strings.TrimSpace(c.Query("wallet")),
		TrustLevel: level,
		Sort:       strings.TrimSpace(c.Query("sort")),
		Offset:     page * pageSize,
		Limit:      pageSize,
	})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]AssessmentDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	c.JSON(http.StatusOK, AssessmentsResponse{Items: dtos, Total: total})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	rows, _, err := s.db.ListAssessments(store.AssessmentQuery{Limit: -1})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=trust-assessments.csv")
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	headers := []string{"wallet", "trust_level", "score", "defi_activity", "prediction_market_activity", "cross_domain_correlation", "reason", "processing_time_ms", "created_at"}
	if err := writer.Write(headers); err != nil {
		return
	}
	for _, row := range rows {
		score, defi, prediction, correlation := "", "", "", ""
		if row.HasConviction {
			score = fmt.Sprintf("%.2f", row.Score)
			defi = fmt.Sprintf("%.2f", row.DefiActivity)
			prediction = fmt.Sprintf("%.2f", row.PredictionMarketActivity)
			correlation = fmt.Sprintf("%.2f", row.CrossDomainCorrelation)
		}
		line := []string{
			row.Wallet,
			row.TrustLevel,
			score,
			defi,
			prediction,
			correlation,
			row.Reason,
			strconv.FormatInt(row.ProcessingTimeMs, 10),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(line); err != nil {
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	rows, _, err := s.db.ListAssessments(store.AssessmentQuery{Limit: -1})
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]AssessmentDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FromModel(row))
	}
	c.Header("Content-Disposition", "attachment; filename=trust-assessments.json")
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) handleAssessStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("assessment websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("assessment websocket closed")
			} else {
				logrus.WithError(err).Warn("assessment websocket unexpected close")
			}
			break
		}
	}
}

func validLevel(value string) bool {
	switch trust.Level(value) {
	case trust.LevelHigh, trust.LevelMedium, trust.LevelLow:
		return true
	}
	return false
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
