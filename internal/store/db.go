package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Assessment{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveAssessment appends an assessment row to the history.
func (d *Database) SaveAssessment(a *Assessment) error {
	if a == nil {
		return errors.New("assessment is nil")
	}
	a.Wallet = strings.TrimSpace(a.Wallet)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(a).Error
}

// AssessmentQuery filters and paginates history listings. A non-positive
// Limit returns all matching rows.
type AssessmentQuery struct {
	Wallet     string
	TrustLevel string
	Sort       string
	Offset     int
	Limit      int
}

// ListAssessments returns matching history rows plus the unpaginated total.
func (d *Database) ListAssessments(q AssessmentQuery) ([]Assessment, int64, error) {
	if d == nil {
		return nil, 0, errors.New("database is nil")
	}

	query := d.gorm.Model(&Assessment{})
	if wallet := strings.TrimSpace(q.Wallet); wallet != "" {
		query = query.Where("wallet = ?", wallet)
	}
	if level := strings.TrimSpace(q.TrustLevel); level != "" {
		query = query.Where("trust_level = ?", level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch strings.ToLower(strings.TrimSpace(q.Sort)) {
	case "oldest":
		query = query.Order("created_at ASC")
	case "score":
		query = query.Order("score ASC")
	case "score_desc":
		query = query.Order("score DESC")
	default:
		query = query.Order("created_at DESC")
	}

	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}

	var rows []Assessment
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountAssessments returns the number of stored assessment rows.
func (d *Database) CountAssessments() (int64, error) {
	if d == nil {
		return 0, errors.New("database is nil")
	}
	var count int64
	if err := d.gorm.Model(&Assessment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
