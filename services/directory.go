package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meinhoongagan/roadside-assist/logger"
	"github.com/meinhoongagan/roadside-assist/metrics"
	"github.com/meinhoongagan/roadside-assist/models"
	"gorm.io/gorm"
)

const (
	defaultPageLimit     = 10
	maxPageLimit         = 50
	directoryCachePrefix = "directory:"
)

// PageCache stores serialized result pages.
type PageCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// DirectoryQuery is a browse request. Zero values mean "no filter".
type DirectoryQuery struct {
	Page    int
	Limit   int
	City    string
	Vehicle string
	Service string
}

type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type DirectoryPage struct {
	Data       []models.MechanicApplication `json:"data"`
	Pagination Pagination                   `json:"pagination"`
}

type DirectoryService struct {
	db    *gorm.DB
	cache PageCache
	ttl   time.Duration
}

func NewDirectoryService(conn *gorm.DB, cache PageCache, ttl time.Duration) *DirectoryService {
	return &DirectoryService{db: conn, cache: orNoop(cache), ttl: ttl}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) bool                 { return false }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) DeletePrefix(context.Context, string) error            { return nil }

func orNoop(c PageCache) PageCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

// Normalize clamps paging and trims filters.
func (q DirectoryQuery) Normalize() DirectoryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit < 1:
		q.Limit = defaultPageLimit
	case q.Limit > maxPageLimit:
		q.Limit = maxPageLimit
	}
	q.City = strings.TrimSpace(q.City)
	q.Vehicle = strings.TrimSpace(q.Vehicle)
	q.Service = strings.TrimSpace(q.Service)
	return q
}

func (q DirectoryQuery) cacheKey() string {
	return fmt.Sprintf("%sp=%d&l=%d&c=%s&v=%s&s=%s", directoryCachePrefix,
		q.Page, q.Limit, strings.ToLower(q.City), q.Vehicle, q.Service)
}

// NewPagination derives the page flags for total rows.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Browse lists approved applications, most experienced first.
func (s *DirectoryService) Browse(ctx context.Context, q DirectoryQuery) (*DirectoryPage, error) {
	q = q.Normalize()

	key := q.cacheKey()
	var cached DirectoryPage
	if s.cache.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues("directory").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("directory").Inc()

	query := s.db.WithContext(ctx).Model(&models.MechanicApplication{}).
		Where("status = ?", models.ApplicationApproved)

	if q.City != "" {
		query = query.Where(`LOWER(city) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.City))+"%")
	}
	if q.Vehicle != "" {
		spec, ok := models.ParseSpecialization(q.Vehicle)
		if !ok {
			return nil, invalid("vehicle", "must be one of Bike, Car, Both")
		}
		query = query.Where("vehicle_specialization IN ?", spec.Matches())
	}
	if q.Service != "" {
		// services_provided holds a JSON array; match one whole element.
		element, _ := models.StringList{q.Service}.Value()
		needle := strings.TrimSuffix(strings.TrimPrefix(element.(string), "["), "]")
		query = query.Where(substringMatch(s.db, "services_provided"), needle)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := DirectoryPage{Data: []models.MechanicApplication{}}
	err := query.Order("experience_years DESC").Order("id ASC").
		Offset((q.Page - 1) * q.Limit).Limit(q.Limit).
		Find(&page.Data).Error
	if err != nil {
		return nil, err
	}
	page.Pagination = NewPagination(q.Page, q.Limit, total)

	if err := s.cache.Set(ctx, key, page, s.ttl); err != nil {
		logger.Warn("failed to cache directory page", "error", err)
	}
	return &page, nil
}

// Invalidate drops every cached page.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	return s.cache.DeletePrefix(ctx, directoryCachePrefix)
}

// substringMatch is a case-sensitive "column contains ?" test. LIKE folds
// case on SQLite but not on Postgres, so it cannot be used here.
func substringMatch(conn *gorm.DB, column string) string {
	if conn.Dialector.Name() == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
