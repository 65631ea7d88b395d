package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mreimer702/Rettnar/domain"
	"github.com/mreimer702/Rettnar/dto"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/utils"
)

const (
	defaultAnalyticsDays  = 30
	defaultAnalyticsLimit = 20
)

// SearchLogService define la interfaz del servicio de historial de búsquedas
type SearchLogService interface {
	Create(ctx context.Context, actor *domain.User, req dto.CreateSearchLogRequest) (*domain.SearchLog, error)
	List(ctx context.Context, actor *domain.User, page utils.PageRequest) (*dto.SearchLogListResponse, error)
	Analytics(ctx context.Context, q dto.AnalyticsQuery) ([]repositories.KeywordStat, error)
}

type searchLogService struct {
	logs      repositories.SearchLogRepository
	locations repositories.LocationRepository
	analytics repositories.AnalyticsRepository
	now       func() time.Time
}

// NewSearchLogService crea una nueva instancia del servicio
func NewSearchLogService(logs repositories.SearchLogRepository, locations repositories.LocationRepository, analytics repositories.AnalyticsRepository) SearchLogService {
	return &searchLogService{logs: logs, locations: locations, analytics: analytics, now: time.Now}
}

// Create registra una búsqueda del actor
func (s *searchLogService) Create(ctx context.Context, actor *domain.User, req dto.CreateSearchLogRequest) (*domain.SearchLog, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" || utf8.RuneCountInString(keyword) > maxKeywordLength {
		return nil, validationError("keyword must be between 1 and 255 characters")
	}
	entry := &domain.SearchLog{UserID: actor.ID, Keyword: keyword, SearchedAt: s.now().UTC()}
	if req.Location != nil {
		loc, err := resolveLocation(ctx, s.locations, req.Location)
		if err != nil {
			return nil, err
		}
		entry.LocationID = &loc.ID
		entry.Location = loc
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List devuelve las búsquedas del actor
func (s *searchLogService) List(ctx context.Context, actor *domain.User, page utils.PageRequest) (*dto.SearchLogListResponse, error) {
	items, total, err := s.logs.ListByUser(ctx, actor.ID, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.SearchLog{}
	}
	return &dto.SearchLogListResponse{SearchLogs: items, Pagination: page.Paginate(total)}, nil
}

// Analytics devuelve las palabras más buscadas de los últimos días
func (s *searchLogService) Analytics(ctx context.Context, q dto.AnalyticsQuery) ([]repositories.KeywordStat, error) {
	days, limit := q.Days, q.Limit
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if limit <= 0 {
		limit = defaultAnalyticsLimit
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	stats, err := s.analytics.TopKeywords(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []repositories.KeywordStat{}
	}
	return stats, nil
}
