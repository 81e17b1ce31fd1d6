package services

import (
	"context"
	"fmt"
	"time"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// suggestionTemplate is one season-keyed recommendation. TaskName is the
// seasonal display name, distinct from the catalog entry it schedules as.
// SiteFilter narrows the recommended sites; a nil filter recommends every
// active site.
type suggestionTemplate struct {
	ID          string
	TaskID      int
	TaskName    string
	Description string
	Priority    entities.Priority
	Timing      string
	SiteFilter  func(*entities.Site) bool
}

// Seasons follow the southern hemisphere calendar: the operation was built
// for New Zealand apiaries.
var seasonalSuggestions = map[string][]suggestionTemplate{
	"spring": {
		{
			ID:          "spring-inspection",
			TaskID:      101,
			TaskName:    "Spring Hive Inspection",
			Description: "Spring build-up has started. Inspect every colony for queen performance and disease before adding supers.",
			Priority:    entities.PriorityHigh,
			Timing:      "Early spring, once daytime temperatures are reliably above 15°C",
		},
		{
			ID:          "spring-feeding",
			TaskID:      201,
			TaskName:    "Spring Sugar Syrup Feeding",
			Description: "Light syrup stimulates brood rearing while nectar flow is still patchy.",
			Priority:    entities.PriorityHigh,
			Timing:      "September through October",
		},
	},
	"summer": {
		{
			ID:          "summer-ventilation",
			TaskID:      602,
			TaskName:    "Summer Ventilation Setup",
			Description: "Hot sites need ventilation checked so colonies do not beard or abscond.",
			Priority:    entities.PriorityNormal,
			Timing:      "Before the December heat peaks",
		},
		{
			ID:          "summer-harvest",
			TaskID:      401,
			TaskName:    "Honey Harvest",
			Description: "Main flow is on. Harvest sites with a declared harvest timeline before the flow ends.",
			Priority:    entities.PriorityHigh,
			Timing:      "Per each site's harvest timeline",
			SiteFilter:  func(s *entities.Site) bool { return s.HasHarvestTimeline() },
		},
	},
	"autumn": {
		{
			ID:          "autumn-winterize",
			TaskID:      603,
			TaskName:    "Fall Winterization",
			Description: "Winterize before the first cold snap: reduce entrances, check stores, remove empty supers.",
			Priority:    entities.PriorityHigh,
			Timing:      "March through April, before nights drop below 5°C",
		},
		{
			ID:          "autumn-varroa",
			TaskID:      301,
			TaskName:    "Varroa Treatment",
			Description: "Post-harvest varroa treatment protects the winter bee generation.",
			Priority:    entities.PriorityHigh,
			Timing:      "Immediately after the last harvest",
		},
	},
	"winter": {
		{
			ID:          "winter-insulation",
			TaskID:      604,
			TaskName:    "Winter Insulation Check",
			Description: "Check insulation and ventilation on exposed sites; condensation kills more colonies than cold.",
			Priority:    entities.PriorityNormal,
			Timing:      "June through August, on calm days only",
		},
	},
}

type suggestionService struct {
	siteRepo    ports.SiteRepository
	catalogRepo ports.TaskCatalogRepository
	logger      *logger.Logger
}

// NewSuggestionService creates a new seasonal suggestion service instance
func NewSuggestionService(siteRepo ports.SiteRepository, catalogRepo ports.TaskCatalogRepository, logger *logger.Logger) ports.SuggestionService {
	return &suggestionService{
		siteRepo:    siteRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// SeasonForMonth maps a calendar month onto the southern hemisphere season.
func SeasonForMonth(month time.Month) string {
	switch month {
	case time.September, time.October, time.November:
		return "spring"
	case time.December, time.January, time.February:
		return "summer"
	case time.March, time.April, time.May:
		return "autumn"
	default:
		return "winter"
	}
}

func (s *suggestionService) Suggest(ctx context.Context, tenantID string, month time.Month) ([]ports.Suggestion, error) {
	if month < time.January || month > time.December {
		return nil, entities.NewValidationError("invalid month %d", month)
	}

	season := SeasonForMonth(month)
	templates := seasonalSuggestions[season]

	sites, err := s.siteRepo.List(ctx, tenantID, ports.SiteFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sites for suggestions: %w", err)
	}

	suggestions := make([]ports.Suggestion, 0, len(templates))
	for _, tmpl := range templates {
		// A filter that matches nothing still yields the suggestion; the
		// empty site list tells the keeper no site currently qualifies.
		recommended := make([]string, 0)
		for _, site := range sites {
			if tmpl.SiteFilter == nil || tmpl.SiteFilter(site) {
				recommended = append(recommended, site.Name)
			}
		}

		suggestions = append(suggestions, ports.Suggestion{
			ID:               tmpl.ID,
			TaskID:           tmpl.TaskID,
			TaskName:         tmpl.TaskName,
			Description:      tmpl.Description,
			Season:           season,
			Category:         tmpl.category(ctx, s.catalogRepo),
			Priority:         tmpl.Priority,
			Timing:           tmpl.Timing,
			RecommendedSites: recommended,
		})
	}

	s.logger.Debugw("seasonal suggestions generated",
		"tenant_id", tenantID,
		"month", int(month),
		"season", season,
		"count", len(suggestions),
	)
	return suggestions, nil
}

// category comes from the catalog entry the suggestion schedules as.
func (t suggestionTemplate) category(ctx context.Context, repo ports.TaskCatalogRepository) string {
	if entry, err := repo.GetByID(ctx, t.TaskID); err == nil {
		return entry.Category
	}
	return "Seasonal"
}
