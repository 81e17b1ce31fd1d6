package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/beemarshall/core/internal/domain/entities"
)

// SiteService interface for apiary site management operations
type SiteService interface {
	CreateSite(ctx context.Context, tenantID string, req CreateSiteRequest) (*entities.Site, error)
	GetSite(ctx context.Context, tenantID string, id int) (*entities.Site, error)
	UpdateSite(ctx context.Context, tenantID string, id int, req UpdateSiteRequest) (*entities.Site, error)
	ListSites(ctx context.Context, tenantID string, filter SiteFilter) ([]*entities.Site, error)
	ArchiveSite(ctx context.Context, tenantID string, id int, by string) (*entities.Site, error)
	UnarchiveSite(ctx context.Context, tenantID string, id int, by string) (*entities.Site, error)
	DeleteSite(ctx context.Context, tenantID string, id int) error
	AddHarvestRecord(ctx context.Context, tenantID string, siteID int, req HarvestRecordRequest) (*entities.Site, error)
	RemoveHarvestRecord(ctx context.Context, tenantID string, siteID int, index int) (*entities.Site, error)
	GetStats(ctx context.Context, tenantID string) (*SiteStats, error)
}

// SchedulingService interface for scheduled task operations
type SchedulingService interface {
	Schedule(ctx context.Context, tenantID string, req ScheduleTaskRequest) (*entities.ScheduledTask, error)
	ScheduleVisit(ctx context.Context, tenantID string, req ScheduleVisitRequest) ([]*entities.ScheduledTask, error)
	GetTask(ctx context.Context, tenantID string, id uuid.UUID) (*entities.ScheduledTask, error)
	UpdateTask(ctx context.Context, tenantID string, id uuid.UUID, req UpdateScheduledTaskRequest) (*entities.ScheduledTask, error)
	Complete(ctx context.Context, tenantID string, id uuid.UUID, completedBy string) (*entities.Action, error)
	Reschedule(ctx context.Context, tenantID string, id uuid.UUID, req RescheduleRequest) (*entities.ScheduledTask, error)
	Cancel(ctx context.Context, tenantID string, id uuid.UUID) error
	ListPending(ctx context.Context, tenantID string, asOf time.Time) ([]*entities.ScheduledTask, error)
	ListCompleted(ctx context.Context, tenantID string, limit int) ([]*entities.ScheduledTask, error)
	Timeline(ctx context.Context, tenantID string) ([]TimelineGroup, error)
	PromoteOverdueTasks(ctx context.Context, tenantID string, asOf time.Time) (int64, error)
}

// SuggestionService interface for seasonal task recommendations
type SuggestionService interface {
	Suggest(ctx context.Context, tenantID string, month time.Month) ([]Suggestion, error)
}

// CalendarService interface for iCalendar export
type CalendarService interface {
	ExportPending(ctx context.Context, tenantID string, from time.Time) (string, error)
}

// ActionService interface for the action log
type ActionService interface {
	LogVisit(ctx context.Context, tenantID string, req LogActionRequest) ([]*entities.Action, error)
	GetAction(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error)
	ListActions(ctx context.Context, tenantID string, filter ActionFilter) ([]*entities.Action, error)
	SetFlag(ctx context.Context, tenantID string, id uuid.UUID, flag entities.ActionFlag) (*entities.Action, error)
	ClearFlag(ctx context.Context, tenantID string, id uuid.UUID) (*entities.Action, error)
	DeleteAction(ctx context.Context, tenantID string, id uuid.UUID) error
	DeleteActions(ctx context.Context, tenantID string, ids []uuid.UUID) error
}

// ComplianceService interface for NZ statutory obligation tracking
type ComplianceService interface {
	// UpcomingDeadlines lists statutory deadlines falling within daysAhead
	// days of asOf, soonest first. COI deadlines are omitted for DECA
	// holders.
	UpcomingDeadlines(ctx context.Context, tenantID string, asOf time.Time, daysAhead int) ([]UpcomingDeadline, error)
	// DueReminders returns the deadlines whose configured reminder lead
	// time falls on asOf. Empty when the tenant disabled notifications.
	DueReminders(ctx context.Context, tenantID string, asOf time.Time) ([]UpcomingDeadline, error)
	Status(ctx context.Context, tenantID string, year int) (*ComplianceStatus, error)
	MarkObligationCompleted(ctx context.Context, tenantID string, year int, obligation entities.ComplianceObligation, by string) (*ComplianceStatus, error)
	GetProfile(ctx context.Context, tenantID string) (*entities.ComplianceProfile, error)
	UpdateProfile(ctx context.Context, tenantID string, req UpdateComplianceProfileRequest) (*entities.ComplianceProfile, error)
}

// CatalogService interface for the task catalog
type CatalogService interface {
	ListEntries(ctx context.Context) ([]*entities.TaskCatalogEntry, error)
	GetEntry(ctx context.Context, id int) (*entities.TaskCatalogEntry, error)
	CreateEntry(ctx context.Context, req CreateCatalogEntryRequest) (*entities.TaskCatalogEntry, error)
	RenameEntry(ctx context.Context, id int, name string) (*entities.TaskCatalogEntry, error)
	DeleteEntry(ctx context.Context, tenantID string, id int, deletedBy string) (*DeleteCatalogEntryResult, error)
	// DisplayName resolves a task id to a renderable name, falling back to
	// the tombstone for deleted entries.
	DisplayName(ctx context.Context, id int) string
}

// Request/Response Types

// Site related types
type CreateSiteRequest struct {
	Name               string                 `json:"name" validate:"required,max=200"`
	Description        string                 `json:"description" validate:"max=2000"`
	Latitude           float64                `json:"latitude" validate:"latitude"`
	Longitude          float64                `json:"longitude" validate:"longitude"`
	HiveCount          int                    `json:"hive_count" validate:"min=0"`
	HiveStrength       entities.HiveStrength  `json:"hive_strength"`
	HiveStacks         entities.HiveStacks    `json:"hive_stacks"`
	Functional         string                 `json:"functional_classification"`
	Seasonal           string                 `json:"seasonal_classification"`
	HarvestTimeline    string                 `json:"harvest_timeline"`
	SugarRequirements  string                 `json:"sugar_requirements"`
	Notes              string                 `json:"notes"`
	Landowner          entities.Landowner     `json:"landowner"`
	AccessType         string                 `json:"access_type"`
	ContactBeforeVisit bool                   `json:"contact_before_visit"`
	IsQuarantine       bool                   `json:"is_quarantine"`
	HoneyPotentials    []string               `json:"honey_potentials"`
	CreatedBy          string                 `json:"created_by" validate:"required"`
}

type UpdateSiteRequest struct {
	Name               *string                `json:"name" validate:"omitempty,max=200"`
	Description        *string                `json:"description" validate:"omitempty,max=2000"`
	Latitude           *float64               `json:"latitude" validate:"omitempty,latitude"`
	Longitude          *float64               `json:"longitude" validate:"omitempty,longitude"`
	HiveCount          *int                   `json:"hive_count" validate:"omitempty,min=0"`
	HiveStrength       *entities.HiveStrength `json:"hive_strength"`
	HiveStacks         *entities.HiveStacks   `json:"hive_stacks"`
	Functional         *string                `json:"functional_classification"`
	Seasonal           *string                `json:"seasonal_classification"`
	HarvestTimeline    *string                `json:"harvest_timeline"`
	SugarRequirements  *string                `json:"sugar_requirements"`
	Notes              *string                `json:"notes"`
	Landowner          *entities.Landowner    `json:"landowner"`
	AccessType         *string                `json:"access_type"`
	ContactBeforeVisit *bool                  `json:"contact_before_visit"`
	IsQuarantine       *bool                  `json:"is_quarantine"`
	HoneyPotentials    []string               `json:"honey_potentials"`
	ModifiedBy         string                 `json:"modified_by" validate:"required"`
}

type HarvestRecordRequest struct {
	Date     string  `json:"date" validate:"required"`
	Quantity float64 `json:"quantity" validate:"min=0"`
	Notes    string  `json:"notes"`
}

// Scheduling related types. Dates travel as YYYY-MM-DD strings and are
// parsed at the service boundary so a bad date is a validation error, not
// a bind error.
type ScheduleTaskRequest struct {
	SiteID        int    `json:"site_id" validate:"required"`
	TaskID        int    `json:"task_id" validate:"required"`
	DueDate       string `json:"due_date" validate:"required"`
	ScheduledTime string `json:"scheduled_time"`
	Priority      string `json:"priority"`
	Notes         string `json:"notes"`
	CreatedBy     string `json:"created_by" validate:"required"`
}

type ScheduleVisitRequest struct {
	SiteID        int    `json:"site_id" validate:"required"`
	TaskIDs       []int  `json:"task_ids" validate:"required,min=1"`
	DueDate       string `json:"due_date" validate:"required"`
	ScheduledTime string `json:"scheduled_time"`
	Priority      string `json:"priority"`
	Notes         string `json:"notes"`
	CreatedBy     string `json:"created_by" validate:"required"`
}

type UpdateScheduledTaskRequest struct {
	SiteID        *int    `json:"site_id"`
	TaskID        *int    `json:"task_id"`
	DueDate       *string `json:"due_date"`
	ScheduledTime *string `json:"scheduled_time"`
	Priority      *string `json:"priority"`
	Notes         *string `json:"notes"`
	ModifiedBy    string  `json:"modified_by" validate:"required"`
}

type RescheduleRequest struct {
	NewDueDate    string `json:"new_due_date" validate:"required"`
	RescheduledBy string `json:"rescheduled_by" validate:"required"`
}

// Action log related types
type LogActionRequest struct {
	SiteID   int    `json:"site_id" validate:"required"`
	TaskIDs  []int  `json:"task_ids" validate:"required,min=1"`
	Date     string `json:"date" validate:"required"`
	Notes    string `json:"notes"`
	Flag     string `json:"flag"`
	LoggedBy string `json:"logged_by" validate:"required"`
}

// Catalog related types
type CreateCatalogEntryRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=100"`
	Common      bool   `json:"common"`
	Description string `json:"description" validate:"max=1000"`
}

type DeleteCatalogEntryResult struct {
	Entry           *entities.TaskCatalogEntry `json:"entry"`
	AffectedActions int64                      `json:"affected_actions"`
}

// Compliance related types
type UpdateComplianceProfileRequest struct {
	NZBBRegistration     *string `json:"nzbb_registration" validate:"omitempty,max=50"`
	HasDECA              *bool   `json:"has_deca"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	EmailNotifications   *bool   `json:"email_notifications"`
}

// UpcomingDeadline is one statutory deadline projected onto the calendar.
type UpcomingDeadline struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	DaysUntil   int       `json:"days_until"`
}

// ObligationStatus is the completion state of one obligation for a year.
type ObligationStatus struct {
	Obligation  entities.ComplianceObligation `json:"obligation"`
	Label       string                        `json:"label"`
	Completed   bool                          `json:"completed"`
	CompletedBy string                        `json:"completed_by,omitempty"`
	CompletedAt *time.Time                    `json:"completed_at,omitempty"`
}

// ComplianceStatus is a tenant's obligation checklist for one statutory
// year. COI is excluded from the checklist for DECA holders.
type ComplianceStatus struct {
	Year        int                `json:"year"`
	Obligations []ObligationStatus `json:"obligations"`
	Completed   int                `json:"completed"`
	Total       int                `json:"total"`
}

// Suggestion is one seasonal recommendation. RecommendedSites may be
// empty when no site matches the suggestion's filter; the suggestion is
// still returned.
type Suggestion struct {
	ID               string            `json:"id"`
	TaskID           int               `json:"task_id"`
	TaskName         string            `json:"task_name"`
	Description      string            `json:"description"`
	Season           string            `json:"season"`
	Category         string            `json:"category"`
	Priority         entities.Priority `json:"priority"`
	Timing           string            `json:"timing"`
	RecommendedSites []string          `json:"recommended_sites"`
}

// TimelineGroup is one due-date bucket of the schedule timeline view.
type TimelineGroup struct {
	Date  time.Time                 `json:"date"`
	Tasks []*entities.ScheduledTask `json:"tasks"`
}

// Response types for common structures
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type PromoteOverdueResponse struct {
	Promoted int64     `json:"promoted"`
	AsOf     time.Time `json:"as_of"`
}
