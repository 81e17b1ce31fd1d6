package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrSiteNotFound         = errors.New("site not found")
	ErrTaskNotFound         = errors.New("scheduled task not found")
	ErrActionNotFound       = errors.New("action not found")
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrTaskAlreadyCompleted = errors.New("scheduled task is already completed")
	ErrSiteNotArchived      = errors.New("site must be archived before deletion")
	ErrValidation           = errors.New("validation failed")
)

// NewValidationError wraps ErrValidation with a field-level message so
// callers can match with errors.Is while still surfacing the detail.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Enums and types
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type ActionFlag string

const (
	FlagNone    ActionFlag = ""
	FlagInfo    ActionFlag = "info"
	FlagWarning ActionFlag = "warning"
	FlagUrgent  ActionFlag = "urgent"
)

type FunctionalClassification string

const (
	SiteProduction   FunctionalClassification = "production"
	SiteNucleus      FunctionalClassification = "nucleus"
	SiteQueenRearing FunctionalClassification = "queen-rearing"
	SiteResearch     FunctionalClassification = "research"
	SiteEducation    FunctionalClassification = "education"
	SiteQuarantine   FunctionalClassification = "quarantine"
	SiteBackup       FunctionalClassification = "backup"
	SiteCustom       FunctionalClassification = "custom"
)

type SeasonalClassification string

const (
	SeasonSummer     SeasonalClassification = "summer"
	SeasonWinter     SeasonalClassification = "winter"
	SeasonSummerOnly SeasonalClassification = "summer-only"
	SeasonWinterOnly SeasonalClassification = "winter-only"
	SeasonYearRound  SeasonalClassification = "year-round"
)

// HiveStrength is the colony condition breakdown for a site.
type HiveStrength struct {
	Strong int `json:"strong" db:"strength_strong"`
	Medium int `json:"medium" db:"strength_medium"`
	Weak   int `json:"weak" db:"strength_weak"`
	Nuc    int `json:"nuc" db:"strength_nuc"`
	Dead   int `json:"dead" db:"strength_dead"`
}

// Total counts living colonies; dead hives are excluded.
func (h HiveStrength) Total() int {
	return h.Strong + h.Medium + h.Weak + h.Nuc
}

// HiveStacks is the physical box configuration at a site.
type HiveStacks struct {
	Doubles   int `json:"doubles" db:"stacks_doubles"`
	TopSplits int `json:"top_splits" db:"stacks_top_splits"`
	Singles   int `json:"singles" db:"stacks_singles"`
	Nucs      int `json:"nucs" db:"stacks_nucs"`
	Empty     int `json:"empty" db:"stacks_empty"`
}

// Occupied is the stack total excluding empty boxes. This is the source
// of truth for a site's hive count.
func (s HiveStacks) Occupied() int {
	return s.Doubles + s.TopSplits + s.Singles + s.Nucs
}

// IsZero reports whether no stack breakdown has been recorded at all.
func (s HiveStacks) IsZero() bool {
	return s.Doubles == 0 && s.TopSplits == 0 && s.Singles == 0 && s.Nucs == 0 && s.Empty == 0
}

// HarvestRecord is one harvest event at a site.
type HarvestRecord struct {
	Date     time.Time `json:"date" db:"date"`
	Quantity float64   `json:"quantity" db:"quantity"`
	Notes    string    `json:"notes" db:"notes"`
}

// Landowner is the contact block for the property a site sits on.
type Landowner struct {
	Name    string `json:"name" db:"landowner_name"`
	Phone   string `json:"phone" db:"landowner_phone"`
	Email   string `json:"email" db:"landowner_email"`
	Address string `json:"address" db:"landowner_address"`
}

// Site represents a physical apiary location.
type Site struct {
	ID                 int                      `json:"id" db:"id"`
	TenantID           string                   `json:"tenant_id" db:"tenant_id"`
	Name               string                   `json:"name" db:"name"`
	Description        string                   `json:"description" db:"description"`
	Latitude           float64                  `json:"latitude" db:"latitude"`
	Longitude          float64                  `json:"longitude" db:"longitude"`
	HiveCount          int                      `json:"hive_count" db:"hive_count"`
	HiveStrength       HiveStrength             `json:"hive_strength"`
	HiveStacks         HiveStacks               `json:"hive_stacks"`
	Functional         FunctionalClassification `json:"functional_classification" db:"functional_classification"`
	Seasonal           SeasonalClassification   `json:"seasonal_classification" db:"seasonal_classification"`
	HarvestTimeline    string                   `json:"harvest_timeline" db:"harvest_timeline"`
	SugarRequirements  string                   `json:"sugar_requirements" db:"sugar_requirements"`
	Notes              string                   `json:"notes" db:"notes"`
	Landowner          Landowner                `json:"landowner"`
	AccessType         string                   `json:"access_type" db:"access_type"`
	ContactBeforeVisit bool                     `json:"contact_before_visit" db:"contact_before_visit"`
	IsQuarantine       bool                     `json:"is_quarantine" db:"is_quarantine"`
	HoneyPotentials    []string                 `json:"honey_potentials"`
	HarvestRecords     []HarvestRecord          `json:"harvest_records,omitempty"`
	Archived           bool                     `json:"archived" db:"archived"`
	ArchivedAt         *time.Time               `json:"archived_at,omitempty" db:"archived_at"`
	ArchivedBy         *string                  `json:"archived_by,omitempty" db:"archived_by"`
	CreatedAt          time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at" db:"updated_at"`
	LastModifiedBy     string                   `json:"last_modified_by" db:"last_modified_by"`
}

// ScheduledTask is a planned future action against a site.
type ScheduledTask struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      string     `json:"tenant_id" db:"tenant_id"`
	SiteID        int        `json:"site_id" db:"site_id"`
	TaskID        int        `json:"task_id" db:"task_id"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	ScheduledTime *string    `json:"scheduled_time,omitempty" db:"scheduled_time"`
	Priority      Priority   `json:"priority" db:"priority"`
	Completed     bool       `json:"completed" db:"completed"`
	Overdue       bool       `json:"overdue" db:"overdue"`
	OverdueAt     *time.Time `json:"overdue_at,omitempty" db:"overdue_at"`
	Notes         string     `json:"notes" db:"notes"`
	CreatedBy     string     `json:"created_by" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	CompletedBy   *string    `json:"completed_by,omitempty" db:"completed_by"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Rescheduled   bool       `json:"rescheduled" db:"rescheduled"`
	RescheduledAt *time.Time `json:"rescheduled_at,omitempty" db:"rescheduled_at"`
	RescheduledBy *string    `json:"rescheduled_by,omitempty" db:"rescheduled_by"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Action is a historical record of work performed at a site.
// Append-only: after creation only the flag may change.
type Action struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TenantID        string     `json:"tenant_id" db:"tenant_id"`
	SiteID          int        `json:"site_id" db:"site_id"`
	TaskID          int        `json:"task_id" db:"task_id"`
	TaskName        string     `json:"task_name" db:"task_name"`
	TaskCategory    string     `json:"task_category" db:"task_category"`
	Date            time.Time  `json:"date" db:"date"`
	Notes           string     `json:"notes" db:"notes"`
	Flag            ActionFlag `json:"flag" db:"flag"`
	LoggedBy        string     `json:"logged_by" db:"logged_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	FromScheduled   bool       `json:"from_scheduled_task" db:"from_scheduled_task"`
	ScheduledTaskID *uuid.UUID `json:"scheduled_task_id,omitempty" db:"scheduled_task_id"`
}

// TaskCatalogEntry is static reference data describing a kind of work.
type TaskCatalogEntry struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Category    string `json:"category" db:"category"`
	Common      bool   `json:"common" db:"common"`
	Description string `json:"description" db:"description"`
}

// DeletedTaskRecord is the tombstone kept when a catalog entry is removed,
// so historical actions can still render a name.
type DeletedTaskRecord struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	DeletedAt time.Time `json:"deleted_at" db:"deleted_at"`
	DeletedBy string    `json:"deleted_by" db:"deleted_by"`
}

// Business logic methods for ScheduledTask

// IsOverdueAt compares the due date against asOf at calendar-date precision.
func (t *ScheduledTask) IsOverdueAt(asOf time.Time) bool {
	if t.Completed {
		return false
	}
	return truncateToDay(t.DueDate).Before(truncateToDay(asOf))
}

func (t *ScheduledTask) CanComplete() error {
	if t.Completed {
		return ErrTaskAlreadyCompleted
	}
	return nil
}

// MarkCompleted stamps the completion audit fields. Callers persist the
// change together with the derived action in one transaction.
func (t *ScheduledTask) MarkCompleted(by string, at time.Time) {
	t.Completed = true
	t.CompletedBy = &by
	t.CompletedAt = &at
	t.UpdatedAt = at
}

// Reschedule moves the due date. A date that is not in the past clears
// overdue state and resets priority to normal.
func (t *ScheduledTask) Reschedule(newDate time.Time, by string, now time.Time) {
	t.DueDate = newDate
	if !truncateToDay(newDate).Before(truncateToDay(now)) {
		t.Priority = PriorityNormal
		t.Overdue = false
		t.OverdueAt = nil
	}
	t.Rescheduled = true
	t.RescheduledAt = &now
	t.RescheduledBy = &by
	t.UpdatedAt = now
}

// Promote escalates an overdue pending task to urgent. Reports whether
// anything changed.
func (t *ScheduledTask) Promote(asOf time.Time) bool {
	if !t.IsOverdueAt(asOf) || t.Priority == PriorityUrgent {
		return false
	}
	t.Priority = PriorityUrgent
	t.Overdue = true
	at := asOf
	t.OverdueAt = &at
	t.UpdatedAt = asOf
	return true
}

// ToAction derives the append-only action record written when the task is
// completed.
func (t *ScheduledTask) ToAction(name, category, by string, at time.Time) *Action {
	id := t.ID
	return &Action{
		ID:              uuid.New(),
		TenantID:        t.TenantID,
		SiteID:          t.SiteID,
		TaskID:          t.TaskID,
		TaskName:        name,
		TaskCategory:    category,
		Date:            truncateToDay(at),
		Notes:           t.Notes,
		Flag:            FlagNone,
		LoggedBy:        by,
		CreatedAt:       at,
		FromScheduled:   true,
		ScheduledTaskID: &id,
	}
}

// Business logic methods for Site

func (s *Site) AllowsZeroHives() bool {
	return s.Seasonal == SeasonSummerOnly || s.Seasonal == SeasonWinterOnly
}

// Validate enforces the site invariants: name present, GPS in WGS84 range,
// hive count consistent with classification and stack breakdown.
func (s *Site) Validate() error {
	if s.Name == "" {
		return NewValidationError("site name is required")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return NewValidationError("latitude must be between -90 and 90 degrees")
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return NewValidationError("longitude must be between -180 and 180 degrees")
	}
	if s.HiveCount < 0 {
		return NewValidationError("hive count cannot be negative")
	}
	if s.HiveCount == 0 && !s.AllowsZeroHives() {
		return NewValidationError("hive count must be greater than 0 for %q sites", s.Seasonal)
	}
	if !s.HiveStacks.IsZero() && s.HiveStacks.Occupied() != s.HiveCount {
		return NewValidationError("hive count %d does not match stack total %d", s.HiveCount, s.HiveStacks.Occupied())
	}
	if !s.Functional.IsValid() {
		return NewValidationError("invalid functional classification %q", s.Functional)
	}
	if !s.Seasonal.IsValid() {
		return NewValidationError("invalid seasonal classification %q", s.Seasonal)
	}
	for _, rec := range s.HarvestRecords {
		if rec.Quantity < 0 {
			return NewValidationError("harvest quantity cannot be negative")
		}
	}
	return nil
}

func (s *Site) CanDelete() error {
	if !s.Archived {
		return ErrSiteNotArchived
	}
	return nil
}

func (s *Site) HasHarvestTimeline() bool {
	return s.HarvestTimeline != ""
}

// Utility methods

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// ICalPriority maps the three-level priority onto the iCalendar 1/2/3 scale.
func (p Priority) ICalPriority() int {
	switch p {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	default:
		return 3
	}
}

func (f ActionFlag) IsValid() bool {
	switch f {
	case FlagNone, FlagInfo, FlagWarning, FlagUrgent:
		return true
	default:
		return false
	}
}

func (fc FunctionalClassification) IsValid() bool {
	switch fc {
	case SiteProduction, SiteNucleus, SiteQueenRearing, SiteResearch,
		SiteEducation, SiteQuarantine, SiteBackup, SiteCustom:
		return true
	default:
		return false
	}
}

func (sc SeasonalClassification) IsValid() bool {
	switch sc {
	case SeasonSummer, SeasonWinter, SeasonSummerOnly, SeasonWinterOnly, SeasonYearRound:
		return true
	default:
		return false
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
