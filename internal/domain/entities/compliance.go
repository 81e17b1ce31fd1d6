package entities

import (
	"errors"
	"time"
)

var ErrComplianceProfileNotFound = errors.New("compliance profile not found")

// ComplianceObligation is one statutory obligation of a registered New
// Zealand beekeeper.
type ComplianceObligation string

const (
	ObligationADR          ComplianceObligation = "adr"
	ObligationColonyReturn ComplianceObligation = "colony_return"
	ObligationLevyPayment  ComplianceObligation = "levy_payment"
	ObligationCOI          ComplianceObligation = "coi"
)

func (o ComplianceObligation) IsValid() bool {
	switch o {
	case ObligationADR, ObligationColonyReturn, ObligationLevyPayment, ObligationCOI:
		return true
	default:
		return false
	}
}

func (o ComplianceObligation) Label() string {
	switch o {
	case ObligationADR:
		return "Annual Disease Return (ADR)"
	case ObligationColonyReturn:
		return "Colony Return"
	case ObligationLevyPayment:
		return "Levy Payment"
	case ObligationCOI:
		return "Certificate of Inspection (COI)"
	default:
		return string(o)
	}
}

// AFBReportingDays is the statutory window for reporting an American
// Foulbrood detection.
const AFBReportingDays = 7

// ComplianceDeadline is one fixed date in the statutory beekeeping year.
// COIOnly deadlines apply only to beekeepers without a DECA.
type ComplianceDeadline struct {
	Key              string
	Label            string
	Description      string
	Month            time.Month
	Day              int
	ReminderLeadDays []int
	COIOnly          bool
}

// ComplianceDeadlines is the statutory deadline table for New Zealand
// beekeepers, in calendar order.
var ComplianceDeadlines = []ComplianceDeadline{
	{
		Key:              "colony_snapshot",
		Label:            "Colony Count Snapshot (31 March)",
		Description:      "Confirm exact colony counts as at 31 March for levy calculation",
		Month:            time.March,
		Day:              31,
		ReminderLeadDays: []int{14, 7, 1},
	},
	{
		Key:              "levy_invoice",
		Label:            "Levy Invoice Generated (1 April)",
		Description:      "New levy invoice available and returns now open",
		Month:            time.April,
		Day:              1,
		ReminderLeadDays: []int{0},
	},
	{
		Key:              "adr_return",
		Label:            "ADR & Colony Return Deadline (1 June)",
		Description:      "Submit Annual Disease Return and Colony Return by 1 June",
		Month:            time.June,
		Day:              1,
		ReminderLeadDays: []int{45, 16, 7, 1},
	},
	{
		Key:              "levy_payment",
		Label:            "Levy Payment Due (1 June)",
		Description:      "Levy payment must be completed by 1 June",
		Month:            time.June,
		Day:              1,
		ReminderLeadDays: []int{7, 1},
	},
	{
		Key:              "coi_open",
		Label:            "COI Inspection Window Opens (1 Aug)",
		Description:      "Certificate of Inspection period begins (if no DECA)",
		Month:            time.August,
		Day:              1,
		ReminderLeadDays: []int{2, 0},
		COIOnly:          true,
	},
	{
		Key:              "coi_close",
		Label:            "COI Inspection Window Closes (30 Nov)",
		Description:      "Last day to complete Certificate of Inspection",
		Month:            time.November,
		Day:              30,
		ReminderLeadDays: []int{45, 10, 1},
		COIOnly:          true,
	},
}

// NextOccurrence returns the deadline's date in asOf's year, rolling to the
// following year when it has already passed. Date precision only.
func (d ComplianceDeadline) NextOccurrence(asOf time.Time) time.Time {
	occurrence := time.Date(asOf.Year(), d.Month, d.Day, 0, 0, 0, 0, asOf.Location())
	if occurrence.Before(truncateToDay(asOf)) {
		occurrence = occurrence.AddDate(1, 0, 0)
	}
	return occurrence
}

// ComplianceProfile holds a tenant's regulatory registration details and
// reminder preferences.
type ComplianceProfile struct {
	TenantID             string    `json:"tenant_id" db:"tenant_id"`
	NZBBRegistration     string    `json:"nzbb_registration" db:"nzbb_registration"`
	HasDECA              bool      `json:"has_deca" db:"has_deca"`
	NotificationsEnabled bool      `json:"notifications_enabled" db:"notifications_enabled"`
	EmailNotifications   bool      `json:"email_notifications" db:"email_notifications"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// ComplianceRecord marks one obligation completed for one statutory year.
type ComplianceRecord struct {
	TenantID    string               `json:"tenant_id" db:"tenant_id"`
	Year        int                  `json:"year" db:"year"`
	Obligation  ComplianceObligation `json:"obligation" db:"obligation"`
	CompletedBy string               `json:"completed_by" db:"completed_by"`
	CompletedAt time.Time            `json:"completed_at" db:"completed_at"`
}
