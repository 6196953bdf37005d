package domain

import "time"

type InspectionStatus string

const (
	StatusInProgress InspectionStatus = "IN_PROGRESS"
	StatusCompleted  InspectionStatus = "COMPLETED"
	StatusApproved   InspectionStatus = "APPROVED"
	StatusRejected   InspectionStatus = "REJECTED"
)

func (s InspectionStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition is the forward-only lifecycle: IN_PROGRESS -> COMPLETED -> {APPROVED, REJECTED}.
// APPROVED and REJECTED are terminal.
func (s InspectionStatus) CanTransition(to InspectionStatus) bool {
	switch s {
	case StatusInProgress:
		return to == StatusCompleted
	case StatusCompleted:
		return to == StatusApproved || to == StatusRejected
	}
	return false
}

type ResultValue string

const (
	ResultPending          ResultValue = "PENDING"
	ResultPass             ResultValue = "PASS"
	ResultFail             ResultValue = "FAIL"
	ResultNeedsImprovement ResultValue = "NEEDS_IMPROVEMENT"
	ResultNotApplicable    ResultValue = "NOT_APPLICABLE"
)

func (v ResultValue) Valid() bool {
	switch v {
	case ResultPending, ResultPass, ResultFail, ResultNeedsImprovement, ResultNotApplicable:
		return true
	}
	return false
}

type Inspection struct {
	ID               string           `json:"id"`
	HotelID          string           `json:"hotelId"`
	InspectorID      string           `json:"inspectorId"`
	Status           InspectionStatus `json:"status"`
	InspectionDate   time.Time        `json:"inspectionDate"`
	Notes            string           `json:"notes"`
	OverallRating    *float64         `json:"overallRating"`
	FollowUpRequired bool             `json:"followUpRequired"`
	FollowUpNotes    *string          `json:"followUpNotes"`
	CompletedAt      *time.Time       `json:"completedAt"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// InspectionResult holds the outcome for one checklist item within one inspection.
// At most one row exists per (InspectionID, ChecklistItemID).
type InspectionResult struct {
	ID              string      `json:"id"`
	InspectionID    string      `json:"inspectionId"`
	ChecklistItemID string      `json:"checklistItemId"`
	Result          ResultValue `json:"result"`
	Rating          *float64    `json:"rating"`
	Notes           string      `json:"notes"`
	PhotoURLs       []string    `json:"photoUrls"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ResultDetail joins a result with its checklist item for read payloads.
type ResultDetail struct {
	InspectionResult
	ChecklistItem ChecklistItem `json:"checklistItem"`
}

// InspectionSummary is the list row with joined display fields.
type InspectionSummary struct {
	Inspection
	HotelName string  `json:"hotelName"`
	HotelCity string  `json:"hotelCity"`
	Inspector UserRef `json:"inspector"`
}

// InspectionDetail is the full read model for one inspection.
type InspectionDetail struct {
	Inspection
	Hotel     Hotel          `json:"hotel"`
	Inspector UserRef        `json:"inspector"`
	Results   []ResultDetail `json:"inspectionResults"`
	PassCount int            `json:"passCount"`
	FailCount int            `json:"failCount"`
}

type InspectionsQuery struct {
	InspectorID *string
	HotelID     *string
	Status      *InspectionStatus
	Limit       int
}

// ReportMetrics is the dashboard/report aggregate.
type ReportMetrics struct {
	TotalHotels          int     `json:"totalHotels"`
	TotalInspections     int     `json:"totalInspections"`
	CompletedInspections int     `json:"completedInspections"`
	RecentInspections    int     `json:"recentInspections"`
	AvgRating            float64 `json:"avgRating"`
	CompletionRate       int     `json:"completionRate"`
}
