package model

import (
	"time"

	"github.com/google/uuid"
)

type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// DefaultLocationName is stored when a report arrives without an address.
const DefaultLocationName = "Not specified"

// Issue is the storage-shape record for a citizen report.
type Issue struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       IssueStatus   `json:"status"`
	Priority     IssuePriority `json:"priority"`
	Category     *string       `json:"category,omitempty"`
	Department   *string       `json:"department,omitempty"`
	LocationName string        `json:"location_name"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	PhotoURLs    []string      `json:"photo_urls"`
	ReporterID   uuid.UUID     `json:"reporter_id"`
	AssignedTo   *uuid.UUID    `json:"assigned_to,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Assignment is one append-only audit row recording who assigned an issue to whom.
type Assignment struct {
	ID         uuid.UUID  `json:"id"`
	IssueID    uuid.UUID  `json:"issue_id"`
	AssigneeID uuid.UUID  `json:"assignee_id"`
	AssignerID uuid.UUID  `json:"assigner_id"`
	Note       *string    `json:"note,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AssignmentStatusLabel is the fixed label written on every audit row.
const AssignmentStatusLabel = "assigned"

// Location is the shape the HTTP boundary uses for issue locations.
type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// IssueResponse is the externally-mapped representation of an issue.
// Status is in the citizen-facing vocabulary.
type IssueResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Category    *string   `json:"category,omitempty"`
	Department  *string   `json:"department,omitempty"`
	Location    Location  `json:"location"`
	Images      []string  `json:"images"`
	CitizenID   string    `json:"citizenId"`
	AssignedTo  *string   `json:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToResponse maps the storage record to the external shape, translating the
// status vocabulary on the way out.
func (i *Issue) ToResponse() *IssueResponse {
	images := i.PhotoURLs
	if images == nil {
		images = []string{}
	}

	var assignedTo *string
	if i.AssignedTo != nil {
		s := i.AssignedTo.String()
		assignedTo = &s
	}

	address := i.LocationName
	if address == "" {
		address = DefaultLocationName
	}

	return &IssueResponse{
		ID:          i.ID.String(),
		Title:       i.Title,
		Description: i.Description,
		Status:      ToExternalStatus(string(i.Status)),
		Priority:    string(i.Priority),
		Category:    i.Category,
		Department:  i.Department,
		Location: Location{
			Address:   address,
			Latitude:  i.Latitude,
			Longitude: i.Longitude,
		},
		Images:     images,
		CitizenID:  i.ReporterID.String(),
		AssignedTo: assignedTo,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// Request/Response DTOs
type LocationInput struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

type CreateIssueRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    string         `json:"priority"`
	Category    *string        `json:"category"`
	Department  *string        `json:"department"`
	Location    *LocationInput `json:"location"`
	PhotoURLs   interface{}    `json:"photoUrls"`
}

type UpdateIssueRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

// IssueFilter narrows a listing. Zero-value fields match everything.
type IssueFilter struct {
	ReporterID *uuid.UUID
	Status     *IssueStatus
}

// IssueUpdate carries the fields of a partial update. Nil fields are left
// untouched. AssignedTo distinguishes "not supplied" (outer nil) from
// "clear the assignee" (inner nil).
type IssueUpdate struct {
	Status     *IssueStatus
	AssignedTo **uuid.UUID
}

// StringList coerces a decoded JSON value into a string slice. Anything that
// is not an array of strings collapses to an empty slice rather than an error,
// matching the tolerant intake on the report form.
func StringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// NormalizePriority returns the given priority if it is one of the four known
// levels, medium otherwise.
func NormalizePriority(p string) IssuePriority {
	switch IssuePriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return IssuePriority(p)
	default:
		return PriorityMedium
	}
}
