package service

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"civicdesk/internal/messaging"
	"civicdesk/internal/model"

	"github.com/google/uuid"
)

// IssueStore is the slice of the issue repository the service depends on.
type IssueStore interface {
	Create(issue *model.Issue) error
	FindByID(id uuid.UUID) (*model.Issue, error)
	Find(filter model.IssueFilter) ([]model.Issue, error)
	Update(id uuid.UUID, upd model.IssueUpdate) error
	Delete(id uuid.UUID) error
}

// AssignmentStore appends audit rows.
type AssignmentStore interface {
	Create(a *model.Assignment) error
}

// OutboxStore stages issue events for the background publisher.
type OutboxStore interface {
	Create(routingKey string, payload interface{}) error
}

type IssueService struct {
	issues      IssueStore
	assignments AssignmentStore
	outbox      OutboxStore
}

// NewIssueService wires the issue lifecycle. outbox may be nil when messaging
// is disabled.
func NewIssueService(issues IssueStore, assignments AssignmentStore, outbox OutboxStore) *IssueService {
	return &IssueService{
		issues:      issues,
		assignments: assignments,
		outbox:      outbox,
	}
}

// CreateIssue validates and persists a new report for the given citizen.
// Status always starts at open; missing priority defaults to medium; a photo
// list that is not an array of strings collapses to empty.
func (s *IssueService) CreateIssue(req *model.CreateIssueRequest, reporterID string) (*model.IssueResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, &ValidationError{Field: "description"}
	}
	if strings.TrimSpace(reporterID) == "" {
		return nil, &ValidationError{Field: "citizenId"}
	}

	reporter, err := uuid.Parse(reporterID)
	if err != nil {
		return nil, &ValidationError{Field: "citizenId"}
	}

	locationName := model.DefaultLocationName
	var lat, lng *float64
	if req.Location != nil {
		if strings.TrimSpace(req.Location.Address) != "" {
			locationName = req.Location.Address
		}
		lat = req.Location.Latitude
		lng = req.Location.Longitude
	}

	now := time.Now()
	issue := &model.Issue{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       model.StatusOpen,
		Priority:     model.NormalizePriority(req.Priority),
		Category:     req.Category,
		Department:   req.Department,
		LocationName: locationName,
		Latitude:     lat,
		Longitude:    lng,
		PhotoURLs:    model.StringList(req.PhotoURLs),
		ReporterID:   reporter,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.issues.Create(issue); err != nil {
		return nil, err
	}

	s.stageEvent(messaging.RoutingKeyIssueCreated, messaging.IssueCreatedMessage{
		IssueID:    issue.ID.String(),
		Title:      issue.Title,
		ReporterID: issue.ReporterID.String(),
		Priority:   string(issue.Priority),
		Timestamp:  now.Unix(),
	})

	return issue.ToResponse(), nil
}

func (s *IssueService) GetIssue(id uuid.UUID) (*model.IssueResponse, error) {
	issue, err := s.issues.FindByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue.ToResponse(), nil
}

// ListIssues returns external representations newest first. The status filter
// arrives in the external vocabulary; "all" and "" mean no filter.
func (s *IssueService) ListIssues(reporterID, status string) ([]*model.IssueResponse, error) {
	filter := model.IssueFilter{}

	if reporterID != "" {
		uid, err := uuid.Parse(reporterID)
		if err != nil {
			// An unparseable reporter id matches nothing.
			return []*model.IssueResponse{}, nil
		}
		filter.ReporterID = &uid
	}
	if status != "" && status != "all" {
		internal := model.IssueStatus(model.ToInternalStatus(status))
		filter.Status = &internal
	}

	issues, err := s.issues.Find(filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.IssueResponse, 0, len(issues))
	for i := range issues {
		responses = append(responses, issues[i].ToResponse())
	}
	return responses, nil
}

// UpdateIssue applies a partial update of status and/or assignee. A change of
// assignee also appends an audit row; that write is best-effort and never
// fails the update.
func (s *IssueService) UpdateIssue(id uuid.UUID, req *model.UpdateIssueRequest, actorID string) (*model.IssueResponse, error) {
	if req.Status == nil && req.AssignedTo == nil {
		return nil, ErrNothingToUpdate
	}

	upd := model.IssueUpdate{}

	if req.Status != nil {
		internal := model.IssueStatus(model.ToInternalStatus(*req.Status))
		upd.Status = &internal
	}

	var assignee *uuid.UUID
	if req.AssignedTo != nil {
		if *req.AssignedTo != "" {
			uid, err := uuid.Parse(*req.AssignedTo)
			if err != nil {
				return nil, &ValidationError{Field: "assignedTo"}
			}
			assignee = &uid
		}
		upd.AssignedTo = &assignee
	}

	if err := s.issues.Update(id, upd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	issue, err := s.issues.FindByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if assignee != nil {
		s.recordAssignment(issue, *assignee, actorID)
		s.stageEvent(messaging.RoutingKeyIssueAssigned, messaging.IssueAssignedMessage{
			IssueID:    issue.ID.String(),
			Title:      issue.Title,
			AssigneeID: assignee.String(),
			ReporterID: issue.ReporterID.String(),
			Timestamp:  time.Now().Unix(),
		})
	}
	if req.Status != nil {
		s.stageEvent(messaging.RoutingKeyStatusUpdated, messaging.StatusUpdatedMessage{
			IssueID:    issue.ID.String(),
			Title:      issue.Title,
			NewStatus:  model.ToExternalStatus(string(issue.Status)),
			ReporterID: issue.ReporterID.String(),
			Timestamp:  time.Now().Unix(),
		})
	}

	return issue.ToResponse(), nil
}

func (s *IssueService) DeleteIssue(id uuid.UUID) error {
	if err := s.issues.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// recordAssignment appends one audit row. When the actor cannot be resolved
// the assigner falls back to the assignee (assign-to-self). Failures are
// logged and swallowed: the issue mutation is authoritative, the trail is not.
func (s *IssueService) recordAssignment(issue *model.Issue, assignee uuid.UUID, actorID string) {
	assigner := assignee
	if actor, err := uuid.Parse(actorID); err == nil {
		assigner = actor
	}

	record := &model.Assignment{
		ID:         uuid.New(),
		IssueID:    issue.ID,
		AssigneeID: assignee,
		AssignerID: assigner,
		Status:     model.AssignmentStatusLabel,
		CreatedAt:  time.Now(),
	}

	if err := s.assignments.Create(record); err != nil {
		log.Printf("assignment audit: issue %s: %v", issue.ID, err)
	}
}

func (s *IssueService) stageEvent(routingKey string, payload interface{}) {
	if s.outbox == nil {
		return
	}
	if err := s.outbox.Create(routingKey, payload); err != nil {
		log.Printf("outbox: stage %s: %v", routingKey, err)
	}
}
