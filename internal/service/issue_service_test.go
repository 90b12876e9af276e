package service

import (
	"errors"
	"testing"
	"time"

	"civicdesk/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIssue(store *fakeIssueStore, reporter uuid.UUID, status model.IssueStatus, createdAt time.Time) *model.Issue {
	issue := &model.Issue{
		ID:           uuid.New(),
		Title:        "seeded",
		Description:  "seeded",
		Status:       status,
		Priority:     model.PriorityMedium,
		LocationName: model.DefaultLocationName,
		ReporterID:   reporter,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	store.issues[issue.ID] = issue
	return issue
}

func TestCreateIssueDefaults(t *testing.T) {
	store := newFakeIssueStore()
	outbox := &fakeOutbox{}
	svc := NewIssueService(store, &fakeAssignmentStore{}, outbox)

	reporter := uuid.New()
	resp, err := svc.CreateIssue(&model.CreateIssueRequest{
		Title:       "Pothole",
		Description: "Deep pothole on Elm Street",
	}, reporter.String())

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status, "new issues are pending externally")
	assert.Equal(t, "medium", resp.Priority)
	assert.Equal(t, model.DefaultLocationName, resp.Location.Address)
	assert.Equal(t, reporter.String(), resp.CitizenID)
	assert.Empty(t, resp.Images)
	assert.Nil(t, resp.AssignedTo)

	stored, err := store.FindByID(uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, stored.Status, "storage keeps the internal vocabulary")

	assert.Equal(t, []string{"issue.created"}, outbox.staged)
}

func TestCreateIssueValidation(t *testing.T) {
	svc := NewIssueService(newFakeIssueStore(), &fakeAssignmentStore{}, nil)
	reporter := uuid.New().String()

	tests := []struct {
		name     string
		req      *model.CreateIssueRequest
		reporter string
		field    string
	}{
		{
			name:     "missing title",
			req:      &model.CreateIssueRequest{Description: "desc"},
			reporter: reporter,
			field:    "title",
		},
		{
			name:     "blank description",
			req:      &model.CreateIssueRequest{Title: "Pothole", Description: "   "},
			reporter: reporter,
			field:    "description",
		},
		{
			name:     "missing reporter",
			req:      &model.CreateIssueRequest{Title: "Pothole", Description: "desc"},
			reporter: "",
			field:    "citizenId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateIssue(tt.req, tt.reporter)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateIssuePhotoCoercion(t *testing.T) {
	store := newFakeIssueStore()
	svc := NewIssueService(store, &fakeAssignmentStore{}, nil)

	resp, err := svc.CreateIssue(&model.CreateIssueRequest{
		Title:       "Pothole",
		Description: "desc",
		PhotoURLs:   "not-an-array",
	}, uuid.New().String())

	require.NoError(t, err)
	assert.NotNil(t, resp.Images)
	assert.Empty(t, resp.Images, "non-array photo payload collapses to empty")
}

func TestListIssuesFilters(t *testing.T) {
	store := newFakeIssueStore()
	svc := NewIssueService(store, &fakeAssignmentStore{}, nil)

	citizen := uuid.New()
	other := uuid.New()
	base := time.Now()

	older := seedIssue(store, citizen, model.StatusOpen, base.Add(-2*time.Hour))
	resolved := seedIssue(store, citizen, model.StatusResolved, base.Add(-1*time.Hour))
	seedIssue(store, other, model.StatusOpen, base)

	t.Run("by reporter, newest first", func(t *testing.T) {
		got, err := svc.ListIssues(citizen.String(), "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, resolved.ID.String(), got[0].ID)
		assert.Equal(t, older.ID.String(), got[1].ID)
	})

	t.Run("by external status", func(t *testing.T) {
		got, err := svc.ListIssues("", "resolved")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, resolved.ID.String(), got[0].ID)
	})

	t.Run("pending translates to open", func(t *testing.T) {
		got, err := svc.ListIssues("", "pending")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("all is a wildcard", func(t *testing.T) {
		got, err := svc.ListIssues("", "all")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("no match is empty, not an error", func(t *testing.T) {
		got, err := svc.ListIssues(uuid.New().String(), "")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestUpdateIssueNothingToUpdate(t *testing.T) {
	store := newFakeIssueStore()
	svc := NewIssueService(store, &fakeAssignmentStore{}, nil)
	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())

	_, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{}, uuid.New().String())
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestUpdateIssueNotFound(t *testing.T) {
	svc := NewIssueService(newFakeIssueStore(), &fakeAssignmentStore{}, nil)

	status := "resolved"
	_, err := svc.UpdateIssue(uuid.New(), &model.UpdateIssueRequest{Status: &status}, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateIssueStatusOnly(t *testing.T) {
	store := newFakeIssueStore()
	audit := &fakeAssignmentStore{}
	outbox := &fakeOutbox{}
	svc := NewIssueService(store, audit, outbox)

	assignee := uuid.New()
	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())
	issue.AssignedTo = &assignee

	status := "resolved"
	resp, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{Status: &status}, uuid.New().String())

	require.NoError(t, err)
	assert.Equal(t, "resolved", resp.Status)
	require.NotNil(t, resp.AssignedTo, "partial update leaves the assignee untouched")
	assert.Equal(t, assignee.String(), *resp.AssignedTo)
	assert.Empty(t, audit.records, "status changes alone are not audited")
	assert.Equal(t, []string{"issue.status.updated"}, outbox.staged)
}

func TestUpdateIssueUnknownStatusPassesThrough(t *testing.T) {
	store := newFakeIssueStore()
	svc := NewIssueService(store, &fakeAssignmentStore{}, nil)
	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())

	status := "archived"
	resp, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{Status: &status}, "")

	require.NoError(t, err)
	assert.Equal(t, "archived", resp.Status)
}

func TestUpdateIssueAssignment(t *testing.T) {
	store := newFakeIssueStore()
	audit := &fakeAssignmentStore{}
	outbox := &fakeOutbox{}
	svc := NewIssueService(store, audit, outbox)

	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())
	assignee := uuid.New()
	actor := uuid.New()

	assignedTo := assignee.String()
	resp, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{AssignedTo: &assignedTo}, actor.String())

	require.NoError(t, err)
	require.NotNil(t, resp.AssignedTo)
	assert.Equal(t, assignee.String(), *resp.AssignedTo)

	require.Len(t, audit.records, 1)
	record := audit.records[0]
	assert.Equal(t, issue.ID, record.IssueID)
	assert.Equal(t, assignee, record.AssigneeID)
	assert.Equal(t, actor, record.AssignerID)
	assert.Equal(t, model.AssignmentStatusLabel, record.Status)

	assert.Equal(t, []string{"issue.assigned"}, outbox.staged)
}

func TestUpdateIssueAssignToSelf(t *testing.T) {
	store := newFakeIssueStore()
	audit := &fakeAssignmentStore{}
	svc := NewIssueService(store, audit, nil)

	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())
	assignee := uuid.New()

	assignedTo := assignee.String()
	_, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{AssignedTo: &assignedTo}, "")

	require.NoError(t, err)
	require.Len(t, audit.records, 1)
	assert.Equal(t, assignee, audit.records[0].AssignerID, "missing assigner falls back to the assignee")
}

func TestUpdateIssueAuditFailureDoesNotFailUpdate(t *testing.T) {
	store := newFakeIssueStore()
	audit := &fakeAssignmentStore{createErr: errors.New("audit table unavailable")}
	svc := NewIssueService(store, audit, nil)

	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())
	assignee := uuid.New()

	assignedTo := assignee.String()
	resp, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{AssignedTo: &assignedTo}, "")

	require.NoError(t, err, "audit trail is best-effort; the mutation is authoritative")
	require.NotNil(t, resp.AssignedTo)
	assert.Equal(t, assignee.String(), *resp.AssignedTo)
}

func TestUpdateIssueClearAssignee(t *testing.T) {
	store := newFakeIssueStore()
	audit := &fakeAssignmentStore{}
	svc := NewIssueService(store, audit, nil)

	assignee := uuid.New()
	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())
	issue.AssignedTo = &assignee

	empty := ""
	resp, err := svc.UpdateIssue(issue.ID, &model.UpdateIssueRequest{AssignedTo: &empty}, "")

	require.NoError(t, err)
	assert.Nil(t, resp.AssignedTo)
	assert.Empty(t, audit.records, "clearing the assignee is not an assignment")
}

func TestDeleteIssue(t *testing.T) {
	store := newFakeIssueStore()
	svc := NewIssueService(store, &fakeAssignmentStore{}, nil)
	issue := seedIssue(store, uuid.New(), model.StatusOpen, time.Now())

	require.NoError(t, svc.DeleteIssue(issue.ID))
	assert.ErrorIs(t, svc.DeleteIssue(issue.ID), ErrNotFound)
}
