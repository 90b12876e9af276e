package service

import (
	"database/sql"
	"sort"

	"civicdesk/internal/model"

	"github.com/google/uuid"
)

// In-memory stand-ins for the repository layer, enough to exercise the
// service rules without a database.

type fakeIssueStore struct {
	issues    map[uuid.UUID]*model.Issue
	createErr error
	updateErr error
}

func newFakeIssueStore() *fakeIssueStore {
	return &fakeIssueStore{issues: make(map[uuid.UUID]*model.Issue)}
}

func (f *fakeIssueStore) Create(issue *model.Issue) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *issue
	f.issues[issue.ID] = &copied
	return nil
}

func (f *fakeIssueStore) FindByID(id uuid.UUID) (*model.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *issue
	return &copied, nil
}

func (f *fakeIssueStore) Find(filter model.IssueFilter) ([]model.Issue, error) {
	matched := []model.Issue{}
	for _, issue := range f.issues {
		if filter.ReporterID != nil && issue.ReporterID != *filter.ReporterID {
			continue
		}
		if filter.Status != nil && issue.Status != *filter.Status {
			continue
		}
		matched = append(matched, *issue)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (f *fakeIssueStore) Update(id uuid.UUID, upd model.IssueUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return sql.ErrNoRows
	}
	if upd.Status != nil {
		issue.Status = *upd.Status
	}
	if upd.AssignedTo != nil {
		issue.AssignedTo = *upd.AssignedTo
	}
	issue.UpdatedAt = issue.UpdatedAt.Add(1)
	return nil
}

func (f *fakeIssueStore) Delete(id uuid.UUID) error {
	if _, ok := f.issues[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeIssueStore) StatusCounts() (map[string]int, error) {
	counts := make(map[string]int)
	for _, issue := range f.issues {
		counts[string(issue.Status)]++
	}
	return counts, nil
}

type fakeAssignmentStore struct {
	records   []*model.Assignment
	createErr error
}

func (f *fakeAssignmentStore) Create(a *model.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, a)
	return nil
}

type fakeOutbox struct {
	staged []string
}

func (f *fakeOutbox) Create(routingKey string, payload interface{}) error {
	f.staged = append(f.staged, routingKey)
	return nil
}

type fakeUserStore struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
}

func (f *fakeUserStore) Create(user *model.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) FindByID(id uuid.UUID) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) EmailExists(email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeCommentStore struct {
	comments []*model.Comment
}

func (f *fakeCommentStore) Create(comment *model.Comment) error {
	f.comments = append(f.comments, comment)
	return nil
}

func (f *fakeCommentStore) FindByIssueID(issueID uuid.UUID) ([]model.Comment, error) {
	matched := []model.Comment{}
	for _, c := range f.comments {
		if c.IssueID == issueID {
			matched = append(matched, *c)
		}
	}
	return matched, nil
}
