package job

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talosync/jobportal/pkg/notify"
)

type fakeRepo struct {
	jobs map[uuid.UUID]Job
}

func newFakeRepo() *fakeRepo { return &fakeRepo{jobs: map[uuid.UUID]Job{}} }

func (f *fakeRepo) Create(_ context.Context, j Job) error {
	f.jobs[j.ID] = j
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (Listing, error) {
	j, ok := f.jobs[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return Listing{Job: j}, nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]Listing, error) {
	var res []Listing
	for _, j := range f.jobs {
		res = append(res, Listing{Job: j})
	}
	return res, nil
}

func (f *fakeRepo) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]Listing, error) {
	var res []Listing
	for _, j := range f.jobs {
		if j.CreatedBy == employerID {
			res = append(res, Listing{Job: j})
		}
	}
	return res, nil
}

func (f *fakeRepo) Update(_ context.Context, j Job) error {
	if _, ok := f.jobs[j.ID]; !ok {
		return ErrNotFound
	}
	f.jobs[j.ID] = j
	return nil
}

func (f *fakeRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	j, ok := f.jobs[id]
	if !ok || j.CreatedBy != ownerID {
		return ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) { return len(f.jobs), nil }

func (f *fakeRepo) ListAll(_ context.Context, limit, offset int) ([]Listing, error) {
	return f.List(context.Background(), limit, offset)
}

func (f *fakeRepo) DeleteAny(_ context.Context, id uuid.UUID) error {
	if _, ok := f.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeRepo) CountApplicationsByStatus(_ context.Context, jobID uuid.UUID) ([]StatusCount, error) {
	return []StatusCount{{Status: "pending", Count: 2}}, nil
}

type fakeCompanies struct {
	byOwner map[uuid.UUID]CompanySummary
}

func (f *fakeCompanies) CompanyByOwner(_ context.Context, ownerID uuid.UUID) (CompanySummary, error) {
	c, ok := f.byOwner[ownerID]
	if !ok {
		return CompanySummary{}, errors.New("no rows")
	}
	return c, nil
}

type fakeAlerts struct {
	subs []Subscriber
}

func (f *fakeAlerts) AlertSubscribers(_ context.Context) ([]Subscriber, error) {
	return f.subs, nil
}

type fakeSender struct {
	sent []notify.Message
}

func (f *fakeSender) Send(_ context.Context, m notify.Message) error {
	f.sent = append(f.sent, m)
	return nil
}

func validJob(owner uuid.UUID) Job {
	return Job{
		Title:           "Go Developer",
		Description:     "Build backend services",
		Salary:          120000,
		ExperienceLevel: "middle",
		Location:        "Remote",
		JobType:         "full-time",
		Position:        2,
		CreatedBy:       owner,
	}
}

func TestCreateRequiresCompany(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeCompanies{byOwner: map[uuid.UUID]CompanySummary{}}, &fakeAlerts{}, nil, "", zerolog.Nop())

	_, err := svc.Create(context.Background(), validJob(uuid.New()))
	assert.ErrorIs(t, err, ErrNoCompany)
	assert.Empty(t, repo.jobs)
}

func TestCreateValidation(t *testing.T) {
	owner := uuid.New()
	companies := &fakeCompanies{byOwner: map[uuid.UUID]CompanySummary{owner: {ID: uuid.New(), Name: "Acme"}}}
	svc := NewService(newFakeRepo(), companies, &fakeAlerts{}, nil, "", zerolog.Nop())

	tests := []struct {
		name   string
		mutate func(*Job)
	}{
		{"empty title", func(j *Job) { j.Title = " " }},
		{"empty description", func(j *Job) { j.Description = "" }},
		{"zero salary", func(j *Job) { j.Salary = 0 }},
		{"zero position", func(j *Job) { j.Position = 0 }},
		{"empty location", func(j *Job) { j.Location = "" }},
		{"empty job type", func(j *Job) { j.JobType = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := validJob(owner)
			tt.mutate(&j)
			_, err := svc.Create(context.Background(), j)
			var ve ErrValidation
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestCreateOpensAndLinksCompany(t *testing.T) {
	owner := uuid.New()
	comp := CompanySummary{ID: uuid.New(), Name: "Acme"}
	companies := &fakeCompanies{byOwner: map[uuid.UUID]CompanySummary{owner: comp}}
	repo := newFakeRepo()
	svc := NewService(repo, companies, &fakeAlerts{}, nil, "", zerolog.Nop())

	created, err := svc.Create(context.Background(), validJob(owner))
	require.NoError(t, err)
	assert.True(t, created.IsOpen)
	assert.Equal(t, comp.ID, created.CompanyID)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NotNil(t, created.Requirements)
}

func TestCreateNotifiesSubscribers(t *testing.T) {
	owner := uuid.New()
	comp := CompanySummary{ID: uuid.New(), Name: "Acme"}
	companies := &fakeCompanies{byOwner: map[uuid.UUID]CompanySummary{owner: comp}}
	alerts := &fakeAlerts{subs: []Subscriber{
		{FullName: "Alice", Email: "alice@example.com"},
		{FullName: "Bob", Email: "bob@example.com"},
	}}
	sender := &fakeSender{}
	svc := NewService(newFakeRepo(), companies, alerts, sender, "https://jobs.example.com", zerolog.Nop())

	_, err := svc.Create(context.Background(), validJob(owner))
	require.NoError(t, err)
	svc.(*service).fanout.Wait()

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "New Job Alert!", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Text, "Acme")
	assert.Contains(t, sender.sent[0].Text, "Go Developer")
	assert.Contains(t, sender.sent[0].Text, "https://jobs.example.com/jobs")
}

func TestUpdateOwnerOnly(t *testing.T) {
	owner := uuid.New()
	repo := newFakeRepo()
	j := validJob(owner)
	j.ID = uuid.New()
	j.IsOpen = true
	repo.jobs[j.ID] = j
	svc := NewService(repo, &fakeCompanies{}, &fakeAlerts{}, nil, "", zerolog.Nop())

	_, err := svc.Update(context.Background(), uuid.New(), j.ID, Patch{})
	assert.ErrorIs(t, err, ErrNotFound, "foreign job must look like a missing one")
}

func TestUpdatePatchesFields(t *testing.T) {
	owner := uuid.New()
	repo := newFakeRepo()
	j := validJob(owner)
	j.ID = uuid.New()
	j.IsOpen = false
	repo.jobs[j.ID] = j
	svc := NewService(repo, &fakeCompanies{}, &fakeAlerts{}, nil, "", zerolog.Nop())

	title := "Senior Go Developer"
	salary := 150000.0
	open := true
	updated, err := svc.Update(context.Background(), owner, j.ID, Patch{
		Title:  &title,
		Salary: &salary,
		IsOpen: &open,
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Developer", updated.Title)
	assert.Equal(t, 150000.0, updated.Salary)
	assert.True(t, updated.IsOpen, "reopening is an explicit owner action")
	assert.Equal(t, "Remote", updated.Location, "untouched fields survive")
}

func TestAnalyticsOwnerOnly(t *testing.T) {
	owner := uuid.New()
	repo := newFakeRepo()
	j := validJob(owner)
	j.ID = uuid.New()
	repo.jobs[j.ID] = j
	svc := NewService(repo, &fakeCompanies{}, &fakeAlerts{}, nil, "", zerolog.Nop())

	counts, err := svc.Analytics(context.Background(), owner, j.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, counts)

	_, err = svc.Analytics(context.Background(), uuid.New(), j.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOwnerOnly(t *testing.T) {
	owner := uuid.New()
	repo := newFakeRepo()
	j := validJob(owner)
	j.ID = uuid.New()
	repo.jobs[j.ID] = j
	svc := NewService(repo, &fakeCompanies{}, &fakeAlerts{}, nil, "", zerolog.Nop())

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), j.ID), ErrNotFound)
	assert.NoError(t, svc.Delete(context.Background(), owner, j.ID))
	assert.Empty(t, repo.jobs)
}
