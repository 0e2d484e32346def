package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talosync/jobportal/pkg/notify"
)

type fakeJobs struct {
	jobs map[uuid.UUID]JobSummary
}

func (f *fakeJobs) JobSummary(_ context.Context, id uuid.UUID) (JobSummary, error) {
	j, ok := f.jobs[id]
	if !ok {
		return JobSummary{}, errors.New("no rows")
	}
	return j, nil
}

// fakeRepo воспроизводит контракт хранилища в памяти, включая правило
// ёмкости внутри Decide.
type fakeRepo struct {
	jobs    *fakeJobs
	apps    map[uuid.UUID]Application
	resumes map[uuid.UUID]string
}

func newFakeRepo(jobs *fakeJobs) *fakeRepo {
	return &fakeRepo{
		jobs:    jobs,
		apps:    map[uuid.UUID]Application{},
		resumes: map[uuid.UUID]string{},
	}
}

func (f *fakeRepo) Create(_ context.Context, a Application) error {
	for _, ex := range f.apps {
		if ex.JobID == a.JobID && ex.ApplicantID == a.ApplicantID {
			return ErrAlreadyApplied
		}
	}
	f.apps[a.ID] = a
	return nil
}

func (f *fakeRepo) GetDetail(_ context.Context, id uuid.UUID) (Detail, error) {
	a, ok := f.apps[id]
	if !ok {
		return Detail{}, ErrNotFound
	}
	j := f.jobs.jobs[a.JobID]
	return Detail{
		Application:    a,
		JobTitle:       j.Title,
		JobCreatorID:   j.CreatedBy,
		JobPosition:    j.Position,
		JobOpen:        j.IsOpen,
		ApplicantName:  "Test Candidate",
		ApplicantEmail: fmt.Sprintf("%s@example.com", a.ApplicantID),
		ResumeURL:      f.resumes[a.ApplicantID],
	}, nil
}

func (f *fakeRepo) Decide(_ context.Context, id uuid.UUID, status Status) (Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	if a.Status != StatusPending {
		return Application{}, &AlreadyDecidedError{Status: a.Status}
	}
	if status == StatusAccepted {
		accepted := 0
		for _, ex := range f.apps {
			if ex.JobID == a.JobID && ex.Status == StatusAccepted {
				accepted++
			}
		}
		j := f.jobs.jobs[a.JobID]
		if accepted >= j.Position {
			j.IsOpen = false
			f.jobs.jobs[a.JobID] = j
		}
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	f.apps[id] = a
	return a, nil
}

func (f *fakeRepo) DeleteForApplicant(_ context.Context, id, applicantID uuid.UUID) error {
	a, ok := f.apps[id]
	if !ok || a.ApplicantID != applicantID {
		return ErrNotFound
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeRepo) ListByApplicant(_ context.Context, applicantID uuid.UUID) ([]CandidateItem, error) {
	var res []CandidateItem
	for _, a := range f.apps {
		if a.ApplicantID == applicantID {
			res = append(res, CandidateItem{Application: a})
		}
	}
	return res, nil
}

func (f *fakeRepo) ListByJob(_ context.Context, jobID uuid.UUID, limit, offset int) ([]EmployerItem, error) {
	var all []EmployerItem
	for _, a := range f.apps {
		if a.JobID == jobID {
			all = append(all, EmployerItem{Application: a})
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRepo) CountByJob(_ context.Context, jobID uuid.UUID) (int, error) {
	n := 0
	for _, a := range f.apps {
		if a.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) { return len(f.apps), nil }

type fakeSender struct {
	sent []notify.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func newTestService(jobs *fakeJobs, repo *fakeRepo, sender *fakeSender) UseCase {
	return NewService(repo, jobs, sender, zerolog.Nop())
}

func openJob(owner uuid.UUID, position int) JobSummary {
	return JobSummary{
		ID:        uuid.New(),
		Title:     "Backend Developer",
		CreatedBy: owner,
		Position:  position,
		IsOpen:    true,
	}
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 2)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	candidate := uuid.New()
	a, err := svc.Apply(context.Background(), j.ID, candidate)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, j.ID, a.JobID)
	assert.Equal(t, candidate, a.ApplicantID)
	assert.Len(t, repo.apps, 1)
}

func TestApplyJobNotFound(t *testing.T) {
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	_, err := svc.Apply(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Empty(t, repo.apps, "no application row may remain after a rejected apply")
}

func TestApplyClosedJob(t *testing.T) {
	j := openJob(uuid.New(), 1)
	j.IsOpen = false
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	_, err := svc.Apply(context.Background(), j.ID, uuid.New())
	assert.ErrorIs(t, err, ErrJobClosed)
	assert.Empty(t, repo.apps)
}

func TestApplyDuplicate(t *testing.T) {
	j := openJob(uuid.New(), 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	candidate := uuid.New()
	_, err := svc.Apply(context.Background(), j.ID, candidate)
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), j.ID, candidate)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Len(t, repo.apps, 1)
}

func TestWithdrawThenReapply(t *testing.T) {
	j := openJob(uuid.New(), 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	candidate := uuid.New()
	a, err := svc.Apply(context.Background(), j.ID, candidate)
	require.NoError(t, err)
	require.NoError(t, svc.Withdraw(context.Background(), a.ID, candidate))

	_, err = svc.Apply(context.Background(), j.ID, candidate)
	assert.NoError(t, err, "withdrawal frees the slot for a new application")
}

func TestWithdrawForeignApplication(t *testing.T) {
	j := openJob(uuid.New(), 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	a, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)

	err = svc.Withdraw(context.Background(), a.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound, "foreign application must look like a missing one")
	assert.Len(t, repo.apps, 1)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{}}
	svc := newTestService(jobs, newFakeRepo(jobs), &fakeSender{})

	for _, bad := range []Status{"", "pending", "hired", "Accepted"} {
		_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, "status %q", bad)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{}}
	svc := newTestService(jobs, newFakeRepo(jobs), &fakeSender{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), StatusAccepted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusNotOwner(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	a, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), a.ID, uuid.New(), StatusAccepted)
	assert.ErrorIs(t, err, ErrNotJobOwner)
	assert.Equal(t, StatusPending, repo.apps[a.ID].Status, "status must stay untouched")
}

func TestUpdateStatusAlreadyDecided(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 5)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	a, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), a.ID, owner, StatusRejected)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), a.ID, owner, StatusAccepted)
	var decided *AlreadyDecidedError
	require.ErrorAs(t, err, &decided)
	assert.Equal(t, StatusRejected, decided.Status)
	assert.Contains(t, decided.Error(), "rejected")
	assert.Equal(t, StatusRejected, repo.apps[a.ID].Status)
}

func TestAcceptClosesJobAtCapacity(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	first, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)

	// Первое принятие не достигает порога: уже принятых нет.
	_, err = svc.UpdateStatus(context.Background(), first.ID, owner, StatusAccepted)
	require.NoError(t, err)
	assert.True(t, jobs.jobs[j.ID].IsOpen)

	// Второе принятие: уже принятых 1 >= position 1, вакансия закрывается.
	_, err = svc.UpdateStatus(context.Background(), second.ID, owner, StatusAccepted)
	require.NoError(t, err)
	assert.False(t, jobs.jobs[j.ID].IsOpen)
	assert.Equal(t, StatusAccepted, repo.apps[second.ID].Status, "status is written even on the closing transition")
}

func TestRejectNeverClosesJob(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	a, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), a.ID, owner, StatusRejected)
	require.NoError(t, err)
	assert.True(t, jobs.jobs[j.ID].IsOpen)
}

func TestUpdateStatusSendsEmail(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 3)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	sender := &fakeSender{}
	svc := newTestService(jobs, repo, sender)

	a, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), a.ID, owner, StatusAccepted)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Application accepted", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Text, "Backend Developer")
}

func TestUpdateStatusEmailFailureDoesNotFail(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 3)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{err: errors.New("smtp down")})

	a, err := svc.Apply(context.Background(), j.ID, uuid.New())
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(context.Background(), a.ID, owner, StatusAccepted)
	require.NoError(t, err, "mail failure must not undo a committed transition")
	assert.Equal(t, StatusAccepted, updated.Status)
}

func TestListForJobPagination(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 10)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	for i := 0; i < 7; i++ {
		_, err := svc.Apply(context.Background(), j.ID, uuid.New())
		require.NoError(t, err)
	}

	items, pg, err := svc.ListForJob(context.Background(), j.ID, owner, 2, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, Pagination{Total: 7, Page: 2, Pages: 3}, pg)

	// Нулевые значения приводятся к первой странице с размером 10.
	items, pg, err = svc.ListForJob(context.Background(), j.ID, owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 7)
	assert.Equal(t, Pagination{Total: 7, Page: 1, Pages: 1}, pg)
}

func TestListForJobHidesForeignJob(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	svc := newTestService(jobs, newFakeRepo(jobs), &fakeSender{})

	// Чужая вакансия и несуществующая дают одну и ту же ошибку.
	_, _, err := svc.ListForJob(context.Background(), j.ID, uuid.New(), 1, 10)
	assert.ErrorIs(t, err, ErrNotJobOwner)
	_, _, err = svc.ListForJob(context.Background(), uuid.New(), owner, 1, 10)
	assert.ErrorIs(t, err, ErrNotJobOwner)
}

func TestResumeRef(t *testing.T) {
	owner := uuid.New()
	j := openJob(owner, 1)
	jobs := &fakeJobs{jobs: map[uuid.UUID]JobSummary{j.ID: j}}
	repo := newFakeRepo(jobs)
	svc := newTestService(jobs, repo, &fakeSender{})

	candidate := uuid.New()
	repo.resumes[candidate] = "/uploads/cv.pdf"
	a, err := svc.Apply(context.Background(), j.ID, candidate)
	require.NoError(t, err)

	url, err := svc.ResumeRef(context.Background(), a.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/cv.pdf", url)

	_, err = svc.ResumeRef(context.Background(), a.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotJobOwner)

	noResume := uuid.New()
	b, err := svc.Apply(context.Background(), j.ID, noResume)
	require.NoError(t, err)
	_, err = svc.ResumeRef(context.Background(), b.ID, owner)
	assert.ErrorIs(t, err, ErrResumeMissing)
}
