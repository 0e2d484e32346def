package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byID    map[uuid.UUID]User
	byEmail map[string]uuid.UUID
	saved   map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    map[uuid.UUID]User{},
		byEmail: map[string]uuid.UUID{},
		saved:   map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeRepo) Create(_ context.Context, u User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return f.byID[id], nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	u, ok := f.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) Update(_ context.Context, u User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return ErrNotFound
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeRepo) SetResume(_ context.Context, id uuid.UUID, url, originalName, text string) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Profile.ResumeURL = url
	u.Profile.ResumeOriginalName = originalName
	u.Profile.ResumeText = text
	f.byID[id] = u
	return nil
}

func (f *fakeRepo) SetPhoto(_ context.Context, id uuid.UUID, url string) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Profile.ProfilePhotoURL = url
	f.byID[id] = u
	return nil
}

func (f *fakeRepo) SetJobAlerts(_ context.Context, id uuid.UUID, enabled bool) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Profile.JobAlerts = enabled
	f.byID[id] = u
	return nil
}

func (f *fakeRepo) SaveJob(_ context.Context, userID, jobID uuid.UUID) error {
	if f.saved[userID] == nil {
		f.saved[userID] = map[uuid.UUID]bool{}
	}
	f.saved[userID][jobID] = true
	return nil
}

func (f *fakeRepo) UnsaveJob(_ context.Context, userID, jobID uuid.UUID) error {
	delete(f.saved[userID], jobID)
	return nil
}

func (f *fakeRepo) IsJobSaved(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	return f.saved[userID][jobID], nil
}

func (f *fakeRepo) SavedJobs(_ context.Context, userID uuid.UUID) ([]SavedJob, error) {
	var res []SavedJob
	for id := range f.saved[userID] {
		res = append(res, SavedJob{ID: id})
	}
	return res, nil
}

func (f *fakeRepo) List(_ context.Context, limit, offset int) ([]User, error) { return nil, nil }
func (f *fakeRepo) Count(_ context.Context) (int, error)                      { return len(f.byID), nil }
func (f *fakeRepo) CountByRole(_ context.Context, role Role) (int, error)     { return 0, nil }

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.IsBlocked = blocked
	f.byID[id] = u
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Generate(_ context.Context, u User) (string, error) {
	return "token-" + u.ID.String(), nil
}

func validInput() RegisterInput {
	return RegisterInput{
		FullName:    "Jane Doe",
		Email:       "Jane@Example.com",
		PhoneNumber: "+79991234567",
		Password:    "secret123",
		Role:        RoleCandidate,
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email, "email must be lowercased")
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTokens{})

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"empty name", func(in *RegisterInput) { in.FullName = "  " }},
		{"empty email", func(in *RegisterInput) { in.Email = "" }},
		{"empty password", func(in *RegisterInput) { in.Password = "" }},
		{"unknown role", func(in *RegisterInput) { in.Role = "superuser" }},
		{"phone too short", func(in *RegisterInput) { in.PhoneNumber = "+123" }},
		{"phone with letters", func(in *RegisterInput) { in.PhoneNumber = "+7999abc4567" }},
		{"phone leading zero", func(in *RegisterInput) { in.PhoneNumber = "+09991234567" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			var ve ErrValidation
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTokens{})

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "JANE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, "token-"+u.ID.String(), res.Token)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeTokens{})
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlocked(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	require.NoError(t, repo.SetBlocked(context.Background(), u.ID, true))

	_, err = svc.Login(context.Background(), "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestUpdateProfileDedupesSkills(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), u.ID, ProfileUpdate{
		Bio:    "Go engineer",
		Skills: []string{"Go", " go ", "SQL", "", "sql"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Go engineer", updated.Profile.Bio)
	assert.Equal(t, []string{"Go", "SQL"}, updated.Profile.Skills)
}

func TestUpdateProfileRejectsBadPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), u.ID, ProfileUpdate{PhoneNumber: "12"})
	var ve ErrValidation
	assert.ErrorAs(t, err, &ve)
}

func TestToggleSaveJob(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	jobID := uuid.New()

	saved, err := svc.ToggleSaveJob(context.Background(), u.ID, jobID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSaveJob(context.Background(), u.ID, jobID)
	require.NoError(t, err)
	assert.False(t, saved)

	jobs, err := svc.SavedJobs(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestToggleJobAlerts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	enabled, err := svc.ToggleJobAlerts(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = svc.ToggleJobAlerts(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSaveResumeRequiresURL(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTokens{})
	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	var ve ErrValidation
	assert.ErrorAs(t, svc.SaveResume(context.Background(), u.ID, " ", "cv.pdf", ""), &ve)
	require.NoError(t, svc.SaveResume(context.Background(), u.ID, "/uploads/cv.pdf", "cv.pdf", "golang sql"))
	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/cv.pdf", stored.Profile.ResumeURL)
	assert.Equal(t, "cv.pdf", stored.Profile.ResumeOriginalName)
}
