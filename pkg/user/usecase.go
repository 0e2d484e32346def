package user

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UseCase описывает самообслуживание учётной записи: регистрация, вход,
// профиль, резюме, избранные вакансии.
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (User, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdate) (User, error)
	SaveResume(ctx context.Context, id uuid.UUID, url, originalName, text string) error
	SavePhoto(ctx context.Context, id uuid.UUID, url string) error
	ToggleJobAlerts(ctx context.Context, id uuid.UUID) (bool, error)
	ToggleSaveJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	SavedJobs(ctx context.Context, userID uuid.UUID) ([]SavedJob, error)
}

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        Role
}

type ProfileUpdate struct {
	FullName    string
	PhoneNumber string
	Bio         string
	Skills      []string
}

type AuthResult struct {
	User  User
	Token string
}

// ErrValidation — простая ошибка валидации входных данных.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

var phoneRe = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

type service struct {
	repo   Repository
	tokens TokenGenerator
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, tokens TokenGenerator) UseCase {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if input.FullName == "" || input.Email == "" || input.PhoneNumber == "" || input.Password == "" {
		return User{}, ErrValidation("all required fields must be provided")
	}
	if !input.Role.Valid() {
		return User{}, ErrValidation("invalid role")
	}
	if !phoneRe.MatchString(input.PhoneNumber) {
		return User{}, ErrValidation("invalid phone number")
	}

	// If user exists, fail fast (unique index is the backstop)
	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(passwordHash),
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	// Заблокированный пользователь не получает новый токен.
	if u.IsBlocked {
		return AuthResult{}, ErrBlocked
	}
	token, err := s.tokens.Generate(ctx, u)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: token}, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdate) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if v := strings.TrimSpace(input.FullName); v != "" {
		u.FullName = v
	}
	if v := strings.TrimSpace(input.PhoneNumber); v != "" {
		if !phoneRe.MatchString(v) {
			return User{}, ErrValidation("invalid phone number")
		}
		u.PhoneNumber = v
	}
	if v := strings.TrimSpace(input.Bio); v != "" {
		u.Profile.Bio = v
	}
	if input.Skills != nil {
		var skills []string
		seen := map[string]struct{}{}
		for _, sk := range input.Skills {
			sk = strings.TrimSpace(sk)
			if sk == "" {
				continue
			}
			if _, ok := seen[strings.ToLower(sk)]; ok {
				continue
			}
			seen[strings.ToLower(sk)] = struct{}{}
			skills = append(skills, sk)
		}
		u.Profile.Skills = skills
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) SaveResume(ctx context.Context, id uuid.UUID, url, originalName, text string) error {
	if strings.TrimSpace(url) == "" {
		return ErrValidation("no file uploaded")
	}
	return s.repo.SetResume(ctx, id, url, originalName, text)
}

func (s *service) SavePhoto(ctx context.Context, id uuid.UUID, url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrValidation("no photo uploaded")
	}
	return s.repo.SetPhoto(ctx, id, url)
}

func (s *service) ToggleJobAlerts(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	enabled := !u.Profile.JobAlerts
	if err := s.repo.SetJobAlerts(ctx, id, enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// ToggleSaveJob добавляет вакансию в избранное или убирает её оттуда.
// Returns true when the job ended up saved.
func (s *service) ToggleSaveJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	saved, err := s.repo.IsJobSaved(ctx, userID, jobID)
	if err != nil {
		return false, err
	}
	if saved {
		if err := s.repo.UnsaveJob(ctx, userID, jobID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.repo.SaveJob(ctx, userID, jobID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) SavedJobs(ctx context.Context, userID uuid.UUID) ([]SavedJob, error) {
	return s.repo.SavedJobs(ctx, userID)
}
