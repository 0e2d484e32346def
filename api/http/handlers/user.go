package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talosync/jobportal/api/http/presenter"
	"github.com/talosync/jobportal/pkg/resume"
	"github.com/talosync/jobportal/pkg/user"
)

type UserHandler struct {
	useCase user.UseCase
	baseDir string
}

func NewUserHandler(useCase user.UseCase, uploadDir string) *UserHandler {
	return &UserHandler{useCase: useCase, baseDir: uploadDir}
}

type registerRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// Register регистрирует нового пользователя.
// @Summary Регистрация
// @Tags    Пользователи
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /users/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	u, err := h.useCase.Register(c.Context(), user.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        user.Role(req.Role),
	})
	if err != nil {
		var ve user.ErrValidation
		switch {
		case errors.As(err, &ve):
			return presenter.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, user.ErrEmailTaken):
			return presenter.Error(c, http.StatusConflict, user.ErrEmailTaken.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"message": "Account created successfully",
		"user":    u,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login выполняет вход и выдаёт JWT.
// @Summary Вход
// @Tags    Пользователи
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /users/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}
	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return presenter.Error(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, user.ErrBlocked):
			return presenter.Error(c, http.StatusForbidden, user.ErrBlocked.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to login")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

type profileRequest struct {
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Bio         string   `json:"bio"`
	Skills      []string `json:"skills"`
}

// UpdateProfile обновляет поля профиля текущего пользователя.
// @Summary Обновить профиль
// @Tags    Пользователи
// @Accept  json
// @Produce json
// @Param   input body profileRequest true "profile fields"
// @Security BearerAuth
// @Success 200 {object} user.User
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	u, err := h.useCase.UpdateProfile(c.Context(), uid, user.ProfileUpdate{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
		Skills:      req.Skills,
	})
	if err != nil {
		var ve user.ErrValidation
		switch {
		case errors.As(err, &ve):
			return presenter.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, user.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, user.ErrNotFound.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to update profile")
		}
	}
	return presenter.JSON(c, http.StatusOK, u)
}

// UploadResume принимает PDF/DOCX, сохраняет файл и извлекает текст
// для поиска по навыкам.
// @Summary Загрузить резюме
// @Tags    Пользователи
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Файл резюме (PDF/DOCX)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/profile/resume [post]
func (h *UserHandler) UploadResume(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "no file uploaded")
	}
	path, data, err := saveUpload(fh, h.baseDir, ".pdf", ".docx")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	// Текст извлекается по возможности; нечитаемый файл профиль не ломает.
	text, err := resume.ExtractText(fh.Filename, data)
	if err != nil {
		text = ""
	}
	if err := h.useCase.SaveResume(c.Context(), uid, "/"+path, fh.Filename, text); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save resume")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message":  "Resume uploaded successfully",
		"resume":   "/" + path,
		"filename": fh.Filename,
	})
}

// UploadPhoto сохраняет фотографию профиля.
// @Summary Загрузить фото профиля
// @Tags    Пользователи
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Изображение (jpg/png/webp)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/profile/photo [post]
func (h *UserHandler) UploadPhoto(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "no photo uploaded")
	}
	path, _, err := saveUpload(fh, h.baseDir, ".jpg", ".jpeg", ".png", ".webp")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if err := h.useCase.SavePhoto(c.Context(), uid, "/"+path); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to save photo")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message":      "Profile photo updated successfully",
		"profilePhoto": "/" + path,
	})
}

// ToggleSaveJob добавляет вакансию в избранное или убирает её.
// @Summary Сохранить/убрать вакансию
// @Tags    Пользователи
// @Produce json
// @Param   jobId path string true "ID вакансии (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/save-job/{jobId} [post]
func (h *UserHandler) ToggleSaveJob(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	saved, err := h.useCase.ToggleSaveJob(c.Context(), uid, jobID)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to update saved jobs")
	}
	msg := "Job removed from saved jobs"
	if saved {
		msg = "Job saved successfully"
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": msg, "saved": saved})
}

// SavedJobs возвращает избранные вакансии кандидата.
// @Summary Избранные вакансии
// @Tags    Пользователи
// @Produce json
// @Security BearerAuth
// @Success 200 {array} user.SavedJob
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/saved-jobs [get]
func (h *UserHandler) SavedJobs(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	jobs, err := h.useCase.SavedJobs(c.Context(), uid)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list saved jobs")
	}
	if jobs == nil {
		jobs = []user.SavedJob{}
	}
	return presenter.JSON(c, http.StatusOK, jobs)
}

// ToggleJobAlerts переключает подписку на письма о новых вакансиях.
// @Summary Переключить уведомления о вакансиях
// @Tags    Пользователи
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /users/toggle-alerts [post]
func (h *UserHandler) ToggleJobAlerts(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	enabled, err := h.useCase.ToggleJobAlerts(c.Context(), uid)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to toggle job alerts")
	}
	msg := "Job alerts disabled"
	if enabled {
		msg = "Job alerts enabled"
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": msg, "jobAlerts": enabled})
}
