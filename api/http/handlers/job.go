package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talosync/jobportal/api/http/presenter"
	"github.com/talosync/jobportal/pkg/job"
)

type JobHandler struct {
	useCase job.UseCase
}

func NewJobHandler(useCase job.UseCase) *JobHandler {
	return &JobHandler{useCase: useCase}
}

type jobRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Salary          float64  `json:"salary"`
	ExperienceLevel string   `json:"experienceLevel"`
	Location        string   `json:"location"`
	JobType         string   `json:"jobType"`
	Position        int      `json:"position"`
}

// Create публикует вакансию.
// @Summary Создать вакансию
// @Tags    Вакансии
// @Accept  json
// @Produce json
// @Param   input body jobRequest true "job payload"
// @Security BearerAuth
// @Success 201 {object} job.Job
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	created, err := h.useCase.Create(c.Context(), job.Job{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Salary:          req.Salary,
		ExperienceLevel: req.ExperienceLevel,
		Location:        req.Location,
		JobType:         req.JobType,
		Position:        req.Position,
		CreatedBy:       uid,
	})
	if err != nil {
		var ve job.ErrValidation
		switch {
		case errors.As(err, &ve):
			return presenter.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, job.ErrNoCompany):
			return presenter.Error(c, http.StatusForbidden, job.ErrNoCompany.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to create job")
		}
	}
	return presenter.JSON(c, http.StatusCreated, created)
}

// List возвращает открытый каталог вакансий.
// @Summary Список вакансий
// @Tags    Вакансии
// @Produce json
// @Param   limit query int false "page size"
// @Param   offset query int false "offset"
// @Success 200 {array} job.Listing
// @Router  /jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.useCase.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list jobs")
	}
	if items == nil {
		items = []job.Listing{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Get возвращает вакансию по идентификатору.
// @Summary Вакансия
// @Tags    Вакансии
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Success 200 {object} job.Listing
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/{id} [get]
func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	listing, err := h.useCase.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, job.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load job")
	}
	return presenter.JSON(c, http.StatusOK, listing)
}

// EmployerJobs возвращает вакансии текущего работодателя.
// @Summary Мои вакансии
// @Tags    Вакансии
// @Produce json
// @Security BearerAuth
// @Success 200 {array} job.Listing
// @Router  /jobs/employer [get]
func (h *JobHandler) EmployerJobs(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	items, err := h.useCase.ListByEmployer(c.Context(), uid)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list jobs")
	}
	if items == nil {
		items = []job.Listing{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

type jobPatchRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Requirements    []string `json:"requirements"`
	Salary          *float64 `json:"salary"`
	ExperienceLevel *string  `json:"experienceLevel"`
	Location        *string  `json:"location"`
	JobType         *string  `json:"jobType"`
	Position        *int     `json:"position"`
	IsOpen          *bool    `json:"isOpen"`
}

// Update частично обновляет вакансию владельца. Повторное открытие
// закрытой вакансии выполняется через поле isOpen.
// @Summary Обновить вакансию
// @Tags    Вакансии
// @Accept  json
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Param   input body jobPatchRequest true "job fields"
// @Security BearerAuth
// @Success 200 {object} job.Job
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/{id} [put]
func (h *JobHandler) Update(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	var req jobPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	updated, err := h.useCase.Update(c.Context(), uid, id, job.Patch{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Salary:          req.Salary,
		ExperienceLevel: req.ExperienceLevel,
		Location:        req.Location,
		JobType:         req.JobType,
		Position:        req.Position,
		IsOpen:          req.IsOpen,
	})
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, job.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to update job")
	}
	return presenter.JSON(c, http.StatusOK, updated)
}

// Delete удаляет вакансию владельца вместе с откликами.
// @Summary Удалить вакансию
// @Tags    Вакансии
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/{id} [delete]
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	if err := h.useCase.Delete(c.Context(), uid, id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, job.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete job")
	}
	return presenter.Message(c, http.StatusOK, "Job deleted successfully")
}

// Analytics возвращает счётчики откликов по статусам.
// @Summary Аналитика вакансии
// @Tags    Вакансии
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Security BearerAuth
// @Success 200 {array} job.StatusCount
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /jobs/{id}/analytics [get]
func (h *JobHandler) Analytics(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	counts, err := h.useCase.Analytics(c.Context(), uid, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, job.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load analytics")
	}
	if counts == nil {
		counts = []job.StatusCount{}
	}
	return presenter.JSON(c, http.StatusOK, counts)
}
