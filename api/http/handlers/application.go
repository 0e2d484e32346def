package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talosync/jobportal/api/http/presenter"
	"github.com/talosync/jobportal/pkg/application"
)

type ApplicationHandler struct {
	useCase application.UseCase
}

func NewApplicationHandler(useCase application.UseCase) *ApplicationHandler {
	return &ApplicationHandler{useCase: useCase}
}

// Apply подаёт отклик кандидата на вакансию.
// @Summary Откликнуться на вакансию
// @Tags    Отклики
// @Produce json
// @Param   jobId path string true "ID вакансии (UUID)"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /applications/{jobId} [post]
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	a, err := h.useCase.Apply(c.Context(), jobID, uid)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrJobNotFound):
			return presenter.Error(c, http.StatusNotFound, application.ErrJobNotFound.Error())
		case errors.Is(err, application.ErrJobClosed):
			return presenter.Error(c, http.StatusConflict, application.ErrJobClosed.Error())
		case errors.Is(err, application.ErrAlreadyApplied):
			return presenter.Error(c, http.StatusConflict, application.ErrAlreadyApplied.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to apply")
		}
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"message":     "Application submitted successfully",
		"application": a,
	})
}

// ListMine возвращает отклики текущего кандидата.
// @Summary Мои отклики
// @Tags    Отклики
// @Produce json
// @Security BearerAuth
// @Success 200 {array} application.CandidateItem
// @Router  /applications/my [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	items, err := h.useCase.ListMine(c.Context(), uid)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list applications")
	}
	if items == nil {
		items = []application.CandidateItem{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Withdraw отзывает отклик кандидата.
// @Summary Отозвать отклик
// @Tags    Отклики
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{id} [delete]
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	if err := h.useCase.Withdraw(c.Context(), id, uid); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, application.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to withdraw application")
	}
	return presenter.Message(c, http.StatusOK, "Application withdrawn successfully")
}

// ListForJob возвращает постраничный список откликов на вакансию
// работодателя.
// @Summary Отклики на вакансию
// @Tags    Отклики
// @Produce json
// @Param   jobId path string true "ID вакансии (UUID)"
// @Param   page query int false "page number"
// @Param   limit query int false "page size"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /applications/job/{jobId} [get]
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	page, limit := parsePageLimit(c, 10)
	items, pg, err := h.useCase.ListForJob(c.Context(), jobID, uid, page, limit)
	if err != nil {
		if errors.Is(err, application.ErrNotJobOwner) {
			return presenter.Error(c, http.StatusForbidden, application.ErrNotJobOwner.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to list applications")
	}
	if items == nil {
		items = []application.EmployerItem{}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"applications": items,
		"pagination":   pg,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus переводит отклик в терминальный статус. Код ответа
// зависит от причины отказа: неизвестный статус даёт 400, повторное
// решение 409, чужая вакансия 403, отсутствующий отклик 404.
// @Summary Решение по отклику
// @Tags    Отклики
// @Accept  json
// @Produce json
// @Param   id path string true "ID отклика (UUID)"
// @Param   input body statusRequest true "accepted or rejected"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	a, err := h.useCase.UpdateStatus(c.Context(), id, uid, application.Status(req.Status))
	if err != nil {
		var decided *application.AlreadyDecidedError
		switch {
		case errors.Is(err, application.ErrInvalidStatus):
			return presenter.Error(c, http.StatusBadRequest, "invalid status value, must be accepted or rejected")
		case errors.As(err, &decided):
			return presenter.Error(c, http.StatusConflict, decided.Error())
		case errors.Is(err, application.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, application.ErrNotFound.Error())
		case errors.Is(err, application.ErrNotJobOwner):
			return presenter.Error(c, http.StatusForbidden, application.ErrNotJobOwner.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to update status")
		}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"message":     "Application status updated",
		"application": a,
	})
}

// DownloadResume перенаправляет работодателя на файл резюме кандидата.
// @Summary Резюме кандидата
// @Tags    Отклики
// @Produce json
// @Param   applicationId path string true "ID отклика (UUID)"
// @Security BearerAuth
// @Success 302 {string} string "redirect"
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /applications/{applicationId}/resume [get]
func (h *ApplicationHandler) DownloadResume(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid application id")
	}
	url, err := h.useCase.ResumeRef(c.Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, application.ErrNotFound.Error())
		case errors.Is(err, application.ErrNotJobOwner):
			return presenter.Error(c, http.StatusForbidden, application.ErrNotJobOwner.Error())
		case errors.Is(err, application.ErrResumeMissing):
			return presenter.Error(c, http.StatusNotFound, application.ErrResumeMissing.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to load resume")
		}
	}
	return c.Redirect(url, http.StatusFound)
}
