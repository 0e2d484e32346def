package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talosync/jobportal/api/http/presenter"
	"github.com/talosync/jobportal/pkg/admin"
	"github.com/talosync/jobportal/pkg/company"
	"github.com/talosync/jobportal/pkg/job"
	"github.com/talosync/jobportal/pkg/user"
)

type AdminHandler struct {
	useCase admin.UseCase
}

func NewAdminHandler(useCase admin.UseCase) *AdminHandler {
	return &AdminHandler{useCase: useCase}
}

// Stats возвращает сводные счётчики платформы.
// @Summary Статистика платформы
// @Tags    Администрирование
// @Produce json
// @Security BearerAuth
// @Success 200 {object} admin.Stats
// @Router  /admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.useCase.Stats(c.Context())
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to load stats")
	}
	return presenter.JSON(c, http.StatusOK, st)
}

// ListUsers возвращает постраничный список пользователей.
// @Summary Пользователи
// @Tags    Администрирование
// @Produce json
// @Param   page query int false "page number"
// @Param   limit query int false "page size"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := parsePageLimit(c, 10)
	users, pg, err := h.useCase.ListUsers(c.Context(), page, limit)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list users")
	}
	if users == nil {
		users = []user.User{}
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"users":      users,
		"pagination": pg,
	})
}

// DeleteUser удаляет пользователя. Администратора удалить нельзя.
// @Summary Удалить пользователя
// @Tags    Администрирование
// @Produce json
// @Param   id path string true "ID пользователя (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid user id")
	}
	if err := h.useCase.DeleteUser(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return presenter.Error(c, http.StatusNotFound, user.ErrNotFound.Error())
		case errors.Is(err, user.ErrAdminProtected):
			return presenter.Error(c, http.StatusForbidden, user.ErrAdminProtected.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to delete user")
		}
	}
	return presenter.Message(c, http.StatusOK, "User deleted successfully")
}

// ToggleBlock блокирует или разблокирует пользователя.
// @Summary Блокировка пользователя
// @Tags    Администрирование
// @Produce json
// @Param   id path string true "ID пользователя (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /admin/users/{id}/block [patch]
func (h *AdminHandler) ToggleBlock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid user id")
	}
	blocked, err := h.useCase.ToggleBlock(c.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, user.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to toggle block")
	}
	msg := "User unblocked successfully"
	if blocked {
		msg = "User blocked successfully"
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"message": msg, "isBlocked": blocked})
}

// ListJobs возвращает все вакансии платформы.
// @Summary Вакансии платформы
// @Tags    Администрирование
// @Produce json
// @Param   limit query int false "page size"
// @Param   offset query int false "offset"
// @Security BearerAuth
// @Success 200 {array} job.Listing
// @Router  /admin/jobs [get]
func (h *AdminHandler) ListJobs(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.useCase.ListJobs(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list jobs")
	}
	if items == nil {
		items = []job.Listing{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// DeleteJob удаляет любую вакансию вместе с откликами.
// @Summary Удалить вакансию
// @Tags    Администрирование
// @Produce json
// @Param   id path string true "ID вакансии (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /admin/jobs/{id} [delete]
func (h *AdminHandler) DeleteJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid job id")
	}
	if err := h.useCase.DeleteJob(c.Context(), id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, job.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete job")
	}
	return presenter.Message(c, http.StatusOK, "Job deleted successfully")
}

// ListCompanies возвращает все компании платформы.
// @Summary Компании платформы
// @Tags    Администрирование
// @Produce json
// @Param   limit query int false "page size"
// @Param   offset query int false "offset"
// @Security BearerAuth
// @Success 200 {array} company.Company
// @Router  /admin/companies [get]
func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.useCase.ListCompanies(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list companies")
	}
	if items == nil {
		items = []company.Company{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// DeleteCompany удаляет компанию, её вакансии и их отклики.
// @Summary Удалить компанию
// @Tags    Администрирование
// @Produce json
// @Param   id path string true "ID компании (UUID)"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /admin/companies/{id} [delete]
func (h *AdminHandler) DeleteCompany(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid company id")
	}
	if err := h.useCase.DeleteCompany(c.Context(), id); err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, company.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to delete company")
	}
	return presenter.Message(c, http.StatusOK, "Company deleted successfully")
}
