package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/talosync/jobportal/api/http/presenter"
	"github.com/talosync/jobportal/pkg/company"
)

type CompanyHandler struct {
	useCase company.UseCase
	baseDir string
}

func NewCompanyHandler(useCase company.UseCase, uploadDir string) *CompanyHandler {
	return &CompanyHandler{useCase: useCase, baseDir: uploadDir}
}

type companyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
}

// Create регистрирует компанию работодателя.
// @Summary Создать компанию
// @Tags    Компании
// @Accept  json
// @Produce json
// @Param   input body companyRequest true "company payload"
// @Security BearerAuth
// @Success 201 {object} company.Company
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	var req companyRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	created, err := h.useCase.Create(c.Context(), company.Company{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		OwnerID:     uid,
	})
	if err != nil {
		var ve company.ErrValidation
		switch {
		case errors.As(err, &ve):
			return presenter.Error(c, http.StatusBadRequest, ve.Error())
		case errors.Is(err, company.ErrAlreadyRegistered):
			return presenter.Error(c, http.StatusConflict, company.ErrAlreadyRegistered.Error())
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to create company")
		}
	}
	return presenter.JSON(c, http.StatusCreated, created)
}

// GetMine возвращает компанию текущего работодателя. Если компания ещё
// не создана, отдаёт 200 с company=null, а не 404.
// @Summary Моя компания
// @Tags    Компании
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]company.Company
// @Router  /companies/me [get]
func (h *CompanyHandler) GetMine(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	comp, err := h.useCase.GetMine(c.Context(), uid)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return presenter.JSON(c, http.StatusOK, fiber.Map{"company": nil})
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load company")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"company": comp})
}

// Update частично обновляет компанию текущего работодателя. Логотип
// передаётся отдельным multipart-полем и сохраняется в uploads.
// @Summary Обновить компанию
// @Tags    Компании
// @Accept  json
// @Produce json
// @Param   input body companyRequest true "company fields"
// @Security BearerAuth
// @Success 200 {object} company.Company
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /companies [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	uid, ok := currentUserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	patch := company.Patch{}
	if fh, err := c.FormFile("logo"); err == nil && fh != nil {
		path, _, err := saveUpload(fh, h.baseDir, ".jpg", ".jpeg", ".png", ".webp", ".svg")
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
		patch.LogoURL = "/" + path
		patch.Name = c.FormValue("name")
		patch.Description = c.FormValue("description")
		patch.Website = c.FormValue("website")
		patch.Location = c.FormValue("location")
	} else {
		var req companyRequest
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid payload")
		}
		patch.Name = req.Name
		patch.Description = req.Description
		patch.Website = req.Website
		patch.Location = req.Location
	}
	comp, err := h.useCase.UpdateMine(c.Context(), uid, patch)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, company.ErrNotFound.Error())
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to update company")
	}
	return presenter.JSON(c, http.StatusOK, comp)
}
