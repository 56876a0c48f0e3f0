package handlers

import (
	"context"
	"mime/multipart"

	"artfolio/internal/domain/dto"
	"artfolio/internal/forms"
	"artfolio/internal/infrastructure/processor"
	"artfolio/internal/usecases"
	"artfolio/pkg/constants"
	apperrors "artfolio/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler exposes the dashboard over HTTP. Every form goes through the
// same dialog the dashboard uses so validation is identical.
type AdminHandler struct {
	dashboard   *usecases.Dashboard
	maxFileSize int64
	log         *zap.Logger
}

func NewAdminHandler(dashboard *usecases.Dashboard, maxFileSize int64, log *zap.Logger) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, maxFileSize: maxFileSize, log: log}
}

// ListPortfolios
//
// @Summary      List portfolios
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PortfolioListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /admin/portfolios [get]
func (h *AdminHandler) ListPortfolios(c *fiber.Ctx) error {
	if c.QueryBool("reload") {
		if err := h.dashboard.Load(c.UserContext()); err != nil {
			return apperrors.HandleError(c, h.log, err)
		}
	}
	list, err := h.dashboard.Portfolios(c.UserContext())
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(dto.PortfolioListResponse{Portfolios: list, Count: len(list)})
}

// CreatePortfolio
//
// @Summary      Create portfolio
// @Description  Creates a portfolio from a title, a cover image and up to ten parameter names. "title" is always the first parameter.
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title       formData  string  true   "Portfolio title, at least 3 characters"
// @Param        parameters  formData  []string false "Parameter names" collectionFormat(multi)
// @Param        cover       formData  file    true   "Cover image"
// @Success      201         {object}  dto.Portfolio
// @Failure      409         {object}  dto.ErrorResponse
// @Failure      422         {object}  dto.ErrorResponse
// @Router       /admin/portfolios [post]
func (h *AdminHandler) CreatePortfolio(c *fiber.Ctx) error {
	dialog := forms.NewPortfolioDialog()
	dialog.Open()
	dialog.SetTitle(c.FormValue(forms.TitleField))

	if form, err := c.MultipartForm(); err == nil {
		for _, name := range form.Value["parameters"] {
			if err := dialog.AddParameter(); err != nil {
				return apperrors.HandleError(c, h.log, apperrors.ErrValidation(map[string]string{
					"parameters": "At most 10 parameters are allowed",
				}))
			}
			_ = dialog.SetParameter(len(dialog.Parameters())-1, name)
		}
	}

	if fh, err := c.FormFile(forms.CoverField); err == nil {
		data, err := h.readFile(fh)
		if err != nil {
			return apperrors.HandleError(c, h.log, apperrors.ErrInvalidImage(err))
		}
		dialog.SetCover(fh.Filename, data)
	}

	created, err := h.dashboard.CreatePortfolio(c.UserContext(), dialog)
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// DeletePortfolio
//
// @Summary      Delete portfolio
// @Description  Deletes every work, its images, the cover and the portfolio. Image failures are reported as warnings.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Portfolio ID"
// @Success      200  {object}  dto.DeletePortfolioResponse
// @Failure      207  {object}  dto.ErrorResponse "Some works could not be deleted, portfolio kept"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/portfolios/{id} [delete]
func (h *AdminHandler) DeletePortfolio(c *fiber.Ctx) error {
	report, err := h.dashboard.DeletePortfolio(c.UserContext(), param(c, "id"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(dto.DeletePortfolioResponse{
		Status:   constants.StatusDeleted,
		ID:       report.PortfolioID,
		Warnings: report.Warnings,
	})
}

// ListWorks
//
// @Summary      List works of a portfolio
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Portfolio ID"
// @Success      200  {object}  dto.WorkListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/portfolios/{id}/works [get]
func (h *AdminHandler) ListWorks(c *fiber.Ctx) error {
	m, err := h.dashboard.Select(c.UserContext(), param(c, "id"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	if c.QueryBool("reload") {
		if err := m.LoadSchemaAndWorks(c.UserContext()); err != nil {
			return apperrors.HandleError(c, h.log, err)
		}
	}
	works := m.Works()
	return c.JSON(dto.WorkListResponse{
		PortfolioID: m.PortfolioID(),
		Parameters:  m.Parameters(),
		Works:       works,
		Count:       len(works),
	})
}

// CreateWork
//
// @Summary      Add work
// @Description  Adds a work. Send one form value per declared parameter plus the image file. The title is the work ID.
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Portfolio ID"
// @Param        title  formData  string  true  "Work title"
// @Param        image  formData  file    true  "Work image"
// @Success      201    {object}  dto.Work
// @Failure      409    {object}  dto.ErrorResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /admin/portfolios/{id}/works [post]
func (h *AdminHandler) CreateWork(c *fiber.Ctx) error {
	m, err := h.dashboard.Manager(c.UserContext(), param(c, "id"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	dialog, err := m.NewWorkDialog(c.UserContext())
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	dialog.OpenCreate()
	for _, p := range m.Parameters() {
		dialog.Set(p, c.FormValue(p))
	}
	if fh, err := c.FormFile(forms.ImageField); err == nil {
		data, err := h.readFile(fh)
		if err != nil {
			return apperrors.HandleError(c, h.log, apperrors.ErrInvalidImage(err))
		}
		dialog.SetImage(fh.Filename, data)
	}

	var added *dto.Work
	err = dialog.Submit(c.UserContext(), func(ctx context.Context, fields map[string]string, image *forms.Upload) error {
		w, err := m.AddWork(ctx, fields, image)
		added = w
		return err
	})
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

// UpdateWork
//
// @Summary      Edit work
// @Description  Updates declared fields of a work. Undeclared keys are ignored and the images never change.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string                  true  "Portfolio ID"
// @Param        workId  path      string                  true  "Work ID"
// @Param        body    body      dto.UpdateWorkRequest   true  "Fields to change"
// @Success      200     {object}  dto.Work
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /admin/portfolios/{id}/works/{workId} [put]
func (h *AdminHandler) UpdateWork(c *fiber.Ctx) error {
	var req dto.UpdateWorkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrValidation(map[string]string{"body": "Malformed request body"}))
	}
	workID := param(c, "workId")

	m, err := h.dashboard.Manager(c.UserContext(), param(c, "id"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	current, ok := findWork(m.Works(), workID)
	if !ok {
		return apperrors.HandleError(c, h.log, apperrors.ErrNotFound("work "+workID, nil))
	}
	dialog, err := m.NewWorkDialog(c.UserContext())
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}

	dialog.OpenEdit(current.Fields)
	for name, value := range req.Fields {
		dialog.Set(name, value)
	}
	var edited *dto.Work
	err = dialog.Submit(c.UserContext(), func(ctx context.Context, fields map[string]string, _ *forms.Upload) error {
		w, err := m.EditWork(ctx, workID, fields)
		edited = w
		return err
	})
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(edited)
}

// DeleteWork
//
// @Summary      Delete work
// @Description  Deletes the work's image and thumbnail, then the work itself
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Portfolio ID"
// @Param        workId  path      string  true  "Work ID"
// @Success      200     {object}  dto.StatusResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      502     {object}  dto.ErrorResponse
// @Router       /admin/portfolios/{id}/works/{workId} [delete]
func (h *AdminHandler) DeleteWork(c *fiber.Ctx) error {
	m, err := h.dashboard.Manager(c.UserContext(), param(c, "id"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	if err := m.DeleteWork(c.UserContext(), param(c, "workId")); err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(dto.StatusResponse{Status: constants.StatusDeleted})
}

func (h *AdminHandler) readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return processor.ReadAll(f, h.maxFileSize)
}

func findWork(works []dto.Work, id string) (dto.Work, bool) {
	for _, w := range works {
		if w.ID == id {
			return w, true
		}
	}
	return dto.Work{}, false
}
