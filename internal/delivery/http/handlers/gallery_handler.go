package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/url"

	"artfolio/internal/usecases"
	apperrors "artfolio/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

//go:embed views/*.html
var viewFiles embed.FS

var views = template.Must(template.New("views").Funcs(template.FuncMap{
	"pathEscape": url.PathEscape,
}).ParseFS(viewFiles, "views/*.html"))

// GalleryHandler serves the public, read-only side of the site as JSON and
// as server-rendered pages.
type GalleryHandler struct {
	gallery *usecases.GalleryService
	log     *zap.Logger
}

func NewGalleryHandler(gallery *usecases.GalleryService, log *zap.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, log: log}
}

// ListPortfolios
//
// @Summary      Portfolio covers
// @Tags         Gallery
// @Produce      json
// @Success      200  {array}   dto.PortfolioCover
// @Router       /portfolios [get]
func (h *GalleryHandler) ListPortfolios(c *fiber.Ctx) error {
	covers, err := h.gallery.Covers(c.UserContext())
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(covers)
}

// GetPortfolio
//
// @Summary      Portfolio detail
// @Description  The portfolio and its works, each with fields in declared parameter order
// @Tags         Gallery
// @Produce      json
// @Param        id   path      string  true  "Portfolio ID"
// @Success      200  {object}  dto.PortfolioDetail
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /portfolios/{id} [get]
func (h *GalleryHandler) GetPortfolio(c *fiber.Ctx) error {
	detail, err := h.gallery.Detail(c.UserContext(), param(c, "id"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(detail)
}

// GetWork
//
// @Summary      Work detail
// @Tags         Gallery
// @Produce      json
// @Param        id      path      string  true  "Portfolio ID"
// @Param        workId  path      string  true  "Work ID"
// @Success      200     {object}  dto.WorkCard
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /portfolios/{id}/works/{workId} [get]
func (h *GalleryHandler) GetWork(c *fiber.Ctx) error {
	card, err := h.gallery.Inspect(c.UserContext(), param(c, "id"), param(c, "workId"))
	if err != nil {
		return apperrors.HandleError(c, h.log, err)
	}
	return c.JSON(card)
}

func (h *GalleryHandler) HomePage(c *fiber.Ctx) error {
	covers, err := h.gallery.Covers(c.UserContext())
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, "home", fiber.Map{
		"Title":  "Portfolio",
		"Covers": covers,
	})
}

func (h *GalleryHandler) PortfolioPage(c *fiber.Ctx) error {
	detail, err := h.gallery.Detail(c.UserContext(), param(c, "id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, "portfolio", fiber.Map{
		"Title":  detail.Portfolio.Title,
		"Detail": detail,
	})
}

// WorkPage shows one work at full size under a magnifying lens.
func (h *GalleryHandler) WorkPage(c *fiber.Ctx) error {
	pid := param(c, "id")
	card, err := h.gallery.Inspect(c.UserContext(), pid, param(c, "workId"))
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, "work", fiber.Map{
		"Title":       card.Title,
		"PortfolioID": pid,
		"Work":        card,
	})
}

// Placeholder renders a static "coming soon" page.
func (h *GalleryHandler) Placeholder(title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.render(c, fiber.StatusOK, "placeholder", fiber.Map{"Title": title})
	}
}

func (h *GalleryHandler) renderError(c *fiber.Ctx, err error) error {
	var ae *apperrors.AppError
	if errors.As(err, &ae) && ae.Code == apperrors.CodeNotFound {
		return h.render(c, fiber.StatusNotFound, "notfound", fiber.Map{
			"Title":   "Not found",
			"Message": ae.Message,
		})
	}
	return apperrors.HandleError(c, h.log, err)
}

func (h *GalleryHandler) render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("render page", zap.String("template", name), zap.Error(err))
		return apperrors.HandleError(c, h.log, apperrors.ErrInternal(err))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
