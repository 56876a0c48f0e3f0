package handlers

import (
	"time"

	"artfolio/internal/usecases"
	"artfolio/pkg/constants"
	apperrors "artfolio/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CleanupHandler struct {
	cleanupUC usecases.CleanupService
	minAge    time.Duration
	log       *zap.Logger
}

func NewCleanupHandler(cleanupUC usecases.CleanupService, minAge time.Duration, log *zap.Logger) *CleanupHandler {
	return &CleanupHandler{cleanupUC: cleanupUC, minAge: minAge, log: log}
}

// SweepOrphans
//
// @Summary      Sweep orphaned images
// @Description  Manual trigger for the orphan sweeper. Deletes stored images no portfolio or work references and older than min_age.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        min_age  query     string  false  "Minimum object age, e.g. 24h"
// @Success      200      {object}  map[string]interface{}
// @Failure      502      {object}  dto.ErrorResponse
// @Router       /admin/cleanup [post]
func (h *CleanupHandler) SweepOrphans(c *fiber.Ctx) error {
	minAge := h.minAge
	if raw := c.Query("min_age"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return apperrors.HandleError(c, h.log, apperrors.ErrValidation(map[string]string{"min_age": "Must be a duration such as 24h"}))
		}
		minAge = d
	}
	removed, err := h.cleanupUC.SweepOrphans(c.UserContext(), minAge)
	if err != nil {
		return apperrors.HandleError(c, h.log, apperrors.ErrStorage(err))
	}
	return c.JSON(fiber.Map{"status": constants.StatusOK, "removed": removed})
}
