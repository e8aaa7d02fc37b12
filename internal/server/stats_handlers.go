package server

import (
	"fmt"
	"time"

	"artfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// statsOwnerID parses the :id param and rejects requests for another
// user's archive statistics.
func (s *Server) statsOwnerID(c *fiber.Ctx) (uint, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return 0, errResponseWritten
	}
	if id != currentUserID(c) {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Archive statistics are private"))
		return 0, errResponseWritten
	}
	return id, nil
}

// GetWorkLocations handles GET /api/users/:id/works/locations,
// returning posts grouped by province then city.
func (s *Server) GetWorkLocations(c *fiber.Ctx) error {
	userID, err := s.statsOwnerID(c)
	if err != nil {
		return nil
	}

	provinces, err := s.statsService.Locations(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"provinces": provinces})
}

// GetStatsAnalysis handles GET /api/users/:id/stats/analysis
func (s *Server) GetStatsAnalysis(c *fiber.Ctx) error {
	userID, err := s.statsOwnerID(c)
	if err != nil {
		return nil
	}

	analysis, err := s.statsService.Analysis(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(analysis)
}

// ExportStats handles GET /api/users/:id/stats/export, streaming the
// archive statistics as an XLSX workbook.
func (s *Server) ExportStats(c *fiber.Ctx) error {
	userID, err := s.statsOwnerID(c)
	if err != nil {
		return nil
	}

	data, err := s.statsService.ExportXLSX(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	filename := fmt.Sprintf("artfolio-stats-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
