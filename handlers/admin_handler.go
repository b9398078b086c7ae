package handlers

import (
	"fmt"
	"time"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	dashboard *services.DashboardService
	reports   *services.ReportService
	indexer   *services.ReferenceIndexer
	accounts  *services.AccountService
}

func NewAdminHandler(dashboard *services.DashboardService, reports *services.ReportService, indexer *services.ReferenceIndexer, accounts *services.AccountService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, reports: reports, indexer: indexer, accounts: accounts}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// BookingsReport exports bookings starting between ?startDate and ?endDate
// (YYYY-MM-DD, default the last 30 days) as an xlsx workbook.
func (h *AdminHandler) BookingsReport(c *fiber.Ctx) error {
	startDate, err := time.Parse("2006-01-02", c.Query("startDate", time.Now().AddDate(0, 0, -30).Format("2006-01-02")))
	if err != nil {
		return respondError(c, apperrors.Validation("Invalid startDate format. Use YYYY-MM-DD."))
	}
	endDate, err := time.Parse("2006-01-02", c.Query("endDate", time.Now().Format("2006-01-02")))
	if err != nil {
		return respondError(c, apperrors.Validation("Invalid endDate format. Use YYYY-MM-DD."))
	}
	endOfDay := endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	data, err := h.reports.BookingsReport(c.UserContext(), startDate, endOfDay)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", services.ReportFileName(startDate, endDate)))
	return c.Send(data)
}

func (h *AdminHandler) Reindex(c *fiber.Ctx) error {
	report, err := h.indexer.Rebuild(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.accounts.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.accounts.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User and their reviews deleted successfully"})
}
