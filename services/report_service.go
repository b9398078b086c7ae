package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var bookingReportHeaders = []string{
	"Invoice", "Customer", "Email", "Car", "Start", "End", "Days",
	"Daily Rate", "Total", "Status", "Payment", "Pickup", "Drop-off",
}

type ReportService struct {
	store database.Store
}

func NewReportService(store database.Store) *ReportService {
	return &ReportService{store: store}
}

// BookingsWorkbook exports bookings whose start date falls within [from, to].
// Zero times leave that side unbounded.
func (s *ReportService) BookingsWorkbook(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	filter := database.BookingFilter{}
	if !from.IsZero() {
		filter.StartsFrom = &from
	}
	if !to.IsZero() {
		filter.StartsTo = &to
	}
	bookings, err := s.store.ListBookings(ctx, filter)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load bookings", err)
	}

	users := map[uuid.UUID]*models.User{}
	cars := map[uuid.UUID]*models.Car{}
	for _, b := range bookings {
		if _, ok := users[b.UserID]; !ok {
			if users[b.UserID], err = s.store.FindUserByID(ctx, b.UserID); err != nil {
				return nil, apperrors.Unexpected("Failed to load user", err)
			}
		}
		if _, ok := cars[b.CarID]; !ok {
			if cars[b.CarID], err = s.store.FindCarByID(ctx, b.CarID); err != nil {
				return nil, apperrors.Unexpected("Failed to load car", err)
			}
		}
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating style: %w", err)
	}
	for i, h := range bookingReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(bookingsSheet, cell, h)
		f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	var total float64
	for i := range bookings {
		b := withDerived(&bookings[i])
		row := i + 2

		customer, email := "", ""
		if u := users[b.UserID]; u != nil {
			customer, email = u.FullName, u.Email
		}
		carName := b.CarID.String()
		if c := cars[b.CarID]; c != nil {
			carName = fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
		}

		values := []any{
			b.InvoiceNumber, customer, email, carName,
			b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"), b.DurationDays,
			b.DailyRate, b.TotalAmount, string(b.Status), string(b.PaymentStatus),
			b.PickupLocation, b.DropoffLocation,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", row, err)
		}
		if b.PaymentStatus == models.PaymentPaid {
			total += b.TotalAmount
		}
	}

	summaryRow := len(bookings) + 3
	labelCell, _ := excelize.CoordinatesToCellName(8, summaryRow)
	valueCell, _ := excelize.CoordinatesToCellName(9, summaryRow)
	f.SetCellValue(bookingsSheet, labelCell, "Paid revenue")
	f.SetCellValue(bookingsSheet, valueCell, total)

	f.SetColWidth(bookingsSheet, "A", "A", 16)
	f.SetColWidth(bookingsSheet, "B", "D", 25)
	f.SetColWidth(bookingsSheet, "E", "K", 12)
	f.SetColWidth(bookingsSheet, "L", "M", 25)

	return f, nil
}

// BookingsReport renders the workbook to xlsx bytes.
func (s *ReportService) BookingsReport(ctx context.Context, from, to time.Time) ([]byte, error) {
	f, err := s.BookingsWorkbook(ctx, from, to)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperrors.Unexpected("Failed to write report", err)
	}
	return buf.Bytes(), nil
}

func ReportFileName(from, to time.Time) string {
	if from.IsZero() && to.IsZero() {
		return "bookings_all.xlsx"
	}
	return fmt.Sprintf("bookings_%s_to_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
}
