package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(template.ParseFS(templateFS, "templates/invoice.html"))

type Invoice struct {
	InvoiceNumber   string
	IssuedOn        string
	CustomerName    string
	CustomerEmail   string
	CarMake         string
	CarModel        string
	CarYear         int
	StartDate       string
	EndDate         string
	DurationDays    int
	DailyRate       float64
	TotalAmount     float64
	PickupLocation  string
	DropoffLocation string
	Status          models.BookingStatus
	PaymentStatus   models.PaymentStatus
}

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

type InvoiceService struct {
	store         database.Store
	render        PDFRenderer
	cloudinaryURL string
}

func NewInvoiceService(store database.Store, render PDFRenderer, cloudinaryURL string) *InvoiceService {
	if render == nil {
		render = GeneratePDFFromHTML
	}
	return &InvoiceService{store: store, render: render, cloudinaryURL: cloudinaryURL}
}

func (s *InvoiceService) Build(ctx context.Context, booking *models.Booking) (*Invoice, error) {
	car, err := s.store.FindCarByID(ctx, booking.CarID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load car", err)
	}
	user, err := s.store.FindUserByID(ctx, booking.UserID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to load user", err)
	}

	withDerived(booking)
	inv := &Invoice{
		InvoiceNumber:   booking.InvoiceNumber,
		IssuedOn:        booking.CreatedAt.Format("January 2, 2006"),
		StartDate:       booking.StartDate.Format("2006-01-02"),
		EndDate:         booking.EndDate.Format("2006-01-02"),
		DurationDays:    booking.DurationDays,
		DailyRate:       booking.DailyRate,
		TotalAmount:     booking.TotalAmount,
		PickupLocation:  booking.PickupLocation,
		DropoffLocation: booking.DropoffLocation,
		Status:          booking.Status,
		PaymentStatus:   booking.PaymentStatus,
	}
	if car != nil {
		inv.CarMake, inv.CarModel, inv.CarYear = car.Make, car.Model, car.Year
	}
	if user != nil {
		inv.CustomerName, inv.CustomerEmail = user.FullName, user.Email
	}
	return inv, nil
}

func RenderInvoiceHTML(inv *Invoice) (string, error) {
	var rendered bytes.Buffer
	if err := invoiceTemplate.Execute(&rendered, inv); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// PDF renders the booking's invoice. When Cloudinary is configured the PDF
// is also uploaded in the background.
func (s *InvoiceService) PDF(ctx context.Context, booking *models.Booking) ([]byte, error) {
	inv, err := s.Build(ctx, booking)
	if err != nil {
		return nil, err
	}
	htmlData, err := RenderInvoiceHTML(inv)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to render invoice", err)
	}
	pdfBytes, err := s.render(ctx, htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate invoice PDF for %s: %v", booking.InvoiceNumber, err)
		return nil, apperrors.Unexpected("Failed to generate invoice PDF", err)
	}

	if s.cloudinaryURL != "" {
		go func(number string, data []byte) {
			url, err := uploadInvoice(s.cloudinaryURL, data, number)
			if err != nil {
				log.Printf("🔥 Failed to upload invoice %s to Cloudinary: %v", number, err)
				return
			}
			log.Printf("✅ Uploaded invoice %s: %s", number, url)
		}(booking.InvoiceNumber, pdfBytes)
	}
	return pdfBytes, nil
}

func GeneratePDFFromHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadInvoice(cloudinaryURL string, fileBytes []byte, invoiceNumber string) (string, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("invoices/%s", invoiceNumber),
		Folder:       "supercar_rentals_invoices",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
