package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/supercar_rentals/database"
	"github.com/anjiri1684/supercar_rentals/events"
	"github.com/anjiri1684/supercar_rentals/handlers"
	"github.com/anjiri1684/supercar_rentals/middleware"
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/notifications"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	app      *fiber.App
	store    *database.MemoryStore
	bookings *services.BookingService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, Options{JWTSecret: testSecret})
}

func newTestServerWith(t *testing.T, opts Options) *testServer {
	t.Helper()
	store := database.NewMemoryStore()
	ratings := services.NewRatingAggregator(store)
	comments := services.NewCommentService(store, ratings, events.Nop{})
	accounts := services.NewAccountService(store, comments).WithHashCost(4)
	bookings := services.NewBookingService(store, events.Nop{})
	indexer := services.NewReferenceIndexer(store)
	invoices := services.NewInvoiceService(store, func(ctx context.Context, html string) ([]byte, error) {
		return []byte("%PDF-1.4 test"), nil
	}, "")
	var mailer *notifications.BrevoService

	app := NewApp(Handlers{
		Auth:     handlers.NewAuthHandler(accounts, mailer, testSecret),
		Cars:     handlers.NewCarHandler(services.NewCarService(store), services.NewCurrencyConverter("")),
		Bookings: handlers.NewBookingHandler(bookings, invoices),
		Comments: handlers.NewCommentHandler(comments),
		Admin:    handlers.NewAdminHandler(services.NewDashboardService(store), services.NewReportService(store), indexer, accounts),
		Uploads:  handlers.NewUploadHandler(""),
	}, opts)

	return &testServer{app: app, store: store, bookings: bookings}
}

func (s *testServer) user(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	u := &models.User{ID: uuid.New(), FullName: "Driver " + email, Email: email, Role: role, IsActive: true}
	require.NoError(t, s.store.CreateUser(context.Background(), u))
	token, err := middleware.IssueToken(testSecret, u)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) car(t *testing.T) *models.Car {
	t.Helper()
	c := &models.Car{ID: uuid.New(), Make: "Lamborghini", Model: "Huracan EVO", Year: 2022, Available: true, Pricing: models.CarPricing{Daily: 1200}}
	require.NoError(t, s.store.CreateCar(context.Background(), c))
	return c
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &m), string(body))
	return m.Message
}

func bookingBody(carID uuid.UUID, start, end string) fiber.Map {
	return fiber.Map{
		"carId":           carID.String(),
		"startDate":       start,
		"endDate":         end,
		"pickupLocation":  "Westlands",
		"dropoffLocation": "JKIA",
		"totalAmount":     6000,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestUnknownRouteUsesErrorHandler(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cannot GET /api/v1/nowhere", message(t, body))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", "", bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing or malformed JWT", message(t, body))

	status, _ = s.do(t, http.MethodGet, "/api/v1/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Public car listing stays open.
	status, _ = s.do(t, http.MethodGet, "/api/v1/cars", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestBookingConflictOnBoundaryDay(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)
	_, adminToken := s.user(t, "admin@example.com", models.RoleAdmin)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var first models.Booking
	require.NoError(t, json.Unmarshal(body, &first))
	assert.Equal(t, 4, first.DurationDays)
	assert.Equal(t, 1500.0, first.DailyRate)
	assert.Regexp(t, `^INV-\d{4}-00001$`, first.InvoiceNumber)

	// A PENDING booking does not hold the car.
	status, body = s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-14", "2024-06-16"))
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodPatch, "/api/v1/bookings/"+first.ID.String()+"/status", adminToken, fiber.Map{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-14", "2024-06-16"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Car is already booked for the selected dates", message(t, body))

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-15", "2024-06-16"))
	assert.Equal(t, http.StatusCreated, status, string(body))
}

func TestBookingValidation(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)

	status, _ := s.do(t, http.MethodPost, "/api/v1/bookings", token, fiber.Map{"carId": car.ID.String()})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "10/06/2024", "2024-06-14"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, message(t, body), "invalid date")

	status, _ = s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(uuid.New(), "2024-06-10", "2024-06-14"))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBookingOwnership(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	owner, ownerToken := s.user(t, "amina@example.com", models.RoleCustomer)
	_, otherToken := s.user(t, "brian@example.com", models.RoleCustomer)
	_, adminToken := s.user(t, "admin@example.com", models.RoleAdmin)

	req := bookingBody(car.ID, "2024-06-10", "2024-06-14")
	req["userId"] = owner.ID.String()
	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", otherToken, req)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You can only book for yourself", message(t, body))

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings", adminToken, req)
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))
	assert.Equal(t, owner.ID, booking.UserID)

	path := "/api/v1/bookings/" + booking.ID.String()
	status, _ = s.do(t, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/api/v1/bookings", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.do(t, http.MethodGet, "/api/v1/bookings", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)
	_, adminToken := s.user(t, "admin@example.com", models.RoleAdmin)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))
	base := "/api/v1/bookings/" + booking.ID.String()

	status, _ = s.do(t, http.MethodPatch, base+"/status", token, fiber.Map{"status": "COMPLETED"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPatch, base+"/status", adminToken, fiber.Map{"status": "COMPLETED", "paymentStatus": "PAID"})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.do(t, http.MethodPost, base+"/cancel", token, fiber.Map{"cancellationReason": "changed plans"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, message(t, body))

	got, err := s.bookings.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)
}

func TestCancelReleasesCar(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &booking))
	assert.Equal(t, models.BookingCancelled, booking.Status)
	assert.Nil(t, booking.CancellationReason)

	stored, err := s.store.FindCarByID(context.Background(), car.ID)
	require.NoError(t, err)
	assert.True(t, stored.Available)
}

func TestCancelRecordsReason(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))

	status, body = s.do(t, http.MethodPost, "/api/v1/bookings/"+booking.ID.String()+"/cancel", token, fiber.Map{"cancellationReason": "changed plans"})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"cancellationReason":"changed plans"`)

	got, err := s.bookings.Get(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "changed plans", *got.CancellationReason)
}

func TestDuplicateReviewRejected(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)
	_, otherToken := s.user(t, "brian@example.com", models.RoleCustomer)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))

	review := fiber.Map{"bookingId": booking.ID.String(), "rating": 5, "content": "Unreal acceleration"}

	status, _ = s.do(t, http.MethodPost, "/api/v1/comments", otherToken, review)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPost, "/api/v1/comments", token, review)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = s.do(t, http.MethodPost, "/api/v1/comments", token, review)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You have already reviewed this booking", message(t, body))

	status, _ = s.do(t, http.MethodPost, "/api/v1/comments", token, fiber.Map{"bookingId": booking.ID.String(), "rating": 6, "content": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestModerationUpdatesCarRating(t *testing.T) {
	s := newTestServer(t)
	car := s.car(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)
	_, adminToken := s.user(t, "admin@example.com", models.RoleAdmin)

	status, body := s.do(t, http.MethodPost, "/api/v1/bookings", token, bookingBody(car.ID, "2024-06-10", "2024-06-14"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var booking models.Booking
	require.NoError(t, json.Unmarshal(body, &booking))

	status, body = s.do(t, http.MethodPost, "/api/v1/comments", token, fiber.Map{"bookingId": booking.ID.String(), "rating": 4, "content": "Loud and fast"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var comment models.Comment
	require.NoError(t, json.Unmarshal(body, &comment))

	status, body = s.do(t, http.MethodGet, "/api/v1/comments/car/"+car.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	moderate := "/api/v1/comments/" + comment.ID.String() + "/moderate"
	status, _ = s.do(t, http.MethodPatch, moderate, token, fiber.Map{"status": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.do(t, http.MethodPatch, moderate, adminToken, fiber.Map{"status": "APPROVED", "adminResponse": "Thanks!"})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.do(t, http.MethodGet, "/api/v1/cars/"+car.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status)
	var got models.Car
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 1, got.TotalReviews)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"fullName": "Amina Odhiambo",
		"email":    "amina@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.NotContains(t, string(body), "password")

	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"fullName": "Amina Again",
		"email":    "amina@example.com",
		"password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": "amina@example.com", "password": "wrong"})
	assert.NotEqual(t, http.StatusOK, status)

	status, body = s.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"email": "amina@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, status, string(body))
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.Token)

	status, body = s.do(t, http.MethodGet, "/api/v1/profile", login.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "amina@example.com")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)
	_, adminToken := s.user(t, "admin@example.com", models.RoleAdmin)

	status, body := s.do(t, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden: Admin access required", message(t, body))

	status, body = s.do(t, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"totalUsers":2`)

	status, _ = s.do(t, http.MethodPost, "/api/v1/cars", token, fiber.Map{"make": "Bugatti"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRateLimitsAreSeparatePerGroup(t *testing.T) {
	s := newTestServerWith(t, Options{JWTSecret: testSecret, RateLimit: 2})
	_, token := s.user(t, "amina@example.com", models.RoleCustomer)

	login := fiber.Map{"email": "amina@example.com", "password": "wrong"}
	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", login)
		assert.NotEqual(t, http.StatusTooManyRequests, status)
	}
	status, body := s.do(t, http.MethodPost, "/api/v1/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests, please try again later", message(t, body))

	// Review submission keeps its own budget.
	status, _ = s.do(t, http.MethodPost, "/api/v1/comments", token, fiber.Map{"bookingId": uuid.NewString(), "rating": 5, "content": "Great"})
	assert.Equal(t, http.StatusNotFound, status)
}
