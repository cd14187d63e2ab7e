package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"courier-booking/events"
	shipmentModel "courier-booking/models/shipment"
	"courier-booking/models/user"
	"courier-booking/repository"
	authService "courier-booking/services/auth"
	"courier-booking/services/invoice"
	"courier-booking/services/tracking"
	"courier-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapParams = authService.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type recorder struct {
	mu            sync.Mutex
	events        []events.ShipmentEvent
	notifications []events.Notification
}

func (r *recorder) PublishShipmentEvent(ctx context.Context, e events.ShipmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Notify(ctx context.Context, n events.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recorder) Close() error { return nil }

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t     *testing.T
	app   *fiber.App
	store *repository.MemoryStore
	rec   *recorder
}

func newHarness(t *testing.T) *harness {
	store := repository.NewMemoryStore()
	rec := &recorder{}
	hasher := authService.NewPasswordHasher(cheapParams)

	app := fiber.New()
	SetupRoutes(app, Dependencies{
		Users:     store.Users(),
		Shipments: store.Shipments(),
		QRCodes:   store.QRCodes(),
		Hasher:    hasher,
		Tokens:    authService.NewTokenIssuer("test-secret", time.Hour),
		Publisher: rec,
		Notifier:  rec,
		UploadDir: t.TempDir(),
	})

	// admins are provisioned out of band
	hash, err := hasher.Hash("admin-password")
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), &user.User{
		Uuid:         "admin-uuid",
		Email:        "ops@swiftcourier.in",
		IsAdmin:      true,
		PasswordHash: hash,
	}))

	return &harness{t: t, app: app, store: store, rec: rec}
}

func (h *harness) do(method, path, token string, body interface{}) (int, envelope) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	if len(raw) > 0 {
		require.NoError(h.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (h *harness) login(email, password string) string {
	h.t.Helper()
	status, env := h.do("POST", "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(h.t, fiber.StatusOK, status, env.Message)
	require.NotEmpty(h.t, env.Token)
	return env.Token
}

func (h *harness) signup(email string) string {
	h.t.Helper()
	status, env := h.do("POST", "/api/auth/signup", "", fiber.Map{
		"email": email, "password": "long-enough", "first_name": "Asha",
	})
	require.Equal(h.t, fiber.StatusCreated, status, env.Message)
	return env.Token
}

func bookingBody() fiber.Map {
	return fiber.Map{
		"sender":       fiber.Map{"name": "Asha Rao", "street": "1 MG Road", "city": "Pune", "state": "Maharashtra", "pincode": "411001", "country": "India", "phone": "9800000001"},
		"receiver":     fiber.Map{"name": "Ravi Kumar", "street": "9 Park St", "city": "Kolkata", "state": "West Bengal", "pincode": "700016", "country": "India", "phone": "9800000002"},
		"package":      fiber.Map{"weight": 0.6, "width": 10, "height": 5, "length": 20},
		"pickup_date":  time.Now().Format("2006-01-02"),
		"service_type": "Standard",
	}
}

func (h *harness) book(token string) shipmentModel.Shipment {
	h.t.Helper()
	status, env := h.do("POST", "/api/shipments", token, bookingBody())
	require.Equal(h.t, fiber.StatusCreated, status, env.Message)
	var s shipmentModel.Shipment
	require.NoError(h.t, json.Unmarshal(env.Data, &s))
	return s
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)
	token := h.signup("asha@example.com")

	status, env := h.do("POST", "/api/auth/signup", "", fiber.Map{"email": "ASHA@example.com", "password": "long-enough"})
	assert.Equal(t, fiber.StatusConflict, status, env.Message)

	status, _ = h.do("POST", "/api/auth/signup", "", fiber.Map{"email": "bad", "password": "long-enough"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do("POST", "/api/auth/login", "", fiber.Map{"email": "asha@example.com", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = h.do("POST", "/api/auth/login", "", fiber.Map{"email": "nobody@example.com", "password": "whatever"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = h.do("GET", "/api/auth/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "asha@example.com", profile["email"])
	assert.Equal(t, "Asha", profile["first_name"])

	status, _ = h.do("GET", "/api/auth/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = h.do("GET", "/api/auth/profile", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = h.do("POST", "/api/auth/logout", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestBookingPricesAndRecordsHistory(t *testing.T) {
	h := newHarness(t)
	token := h.signup("asha@example.com")

	s := h.book(token)
	assert.Regexp(t, `^SH[0-9A-Z]{10}$`, s.Code)
	assert.Equal(t, shipmentModel.StageBooked, s.Stage)
	assert.True(t, decimal.RequireFromString("110").Equal(s.NetPrice), s.NetPrice.String())
	assert.True(t, decimal.RequireFromString("19.80").Equal(s.TaxAmount), s.TaxAmount.String())
	assert.True(t, decimal.RequireFromString("129.80").Equal(s.Total), s.Total.String())

	require.Len(t, h.rec.events, 1)
	assert.Equal(t, events.TypeShipmentBooked, h.rec.events[0].Type)
	require.Len(t, h.rec.notifications, 1)
	assert.Equal(t, "asha@example.com", h.rec.notifications[0].Recipient)

	status, env := h.do("GET", "/api/shipments", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []shipmentModel.Shipment
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, s.Code, list[0].Code)

	status, env = h.do("GET", "/api/shipments/"+s.Code+"/tracking", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var steps []tracking.Step
	require.NoError(t, json.Unmarshal(env.Data, &steps))
	require.Len(t, steps, 1)
	assert.Equal(t, shipmentModel.StageBooked, steps[0].Stage)
	assert.Equal(t, tracking.StepCurrent, steps[0].Status)
	assert.Equal(t, "Pune", steps[0].Location)
	assert.Equal(t, "Shipment booked", steps[0].Activity)
}

func TestBookingValidation(t *testing.T) {
	h := newHarness(t)
	token := h.signup("asha@example.com")

	body := bookingBody()
	body["package"] = fiber.Map{"weight": 0}
	status, env := h.do("POST", "/api/shipments", token, body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "package.weight must be greater than 0", env.Message)

	body = bookingBody()
	body["pickup_date"] = time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	status, _ = h.do("POST", "/api/shipments", token, body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do("POST", "/api/shipments", "", bookingBody())
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Empty(t, h.rec.events)
}

func TestShipmentVisibility(t *testing.T) {
	h := newHarness(t)
	owner := h.signup("asha@example.com")
	stranger := h.signup("ravi@example.com")
	s := h.book(owner)

	status, _ := h.do("GET", "/api/shipments/"+s.Code, stranger, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = h.do("GET", "/api/shipments/SH0000000000", owner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	admin := h.login("ops@swiftcourier.in", "admin-password")
	status, env := h.do("GET", "/api/shipments/"+s.Code, admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var got shipmentModel.Shipment
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, s.Code, got.Code)
}

func TestAdminStatusUpdates(t *testing.T) {
	h := newHarness(t)
	customer := h.signup("asha@example.com")
	s := h.book(customer)
	path := "/api/admin/shipments/" + s.Code + "/status"

	status, _ := h.do("PUT", path, customer, fiber.Map{"status": "In Transit"})
	assert.Equal(t, fiber.StatusForbidden, status)

	admin := h.login("ops@swiftcourier.in", "admin-password")

	status, env := h.do("PUT", path, admin, fiber.Map{"status": "Lost"})
	assert.Equal(t, fiber.StatusBadRequest, status, env.Message)

	status, _ = h.do("PUT", "/api/admin/shipments/SH0000000000/status", admin, fiber.Map{"status": "In Transit"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = h.do("PUT", path, admin, fiber.Map{"status": "In Transit"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var updated shipmentModel.Shipment
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, shipmentModel.StageInTransit, updated.Stage)
	assert.Equal(t, "admin-uuid", updated.UpdatedBy)

	status, env = h.do("PUT", path, admin, fiber.Map{"status": "Booked"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, env.Message, "In Transit -> Booked")

	status, _ = h.do("PUT", path, admin, fiber.Map{"status": "Delivered", "location": "Kolkata GPO", "activity": "Handed to receiver"})
	require.Equal(t, fiber.StatusOK, status)

	require.Len(t, h.rec.events, 3)
	last := h.rec.events[2]
	assert.Equal(t, events.TypeShipmentStatusChanged, last.Type)
	assert.Equal(t, shipmentModel.StageInTransit, last.PreviousStage)
	assert.Equal(t, shipmentModel.StageDelivered, last.Stage)
	assert.Equal(t, "Kolkata GPO", last.Location)

	require.Len(t, h.rec.notifications, 2)
	assert.Equal(t, "delivered", h.rec.notifications[1].Kind)
	assert.Equal(t, "asha@example.com", h.rec.notifications[1].Recipient)

	// the rejected transition left no event behind
	stored, err := h.store.Shipments().FindByCode(context.Background(), s.Code)
	require.NoError(t, err)
	history, err := h.store.Shipments().Events(context.Background(), stored.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "Shipment in transit", history[1].Activity)
	assert.Equal(t, "Pune Hub", history[1].Location)

	status, env = h.do("GET", "/api/shipments/"+s.Code+"/invoice", customer, nil)
	require.Equal(t, fiber.StatusOK, status)
	var inv invoice.Invoice
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	assert.Equal(t, invoice.PaymentPaid, inv.PaymentStatus)
	assert.True(t, inv.GrandTotal.Equal(s.Total))
}

func TestAdminListing(t *testing.T) {
	h := newHarness(t)
	customer := h.signup("asha@example.com")
	for i := 0; i < 3; i++ {
		h.book(customer)
	}
	admin := h.login("ops@swiftcourier.in", "admin-password")

	status, env := h.do("GET", "/api/admin/shipments?page=1&limit=2&status=all", admin, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var page types.ShipmentPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Shipments, 2)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)

	status, env = h.do("GET", "/api/admin/shipments?status=Delivered", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Shipments)
	assert.NotNil(t, page.Shipments)

	status, _ = h.do("GET", "/api/admin/shipments?start_date=2026-13-40", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do("GET", "/api/admin/shipments", customer, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestInvoicePDF(t *testing.T) {
	h := newHarness(t)
	token := h.signup("asha@example.com")
	s := h.book(token)

	req := httptest.NewRequest("GET", "/api/shipments/"+s.Code+"/invoice.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice-"+s.Code+".pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func TestPaymentQRCode(t *testing.T) {
	h := newHarness(t)
	customer := h.signup("asha@example.com")
	admin := h.login("ops@swiftcourier.in", "admin-password")

	status, _ := h.do("GET", "/api/admin/qr_code", customer, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	upload := func(content []byte, token string) int {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		part, err := w.CreateFormFile("qr_code", "qr.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest("POST", "/api/admin/qr_code", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusForbidden, upload(pngBytes, customer))
	assert.Equal(t, fiber.StatusBadRequest, upload([]byte("just some text, not an image"), admin))
	assert.Equal(t, fiber.StatusCreated, upload(pngBytes, admin))

	req := httptest.NewRequest("GET", "/api/admin/qr_code", nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, raw)
}
