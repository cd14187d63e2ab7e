package courier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"courier-booking/constants"
	"courier-booking/models/asset"
	"courier-booking/models/shipment"
	"courier-booking/services/invoice"
	"courier-booking/services/tracking"
	"courier-booking/types"
	adminTypes "courier-booking/types/admin"
	authTypes "courier-booking/types/auth"
	shipmentTypes "courier-booking/types/shipment"
)

func (c *Client) Signup(ctx context.Context, req authTypes.SignupRequest) (authTypes.AuthPayload, error) {
	var payload authTypes.AuthPayload
	_, err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &payload)
	return payload, err
}

func (c *Client) Login(ctx context.Context, email, password string) (authTypes.AuthPayload, error) {
	var payload authTypes.AuthPayload
	_, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", authTypes.LoginRequest{Email: email, Password: password}, &payload)
	return payload, err
}

func (c *Client) Profile(ctx context.Context) (authTypes.SessionUser, error) {
	var u authTypes.SessionUser
	_, err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile", nil, &u)
	return u, err
}

// Logout clears the server cookie. A bodiless answer counts as success.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if errors.Is(err, ErrNoContent) {
		return nil
	}
	return err
}

// ListShipments returns the session owner's shipments, newest first
func (c *Client) ListShipments(ctx context.Context) ([]shipment.Shipment, error) {
	var list []shipment.Shipment
	_, err := c.doJSON(ctx, http.MethodGet, "/api/shipments", nil, &list)
	if errors.Is(err, ErrNoContent) {
		return []shipment.Shipment{}, nil
	}
	return list, err
}

func (c *Client) GetShipment(ctx context.Context, id string) (shipment.Shipment, error) {
	var s shipment.Shipment
	_, err := c.doJSON(ctx, http.MethodGet, "/api/shipments/"+url.PathEscape(id), nil, &s)
	return s, err
}

func (c *Client) CreateShipment(ctx context.Context, req shipmentTypes.CreateShipmentRequest) (shipment.Shipment, error) {
	var s shipment.Shipment
	_, err := c.doJSON(ctx, http.MethodPost, "/api/shipments", req, &s)
	return s, err
}

// Tracking returns the recorded history. An empty history is not an error.
func (c *Client) Tracking(ctx context.Context, id string) ([]tracking.Step, error) {
	var steps []tracking.Step
	_, err := c.doJSON(ctx, http.MethodGet, "/api/shipments/"+url.PathEscape(id)+"/tracking", nil, &steps)
	if errors.Is(err, ErrNoContent) {
		return nil, nil
	}
	return steps, err
}

func (c *Client) Invoice(ctx context.Context, id string) (invoice.Invoice, error) {
	var inv invoice.Invoice
	_, err := c.doJSON(ctx, http.MethodGet, "/api/shipments/"+url.PathEscape(id)+"/invoice", nil, &inv)
	return inv, err
}

func (c *Client) InvoicePDF(ctx context.Context, id string) ([]byte, error) {
	raw, _, err := c.doRaw(ctx, "/api/shipments/"+url.PathEscape(id)+"/invoice.pdf")
	return raw, err
}

func adminQueryValues(q adminTypes.ListShipmentsQuery) url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Q != "" {
		values.Set("q", q.Q)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.StartDate != "" {
		values.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		values.Set("end_date", q.EndDate)
	}
	return values
}

func (c *Client) AdminShipments(ctx context.Context, q adminTypes.ListShipmentsQuery) (types.ShipmentPage, error) {
	path := "/api/admin/shipments"
	if values := adminQueryValues(q); len(values) > 0 {
		path += "?" + values.Encode()
	}
	var page types.ShipmentPage
	_, err := c.doJSON(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

func (c *Client) UpdateStatus(ctx context.Context, id string, req adminTypes.UpdateStatusRequest) (shipment.Shipment, error) {
	var s shipment.Shipment
	_, err := c.doJSON(ctx, http.MethodPut, "/api/admin/shipments/"+url.PathEscape(id)+"/status", req, &s)
	return s, err
}

// UploadQRCode posts the image as the qr_code multipart field
func (c *Client) UploadQRCode(ctx context.Context, filename string, content io.Reader) (asset.PaymentQRCode, error) {
	var qr asset.PaymentQRCode

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(constants.QRCodeFormField, filename)
	if err != nil {
		return qr, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return qr, err
	}
	if err := writer.Close(); err != nil {
		return qr, err
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/admin/qr_code", &body, writer.FormDataContentType())
	if err != nil {
		return qr, err
	}
	_, err = c.send(httpReq, &qr)
	return qr, err
}

// ErrNoQRCode means no payment QR image has been uploaded yet
var ErrNoQRCode = errors.New("no payment qr code available")

// QRCode downloads the active payment QR image and its content type
func (c *Client) QRCode(ctx context.Context) ([]byte, string, error) {
	raw, contentType, err := c.doRaw(ctx, "/api/admin/qr_code")
	if err != nil {
		if IsStatus(err, http.StatusNotFound) || errors.Is(err, ErrNoContent) {
			return nil, "", ErrNoQRCode
		}
		return nil, "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", ErrNoQRCode
	}
	return raw, contentType, nil
}
