package constants

// fiber Locals keys
const (
	LocalsClaims   = "user"
	LocalsUserUUID = "user_uuid"
)

// AccessCookie carries the bearer token for browser clients that cannot set headers
const AccessCookie = "access"

// Pagination defaults for listing endpoints
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// QR code upload limits
const (
	QRCodeFormField = "qr_code"
	QRCodeMaxBytes  = 5 * 1024 * 1024
)

var QRCodeMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}
