package utils

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"courier-booking/constants"
	"courier-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ShipmentCodePrefix starts every human readable shipment id
const ShipmentCodePrefix = "SH"

const shipmentCodeLength = 10

var codePattern = regexp.MustCompile(`^SH[0-9A-Z]{10}$`)

// redacted keys are blanked out of logged JSON bodies
var redactedKeys = map[string]bool{
	"password":         true,
	"confirm_password": true,
	"token":            true,
}

// GenerateShipmentCode returns SH followed by ten upper-case characters drawn from a random uuid
func GenerateShipmentCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ShipmentCodePrefix + strings.ToUpper(raw[:shipmentCodeLength])
}

// IsShipmentCode reports whether s has the shape of a shipment id
func IsShipmentCode(s string) bool {
	return codePattern.MatchString(s)
}

// sanitizeRequestBody sanitizes request body for file uploads, secrets and large content
func sanitizeRequestBody(c *fiber.Ctx) string {
	contentType := c.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		formData := make(map[string]interface{})

		if form, err := c.MultipartForm(); err == nil {
			for key, values := range form.Value {
				if len(values) > 0 {
					formData[key] = values[0]
				}
			}

			// Add file field information without content
			for key, files := range form.File {
				fileInfo := make([]map[string]interface{}, len(files))
				for i, file := range files {
					fileInfo[i] = map[string]interface{}{
						"filename": file.Filename,
						"size":     file.Size,
						"content":  "[FILE_CONTENT_REMOVED]",
					}
				}
				formData[key] = fileInfo
			}
		}

		if jsonBytes, err := json.Marshal(formData); err == nil {
			return string(jsonBytes)
		}
		return "[MULTIPART_FORM_DATA]"
	}

	body := string(c.Body())
	if len(body) > 1000 && (strings.Contains(body, "data:image/") ||
		strings.Contains(body, "base64") ||
		isLikelyBase64(body)) {
		return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	}

	return redactSecrets(body)
}

// redactSecrets masks credential fields of a JSON body at any depth
func redactSecrets(body string) string {
	var payload interface{}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return body
	}
	if !redact(payload) {
		return body
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "[REDACTED_BODY]"
	}
	return string(out)
}

func redact(v interface{}) bool {
	changed := false
	switch node := v.(type) {
	case map[string]interface{}:
		for key, child := range node {
			if redactedKeys[strings.ToLower(key)] {
				node[key] = "[REDACTED]"
				changed = true
				continue
			}
			if redact(child) {
				changed = true
			}
		}
	case []interface{}:
		for _, child := range node {
			if redact(child) {
				changed = true
			}
		}
	}
	return changed
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}

// sanitizeResponseBody keeps binary payloads (pdf, images) out of the log table
func sanitizeResponseBody(c *fiber.Ctx) string {
	contentType := string(c.Response().Header.ContentType())
	if contentType != "" && !strings.Contains(contentType, "json") && !strings.HasPrefix(contentType, "text/") {
		return "[BINARY_RESPONSE:" + contentType + "]"
	}
	return redactSecrets(string(append([]byte(nil), c.Response().Body()...)))
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for logging.
// The response must already be written when this is called.
func CreateSanitizedLogEntry(c *fiber.Ctx, elapsed time.Duration) types.LogEntry {
	userUUID, _ := c.Locals(constants.LocalsUserUUID).(string)

	return types.LogEntry{
		Method:       string([]byte(c.Method())),
		URL:          string([]byte(c.OriginalURL())),
		UserUUID:     userUUID,
		RequestBody:  sanitizeRequestBody(c),
		ResponseBody: sanitizeResponseBody(c),
		StatusCode:   c.Response().StatusCode(),
		Duration:     elapsed,
		CreatedAt:    time.Now(),
	}
}
