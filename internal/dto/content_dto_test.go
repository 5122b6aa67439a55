package dto_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Debug(string, string, map[string]interface{}) {}
func (quietLogger) Info(string, string, map[string]interface{})  {}
func (quietLogger) Warn(string, string, map[string]interface{})  {}
func (quietLogger) Error(string, string, map[string]interface{}) {}
func (quietLogger) Sync() error                                  { return nil }

func newDocumentApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.NewErrorHandler(quietLogger{})})
	app.Post("/documents", func(ctx *fiber.Ctx) error {
		var req dto.CreateDocumentRequest
		if err := dto.ParseAndValidate(ctx, &req); err != nil {
			return err
		}
		return ctx.SendStatus(fiber.StatusCreated)
	})
	return app
}

func postDocument(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/documents", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestCreateDocumentRequiresAtLeastOneLink(t *testing.T) {
	app := newDocumentApp()

	status, body := postDocument(t, app, `{"title":"Giáo trình A1","links":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "links must be at least 1", payload["message"])

	status, _ = postDocument(t, app, `{"title":"Giáo trình A1"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateDocumentRejectsMalformedLink(t *testing.T) {
	app := newDocumentApp()

	status, _ := postDocument(t, app, `{"title":"Giáo trình A1","links":[{"url":"not a url"}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateDocumentAcceptsSingleLink(t *testing.T) {
	app := newDocumentApp()

	status, _ := postDocument(t, app, `{"title":"Giáo trình A1","links":[{"url":"https://example.com/a1.pdf","description":"Bản PDF"}]}`)
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestUpdateDocumentRequiresAtLeastOneLink(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.NewErrorHandler(quietLogger{})})
	app.Put("/documents", func(ctx *fiber.Ctx) error {
		var req dto.UpdateDocumentRequest
		if err := dto.ParseAndValidate(ctx, &req); err != nil {
			return err
		}
		return ctx.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodPut, "/documents", strings.NewReader(`{"title":"Giáo trình A1","links":[]}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
