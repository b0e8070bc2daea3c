package flash_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"study/internal/flash"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	store := flash.New(flash.NewSessionStore(nil, false))

	app := fiber.New()
	app.Post("/done", func(c *fiber.Ctx) error {
		if err := store.Put(c, "/page", "Saved."); err != nil {
			return err
		}
		return c.Redirect("/page")
	})
	app.Get("/page", func(c *fiber.Ctx) error {
		message, err := store.Pop(c, "/page")
		if err != nil {
			return err
		}
		return c.SendString("message=" + message)
	})
	app.Get("/other", func(c *fiber.Ctx) error {
		message, err := store.Pop(c, "/other")
		if err != nil {
			return err
		}
		return c.SendString("message=" + message)
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == flash.SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", flash.SessionCookie)
	return nil
}

func get(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestFlashIsShownOnce(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/done", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	// A different page does not consume it.
	assert.Equal(t, "message=", get(t, app, "/other", cookie))
	assert.Equal(t, "message=Saved.", get(t, app, "/page", cookie))
	assert.Equal(t, "message=", get(t, app, "/page", cookie))
}

func TestFlashWithoutSession(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "message=", string(body))
}
