package announcement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/middleware"
)

func newTestApp(svc *Service) *fiber.App {
	h := NewAnnouncementHandler(svc)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/api/announcements", h.HandleListAnnouncements)
	app.Get("/api/announcements/:ref", h.HandleGetAnnouncement)
	app.Get("/api/announcements/:ref/preview", h.HandlePreview)
	return app
}

func TestAnnouncementHandler(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create("daily")
	require.NoError(t, err)
	_, err = svc.SetBody("daily", PlainBody("Good morning"))
	require.NoError(t, err)
	_, err = svc.Create("")
	require.NoError(t, err)
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/announcements", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Count         int `json:"count"`
		Announcements []struct {
			ID       string `json:"id"`
			Rendered string `json:"rendered"`
		} `json:"announcements"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Announcements, 2)
	assert.Equal(t, a.ID.String(), list.Announcements[0].ID)
	assert.Equal(t, "Good morning", list.Announcements[0].Rendered)
	assert.Equal(t, BodyNotSet, list.Announcements[1].Rendered)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/announcements/"+a.ID.String()+"/preview", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))
	assert.Equal(t, "Good morning", preview["text"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/announcements/daily", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/announcements/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
