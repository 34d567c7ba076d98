package device

import (
	"encoding/json"
	"errors"
	"github.com/jypelle/tftbridge/apimodel"
	"github.com/jypelle/tftbridge/internal/srv/config"
	"github.com/jypelle/tftbridge/internal/srv/event"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestApi(t *testing.T, apiKey string) *Api {
	param, err := config.ParseParam(config.ParamDefaultFile)
	if err != nil {
		t.Fatal(err)
	}
	param.ApiParam.ApiKey = apiKey
	return NewApi(&config.ServerConfig{ConfigDir: t.TempDir(), ServerParam: param})
}

// serveEvents answers api events the way the server event loop does, until done is closed.
func serveEvents(api *Api, toggleErr error, done chan struct{}) (toggles *int) {
	toggles = new(int)
	go func() {
		for {
			select {
			case apiEvent := <-api.EventChannel():
				switch data := apiEvent.Data.(type) {
				case event.ApiEventStatusData:
					data.Status <- apimodel.Status{Version: "test", Icon: apimodel.IconStatus{Toggles: uint32(*toggles)}}
					apiEvent.Result <- nil
				case event.ApiEventScreenshotData:
					data.Image <- image.NewRGBA(image.Rect(0, 0, 4, 3))
					apiEvent.Result <- nil
				case event.ApiEventIconToggleData:
					if toggleErr == nil {
						*toggles++
					}
					apiEvent.Result <- toggleErr
				}
			case <-done:
				return
			}
		}
	}()
	return toggles
}

func TestApiIsAlive(t *testing.T) {
	api := newTestApi(t, "")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/is_alive", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var msg apimodel.ErrorMessage
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.StatusCode() != http.StatusOK || msg.Title() != "Ok" {
		t.Errorf("body = %+v", msg)
	}
}

func TestApiKey(t *testing.T) {
	api := newTestApi(t, "secret")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/is_alive", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("without key: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req := httptest.NewRequest("GET", "/api/is_alive", nil)
	req.Header.Set("x-api-key", "secret")
	rec = httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with key: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestApiStatusAndToggle(t *testing.T) {
	api := newTestApi(t, "")
	done := make(chan struct{})
	defer close(done)
	serveEvents(api, nil, done)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		api.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/icon/toggle", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("toggle: status = %d, want %d", rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: status = %d, want %d", rec.Code, http.StatusOK)
	}
	var status apimodel.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Version != "test" || status.Icon.Toggles != 2 {
		t.Errorf("status = %+v, want 2 toggles", status)
	}
}

func TestApiToggleRefused(t *testing.T) {
	api := newTestApi(t, "")
	done := make(chan struct{})
	defer close(done)
	serveEvents(api, errors.New("renderer stopped"), done)

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/icon/toggle", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	var msg apimodel.ErrorMessage
	json.NewDecoder(rec.Body).Decode(&msg)
	if msg.Title() != "renderer stopped" {
		t.Errorf("message = %q", msg.Title())
	}
}

func TestApiScreenshot(t *testing.T) {
	api := newTestApi(t, "")
	done := make(chan struct{})
	defer close(done)
	serveEvents(api, nil, done)

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/screenshot", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("screenshot bounds = %v", img.Bounds())
	}
}

func TestApiNotFound(t *testing.T) {
	api := newTestApi(t, "")

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/icon/toggle", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
