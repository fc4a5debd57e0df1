package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/partylab/guessroom/game/controller"
	"github.com/partylab/guessroom/game/rules"
	"github.com/partylab/guessroom/game/session"
	"github.com/partylab/guessroom/transport/websocket"
)

func newTestServer(t *testing.T) (*Server, *controller.Controller) {
	t.Helper()
	hub := websocket.NewHub()
	reg := session.NewRegistry()
	ctrl := controller.New(reg, rules.Default(), hub)
	hub.SetController(ctrl)
	return NewServer(ctrl, hub, "http://localhost:8080"), ctrl
}

func doGET(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGET(t, srv, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected health body: %+v", body)
	}
}

func TestListSessionsEndpoint(t *testing.T) {
	srv, ctrl := newTestServer(t)

	t.Run("empty", func(t *testing.T) {
		rec := doGET(t, srv, "/api/sessions")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var list []controller.SessionInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("expected empty list, got %v", list)
		}
	})

	t.Run("populated", func(t *testing.T) {
		ctrl.Join("alpha", "conn-a", "alice")
		ctrl.Join("alpha", "conn-b", "bob")
		ctrl.Join("beta", "conn-c", "carol")

		rec := doGET(t, srv, "/api/sessions")
		var list []controller.SessionInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if len(list) != 2 || list[0].ID != "alpha" || list[0].PlayerCount != 2 || list[1].ID != "beta" {
			t.Errorf("unexpected list: %+v", list)
		}
	})
}

func TestGetSessionEndpoint(t *testing.T) {
	srv, ctrl := newTestServer(t)
	ctrl.Join("alpha", "conn-a", "alice")

	t.Run("found", func(t *testing.T) {
		rec := doGET(t, srv, "/api/sessions/alpha")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var info controller.SessionInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if info.ID != "alpha" || info.PlayerCount != 1 || info.InProgress {
			t.Errorf("unexpected info: %+v", info)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec := doGET(t, srv, "/api/sessions/nope")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		var body map[string]string
		json.Unmarshal(rec.Body.Bytes(), &body)
		if body["error"] == "" {
			t.Error("expected error message in body")
		}
	})
}

func TestInviteQREndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGET(t, srv, "/api/sessions/alpha/invite.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	// PNG magic bytes.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doGET(t, srv, "/api/bogus")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
