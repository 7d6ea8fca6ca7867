package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/db"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/poll"
	"github.com/ykchoudhary110/Communtity-Fridge/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *poll.Fetcher, string) {
	t.Helper()
	database := db.NewTestDB(t)

	fetcher := poll.NewFetcher(func(ctx context.Context) ([]model.Fridge, error) {
		return store.ListFridges(ctx, database)
	})
	t.Cleanup(fetcher.Stop)

	router := NewRouter(database, auth.NewService(database, testJWTSecret), fetcher)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Sign up a volunteer and grab the session token.
	body, _ := json.Marshal(map[string]string{"email": "volunteer@example.com", "password": "password123"})
	resp, err := http.Post(server.URL+"/api/auth/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("signup request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed: %d", resp.StatusCode)
	}

	var session map[string]string
	json.NewDecoder(resp.Body).Decode(&session)
	token := session["token"]
	if token == "" {
		t.Fatal("empty token from signup")
	}

	return server, fetcher, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func TestLoginEndpoint(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "volunteer@example.com", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	body, _ = json.Marshal(map[string]string{"email": "volunteer@example.com", "password": "password123"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for valid login, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout failed: %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The revoked token no longer passes the guard.
	req, _ = authRequest("POST", server.URL+"/api/fridges", token, map[string]string{"name": "X"})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with revoked token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestWritesRequireSession(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"name": "Unauthorized Fridge"})
	resp, _ := http.Post(server.URL+"/api/fridges", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestFridgeAPIFlow(t *testing.T) {
	server, fetcher, token := setupTestServer(t)

	// Create a fridge. Coordinates arrive as text; the unparsable one
	// coerces to null.
	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{
		"name":      "Mission Fridge",
		"address":   "123 Mission St",
		"latitude":  "37.7599",
		"longitude": "oops",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create fridge failed: %d", resp.StatusCode)
	}
	var created model.Fridge
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Status != "available" {
		t.Errorf("expected default status 'available', got %q", created.Status)
	}
	if created.Latitude == nil || *created.Latitude != 37.7599 {
		t.Errorf("expected latitude 37.7599, got %v", created.Latitude)
	}
	if created.Longitude != nil {
		t.Errorf("expected nil longitude for unparsable input, got %v", *created.Longitude)
	}

	// The list is served from the mirror, so it only sees the fridge after
	// a reload.
	fetcher.Reload(context.Background())
	resp, _ = http.Get(server.URL + "/api/fridges")
	var list struct {
		Fridges []model.Fridge `json:"fridges"`
		Loading bool           `json:"loading"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Fridges) != 1 {
		t.Fatalf("expected 1 fridge in list, got %d", len(list.Fridges))
	}

	// Update the status; the response carries the refreshed detail.
	req, _ = authRequest("POST", server.URL+"/api/fridges/"+created.ID+"/status", token, map[string]string{
		"status": "low",
		"note":   "Running low on produce",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status failed: %d", resp.StatusCode)
	}
	var d struct {
		Fridge model.Fridge           `json:"fridge"`
		Logs   []model.StatusLogEntry `json:"logs"`
	}
	json.NewDecoder(resp.Body).Decode(&d)
	resp.Body.Close()

	if d.Fridge.Status != "low" {
		t.Errorf("expected status 'low', got %q", d.Fridge.Status)
	}
	if len(d.Logs) != 1 || d.Logs[0].Note != "Running low on produce" {
		t.Errorf("expected one log entry with note, got %+v", d.Logs)
	}
	if !d.Fridge.LastUpdated.After(created.LastUpdated) {
		t.Error("expected last_updated to be refreshed by the status change")
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{"name": "Fridge"})
	resp, _ := http.DefaultClient.Do(req)
	var created model.Fridge
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// Unknown statuses are rejected before any write.
	req, _ = authRequest("POST", server.URL+"/api/fridges/"+created.ID+"/status", token, map[string]string{
		"status": "broken",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("POST", server.URL+"/api/fridges/no-such-id/status", token, map[string]string{
		"status": "low",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing fridge, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetFridgeDetail(t *testing.T) {
	server, _, token := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/fridges/no-such-id")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing fridge, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{"name": "Fridge"})
	resp, _ = http.DefaultClient.Do(req)
	var created model.Fridge
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/api/fridges/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get fridge failed: %d", resp.StatusCode)
	}
	var d struct {
		Fridge model.Fridge           `json:"fridge"`
		Logs   []model.StatusLogEntry `json:"logs"`
	}
	json.NewDecoder(resp.Body).Decode(&d)
	resp.Body.Close()

	if d.Fridge.ID != created.ID {
		t.Errorf("expected fridge %s, got %s", created.ID, d.Fridge.ID)
	}
	if d.Logs == nil {
		t.Error("expected empty logs array, not null")
	}
}

func TestEditFridge(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{
		"name":    "Old Name",
		"address": "Old Address",
	})
	resp, _ := http.DefaultClient.Do(req)
	var created model.Fridge
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// Full replacement: omitted fields clear.
	req, _ = authRequest("PUT", server.URL+"/api/fridges/"+created.ID, token, map[string]string{
		"name":   "New Name",
		"status": "unavailable",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit fridge failed: %d", resp.StatusCode)
	}
	var updated model.Fridge
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()

	if updated.Name != "New Name" {
		t.Errorf("expected name 'New Name', got %q", updated.Name)
	}
	if updated.Address != "" {
		t.Errorf("expected address cleared, got %q", updated.Address)
	}

	// The status changed via the edit, so a log entry was appended.
	resp, _ = http.Get(server.URL + "/api/fridges/" + created.ID + "/logs")
	var logs []model.StatusLogEntry
	json.NewDecoder(resp.Body).Decode(&logs)
	resp.Body.Close()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry after status-changing edit, got %d", len(logs))
	}
	if logs[0].Note != "Updated via edit form" {
		t.Errorf("expected edit note, got %q", logs[0].Note)
	}
}

func TestCreateFridgeValidation(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{"name": "  "})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A status outside the canonical set is rejected, not persisted.
	req, _ = authRequest("POST", server.URL+"/api/fridges", token, map[string]string{
		"name":   "Fridge",
		"status": "broken",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestEditRejectsUnknownStatus(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{"name": "Fridge"})
	resp, _ := http.DefaultClient.Do(req)
	var created model.Fridge
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	req, _ = authRequest("PUT", server.URL+"/api/fridges/"+created.ID, token, map[string]string{
		"name":   "Fridge",
		"status": "broken",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The stored status is untouched.
	resp, _ = http.Get(server.URL + "/api/fridges/" + created.ID)
	var d struct {
		Fridge model.Fridge `json:"fridge"`
	}
	json.NewDecoder(resp.Body).Decode(&d)
	resp.Body.Close()
	if d.Fridge.Status != "available" {
		t.Errorf("expected status to stay 'available', got %q", d.Fridge.Status)
	}
}

func TestReloadEndpoint(t *testing.T) {
	server, _, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/fridges", token, map[string]string{"name": "Fridge"})
	resp, _ := http.DefaultClient.Do(req)
	resp.Body.Close()

	// Reload forces a fetch cycle and responds with the fresh list.
	resp, _ = http.Post(server.URL+"/api/fridges/reload", "application/json", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reload failed: %d", resp.StatusCode)
	}
	var list struct {
		Fridges []model.Fridge `json:"fridges"`
		Loading bool           `json:"loading"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Fridges) != 1 {
		t.Errorf("expected 1 fridge after reload, got %d", len(list.Fridges))
	}
	if list.Loading {
		t.Error("expected loading to be false after a completed reload")
	}
}

func TestListFilters(t *testing.T) {
	server, fetcher, token := setupTestServer(t)

	for _, f := range []map[string]string{
		{"name": "Mission Fridge", "status": "available"},
		{"name": "Sunset Fridge", "status": "low"},
	} {
		req, _ := authRequest("POST", server.URL+"/api/fridges", token, f)
		resp, _ := http.DefaultClient.Do(req)
		resp.Body.Close()
	}
	fetcher.Reload(context.Background())

	resp, _ := http.Get(server.URL + "/api/fridges?status=low")
	var list struct {
		Fridges []model.Fridge `json:"fridges"`
		Counts  struct {
			All int `json:"all"`
		} `json:"counts"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()

	if len(list.Fridges) != 1 || list.Fridges[0].Name != "Sunset Fridge" {
		t.Errorf("expected only the low fridge, got %+v", list.Fridges)
	}
	// Counts cover the unfiltered collection.
	if list.Counts.All != 2 {
		t.Errorf("expected counts over all fridges, got %d", list.Counts.All)
	}

	resp, _ = http.Get(server.URL + "/api/fridges?q=sunset")
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Fridges) != 1 || list.Fridges[0].Name != "Sunset Fridge" {
		t.Errorf("expected search to match one fridge, got %+v", list.Fridges)
	}
}
