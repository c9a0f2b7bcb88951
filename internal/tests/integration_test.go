//go:build integration

package tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"item-tracker/internal"
	"item-tracker/internal/client"
	"item-tracker/internal/config"
	"item-tracker/internal/models"
	"item-tracker/internal/store"
	"item-tracker/internal/testutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// newTestServer serves the API over a freshly reset Postgres schema.
func newTestServer(t *testing.T) (*httptest.Server, *store.Postgres) {
	t.Helper()
	testutil.RequireIntegration(t)

	pool := testutil.NewTestPool(t)
	testutil.ResetSchema(t, pool)
	pg := store.NewPostgresFromPool(pool)

	cfg := &config.Config{
		StoreDriver:     config.DriverPostgres,
		CORSOrigin:      "*",
		LogLevel:        "info",
		ShutdownTimeout: time.Second,
		EnableMetrics:   true,
	}
	srv := httptest.NewServer(internal.NewServer(pg, cfg, zerolog.Nop()).Router)
	t.Cleanup(srv.Close)
	return srv, pg
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected status 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestItemLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := client.New(srv.URL+"/api", srv.Client())

	items, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Expected empty list, got %d items", len(items))
	}

	milk, err := c.Create(ctx, "Buy milk", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if milk.Name != "Buy milk" || milk.Description != nil {
		t.Errorf("Unexpected item: %+v", milk)
	}
	if _, err := uuid.Parse(milk.ID); err != nil {
		t.Errorf("Expected UUID id, got %q", milk.ID)
	}

	dog, err := c.Create(ctx, "Walk dog", "before dinner")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].ID != dog.ID || items[1].ID != milk.ID {
		t.Errorf("Expected most recent first, got %s then %s", items[0].Name, items[1].Name)
	}

	msg, err := c.Delete(ctx, milk.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if msg != "Item removed" {
		t.Errorf("Expected 'Item removed', got %q", msg)
	}

	items, err = c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != dog.ID {
		t.Errorf("Expected only %s to remain, got %+v", dog.ID, items)
	}
}

func TestItemErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := client.New(srv.URL+"/api", srv.Client())

	tests := []struct {
		name    string
		call    func() error
		status  int
		message string
	}{
		{
			name:    "blank name",
			call:    func() error { _, err := c.Create(ctx, "   ", ""); return err },
			status:  http.StatusBadRequest,
			message: "Item name is required",
		},
		{
			name:    "unknown id",
			call:    func() error { _, err := c.Delete(ctx, uuid.NewString()); return err },
			status:  http.StatusNotFound,
			message: "Item not found",
		},
		{
			name:    "malformed id",
			call:    func() error { _, err := c.Delete(ctx, "abc"); return err },
			status:  http.StatusBadRequest,
			message: "Invalid item ID format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			apiErr, ok := err.(*client.APIError)
			if !ok {
				t.Fatalf("Expected *client.APIError, got %T (%v)", err, err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, apiErr.Message)
			}
		})
	}
}

func TestItemJSONShape(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/items", "application/json", strings.NewReader(`{"name":"Buy milk"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"id", "name", "date"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("Expected field %q in %v", field, raw)
		}
	}
	if _, ok := raw["description"]; ok {
		t.Errorf("Expected description to be omitted, got %v", raw["description"])
	}
	if _, err := time.Parse(time.RFC3339Nano, raw["date"].(string)); err != nil {
		t.Errorf("Expected RFC 3339 date, got %v", raw["date"])
	}
}

func TestMetricsAfterTraffic(t *testing.T) {
	srv, pg := newTestServer(t)

	if _, err := pg.Create(context.Background(), "seed", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	resp, err := http.Get(srv.URL + "/api/items")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var items []models.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	var body strings.Builder
	if _, err := io.Copy(&body, resp.Body); err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(body.String(), `item_store_operations_total{op="list",result="ok"}`) {
		t.Errorf("Expected list store metric, got:\n%s", body.String())
	}
}
