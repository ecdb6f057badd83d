package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	derr "github.com/ozzus/club-sanctions/internal/domain/errors"
	"github.com/ozzus/club-sanctions/internal/infrastructures/notion/dto"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	c, err := NewClient(Config{BaseURL: srv.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

// pagedHandler serves total pages split into chunks of pageSize, keyed by cursor "c<offset>".
func pagedHandler(t *testing.T, total, pageSize int, failOnRequest int) (http.HandlerFunc, *int) {
	requests := 0
	return func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/databases/db-1/query" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got != DefaultVersion {
			t.Errorf("unexpected version header: %q", got)
		}
		if requests == failOnRequest {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"object":"error","status":400,"code":"validation_error"}`))
			return
		}

		var req dto.QueryDatabaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		offset := 0
		if req.StartCursor != "" {
			if _, err := fmt.Sscanf(req.StartCursor, "c%d", &offset); err != nil {
				t.Errorf("unexpected cursor %q", req.StartCursor)
			}
		}

		resp := dto.QueryDatabaseResponse{Object: "list", Results: []dto.Page{}}
		for i := offset; i < total && i < offset+pageSize; i++ {
			resp.Results = append(resp.Results, dto.Page{ID: fmt.Sprintf("page-%d", i)})
		}
		if next := offset + pageSize; next < total {
			cursor := fmt.Sprintf("c%d", next)
			resp.NextCursor = &cursor
			resp.HasMore = true
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}, &requests
}

func TestQueryDatabase_ReturnsEveryRecordAcrossPages(t *testing.T) {
	for _, pageSize := range []int{1, 3, 7, 10, 100} {
		handler, requests := pagedHandler(t, 10, pageSize, 0)
		srv := httptest.NewServer(handler)

		pages, err := newTestClient(t, srv).QueryDatabase(context.Background(), "db-1")
		srv.Close()
		if err != nil {
			t.Fatalf("page size %d: expected no error, got %v", pageSize, err)
		}
		if len(pages) != 10 {
			t.Fatalf("page size %d: expected 10 pages, got %d", pageSize, len(pages))
		}

		seen := make(map[string]struct{}, len(pages))
		for _, p := range pages {
			if _, ok := seen[p.ID]; ok {
				t.Fatalf("page size %d: duplicate page %s", pageSize, p.ID)
			}
			seen[p.ID] = struct{}{}
		}

		wantRequests := (10 + pageSize - 1) / pageSize
		if *requests != wantRequests {
			t.Fatalf("page size %d: expected %d requests, got %d", pageSize, wantRequests, *requests)
		}
	}
}

func TestQueryDatabase_EmptyDatabase(t *testing.T) {
	handler, _ := pagedHandler(t, 0, 5, 0)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	pages, err := newTestClient(t, srv).QueryDatabase(context.Background(), "db-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages == nil || len(pages) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", pages)
	}
}

func TestQueryDatabase_FailureOnSecondPageDiscardsPartialResult(t *testing.T) {
	handler, requests := pagedHandler(t, 9, 3, 2)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	pages, err := newTestClient(t, srv).QueryDatabase(context.Background(), "db-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if pages != nil {
		t.Fatalf("expected no partial result, got %d pages", len(pages))
	}
	if *requests != 2 {
		t.Fatalf("expected the loop to stop after 2 requests, got %d", *requests)
	}

	var apiErr *derr.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status code %d", apiErr.StatusCode)
	}
	if !strings.Contains(string(apiErr.Body), "validation_error") {
		t.Fatalf("expected raw error body, got %s", apiErr.Body)
	}
}

func TestQueryDatabase_ServerErrorMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).QueryDatabase(context.Background(), "db-1")
	if !errors.Is(err, derr.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestCreatePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pages" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		parent, ok := req["parent"].(map[string]any)
		if !ok || parent["database_id"] != "db-aliases" {
			t.Fatalf("unexpected parent: %v", req["parent"])
		}
		if _, ok := req["properties"].(map[string]any)["Club"]; !ok {
			t.Fatalf("expected Club property, got %v", req["properties"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"page","id":"new-page","properties":{}}`))
	}))
	defer srv.Close()

	props := dto.Properties{"Club": {Type: dto.TypeTitle, Title: []dto.RichText{{Text: dto.Text{Content: "FC Example"}}}}}
	page, err := newTestClient(t, srv).CreatePage(context.Background(), "db-aliases", props)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.ID != "new-page" {
		t.Fatalf("unexpected page id %q", page.ID)
	}
}

func TestUpdatePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pages/page-42" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPatch {
			t.Fatalf("unexpected method: %s", r.Method)
		}

		var req struct {
			Parent     any            `json:"parent"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Parent != nil {
			t.Fatalf("update must not send a parent, got %v", req.Parent)
		}
		if len(req.Properties) != 1 {
			t.Fatalf("expected a single-field patch, got %v", req.Properties)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"page","id":"page-42","properties":{}}`))
	}))
	defer srv.Close()

	props := dto.Properties{"SanctionId": {Type: dto.TypeTitle, Title: []dto.RichText{{Text: dto.Text{Content: "abc"}}}}}
	page, err := newTestClient(t, srv).UpdatePage(context.Background(), "page-42", props)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.ID != "page-42" {
		t.Fatalf("unexpected page id %q", page.ID)
	}
}

func TestUpdatePage_UnauthorizedIsSingleShot(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).UpdatePage(context.Background(), "page-42", dto.Properties{})
	if !errors.Is(err, derr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}

func TestNewClient_EmptyToken(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://api.notion.com/v1", Token: "  "})
	if err == nil {
		t.Fatal("expected error for empty token")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Fatalf("unexpected error: %v", err)
	}
}
