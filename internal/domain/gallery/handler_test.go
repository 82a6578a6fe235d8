package gallery

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/festivo/festivo-api/internal/middleware"
	"github.com/festivo/festivo-api/internal/pkg/jwt"
)

func newTestServer(t *testing.T, repo Repository) (*httptest.Server, string) {
	t.Helper()

	jwtService := jwt.NewService("test-secret", time.Hour)
	token, err := jwtService.Generate(uuid.New(), "admin", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	h := NewHandler(NewService(repo, nil, testLimits()))
	router := h.Routes(
		middleware.OptionalAuth(jwtService),
		middleware.Auth(jwtService),
		middleware.RequireAdmin(),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func TestListPublicExcludesInactive(t *testing.T) {
	repo := newFakeRepo(testItem(true), testItem(false))
	srv, _ := newTestServer(t, repo)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/?includeInactive=true", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var list ListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	// includeInactive without an admin credential is silently ignored
	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want only the active one", len(list.Items))
	}
	if !list.Items[0].IsActive {
		t.Error("inactive item served to an anonymous client")
	}
}

func TestListAdminSeesInactive(t *testing.T) {
	repo := newFakeRepo(testItem(true), testItem(false))
	srv, token := newTestServer(t, repo)

	_, env := doJSON(t, http.MethodGet, srv.URL+"/?includeInactive=true", token, nil)

	var list ListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("items = %d, want 2 with includeInactive", len(list.Items))
	}
}

func TestListDegradesOnStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection refused")
	srv, _ := newTestServer(t, repo)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public listing must degrade to 200, got %d", resp.StatusCode)
	}
	if !env.Success {
		t.Error("degraded response still reports success")
	}
	if env.Message == "" {
		t.Error("degraded response should carry an explanatory message")
	}

	var list ListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 0 {
		t.Errorf("degraded page carried %d items", len(list.Items))
	}
}

func TestAdminListFailsHardOnStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection refused")
	srv, token := newTestServer(t, repo)

	// even without includeInactive, an admin gets the real error, not the
	// public empty-page degrade
	resp, env := doJSON(t, http.MethodGet, srv.URL+"/", token, nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("admin listing: status = %d, want 500", resp.StatusCode)
	}
	if env.Success {
		t.Error("failed admin listing must not report success")
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	item := testItem(true)
	srv, _ := newTestServer(t, newFakeRepo(item))

	// no credential
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/", "", &CreateItemRequest{Title: "x", Caption: "y"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status = %d, want 401", resp.StatusCode)
	}

	// non-admin credential
	jwtService := jwt.NewService("test-secret", time.Hour)
	userToken, _ := jwtService.Generate(uuid.New(), "visitor", "viewer")
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/"+item.ID.String(), userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin delete: status = %d, want 403", resp.StatusCode)
	}
}

func TestCreateEndToEnd(t *testing.T) {
	repo := newFakeRepo()
	srv, token := newTestServer(t, repo)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/", token, &CreateItemRequest{
		Title:    "Formatura 2026",
		Caption:  "Salão principal",
		Category: CategoryGraduation,
		Images:   []ImageInput{{Src: imageOfSize(64), Alt: "salão"}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	var out ItemResponse
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if out.Item.Category != CategoryGraduation {
		t.Errorf("category = %q", out.Item.Category)
	}
	if repo.created == nil {
		t.Fatal("item never reached the store")
	}
}

func TestCreateValidation(t *testing.T) {
	srv, token := newTestServer(t, newFakeRepo())

	// missing required fields
	resp, env := doJSON(t, http.MethodPost, srv.URL+"/", token, &CreateItemRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
	if _, ok := env.Error.Details["title"]; !ok {
		t.Errorf("details = %v, want a title entry", env.Error.Details)
	}

	// no images at all
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/", token, &CreateItemRequest{Title: "t", Caption: "c"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero-image create: status = %d, want 400", resp.StatusCode)
	}
	if env.Error.Details["images"] == "" {
		t.Errorf("details = %v, want an images entry", env.Error.Details)
	}
}

func TestCreateOversizePayload(t *testing.T) {
	srv, token := newTestServer(t, newFakeRepo())

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/", token, &CreateItemRequest{
		Title: "t", Caption: "c",
		Images: []ImageInput{{Src: imageOfSize(5000)}},
	})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
	if env.Error.Code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestUpdateOmittedImagesOverHTTP(t *testing.T) {
	item := testItem(true)
	repo := newFakeRepo(item)
	srv, token := newTestServer(t, repo)

	// raw body without an images key at all
	body := []byte(`{"title":"Título novo"}`)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/"+item.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if repo.lastPatch.Images != nil {
		t.Error("omitted images key reached the store as a write")
	}
	if len(item.Images) == 0 {
		t.Error("stored images were dropped by a text-only update")
	}
}

func TestUpdateBlankTitleOverHTTP(t *testing.T) {
	item := testItem(true)
	repo := newFakeRepo(item)
	srv, token := newTestServer(t, repo)

	blank := ""
	resp, env := doJSON(t, http.MethodPut, srv.URL+"/"+item.ID.String(), token, &UpdateItemRequest{Title: &blank})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
	if env.Error.Details["title"] == "" {
		t.Errorf("details = %v, want a title entry", env.Error.Details)
	}
	if item.Title == "" {
		t.Error("stored title was blanked")
	}
}

func TestUpdateBadID(t *testing.T) {
	srv, token := newTestServer(t, newFakeRepo())

	resp, env := doJSON(t, http.MethodPut, srv.URL+"/not-a-uuid", token, &UpdateItemRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error.Code != "INVALID_ARGUMENT" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestDeleteSoftAndPermanent(t *testing.T) {
	item := testItem(true)
	repo := newFakeRepo(item)
	srv, token := newTestServer(t, repo)

	resp, env := doJSON(t, http.MethodDelete, srv.URL+"/"+item.ID.String(), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Message != "Item deactivated" {
		t.Errorf("message = %q", env.Message)
	}
	if len(repo.softs) != 1 {
		t.Fatal("soft delete did not reach the store")
	}

	resp, env = doJSON(t, http.MethodDelete, srv.URL+"/"+item.ID.String()+"?permanent=true", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Message != "Item removed" {
		t.Errorf("message = %q", env.Message)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/"+item.ID.String(), token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete after removal: status = %d, want 404", resp.StatusCode)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	srv, _ := newTestServer(t, newFakeRepo())

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/"+uuid.NewString(), "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if env.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q", env.Error.Code)
	}
}
