package adminclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/festivo/festivo-api/internal/domain/gallery"
	"github.com/festivo/festivo-api/internal/pkg/response"
)

func TestClientLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		response.OK(w, map[string]interface{}{
			"token":      "abc123",
			"expires_in": 3600,
			"user":       map[string]string{"username": "decorador", "role": "admin"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Login(context.Background(), "decorador", "senha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "abc123" {
		t.Errorf("token = %q", resp.Token)
	}
	if client.Token() != "abc123" {
		t.Error("token was not stored on the client")
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		response.OK(w, gallery.ListResponse{Items: []*gallery.Item{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetToken("tok")
	if _, err := client.ListItems(context.Background(), 1, 20, true); err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization header = %q", gotAuth)
	}
}

func TestClientListIncludeInactiveQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		response.OK(w, gallery.ListResponse{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.ListItems(context.Background(), 2, 10, true); err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	q, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if q.Get("includeInactive") != "true" || q.Get("page") != "2" || q.Get("limit") != "10" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.PayloadTooLarge(w, "Image exceeds the maximum allowed size")
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CreateItem(context.Background(), &gallery.CreateItemRequest{Title: "t"})
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Status != http.StatusRequestEntityTooLarge || apiErr.Code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Error() != "Image exceeds the maximum allowed size" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestClientUpdateOmitsImagesWhenNil(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		response.OK(w, gallery.ItemResponse{Item: &gallery.Item{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	title := "só o título"
	_, err := client.UpdateItem(context.Background(), "some-id", &gallery.UpdateItemRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	// pointer-nil images must serialize to a JSON null, which the server
	// reads as "leave stored images alone"
	raw, present := gotBody["images"]
	if present && string(raw) != "null" {
		t.Errorf("images field = %s, want null or absent", raw)
	}
}
