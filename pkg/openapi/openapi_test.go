package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/sweep/pkg/openapi"
)

func TestSpecAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Sweep API", "1.0.0")
	spec.AddServer("/api")
	spec.AddOperation("GET", "/report/{id}", &openapi.Operation{
		Summary:    "Find report",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Report ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Report", "Report"),
			404: openapi.ResponseRef("NotFound"),
		},
	})
	spec.AddOperation("DELETE", "/report/{id}", &openapi.Operation{Summary: "Delete report"})
	spec.AddOperation("TRACE", "/report/{id}", &openapi.Operation{Summary: "ignored"})

	item := spec.Paths["/report/{id}"]
	if item == nil || item.Get == nil || item.Delete == nil {
		t.Fatalf("path item = %+v", item)
	}
	if item.Post != nil || item.Patch != nil {
		t.Error("unexpected operations on path item")
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Paths   map[string]map[string]struct {
			Responses map[string]any `json:"responses"`
		} `json:"paths"`
		Components struct {
			Responses map[string]any `json:"responses"`
		} `json:"components"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.OpenAPI != "3.1.0" {
		t.Errorf("openapi = %q, want 3.1.0", doc.OpenAPI)
	}
	if _, ok := doc.Paths["/report/{id}"]["get"].Responses["404"]; !ok {
		t.Error("404 response missing from GET /report/{id}")
	}
	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "InternalError"} {
		if _, ok := doc.Components.Responses[name]; !ok {
			t.Errorf("component response %s missing", name)
		}
	}
}

func TestServeSpec(t *testing.T) {
	rec := httptest.NewRecorder()
	openapi.ServeSpec([]byte(`{"openapi":"3.1.0"}`))(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("SWEEP_OPENAPI_TITLE", "Sweep (staging)")

	var cfg openapi.Config
	cfg.Finalize(&openapi.ConfigEnv{Title: "SWEEP_OPENAPI_TITLE"})

	if cfg.Title != "Sweep (staging)" {
		t.Errorf("title = %q", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description default not applied")
	}
}

func TestNullable(t *testing.T) {
	data, err := json.Marshal(openapi.Nullable(&openapi.Schema{Type: "string"}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"oneOf":[{"type":"string"},{"type":"null"}]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
