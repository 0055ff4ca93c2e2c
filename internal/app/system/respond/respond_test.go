package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"name": "Helping Hands"})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	body := decode(t, w)
	if body["success"] != true {
		t.Error("success should be true")
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["name"] != "Helping Hands" {
		t.Errorf("data = %v", body["data"])
	}
	if _, present := body["error"]; present {
		t.Error("error key should be omitted on success")
	}
}

func TestErr(t *testing.T) {
	w := httptest.NewRecorder()
	Err(w, http.StatusConflict, "email already registered")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false {
		t.Error("success should be false")
	}
	if body["error"] != "email already registered" {
		t.Errorf("error = %v", body["error"])
	}
	if _, present := body["data"]; present {
		t.Error("data key should be omitted on failure")
	}
}

func TestValidationErr(t *testing.T) {
	w := httptest.NewRecorder()
	ValidationErr(w, []string{"name is required", "email is invalid"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	body := decode(t, w)
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) != 2 {
		t.Fatalf("errors = %v", body["errors"])
	}
	if errs[0] != "name is required" {
		t.Errorf("errors[0] = %v", errs[0])
	}
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, "program")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if body := decode(t, w); body["error"] != "program not found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestJSON_UnencodablePayload(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]any{"ch": make(chan int)})

	// The status line is already committed when encoding fails; the
	// write must not panic and the code must stand.
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
