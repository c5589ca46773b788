package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kitportal/internal/kit/domain"
	"kitportal/platform/httpkit"
	"kitportal/platform/logger"
	"kitportal/platform/validator"
)

const validKit = `{
	"kitId": "kit-1",
	"barcode": "AB12CD34",
	"profile": "p1",
	"hasAnalysed": false,
	"test": [{
		"testId": "t1",
		"name": "global-vital",
		"status": "lab",
		"history": [{"historyId": "h1", "datetime": "2024-03-01T09:00:00Z", "status": "lab"}],
		"provider": {"name": "snapshot-hk-courier"}
	}],
	"extraction": [],
	"status": "ready",
	"history": [{"status": "ready", "datetime": "2024-03-02T09:00:00Z"}],
	"expectedReportReadyDate": "2024-04-01",
	"segment": [{"segmentId": "s1", "segment": "vip"}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api := httpkit.NewAPIClient(srv.URL, 5*time.Second, 100, 100, logger.Nop())
	return New(api, validator.New())
}

func TestGetKits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kit/v1.0/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("productline") != "circle" || q.Get("withTerminatedTest") != "true" || q.Get("all") != "true" || q.Get("segment") != "true" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("[" + validKit + "]"))
	})

	kits, err := client.GetKits(context.Background(), "circle", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kits) != 1 {
		t.Fatalf("expected one kit, got %d", len(kits))
	}
	k := kits[0]
	if k.KitID != "kit-1" || k.Status != domain.KitStatusReady || len(k.Tests) != 1 {
		t.Fatalf("unexpected kit %+v", k)
	}
	if k.Tests[0].Provider == nil || k.Tests[0].Provider.Name != domain.CourierProvider {
		t.Fatalf("expected courier provider, got %+v", k.Tests[0].Provider)
	}
	if _, ok := domain.FindStatusDate(k.History, domain.KitStatusReady); !ok {
		t.Fatalf("expected ready entry in kit history")
	}
	if len(k.Segments) != 1 || k.ExpectedReportReadyDate != "2024-04-01" {
		t.Fatalf("expected optional fields to be carried, got %+v", k)
	}
}

func TestGetKitsIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing history key", `[` + validKit + `,{"kitId":"kit-2","barcode":"X","profile":"p1","hasAnalysed":false,"test":[],"extraction":[],"status":"lab"}]`},
		{"history entry without datetime", `[{"kitId":"kit-2","barcode":"X","profile":"p1","hasAnalysed":false,"test":[],"extraction":[],"status":"lab","history":[{"status":"lab"}]}]`},
		{"test without name", `[{"kitId":"kit-2","barcode":"X","profile":"p1","hasAnalysed":false,"test":[{"testId":"t","status":"lab","history":[]}],"extraction":[],"status":"lab","history":[]}]`},
		{"missing hasAnalysed", `[{"kitId":"kit-2","barcode":"X","profile":"p1","test":[],"extraction":[],"status":"lab","history":[]}]`},
		{"not an array", `{"kits":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			kits, err := client.GetKits(context.Background(), "circle", "tok")
			if err == nil {
				t.Fatalf("expected an error, got %d kits", len(kits))
			}
		})
	}
}

func TestActivateBarcode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/kit/v1.0/barcode/AB12CD34/profile" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		if body["profileId"] != "p1" {
			t.Errorf("expected profileId in body, got %s", raw)
		}
		_, _ = w.Write([]byte(`{"kitId":"kit-1","barcode":"AB12CD34","scope":[{"scopeId":"s1","scope":"kit:read"}]}`))
	})

	activated, err := client.ActivateBarcode(context.Background(), "p1", "AB12CD34", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated.KitID != "kit-1" || len(activated.Scope) != 1 {
		t.Fatalf("unexpected activation %+v", activated)
	}
}

func TestActivateBarcodePassesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := client.ActivateBarcode(context.Background(), "p1", "AB12CD34", "tok")
	if status, ok := httpkit.StatusCode(err); !ok || status != http.StatusConflict {
		t.Fatalf("expected upstream 409, got %v", err)
	}
}

func TestMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kit/v1.0/kit/kit-1/metadata" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"metadata":[{"metadataId":"m1","datetime":"2024-03-01T09:00:00Z","content":"2024-03-01T08:00:00Z","type":"collectionTime","actor":"user"}]}`))
		case http.MethodPost:
			var body struct {
				Metadata struct {
					Type    string `json:"type"`
					Content string `json:"content"`
				} `json:"metadata"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Metadata.Type != "comment" || body.Metadata.Content != "hello" {
				t.Errorf("unexpected body %+v", body)
			}
			_, _ = w.Write([]byte(`{"metadataId":"m2","datetime":"2024-03-01T10:00:00Z","content":"hello","type":"comment","actor":"user"}`))
		}
	})

	metadata, err := client.GetMetadata(context.Background(), "kit-1", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.HasCollectionTime(metadata) {
		t.Fatalf("expected collection time metadata, got %+v", metadata)
	}

	created, err := client.AddMetadata(context.Background(), "kit-1", domain.MetadataComment, "hello", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.MetadataID != "m2" || created.Type != domain.MetadataComment {
		t.Fatalf("unexpected metadata %+v", created)
	}
}
