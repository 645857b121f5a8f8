package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func jsonBody(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(buf)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestAnnouncementLifecycle(t *testing.T) {
	env := newTestEnv(t)
	base := env.server.URL + "/api/announcements"

	// Create from template details.
	resp := postJSON(t, base, AnnouncementRequest{
		TrainNumber: "12137",
		TrainName:   "Punjab Mail",
		Platform:    "4",
		Status:      "arriving",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeJSON[AnnouncementDTO](t, resp)
	if created.ID == "" {
		t.Fatal("created announcement has no ID")
	}
	if len(created.Texts) != 4 || len(created.AudioPaths) != 4 {
		t.Errorf("texts=%d audio=%d, want 4 each", len(created.Texts), len(created.AudioPaths))
	}
	if created.Published {
		t.Error("new announcement must start unpublished")
	}

	// List includes it.
	listResp, err := http.Get(base)
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	list := decodeJSON[[]AnnouncementDTO](t, listResp)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	// Fetch by ID.
	getResp, err := http.Get(base + "/" + created.ID)
	if err != nil {
		t.Fatalf("GET one: %v", err)
	}
	got := decodeJSON[AnnouncementDTO](t, getResp)
	if got.TrainNumber != "12137" {
		t.Errorf("train number = %q", got.TrainNumber)
	}

	// Publish.
	pubResp := postJSON(t, fmt.Sprintf("%s/%s/publish", base, created.ID), nil)
	if pubResp.StatusCode != http.StatusOK {
		t.Fatalf("publish status = %d", pubResp.StatusCode)
	}
	published := decodeJSON[AnnouncementDTO](t, pubResp)
	if !published.Published {
		t.Error("announcement not marked published")
	}

	// Served audio is reachable.
	audioResp, err := http.Get(env.server.URL + "/api/media/" + created.AudioPaths["en-IN"])
	if err != nil {
		t.Fatalf("GET media: %v", err)
	}
	audioResp.Body.Close()
	if audioResp.StatusCode != http.StatusOK {
		t.Errorf("media status = %d", audioResp.StatusCode)
	}

	// Delete.
	req, _ := http.NewRequest(http.MethodDelete, base+"/"+created.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}
	if len(env.store.announcements) != 0 {
		t.Error("announcement still in store after delete")
	}
}

func TestAnnouncementCreateFromText(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env.server.URL+"/api/announcements", AnnouncementRequest{
		Text:     "Platform 2 is closed for maintenance",
		Language: "en-IN",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeJSON[AnnouncementDTO](t, resp)
	if created.Texts["en-IN"] != "Platform 2 is closed for maintenance" {
		t.Errorf("source text = %q", created.Texts["en-IN"])
	}
}

func TestAnnouncementValidation(t *testing.T) {
	env := newTestEnv(t)
	base := env.server.URL + "/api/announcements"

	tests := []struct {
		name string
		req  AnnouncementRequest
	}{
		{"empty request", AnnouncementRequest{}},
		{"arriving without platform", AnnouncementRequest{TrainNumber: "12137", Status: "arriving"}},
		{"text without valid language", AnnouncementRequest{Text: "hello", Language: "fr-FR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, base, tt.req)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestAnnouncementNotFound(t *testing.T) {
	env := newTestEnv(t)
	base := env.server.URL + "/api/announcements"

	resp, err := http.Get(base + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", resp.StatusCode)
	}

	pubResp := postJSON(t, base+"/nope/publish", nil)
	pubResp.Body.Close()
	if pubResp.StatusCode != http.StatusNotFound {
		t.Errorf("publish status = %d, want 404", pubResp.StatusCode)
	}
}

func TestAnnouncementCompose(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env.server.URL+"/api/announcements/compose", AnnouncementRequest{
		TrainNumber:  "12951",
		Status:       "delayed",
		DelayMinutes: 20,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compose status = %d", resp.StatusCode)
	}
	body := decodeJSON[map[string]map[string]string](t, resp)
	if len(body["texts"]) != 4 {
		t.Errorf("compose returned %d languages, want 4", len(body["texts"]))
	}
	if len(env.store.announcements) != 0 {
		t.Error("compose must not persist anything")
	}
}
