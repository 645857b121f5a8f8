package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranslateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env.server.URL+"/api/translate", TranslateRequest{
		Text:   "The train is delayed",
		Source: "en-IN",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeJSON[TranslateResponse](t, resp)
	if len(body.Translations) != 4 {
		t.Errorf("got %d translations, want 4", len(body.Translations))
	}
	if body.Translations["en-IN"] != "The train is delayed" {
		t.Errorf("source text changed: %q", body.Translations["en-IN"])
	}
	if !strings.HasPrefix(body.Translations["gu-IN"], "[gu-IN]") {
		t.Errorf("gujarati = %q", body.Translations["gu-IN"])
	}
}

func TestTranslateValidation(t *testing.T) {
	env := newTestEnv(t)
	url := env.server.URL + "/api/translate"

	for name, req := range map[string]TranslateRequest{
		"empty text": {Source: "en-IN"},
		"bad source": {Text: "hi", Source: "fr-FR"},
		"bad target": {Text: "hi", Source: "en-IN", Targets: []string{"de-DE"}},
	} {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, url, req)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestSynthesizeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env.server.URL+"/api/tts", SynthRequest{
		Text:     "Attention please",
		Language: "hi-IN",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeJSON[map[string]string](t, resp)
	if !strings.HasSuffix(body["audio_path"], ".mp3") {
		t.Errorf("audio_path = %q", body["audio_path"])
	}

	mediaResp, err := http.Get(env.server.URL + "/api/media/" + body["audio_path"])
	if err != nil {
		t.Fatal(err)
	}
	mediaResp.Body.Close()
	if mediaResp.StatusCode != http.StatusOK {
		t.Errorf("media status = %d", mediaResp.StatusCode)
	}
}

func TestCustomAudioLifecycle(t *testing.T) {
	env := newTestEnv(t)
	base := env.server.URL + "/api/audio/custom"

	resp := postJSON(t, base, CustomAudioRequest{
		Title:    "Cleanliness",
		Text:     "Please keep the station clean",
		Language: "en-IN",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeJSON[CustomAudioDTO](t, resp)

	listResp, err := http.Get(base)
	if err != nil {
		t.Fatal(err)
	}
	list := decodeJSON[[]CustomAudioDTO](t, listResp)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	req, _ := http.NewRequest(http.MethodDelete, base+"/"+created.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", delResp.StatusCode)
	}

	req2, _ := http.NewRequest(http.MethodDelete, base+"/"+created.ID, nil)
	delResp2, _ := http.DefaultClient.Do(req2)
	delResp2.Body.Close()
	if delResp2.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", delResp2.StatusCode)
	}
}

func TestSignEndpointsWithoutDataset(t *testing.T) {
	env := newTestEnv(t)

	resp := postJSON(t, env.server.URL+"/api/isl/playlist", SignRequest{Text: "train on platform"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("playlist status = %d, want 503", resp.StatusCode)
	}

	wordsResp, err := http.Get(env.server.URL + "/api/isl/words")
	if err != nil {
		t.Fatal(err)
	}
	wordsResp.Body.Close()
	if wordsResp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("words status = %d, want 503", wordsResp.StatusCode)
	}
}

func TestPlaylistLifecycle(t *testing.T) {
	env := newTestEnv(t)
	base := env.server.URL + "/api/playlists"

	resp := postJSON(t, base, PlaylistRequest{
		Name: "Morning loop",
		Items: []PlaylistItemDTO{
			{Title: "Welcome", MediaPath: "audio/welcome.mp3"},
			{Title: "Safety", MediaPath: "audio/safety.mp3"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decodeJSON[PlaylistDTO](t, resp)
	if len(created.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(created.Items))
	}

	// Reorder via PUT.
	update := PlaylistRequest{
		Name: "Morning loop",
		Items: []PlaylistItemDTO{
			{ID: created.Items[1].ID, Title: "Safety", MediaPath: "audio/safety.mp3"},
			{ID: created.Items[0].ID, Title: "Welcome", MediaPath: "audio/welcome.mp3"},
		},
	}
	req, _ := http.NewRequest(http.MethodPut, base+"/"+created.ID, jsonBody(t, update))
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	updated := decodeJSON[PlaylistDTO](t, putResp)
	if updated.Items[0].Title != "Safety" {
		t.Errorf("first item after reorder = %q", updated.Items[0].Title)
	}

	// Stored item positions follow request order.
	stored := env.store.playlists[created.ID]
	if stored.Items[0].Position != 0 || stored.Items[0].Title != "Safety" {
		t.Errorf("stored first item = %+v", stored.Items[0])
	}
}

func TestConfigRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	url := env.server.URL + "/api/config"

	getResp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	initial := decodeJSON[ConfigResponse](t, getResp)
	if len(initial.AvailableLanguages) != 4 {
		t.Errorf("available languages = %d, want 4", len(initial.AvailableLanguages))
	}

	pa := true
	resp := postJSON(t, url, ConfigRequest{
		StationName:     "Mumbai Central",
		TTSEngine:       "espeak",
		PAEnabled:       &pa,
		TargetLanguages: []string{"en-IN", "hi-IN"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post status = %d", resp.StatusCode)
	}
	updated := decodeJSON[ConfigResponse](t, resp)
	if updated.StationName != "Mumbai Central" {
		t.Errorf("station name = %q", updated.StationName)
	}
	if updated.TTSEngine != "espeak" {
		t.Errorf("tts engine = %q", updated.TTSEngine)
	}
	if !updated.PAEnabled {
		t.Error("pa_enabled not persisted")
	}
	if len(updated.TargetLanguages) != 2 {
		t.Errorf("target languages = %v", updated.TargetLanguages)
	}

	badResp := postJSON(t, url, ConfigRequest{TTSEngine: "shout"})
	badResp.Body.Close()
	if badResp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad engine status = %d, want 400", badResp.StatusCode)
	}
}

func TestNoticeExtract(t *testing.T) {
	env := newTestEnv(t)

	html := `<html><body><nav>Home | Trains</nav><main>
	<p>Train services on the Western line will remain suspended on Sunday
	between Borivali and Virar due to a traffic block.</p>
	</main><footer>Copyright</footer></body></html>`

	resp, err := http.Post(env.server.URL+"/api/notice/extract", "text/html", strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decodeJSON[NoticeResponse](t, resp)
	if !strings.Contains(body.Text, "traffic block") {
		t.Errorf("text = %q", body.Text)
	}
	if strings.Contains(body.Text, "Copyright") {
		t.Error("footer chrome leaked into extracted text")
	}
	if !body.IsReliable {
		t.Error("long notice should be reliable")
	}
}

func TestMediaTraversalRejected(t *testing.T) {
	env := newTestEnv(t)
	h := NewMediaHandler(env.media)

	for _, path := range []string{"../../etc/passwd", "/etc/passwd", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/media/x", nil)
		req.SetPathValue("path", path)
		rec := httptest.NewRecorder()
		h.HandleServe(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("path %q: status = %d, want 400", path, rec.Code)
		}
	}
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	body := decodeJSON[StatsResponse](t, resp)
	if body.Providers == nil {
		t.Error("providers map missing")
	}
}

func TestHealthAndVersion(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	vResp, err := http.Get(env.server.URL + "/api/version")
	if err != nil {
		t.Fatal(err)
	}
	v := decodeJSON[map[string]string](t, vResp)
	if v["version"] == "" {
		t.Error("version missing")
	}
}
