package api

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"railsetu/internal/ui"
	"railsetu/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, ann *AnnouncementHandler, tr *TranslateHandler, sp *SpeechHandler,
	synth *SynthHandler, sign *SignHandler, pl *PlaylistHandler, mediaH *MediaHandler,
	pa *PAHandler, cfg *ConfigHandler, stats *StatsHandler, live *LiveHandler,
	notice *NoticeHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health and version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Config, stats, logs
	mux.HandleFunc("/api/config", cfg.HandleConfig)
	mux.Handle("GET /api/stats", stats)
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// 3. Announcements
	mux.HandleFunc("GET /api/announcements", ann.HandleList)
	mux.HandleFunc("POST /api/announcements", ann.HandleCreate)
	mux.HandleFunc("GET /api/announcements/{id}", ann.HandleGet)
	mux.HandleFunc("PUT /api/announcements/{id}", ann.HandleUpdate)
	mux.HandleFunc("DELETE /api/announcements/{id}", ann.HandleDelete)
	mux.HandleFunc("POST /api/announcements/{id}/publish", ann.HandlePublish)
	mux.HandleFunc("POST /api/announcements/compose", ann.HandleCompose)

	// 4. Translation and speech
	mux.HandleFunc("POST /api/translate", tr.HandleTranslate)
	if sp != nil {
		mux.HandleFunc("POST /api/speech/upload", sp.HandleUpload)
		mux.HandleFunc("POST /api/speech/detect-language", sp.HandleDetectLanguage)
		mux.HandleFunc("POST /api/speech/transcribe", sp.HandleTranscribe)
	}

	// 5. Synthesis and custom audio
	mux.HandleFunc("POST /api/tts", synth.HandleSynthesize)
	mux.HandleFunc("GET /api/tts/voices", synth.HandleVoices)
	mux.HandleFunc("GET /api/audio/custom", synth.HandleListCustom)
	mux.HandleFunc("POST /api/audio/custom", synth.HandleCreateCustom)
	mux.HandleFunc("DELETE /api/audio/custom/{id}", synth.HandleDeleteCustom)

	// 6. Sign language
	mux.HandleFunc("POST /api/isl/playlist", sign.HandlePlaylist)
	mux.HandleFunc("POST /api/isl/video", sign.HandleVideo)
	mux.HandleFunc("GET /api/isl/words", sign.HandleWords)

	// 7. Podcast playlists
	mux.HandleFunc("GET /api/playlists", pl.HandleList)
	mux.HandleFunc("POST /api/playlists", pl.HandleCreate)
	mux.HandleFunc("GET /api/playlists/{id}", pl.HandleGet)
	mux.HandleFunc("PUT /api/playlists/{id}", pl.HandleUpdate)
	mux.HandleFunc("DELETE /api/playlists/{id}", pl.HandleDelete)

	// 8. Media assets
	mux.HandleFunc("GET /api/media/{path...}", mediaH.HandleServe)

	// 9. Station PA
	if pa != nil {
		mux.HandleFunc("POST /api/pa/control", pa.HandleControl)
		mux.HandleFunc("POST /api/pa/volume", pa.HandleVolume)
		mux.HandleFunc("GET /api/pa/status", pa.HandleStatus)
	}

	// 10. Live announcement feed
	mux.HandleFunc("GET /api/live", live.HandleWS)

	// 11. Notice board extraction
	mux.HandleFunc("POST /api/notice/extract", notice.HandleExtract)

	// 12. Shutdown
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 13. Static frontend serving (SPA)
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}

	spaFS := &spaFileSystem{root: http.FS(distFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// Media serving and synthesis can take a while.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError sends a JSON error payload.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
