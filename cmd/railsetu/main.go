package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"railsetu/internal/api"
	"railsetu/pkg/announcement"
	"railsetu/pkg/audio"
	"railsetu/pkg/config"
	"railsetu/pkg/db"
	"railsetu/pkg/db/maintenance"
	"railsetu/pkg/isl"
	"railsetu/pkg/llm/gemini"
	"railsetu/pkg/logging"
	"railsetu/pkg/media"
	"railsetu/pkg/probe"
	"railsetu/pkg/request"
	"railsetu/pkg/speech"
	"railsetu/pkg/store"
	"railsetu/pkg/tracker"
	"railsetu/pkg/translate"
	"railsetu/pkg/tts"
	"railsetu/pkg/version"
	"railsetu/pkg/video"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

const configPath = "configs/railsetu.yaml"

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: " + configPath)
		return
	}

	if err := run(context.Background(), configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// API keys may live in a .env next to the binary. Missing file is fine.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	tts.SetLogPath(appCfg.Log.TTS.Path)

	slog.Info("RailSetu Started", "version", version.Version)

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	assets, err := media.NewStore(appCfg.Media.Root)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	if err := maintenance.Run(ctx, st, dbConn, assets); err != nil {
		slog.Error("Maintenance tasks failed", "error", err)
	}

	tr := tracker.New()
	reqClient := request.New(st, tr, request.ClientConfig{
		Retries:   appCfg.Request.Retries,
		Timeout:   time.Duration(appCfg.Request.Timeout),
		BaseDelay: time.Duration(appCfg.Request.Backoff.BaseDelay),
		MaxDelay:  time.Duration(appCfg.Request.Backoff.MaxDelay),
	})
	cfgProv := config.NewProvider(appCfg, st)

	svc, deps, err := initPipeline(ctx, appCfg, cfgProv, st, reqClient, tr, assets)
	if err != nil {
		return err
	}

	// PA output
	var audioMgr audio.Service
	if appCfg.PA.Enabled {
		audioMgr = audio.New()
		defer audioMgr.Shutdown()
		svc.SetPlayer(audioMgr)
		restoreVolume(ctx, st, audioMgr)
	}

	// Startup probes
	if err := runProbes(ctx, appCfg, deps); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	return runServer(ctx, appCfg, cfgProv, svc, deps, st, tr, assets, audioMgr)
}

// pipelineDeps holds the components main wires into handlers and probes.
type pipelineDeps struct {
	translator translate.Translator
	tts        tts.Provider
	dataset    *isl.Dataset
	stitcher   *video.Stitcher
	recognizer speech.Recognizer
	llm        *gemini.Client
}

func initPipeline(ctx context.Context, cfg *config.Config, cfgProv config.Provider,
	st store.Store, reqClient *request.Client, tr *tracker.Tracker, assets *media.Store) (*announcement.Service, *pipelineDeps, error) {
	translator, err := announcement.NewTranslator(cfg.Translate, reqClient, tr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize translator: %w", err)
	}
	if _, ok := translator.(translate.Mock); ok {
		slog.Warn("Using mock translator, announcements will not be translated")
	}

	ttsProv, err := announcement.NewTTSProvider(ctx, cfg.TTS, tr, cfgProv)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize TTS provider: %w", err)
	}

	deps := &pipelineDeps{translator: translator, tts: ttsProv}

	deps.dataset, err = isl.LoadDataset(cfg.ISL.DatasetDir)
	if err != nil {
		slog.Warn("Sign dataset not loaded, sign video generation disabled", "dir", cfg.ISL.DatasetDir, "error", err)
		deps.dataset = nil
	}

	deps.stitcher = video.NewStitcher(cfg.ISL)
	if !deps.stitcher.Available() {
		slog.Warn("ffmpeg not found, sign video generation disabled")
		deps.stitcher = nil
	}

	deps.recognizer, err = speech.NewRecognizer(ctx, cfg.Speech, reqClient)
	if err != nil {
		slog.Warn("Speech recognition disabled", "error", err)
		deps.recognizer = nil
	}

	svc := announcement.NewService(cfgProv, st, translator, ttsProv, deps.dataset, deps.stitcher, assets)

	if cfg.LLM.Enabled {
		llmClient, err := gemini.NewClient(cfg.LLM, "logs/llm.log", tr)
		if err != nil {
			slog.Warn("LLM polish disabled", "error", err)
		} else {
			deps.llm = llmClient
			svc.SetLLM(llmClient)
		}
	}

	return svc, deps, nil
}

func restoreVolume(ctx context.Context, st store.Store, audioMgr audio.Service) {
	volStr, _ := st.GetState(ctx, config.KeyVolume)
	if volStr == "" {
		return
	}
	var val float64
	if _, err := fmt.Sscanf(volStr, "%f", &val); err == nil {
		audioMgr.SetVolume(val)
	}
}

func runProbes(ctx context.Context, cfg *config.Config, deps *pipelineDeps) error {
	var probes []probe.Probe

	if deps.llm != nil {
		probes = append(probes, probe.Probe{
			Name:     "LLM Provider",
			Check:    deps.llm.HealthCheck,
			Critical: false, // polish is optional, pipeline runs without it
		})
	}

	if w, ok := deps.recognizer.(*speech.Whisper); ok {
		probes = append(probes, probe.Probe{
			Name: "Whisper Sidecar",
			Check: func(ctx context.Context) error {
				if !w.Healthy(ctx) {
					return fmt.Errorf("sidecar unreachable or model not loaded")
				}
				return nil
			},
			Critical: false,
		})
	}

	if deps.stitcher == nil {
		probes = append(probes, probe.Probe{
			Name:     "Sign Video (ffmpeg)",
			Check:    func(context.Context) error { return fmt.Errorf("ffmpeg not found in PATH or config") },
			Critical: false,
		})
	}

	if len(probes) == 0 {
		return nil
	}

	results := probe.Run(ctx, probes)
	return probe.AnalyzeResults(results)
}

func runServer(ctx context.Context, cfg *config.Config, cfgProv config.Provider,
	svc *announcement.Service, deps *pipelineDeps, st store.Store, tr *tracker.Tracker,
	assets *media.Store, audioMgr audio.Service) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	live := api.NewLiveHandler()
	svc.SetNotifier(live)

	var speechH *api.SpeechHandler
	if deps.recognizer != nil {
		speechH = api.NewSpeechHandler(deps.recognizer, assets, cfg.Media.MaxUploadMB)
	}
	var paH *api.PAHandler
	if audioMgr != nil {
		paH = api.NewPAHandler(audioMgr, assets, st)
	}

	srv := api.NewServer(cfg.Server.Address,
		api.NewAnnouncementHandler(svc, st),
		api.NewTranslateHandler(deps.translator),
		speechH,
		api.NewSynthHandler(deps.tts, svc, st, assets),
		api.NewSignHandler(svc, deps.dataset),
		api.NewPlaylistHandler(st),
		api.NewMediaHandler(assets),
		paH,
		api.NewConfigHandler(st, cfgProv),
		api.NewStatsHandler(tr, deps.dataset, live),
		live,
		api.NewNoticeHandler(),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
