package announcement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"railsetu/pkg/config"
	"railsetu/pkg/isl"
	"railsetu/pkg/llm"
	"railsetu/pkg/llm/prompts"
	"railsetu/pkg/media"
	"railsetu/pkg/model"
	"railsetu/pkg/store"
	"railsetu/pkg/translate"
	"railsetu/pkg/tts"
	"railsetu/pkg/video"
)

// Notifier delivers announcement lifecycle events to live dashboard
// clients. Implemented by the websocket hub.
type Notifier interface {
	Notify(event string, payload any)
}

// Player queues announcement audio on the PA output.
type Player interface {
	PlayQueue(paths []string) error
}

// Service runs the announcement pipeline: compose or accept text,
// translate it, synthesize per-language audio, stitch the sign video, and
// persist the bundle.
type Service struct {
	cfg        config.Provider
	store      store.Store
	translator translate.Translator
	tts        tts.Provider
	dataset    *isl.Dataset
	stitcher   *video.Stitcher
	media      *media.Store
	llm        llm.Provider // nil when polish is disabled
	pa         Player       // nil when no PA output is attached
	notifier   Notifier     // nil when no live clients are possible
}

// NewService wires the announcement pipeline.
func NewService(cfg config.Provider, st store.Store, tr translate.Translator, synth tts.Provider,
	dataset *isl.Dataset, stitcher *video.Stitcher, assets *media.Store) *Service {
	return &Service{
		cfg:        cfg,
		store:      st,
		translator: tr,
		tts:        synth,
		dataset:    dataset,
		stitcher:   stitcher,
		media:      assets,
	}
}

// SetLLM attaches the polish/gloss model.
func (s *Service) SetLLM(p llm.Provider) { s.llm = p }

// SetPlayer attaches the PA output.
func (s *Service) SetPlayer(p Player) { s.pa = p }

// SetNotifier attaches the live event sink.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// CreateRequest describes a new announcement. Exactly one of Details or
// Text drives the source text: Details renders the standard template,
// Text is operator free text in Language.
type CreateRequest struct {
	Details  *Details
	Text     string
	Language model.Language
}

// Create runs the full pipeline and persists the result unpublished.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Announcement, error) {
	a := &model.Announcement{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.generate(ctx, a, req); err != nil {
		return nil, err
	}

	if err := s.store.SaveAnnouncement(ctx, a); err != nil {
		s.media.RemoveAll(assetPaths(a))
		return nil, fmt.Errorf("failed to save announcement: %w", err)
	}

	s.notify("announcement.created", a)
	return a, nil
}

// Update re-runs the pipeline for an existing announcement and replaces
// its generated assets.
func (s *Service) Update(ctx context.Context, id string, req CreateRequest) (*model.Announcement, error) {
	existing, err := s.store.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, store.ErrNotFound
	}

	oldAssets := assetPaths(existing)

	a := &model.Announcement{
		ID:        existing.ID,
		Published: existing.Published,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.generate(ctx, a, req); err != nil {
		return nil, err
	}

	if err := s.store.SaveAnnouncement(ctx, a); err != nil {
		s.media.RemoveAll(assetPaths(a))
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}

	s.media.RemoveAll(oldAssets)
	s.notify("announcement.updated", a)
	return a, nil
}

// Delete removes an announcement and its generated assets.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return store.ErrNotFound
	}

	s.media.RemoveAll(assetPaths(deleted))
	s.notify("announcement.deleted", map[string]string{"id": id})
	return nil
}

// Publish marks the announcement live, pushes it to dashboard clients,
// and queues its audio on the PA when one is attached.
func (s *Service) Publish(ctx context.Context, id string) (*model.Announcement, error) {
	a, err := s.store.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, store.ErrNotFound
	}

	if err := s.store.MarkPublished(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	a.Published = true

	s.notify("announcement.published", a)

	if s.pa != nil && s.cfg.PAEnabled(ctx) {
		var files []string
		for _, lang := range model.SupportedLanguages() {
			rel := a.AudioPaths[lang]
			if rel == "" {
				continue
			}
			abs, err := s.media.Resolve(rel)
			if err != nil {
				slog.Warn("Publish: unresolvable audio asset", "id", id, "lang", lang, "error", err)
				continue
			}
			files = append(files, abs)
		}
		if len(files) > 0 {
			if err := s.pa.PlayQueue(files); err != nil {
				slog.Warn("Publish: PA playback failed", "id", id, "error", err)
			}
		}
	}

	return a, nil
}

// generate fills a with texts, audio, and the sign video for the request.
func (s *Service) generate(ctx context.Context, a *model.Announcement, req CreateRequest) error {
	var texts map[model.Language]string
	var source model.Language
	var sourceText string

	targets := s.cfg.TargetLanguages(ctx)

	switch {
	case req.Details != nil:
		d := *req.Details
		a.TrainNumber = d.TrainNumber
		a.TrainName = d.TrainName
		a.Platform = d.Platform
		a.Status = d.Status

		var err error
		texts, err = ComposeAll(d, targets)
		if err != nil {
			return err
		}
		source = model.LangEnglish
		// The sign gloss always works from English phrasing, even when
		// English is not among the target languages.
		sourceText, err = Compose(d, model.LangEnglish)
		if err != nil {
			return err
		}

	case strings.TrimSpace(req.Text) != "":
		source = req.Language
		if !source.Valid() {
			return fmt.Errorf("unsupported source language: %s", source)
		}
		sourceText = strings.TrimSpace(req.Text)

		if s.llm != nil && s.cfg.PolishEnabled(ctx) {
			polished, err := s.llm.GenerateText(ctx, "polish", prompts.Polish(sourceText, source))
			if err != nil {
				slog.Warn("Polish failed, using raw text", "error", err)
			} else if polished != "" {
				sourceText = polished
			}
		}

		var err error
		texts, err = translate.All(ctx, s.translator, sourceText, source, targets)
		if err != nil {
			// Partial translations are kept; the operator sees which
			// languages are missing and can retry.
			slog.Warn("Announcement translated partially", "error", err)
		}

	default:
		return fmt.Errorf("announcement needs either details or text")
	}

	a.Texts = texts
	a.UpdatedAt = time.Now().UTC()

	// Synthesize audio for every language we have text for. One failed
	// language does not sink the bundle.
	a.AudioPaths = make(map[model.Language]string)
	for _, lang := range model.SupportedLanguages() {
		text, ok := texts[lang]
		if !ok || text == "" {
			continue
		}
		rel, abs := s.media.NewAudioPath("")
		format, err := s.tts.Synthesize(ctx, text, lang, abs)
		if err != nil {
			slog.Warn("Synthesis failed for language", "lang", lang, "error", err)
			continue
		}
		a.AudioPaths[lang] = rel + "." + format
	}

	// Sign video from the English text (or the source text if English is
	// missing).
	signText := texts[model.LangEnglish]
	if signText == "" {
		signText = sourceText
	}
	if videoPath, err := s.buildSignVideo(ctx, signText); err != nil {
		slog.Warn("Sign video generation skipped", "error", err)
	} else {
		a.ISLVideo = videoPath
	}

	return nil
}

// buildSignVideo glosses the text, builds the clip playlist, and stitches
// the video. Returns the root-relative asset path.
func (s *Service) buildSignVideo(ctx context.Context, text string) (string, error) {
	if s.dataset == nil || s.stitcher == nil {
		return "", fmt.Errorf("sign pipeline not configured")
	}

	glossed := text
	if s.llm != nil && s.cfg.PolishEnabled(ctx) {
		g, err := s.llm.GenerateText(ctx, "gloss", prompts.Gloss(text))
		if err != nil {
			slog.Warn("Gloss failed, using raw text", "error", err)
		} else if g != "" {
			glossed = g
		}
	}

	playlist := s.dataset.Build(glossed)
	if len(playlist.Unmatched) > 0 {
		slog.Info("Sign playlist has unmatched words", "words", playlist.Unmatched)
	}
	if len(playlist.Clips) == 0 {
		return "", fmt.Errorf("no sign clips matched text")
	}

	rel, abs := s.media.NewVideoPath("mp4")
	skipped, err := s.stitcher.Stitch(ctx, playlist.Clips, abs)
	if err != nil {
		return "", err
	}
	if len(skipped) > 0 {
		slog.Warn("Sign video stitched without some clips", "skipped", skipped)
	}
	return rel, nil
}

// BuildPlaylist exposes the playlist builder for the dashboard preview.
func (s *Service) BuildPlaylist(text string) (*isl.Playlist, error) {
	if s.dataset == nil {
		return nil, fmt.Errorf("sign dataset not loaded")
	}
	return s.dataset.Build(text), nil
}

// BuildVideo renders a standalone sign video for arbitrary text and
// returns the root-relative asset path plus the unmatched words.
func (s *Service) BuildVideo(ctx context.Context, text string) (string, []string, error) {
	if s.dataset == nil || s.stitcher == nil {
		return "", nil, fmt.Errorf("sign pipeline not configured")
	}

	playlist := s.dataset.Build(text)
	if len(playlist.Clips) == 0 {
		return "", playlist.Unmatched, fmt.Errorf("no sign clips matched text")
	}

	rel, abs := s.media.NewVideoPath("mp4")
	skipped, err := s.stitcher.Stitch(ctx, playlist.Clips, abs)
	if err != nil {
		return "", playlist.Unmatched, err
	}
	unmatched := append(playlist.Unmatched, skipped...)
	return rel, unmatched, nil
}

// CreateCustomAudio synthesizes a one-off recording and persists it.
func (s *Service) CreateCustomAudio(ctx context.Context, title, text string, lang model.Language) (*model.CustomAudio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	if !lang.Valid() {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	rel, abs := s.media.NewAudioPath("")
	format, err := s.tts.Synthesize(ctx, text, lang, abs)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	ca := &model.CustomAudio{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Language:  lang,
		Text:      text,
		AudioPath: rel + "." + format,
		CreatedAt: time.Now().UTC(),
	}
	if ca.Title == "" {
		ca.Title = firstWords(text, 6)
	}

	if err := s.store.SaveCustomAudio(ctx, ca); err != nil {
		s.media.RemoveAll([]string{ca.AudioPath})
		return nil, fmt.Errorf("failed to save custom audio: %w", err)
	}
	return ca, nil
}

// DeleteCustomAudio removes a recording and its asset.
func (s *Service) DeleteCustomAudio(ctx context.Context, id string) error {
	ca, err := s.store.DeleteCustomAudio(ctx, id)
	if err != nil {
		return err
	}
	if ca == nil {
		return store.ErrNotFound
	}
	s.media.RemoveAll([]string{ca.AudioPath})
	return nil
}

func (s *Service) notify(event string, payload any) {
	if s.notifier != nil {
		s.notifier.Notify(event, payload)
	}
}

// assetPaths collects every media path an announcement owns.
func assetPaths(a *model.Announcement) []string {
	var paths []string
	for _, p := range a.AudioPaths {
		paths = append(paths, p)
	}
	if a.ISLVideo != "" {
		paths = append(paths, a.ISLVideo)
	}
	return paths
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
