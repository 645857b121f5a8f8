package api

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"sort"
	"testing"
	"time"

	"railsetu/pkg/announcement"
	"railsetu/pkg/config"
	"railsetu/pkg/media"
	"railsetu/pkg/model"
	"railsetu/pkg/store"
	"railsetu/pkg/tracker"
	"railsetu/pkg/translate"
	"railsetu/pkg/tts"
)

// fakeStore is an in-memory store.Store for handler tests.
type fakeStore struct {
	announcements map[string]*model.Announcement
	custom        map[string]*model.CustomAudio
	playlists     map[string]*model.Playlist
	state         map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		announcements: make(map[string]*model.Announcement),
		custom:        make(map[string]*model.CustomAudio),
		playlists:     make(map[string]*model.Playlist),
		state:         make(map[string]string),
	}
}

func (f *fakeStore) GetAnnouncement(_ context.Context, id string) (*model.Announcement, error) {
	return f.announcements[id], nil
}

func (f *fakeStore) ListAnnouncements(_ context.Context, limit int) ([]*model.Announcement, error) {
	var out []*model.Announcement
	for _, a := range f.announcements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) SaveAnnouncement(_ context.Context, a *model.Announcement) error {
	f.announcements[a.ID] = a
	return nil
}

func (f *fakeStore) DeleteAnnouncement(_ context.Context, id string) (*model.Announcement, error) {
	a := f.announcements[id]
	delete(f.announcements, id)
	return a, nil
}

func (f *fakeStore) MarkPublished(_ context.Context, id string, _ time.Time) error {
	a := f.announcements[id]
	if a == nil {
		return fmt.Errorf("no such announcement: %s", id)
	}
	a.Published = true
	return nil
}

func (f *fakeStore) GetCustomAudio(_ context.Context, id string) (*model.CustomAudio, error) {
	return f.custom[id], nil
}

func (f *fakeStore) ListCustomAudio(_ context.Context) ([]*model.CustomAudio, error) {
	var out []*model.CustomAudio
	for _, c := range f.custom {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) SaveCustomAudio(_ context.Context, c *model.CustomAudio) error {
	f.custom[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCustomAudio(_ context.Context, id string) (*model.CustomAudio, error) {
	c := f.custom[id]
	delete(f.custom, id)
	return c, nil
}

func (f *fakeStore) GetPlaylist(_ context.Context, id string) (*model.Playlist, error) {
	return f.playlists[id], nil
}

func (f *fakeStore) ListPlaylists(_ context.Context) ([]*model.Playlist, error) {
	var out []*model.Playlist
	for _, p := range f.playlists {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) SavePlaylist(_ context.Context, p *model.Playlist) error {
	f.playlists[p.ID] = p
	return nil
}

func (f *fakeStore) DeletePlaylist(_ context.Context, id string) (*model.Playlist, error) {
	p := f.playlists[id]
	delete(f.playlists, id)
	return p, nil
}

func (f *fakeStore) GetCache(context.Context, string) ([]byte, bool)         { return nil, false }
func (f *fakeStore) HasCache(context.Context, string) (bool, error)          { return false, nil }
func (f *fakeStore) SetCache(context.Context, string, []byte) error          { return nil }
func (f *fakeStore) ListCacheKeys(context.Context, string) ([]string, error) { return nil, nil }
func (f *fakeStore) ListReferencedMedia(context.Context) ([]string, error)   { return nil, nil }
func (f *fakeStore) Close() error                                            { return nil }

func (f *fakeStore) GetState(_ context.Context, key string) (string, bool) {
	v, ok := f.state[key]
	return v, ok
}

func (f *fakeStore) SetState(_ context.Context, key, val string) error {
	f.state[key] = val
	return nil
}

func (f *fakeStore) DeleteState(_ context.Context, key string) error {
	delete(f.state, key)
	return nil
}

var _ store.Store = (*fakeStore)(nil)

// fakeTTS writes the text as bytes and reports mp3.
type fakeTTS struct{}

func (fakeTTS) Synthesize(_ context.Context, text string, _ model.Language, outputPath string) (string, error) {
	return "mp3", os.WriteFile(outputPath+".mp3", []byte(text), 0o644)
}

func (fakeTTS) Voices(context.Context) ([]tts.Voice, error) {
	return []tts.Voice{{Name: "test-voice", Language: "en-IN"}}, nil
}

// testEnv bundles everything the handler tests need.
type testEnv struct {
	server *httptest.Server
	store  *fakeStore
	media  *media.Store
}

// newTestEnv wires the full API server with in-memory fakes. The sign
// pipeline is left unconfigured; its endpoints answer 503.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := newFakeStore()
	assets, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("media store: %v", err)
	}

	cfgProv := config.NewProvider(config.DefaultConfig(), st)
	svc := announcement.NewService(cfgProv, st, translate.Mock{}, fakeTTS{}, nil, nil, assets)
	live := NewLiveHandler()
	svc.SetNotifier(live)
	trk := tracker.New()

	srv := NewServer("localhost:0",
		NewAnnouncementHandler(svc, st),
		NewTranslateHandler(translate.Mock{}),
		nil, // no speech recognizer in tests
		NewSynthHandler(fakeTTS{}, svc, st, assets),
		NewSignHandler(svc, nil),
		NewPlaylistHandler(st),
		NewMediaHandler(assets),
		nil, // no PA output in tests
		NewConfigHandler(st, cfgProv),
		NewStatsHandler(trk, nil, live),
		live,
		NewNoticeHandler(),
		func() {},
	)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, store: st, media: assets}
}
