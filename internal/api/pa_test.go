package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"railsetu/pkg/audio"
	"railsetu/pkg/config"
)

// fakeAudio records playback commands without touching a sound device.
type fakeAudio struct {
	playing bool
	volume  float64
	played  []string
}

var _ audio.Service = (*fakeAudio)(nil)

func (f *fakeAudio) Play(path string, _ func()) error {
	f.played = append(f.played, path)
	f.playing = true
	return nil
}

func (f *fakeAudio) PlayQueue(paths []string) error {
	f.played = append(f.played, paths...)
	f.playing = true
	return nil
}

func (f *fakeAudio) Stop()                   { f.playing = false }
func (f *fakeAudio) Shutdown()               {}
func (f *fakeAudio) IsPlaying() bool         { return f.playing }
func (f *fakeAudio) IsBusy() bool            { return f.playing }
func (f *fakeAudio) SetVolume(vol float64)   { f.volume = vol }
func (f *fakeAudio) Volume() float64         { return f.volume }
func (f *fakeAudio) Position() time.Duration { return 0 }
func (f *fakeAudio) Duration() time.Duration { return 0 }

func TestPAVolumePersistsUnderRegistryKey(t *testing.T) {
	st := newFakeStore()
	spk := &fakeAudio{}
	h := NewPAHandler(spk, nil, st)

	req := httptest.NewRequest(http.MethodPost, "/api/pa/volume", strings.NewReader(`{"volume":0.4}`))
	rec := httptest.NewRecorder()
	h.HandleVolume(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if spk.volume != 0.4 {
		t.Errorf("speaker volume = %v, want 0.4", spk.volume)
	}

	// The persisted value must live under the registry key that the
	// startup volume restore reads back.
	val, ok := st.GetState(context.Background(), config.KeyVolume)
	if !ok {
		t.Fatalf("no state stored under %q", config.KeyVolume)
	}
	if val != "0.40" {
		t.Errorf("stored volume = %q, want %q", val, "0.40")
	}
}

func TestPAControlStop(t *testing.T) {
	spk := &fakeAudio{playing: true}
	h := NewPAHandler(spk, nil, newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/pa/control", strings.NewReader(`{"action":"stop"}`))
	rec := httptest.NewRecorder()
	h.HandleControl(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if spk.playing {
		t.Error("stop action should halt playback")
	}
}
