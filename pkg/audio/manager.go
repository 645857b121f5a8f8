// Package audio plays announcement audio on the station PA output.
// Playback is strictly sequential: announcements queue rather than talk
// over each other.
package audio

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// Service defines the interface for PA playback control.
type Service interface {
	// Play starts playback of an audio file, stopping anything current.
	// onComplete is called when playback finishes (not when stopped manually).
	Play(filepath string, onComplete func()) error
	// PlayQueue plays the given files back to back. Used for multilingual
	// announcements (one file per language).
	PlayQueue(paths []string) error
	// Stop stops current playback and clears the queue.
	Stop()
	// Shutdown stops playback and cleans up resources.
	Shutdown()

	// IsPlaying returns true if audio is currently playing.
	IsPlaying() bool
	// IsBusy returns true if audio is loaded or queued.
	IsBusy() bool
	// SetVolume sets playback volume (0.0 to 1.0).
	SetVolume(vol float64)
	// Volume returns current volume level.
	Volume() float64
	// Position returns the current playback position.
	Position() time.Duration
	// Duration returns the total duration of the current audio.
	Duration() time.Duration
}

// Manager implements the Service interface using gopxl/beep.
type Manager struct {
	mu                 sync.RWMutex
	ctrl               *beep.Ctrl
	volume             float64
	queue              []string
	speakerInitialized bool
	currentSampleRate  beep.SampleRate
	streamer           *effects.Volume
	trackStreamer      beep.StreamSeekCloser
	trackFormat        beep.Format
}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{
		volume: 1.0,
	}
}

// Play starts playback of an audio file.
func (m *Manager) Play(filepath string, onComplete func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playLocked(filepath, onComplete)
}

func (m *Manager) playLocked(filepath string, onComplete func()) error {
	// Stop any current playback and close the file handle
	m.stopLocked()

	streamer, format, err := decodeMedia(filepath)
	if err != nil {
		return err
	}

	// Initialize speaker once at 48kHz if not done
	if err := m.ensureSpeakerInitialized(streamer); err != nil {
		return err
	}

	// Resample streamer to target rate
	resampled := beep.Resample(3, format.SampleRate, m.currentSampleRate, streamer)

	// Wrap in Volume control
	volStreamer := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToPower(m.volume),
		Silent:   m.volume <= 0.01,
	}

	m.streamer = volStreamer
	m.trackStreamer = streamer
	m.trackFormat = format

	// Wrap in control for stop
	m.ctrl = &beep.Ctrl{Streamer: volStreamer}

	// Play with callback to clean up when done
	speaker.Play(beep.Seq(m.ctrl, beep.Callback(func() {
		// Launch goroutine to handle cleanup without blocking the speaker thread
		go func() {
			m.mu.Lock()
			m.ctrl = nil
			m.mu.Unlock()
			streamer.Close()

			if onComplete != nil {
				onComplete()
			}
		}()
	})))

	slog.Debug("PA: Playing audio", "path", filepath)
	return nil
}

// PlayQueue plays files sequentially. A failed file is logged and skipped
// so one bad asset does not mute the rest of an announcement.
func (m *Manager) PlayQueue(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("empty playback queue")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append([]string{}, paths[1:]...)
	return m.playLocked(paths[0], m.advanceQueue)
}

// advanceQueue plays the next queued file, skipping unreadable ones.
func (m *Manager) advanceQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		if err := m.playLocked(next, m.advanceQueue); err != nil {
			slog.Warn("PA: Skipping unplayable queued file", "path", next, "error", err)
			continue
		}
		return
	}
}

// Stop stops current playback and clears the queue.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = nil
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.trackStreamer != nil {
		m.trackStreamer.Close()
		m.trackStreamer = nil
	}
	if m.ctrl != nil {
		speaker.Clear()
		m.ctrl = nil
	}
}

func (m *Manager) ensureSpeakerInitialized(streamer beep.StreamSeekCloser) error {
	const targetSampleRate = 48000
	if !m.speakerInitialized {
		err := speaker.Init(beep.SampleRate(targetSampleRate), beep.SampleRate(targetSampleRate).N(time.Second/10))
		if err != nil {
			streamer.Close()
			slog.Error("Failed to initialize speaker", "error", err)
			return err
		}
		m.speakerInitialized = true
		m.currentSampleRate = beep.SampleRate(targetSampleRate)
	}
	return nil
}

// Shutdown stops playback.
func (m *Manager) Shutdown() {
	m.Stop()
}

// IsPlaying returns true if audio is currently playing.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil
}

// IsBusy returns true if audio is loaded or queued.
func (m *Manager) IsBusy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil || len(m.queue) > 0
}

// SetVolume sets playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	m.volume = vol

	// Update live streamer if playing
	if m.streamer != nil {
		speaker.Lock()
		m.streamer.Volume = volumeToPower(vol)
		m.streamer.Silent = vol <= 0.01
		speaker.Unlock()
	}
}

// Volume returns current volume level.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Position returns the current playback position.
func (m *Manager) Position() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.trackStreamer == nil || m.trackFormat.SampleRate == 0 {
		return 0
	}
	return m.trackFormat.SampleRate.D(m.trackStreamer.Position())
}

// Duration returns the total duration of the current audio.
func (m *Manager) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.trackStreamer == nil || m.trackFormat.SampleRate == 0 {
		return 0
	}
	return m.trackFormat.SampleRate.D(m.trackStreamer.Len())
}

// decodeMedia opens an audio file and decodes it as MP3 or WAV.
func decodeMedia(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	// Try MP3 first
	streamer, format, err := mp3.Decode(f)
	if err == nil {
		return streamer, format, nil
	}

	// Reopen file for WAV attempt (MP3 decode failure might leave file state uncertain)
	f.Close()
	f, err = os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	streamer, format, err = wav.Decode(f)
	if err != nil {
		f.Close()
		slog.Error("Failed to decode audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	return streamer, format, nil
}

// GetDuration returns the duration of the audio file at the given path.
func GetDuration(path string) (time.Duration, error) {
	streamer, format, err := decodeMedia(path)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}
