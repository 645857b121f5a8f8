package probe

import (
	"context"
	"errors"
	"testing"
)

func TestRunCollectsEveryResult(t *testing.T) {
	probes := []Probe{
		{
			Name:     "SQLite Schema",
			Check:    func(ctx context.Context) error { return nil },
			Critical: true,
		},
		{
			Name:     "Whisper Sidecar",
			Check:    func(ctx context.Context) error { return errors.New("connection refused") },
			Critical: false,
		},
		{
			Name:     "ffmpeg",
			Check:    func(ctx context.Context) error { return errors.New("not in PATH") },
			Critical: false,
		},
	}

	results := Run(context.Background(), probes)

	if len(results) != len(probes) {
		t.Fatalf("got %d results for %d probes", len(results), len(probes))
	}
	if results[0].Error != nil {
		t.Errorf("schema probe should pass, got: %v", results[0].Error)
	}
	for _, r := range results[1:] {
		if r.Error == nil {
			t.Errorf("%s probe should fail", r.Probe.Name)
		}
	}
}

func TestAnalyzeResults(t *testing.T) {
	fail := errors.New("unreachable")

	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name: "everything healthy",
			results: []Result{
				{Probe: Probe{Name: "SQLite Schema", Critical: true}},
				{Probe: Probe{Name: "ffmpeg", Critical: false}},
			},
			wantErr: false,
		},
		{
			name: "degraded but serving",
			results: []Result{
				{Probe: Probe{Name: "Whisper Sidecar", Critical: false}, Error: fail},
				{Probe: Probe{Name: "Gemini", Critical: false}, Error: fail},
			},
			wantErr: false,
		},
		{
			name: "critical dependency down",
			results: []Result{
				{Probe: Probe{Name: "SQLite Schema", Critical: true}, Error: fail},
			},
			wantErr: true,
		},
		{
			name: "one critical failure among passes",
			results: []Result{
				{Probe: Probe{Name: "ffmpeg", Critical: false}},
				{Probe: Probe{Name: "SQLite Schema", Critical: true}, Error: fail},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(tt.results)
			if (err != nil) != tt.wantErr {
				t.Errorf("AnalyzeResults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
