// Package model defines the shared data types persisted and served by the
// announcement server.
package model

import "time"

// Language is a supported announcement locale (IETF tag with Indian region).
type Language string

const (
	LangEnglish  Language = "en-IN"
	LangHindi    Language = "hi-IN"
	LangMarathi  Language = "mr-IN"
	LangGujarati Language = "gu-IN"
)

// SupportedLanguages lists the locales the dashboard offers, in display order.
func SupportedLanguages() []Language {
	return []Language{LangEnglish, LangHindi, LangMarathi, LangGujarati}
}

// Base returns the bare ISO 639-1 code ("en" for "en-IN").
func (l Language) Base() string {
	s := string(l)
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			return s[:i]
		}
	}
	return s
}

// DisplayName returns the dashboard label for the language, in the
// language's own script where applicable.
func (l Language) DisplayName() string {
	switch l {
	case LangEnglish:
		return "English"
	case LangHindi:
		return "हिंदी (Hindi)"
	case LangMarathi:
		return "मराठी (Marathi)"
	case LangGujarati:
		return "ગુજરાતી (Gujarati)"
	}
	return string(l)
}

// FromBase returns the station locale for a bare ISO 639-1 code, or
// English if the code is not one of the station languages.
func FromBase(code string) (Language, bool) {
	for _, l := range SupportedLanguages() {
		if l.Base() == code {
			return l, true
		}
	}
	return LangEnglish, false
}

// Valid reports whether l is one of the supported locales.
func (l Language) Valid() bool {
	for _, s := range SupportedLanguages() {
		if l == s {
			return true
		}
	}
	return false
}

// TrainStatus describes the event an announcement reports.
type TrainStatus string

const (
	StatusArriving       TrainStatus = "arriving"
	StatusDeparting      TrainStatus = "departing"
	StatusDelayed        TrainStatus = "delayed"
	StatusPlatformChange TrainStatus = "platform_change"
	StatusCancelled      TrainStatus = "cancelled"
)

// Announcement is one multilingual PA message bundle: the per-language
// texts plus the media assets generated for them.
type Announcement struct {
	ID          string
	TrainNumber string
	TrainName   string
	Platform    string
	Status      TrainStatus
	Texts       map[Language]string
	AudioPaths  map[Language]string
	ISLVideo    string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomAudio is a one-off synthesized recording saved from the custom
// audio page.
type CustomAudio struct {
	ID        string
	Title     string
	Language  Language
	Text      string
	AudioPath string
	CreatedAt time.Time
}

// Playlist is an ordered collection of media files (the podcast page).
type Playlist struct {
	ID        string
	Name      string
	Items     []PlaylistItem
	CreatedAt time.Time
}

// PlaylistItem is one entry of a Playlist. Position is zero-based.
type PlaylistItem struct {
	ID        string
	Position  int
	Title     string
	MediaPath string
}

// Transcript is the result of speech recognition over an audio file.
type Transcript struct {
	Language     Language
	LanguageName string
	Confidence   float64
	Text         string
}
