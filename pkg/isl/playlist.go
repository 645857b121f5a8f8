package isl

import (
	"strings"
	"unicode"
)

// Clip is one sign video scheduled for playback.
type Clip struct {
	Word string `json:"word"`
	Path string `json:"path"`
}

// Playlist is the sign rendition of an announcement: the clips to play in
// order, plus the words no clip exists for.
type Playlist struct {
	Clips     []Clip   `json:"clips"`
	Unmatched []string `json:"unmatched"`
}

// Build tokenizes announcement text and resolves it against the dataset,
// longest phrase first: "platform number" prefers the Platform_Number clip
// over separate "platform" and "number" clips. Numbers are spelled digit
// by digit ("12" plays "1" then "2"). Words without a clip are reported in
// Unmatched, never dropped silently.
func (ds *Dataset) Build(text string) *Playlist {
	pl := &Playlist{}
	tokens := tokenize(text)

	for i := 0; i < len(tokens); {
		if phrase, n, ok := ds.matchPhrase(tokens[i:]); ok {
			pl.Clips = append(pl.Clips, Clip{Word: phrase, Path: ds.index[phrase]})
			i += n
			continue
		}

		token := tokens[i]
		i++

		if path, ok := ds.Lookup(token); ok {
			pl.Clips = append(pl.Clips, Clip{Word: token, Path: path})
			continue
		}

		if isNumeric(token) {
			matchedAll := true
			var digits []Clip
			for _, d := range token {
				if path, ok := ds.Lookup(string(d)); ok {
					digits = append(digits, Clip{Word: string(d), Path: path})
				} else {
					matchedAll = false
					break
				}
			}
			if matchedAll {
				pl.Clips = append(pl.Clips, digits...)
				continue
			}
		}

		pl.Unmatched = append(pl.Unmatched, token)
	}

	return pl
}

// matchPhrase finds the longest indexed multi-word phrase starting at
// tokens[0], returning the phrase and how many tokens it consumed.
// Single words are left to the caller's word and digit handling.
func (ds *Dataset) matchPhrase(tokens []string) (string, int, bool) {
	n := ds.maxWords
	if n > len(tokens) {
		n = len(tokens)
	}
	for ; n > 1; n-- {
		phrase := strings.Join(tokens[:n], " ")
		if _, ok := ds.index[phrase]; ok {
			return phrase, n, true
		}
	}
	return "", 0, false
}

// tokenize lowercases text and splits it into sign lookup tokens,
// stripping punctuation but keeping digits attached to each other so
// train numbers stay intact until digit expansion.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, text)
	return strings.Fields(cleaned)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
