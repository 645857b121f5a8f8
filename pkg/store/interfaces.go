package store

import (
	"context"
	"time"

	"railsetu/pkg/model"
)

// AnnouncementStore persists multilingual announcement bundles.
type AnnouncementStore interface {
	GetAnnouncement(ctx context.Context, id string) (*model.Announcement, error)
	ListAnnouncements(ctx context.Context, limit int) ([]*model.Announcement, error)
	SaveAnnouncement(ctx context.Context, a *model.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) (*model.Announcement, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
}

// CustomAudioStore persists one-off synthesized recordings.
type CustomAudioStore interface {
	GetCustomAudio(ctx context.Context, id string) (*model.CustomAudio, error)
	ListCustomAudio(ctx context.Context) ([]*model.CustomAudio, error)
	SaveCustomAudio(ctx context.Context, c *model.CustomAudio) error
	DeleteCustomAudio(ctx context.Context, id string) (*model.CustomAudio, error)
}

// PlaylistStore persists podcast playlists and their ordered items.
type PlaylistStore interface {
	GetPlaylist(ctx context.Context, id string) (*model.Playlist, error)
	ListPlaylists(ctx context.Context) ([]*model.Playlist, error)
	SavePlaylist(ctx context.Context, p *model.Playlist) error
	DeletePlaylist(ctx context.Context, id string) (*model.Playlist, error)
}

// CacheStore is the generic byte cache used by the request client.
type CacheStore interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	HasCache(ctx context.Context, key string) (bool, error)
	SetCache(ctx context.Context, key string, val []byte) error
	ListCacheKeys(ctx context.Context, prefix string) ([]string, error)
}

// StateStore holds small persistent key/value state (volume, settings).
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// MediaLister enumerates all media paths referenced by persisted records.
// Used by maintenance to detect orphaned files.
type MediaLister interface {
	ListReferencedMedia(ctx context.Context) ([]string, error)
}

// Store defines the repository interface.
// It composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	AnnouncementStore
	CustomAudioStore
	PlaylistStore
	CacheStore
	StateStore
	MediaLister

	// Close closes the store connection.
	Close() error
}
