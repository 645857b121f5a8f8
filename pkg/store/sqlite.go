package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"railsetu/pkg/cache"
	"railsetu/pkg/db"
	"railsetu/pkg/model"
)

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Announcements ---

const announcementCols = `id, train_number, train_name, platform, status, texts, audio_paths, isl_video, published, created_at, updated_at`

func scanAnnouncement(scan func(dest ...any) error) (*model.Announcement, error) {
	var a model.Announcement
	var textsJSON, audioJSON string
	var islVideo sql.NullString
	var updatedAt sql.NullTime

	err := scan(
		&a.ID, &a.TrainNumber, &a.TrainName, &a.Platform, &a.Status,
		&textsJSON, &audioJSON, &islVideo, &a.Published, &a.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if textsJSON != "" {
		_ = json.Unmarshal([]byte(textsJSON), &a.Texts)
	}
	if audioJSON != "" {
		_ = json.Unmarshal([]byte(audioJSON), &a.AudioPaths)
	}
	if islVideo.Valid {
		a.ISLVideo = islVideo.String
	}
	if updatedAt.Valid {
		a.UpdatedAt = updatedAt.Time
	}
	return &a, nil
}

func (s *SQLiteStore) GetAnnouncement(ctx context.Context, id string) (*model.Announcement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+announcementCols+` FROM announcements WHERE id = ?`, id)

	a, err := scanAnnouncement(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	return a, err
}

func (s *SQLiteStore) ListAnnouncements(ctx context.Context, limit int) ([]*model.Announcement, error) {
	query := `SELECT ` + announcementCols + ` FROM announcements ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) SaveAnnouncement(ctx context.Context, a *model.Announcement) error {
	textsJSON, _ := json.Marshal(a.Texts)
	audioJSON, _ := json.Marshal(a.AudioPaths)

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT OR REPLACE INTO announcements (
		id, train_number, train_name, platform, status, texts, audio_paths,
		isl_video, published, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.TrainNumber, a.TrainName, a.Platform, a.Status,
		string(textsJSON), string(audioJSON), a.ISLVideo, a.Published,
		createdAt, time.Now(),
	)
	return err
}

// DeleteAnnouncement removes the row and returns the deleted record so the
// caller can clean up its media assets.
func (s *SQLiteStore) DeleteAnnouncement(ctx context.Context, id string) (*model.Announcement, error) {
	a, err := s.GetAnnouncement(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	return a, err
}

func (s *SQLiteStore) MarkPublished(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE announcements SET published = 1, updated_at = ? WHERE id = ?`, at, id)
	return err
}

// --- Custom Audio ---

func (s *SQLiteStore) GetCustomAudio(ctx context.Context, id string) (*model.CustomAudio, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, language, text, audio_path, created_at FROM custom_audio WHERE id = ?`, id)

	var c model.CustomAudio
	err := row.Scan(&c.ID, &c.Title, &c.Language, &c.Text, &c.AudioPath, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) ListCustomAudio(ctx context.Context) ([]*model.CustomAudio, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, language, text, audio_path, created_at FROM custom_audio ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.CustomAudio
	for rows.Next() {
		var c model.CustomAudio
		if err := rows.Scan(&c.ID, &c.Title, &c.Language, &c.Text, &c.AudioPath, &c.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) SaveCustomAudio(ctx context.Context, c *model.CustomAudio) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT OR REPLACE INTO custom_audio (id, title, language, text, audio_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.Title, c.Language, c.Text, c.AudioPath, createdAt)
	return err
}

func (s *SQLiteStore) DeleteCustomAudio(ctx context.Context, id string) (*model.CustomAudio, error) {
	c, err := s.GetCustomAudio(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM custom_audio WHERE id = ?`, id)
	return c, err
}

// --- Playlists ---

func (s *SQLiteStore) GetPlaylist(ctx context.Context, id string) (*model.Playlist, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM playlists WHERE id = ?`, id)

	var p model.Playlist
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := s.playlistItems(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

func (s *SQLiteStore) playlistItems(ctx context.Context, playlistID string) ([]model.PlaylistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, position, title, media_path FROM playlist_items
		 WHERE playlist_id = ? ORDER BY position`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.PlaylistItem
	for rows.Next() {
		var it model.PlaylistItem
		if err := rows.Scan(&it.ID, &it.Position, &it.Title, &it.MediaPath); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) ListPlaylists(ctx context.Context) ([]*model.Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM playlists ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*model.Playlist
	for rows.Next() {
		var p model.Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range results {
		items, err := s.playlistItems(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return results, nil
}

// SavePlaylist upserts the playlist row and replaces its items.
func (s *SQLiteStore) SavePlaylist(ctx context.Context, p *model.Playlist) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO playlists (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, createdAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM playlist_items WHERE playlist_id = ?`, p.ID); err != nil {
		return err
	}

	for i, it := range p.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playlist_items (id, playlist_id, position, title, media_path)
			 VALUES (?, ?, ?, ?, ?)`,
			it.ID, p.ID, i, it.Title, it.MediaPath); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeletePlaylist(ctx context.Context, id string) (*model.Playlist, error) {
	p, err := s.GetPlaylist(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_items WHERE playlist_id = ?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return p, tx.Commit()
}

// --- Referenced media ---

// ListReferencedMedia collects every media path held by a persisted record.
func (s *SQLiteStore) ListReferencedMedia(ctx context.Context) ([]string, error) {
	var paths []string

	anns, err := s.ListAnnouncements(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, a := range anns {
		for _, p := range a.AudioPaths {
			if p != "" {
				paths = append(paths, p)
			}
		}
		if a.ISLVideo != "" {
			paths = append(paths, a.ISLVideo)
		}
	}

	audios, err := s.ListCustomAudio(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range audios {
		if c.AudioPath != "" {
			paths = append(paths, c.AudioPath)
		}
	}

	playlists, err := s.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		for _, it := range p.Items {
			if it.MediaPath != "" {
				paths = append(paths, it.MediaPath)
			}
		}
	}

	return paths, nil
}

// --- Cache ---

var _ cache.Cacher = (*SQLiteStore)(nil)

func (s *SQLiteStore) GetCache(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM cache WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	// Transparent Decompression
	if len(val) > 2 && val[0] == 0x1f && val[1] == 0x8b {
		decompressed, err := decompress(val)
		if err == nil {
			return decompressed, true
		}
		// Fall through with the raw bytes if decompression fails.
	}

	return val, true
}

func (s *SQLiteStore) HasCache(ctx context.Context, key string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM cache WHERE key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) SetCache(ctx context.Context, key string, val []byte) error {
	// Transparent Compression
	compressed, err := compress(val)
	if err == nil {
		val = compressed
	}

	query := `INSERT OR REPLACE INTO cache (key, value, created_at) VALUES (?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) ListCacheKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM cache WHERE key LIKE ?", prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// --- Compression Pooling ---

var (
	// Pool for gzip writers to reuse flate state
	gzipWriterPool = sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}
	// Pool for generic byte buffers
	bufferPool = sync.Pool{
		New: func() interface{} {
			return new(bytes.Buffer)
		},
	}
)

func compress(data []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	w := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(w)

	w.Reset(buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	// Must copy because buf is returned to pool
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
