package services

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodcat-labs/moodcat/internal/core/domain"
	"github.com/moodcat-labs/moodcat/internal/core/ports"
)

// Catalog coordinates blob storage and the song repository. It is the only
// place that maps a raw upload plus a blob-store result into a Song, and it
// owns the rule that the binary is stored before any metadata is written.
type Catalog struct {
	blobs  ports.BlobStore
	repo   ports.SongRepository
	logger *zap.Logger
}

// NewCatalog constructs a Catalog.
func NewCatalog(blobs ports.BlobStore, repo ports.SongRepository, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		blobs:  blobs,
		repo:   repo,
		logger: logger,
	}
}

// IngestRequest carries the validated fields of one upload.
type IngestRequest struct {
	Title    string
	Artist   string
	Mood     string
	Filename string // client-suggested name, used to derive the object name
	Audio    []byte
}

// Ingest stores the audio payload and then persists the catalog entry.
// The two calls are strictly sequential: if the blob store fails, no
// repository write happens, so a persisted song always references a blob
// that exists. A repository failure after a successful store leaves an
// orphaned blob, which is logged for manual cleanup and never retried here.
func (c *Catalog) Ingest(ctx context.Context, req IngestRequest) (domain.Song, error) {
	if len(req.Audio) == 0 {
		return domain.Song{}, domain.ErrMissingAudio
	}

	name := objectName(req.Filename)
	blob, err := c.blobs.Store(ctx, req.Audio, name)
	if err != nil {
		return domain.Song{}, &domain.StorageError{Name: name, Err: err}
	}

	song := domain.Song{
		Title:    req.Title,
		Artist:   req.Artist,
		Mood:     req.Mood,
		AudioURL: blob.URL,
	}
	created, err := c.repo.Insert(ctx, song)
	if err != nil {
		c.logger.Error("song insert failed after blob upload, blob is orphaned",
			zap.String("audio_url", blob.URL),
			zap.Error(err))
		return domain.Song{}, &domain.PersistError{AudioURL: blob.URL, Err: err}
	}

	return created, nil
}

// SongsByMood returns the songs matching the mood byte-for-byte; no case
// folding or trimming happens on either side. An empty mood lists every song.
func (c *Catalog) SongsByMood(ctx context.Context, mood string) ([]domain.Song, error) {
	songs, err := c.repo.FindByMood(ctx, mood)
	if err != nil {
		return nil, &domain.QueryError{Mood: mood, Err: err}
	}
	if songs == nil {
		songs = []domain.Song{}
	}
	return songs, nil
}

// objectName derives a unique blob name from the uploaded filename, keeping
// a sanitized stem and the extension so stored objects stay recognizable.
func objectName(original string) string {
	ext := path.Ext(original)
	stem := strings.TrimSuffix(path.Base(original), ext)

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		b.WriteString("audio")
	}

	return b.String() + "_" + uuid.NewString() + ext
}
