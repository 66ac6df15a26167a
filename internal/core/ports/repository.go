package ports

import (
	"context"

	"github.com/moodcat-labs/moodcat/internal/core/domain"
)

// SongRepository is the document store holding catalog entries.
type SongRepository interface {
	// Insert persists the song and returns it with its assigned ID.
	Insert(ctx context.Context, song domain.Song) (domain.Song, error)
	// FindByMood returns songs whose mood matches exactly.
	// An empty mood matches every song.
	FindByMood(ctx context.Context, mood string) ([]domain.Song, error)
}
