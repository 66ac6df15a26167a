package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodcat-labs/moodcat/internal/core/domain"
)

func TestMoodFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, moodFilter(""), "empty mood must match every document")
	assert.Equal(t, bson.M{"mood": "happy"}, moodFilter("happy"))
	// exact-match semantics: the filter carries the value untouched
	assert.Equal(t, bson.M{"mood": "Happy "}, moodFilter("Happy "))
}

func TestDocumentMapping(t *testing.T) {
	song := domain.Song{
		ID:       "ignored-on-write",
		Title:    "Test Song",
		Artist:   "Test Artist",
		Mood:     "happy",
		AudioURL: "https://ik.imagekit.io/demo/song.mp3",
	}

	doc := toDocument(song)
	require.True(t, doc.ID.IsZero(), "insert documents must not carry a client-side id")
	assert.Equal(t, song.Title, doc.Title)
	assert.Equal(t, song.Artist, doc.Artist)
	assert.Equal(t, song.Mood, doc.Mood)
	assert.Equal(t, song.AudioURL, doc.Audio)

	id := primitive.NewObjectID()
	doc.ID = id
	back := doc.toDomain()
	assert.Equal(t, id.Hex(), back.ID)
	assert.Equal(t, song.Title, back.Title)
	assert.Equal(t, song.Artist, back.Artist)
	assert.Equal(t, song.Mood, back.Mood)
	assert.Equal(t, song.AudioURL, back.AudioURL)
}
