// Package mongodb provides a MongoDB-backed implementation of the song
// repository port.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moodcat-labs/moodcat/internal/core/domain"
	"github.com/moodcat-labs/moodcat/internal/core/ports"
)

const songsCollection = "songs"

const disconnectTimeout = 5 * time.Second

// Adapter implements the repository port for MongoDB.
type Adapter struct {
	client *mongo.Client
	songs  *mongo.Collection
}

// compile-time interface assertion
var _ ports.SongRepository = (*Adapter)(nil)

// NewAdapter connects to MongoDB and verifies the connection.
func NewAdapter(ctx context.Context, uri, database string) (*Adapter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Adapter{
		client: client,
		songs:  client.Database(database).Collection(songsCollection),
	}, nil
}

// Close ensures the client is disconnected gracefully.
func (a *Adapter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return a.client.Disconnect(ctx)
}

// songDocument is the stored shape of a catalog entry.
type songDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Title  string             `bson:"title"`
	Artist string             `bson:"artist"`
	Mood   string             `bson:"mood"`
	Audio  string             `bson:"audio"`
}

func toDocument(s domain.Song) songDocument {
	// The ID is deliberately left zero: MongoDB assigns it at insert time.
	return songDocument{
		Title:  s.Title,
		Artist: s.Artist,
		Mood:   s.Mood,
		Audio:  s.AudioURL,
	}
}

func (d songDocument) toDomain() domain.Song {
	return domain.Song{
		ID:       d.ID.Hex(),
		Title:    d.Title,
		Artist:   d.Artist,
		Mood:     d.Mood,
		AudioURL: d.Audio,
	}
}

// moodFilter builds the equality filter for a mood query. An empty mood
// yields an empty filter, which matches every document.
func moodFilter(mood string) bson.M {
	if mood == "" {
		return bson.M{}
	}
	return bson.M{"mood": mood}
}

// Insert persists the song and returns it with the assigned ObjectID.
func (a *Adapter) Insert(ctx context.Context, song domain.Song) (domain.Song, error) {
	doc := toDocument(song)

	res, err := a.songs.InsertOne(ctx, doc)
	if err != nil {
		return domain.Song{}, fmt.Errorf("failed to insert song: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.Song{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = id

	return doc.toDomain(), nil
}

// FindByMood returns songs matching the mood exactly, in insertion order.
func (a *Adapter) FindByMood(ctx context.Context, mood string) ([]domain.Song, error) {
	cur, err := a.songs.Find(ctx, moodFilter(mood))
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer cur.Close(ctx)

	var songs []domain.Song
	for cur.Next(ctx) {
		var doc songDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode song: %w", err)
		}
		songs = append(songs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to read songs: %w", err)
	}

	return songs, nil
}
