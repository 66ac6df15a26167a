package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moodcat-labs/moodcat/internal/core/domain"
	"github.com/moodcat-labs/moodcat/internal/core/ports"
	"github.com/moodcat-labs/moodcat/internal/core/services"
)

// --- Mocks ---
// The Catalog service is a concrete struct, so the handler is tested with a
// real service wired to mock ports.

type mockBlobStore struct {
	blob  ports.StoredBlob
	err   error
	calls int
}

func (m *mockBlobStore) Store(ctx context.Context, payload []byte, name string) (ports.StoredBlob, error) {
	m.calls++
	if m.err != nil {
		return ports.StoredBlob{}, m.err
	}
	if m.blob.URL == "" {
		return ports.StoredBlob{URL: "https://blobs.example/" + name, Size: int64(len(payload))}, nil
	}
	return m.blob, nil
}

type mockRepo struct {
	insertErr error
	findErr   error
	songs     []domain.Song

	inserted *domain.Song
	lastMood string
}

func (m *mockRepo) Insert(ctx context.Context, song domain.Song) (domain.Song, error) {
	if m.insertErr != nil {
		return domain.Song{}, m.insertErr
	}
	song.ID = "64f0c1db88"
	m.inserted = &song
	return song, nil
}

func (m *mockRepo) FindByMood(ctx context.Context, mood string) ([]domain.Song, error) {
	m.lastMood = mood
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.songs, nil
}

func newTestHandler(blobs ports.BlobStore, repo ports.SongRepository) *Handler {
	return NewHandler(services.NewCatalog(blobs, repo, nil), nil)
}

// uploadRequest builds a multipart POST /songs request. An empty filename
// omits the audio part entirely.
func uploadRequest(t *testing.T, filename string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("audio", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake-mp3-bytes")); err != nil {
			t.Fatalf("write audio part: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/songs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func TestCreateSong_Success(t *testing.T) {
	blobs := &mockBlobStore{}
	repo := &mockRepo{}
	h := newTestHandler(blobs, repo)

	req := uploadRequest(t, "song.mp3", map[string]string{
		"title":  "Test Song",
		"artist": "Test Artist",
		"mood":   "happy",
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var resp createSongResponse
	decodeBody(t, rec, &resp)

	if resp.Message != "song created successfully" {
		t.Fatalf("message = %q", resp.Message)
	}
	if resp.Song.ID == "" {
		t.Fatalf("song id missing in response")
	}
	if resp.Song.Title != "Test Song" || resp.Song.Artist != "Test Artist" || resp.Song.Mood != "happy" {
		t.Fatalf("song fields not echoed: %+v", resp.Song)
	}
	if !strings.HasPrefix(resp.Song.Audio, "https://blobs.example/") {
		t.Fatalf("song audio url = %q", resp.Song.Audio)
	}
}

func TestCreateSong_MissingAudio(t *testing.T) {
	blobs := &mockBlobStore{}
	repo := &mockRepo{}
	h := newTestHandler(blobs, repo)

	req := uploadRequest(t, "", map[string]string{"title": "No Audio", "mood": "sad"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != errCodeMissingAudio {
		t.Fatalf("error code = %q, want %q", resp.Code, errCodeMissingAudio)
	}
	if blobs.calls != 0 {
		t.Fatalf("blob store must not be called on a rejected upload")
	}
	if repo.inserted != nil {
		t.Fatalf("repository must not be called on a rejected upload")
	}
}

func TestCreateSong_StorageFailure(t *testing.T) {
	blobs := &mockBlobStore{err: errors.New("provider rejected content")}
	repo := &mockRepo{}
	h := newTestHandler(blobs, repo)

	req := uploadRequest(t, "song.mp3", map[string]string{"mood": "happy"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != errCodeStorageFailure {
		t.Fatalf("error code = %q, want %q", resp.Code, errCodeStorageFailure)
	}
	if repo.inserted != nil {
		t.Fatalf("no catalog entry may be written when the blob store fails")
	}
}

func TestCreateSong_PersistenceFailure(t *testing.T) {
	h := newTestHandler(&mockBlobStore{}, &mockRepo{insertErr: errors.New("mongo down")})

	req := uploadRequest(t, "song.mp3", map[string]string{"mood": "happy"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != errCodePersistenceFailure {
		t.Fatalf("error code = %q, want %q", resp.Code, errCodePersistenceFailure)
	}
}

func TestListSongs(t *testing.T) {
	stored := []domain.Song{
		{ID: "1", Title: "A", Artist: "B", Mood: "happy", AudioURL: "https://blobs.example/a.mp3"},
	}

	t.Run("filters by the mood query parameter", func(t *testing.T) {
		repo := &mockRepo{songs: stored}
		h := newTestHandler(&mockBlobStore{}, repo)

		req := httptest.NewRequest(http.MethodGet, "/songs?mood=happy", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if repo.lastMood != "happy" {
			t.Fatalf("repository queried with mood %q", repo.lastMood)
		}

		var resp listSongsResponse
		decodeBody(t, rec, &resp)
		if resp.Message != "Songs" {
			t.Fatalf("message = %q", resp.Message)
		}
		if len(resp.Songs) != 1 || resp.Songs[0].ID != "1" || resp.Songs[0].Audio != stored[0].AudioURL {
			t.Fatalf("unexpected songs payload: %+v", resp.Songs)
		}
	})

	t.Run("omitted mood lists everything", func(t *testing.T) {
		repo := &mockRepo{songs: stored}
		h := newTestHandler(&mockBlobStore{}, repo)

		req := httptest.NewRequest(http.MethodGet, "/songs", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if repo.lastMood != "" {
			t.Fatalf("expected an empty mood filter, got %q", repo.lastMood)
		}
	})

	t.Run("zero matches is a success with an empty list", func(t *testing.T) {
		h := newTestHandler(&mockBlobStore{}, &mockRepo{})

		req := httptest.NewRequest(http.MethodGet, "/songs?mood=brooding", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"songs":[]`) {
			t.Fatalf("songs must encode as an empty array, body: %s", rec.Body.String())
		}
	})

	t.Run("repository failure is a server error, not an empty list", func(t *testing.T) {
		h := newTestHandler(&mockBlobStore{}, &mockRepo{findErr: errors.New("timeout")})

		req := httptest.NewRequest(http.MethodGet, "/songs?mood=happy", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.Code != errCodeQueryFailure {
			t.Fatalf("error code = %q, want %q", resp.Code, errCodeQueryFailure)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&mockBlobStore{}, &mockRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(&mockBlobStore{}, &mockRepo{})

	req := httptest.NewRequest(http.MethodOptions, "/songs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS headers on preflight response")
	}
}
