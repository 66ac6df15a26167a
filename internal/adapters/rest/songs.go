package rest

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/moodcat-labs/moodcat/internal/core/domain"
	"github.com/moodcat-labs/moodcat/internal/core/services"
)

// audioFieldName is the multipart field carrying the binary payload.
const audioFieldName = "audio"

// maxUploadBytes bounds how much of an upload is parsed into memory.
const maxUploadBytes = 32 << 20

const (
	errCodeMissingAudio       = "MISSING_AUDIO"
	errCodeStorageFailure     = "STORAGE_FAILURE"
	errCodePersistenceFailure = "PERSISTENCE_FAILURE"
	errCodeQueryFailure       = "QUERY_FAILURE"
)

// songPayload is the wire shape of a catalog entry.
type songPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Mood   string `json:"mood"`
	Audio  string `json:"audio"`
}

type createSongResponse struct {
	Message string      `json:"message"`
	Song    songPayload `json:"song"`
}

type listSongsResponse struct {
	Message string        `json:"message"`
	Songs   []songPayload `json:"songs"`
}

func toPayload(s domain.Song) songPayload {
	return songPayload{
		ID:     s.ID,
		Title:  s.Title,
		Artist: s.Artist,
		Mood:   s.Mood,
		Audio:  s.AudioURL,
	}
}

// CreateSong handles POST /songs. It expects a multipart form with one
// binary field "audio" plus the "title", "artist" and "mood" text fields.
func (h *Handler) CreateSong(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "request must be multipart/form-data with an audio file", errCodeMissingAudio)
		return
	}

	file, header, err := r.FormFile(audioFieldName)
	if err != nil {
		writeErrorWithCode(w, http.StatusBadRequest, "audio file is required", errCodeMissingAudio)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio file")
		return
	}

	song, err := h.svc.Ingest(r.Context(), services.IngestRequest{
		Title:    r.FormValue("title"),
		Artist:   r.FormValue("artist"),
		Mood:     r.FormValue("mood"),
		Filename: header.Filename,
		Audio:    payload,
	})
	if err != nil {
		h.logger.Error("song ingestion failed", zap.Error(err))
		switch {
		case errors.Is(err, domain.ErrMissingAudio):
			writeErrorWithCode(w, http.StatusBadRequest, "audio file is required", errCodeMissingAudio)
		case errors.Is(err, domain.ErrStorage):
			writeErrorWithCode(w, http.StatusBadGateway, "audio upload to blob storage failed", errCodeStorageFailure)
		case errors.Is(err, domain.ErrPersist):
			writeErrorWithCode(w, http.StatusInternalServerError, "song could not be persisted", errCodePersistenceFailure)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, createSongResponse{
		Message: "song created successfully",
		Song:    toPayload(song),
	})
}

// ListSongs handles GET /songs. The optional "mood" query parameter filters
// by exact, case-sensitive match; when omitted, every song is returned.
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
	mood := r.URL.Query().Get("mood")

	songs, err := h.svc.SongsByMood(r.Context(), mood)
	if err != nil {
		h.logger.Error("song lookup failed", zap.String("mood", mood), zap.Error(err))
		writeErrorWithCode(w, http.StatusInternalServerError, "song lookup failed", errCodeQueryFailure)
		return
	}

	payloads := make([]songPayload, 0, len(songs))
	for _, s := range songs {
		payloads = append(payloads, toPayload(s))
	}

	writeJSON(w, http.StatusOK, listSongsResponse{
		Message: "Songs",
		Songs:   payloads,
	})
}
