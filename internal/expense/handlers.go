package expense

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxUploadSize caps the multipart form at 50MB to accommodate
// high-resolution phone photos.
const maxUploadSize = int64(50 << 20)

// errorResponse is the error envelope returned on every failure.
type errorResponse struct {
	ErrorID   string    `json:"errorId"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Details   []string  `json:"details"`
}

// writeError writes the error envelope. The message stays human-readable;
// internals go to the log under the same errorId, never to the body.
func writeError(w http.ResponseWriter, r *http.Request, status int, errText, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	resp := errorResponse{
		ErrorID:   uuid.NewString()[:8],
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     errText,
		Message:   message,
		Path:      r.URL.Path,
		Details:   details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error encoding error response", "error", err)
	}
}

// expensesResponse is the success envelope.
type expensesResponse struct {
	Expenses []LineItem `json:"expenses"`
}

// handleProcessReceipt accepts a multipart image upload and returns the
// extracted expense items.
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, r, http.StatusBadRequest, "Bad Request", "could not parse the multipart form; the image may exceed the 50MB limit")
		return
	}

	f, header, err := r.FormFile("image")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, r, http.StatusBadRequest, "Bad Request", "no image file provided; upload it under the \"image\" form field")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "could not read the uploaded file")
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), header.Filename)

	items, err := s.service.ProcessReceipt(r.Context(), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "receipt processing failed")
		return
	}

	if items == nil {
		items = []LineItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(expensesResponse{Expenses: items}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// detectContentType falls back to the file extension when the part carries
// no usable Content-Type.
func detectContentType(contentType, filename string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleHealth reports readiness of the model-backed components.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	parserReady, categorizerReady := s.service.Ready()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"models": map[string]bool{
			"parser":      parserReady,
			"categorizer": categorizerReady,
		},
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListRequests returns the processing journal, newest first.
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journal.List()
	if err != nil {
		slog.Error("Error listing journal entries", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "could not list requests")
		return
	}

	if entries == nil {
		entries = []*JournalEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetRequest returns a single journal entry.
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "request id is required")
		return
	}

	entry, err := s.journal.Get(id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Not Found", "no journal entry for this id")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entry); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
