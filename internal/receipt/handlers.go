package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/slip-ocr/internal/scanning"
)

// maxUploadSize leaves room for high-resolution phone photos
const maxUploadSize = int64(50 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes {"error": message} with CORS headers set
func writeError(w http.ResponseWriter, status int, message string) {
	setCORSHeaders(w)
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// uploadErrorStatus maps ProcessSlip failures to HTTP status codes
func uploadErrorStatus(err error) int {
	var ocrErr *scanning.OCRError
	switch {
	case errors.Is(err, scanning.ErrInvalidMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, scanning.ErrUnreadableImage):
		return http.StatusBadRequest
	case errors.As(err, &ocrErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// contentTypeFor prefers the part header and falls back to the extension
func contentTypeFor(header string, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(header))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
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

// handleHello answers the API root
func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

// handleUploadSlip runs an uploaded slip image through OCR and the parser
func (s *Server) handleUploadSlip(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, http.StatusBadRequest, errorMsg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		writeError(w, http.StatusBadRequest, errorMsg)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := contentTypeFor(header.Header.Get("Content-Type"), header.Filename)

	scan, err := s.service.ProcessSlip(r.Context(), header.Filename, data, contentType)
	if err != nil {
		slog.Error("OCR slip failed", "filename", header.Filename, "error", err)
		writeError(w, uploadErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, scan)
}

// handleListScans returns the scan history
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	scans, err := s.service.ListScans()
	if err != nil {
		slog.Error("Error listing scans", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if scans == nil {
		scans = []*Scan{}
	}

	writeJSON(w, http.StatusOK, scans)
}

// handleGetScan returns a single scan
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	scan, err := s.service.GetScan(id)
	if err != nil {
		if errors.Is(err, ErrScanNotFound) {
			writeError(w, http.StatusNotFound, "Scan not found")
			return
		}
		slog.Error("Error getting scan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, scan)
}

// handleGetScanFile returns the uploaded image for a scan
func (s *Server) handleGetScanFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, contentType, err := s.service.GetScanFile(id)
	if err != nil {
		if errors.Is(err, ErrScanNotFound) || errors.Is(err, ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("Error getting scan file", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteScan deletes a scan and its image
func (s *Server) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.service.DeleteScan(id); err != nil {
		if errors.Is(err, ErrScanNotFound) {
			writeError(w, http.StatusNotFound, "Scan not found")
			return
		}
		slog.Error("Error deleting scan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting scan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
