package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crmhealth/importer/internal/core"
	"github.com/crmhealth/importer/internal/csv"
	"github.com/crmhealth/importer/internal/logging"
)

// handleHealth reports liveness and the number of registered shapes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"shapes": core.ShapeCount(),
	})
}

// shapeInfo is one entry in the shape listing.
type shapeInfo struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Headers []string `json:"headers"`
}

// handleListShapes returns every registered import shape with its header
// contract.
func (s *Server) handleListShapes(w http.ResponseWriter, r *http.Request) {
	defs := core.All()

	shapes := make([]shapeInfo, 0, len(defs))
	for _, def := range defs {
		shapes = append(shapes, shapeInfo{
			Key:     def.Key,
			Label:   def.Label,
			Headers: def.Headers,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"shapes": shapes})
}

// handleDownloadTemplate returns an empty CSV with the shape's required
// header row, for users to fill in.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	shapeKey := chi.URLParam(r, "shapeKey")

	def, ok := core.Get(shapeKey)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown shape %q", shapeKey), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-template.csv", def.Key))
	w.Write([]byte(csv.Serialize(def.Headers) + "\n"))
}

// handleImport runs the full pipeline on an uploaded CSV file.
//
// The file arrives as multipart form field "file". An optional "mode"
// form value or query parameter selects strict or lenient validation;
// unset falls back to the configured default.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	shapeKey := chi.URLParam(r, "shapeKey")

	def, ok := core.Get(shapeKey)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown shape %q", shapeKey), http.StatusNotFound)
		return
	}

	// Read the body first so the size limit applies before any form
	// value lookup parses it.
	content, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	mode, err := s.requestMode(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	report, err := def.Run(content, mode)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	logging.FromContext(r.Context()).Info("import completed",
		"shape", shapeKey,
		"batch_id", report.BatchID,
		"mode", report.Mode,
		"total_rows", report.TotalRows,
		"successful_rows", report.SuccessfulRows,
		"parse_errors", len(report.ParseErrors),
		"warnings", len(report.Warnings),
	)

	writeJSON(w, http.StatusOK, report)
}

// handlePreview runs the pipeline without any side effects and always in
// lenient mode, so users see every problem at once before committing to
// an import.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	shapeKey := chi.URLParam(r, "shapeKey")

	def, ok := core.Get(shapeKey)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown shape %q", shapeKey), http.StatusNotFound)
		return
	}

	content, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	report, err := def.Run(content, core.ModeLenient)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// requestMode resolves the validation mode from the request, falling back
// to the configured default.
func (s *Server) requestMode(r *http.Request) (core.Mode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		raw = r.FormValue("mode")
	}
	if raw == "" {
		raw = s.cfg.Import.DefaultMode
	}
	return core.ParseMode(raw)
}

// readUpload extracts and gates the multipart "file" field, returning its
// content as a string.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", fmt.Errorf("file too large: body exceeds %d bytes", maxSize)
		}
		return "", fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	meta := core.FileMeta{
		Name:     header.Filename,
		Size:     header.Size,
		MIMEType: header.Header.Get("Content-Type"),
	}
	if err := core.CheckFile(meta, maxSize); err != nil {
		return "", err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	return string(content), nil
}
