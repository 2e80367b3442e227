package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sheetveil/sheetveil/internal/engine"
	"github.com/sheetveil/sheetveil/internal/export"
	"github.com/sheetveil/sheetveil/internal/logging"
)

// anonymousUser is assumed when no identity header is present. The API
// trusts an upstream gateway for authentication; the header only scopes
// tool ownership.
const anonymousUser = "anonymous"

// userID extracts the caller identity from the X-User-ID header.
func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return anonymousUser
}

// datasetID parses the dataset id path parameter.
func datasetID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "datasetID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("dataset not found: bad id %q", raw)
	}
	return id, nil
}

// columnParam returns the column path parameter with percent-encoding
// decoded; header names routinely contain spaces.
func columnParam(r *http.Request) string {
	raw := chi.URLParam(r, "column")
	if col, err := url.PathUnescape(raw); err == nil {
		return col
	}
	return raw
}

// handleCreateDataset accepts a multipart upload, parses and classifies
// it, and returns the new dataset with its inferred columns.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("empty file: no file field: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ds, err := s.service.CreateDataset(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("dataset uploaded",
		"dataset_id", ds.ID,
		"file", ds.Name,
		"rows", ds.TotalRows,
	)
	writeJSON(w, http.StatusCreated, ds)
}

// handleGetDataset returns a dataset's metadata and column configuration.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id, err := datasetID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	ds, err := s.service.GetDataset(id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// handleDeleteDataset drops a dataset session.
func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, err := datasetID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	if err := s.service.DeleteDataset(id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePreview returns the anonymized first rows of a dataset. The rows
// query parameter overrides the configured default.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id, err := datasetID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	n := 0
	if raw := r.URL.Query().Get("rows"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, r, fmt.Errorf("invalid rows parameter %q", raw), http.StatusBadRequest)
			return
		}
	}

	preview, err := s.service.PreviewDataset(r.Context(), id, n)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleExport streams the anonymized dataset in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := datasetID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ds, err := s.service.GetDataset(id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	tools := s.service.ToolsFor(r.Context(), ds)

	base := strings.TrimSuffix(ds.Name, pathExt(ds.Name))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", base+"_anonymized"+format.Extension()))

	logger := logging.WithFields(r.Context(), "dataset_id", ds.ID, "format", format)
	if err := export.Write(w, format, ds, tools); err != nil {
		// Headers are already sent; all we can do is log.
		logger.Error("export failed", "error", err)
		return
	}
	logger.Info("export completed", "rows", ds.TotalRows)
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// columnUpdateRequest is the PATCH body for a column. Absent fields are
// left untouched; toolId accepts a tool id to bind or an empty string to
// unbind.
type columnUpdateRequest struct {
	ShouldAnonymize *bool   `json:"shouldAnonymize,omitempty"`
	Type            *string `json:"type,omitempty"`
	Method          *string `json:"anonymizationMethod,omitempty"`
	ToolID          *string `json:"toolId,omitempty"`
}

// handleUpdateColumn applies a partial update to one column's
// configuration. Type changes are applied first, then tool bindings, then
// the anonymization switch, then the method, so a single request can
// retype and reconfigure a column consistently.
func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	id, err := datasetID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	column := columnParam(r)

	var req columnUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	var col engine.Column
	applied := false

	if req.Type != nil {
		col, err = s.service.SetColumnType(id, column, *req.Type)
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		applied = true
	}

	if req.ToolID != nil {
		if *req.ToolID == "" {
			col, err = s.service.UnbindTool(id, column)
		} else {
			var toolID uuid.UUID
			toolID, err = uuid.Parse(*req.ToolID)
			if err != nil {
				s.respondError(w, r, fmt.Errorf("tool not found: bad id %q", *req.ToolID), http.StatusNotFound)
				return
			}
			col, err = s.service.BindTool(r.Context(), id, column, toolID, userID(r))
		}
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		applied = true
	}

	if req.ShouldAnonymize != nil {
		col, err = s.service.SetColumnAnonymize(id, column, *req.ShouldAnonymize)
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		applied = true
	}

	if req.Method != nil {
		col, err = s.service.SetColumnMethod(r.Context(), id, column, *req.Method)
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		applied = true
	}

	if !applied {
		s.respondError(w, r, fmt.Errorf("no column fields to update"), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

// handleListMethods returns the methods selectable for a semantic type,
// built-ins plus the caller's visible custom tools.
func (s *Server) handleListMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := s.service.AvailableMethods(r.Context(), chi.URLParam(r, "type"), userID(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, methods)
}
