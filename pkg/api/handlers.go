package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/logan/pkg/logan"
)

const defaultUploadName = "upload"

// handleHealth handles GET /api/v1/health
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, HealthResponse{Status: "ok"})
}

// handleCreateReport handles POST /api/v1/reports. The request body is the
// raw container; X-Filename names the upload.
//
//	@Summary		Create a report
//	@Description	Decode an uploaded container and write its report
//	@Tags			reports
//	@Accept			octet-stream
//	@Produce		json
//	@Param			X-Filename	header		string	false	"Upload name"
//	@Param			body		body		string	true	"Raw container"
//	@Success		200			{object}	APIResponse
//	@Failure		400			{object}	APIResponse
//	@Failure		401			{object}	APIResponse
//	@Failure		413			{object}	APIResponse
//	@Failure		422			{object}	APIResponse
//	@Failure		500			{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/reports [post]
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	body := io.Reader(r.Body)
	if s.config.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}
	buf, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Container too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(buf) == 0 {
		sendError(w, "Empty request body", http.StatusBadRequest)
		return
	}

	name := filepath.Base(r.Header.Get("X-Filename"))
	if name == "." || name == "/" || name == "" {
		name = defaultUploadName
	}

	// Uploads share one output directory, so each report gets a unique name.
	res := s.parser.ParseBytes(name, buf, logan.Options{
		OutputDir: s.config.OutputDir,
		FileName:  fmt.Sprintf("%s_%s%s", name, ksuid.New().String(), logan.ResultSuffix),
		Mode:      s.config.Mode,
	})
	if !s.config.IncludeChunks {
		res.Chunks = nil
	}

	switch {
	case res.Status:
		sendSuccess(w, res)
	case res.Message == logan.MessageNotLogan:
		sendJSON(w, http.StatusUnprocessableEntity, APIResponse{Success: false, Data: res, Error: res.Message})
	default:
		sendJSON(w, http.StatusInternalServerError, APIResponse{Success: false, Data: res, Error: res.Message})
	}
}
