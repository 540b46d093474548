package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jjn00189/DocuRuleFix/internal/pipeline"
	"github.com/jjn00189/DocuRuleFix/internal/processor"
	"github.com/jjn00189/DocuRuleFix/internal/report"
)

type submitRequest struct {
	Paths         []string `json:"paths"`
	Fix           bool     `json:"fix"`
	Backup        bool     `json:"backup"`
	SkipCorrupted bool     `json:"skip_corrupted"`
}

// handleSubmitJob queues an asynchronous batch over server-local paths.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Paths) == 0 {
		jsonError(w, "paths is required", http.StatusBadRequest)
		return
	}
	for _, p := range req.Paths {
		if strings.ToLower(filepath.Ext(p)) != ".docx" {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(p)), http.StatusBadRequest)
			return
		}
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:     uuid.NewString(),
		Status: pipeline.StatusQueued,
		Paths:  req.Paths,
		Options: processor.Options{
			FixErrors:     req.Fix,
			CreateBackup:  req.Backup,
			SkipCorrupted: req.SkipCorrupted,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orch.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orch.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleJobReport renders a completed job's results in the requested
// format (json, csv, markdown, html).
func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orch.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job is %s, report not ready", snap.Status), http.StatusConflict)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	default:
		jsonError(w, "unknown report format: "+format, http.StatusBadRequest)
		return
	}
	if err := report.New(snap.Results).Write(w, format); err != nil {
		s.log.Error("report render failed", "job_id", jobID, "error", err)
	}
}

// handleValidateUpload validates one uploaded document synchronously and
// returns its result. The upload is never persisted back.
func (s *Server) handleValidateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if strings.ToLower(filepath.Ext(filename)) != ".docx" {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", "docurule-upload-*.docx")
	if err != nil {
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := io.Copy(tmp, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	tmp.Close()
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if n > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.proc.ValidateOnly(tmpPath, r.FormValue("skip_corrupted") == "true")
	if err != nil {
		jsonError(w, res.Message, http.StatusUnprocessableEntity)
		return
	}
	res.Path = filename

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed.docx"
	}
	return name
}
