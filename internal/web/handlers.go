package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/logging"
	"github.com/Krapic/examhub/internal/service"
)

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// generateRequest is the optional JSON body for POST /api/generate.
// Seed makes the output reproducible; omit it for random data.
type generateRequest struct {
	Count int    `json:"count"`
	Seed  *int64 `json:"seed"`
}

// datasetResponse describes a dataset that just became active.
type datasetResponse struct {
	service.Summary
	File string `json:"file,omitempty"`
}

// handleGenerate creates a synthetic dataset and makes it active.
// With ?save=true the dataset is also written to the export directory.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
			return
		}
	}

	genLogger := logging.WithFields(r.Context(), "seeded", req.Seed != nil)

	if r.URL.Query().Get("save") == "true" {
		ds, path, err := s.service.GenerateAndSave(r.Context(), req.Count, req.Seed)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		genLogger.Info("dataset generated", "records", ds.Len(), "file", path)
		writeJSON(w, r, datasetResponse{Summary: summarize(ds), File: path})
		return
	}

	ds, err := s.service.Generate(r.Context(), req.Count, req.Seed)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	genLogger.Info("dataset generated", "records", ds.Len())
	writeJSON(w, r, datasetResponse{Summary: summarize(ds)})
}

// handleUpload loads an uploaded CSV file as the active dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := s.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	ds, err := s.service.LoadUpload(r.Context(), file, filename)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("dataset loaded",
		"source", filename, "records", ds.Len())
	writeJSON(w, r, datasetResponse{Summary: summarize(ds)})
}

// probeResponse reports whether an upload would load cleanly.
type probeResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// handleProbe dry-runs an upload without touching the active dataset.
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := s.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	probeOK, reason := s.service.ProbeReader(file, filename)
	writeJSON(w, r, probeResponse{OK: probeOK, Reason: reason})
}

// uploadedFile extracts the "file" part of a multipart upload, with
// the configured size cap applied. It writes the error response itself
// when the form is unusable.
func (s *Server) uploadedFile(w http.ResponseWriter, r *http.Request) (file multipart.File, filename string, ok bool) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_UPLOAD", "file too large or invalid form")
		return nil, "", false
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_UPLOAD", "no file provided")
		return nil, "", false
	}
	return f, header.Filename, true
}

// handleSummary describes the active dataset.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summarize()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, sum)
}

// handleStatistics returns statistics for the active dataset, narrowed
// by the usual filter parameters when present.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_QUERY", err.Error())
		return
	}

	ds, err := s.service.View(q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, ds.Stats())
}

// recordsResponse carries a filtered view of the active dataset.
type recordsResponse struct {
	Records []exam.Record `json:"records"`
	Count   int           `json:"count"`
}

// handleRecords returns records filtered and sorted per query params:
// term, grade, minScore, maxScore, q (name search), sort, order.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_QUERY", err.Error())
		return
	}

	ds, err := s.service.View(q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, recordsResponse{Records: ds.Records(), Count: ds.Len()})
}

// handleTerms lists the distinct terms in the active dataset.
func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Active()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, map[string][]string{"terms": ds.Terms()})
}

// handleExport downloads the filtered view as a CSV attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_QUERY", err.Error())
		return
	}

	var buf bytes.Buffer
	n, err := s.service.Export(r.Context(), &buf, q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("results_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())

	logging.FromContext(r.Context()).Info("dataset exported", "records", n)
}

// handleHistory returns recent operations, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 0)

	entries, err := s.service.History(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]interface{}{"entries": entries})
}

// handleHistoryClear wipes the operation history.
func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.service.ClearHistory(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("history cleared", "entries", cleared)
	writeJSON(w, r, map[string]interface{}{"cleared": cleared})
}

// parseViewQuery builds a ViewQuery from URL parameters, validating
// the numeric filters and the sort key up front.
func parseViewQuery(r *http.Request) (service.ViewQuery, error) {
	params := r.URL.Query()
	q := service.ViewQuery{
		Term:   params.Get("term"),
		Search: params.Get("q"),
	}

	if v := params.Get("grade"); v != "" {
		g, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("grade must be an integer, got %q", v)
		}
		q.Grade = &g
	}
	if v := params.Get("minScore"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("minScore must be an integer, got %q", v)
		}
		q.MinScore = &m
	}
	if v := params.Get("maxScore"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("maxScore must be an integer, got %q", v)
		}
		q.MaxScore = &m
	}
	if v := params.Get("sort"); v != "" {
		if _, err := exam.ParseSortKey(v); err != nil {
			return q, err
		}
		q.Sort = v
	}
	q.Desc = params.Get("order") == "desc"

	return q, nil
}

// parseIntParam reads an integer query parameter with a fallback.
func parseIntParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// summarize builds the summary payload for a dataset that just became
// active.
func summarize(ds *exam.Dataset) service.Summary {
	return service.Summary{
		Source:            ds.SourcePath(),
		Records:           ds.Len(),
		Terms:             ds.Terms(),
		GradeDistribution: ds.GradeDistribution(),
	}
}
