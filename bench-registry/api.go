package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kalibra-labs/kalibra-go/internal/export"
	"github.com/kalibra-labs/kalibra-go/internal/repo"
	"github.com/kalibra-labs/kalibra-go/internal/testset"
)

const (
	msgRunNotFound       = "Run not found"
	msgTestSetNotFound   = "Test set not found"
	msgUnsupportedFormat = "Unsupported format. Only 'csv' is supported."
)

type registryAPI struct {
	logger *slog.Logger
	svc    *registryService
}

func newRegistryAPI(logger *slog.Logger, svc *registryService) *registryAPI {
	return &registryAPI{logger: logger, svc: svc}
}

func (api *registryAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/runs", api.handleIngestRun)
	mux.HandleFunc("GET /api/runs", api.handleListRuns)
	mux.HandleFunc("GET /api/runs/{run_id}", api.handleGetRun)
	mux.HandleFunc("DELETE /api/runs/{run_id}", api.handleDeleteRun)
	mux.HandleFunc("GET /api/runs/{run_id}/export", api.handleExportRun)

	mux.HandleFunc("POST /api/test-sets", api.handleDeriveTestSet)
	mux.HandleFunc("GET /api/test-sets", api.handleListTestSets)
	mux.HandleFunc("GET /api/test-sets/{name}", api.handleGetTestSet)
	mux.HandleFunc("DELETE /api/test-sets/{name}", api.handleDeleteTestSet)
}

type runSummary struct {
	ID            string    `json:"id"`
	DomainID      string    `json:"domainId"`
	ScenarioCount int       `json:"scenarioCount"`
	Created       time.Time `json:"created,omitzero"`
}

type testSetSummary struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	DomainID      string    `json:"domainId"`
	ScenarioCount int       `json:"scenarioCount"`
	SourceRunID   string    `json:"sourceRunId"`
	Created       time.Time `json:"created"`
}

type deriveTestSetRequest struct {
	SourceRunID string `json:"sourceRunId"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

func (api *registryAPI) handleIngestRun(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 32<<20))
	if err != nil {
		api.writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	run, err := api.svc.IngestRun(r.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, testset.ErrInvalidInput):
			api.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrAlreadyExists):
			api.writeError(w, http.StatusConflict, "Run already exists")
		default:
			api.internalError(w, r, "ingest run", err)
		}
		return
	}

	w.Header().Set("Location", "/api/runs/"+run.ID)
	api.writeJSON(w, http.StatusCreated, run)
}

func (api *registryAPI) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := api.svc.ListRuns(r.Context())
	if err != nil {
		api.internalError(w, r, "list runs", err)
		return
	}
	summaries := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, runSummary{
			ID:            run.ID,
			DomainID:      run.DomainID,
			ScenarioCount: len(run.Scenarios),
			Created:       run.Created,
		})
	}
	api.writeJSON(w, http.StatusOK, summaries)
}

func (api *registryAPI) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := api.svc.GetRun(r.Context(), r.PathValue("run_id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, http.StatusNotFound, msgRunNotFound)
			return
		}
		api.internalError(w, r, "get run", err)
		return
	}
	api.writeJSON(w, http.StatusOK, run)
}

func (api *registryAPI) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := api.svc.DeleteRun(r.Context(), r.PathValue("run_id")); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, http.StatusNotFound, msgRunNotFound)
			return
		}
		api.internalError(w, r, "delete run", err)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (api *registryAPI) handleExportRun(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format := query.Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" {
		api.writeError(w, http.StatusBadRequest, msgUnsupportedFormat)
		return
	}
	detailed := query.Get("detailed") == "true"

	run, err := api.svc.GetRun(r.Context(), r.PathValue("run_id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, http.StatusNotFound, msgRunNotFound)
			return
		}
		api.internalError(w, r, "export run", err)
		return
	}

	filename := export.Filename(run.ID, detailed, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(w, run, detailed); err != nil {
		// Headers are committed by now; the truncated body is all we can
		// signal. Log and move on.
		api.logger.Error("csv export failed", "run_id", run.ID, "error", err)
	}
}

func (api *registryAPI) handleDeriveTestSet(w http.ResponseWriter, r *http.Request) {
	var req deriveTestSetRequest
	if err := decodeJSON(r, &req); err != nil {
		api.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SourceRunID) == "" {
		api.writeError(w, http.StatusBadRequest, "sourceRunId is required")
		return
	}
	if strings.TrimSpace(req.Version) == "" {
		req.Version = "1.0.0"
	}

	set, err := api.svc.DeriveTestSet(r.Context(), req.SourceRunID, req.Name, req.Description, req.Version)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			api.writeError(w, http.StatusNotFound, msgRunNotFound)
		case errors.Is(err, testset.ErrInvalidInput):
			api.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrAlreadyExists):
			api.writeError(w, http.StatusConflict, "Test set already exists")
		default:
			api.internalError(w, r, "derive test set", err)
		}
		return
	}

	w.Header().Set("Location", "/api/test-sets/"+set.Name)
	api.writeJSON(w, http.StatusCreated, set)
}

func (api *registryAPI) handleListTestSets(w http.ResponseWriter, r *http.Request) {
	sets, err := api.svc.ListTestSets(r.Context())
	if err != nil {
		api.internalError(w, r, "list test sets", err)
		return
	}
	summaries := make([]testSetSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, testSetSummary{
			Name:          set.Name,
			Version:       set.Version,
			DomainID:      set.DomainID,
			ScenarioCount: set.ScenarioCount,
			SourceRunID:   set.SourceRunID,
			Created:       set.Created,
		})
	}
	api.writeJSON(w, http.StatusOK, summaries)
}

func (api *registryAPI) handleGetTestSet(w http.ResponseWriter, r *http.Request) {
	set, err := api.svc.GetTestSet(r.Context(), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, http.StatusNotFound, msgTestSetNotFound)
			return
		}
		api.internalError(w, r, "get test set", err)
		return
	}
	api.writeJSON(w, http.StatusOK, set)
}

func (api *registryAPI) handleDeleteTestSet(w http.ResponseWriter, r *http.Request) {
	if err := api.svc.DeleteTestSet(r.Context(), r.PathValue("name")); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			api.writeError(w, http.StatusNotFound, msgTestSetNotFound)
			return
		}
		api.internalError(w, r, "delete test set", err)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("multiple JSON values")
	}
	return nil
}

func (api *registryAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func (api *registryAPI) writeError(w http.ResponseWriter, status int, message string) {
	api.writeJSON(w, status, map[string]any{"error": message})
}

func (api *registryAPI) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	api.logger.Error(op+" failed", "request_id", r.Header.Get("X-Request-Id"), "error", err)
	api.writeError(w, http.StatusInternalServerError, err.Error())
}
