package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", 2*time.Second, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:5000", time.Second)
	require.Error(t, err)
	_, err = New("/api", time.Second)
	require.Error(t, err)
}

func TestListJobs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/scheduler/jobs", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("active"))
		_, _ = io.WriteString(w, `[{"id": 3, "name": "importar-nfe", "job_type": "interval", "interval_seconds": 300, "is_active": true, "run_count": 12}]`)
	}))

	jobs, err := c.ListJobs(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, 3, jobs[0].ID)
	require.True(t, jobs[0].IsActive)
	require.Equal(t, "every 300s", jobs[0].Schedule())
}

func TestSetJobActiveSendsBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/scheduler/jobs/9", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]any{"is_active": false}, body)
		_, _ = io.WriteString(w, `{"id": 9, "name": "x", "is_active": false}`)
	}))

	job, err := c.SetJobActive(context.Background(), 9, false)
	require.NoError(t, err)
	require.Equal(t, 9, job.ID)
	require.False(t, job.IsActive)
}

func TestRunJobErrorCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/scheduler/jobs/4/run", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error": "Job não encontrado"}`)
	}))

	err := c.RunJob(context.Background(), 4)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Job não encontrado", ServerMessage(err))
}

func TestErrorWithoutJSONBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))

	err := c.DeleteProcess(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, "", ServerMessage(err))
	require.Contains(t, err.Error(), "502")
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second)
	require.NoError(t, err)
	err = c.DeleteProcess(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, "", ServerMessage(err))
}

func TestListProcessesQueryAndRecords(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/etl/processes", r.URL.Path)
		require.Equal(t, "error", r.URL.Query().Get("status"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[{"id": 1, "filename": "nfe.xml", "status": "error", "duration_seconds": 1.5, "records_processed": 10, "metadata": {}}]`)
	}))

	procs, err := c.ListProcesses(context.Background(), ProcessFilter{Status: "error", Limit: 10})
	require.NoError(t, err)
	require.Len(t, procs, 1)
	require.Equal(t, "nfe.xml", procs[0].Filename)
	require.InDelta(t, 1.5, *procs[0].DurationSeconds, 1e-9)

	records, err := c.ProcessRecords(context.Background(), ProcessFilter{Status: "error", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"id", "filename", "status", "duration_seconds", "records_processed", "metadata"}, records[0].Keys())
}

func TestDeleteAndGetProcess(t *testing.T) {
	var deleted bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/etl/processes/5", r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"id": 5, "filename": "lote.zip", "status": "success"}`)
		}
	}))

	require.NoError(t, c.DeleteProcess(context.Background(), 5))
	require.True(t, deleted)
	p, err := c.GetProcess(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "lote.zip", p.Filename)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "healthy", "system": {"cpu_percent": 12.5}, "etl": {"active_jobs": 4}}`)
	}))

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "healthy", h.Status)
	require.Equal(t, 4, h.ETL.ActiveJobs)
}

func TestHealthUnhealthyBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status": "unhealthy", "error": "db down"}`)
	}))

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "unhealthy", h.Status)
	require.Equal(t, "db down", h.Error)
}

func TestHealthServerErrorWithoutReport(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	}))

	_, err := c.Health(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}
