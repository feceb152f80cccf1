package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agentready/internal/metrics"
	"agentready/internal/model"
	"agentready/internal/report"
	"agentready/internal/service"
	"agentready/internal/util"
	"agentready/pkg/response"
)

const (
	MaxBatchSize    = 100
	maxRequestBytes = 10 << 20
	defaultURLLabel = "about:blank"
)

type CheckRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type BatchRequest struct {
	URLs []string `json:"urls"`
}

// Handler serves compliance checks over HTTP.
type Handler struct {
	checker *service.Checker
}

func New(checker *service.Checker) *Handler {
	return &Handler{checker: checker}
}

func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, "")
}

// CheckPageHandler checks one page. GET fetches ?url=; POST scores a JSON body
// carrying the markup itself, or fetches its url when no markup is given.
func (h *Handler) CheckPageHandler(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var result model.ComplianceResult
	switch r.Method {
	case http.MethodGet:
		target := r.URL.Query().Get("url")
		if target == "" {
			response.Error(w, http.StatusBadRequest, "missing 'url' query parameter")
			return
		}
		if !util.IsValidURL(target) {
			response.Error(w, http.StatusBadRequest, "invalid 'url' format")
			return
		}
		result, err = h.checker.CheckURL(r.Context(), target)

	case http.MethodPost:
		var req CheckRequest
		if err := decodeBody(w, r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		switch {
		case req.HTML != "":
			label := req.URL
			if label == "" {
				label = defaultURLLabel
			}
			result = h.checker.CheckHTML(label, req.HTML)
		case util.IsValidURL(req.URL):
			result, err = h.checker.CheckURL(r.Context(), req.URL)
		default:
			response.Error(w, http.StatusBadRequest, "request needs 'html' or a valid 'url'")
			return
		}

	default:
		w.Header().Set("Allow", "GET, POST")
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err != nil {
		response.Error(w, statusFor(err), fmt.Sprintf("failed to check page: %v", err))
		return
	}

	metrics.ObserveResults(result)
	h.write(w, format, func() (string, error) { return report.RenderResult(result, format) }, result)
}

// BatchCheckHandler checks every URL of a JSON body and returns results with a summary.
func (h *Handler) BatchCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	format, err := requestFormat(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var req BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.URLs) > MaxBatchSize {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("at most %d URLs per batch", MaxBatchSize))
		return
	}
	for _, u := range req.URLs {
		if !util.IsValidURL(strings.TrimSpace(u)) {
			response.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid url %q", u))
			return
		}
	}

	results, summary, err := h.checker.CheckBatch(r.Context(), req.URLs)
	if err != nil {
		response.Error(w, statusFor(err), fmt.Sprintf("failed to check batch: %v", err))
		return
	}

	metrics.ObserveResults(results...)
	h.write(w, format, func() (string, error) { return report.RenderBatch(results, summary, format) },
		report.BatchReport{Results: results, Summary: summary})
}

// write sends data in the JSON envelope, or the rendered report for text formats.
func (h *Handler) write(w http.ResponseWriter, format report.Format, render func() (string, error), data any) {
	if format == report.FormatJSON {
		response.Success(w, data, "")
		return
	}
	body, err := render()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Text(w, http.StatusOK, body)
}

// requestFormat reads ?format=, defaulting to JSON.
func requestFormat(r *http.Request) (report.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return report.FormatJSON, nil
	}
	return report.ParseFormat(raw)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoURLs), errors.Is(err, service.ErrEmptyURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
