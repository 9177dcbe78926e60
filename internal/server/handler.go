package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-service/internal/fetch"
	"github.com/ironsheep/omr-service/internal/omr"
)

const (
	placeholderStudentName = "Unknown"

	// overlayMaxSide bounds the annotated image returned to clients.
	overlayMaxSide = 1600

	maxRequestBytes = 1 << 20
)

// Handler serves the scanning API.
type Handler struct {
	scanner *omr.Scanner
	fetcher fetch.Fetcher
	log     *zap.Logger

	defaultQuestions int
}

// NewHandler returns a Handler; a non-positive defaultQuestions means omr.DefaultQuestions.
func NewHandler(scanner *omr.Scanner, fetcher fetch.Fetcher, defaultQuestions int, log *zap.Logger) *Handler {
	if defaultQuestions <= 0 {
		defaultQuestions = omr.DefaultQuestions
	}

	return &Handler{
		scanner: scanner,
		fetcher: fetcher,
		log:     log,

		defaultQuestions: defaultQuestions,
	}
}

// Attach registers the health and scan routes on r.
func (h *Handler) Attach(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/process-omr", h.handleProcess)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "OMR Service is running",
	})
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r.Context(), h.log)

	var req ProcessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "Image URL is required", nil)
		return
	}

	questions := h.defaultQuestions
	if req.NumberOfQuestions != nil && *req.NumberOfQuestions > 0 {
		questions = *req.NumberOfQuestions
	}
	if questions > h.scanner.MaxQuestions() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("numberOfQuestions must not exceed %d", h.scanner.MaxQuestions()), nil)
		return
	}

	log = log.With(zap.String("image_url", req.ImageURL), zap.Int("questions", questions))
	log.Info("processing sheet")

	started := time.Now()

	img, err := h.fetcher.Fetch(r.Context(), req.ImageURL)
	if err != nil {
		log.Warn("failed to fetch sheet", zap.Error(err))
		writeError(w, http.StatusBadRequest, fetchErrorMessage(err), err)
		return
	}

	bounds := img.Bounds()
	log.Debug("sheet decoded", zap.Int("width", bounds.Dx()), zap.Int("height", bounds.Dy()))

	summary, err := h.scanner.Scan(img, questions)
	if errors.Is(err, omr.ErrTooManyQuestions) {
		writeError(w, http.StatusBadRequest, "Too many questions", err)
		return
	}
	if err != nil {
		log.Error("failed to scan sheet", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to process image", err)
		return
	}

	resp := ProcessResponse{
		Success:                true,
		Answers:                summary.Answers,
		TotalBubblesDetected:   summary.TotalBubbles,
		TotalQuestionsDetected: summary.TotalRows,
		StudentName:            placeholderStudentName,
		StudentCode:            "",
	}

	if req.Annotate {
		overlay, err := summary.Annotate(img, overlayMaxSide)
		if err != nil {
			log.Error("failed to annotate sheet", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to annotate image", err)
			return
		}
		resp.AnnotatedImage = "data:" + overlay.MimeType + ";base64," + overlay.ImageBase64
	}

	log.Info("sheet processed",
		zap.Int("bubbles", summary.TotalBubbles),
		zap.Int("rows", summary.TotalRows),
		zap.Duration("elapsed", time.Since(started)))

	writeJson(w, http.StatusOK, resp)
}

func fetchErrorMessage(err error) string {
	if errors.Is(err, fetch.ErrUnsupportedLocation) {
		return "Unsupported image location"
	}
	return "Failed to download or decode image"
}

func writeJson(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string, err error) {
	resp := ErrorResponse{
		Success: false,
		Error:   message,
	}

	if err != nil {
		resp.Details = err.Error()
	}

	writeJson(w, code, resp)
}
