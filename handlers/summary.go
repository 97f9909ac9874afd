package handlers

import (
	"net/http"
	"strings"

	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/validation"
	"github.com/sirupsen/logrus"
)

type SummaryHandler struct {
	service   summary.Service
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewSummaryHandler(service summary.Service, validator *validation.Validator, logger *logrus.Logger) *SummaryHandler {
	return &SummaryHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

var jsonPost = validation.RequestValidationOpts{
	MaxContentLength: maxBodyBytes,
	AllowedMethods:   []string{http.MethodPost},
	RequireJSON:      true,
}

// HandleSummarize handles POST /summarize
func (h *SummaryHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, jsonPost); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req models.SummarizeRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	req.YouTubeURL = strings.TrimSpace(req.YouTubeURL)
	req.TargetLang = strings.TrimSpace(req.TargetLang)

	if err := h.validator.ValidateURL(req.YouTubeURL); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.validator.ValidateLanguage(req.TargetLang); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.service.Summarize(r.Context(), req.YouTubeURL, req.TargetLang)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, models.NewSummarizeResponse(result))
}

// HandleTranslate handles POST /translate
func (h *SummaryHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	if err := h.validator.ValidateRequest(r, jsonPost); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req models.TranslateRequest
	if err := readJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	req.TargetLang = strings.TrimSpace(req.TargetLang)

	if err := h.validator.ValidateText(req.Text); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.validator.ValidateLanguage(req.TargetLang); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	translated := h.service.Translate(r.Context(), req.Text, req.TargetLang)
	respondJSON(w, http.StatusOK, &models.TranslateResponse{TranslatedText: translated})
}

// HandleGetTranscript handles GET /get_transcript?video_id=
func (h *SummaryHandler) HandleGetTranscript(w http.ResponseWriter, r *http.Request) {
	videoID := strings.TrimSpace(r.URL.Query().Get("video_id"))
	if err := h.validator.ValidateVideoID(videoID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	transcript := h.service.Transcript(r.Context(), videoID)
	respondJSON(w, http.StatusOK, models.NewTranscriptResponse(transcript))
}
