package handlers

import (
	"net/http"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/sentiment"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// SentimentHandler scores headlines into daily sentiment
type SentimentHandler struct {
	aggregator *sentiment.Aggregator
	logger     *logger.Logger
}

// NewSentimentHandler creates a new sentiment handler
func NewSentimentHandler(aggregator *sentiment.Aggregator, log *logger.Logger) *SentimentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SentimentHandler{aggregator: aggregator, logger: log}
}

// Headline is one dated headline in a sentiment request
type Headline struct {
	Date  string `json:"date" validate:"required"`
	Title string `json:"title" validate:"required"`
}

// SentimentRequest is the body of POST /api/sentiment
type SentimentRequest struct {
	Headlines []Headline `json:"headlines" validate:"required,dive"`
}

// SentimentResponse lists per-date mean scores
type SentimentResponse struct {
	Daily   []contracts.DailySentiment `json:"daily"`
	Skipped int                        `json:"skipped"`
}

// Score aggregates headline scores per calendar date; undated rows are skipped
// POST /api/sentiment
func (h *SentimentHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req SentimentRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]contracts.NewsItem, 0, len(req.Headlines))
	skipped := 0
	for _, hl := range req.Headlines {
		d, err := contracts.ParseDate(hl.Date)
		if err != nil {
			skipped++
			continue
		}
		items = append(items, contracts.NewsItem{Date: d, Title: hl.Title})
	}

	respondJSON(w, http.StatusOK, SentimentResponse{
		Daily:   h.aggregator.Aggregate(items),
		Skipped: skipped,
	})
}
