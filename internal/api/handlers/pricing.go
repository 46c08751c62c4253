package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/evaluation"
	"github.com/wonny/optlab/backend/internal/pricing"
	"github.com/wonny/optlab/backend/internal/sentiment"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// PricingHandler serves on-demand pricing, vol adjustment and metric requests
// ⭐ SSOT: 가격 계산 API 핸들러는 이 구조체에서만
type PricingHandler struct {
	logger *logger.Logger
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(log *logger.Logger) *PricingHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PricingHandler{logger: log}
}

// PriceRequest is the body of POST /api/price
type PriceRequest struct {
	Type   string  `json:"type" validate:"required"`
	Spot   float64 `json:"spot"`
	Strike float64 `json:"strike"`
	TTM    float64 `json:"ttm"`
	Rate   float64 `json:"rate"`
	Vol    float64 `json:"vol"`
}

// PriceResponse is the result of POST /api/price
type PriceResponse struct {
	Type  contracts.ContractType `json:"type"`
	Price float64                `json:"price"`
}

// Price returns a Black-Scholes price
// POST /api/price
func (h *PricingHandler) Price(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ct, err := contracts.ParseContractType(req.Type)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	price, err := pricing.Price(ct, req.Spot, req.Strike, req.TTM, req.Rate, req.Vol)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Pricing failed")
		respondError(w, http.StatusInternalServerError, "pricing failed")
		return
	}

	respondJSON(w, http.StatusOK, PriceResponse{Type: ct, Price: price})
}

// AdjustRequest is the body of POST /api/adjust
type AdjustRequest struct {
	BaseVol   float64 `json:"base_vol" validate:"gte=0"`
	Sentiment float64 `json:"sentiment" validate:"gte=-1,lte=1"`
	Alpha     float64 `json:"alpha" validate:"gte=0"`
}

// AdjustResponse is the result of POST /api/adjust
type AdjustResponse struct {
	AdjustedVol float64 `json:"adjusted_vol"`
}

// Adjust applies the sentiment volatility transform
// POST /api/adjust
func (h *PricingHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, AdjustResponse{
		AdjustedVol: sentiment.AdjustVolatility(req.BaseVol, req.Sentiment, req.Alpha),
	})
}

// EvaluateRequest is the body of POST /api/evaluate
type EvaluateRequest struct {
	Label string    `json:"label"`
	YTrue []float64 `json:"y_true" validate:"required"`
	YPred []float64 `json:"y_pred" validate:"required"`
}

// Evaluate returns MAE and RMSE for two aligned series
// POST /api/evaluate
func (h *PricingHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Label == "" {
		req.Label = "y_true vs y_pred"
	}

	summary, err := evaluation.Summarize(req.Label, req.YTrue, req.YPred)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
