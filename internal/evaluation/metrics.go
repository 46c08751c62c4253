package evaluation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/optlab/backend/internal/contracts"
)

var (
	// ErrLengthMismatch is returned when y_true and y_pred differ in length
	ErrLengthMismatch = errors.New("series length mismatch")
	// ErrEmptySeries is returned for a zero-length pair
	ErrEmptySeries = errors.New("empty series")
	// ErrMisaligned is returned when priced series disagree on date or contract type
	ErrMisaligned = errors.New("series not aligned")
)

func check(yTrue, yPred []float64) error {
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return ErrEmptySeries
	}
	return nil
}

// MAE returns mean(|y_true - y_pred|). Inputs must be aligned by the caller.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := check(yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue)), nil
}

// RMSE returns sqrt(mean((y_true - y_pred)^2))
func RMSE(yTrue, yPred []float64) (float64, error) {
	if err := check(yTrue, yPred); err != nil {
		return 0, err
	}
	return floats.Distance(yTrue, yPred, 2) / math.Sqrt(float64(len(yTrue))), nil
}

// Summarize computes both metrics under one label
// ⭐ SSOT: 모델 비교 지표는 여기서만
func Summarize(label string, yTrue, yPred []float64) (contracts.EvaluationSummary, error) {
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return contracts.EvaluationSummary{}, fmt.Errorf("%s: %w", label, err)
	}
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return contracts.EvaluationSummary{}, fmt.Errorf("%s: %w", label, err)
	}

	return contracts.EvaluationSummary{
		Label:       label,
		SampleCount: len(yTrue),
		MAE:         mae,
		RMSE:        rmse,
	}, nil
}

// SummarizePriced aligns two priced series by (date, type) position before summarizing
func SummarizePriced(label string, yTrue, yPred []contracts.PricedResult) (contracts.EvaluationSummary, error) {
	if len(yTrue) != len(yPred) {
		return contracts.EvaluationSummary{}, fmt.Errorf("%s: %w: %d vs %d", label, ErrLengthMismatch, len(yTrue), len(yPred))
	}

	t := make([]float64, len(yTrue))
	p := make([]float64, len(yPred))
	for i := range yTrue {
		if !yTrue[i].Date.Equal(yPred[i].Date) || yTrue[i].Type != yPred[i].Type {
			return contracts.EvaluationSummary{}, fmt.Errorf("%s: %w at index %d (%s %s vs %s %s)",
				label, ErrMisaligned, i,
				contracts.DateKey(yTrue[i].Date), yTrue[i].Type,
				contracts.DateKey(yPred[i].Date), yPred[i].Type)
		}
		t[i], p[i] = yTrue[i].Price, yPred[i].Price
	}

	return Summarize(label, t, p)
}
