package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 RunResult에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   Historical: S0 → S1 → S3 → S4 → S5
//   Options:    S2 → S3 → S4 → S5
//   Prices  Volatility  Chain  Sentiment  Pricing  Evaluation

// Stage represents a pipeline stage
type Stage string

const (
	// StagePrices S0: 종가 시계열 수집
	// 위치: internal/data/, internal/external/yahoo/
	StagePrices Stage = "S0_PRICES"

	// StageVolatility S1: 롤링 연환산 변동성
	// 위치: internal/volatility/
	StageVolatility Stage = "S1_VOLATILITY"

	// StageChain S2: 옵션 체인 스트리밍 + ATM 선택
	// 위치: internal/chain/
	StageChain Stage = "S2_CHAIN"

	// StageSentiment S3: 일별 감성 점수 (없는 날짜는 중립)
	// 위치: internal/sentiment/
	StageSentiment Stage = "S3_SENTIMENT"

	// StagePricing S4: baseline / adjusted Black-Scholes
	// 위치: internal/pricing/
	StagePricing Stage = "S4_PRICING"

	// StageEvaluation S5: MAE / RMSE
	// 위치: internal/evaluation/
	StageEvaluation Stage = "S5_EVALUATION"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StagePrices:
		return "S0"
	case StageVolatility:
		return "S1"
	case StageChain:
		return "S2"
	case StageSentiment:
		return "S3"
	case StagePricing:
		return "S4"
	case StageEvaluation:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// Description returns Korean description of the stage
func (s Stage) Description() string {
	switch s {
	case StagePrices:
		return "종가 수집"
	case StageVolatility:
		return "역사적 변동성"
	case StageChain:
		return "옵션 체인 선택"
	case StageSentiment:
		return "일별 감성 점수"
	case StagePricing:
		return "옵션 가격 계산"
	case StageEvaluation:
		return "오차 평가"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StagePrices,
		StageVolatility,
		StageChain,
		StageSentiment,
		StagePricing,
		StageEvaluation,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult represents the result of a pipeline stage execution
type StageResult struct {
	Stage       Stage  `json:"stage"`
	Success     bool   `json:"success"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Duration    int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}
