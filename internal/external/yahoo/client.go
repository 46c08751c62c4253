package yahoo

import (
	"github.com/wonny/optlab/backend/pkg/config"
	"github.com/wonny/optlab/backend/pkg/httputil"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// Client handles communication with Yahoo Finance
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	chartURL   string
	newsURL    string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		chartURL:   cfg.ChartURL,
		newsURL:    cfg.NewsURL,
	}
}
