package common

import (
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	pkgHTTP "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/pkg/http"
	"go.uber.org/zap"
)

const UserAgent = "jalBuddy/1.0"

// NewBaseConnector builds the JSON client shared by the upstream integrations.
// service names the remote side in logs.
func NewBaseConnector(service string, cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	logger.Debug("Configuring upstream client",
		zap.String("service", service),
		zap.String("base_url", cfg.Url),
		zap.Duration("timeout", cfg.RequestTimeout),
		zap.Bool("auth", cfg.Token != ""),
	)

	return pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger:    logger.Named(service),
			BaseURL:   cfg.Url,
			UserAgent: UserAgent + " " + service,
		},
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}
