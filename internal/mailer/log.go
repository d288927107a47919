package mailer

import (
	"net/http"

	"go.uber.org/zap"
)

// LogClient is the development fallback when no SMTP transport is
// configured: instead of delivering mail it logs the template data, so
// verification codes show up in the server log.
type LogClient struct {
	logger *zap.SugaredLogger
}

func NewLogClient(logger *zap.SugaredLogger) *LogClient {
	return &LogClient{logger: logger}
}

func (c *LogClient) Send(templateFile, username, email string, data any) (int, error) {
	c.logger.Infow("mail transport not configured, logging instead",
		"template", templateFile,
		"to", email,
		"data", data,
	)
	return http.StatusOK, nil
}
