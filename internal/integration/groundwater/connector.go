package groundwater

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/config"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/integration/common"
	pkghttp "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const statusSuccess = "success"

// Connector talks to the upstream groundwater data service (INGRES).
type Connector struct {
	config    config.IngresConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.IngresConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector("ingres", cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Fetch performs one GET against the endpoint of dataType and returns the
// compacted "data" member of the response envelope.
// GET {endpoint}?district={district}&season=&block=&year=
func (c *Connector) Fetch(
	ctx context.Context,
	dataType entity.DataType,
	district string,
	q entity.Qualifiers,
) (json.RawMessage, error) {
	endpoint, err := c.endpoint(dataType)
	if err != nil {
		return nil, err
	}

	params := q.Params()
	if district != "" {
		params["district"] = district
	}

	ctxzap.Debug(ctx, "fetching upstream groundwater data",
		zap.String("data_type", string(dataType)),
		zap.String("district", district),
	)

	var envelope entity.UpstreamEnvelope
	err = c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &envelope, pkghttp.WithQuery(params))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrUpstreamUnavailable, dataType, err)
	}

	data, err := unwrapEnvelope(&envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrUpstreamUnavailable, dataType, err)
	}

	return data, nil
}

func (c *Connector) endpoint(dataType entity.DataType) (string, error) {
	switch dataType {
	case entity.DataTypeGroundwaterLevel:
		return c.config.LevelEndpoint, nil
	case entity.DataTypeWaterQuality:
		return c.config.QualityEndpoint, nil
	case entity.DataTypeRainfall:
		return c.config.RainfallEndpoint, nil
	case entity.DataTypeDrilling:
		return c.config.DrillingEndpoint, nil
	case entity.DataTypeDistricts:
		return c.config.DistrictsEndpoint, nil
	default:
		return "", fmt.Errorf("%w: data type %q", entity.ErrInvalidParameter, dataType)
	}
}

// unwrapEnvelope validates the {status, data} envelope.
func unwrapEnvelope(envelope *entity.UpstreamEnvelope) (json.RawMessage, error) {
	if envelope.Status != statusSuccess {
		return nil, fmt.Errorf("%w: status %q: %s", entity.ErrInvalidFormat, envelope.Status, envelope.Message)
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty data", entity.ErrInvalidFormat)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}

	return buf.Bytes(), nil
}
