package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"bytes"
	"charter/config"
	"charter/infras/otel"
	"charter/shared/constant"
	"charter/shared/signature"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	pathPayments = "/pts/v2/payments"
	pathRefunds  = "/pts/v2/payments/%s/refunds"

	statusAuthorized        = "AUTHORIZED"
	statusPending           = "PENDING"
	statusAuthorizedReview  = "AUTHORIZED_PENDING_REVIEW"
	statusTransmitted       = "TRANSMITTED"
	statusDeclined          = "DECLINED"
	statusInvalidRequest    = "INVALID_REQUEST"
	httpClientErrorFloor    = 400
	httpServerErrorFloor    = 500
	otelAttrGatewayResource = "gateway.resource"
)

// ErrUnavailable wraps transport failures and 5xx answers. Nothing was charged as far as we know.
var ErrUnavailable = errors.New("payment gateway unavailable")

type SaleRequest struct {
	ClientRef      string
	Amount         string
	Currency       string
	TransientToken string
}

type RefundRequest struct {
	ClientRef string
	Amount    string
	Currency  string
}

type Result struct {
	ID       string
	Status   string
	Approved bool
	Reason   string
}

type Gateway interface {
	Sale(ctx context.Context, req SaleRequest) (Result, error)
	Refund(ctx context.Context, paymentID string, req RefundRequest) (Result, error)
}

type gatewayImpl struct {
	cfg    *config.Config
	otel   otel.Otel
	client *http.Client
	secret []byte
	now    func() time.Time
}

func New(cfg *config.Config, otel otel.Otel) Gateway {
	secret, err := signature.DecodeSecret(cfg.External.Payment.SecretKeyBase64)
	if err != nil {
		log.Warn().Err(err).Msg("payment gateway secret is not valid base64, outbound signing disabled")
	}

	return &gatewayImpl{
		cfg:    cfg,
		otel:   otel,
		client: &http.Client{Timeout: time.Duration(cfg.External.Payment.TimeoutSeconds) * time.Second},
		secret: secret,
		now:    time.Now,
	}
}

type amountDetails struct {
	TotalAmount string `json:"totalAmount"`
	Currency    string `json:"currency"`
}

type orderInformation struct {
	AmountDetails amountDetails `json:"amountDetails"`
}

type clientReference struct {
	Code string `json:"code"`
}

type saleBody struct {
	ClientReferenceInformation clientReference `json:"clientReferenceInformation"`
	ProcessingInformation      struct {
		Capture bool `json:"capture"`
	} `json:"processingInformation"`
	TokenInformation struct {
		TransientTokenJwt string `json:"transientTokenJwt"`
	} `json:"tokenInformation"`
	OrderInformation orderInformation `json:"orderInformation"`
}

type refundBody struct {
	ClientReferenceInformation clientReference  `json:"clientReferenceInformation"`
	OrderInformation           orderInformation `json:"orderInformation"`
}

type gatewayResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	Reason           string `json:"reason"`
	Message          string `json:"message"`
	ErrorInformation *struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"errorInformation"`
}

func (g *gatewayImpl) Sale(ctx context.Context, req SaleRequest) (res Result, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".gateway.Sale")
	defer scope.End()
	defer scope.TraceIfError(&err)

	body := saleBody{
		ClientReferenceInformation: clientReference{Code: req.ClientRef},
		OrderInformation: orderInformation{
			AmountDetails: amountDetails{TotalAmount: req.Amount, Currency: req.Currency},
		},
	}
	body.ProcessingInformation.Capture = true
	body.TokenInformation.TransientTokenJwt = req.TransientToken

	return g.do(ctx, http.MethodPost, pathPayments, body)
}

func (g *gatewayImpl) Refund(ctx context.Context, paymentID string, req RefundRequest) (res Result, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".gateway.Refund")
	defer scope.End()
	defer scope.TraceIfError(&err)

	body := refundBody{
		ClientReferenceInformation: clientReference{Code: req.ClientRef},
		OrderInformation: orderInformation{
			AmountDetails: amountDetails{TotalAmount: req.Amount, Currency: req.Currency},
		},
	}

	return g.do(ctx, http.MethodPost, fmt.Sprintf(pathRefunds, paymentID), body)
}

func (g *gatewayImpl) do(ctx context.Context, method, resource string, payload any) (Result, error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".gateway.do")
	defer scope.End()

	scope.SetAttribute(otelAttrGatewayResource, resource)

	raw, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal gateway payload: %w", err)
	}

	paymentCfg := g.cfg.External.Payment
	date := g.now().UTC().Format(http.TimeFormat)
	digest := signature.Digest(raw)

	sig := signature.Sign(g.secret, signature.SigningInput{
		Method:     method,
		Path:       resource,
		Host:       paymentCfg.Host,
		Date:       date,
		Digest:     digest,
		MerchantID: paymentCfg.MerchantID,
	})

	request, err := http.NewRequestWithContext(ctx, method, "https://"+paymentCfg.Host+resource, bytes.NewReader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build gateway request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	request.Header.Set("Accept", constant.ContentTypeJSON)
	request.Header.Set(constant.RequestHeaderDate, date)
	request.Header.Set(constant.RequestHeaderDigest, digest)
	request.Header.Set(constant.RequestHeaderMerchantID, paymentCfg.MerchantID)
	request.Header.Set(constant.RequestHeaderSignature, signature.NewHeader(paymentCfg.KeyID, sig).String())

	response, err := g.client.Do(request)
	if err != nil {
		log.Error().Err(err).Str("resource", resource).Msg("payment gateway request failed")

		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, err)
	}

	scope.SetAttribute("gateway.http_status", response.StatusCode)

	if response.StatusCode >= httpServerErrorFloor {
		log.Error().Int("status", response.StatusCode).Str("resource", resource).Msg("payment gateway answered with server error")

		return Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, response.StatusCode)
	}

	var parsed gatewayResponse
	if len(data) > 0 {
		if err = json.Unmarshal(data, &parsed); err != nil {
			return Result{}, fmt.Errorf("%w: malformed response: %w", ErrUnavailable, err)
		}
	}

	return toResult(response.StatusCode, parsed), nil
}

func toResult(httpStatus int, parsed gatewayResponse) Result {
	res := Result{
		ID:     parsed.ID,
		Status: strings.ToUpper(parsed.Status),
		Reason: parsed.Reason,
	}

	if parsed.ErrorInformation != nil && res.Reason == "" {
		res.Reason = parsed.ErrorInformation.Reason
	}

	if res.Reason == "" {
		res.Reason = parsed.Message
	}

	if httpStatus >= httpClientErrorFloor {
		if res.Status == "" {
			res.Status = statusInvalidRequest
		}

		return res
	}

	switch res.Status {
	case statusAuthorized, statusPending, statusTransmitted:
		res.Approved = true
	case statusAuthorizedReview, statusDeclined:
		res.Approved = false
	}

	return res
}
