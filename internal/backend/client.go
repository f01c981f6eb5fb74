package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/agrimart/agrimart-gateway/internal/model"
	"github.com/agrimart/agrimart-gateway/pkg/config"
	"github.com/agrimart/agrimart-gateway/pkg/session"
	"github.com/agrimart/agrimart-gateway/prometheus"
)

// errMissingKey marks an envelope that does not carry the configured
// collection field. Offer lookups treat it as "no offer".
var errMissingKey = errors.New("envelope key missing")

// Client is the HTTP client for the remote marketplace API. All requests
// share one timeout; idempotent GETs are retried once with backoff while
// mutations are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	retries int
	backoff time.Duration
	log     *zap.Logger
}

// NewClient creates a backend client from configuration.
func NewClient(cfg config.BackendConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		retries: cfg.RetryGETs,
		backoff: cfg.RetryBackoff,
		log:     log,
	}
}

// FetchCollection retrieves the collection behind ep, unwraps the envelope
// and drops soft-deleted records before returning. Owner-scoped endpoints
// fail fast with a PreconditionError when the context carries no session
// identity.
func FetchCollection[T model.Record](ctx context.Context, c *Client, ep Endpoint) ([]T, error) {
	u := c.baseURL + "/" + ep.Path
	if ep.OwnerScoped {
		id, ok := session.FromContext(ctx)
		if !ok {
			return nil, &PreconditionError{Reason: "not authenticated"}
		}
		u += "?userID=" + strconv.FormatUint(uint64(id.UserID), 10)
	}

	body, err := c.getWithRetry(ctx, ep.Path, u)
	if err != nil {
		return nil, err
	}

	records, err := decodeEnvelope[T](body, ep.ResponseKey)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.IsDeleted() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// FetchOffer looks up the promotional offer for one record. The backend may
// return several offers; the first one wins. A 404, an absent envelope key
// or an empty array all mean "no offer" and return nil without error.
func (c *Client) FetchOffer(ctx context.Context, ep Endpoint, recordID uint) (*model.Offer, error) {
	u := fmt.Sprintf("%s/%s/%d", c.baseURL, ep.Path, recordID)
	body, err := c.getWithRetry(ctx, ep.Path, u)
	if err != nil {
		var serr *ServerError
		if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	offers, err := decodeEnvelope[model.Offer](body, ep.ResponseKey)
	if err != nil {
		if errors.Is(err, errMissingKey) {
			return nil, nil
		}
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}
	first := offers[0]
	return &first, nil
}

// FetchImage retrieves the image blob for one record along with its content
// type. An error here degrades to "no image" in the enricher.
func (c *Client) FetchImage(ctx context.Context, ep Endpoint, recordID uint) ([]byte, string, error) {
	u := fmt.Sprintf("%s/%s/%d", c.baseURL, ep.Path, recordID)
	data, header, err := c.do(ctx, http.MethodGet, ep.Path, u, nil)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image response for record %d", recordID)
	}
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// Dispatch issues a state-transition call at {resource}/{id}/{action}. The
// request body always carries the record identifier plus the field values
// being set. Mutations require a session identity and are never retried.
func (c *Client) Dispatch(ctx context.Context, resource string, id uint, action model.Action, fields map[string]interface{}) error {
	if _, ok := session.FromContext(ctx); !ok {
		return &PreconditionError{Reason: "not authenticated"}
	}

	payload := map[string]interface{}{"id": id}
	for k, v := range fields {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	name := resource + "/" + string(action)
	u := fmt.Sprintf("%s/%s/%d/%s", c.baseURL, resource, id, action)
	_, _, err = c.do(ctx, http.MethodPost, name, u, body)
	if err != nil {
		prometheus.RecordMutation(resource, string(action), "error")
		return err
	}
	prometheus.RecordMutation(resource, string(action), "ok")
	return nil
}

// getWithRetry performs a GET, retrying transport failures up to the
// configured count. Server errors and cancellation are never retried.
func (c *Client) getWithRetry(ctx context.Context, name, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			prometheus.RecordBackendRetry(name)
			c.log.Warn("Retrying backend request",
				zap.String("endpoint", name),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		body, _, err := c.do(ctx, http.MethodGet, name, u, nil)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var nerr *NetworkError
		if !errors.As(err, &nerr) {
			return nil, err
		}
	}
	return nil, lastErr
}

// do performs a single request and maps failures onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, name, u string, payload []byte) ([]byte, http.Header, error) {
	track := prometheus.TrackBackendRequest(name)
	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := session.FromContext(ctx); ok && id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		track(start, "network_error")
		return nil, nil, classify(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		track(start, "network_error")
		return nil, nil, classify(err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		track(start, strconv.Itoa(res.StatusCode))
		return nil, nil, serverError(res.StatusCode, data)
	}

	track(start, "ok")
	return data, res.Header, nil
}

// serverError builds a ServerError from a non-2xx response, preferring the
// server-provided message when the body carries one.
func serverError(status int, body []byte) *ServerError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else {
			msg = payload.Message
		}
	}
	return &ServerError{StatusCode: status, Message: msg}
}

// decodeEnvelope unwraps `{ <key>: [...] }` response bodies.
func decodeEnvelope[T any](body []byte, key string) ([]T, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	raw, ok := env[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errMissingKey, key)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %q collection: %w", key, err)
	}
	return out, nil
}
