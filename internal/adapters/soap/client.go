package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"banguat/internal/adapters"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Namespace of the Banguat tipocambio web service.
const Namespace = "http://www.banguat.gob.gt/variables/ws/"

type Client struct {
	http      *http.Client
	endpoint  string
	namespace string
	lists     map[string]struct{}
	logger    logrus.FieldLogger
}

type Option func(*Client)

// WithListElements marks elements that must always decode as []any, even when a single one arrives.
func WithListElements(names ...string) Option {
	return func(c *Client) {
		for _, name := range names {
			c.lists[name] = struct{}{}
		}
	}
}

func WithNamespace(namespace string) Option {
	return func(c *Client) { c.namespace = namespace }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(httpClient *http.Client, endpoint string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		http:      httpClient,
		endpoint:  serviceURL(endpoint),
		namespace: Namespace,
		lists:     make(map[string]struct{}),
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint is the address requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) Call(ctx context.Context, operation string, params ...adapters.Param) (reply adapters.Reply, err error) {
	log := c.logger.WithFields(logrus.Fields{"call_id": uuid.NewString(), "operation": operation})
	defer func(begin time.Time) {
		entry := log.WithField("took", time.Since(begin))
		if err != nil {
			entry.WithError(err).Debug("soap call failed")
			return
		}
		entry.Debug("soap call done")
	}(time.Now())

	body, err := encodeEnvelope(c.namespace, operation, params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %q: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", operation, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+c.namespace+operation+`"`)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for %q: %w", operation, err)
	}
	defer resp.Body.Close()

	reply, err = decodeReply(resp.Body, operation, c.lists)

	// faults arrive with a 500 status and carry the better message
	var faultErr *FaultError
	if errors.As(err, &faultErr) {
		return nil, fmt.Errorf("request %q rejected: %w", operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d for %q: %s", resp.StatusCode, operation, resp.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode response for %q: %w", operation, err)
	}
	return reply, nil
}

// serviceURL drops the ?WSDL query so the WSDL address can be used as the POST target.
func serviceURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	if strings.EqualFold(u.RawQuery, "wsdl") {
		u.RawQuery = ""
	}
	return u.String()
}
