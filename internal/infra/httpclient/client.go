// Package httpclient builds the resilient HTTP clients used to reach the
// static site and its index exports.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrUnexpectedStatus is returned for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError is a non-2xx response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d for %s", ErrUnexpectedStatus, e.Code, e.URL)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// IsClientError reports whether err is a 4xx answer other than 429. Such
// answers concern one resource, not the health of the server.
func IsClientError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}

	return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
}

// ClientConfig holds configuration for an outbound client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// NewRestyClient creates a Resty client that retries network errors and 5xx.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})
}

// NewCircuitBreaker creates a circuit breaker that logs its state changes.
// Network errors and 5xx count as failures; client errors do not.
func NewCircuitBreaker[T any](name string, cfg CBConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}

// CheckStatus turns a non-2xx response into an ErrUnexpectedStatus error.
func CheckStatus(r *resty.Response) error {
	if r.IsError() {
		return &StatusError{Code: r.StatusCode(), URL: r.Request.URL}
	}

	return nil
}

// HealthCheck issues a GET against path and expects a 2xx answer.
func HealthCheck(ctx context.Context, client *resty.Client, path string) error {
	resp, err := client.R().SetContext(ctx).Get(path)
	if err != nil {
		return err
	}

	return CheckStatus(resp)
}
