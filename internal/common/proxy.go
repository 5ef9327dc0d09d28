package common

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	OK                     int = 200
	BAD_REQUEST            int = 400
	UNAUTHORIZED           int = 401
	FORBIDDEN              int = 403
	DATA_NOT_FOUND         int = 404
	METHOD_NOT_ALLOWED     int = 405
	UNSUPPORTED_MEDIA_TYPE int = 415
	RATE_LIMIT_EXCEEDED    int = 429
	INTERNAL_SERVER_ERROR  int = 500
	BAD_GATEWAY            int = 502
	SERVICE_UNAVAILABLE    int = 503
	GATEWAY_TIMEOUT        int = 504
)

var messages = map[int]string{
	OK:                     "OK",
	BAD_REQUEST:            "Bad request",
	UNAUTHORIZED:           "Unauthorized",
	FORBIDDEN:              "Forbidden",
	DATA_NOT_FOUND:         "Data not found",
	METHOD_NOT_ALLOWED:     "Method not allowed",
	UNSUPPORTED_MEDIA_TYPE: "Unsupported media type",
	RATE_LIMIT_EXCEEDED:    "Rate limit exceeded",
	INTERNAL_SERVER_ERROR:  "Internal server error",
	BAD_GATEWAY:            "Bad gateway",
	SERVICE_UNAVAILABLE:    "Service unavailable",
	GATEWAY_TIMEOUT:        "Gateway timeout",
}

// FetchExhaustedError is returned when a url could not be fetched
// within the configured number of attempts
type FetchExhaustedError struct {
	URL      string
	Attempts int
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("failed to fetch after %d attempts: %s", e.Attempts, e.URL)
}

// Proxy performs GET requests against an upstream API, retrying with a
// fixed delay when a request fails or the upstream answers with a rate
// limit. A sliding window rate limiter spaces outgoing attempts so the
// upstream limit is rarely hit in the first place
type Proxy struct {
	header      map[string]string
	client      http.Client
	rateLimiter RateLimiter
	maxAttempts int
	retryDelay  time.Duration
}

func NewProxy(header map[string]string, restrictions []Restriction, maxAttempts int, retryDelay time.Duration, timeout time.Duration) Proxy {
	return Proxy{header, http.Client{Timeout: timeout}, NewRateLimiter(restrictions), maxAttempts, retryDelay}
}

// Make a request to the provided url.
// Every attempt, including rate limited ones, consumes one unit of the
// attempt budget. Once the budget is spent, the request fails with a
// FetchExhaustedError
func (proxy *Proxy) Request(url string) ([]byte, error) {

	for attempt := 1; attempt <= proxy.maxAttempts; attempt++ {

		// Ask the rate limiter for a slot before going out
		proxy.rateLimiter.Wait()

		request, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("could not create request for url %s: %w", url, err)
		}
		for key, value := range proxy.header {
			request.Header.Set(key, value)
		}

		res, err := proxy.client.Do(request)
		if err != nil {
			log.Error().Msg(fmt.Sprintf("Request failed: %v. Retrying in %s (%d/%d)", err, proxy.retryDelay, attempt, proxy.maxAttempts))
			proxy.sleepBeforeRetry(attempt)
			continue
		}

		body, readErr := io.ReadAll(res.Body)
		res.Body.Close()

		switch {
		case res.StatusCode == RATE_LIMIT_EXCEEDED:
			log.Warn().Msg(fmt.Sprintf("Rate limited. Waiting %s before retry (%d/%d)", proxy.retryDelay, attempt, proxy.maxAttempts))
			proxy.sleepBeforeRetry(attempt)
		case res.StatusCode/100 == 2:
			if readErr != nil {
				log.Error().Msg(fmt.Sprintf("Could not extract the response for url %s: %v. Retrying in %s (%d/%d)", url, readErr, proxy.retryDelay, attempt, proxy.maxAttempts))
				proxy.sleepBeforeRetry(attempt)
				continue
			}
			log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, statusMessage(res.StatusCode)))
			return body, nil
		default:
			log.Error().Msg(fmt.Sprintf("Request to %s returned %d %s. Retrying in %s (%d/%d)", url, res.StatusCode, statusMessage(res.StatusCode), proxy.retryDelay, attempt, proxy.maxAttempts))
			proxy.sleepBeforeRetry(attempt)
		}
	}

	return nil, &FetchExhaustedError{URL: url, Attempts: proxy.maxAttempts}
}

// Sleep the fixed retry delay, except after the final attempt,
// where no retry will follow
func (proxy *Proxy) sleepBeforeRetry(attempt int) {
	if attempt < proxy.maxAttempts {
		time.Sleep(proxy.retryDelay)
	}
}

func statusMessage(code int) string {
	if message, ok := messages[code]; ok {
		return message
	}
	return "Unknown status"
}
