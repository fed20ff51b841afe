package http

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	charsetpkg "golang.org/x/net/html/charset"
)

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL            string
	client             *http.Client
	dismiss404         bool
	defaultHeaders     map[string]string
	defaultQueryParams map[string]string
	defaultContentType string
	logger             HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	Dismiss404          bool
	DefaultHeaders      map[string]string
	DefaultQueryParams  map[string]string
	DefaultContentType  string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	Logger              HTTPLogger
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.DefaultContentType == "" {
		opts.DefaultContentType = "application/json"
	}
	if opts.Logger == nil {
		opts.Logger = NewZapLogger()
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectionTimeout,
		}).DialContext,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		client:             client,
		dismiss404:         opts.Dismiss404,
		defaultHeaders:     opts.DefaultHeaders,
		defaultQueryParams: opts.DefaultQueryParams,
		defaultContentType: opts.DefaultContentType,
		logger:             opts.Logger,
	}
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// Get sends a GET request to the specified path with optional query parameters, headers, and response types.
// It returns the success response, error response, status code, and error if any.
func (hc *Client) Get(ctx context.Context, path string, queryParams map[string]string, headers map[string]string, successResp any, errorResp any) (any, any, int, error) {
	return hc.doRequest(ctx, http.MethodGet, path, queryParams, headers, nil, successResp, errorResp)
}

// Post sends a POST request to the specified path with optional query parameters, headers, and response types.
// It returns the success response, error response, status code, and error if any.
func (hc *Client) Post(ctx context.Context, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any) (any, any, int, error) {
	return hc.doRequest(ctx, http.MethodPost, path, queryParams, headers, body, successResp, errorResp)
}

// doRequest builds the URL, prepares the request body, sets headers, executes the request, and handles the response.
// A status code of 0 in the result means no complete response was received (transport failure, body read
// failure or cancelled context).
func (hc *Client) doRequest(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any) (any, any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fullURL := hc.buildURL(path)
	if query := hc.buildQueryString(queryParams); query != "" {
		fullURL += "?" + query
	}

	bodyReader, contentType, bodyText, err := hc.encodeBody(body)
	if err != nil {
		return nil, nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, nil, 0, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range hc.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logURL := redactURL(req.URL)
	hc.logger.LogRequest(method, logURL, headers, bodyText)

	start := time.Now()
	resp, err := hc.client.Do(req)
	if err != nil {
		hc.logger.LogResponseError(method, logURL, headers, bodyText, 0, "", time.Since(start).Milliseconds(), err)
		return nil, nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		// A body cut short by a timeout or a dropped connection is not a response.
		hc.logger.LogResponseError(method, logURL, headers, bodyText, resp.StatusCode, "", latency, err)
		return nil, nil, 0, err
	}

	respContentType := resp.Header.Get("Content-Type")
	if respContentType == "" {
		respContentType = hc.defaultContentType
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		hc.logger.LogResponseSuccess(method, logURL, headers, bodyText, resp.StatusCode, string(bodyBytes), latency)
		if successResp != nil {
			if err = hc.unmarshalResponse(bodyBytes, respContentType, successResp); err != nil {
				return nil, nil, resp.StatusCode, fmt.Errorf("failed to decode response body: %w", err)
			}
		}
		return successResp, nil, resp.StatusCode, nil
	}

	statusErr := fmt.Errorf("http error: status %d", resp.StatusCode)
	hc.logger.LogResponseError(method, logURL, headers, bodyText, resp.StatusCode, string(bodyBytes), latency, statusErr)

	if resp.StatusCode == http.StatusNotFound && hc.dismiss404 {
		return nil, nil, resp.StatusCode, nil
	}

	if errorResp != nil {
		// An error body that does not decode is not worth failing over; the status still reports the error.
		if hc.unmarshalResponse(bodyBytes, respContentType, errorResp) != nil {
			errorResp = nil
		}
	}

	return nil, errorResp, resp.StatusCode, statusErr
}

// encodeBody returns the reader, its content type and a printable copy for logging.
func (hc *Client) encodeBody(body any) (io.Reader, string, string, error) {
	if body == nil {
		return nil, "", "", nil
	}

	switch body := body.(type) {
	case string:
		return bytes.NewBufferString(body), "text/plain", body, nil
	case []byte:
		return bytes.NewBuffer(body), "application/octet-stream", "", nil
	}

	switch hc.defaultContentType {
	case "application/xml":
		xmlBody, err := xml.Marshal(body)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to marshal request body to XML: %w", err)
		}
		return bytes.NewBuffer(xmlBody), "application/xml", string(xmlBody), nil
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to marshal request body to JSON: %w", err)
		}
		return bytes.NewBuffer(jsonBody), "application/json", string(jsonBody), nil
	}
}

// unmarshalResponse unmarshals response body based on content type
func (hc *Client) unmarshalResponse(bodyBytes []byte, contentType string, target any) error {
	mainContentType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	switch mainContentType {
	case "application/xml", "text/xml":
		dec := xml.NewDecoder(bytes.NewReader(bodyBytes))
		dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
			return charsetpkg.NewReaderLabel(charset, input)
		}
		return dec.Decode(target)
	case "text/plain":
		if strPtr, ok := target.(*string); ok {
			*strPtr = string(bodyBytes)
			return nil
		}
		return json.Unmarshal(bodyBytes, target)
	default:
		return json.Unmarshal(bodyBytes, target)
	}
}

// buildURL builds a normalized URL by properly handling baseURL and path
func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}

// buildQueryString merges the default query parameters with the request ones and encodes them.
func (hc *Client) buildQueryString(params map[string]string) string {
	values := url.Values{}
	for key, value := range hc.defaultQueryParams {
		values.Set(key, value)
	}
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}

// redactURL hides credentials carried in the query string before the URL is logged.
func redactURL(u *url.URL) string {
	clone := *u
	query := clone.Query()
	for _, key := range []string{"appid", "api_key", "apikey", "key", "token"} {
		if query.Has(key) {
			query.Set(key, "***")
		}
	}
	clone.RawQuery = query.Encode()
	return clone.String()
}
