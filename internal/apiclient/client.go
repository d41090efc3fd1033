package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a non-2xx reply, or a 2xx reply whose envelope says success=false
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// envelope holds the fields every API reply may carry
type envelope struct {
	Success *bool       `json:"success"`
	Message interface{} `json:"message"`
}

// Client performs JSON requests against the admin API
type Client struct {
	base    string
	path    string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Client for the configured base URL and API path
func New(cfg config.APIConfig, logger *zap.Logger) *Client {
	return &Client{
		base:    strings.TrimRight(cfg.Base, "/"),
		path:    strings.Trim(cfg.Path, "/"),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// SignInURL is {base}/admin/signin
func (c *Client) SignInURL() string {
	return c.base + "/admin/signin"
}

// CheckURL is {base}/api/{path}/user/check
func (c *Client) CheckURL() string {
	return fmt.Sprintf("%s/api/%s/user/check", c.base, c.path)
}

// ProductsURL is {base}/api/{path}/admin/products
func (c *Client) ProductsURL() string {
	return fmt.Sprintf("%s/api/%s/admin/products", c.base, c.path)
}

// ProductURL addresses a single product; an empty id is the create endpoint
func (c *Client) ProductURL(id string) string {
	u := fmt.Sprintf("%s/api/%s/admin/product", c.base, c.path)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

// Do sends a request and decodes a successful reply into out.
// token, body and out are optional.
func (c *Client) Do(ctx context.Context, method, target, token string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var agent *fiber.Agent

	switch method {
	case fiber.MethodGet:
		agent = fiber.Get(target)
	case fiber.MethodPost:
		agent = fiber.Post(target)
	case fiber.MethodPut:
		agent = fiber.Put(target)
	case fiber.MethodDelete:
		agent = fiber.Delete(target)
	default:
		return fmt.Errorf("unsupported HTTP method: %s", method)
	}

	agent.JSONEncoder(json.Marshal)
	agent.JSONDecoder(json.Unmarshal)

	if timeout := c.requestTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	if body != nil {
		agent.JSON(body)
	}
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, token)
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.logger.Debug("Request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, target, err)
	}

	c.logger.Debug("Request completed",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", statusCode),
	)

	var env envelope
	if len(respBody) > 0 {
		// Non-JSON bodies are only a problem when the caller wants a value
		_ = json.Unmarshal(respBody, &env)
	}

	if statusCode == fiber.StatusUnauthorized || statusCode == fiber.StatusForbidden {
		return fmt.Errorf("%w: %s", domain.ErrAuth, messageText(env.Message, statusCode))
	}
	if statusCode < 200 || statusCode > 299 || (env.Success != nil && !*env.Success) {
		return &APIError{StatusCode: statusCode, Message: messageText(env.Message, statusCode)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// requestTimeout is the configured timeout, shortened to the context deadline
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// messageText flattens the API's message field, which may be a string or a list
func messageText(message interface{}, statusCode int) string {
	switch m := message.(type) {
	case string:
		return m
	case []interface{}:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, "; ")
	case nil:
		return statusText(statusCode)
	default:
		return fmt.Sprint(m)
	}
}

func statusText(statusCode int) string {
	return strings.ToLower(utils.StatusMessage(statusCode))
}
