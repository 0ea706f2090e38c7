// Package lmsapi is the REST client of the LMS progress & feedback API.
package lmsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/course"
	"github.com/tarunb-0127/minilms/core/enrollment"
	"github.com/tarunb-0127/minilms/core/feedback"
	"github.com/tarunb-0127/minilms/core/progress"
	"github.com/tarunb-0127/minilms/core/session"
)

const (
	DefaultTimeout = 30 * time.Second

	learnerIDHeader = "LearnerId"
	requestIDHeader = "X-Request-ID"
)

var (
	// errors
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// IsStatus reports whether the cause of err is a StatusError with code.
func IsStatus(err error, code int) bool {
	sErr, ok := errors.Cause(err).(*StatusError)
	return ok && sErr.Code == code
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Session session.Session
}

// Client talks to the LMS API on behalf of one session.
// It implements course.Store, enrollment.Store, progress.Store and feedback.Store.
type Client struct {
	rest     *resty.Client
	sess     session.Session
	validate *validator.Validate
}

var (
	_ course.Store     = (*Client)(nil)
	_ enrollment.Store = (*Client)(nil)
	_ progress.Store   = (*Client)(nil)
	_ feedback.Store   = (*Client)(nil)
)

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rest := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.Session.Token != "" {
		rest.SetAuthToken(opts.Session.Token)
	}
	if opts.Session.LearnerID != 0 {
		rest.SetHeader(learnerIDHeader, strconv.Itoa(opts.Session.LearnerID))
	}
	rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(requestIDHeader, uuid.NewString())
		return nil
	})

	validate, _ := core.NewValidator()
	return &Client{rest: rest, sess: opts.Session, validate: validate}
}

// NewFromConfig builds a Client from the api.* config keys.
func NewFromConfig(conf *core.Config, sess session.Session) *Client {
	return New(Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
		Session: sess,
	})
}

func (c *Client) Session() session.Session {
	return c.sess
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rest.R().SetContext(ctx)
}

// do sends req and decodes a 2xx JSON body into out (unless out is nil).
func (c *Client) do(req *resty.Request, method, path string, out interface{}) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if !resp.IsSuccess() {
		return errors.Wrapf(&StatusError{Code: resp.StatusCode(), Body: resp.String()}, "%s %s", method, path)
	}
	if out == nil {
		return nil
	}
	if err = json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "%s %s: %v", method, path, err)
	}
	return nil
}

// check validates a decoded schema.
func (c *Client) check(path string, schema interface{}) error {
	if err := c.validate.Struct(schema); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "%s: %v", path, err)
	}
	return nil
}
