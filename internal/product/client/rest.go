// Package client implements the Product Access Service over the REST API
// and caches the signed-in credential for the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/techstore/internal/apperr"
	"github.com/tair/techstore/internal/product/access"
	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/internal/product/dto"
	userdto "github.com/tair/techstore/internal/user/dto"
	"github.com/tair/techstore/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// REST talks to the catalog server
type REST struct {
	baseURL string
	http    *http.Client
	session *Session
}

var _ access.Access = (*REST)(nil)

// Option configures a REST client
type Option func(*REST)

// WithHTTPClient replaces the traced default client
func WithHTTPClient(c *http.Client) Option {
	return func(r *REST) { r.http = c }
}

// NewREST creates a client for baseURL. session may be nil.
func NewREST(baseURL string, session *Session, opts ...Option) *REST {
	if session == nil {
		session = &Session{}
	}
	r := &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
		session: session,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns the credential cache
func (r *REST) Session() *Session {
	return r.session
}

func (r *REST) List(ctx context.Context, req access.ListRequest) ([]domain.Product, error) {
	q := dto.ListQuery{CategoryKey: req.CategoryKey, CategoryID: req.CategoryID, Criteria: req.Criteria}
	path := "/api/products"
	if encoded := q.Encode().Encode(); encoded != "" {
		path += "?" + encoded
	}

	var records []dto.ProductRecord
	if err := r.do(ctx, call{op: "list products", method: http.MethodGet, path: path}, &records); err != nil {
		return nil, err
	}
	return dto.Products(records), nil
}

func (r *REST) Get(ctx context.Context, id uint) (*domain.Product, error) {
	var record dto.ProductRecord
	err := r.do(ctx, call{op: "get product", method: http.MethodGet, path: productPath(id), id: id}, &record)
	if err != nil {
		return nil, err
	}
	p := record.Product()
	return &p, nil
}

func (r *REST) Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error) {
	var record dto.ProductRecord
	err := r.do(ctx, call{
		op:     "create product",
		method: http.MethodPost,
		path:   "/api/products",
		body:   dto.NewCreateProductRequest(in),
		token:  r.credential(credential),
		gated:  true,
	}, &record)
	if err != nil {
		return nil, err
	}
	p := record.Product()
	return &p, nil
}

func (r *REST) Update(ctx context.Context, credential string, id uint, patch domain.ProductPatch) (*domain.Product, error) {
	var record dto.ProductRecord
	err := r.do(ctx, call{
		op:     "update product",
		method: http.MethodPut,
		path:   productPath(id),
		body:   dto.NewUpdateProductRequest(patch),
		token:  r.credential(credential),
		gated:  true,
		id:     id,
	}, &record)
	if err != nil {
		return nil, err
	}
	p := record.Product()
	return &p, nil
}

func (r *REST) Delete(ctx context.Context, credential string, id uint) error {
	var resp dto.DeleteResponse
	return r.do(ctx, call{
		op:     "delete product",
		method: http.MethodDelete,
		path:   productPath(id),
		token:  r.credential(credential),
		gated:  true,
		id:     id,
	}, &resp)
}

// Categories lists the catalog categories
func (r *REST) Categories(ctx context.Context) ([]dto.CategoryRecord, error) {
	var records []dto.CategoryRecord
	if err := r.do(ctx, call{op: "list categories", method: http.MethodGet, path: "/api/categories"}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Login signs in and stores the credential in the session
func (r *REST) Login(ctx context.Context, email, password string) (*userdto.AuthResponse, error) {
	var resp userdto.AuthResponse
	err := r.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   userdto.LoginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := r.session.Save(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the stored credential
func (r *REST) Logout() error {
	return r.session.Clear()
}

// Me returns the signed-in user's profile
func (r *REST) Me(ctx context.Context) (*userdto.UserRecord, error) {
	var resp userdto.UserResponse
	err := r.do(ctx, call{
		op:     "get profile",
		method: http.MethodGet,
		path:   "/api/auth/me",
		token:  r.session.Token(),
		gated:  true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type call struct {
	op     string
	method string
	path   string
	body   interface{}
	token  string
	// gated calls clear the session when the server rejects the credential
	gated bool
	id    uint
}

func (r *REST) credential(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return r.session.Token()
}

func (r *REST) do(ctx context.Context, c call, out interface{}) error {
	var body io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", c.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, r.baseURL+c.path, body)
	if err != nil {
		return apperr.NewTransportError(c.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return apperr.NewTransportError(c.op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.NewTransportError(c.op, fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	err = statusError(resp, c)
	if c.gated && apperr.IsAuthorizationError(err) {
		if clearErr := r.session.Clear(); clearErr != nil {
			logger.Warn(ctx).Err(clearErr).Msg("Failed to clear rejected session")
		}
	}
	return err
}

// statusError maps a non-2xx response onto the error taxonomy
func statusError(resp *http.Response, c call) error {
	var body dto.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if len(body.Fields) > 0 {
			return apperr.NewValidationError(body.Fields...)
		}
		return apperr.NewFieldError("request", msg)
	case http.StatusUnauthorized:
		return apperr.NewUnauthorizedError(msg)
	case http.StatusForbidden:
		return apperr.NewForbiddenError(msg)
	case http.StatusNotFound:
		return apperr.NewNotFoundError("product", c.id)
	case http.StatusConflict:
		return apperr.NewConflictError(msg)
	default:
		return apperr.NewTransportError(c.op, &StatusError{Code: resp.StatusCode, Message: msg})
	}
}

// StatusError is an unexpected HTTP status from the server
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return "HTTP " + strconv.Itoa(e.Code) + ": " + e.Message
}

func productPath(id uint) string {
	return "/api/products/" + url.PathEscape(strconv.FormatUint(uint64(id), 10))
}

// IsStatus reports whether err carries the given unexpected HTTP status
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
