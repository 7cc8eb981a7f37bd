// Package users is a typed HTTP client for the users API.
package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	userhttpmapper "github.com/Apurer/go-gin-users-api/internal/domains/users/adapters/http/mapper"
	apierrors "github.com/Apurer/go-gin-users-api/internal/shared/errors"
)

// User is the payload returned by the API.
type User = userhttpmapper.User

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("user not found")

// Fields are the text fields submitted on create and update.
type Fields struct {
	Name    string
	Email   string
	Phone   string
	City    string
	Country string
}

func (f Fields) formData() map[string]string {
	return map[string]string{
		"name":    f.Name,
		"email":   f.Email,
		"phone":   f.Phone,
		"city":    f.City,
		"country": f.Country,
	}
}

// Picture is an optional profile picture upload.
type Picture struct {
	FileName string
	Content  io.Reader
}

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Detail     *apierrors.Detail
}

func (e *APIError) Error() string {
	if e.Detail != nil && e.Detail.Detail != "" {
		return fmt.Sprintf("users API %d: %s: %s", e.StatusCode, e.Message, e.Detail.Detail)
	}
	return fmt.Sprintf("users API %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match ErrNotFound on 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the /users endpoints.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for baseURL. A nil httpClient uses a 5s timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("users base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}, nil
}

// List fetches every user.
func (c *Client) List(ctx context.Context) ([]User, error) {
	var users []User
	resp, err := c.request(ctx).SetResult(&users).Get("/users")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches one user.
func (c *Client) Get(ctx context.Context, id int64) (*User, error) {
	var user User
	resp, err := c.request(ctx).SetResult(&user).Get(userPath(id))
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create submits a new user, uploading picture when non-nil.
func (c *Client) Create(ctx context.Context, fields Fields, picture *Picture) (*User, error) {
	var user User
	resp, err := c.form(ctx, fields, picture).SetResult(&user).Post("/users")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces every field of a user. A nil picture clears the stored one.
func (c *Client) Update(ctx context.Context, id int64, fields Fields, picture *Picture) (*User, error) {
	var user User
	resp, err := c.form(ctx, fields, picture).SetResult(&user).Put(userPath(id))
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.request(ctx).Delete(userPath(id))
	return check(resp, err)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&apierrors.Body{})
}

func (c *Client) form(ctx context.Context, fields Fields, picture *Picture) *resty.Request {
	req := c.request(ctx).SetMultipartFormData(fields.formData())
	if picture != nil && picture.Content != nil {
		req.SetFileReader("profilePicture", picture.FileName, picture.Content)
	}
	return req
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("call users API: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
	if body, ok := resp.Error().(*apierrors.Body); ok && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Detail = body.Error
	}
	return apiErr
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}
