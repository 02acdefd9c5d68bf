package favclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// User is the owner of a favorite
type User struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// Tour is the favorited tour
type Tour struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Location *string  `json:"location"`
	Price    *float64 `json:"price"`
	ImageURL *string  `json:"imageUrl"`
}

// Favorite is a saved tour as returned by the API
type Favorite struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Tour      Tour      `json:"tour"`
	IsDeleted bool      `json:"isDeleted"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FavoriteResponse is the result of add, remove and toggle
type FavoriteResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Favorite *Favorite `json:"favorite"`
}

// FavoritesList is a page of favorites
type FavoritesList struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Favorites []Favorite `json:"favorites"`
	Total     int        `json:"total"`
}

// ReorderResponse is the result of a reorder
type ReorderResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Favorites []Favorite `json:"favorites"`
}

// GraphQLError is one entry of a GraphQL errors array
type GraphQLError struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Code returns extensions.code, or an empty string
func (e GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// Errors is returned when the server answers with GraphQL errors
type Errors []GraphQLError

func (e Errors) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Message
	}
	return "graphql: " + strings.Join(messages, "; ")
}

// HasCode reports whether any error carries the given extensions.code
func (e Errors) HasCode(code string) bool {
	for _, err := range e {
		if err.Code() == code {
			return true
		}
	}
	return false
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Client talks to the favorites GraphQL endpoint
type Client struct {
	http     *resty.Client
	once     *resty.Client
	endpoint string
}

// nonIdempotent operations are sent once, even with retries enabled
var nonIdempotent = map[string]bool{
	"ToggleFavorite": true,
}

// Option configures a Client
type Option func(*Client)

func (c *Client) each(fn func(*resty.Client)) {
	fn(c.http)
	fn(c.once)
}

// WithToken sends the bearer token on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.each(func(rc *resty.Client) { rc.SetAuthToken(token) })
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.each(func(rc *resty.Client) { rc.SetTimeout(d) })
	}
}

// WithRetries retries requests that fail at the transport level or with a
// 5xx. Toggles are never retried.
func WithRetries(count int, wait time.Duration) Option {
	return func(c *Client) {
		c.http.SetRetryCount(count).
			SetRetryWaitTime(wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}
}

func newTransport(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
}

// NewClient creates a client for the server at baseURL. Requests go to
// baseURL + "/graphql".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:     newTransport(baseURL),
		once:     newTransport(baseURL),
		endpoint: "/graphql",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends a GraphQL document and decodes data into out
func (c *Client) Do(ctx context.Context, operationName, query string, variables map[string]interface{}, out interface{}) error {
	transport := c.http
	if nonIdempotent[operationName] {
		transport = c.once
	}

	var result envelope
	resp, err := transport.R().
		SetContext(ctx).
		SetBody(request{Query: query, OperationName: operationName, Variables: variables}).
		SetResult(&result).
		SetError(&result).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("%s: %w", operationName, err)
	}

	if len(result.Errors) > 0 {
		return result.Errors
	}
	if resp.IsError() {
		return fmt.Errorf("%s: unexpected status %d: %s", operationName, resp.StatusCode(), resp.String())
	}
	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("%s: failed to decode data: %w", operationName, err)
	}
	return nil
}

// GetFavorites lists the caller's favorites. nil limit and offset use the
// server defaults.
func (c *Client) GetFavorites(ctx context.Context, limit, offset *int) (*FavoritesList, error) {
	vars := map[string]interface{}{}
	if limit != nil {
		vars["limit"] = *limit
	}
	if offset != nil {
		vars["offset"] = *offset
	}

	var data struct {
		GetFavorites FavoritesList `json:"getFavorites"`
	}
	if err := c.Do(ctx, "GetFavorites", GetFavoritesQuery, vars, &data); err != nil {
		return nil, err
	}
	return &data.GetFavorites, nil
}

// IsFavorite reports whether the caller has favorited the tour
func (c *Client) IsFavorite(ctx context.Context, tourID string) (bool, error) {
	var data struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.Do(ctx, "IsFavorite", IsFavoriteQuery, map[string]interface{}{"tourId": tourID}, &data); err != nil {
		return false, err
	}
	return data.IsFavorite, nil
}

// GetTourFavorites lists every active favorite of a tour. Requires an admin token.
func (c *Client) GetTourFavorites(ctx context.Context, tourID string) (*FavoritesList, error) {
	var data struct {
		GetTourFavorites FavoritesList `json:"getTourFavorites"`
	}
	if err := c.Do(ctx, "GetTourFavorites", GetTourFavoritesQuery, map[string]interface{}{"tourId": tourID}, &data); err != nil {
		return nil, err
	}
	return &data.GetTourFavorites, nil
}

// AddToFavorites saves a tour
func (c *Client) AddToFavorites(ctx context.Context, tourID string) (*FavoriteResponse, error) {
	var data struct {
		AddToFavorites FavoriteResponse `json:"addToFavorites"`
	}
	if err := c.Do(ctx, "AddToFavorites", AddToFavoritesMutation, map[string]interface{}{"tourId": tourID}, &data); err != nil {
		return nil, err
	}
	return &data.AddToFavorites, nil
}

// RemoveFromFavorites removes a saved tour
func (c *Client) RemoveFromFavorites(ctx context.Context, tourID string) (*FavoriteResponse, error) {
	var data struct {
		RemoveFromFavorites FavoriteResponse `json:"removeFromFavorites"`
	}
	if err := c.Do(ctx, "RemoveFromFavorites", RemoveFromFavoritesMutation, map[string]interface{}{"tourId": tourID}, &data); err != nil {
		return nil, err
	}
	return &data.RemoveFromFavorites, nil
}

// ToggleFavorite flips the favorite state of a tour. It is never retried;
// after an error the state on the server is unknown and should be re-read
// with IsFavorite.
func (c *Client) ToggleFavorite(ctx context.Context, tourID string) (*FavoriteResponse, error) {
	var data struct {
		ToggleFavorite FavoriteResponse `json:"toggleFavorite"`
	}
	if err := c.Do(ctx, "ToggleFavorite", ToggleFavoriteMutation, map[string]interface{}{"tourId": tourID}, &data); err != nil {
		return nil, err
	}
	return &data.ToggleFavorite, nil
}

// ReorderFavorites submits the complete new order of favorite IDs
func (c *Client) ReorderFavorites(ctx context.Context, favoriteIDs []string) (*ReorderResponse, error) {
	ids := favoriteIDs
	if ids == nil {
		ids = []string{}
	}

	var data struct {
		ReorderFavorites ReorderResponse `json:"reorderFavorites"`
	}
	if err := c.Do(ctx, "ReorderFavorites", ReorderFavoritesMutation, map[string]interface{}{"favoriteIds": ids}, &data); err != nil {
		return nil, err
	}
	return &data.ReorderFavorites, nil
}
