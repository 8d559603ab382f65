package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JulienPalard/TheodoreServer/pkg/api"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

var (
	// ErrNotFound means the wait ended with no message to return.
	ErrNotFound = errors.New("no message available")

	// ErrNoChannels means a multi-channel retrieval named no channels.
	ErrNoChannels = errors.New("no channels requested")
)

// StaleClientError is returned when the daemon restarted since this client
// recorded its start date. It carries the daemon's current start date so the
// caller can forget its cursors, record the new date and retry.
type StaleClientError struct {
	StartDate string
}

func (e *StaleClientError) Error() string {
	return fmt.Sprintf("daemon restarted, new start date: %s", e.StartDate)
}

// Client is the API client that performs all operations
// against a theodore daemon.
type Client struct {
	// client used to send and receive http requests.
	client   *http.Client
	endpoint string
}

// New initializes a new API client
func New(endpoint string) *Client {
	logging.S().Infow("theodore client initialized", "addr", endpoint)

	return &Client{
		client:   &http.Client{},
		endpoint: endpoint,
	}
}

// Close the transport used by the client
func (c *Client) Close() error {
	if t, ok := c.client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// Publish pushes payload onto the named channel. The daemon assigns the id;
// publishing never waits on consumers.
func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	resp, err := c.request(ctx, "POST", "/"+url.PathEscape(channel), nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}

// Get retrieves one message from one channel, long-polling until the
// selector is satisfied unless r.NoWait is set. It returns ErrNotFound when
// the wait ends empty-handed and a StaleClientError when r.StartDate no
// longer matches the daemon's.
func (c *Client) Get(ctx context.Context, channel string, r *GetRequest) (*api.Message, error) {
	q := url.Values{}
	if r.Selector != "" {
		q.Set(api.ParamMinID, r.Selector)
	}
	if r.NoWait {
		q.Set(api.ParamNoWait, "")
	}
	if r.StartDate != "" {
		q.Set(api.ParamStartDate, r.StartDate)
	}

	resp, err := c.request(ctx, "GET", "/"+url.PathEscape(channel), q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusPreconditionFailed:
		return nil, &StaleClientError{StartDate: resp.Header.Get(api.HeaderStartDate)}
	default:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	id, err := strconv.ParseUint(resp.Header.Get(api.HeaderID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed %s header: %w", api.HeaderID, err)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &api.Message{Channel: channel, ID: id, Payload: payload}, nil
}

// GetMultiple watches every channel in r.Selectors at once and returns the
// first message any of them produces, along with each watched channel's last
// assigned id for cursor resync. It returns ErrNoChannels when r names no
// channels and ErrNotFound when every channel stayed quiet.
func (c *Client) GetMultiple(ctx context.Context, r *MultiRequest) (*api.MultiMessage, error) {
	q := url.Values{}
	for name, sel := range r.Selectors {
		q.Set(name, sel)
	}
	if r.NoWait {
		q.Set(api.ParamNoWait, "")
	}

	resp, err := c.request(ctx, "GET", "/", q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnprocessableEntity:
		return nil, ErrNoChannels
	default:
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	id, err := strconv.ParseUint(resp.Header.Get(api.HeaderID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed %s header: %w", api.HeaderID, err)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	msg := &api.MultiMessage{
		Message: api.Message{
			Channel: resp.Header.Get(api.HeaderChannel),
			ID:      id,
			Payload: payload,
		},
		LastIDs: make(map[string]uint64, len(r.Selectors)),
	}

	for name := range r.Selectors {
		v := resp.Header.Get(api.ChannelIDHeader(name))
		last, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed %s header: %w", api.ChannelIDHeader(name), err)
		}
		msg.LastIDs[name] = last
	}

	return msg, nil
}

// Stats retrieves the daemon's statistics document for one channel.
func (c *Client) Stats(ctx context.Context, channel string) (*api.ChannelStats, error) {
	q := url.Values{}
	q.Set(api.ParamChannel, channel)

	resp, err := c.request(ctx, "GET", "/stats", q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return api.ParseChannelStats(string(body))
}

func (c *Client) request(ctx context.Context, method string, path string, query url.Values, body io.Reader) (*http.Response, error) {
	u := "http://" + c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}
