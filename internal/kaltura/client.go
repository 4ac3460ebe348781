package kaltura

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kaltura/kal-metadata-utils/internal/retry"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

const (
	sessionTypeAdmin  = "2"
	objectTypeEntry   = "1"
	maxResponseBytes  = 16 << 20
	clientTagPrefix   = "kmeta:"
	apiExceptionClass = "KalturaAPIException"
)

// Config holds what the client needs to open an admin session.
type Config struct {
	ServiceURL     string
	PartnerID      int
	AdminSecret    string
	UserID         string
	Privileges     string
	SessionExpiry  time.Duration
	RequestTimeout time.Duration

	// HTTPClient defaults to a client with RequestTimeout.
	HTTPClient *http.Client
}

// Client implements kmeta.MetadataStore over HTTP.
// Safe for concurrent use.
type Client struct {
	cfg       Config
	base      string
	http      *http.Client
	executor  *retry.Executor
	logger    kmeta.Logger
	clientTag string

	mu sync.Mutex
	ks string
}

// New creates a client. No request is made until the first operation.
// Panics if executor or logger is nil.
func New(cfg Config, executor *retry.Executor, logger kmeta.Logger) (*Client, error) {
	if executor == nil {
		panic("executor cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if cfg.PartnerID <= 0 {
		return nil, fmt.Errorf("%w: partner id must be positive", kmeta.ErrInvalidConfig)
	}
	if cfg.AdminSecret == "" {
		return nil, fmt.Errorf("%w: admin secret is required", kmeta.ErrInvalidConfig)
	}

	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = kmeta.DefaultServiceURL
	}
	u, err := url.Parse(serviceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid service url %q", kmeta.ErrInvalidConfig, serviceURL)
	}

	if cfg.UserID == "" {
		cfg.UserID = kmeta.DefaultSessionUserID
	}
	if cfg.Privileges == "" {
		cfg.Privileges = kmeta.DefaultSessionPrivileges
	}
	if cfg.SessionExpiry <= 0 {
		cfg.SessionExpiry = kmeta.DefaultSessionExpiry
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = kmeta.DefaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Client{
		cfg:       cfg,
		base:      strings.TrimSuffix(serviceURL, "/"),
		http:      httpClient,
		executor:  executor,
		logger:    logger,
		clientTag: clientTagPrefix + uuid.NewString(),
	}, nil
}

// ClientTag identifies this client's requests in service logs.
func (c *Client) ClientTag() string {
	return c.clientTag
}

type profileResponse struct {
	ID  int64  `json:"id"`
	XSD string `json:"xsd"`
}

type metadataObject struct {
	ID      int64  `json:"id"`
	XML     string `json:"xml"`
	Version int    `json:"version"`
}

type metadataList struct {
	Objects    []metadataObject `json:"objects"`
	TotalCount int              `json:"totalCount"`
}

func (c *Client) FetchSchema(ctx context.Context, profileID string) (string, error) {
	var resp profileResponse
	params := url.Values{"id": {profileID}}
	if err := c.authorizedCall(ctx, "metadata_metadataprofile", "get", params, true, &resp); err != nil {
		return "", fmt.Errorf("failed to fetch metadata profile %s: %w", profileID, err)
	}
	if resp.XSD == "" {
		return "", fmt.Errorf("%w: metadata profile %s has no schema", kmeta.ErrNotFound, profileID)
	}
	return resp.XSD, nil
}

func (c *Client) FetchExisting(ctx context.Context, entryID, profileID string) (kmeta.ExistingDocument, bool, error) {
	obj, ok, err := c.find(ctx, entryID, profileID)
	if err != nil || !ok {
		return kmeta.ExistingDocument{}, false, err
	}
	return kmeta.ExistingDocument{ID: strconv.FormatInt(obj.ID, 10), XML: obj.XML}, true, nil
}

func (c *Client) find(ctx context.Context, entryID, profileID string) (metadataObject, bool, error) {
	var list metadataList
	params := url.Values{
		"filter[objectType]":              {"KalturaMetadataFilter"},
		"filter[metadataProfileIdEqual]":  {profileID},
		"filter[metadataObjectTypeEqual]": {objectTypeEntry},
		"filter[objectIdEqual]":           {entryID},
		"pager[objectType]":               {"KalturaFilterPager"},
		"pager[pageSize]":                 {"1"},
	}
	if err := c.authorizedCall(ctx, "metadata_metadata", "list", params, true, &list); err != nil {
		return metadataObject{}, false, fmt.Errorf("failed to list metadata for entry %s: %w", entryID, err)
	}
	if len(list.Objects) == 0 {
		return metadataObject{}, false, nil
	}
	if list.TotalCount > 1 {
		c.logger.Warn("entry %s has %d metadata documents for profile %s; using the first", entryID, list.TotalCount, profileID)
	}
	return list.Objects[0], true, nil
}

// Upsert updates the entry's document when one exists and adds it otherwise.
func (c *Client) Upsert(ctx context.Context, entryID, profileID, xml string) (kmeta.UpsertResult, error) {
	existing, ok, err := c.find(ctx, entryID, profileID)
	if err != nil {
		return kmeta.UpsertResult{}, err
	}

	var obj metadataObject
	if ok {
		id := strconv.FormatInt(existing.ID, 10)
		params := url.Values{"id": {id}, "xmlData": {xml}}
		if err := c.authorizedCall(ctx, "metadata_metadata", "update", params, true, &obj); err != nil {
			return kmeta.UpsertResult{}, fmt.Errorf("failed to update metadata %s: %w", id, err)
		}
		c.logger.Verbose("Updated metadata %s for entry %s (version %d)", id, entryID, obj.Version)
		return kmeta.UpsertResult{ID: id, Version: obj.Version}, nil
	}

	params := url.Values{
		"metadataProfileId": {profileID},
		"objectType":        {objectTypeEntry},
		"objectId":          {entryID},
		"xmlData":           {xml},
	}
	if err := c.authorizedCall(ctx, "metadata_metadata", "add", params, false, &obj); err != nil {
		return kmeta.UpsertResult{}, fmt.Errorf("failed to add metadata for entry %s: %w", entryID, err)
	}
	id := strconv.FormatInt(obj.ID, 10)
	c.logger.Verbose("Added metadata %s for entry %s", id, entryID)
	return kmeta.UpsertResult{ID: id, Created: true, Version: obj.Version}, nil
}

// authorizedCall runs call with the current session, restarting the session
// once if the service rejects it.
func (c *Client) authorizedCall(ctx context.Context, service, action string, params url.Values, idempotent bool, out interface{}) error {
	ks, err := c.session(ctx, false)
	if err != nil {
		return err
	}

	err = c.call(ctx, service, action, withKS(params, ks), idempotent, out)
	if !isSessionExpired(err) {
		return err
	}

	c.logger.Verbose("Session rejected by %s.%s, starting a new one", service, action)
	if ks, err = c.session(ctx, true); err != nil {
		return err
	}
	return c.call(ctx, service, action, withKS(params, ks), idempotent, out)
}

func withKS(params url.Values, ks string) url.Values {
	out := make(url.Values, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out.Set("ks", ks)
	return out
}

func (c *Client) session(ctx context.Context, renew bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ks != "" && !renew {
		return c.ks, nil
	}

	params := url.Values{
		"secret":     {c.cfg.AdminSecret},
		"userId":     {c.cfg.UserID},
		"type":       {sessionTypeAdmin},
		"partnerId":  {strconv.Itoa(c.cfg.PartnerID)},
		"expiry":     {strconv.Itoa(int(c.cfg.SessionExpiry / time.Second))},
		"privileges": {c.cfg.Privileges},
	}
	var ks string
	if err := c.call(ctx, "session", "start", params, true, &ks); err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	if ks == "" {
		return "", fmt.Errorf("%w: session.start returned an empty session", kmeta.ErrStoreFailed)
	}
	c.ks = ks
	c.logger.Verbose("Started admin session for partner %d", c.cfg.PartnerID)
	return ks, nil
}

func (c *Client) call(ctx context.Context, service, action string, params url.Values, idempotent bool, out interface{}) error {
	endpoint := fmt.Sprintf("%s/api_v3/service/%s/action/%s", c.base, service, action)

	form := make(url.Values, len(params)+3)
	for k, v := range params {
		form[k] = v
	}
	form.Set("format", "1")
	form.Set("clientTag", c.clientTag)
	if c.cfg.PartnerID > 0 && form.Get("partnerId") == "" {
		form.Set("partnerId", strconv.Itoa(c.cfg.PartnerID))
	}
	encoded := form.Encode()

	send := func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &retry.StatusError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			}
		}
		return body, nil
	}

	c.logger.Verbose("POST %s.%s", service, action)
	var body []byte
	var err error
	if idempotent {
		body, err = retry.Do(ctx, c.executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			c.logger.Warn("%s.%s failed (%v); retry %d in %s", service, action, err, attempt+1, delay)
		}), send)
	} else {
		body, err = send(ctx)
	}
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %s.%s: %w", kmeta.ErrStoreFailed, service, action, err)
	}

	return decode(service, action, body, out)
}

type apiException struct {
	ObjectType string `json:"objectType"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func decode(service, action string, body []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var exc apiException
		if err := json.Unmarshal(trimmed, &exc); err == nil && exc.ObjectType == apiExceptionClass {
			return &APIError{Service: service, Action: action, Code: exc.Code, Message: exc.Message}
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %s.%s: malformed response: %v", kmeta.ErrStoreFailed, service, action, err)
	}
	return nil
}
