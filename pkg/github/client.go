package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/oauth2"
)

// DefaultAPI is the public GitHub REST endpoint
const DefaultAPI = "https://api.github.com"

// Client is a minimal GitHub REST client
type Client struct {
	api  string
	http *http.Client
}

// NewClient returns a client authenticating every request with token
func NewClient(ctx context.Context, api, token string) *Client {
	if api == "" {
		api = DefaultAPI
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		api:  strings.TrimRight(api, "/"),
		http: oauth2.NewClient(ctx, src),
	}
}

// Repository is the subset of a GitHub repository syplug uses
type Repository struct {
	FullName string
	HTMLURL  string
	CloneURL string
	Private  bool
}

// CreateRepoOptions describe a new repository
type CreateRepoOptions struct {
	Name        string
	Description string
	Private     bool
}

// User returns the login of the token's owner
func (c *Client) User(ctx context.Context) (string, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/user", nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	login := gjson.GetBytes(body, "login").String()
	if login == "" {
		return "", errors.New(errors.ErrExternalTool, "GitHub returned no user login")
	}
	return login, nil
}

// Repo fetches owner/name; ok is false when it does not exist
func (c *Client) Repo(ctx context.Context, owner, name string) (*Repository, bool, error) {
	body, status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, name), nil, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return nil, false, err
	}
	if status == http.StatusNotFound {
		return nil, false, nil
	}
	return parseRepository(body), true, nil
}

// CreateRepo creates a repository for the authenticated user. A taken
// name is reported with code REPO_EXISTS.
func (c *Client) CreateRepo(ctx context.Context, opts CreateRepoOptions) (*Repository, error) {
	payload := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		key   string
		value interface{}
	}{
		{"name", opts.Name},
		{"description", opts.Description},
		{"private", opts.Private},
		{"auto_init", false},
	} {
		if payload, err = sjson.SetBytes(payload, kv.key, kv.value); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode request")
		}
	}

	body, status, err := c.do(ctx, http.MethodPost, "/user/repos", payload, http.StatusCreated, http.StatusUnprocessableEntity)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnprocessableEntity {
		return nil, errors.Newf(errors.ErrRepoExists, "repository %s already exists", opts.Name).
			WithDetail("message", apiMessage(body))
	}
	return parseRepository(body), nil
}

// EnableWorkflowWrite lets the repository's Actions create releases and
// approve pull requests.
func (c *Client) EnableWorkflowWrite(ctx context.Context, owner, name string) error {
	payload := []byte(`{"default_workflow_permissions":"write","can_approve_pull_request_reviews":true}`)
	_, _, err := c.do(ctx, http.MethodPut,
		fmt.Sprintf("/repos/%s/%s/actions/permissions/workflow", owner, name),
		payload, http.StatusNoContent, http.StatusOK)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, accept ...int) ([]byte, int, error) {
	logger := logging.GetLogger("github.api")

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.api+path, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, errors.ErrExternalTool, "%s %s failed", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrapf(err, errors.ErrExternalTool, "%s %s: failed to read response", method, path)
	}
	logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("GitHub API call")

	for _, code := range accept {
		if resp.StatusCode == code {
			return body, resp.StatusCode, nil
		}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, errors.New(errors.ErrUnauthorized, "GitHub rejected the token")
	}
	return nil, resp.StatusCode, errors.Newf(errors.ErrExternalTool, "%s %s: %d %s", method, path, resp.StatusCode, apiMessage(body)).
		WithDetail("status", resp.StatusCode)
}

func parseRepository(body []byte) *Repository {
	r := gjson.ParseBytes(body)
	return &Repository{
		FullName: r.Get("full_name").String(),
		HTMLURL:  r.Get("html_url").String(),
		CloneURL: r.Get("clone_url").String(),
		Private:  r.Get("private").Bool(),
	}
}

func apiMessage(body []byte) string {
	msg := gjson.GetBytes(body, "message").String()
	if detail := gjson.GetBytes(body, "errors.0.message").String(); detail != "" {
		msg += ": " + detail
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return msg
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
