package workspace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/tidwall/gjson"
)

const (
	// DefaultAPI is where a local SiYuan kernel listens
	DefaultAPI = "http://127.0.0.1:6806"
	// DefaultProbeTimeout bounds the kernel probe
	DefaultProbeTimeout = 2 * time.Second

	getWorkspacesPath = "/api/system/getWorkspaces"
)

// KernelProbe asks a running SiYuan kernel for its workspaces
type KernelProbe struct {
	API     string
	Token   string
	Timeout time.Duration
	Client  *http.Client
}

// Workspaces returns the open workspace paths. Any transport or protocol
// failure yields no candidates; the kernel simply may not be running.
func (p KernelProbe) Workspaces(ctx context.Context) []string {
	logger := logging.GetLogger("workspace.kernel")

	api := strings.TrimRight(p.API, "/")
	if api == "" {
		api = DefaultAPI
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, api+getWorkspacesPath, bytes.NewReader([]byte("{}")))
	if err != nil {
		logger.Debug().Err(err).Str("api", api).Msg("Invalid kernel API address")
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Token "+p.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("api", api).Msg("SiYuan kernel not reachable")
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		logger.Debug().Err(err).Int("status", resp.StatusCode).Msg("Unexpected kernel response")
		return nil
	}

	workspaces, err := parseKernelWorkspaces(body)
	if err != nil {
		logger.Debug().Err(err).Msg("Unusable kernel response")
		return nil
	}
	logger.Debug().Strs("workspaces", workspaces).Msg("Kernel reported workspaces")
	return workspaces
}

// parseKernelWorkspaces extracts the paths of open workspaces from a
// getWorkspaces response: {"code":0,"data":[{"path":"...","closed":false}]}
func parseKernelWorkspaces(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not JSON")
	}
	res := gjson.ParseBytes(body)
	if code := res.Get("code").Int(); code != 0 {
		return nil, fmt.Errorf("kernel returned code %d: %s", code, res.Get("msg").String())
	}

	var out []string
	res.Get("data").ForEach(func(_, ws gjson.Result) bool {
		if ws.Get("closed").Bool() {
			return true
		}
		if p := ws.Get("path").String(); p != "" {
			out = append(out, p)
		}
		return true
	})
	return out, nil
}

// ListFileWorkspaces reads workspace paths from the desktop app's
// workspace.json files (a JSON array of absolute paths). Missing or
// malformed files are skipped.
func ListFileWorkspaces(fsys types.FS, files []string) []string {
	logger := logging.GetLogger("workspace.file")

	var out []string
	for _, file := range files {
		data, err := fsys.ReadFile(file)
		if err != nil {
			logger.Trace().Err(err).Str("file", file).Msg("Workspace list not readable")
			continue
		}
		res := gjson.ParseBytes(data)
		if !res.IsArray() {
			logger.Debug().Str("file", file).Msg("Workspace list is not a JSON array")
			continue
		}
		for _, p := range res.Array() {
			if s := p.String(); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
