package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/logging"
	"github.com/frostime/siyuan-plugin-cli/pkg/types"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
	"golang.org/x/oauth2"
)

// Scopes needed to create a repository and let its workflows publish releases
var Scopes = []string{"repo", "workflow"}

// Token sources, recorded in the credentials file
const (
	SourceConfig = "config"
	SourceStored = "stored"
	SourceDevice = "device"
	SourcePrompt = "prompt"
)

// Authenticator finds or obtains a GitHub token
type Authenticator struct {
	FS       types.FS
	Prompter ui.Prompter
	Printer  *ui.Printer
	// OpenBrowser opens a URL; failures are reported but not fatal
	OpenBrowser func(url string) error

	// Token is a configured token (github.token / GITHUB_TOKEN)
	Token string
	// CredentialsFile stores interactively obtained tokens
	CredentialsFile string
	// ClientID enables the OAuth device flow
	ClientID string
	// Web is the GitHub web base URL
	Web string
	// HTTPClient is used for the device flow when set
	HTTPClient *http.Client
}

// Resolved is a token and where it came from
type Resolved struct {
	Token  string
	Source string
}

// Resolve returns a token without prompting when one is configured or
// stored, and otherwise asks the user for one.
func (a *Authenticator) Resolve(ctx context.Context) (Resolved, error) {
	logger := logging.GetLogger("github.auth")

	if a.Token != "" {
		logger.Debug().Msg("Using configured token")
		return Resolved{Token: a.Token, Source: SourceConfig}, nil
	}

	creds, err := LoadCredentials(a.FS, a.CredentialsFile)
	if err != nil {
		return Resolved{}, err
	}
	if creds.Token != "" {
		logger.Debug().Str("file", a.CredentialsFile).Msg("Using stored token")
		return Resolved{Token: creds.Token, Source: SourceStored}, nil
	}

	var res Resolved
	if a.ClientID != "" {
		res, err = a.deviceFlow(ctx)
	} else {
		res, err = a.promptToken()
	}
	if err != nil {
		return Resolved{}, err
	}

	if err := SaveCredentials(a.FS, a.CredentialsFile, Credentials{
		Token:   res.Token,
		Source:  res.Source,
		Created: time.Now().UTC().Truncate(time.Second),
	}); err != nil {
		return Resolved{}, err
	}
	a.Printer.Success("Token saved to %s", a.Printer.Path(a.CredentialsFile))
	return res, nil
}

// Forget removes a stored token, e.g. after GitHub rejected it
func (a *Authenticator) Forget() error {
	if err := a.FS.Remove(a.CredentialsFile); err != nil && !isNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", a.CredentialsFile)
	}
	return nil
}

func (a *Authenticator) oauthConfig() *oauth2.Config {
	web := strings.TrimRight(a.Web, "/")
	return &oauth2.Config{
		ClientID: a.ClientID,
		Scopes:   Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: web + "/login/device/code",
			TokenURL:      web + "/login/oauth/access_token",
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

func (a *Authenticator) deviceFlow(ctx context.Context) (Resolved, error) {
	if a.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.HTTPClient)
	}
	cfg := a.oauthConfig()

	code, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return Resolved{}, errors.Wrap(err, errors.ErrExternalTool, "failed to start GitHub device authorization")
	}

	a.Printer.Info("Open %s and enter the code %s", a.Printer.Path(code.VerificationURI), a.Printer.Accent(code.UserCode))
	a.open(code.VerificationURI)

	token, err := cfg.DeviceAccessToken(ctx, code)
	if err != nil {
		return Resolved{}, errors.Wrap(err, errors.ErrExternalTool, "GitHub device authorization failed")
	}
	return Resolved{Token: token.AccessToken, Source: SourceDevice}, nil
}

func (a *Authenticator) promptToken() (Resolved, error) {
	page := fmt.Sprintf("%s/settings/tokens/new?scopes=%s&description=syplug",
		strings.TrimRight(a.Web, "/"), strings.Join(Scopes, ","))

	a.Printer.Info("A GitHub personal access token with the %s scopes is needed.", strings.Join(Scopes, ", "))
	a.Printer.Info("Create one at %s", a.Printer.Path(page))
	a.open(page)

	token, err := a.Prompter.Ask("🔑 GitHub token: ")
	if err != nil {
		return Resolved{}, errors.Wrap(err, errors.ErrInvalidInput, "failed to read token")
	}
	if token == "" {
		return Resolved{}, errors.New(errors.ErrValidation, "no GitHub token provided")
	}
	return Resolved{Token: token, Source: SourcePrompt}, nil
}

func (a *Authenticator) open(url string) {
	if a.OpenBrowser == nil {
		return
	}
	if err := a.OpenBrowser(url); err != nil {
		logger := logging.GetLogger("github.auth")
		logger.Debug().Err(err).Str("url", url).Msg("Could not open browser")
	}
}
