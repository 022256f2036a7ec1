// ABOUTME: Three-legged OAuth1 handshake against a site's advertised endpoints.
// ABOUTME: The verifier entry step goes through an injectable Prompter boundary.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"

	"github.com/draftsmith/wpbridge/internal/models"
	"github.com/draftsmith/wpbridge/internal/wordpress"
)

// Prompter supplies operator input for the authorization-verifier step. It is
// the single interactive suspension point in the whole handshake, injected so
// tests can script it.
type Prompter interface {
	Prompt(message string) (string, error)
}

// ConsolePrompter reads one line from In after printing the message to Out.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer
}

// Prompt implements Prompter.
func (p *ConsolePrompter) Prompt(message string) (string, error) {
	if _, err := fmt.Fprint(p.Out, message); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Authenticator runs the handshake: request token, operator authorization,
// access token. It produces final credentials but does not persist them.
type Authenticator struct {
	clientKey    string
	clientSecret string
	endpoints    wordpress.AuthEndpoints
	prompter     Prompter
	log          zerolog.Logger
}

// New creates an authenticator for the given client key pair and discovered
// endpoints.
func New(clientKey, clientSecret string, endpoints wordpress.AuthEndpoints, prompter Prompter, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		clientKey:    clientKey,
		clientSecret: clientSecret,
		endpoints:    endpoints,
		prompter:     prompter,
		log:          log,
	}
}

// Authenticate runs the three steps strictly in sequence and returns the
// long-lived resource owner credentials. Any missing endpoint, transport
// failure, or incomplete token response aborts the whole handshake; no partial
// credentials are ever returned.
func (a *Authenticator) Authenticate(ctx context.Context) (*models.Credentials, error) {
	if !a.endpoints.Complete() {
		return nil, fmt.Errorf("site does not advertise all OAuth1 endpoints (request=%q authorize=%q access=%q)",
			a.endpoints.Request, a.endpoints.Authorize, a.endpoints.Access)
	}

	cfg := &oauth1.Config{
		ConsumerKey:    a.clientKey,
		ConsumerSecret: a.clientSecret,
		CallbackURL:    "oob",
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: a.endpoints.Request,
			AuthorizeURL:    a.endpoints.Authorize,
			AccessTokenURL:  a.endpoints.Access,
		},
	}

	requestToken, requestSecret, err := cfg.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("request token step failed: %w", err)
	}
	a.log.Debug().Str("oauth_token", requestToken).Msg("temporary credentials issued")

	authorizationURL, err := cfg.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization URL: %w", err)
	}

	verifier, err := a.prompter.Prompt(fmt.Sprintf(
		"Authenticate at the following URL to obtain a verification token: %s\nEnter the verification token: ",
		authorizationURL.String(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to obtain verification token: %w", err)
	}
	if verifier == "" {
		return nil, fmt.Errorf("empty verification token")
	}

	accessToken, accessSecret, err := cfg.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("access token step failed: %w", err)
	}

	return &models.Credentials{
		ClientKey:           a.clientKey,
		ClientSecret:        a.clientSecret,
		ResourceOwnerKey:    accessToken,
		ResourceOwnerSecret: accessSecret,
	}, nil
}
