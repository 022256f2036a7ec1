// ABOUTME: Tests for the three-legged OAuth1 handshake with an httptest provider.
// ABOUTME: Uses a scripted prompter to stand in for the operator's browser step.
package auth

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/draftsmith/wpbridge/internal/wordpress"
)

// scriptedPrompter records the prompt it saw and answers with a fixed line.
type scriptedPrompter struct {
	answer string
	err    error
	seen   string
}

func (p *scriptedPrompter) Prompt(message string) (string, error) {
	p.seen = message
	return p.answer, p.err
}

// oauthProvider serves the request and access token endpoints of a handshake.
func oauthProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		switch r.URL.Path {
		case "/oauth1/request":
			if auth := r.Header.Get("Authorization"); !strings.Contains(auth, `oauth_consumer_key="ck"`) {
				t.Errorf("request token call not signed with client key: %q", auth)
			}
			fmt.Fprint(w, "oauth_token=temp&oauth_token_secret=tempsec&oauth_callback_confirmed=true")
		case "/oauth1/access":
			if err := r.ParseForm(); err != nil {
				t.Errorf("failed to parse access form: %v", err)
			}
			auth := r.Header.Get("Authorization")
			if !strings.Contains(auth, `oauth_token="temp"`) {
				t.Errorf("access token call missing temporary token: %q", auth)
			}
			if !strings.Contains(auth, `oauth_verifier="v123"`) && r.Form.Get("oauth_verifier") != "v123" {
				t.Errorf("access token call missing verifier, auth=%q form=%v", auth, r.Form)
			}
			fmt.Fprint(w, "oauth_token=final&oauth_token_secret=finalsec")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func endpointsFor(server *httptest.Server) wordpress.AuthEndpoints {
	return wordpress.AuthEndpoints{
		Request:   server.URL + "/oauth1/request",
		Authorize: server.URL + "/oauth1/authorize",
		Access:    server.URL + "/oauth1/access",
	}
}

func TestAuthenticate(t *testing.T) {
	server := oauthProvider(t)
	defer server.Close()

	prompter := &scriptedPrompter{answer: "v123"}
	a := New("ck", "cs", endpointsFor(server), prompter, zerolog.Nop())

	creds, err := a.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if creds.ClientKey != "ck" || creds.ClientSecret != "cs" {
		t.Errorf("client pair not carried through: %+v", creds)
	}
	if creds.ResourceOwnerKey != "final" || creds.ResourceOwnerSecret != "finalsec" {
		t.Errorf("unexpected resource owner pair: %+v", creds)
	}
	if !creds.Complete() {
		t.Error("expected complete credentials")
	}

	if !strings.Contains(prompter.seen, "/oauth1/authorize") {
		t.Errorf("prompt does not point at authorize endpoint: %q", prompter.seen)
	}
	if !strings.Contains(prompter.seen, "oauth_token=temp") {
		t.Errorf("prompt missing temporary token parameter: %q", prompter.seen)
	}
}

func TestAuthenticateIncompleteEndpoints(t *testing.T) {
	prompter := &scriptedPrompter{answer: "v123"}
	a := New("ck", "cs", wordpress.AuthEndpoints{Request: "https://s/r"}, prompter, zerolog.Nop())

	_, err := a.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error for incomplete endpoints")
	}
	if !strings.Contains(err.Error(), "OAuth1 endpoints") {
		t.Errorf("unexpected error: %v", err)
	}
	if prompter.seen != "" {
		t.Error("prompter should not run when endpoints are incomplete")
	}
}

func TestAuthenticateEmptyVerifier(t *testing.T) {
	server := oauthProvider(t)
	defer server.Close()

	a := New("ck", "cs", endpointsFor(server), &scriptedPrompter{answer: ""}, zerolog.Nop())

	_, err := a.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error for empty verifier")
	}
	if !strings.Contains(err.Error(), "empty verification token") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthenticatePrompterFailure(t *testing.T) {
	server := oauthProvider(t)
	defer server.Close()

	a := New("ck", "cs", endpointsFor(server), &scriptedPrompter{err: fmt.Errorf("tty closed")}, zerolog.Nop())

	_, err := a.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error when prompter fails")
	}
	if !strings.Contains(err.Error(), "tty closed") {
		t.Errorf("expected wrapped prompter error, got: %v", err)
	}
}

func TestAuthenticateMalformedRequestTokenResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "oauth_token=temp&oauth_token_secret=tempsec")
	}))
	defer server.Close()

	a := New("ck", "cs", endpointsFor(server), &scriptedPrompter{answer: "v123"}, zerolog.Nop())

	_, err := a.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error when callback confirmation is missing")
	}
	if !strings.Contains(err.Error(), "request token step failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConsolePrompter(t *testing.T) {
	var out bytes.Buffer
	p := &ConsolePrompter{In: strings.NewReader("  v123  \n"), Out: &out}

	got, err := p.Prompt("Enter the verification token: ")
	if err != nil {
		t.Fatalf("Prompt error: %v", err)
	}
	if got != "v123" {
		t.Errorf("expected trimmed input, got %q", got)
	}
	if out.String() != "Enter the verification token: " {
		t.Errorf("unexpected prompt output: %q", out.String())
	}
}

func TestConsolePrompterEOFWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	p := &ConsolePrompter{In: strings.NewReader("v123"), Out: &out}

	got, err := p.Prompt("token: ")
	if err != nil {
		t.Fatalf("Prompt error: %v", err)
	}
	if got != "v123" {
		t.Errorf("expected input despite missing newline, got %q", got)
	}
}
