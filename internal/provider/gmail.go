// File: internal/provider/gmail.go
package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	domainErrors "github.com/RayanDZ04/area-rattrapage/internal/domain/errors"
	"github.com/RayanDZ04/area-rattrapage/internal/domain/models"
	"github.com/RayanDZ04/area-rattrapage/internal/utils/metrics"
)

const gmailDefaultBaseURL = "https://gmail.googleapis.com"

// GmailClient speaks to the Gmail REST API with a bearer credential.
// BaseURL is injectable so tests can point it at a local server.
type GmailClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewGmailClient creates a Gmail client against the production endpoint.
func NewGmailClient(httpClient *http.Client) *GmailClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &GmailClient{BaseURL: gmailDefaultBaseURL, HTTPClient: httpClient}
}

type gmailMessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

type gmailListResponse struct {
	Messages []gmailMessageRef `json:"messages"`
}

type gmailMessageMetadata struct {
	ID      string `json:"id"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

func (c *GmailClient) do(ctx context.Context, cred Credential, method, path string, query url.Values, body any, out any, operation string) error {
	start := time.Now()
	defer func() {
		metrics.ProviderCallDuration.WithLabelValues("gmail", operation).Observe(time.Since(start).Seconds())
	}()

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &domainErrors.ProviderCallError{Provider: "gmail", Operation: operation, Err: err}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &domainErrors.ProviderCallError{Provider: "gmail", Operation: operation, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &domainErrors.ProviderCallError{Provider: "gmail", Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domainErrors.ProviderCallError{
			Provider:   "gmail",
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domainErrors.ProviderCallError{Provider: "gmail", Operation: operation, Err: err}
		}
	}
	return nil
}

// LatestMessageID returns the ID of the single most recent message matching
// the Gmail search query, or "" when nothing matches.
func (c *GmailClient) LatestMessageID(ctx context.Context, cred Credential, searchQuery string) (string, error) {
	q := url.Values{}
	q.Set("maxResults", "1")
	if searchQuery != "" {
		q.Set("q", searchQuery)
	}
	var list gmailListResponse
	if err := c.do(ctx, cred, http.MethodGet, "/gmail/v1/users/me/messages", q, nil, &list, "messages.list"); err != nil {
		return "", err
	}
	if len(list.Messages) == 0 {
		return "", nil
	}
	return list.Messages[0].ID, nil
}

// MessageHeaders fetches the From and Subject headers of one message.
func (c *GmailClient) MessageHeaders(ctx context.Context, cred Credential, messageID string) (from, subject string, err error) {
	q := url.Values{}
	q.Set("format", "metadata")
	q.Add("metadataHeaders", "From")
	q.Add("metadataHeaders", "Subject")
	var meta gmailMessageMetadata
	if err := c.do(ctx, cred, http.MethodGet, "/gmail/v1/users/me/messages/"+messageID, q, nil, &meta, "messages.get"); err != nil {
		return "", "", err
	}
	for _, h := range meta.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			from = h.Value
		case "subject":
			subject = h.Value
		}
	}
	return from, subject, nil
}

// SendMessage sends one plain-text mail from the connected account.
func (c *GmailClient) SendMessage(ctx context.Context, cred Credential, to, subject, body string) error {
	var rfc822 strings.Builder
	fmt.Fprintf(&rfc822, "To: %s\r\n", to)
	fmt.Fprintf(&rfc822, "Subject: %s\r\n", subject)
	rfc822.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	rfc822.WriteString("\r\n")
	rfc822.WriteString(body)

	payload := map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(rfc822.String())),
	}
	return c.do(ctx, cred, http.MethodPost, "/gmail/v1/users/me/messages/send", nil, payload, nil, "messages.send")
}

// MarkRead removes the UNREAD label from one message.
func (c *GmailClient) MarkRead(ctx context.Context, cred Credential, messageID string) error {
	payload := map[string][]string{
		"removeLabelIds": {"UNREAD"},
	}
	return c.do(ctx, cred, http.MethodPost, "/gmail/v1/users/me/messages/"+messageID+"/modify", nil, payload, nil, "messages.modify")
}

// gmailNewEmailProbe implements the gmail.new_email action kind.
// Config keys: from, subject_contains, unread_only (default true).
type gmailNewEmailProbe struct {
	client *GmailClient
}

// NewGmailNewEmailProbe creates the mail-arrival probe.
func NewGmailNewEmailProbe(client *GmailClient) ActionProbe {
	return &gmailNewEmailProbe{client: client}
}

func (p *gmailNewEmailProbe) Probe(ctx context.Context, cred Credential, cfg models.ConfigDoc, lastMarker *string) (*TriggerEvent, error) {
	var terms []string
	if cfg.GetBool("unread_only", true) {
		terms = append(terms, "is:unread")
	}
	if from, ok := cfg.GetString("from"); ok {
		terms = append(terms, "from:"+from)
	}
	if subject, ok := cfg.GetString("subject_contains"); ok {
		terms = append(terms, fmt.Sprintf("subject:%q", subject))
	}

	id, err := p.client.LatestMessageID(ctx, cred, strings.Join(terms, " "))
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	// Same candidate as last tick: already handled, nothing new.
	if lastMarker != nil && *lastMarker == id {
		return nil, nil
	}

	from, subject, err := p.client.MessageHeaders(ctx, cred, id)
	if err != nil {
		return nil, err
	}
	return &TriggerEvent{
		Marker:  id,
		Sender:  extractAddress(from),
		Subject: subject,
	}, nil
}

// Finalize marks the triggering message as read. Best effort: the pipeline
// swallows any error from here.
func (p *gmailNewEmailProbe) Finalize(ctx context.Context, cred Credential, event *TriggerEvent) error {
	return p.client.MarkRead(ctx, cred, event.Marker)
}

// extractAddress pulls the bare address out of a "Name <addr>" header value.
func extractAddress(headerValue string) string {
	if headerValue == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(headerValue); err == nil {
		return addr.Address
	}
	return strings.TrimSpace(headerValue)
}

// gmailSendEmailExecutor implements the gmail.send_email reaction kind.
// Config keys: to (required after enrichment), subject, body.
type gmailSendEmailExecutor struct {
	client *GmailClient
}

// NewGmailSendEmailExecutor creates the mail-send executor.
func NewGmailSendEmailExecutor(client *GmailClient) ReactionExecutor {
	return &gmailSendEmailExecutor{client: client}
}

func (e *gmailSendEmailExecutor) Execute(ctx context.Context, cred Credential, cfg models.ConfigDoc) error {
	to, ok := cfg.GetString("to")
	if !ok {
		// Enrichment happens upstream; reaching this point with no
		// recipient means the applet cannot be executed at all.
		return domainErrors.NewConfigurationError("to", "no recipient configured or derivable")
	}
	subject, ok := cfg.GetString("subject")
	if !ok {
		subject = "(no subject)"
	}
	body, _ := cfg.GetString("body")
	return e.client.SendMessage(ctx, cred, to, subject, body)
}

var (
	_ ActionProbe      = (*gmailNewEmailProbe)(nil)
	_ EventFinalizer   = (*gmailNewEmailProbe)(nil)
	_ ReactionExecutor = (*gmailSendEmailExecutor)(nil)
)
