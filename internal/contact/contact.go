// Package contact handles contact form submissions: rate limiting, spam
// screening, field cleaning and relaying the message by email.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field length caps, in runes.
const (
	MaxName     = 120
	MaxEmail    = 200
	MaxSubject  = 200
	MaxMessage  = 5000
	maxHoneypot = 200
)

// User-facing messages.
const (
	MsgRateLimited  = "Too many requests. Please try again shortly."
	MsgMissing      = "Please fill in name, email, and message."
	MsgBadEmail     = "Please enter a valid email."
	MsgSendFailed   = "Something went wrong sending your message."
	MsgBadRequest   = "Invalid request body."
	msgMissingKey   = "Missing RESEND_API_KEY"
	msgMissingTo    = "Missing CONTACT_TO_EMAIL"
	msgMissingFrom  = "Missing CONTACT_FROM_EMAIL"
	defaultClientID = "unknown"
)

// Request is the JSON body posted by the contact form. Company, Website and
// Hp are honeypot fields that people never see.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	Company string `json:"company,omitempty"`
	Website string `json:"website,omitempty"`
	Hp      string `json:"hp,omitempty"`
}

// Response is the JSON reply to the form.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Config is the relay addressing. All three values are required.
type Config struct {
	APIKey string
	To     string
	From   string
}

// Missing returns the client-facing error for the first absent value, or "".
func (c Config) Missing() string {
	switch {
	case c.APIKey == "":
		return msgMissingKey
	case c.To == "":
		return msgMissingTo
	case c.From == "":
		return msgMissingFrom
	}
	return ""
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LooksLikeEmail is a shape check, not an address validator.
func LooksLikeEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Clean strips carriage returns, trims surrounding space and cuts s to at
// most max runes.
func Clean(s string, max int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

// Service runs submissions through the limiter and the relay.
type Service struct {
	cfg     Config
	limiter Limiter
	relay   Relay
	logf    func(format string, args ...any)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets where send failures are reported. Nothing is logged by
// default.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

// NewService returns a service. limiter and relay must be non-nil.
func NewService(cfg Config, limiter Limiter, relay Relay, opts ...Option) *Service {
	s := &Service{cfg: cfg, limiter: limiter, relay: relay, logf: func(string, ...any) {}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit handles one form post from client and returns the reply with its
// HTTP status. Internal failures are logged and reported generically.
func (s *Service) Submit(ctx context.Context, client string, req Request) (Response, int) {
	if msg := s.cfg.Missing(); msg != "" {
		return Response{Error: msg}, http.StatusInternalServerError
	}
	if client == "" {
		client = defaultClientID
	}

	ok, err := s.limiter.Allow(ctx, client)
	if err != nil {
		s.logf("contact: rate limiter: %v", err)
		return Response{Error: MsgSendFailed}, http.StatusInternalServerError
	}
	if !ok {
		return Response{Error: MsgRateLimited}, http.StatusTooManyRequests
	}

	if honeypot(req) {
		return Response{OK: true}, http.StatusOK
	}

	msg, verr := build(req, client)
	if verr != "" {
		return Response{Error: verr}, http.StatusBadRequest
	}
	msg.From = s.cfg.From
	msg.To = s.cfg.To

	if err := s.relay.Send(ctx, msg); err != nil {
		s.logf("contact: relay send: %v", err)
		return Response{Error: MsgSendFailed}, http.StatusInternalServerError
	}
	return Response{OK: true}, http.StatusOK
}

func honeypot(req Request) bool {
	for _, v := range []string{req.Company, req.Website, req.Hp} {
		if Clean(v, maxHoneypot) != "" {
			return true
		}
	}
	return false
}

// build cleans and validates req. It returns a user-facing message when
// the request is unusable.
func build(req Request, client string) (Message, string) {
	name := Clean(req.Name, MaxName)
	email := Clean(req.Email, MaxEmail)
	subject := Clean(req.Subject, MaxSubject)
	body := Clean(req.Message, MaxMessage)

	if name == "" || email == "" || body == "" {
		return Message{}, MsgMissing
	}
	if !LooksLikeEmail(email) {
		return Message{}, MsgBadEmail
	}

	title := "Portfolio message from " + name
	if subject != "" {
		title += ": " + subject
	}

	lines := []string{
		"New portfolio contact form submission",
		"",
		"Name: " + name,
		"Email: " + email,
	}
	if subject != "" {
		lines = append(lines, "Subject: "+subject)
	}
	lines = append(lines, "IP: "+client, "", "Message:", body)

	return Message{
		ReplyTo: email,
		Subject: title,
		Text:    strings.Join(lines, "\n"),
	}, ""
}

// ErrRelay marks a failed send.
var ErrRelay = errors.New("relay send failed")

// RelayError carries the provider's status and reply for logging.
type RelayError struct {
	Status int
	Body   string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Body)
}

func (e *RelayError) Is(target error) bool { return target == ErrRelay }
