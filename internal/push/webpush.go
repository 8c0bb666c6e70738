package push

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const maxErrorBody = 512

// Credentials are the VAPID identity of this server.
type Credentials struct {
	Subject    string
	PublicKey  string
	PrivateKey string
}

// WebPush sends messages through the subscriber's push service using VAPID.
type WebPush struct {
	creds  Credentials
	client webpush.HTTPClient
}

// NewWebPush creates a sender. A nil client uses a 15s-timeout http.Client.
func NewWebPush(creds Credentials, client *http.Client) *WebPush {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	// webpush-go prefixes mailto: itself unless the subject is an https URL.
	creds.Subject = strings.TrimPrefix(creds.Subject, "mailto:")
	return &WebPush{creds: creds, client: client}
}

// New returns a WebPush provider when credentials are complete, or Disabled
// otherwise.
func New(creds Credentials, logger *slog.Logger) Provider {
	if creds.PublicKey == "" || creds.PrivateKey == "" {
		logger.Warn("Web Push disabled (VAPID keys not configured)")
		return Disabled{}
	}
	return NewWebPush(creds, nil)
}

// Send encrypts and posts msg, classifying the push service's response.
func (w *WebPush) Send(ctx context.Context, msg Message) Result {
	sub := &webpush.Subscription{
		Endpoint: msg.Endpoint,
		Keys:     webpush.Keys{P256dh: msg.Keys.P256dh, Auth: msg.Keys.Auth},
	}
	resp, err := webpush.SendNotificationWithContext(ctx, msg.Payload, sub, &webpush.Options{
		HTTPClient:      w.client,
		Subscriber:      w.creds.Subject,
		VAPIDPublicKey:  w.creds.PublicKey,
		VAPIDPrivateKey: w.creds.PrivateKey,
		TTL:             int(msg.TTL.Seconds()),
		Urgency:         webpush.Urgency(msg.Urgency),
	})
	if err != nil {
		return Result{Outcome: Failed, Detail: err.Error()}
	}
	defer resp.Body.Close()
	return classify(resp)
}

func classify(resp *http.Response) Result {
	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return Result{Outcome: Gone, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{Outcome: Delivered, StatusCode: resp.StatusCode}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return Result{Outcome: Failed, StatusCode: resp.StatusCode, Detail: detail}
	}
}

// Disabled is used when VAPID credentials are missing. Every send fails so
// dispatch still evaluates and logs each subscription.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) Result {
	return Result{Outcome: Failed, Detail: "push disabled"}
}

// GenerateVAPIDKeys returns a fresh base64url key pair.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}
