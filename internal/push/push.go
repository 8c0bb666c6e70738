// Package push delivers encrypted Web Push messages and classifies the
// provider's answer into delivered, gone or failed.
package push

import (
	"context"
	"fmt"
	"time"
)

// Outcome is the provider's verdict for one send.
type Outcome int

const (
	// Delivered means the push service accepted the message.
	Delivered Outcome = iota
	// Gone means the endpoint is permanently invalid (HTTP 404/410).
	Gone
	// Failed covers transport errors and any other rejection.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Gone:
		return "gone"
	default:
		return "failed"
	}
}

// Urgency values from RFC 8030.
type Urgency string

const (
	UrgencyVeryLow Urgency = "very-low"
	UrgencyLow     Urgency = "low"
	UrgencyNormal  Urgency = "normal"
	UrgencyHigh    Urgency = "high"
)

// Keys is the subscriber's encryption key material.
type Keys struct {
	P256dh string
	Auth   string
}

// Message is one push addressed to one endpoint.
type Message struct {
	Endpoint string
	Keys     Keys
	Payload  []byte
	Urgency  Urgency
	TTL      time.Duration
}

// Result reports what happened to a Message.
type Result struct {
	Outcome    Outcome
	StatusCode int
	Detail     string
}

// Err converts a failed result to an error; nil otherwise.
func (r Result) Err() error {
	if r.Outcome != Failed {
		return nil
	}
	if r.StatusCode != 0 {
		return fmt.Errorf("push failed: status %d: %s", r.StatusCode, r.Detail)
	}
	return fmt.Errorf("push failed: %s", r.Detail)
}

// Provider sends a message and never returns a Go error: every failure is
// folded into Result.
type Provider interface {
	Send(ctx context.Context, msg Message) Result
}
