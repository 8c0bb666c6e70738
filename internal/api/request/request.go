// Package request decodes and validates API request bodies and parameters.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mapleleafu/water/internal/calendar"
	"github.com/mapleleafu/water/internal/store"
)

const (
	maxBodyBytes  = 64 << 10
	maxNameLength = 64
	maxMuteHours  = 24 * 365
)

// ErrBadBody is returned when a body is missing or is not valid JSON.
var ErrBadBody = errors.New("malformed request body")

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validator is implemented by every request body.
type Validator interface {
	Validate() error
}

// Decode reads a JSON body into v and validates it.
func Decode(r *http.Request, v Validator) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadBody)
		}
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	return v.Validate()
}

// CreateUser is the body of POST /users.
type CreateUser struct {
	Name string `json:"name"`
}

func (c *CreateUser) Validate() error {
	var v ValidationError
	c.Name = strings.TrimSpace(c.Name)
	switch {
	case c.Name == "":
		v.add("name", "is required")
	case len(c.Name) > maxNameLength:
		v.add("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	return v.orNil()
}

// Subscribe is the body of POST /subscribe.
type Subscribe struct {
	UserID   string     `json:"userId"`
	Endpoint string     `json:"endpoint"`
	Keys     store.Keys `json:"keys"`
	Timezone string     `json:"timezone"`
}

func (s *Subscribe) Validate() error {
	var v ValidationError
	if strings.TrimSpace(s.UserID) == "" {
		v.add("userId", "is required")
	}
	if strings.TrimSpace(s.Endpoint) == "" {
		v.add("endpoint", "is required")
	}
	if s.Keys.P256dh == "" {
		v.add("keys.p256dh", "is required")
	}
	if s.Keys.Auth == "" {
		v.add("keys.auth", "is required")
	}
	if s.Timezone == "" {
		s.Timezone = "UTC"
	} else if _, ok := calendar.ResolveZone(s.Timezone); !ok {
		v.add("timezone", "must be an IANA time zone")
	}
	return v.orNil()
}

// Upsert converts the body into the store's upsert input.
func (s *Subscribe) Upsert() store.SubscriptionUpsert {
	return store.SubscriptionUpsert{
		UserID:   s.UserID,
		Endpoint: s.Endpoint,
		Keys:     s.Keys,
		Timezone: s.Timezone,
	}
}

// LogDrink is the body of POST /log-drink.
type LogDrink struct {
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
}

func (l *LogDrink) Validate() error {
	var v ValidationError
	if strings.TrimSpace(l.UserID) == "" {
		v.add("userId", "is required")
	}
	if l.Amount < 1 {
		v.add("amount", "must be a positive number of millilitres")
	}
	return v.orNil()
}

// Mute is the body of POST /mute.
type Mute struct {
	UserID string  `json:"userId"`
	Hours  float64 `json:"hours"`
}

func (m *Mute) Validate() error {
	var v ValidationError
	if strings.TrimSpace(m.UserID) == "" {
		v.add("userId", "is required")
	}
	if m.Hours < 0 || m.Hours > maxMuteHours {
		v.add("hours", fmt.Sprintf("must be between 0 and %d", maxMuteHours))
	}
	return v.orNil()
}

// Until returns the instant the mute expires.
func (m *Mute) Until(now time.Time) time.Time {
	return now.Add(time.Duration(m.Hours * float64(time.Hour)))
}

// Preferences is the body of POST /preferences.
type Preferences struct {
	UserID     string `json:"userId"`
	QuietStart *int   `json:"quietStart"`
	QuietEnd   *int   `json:"quietEnd"`
}

func (p *Preferences) Validate() error {
	var v ValidationError
	if strings.TrimSpace(p.UserID) == "" {
		v.add("userId", "is required")
	}
	checkHour(&v, "quietStart", p.QuietStart)
	checkHour(&v, "quietEnd", p.QuietEnd)
	return v.orNil()
}

func checkHour(v *ValidationError, field string, h *int) {
	if h == nil {
		v.add(field, "is required")
		return
	}
	if *h < 0 || *h > 23 {
		v.add(field, "must be an hour between 0 and 23")
	}
}

// ValidateAppSecret is the body of POST /validate-app-secret.
type ValidateAppSecret struct {
	Secret string `json:"secret"`
}

func (s *ValidateAppSecret) Validate() error {
	var v ValidationError
	if s.Secret == "" {
		v.add("secret", "is required")
	}
	return v.orNil()
}

// ParseGoal reads the goal query value, falling back to def when empty.
func ParseGoal(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	goal, err := strconv.Atoi(raw)
	if err != nil || goal < 1 {
		v := &ValidationError{}
		v.add("goal", "must be a positive integer")
		return 0, v
	}
	return goal, nil
}

// ParseDate reads a YYYY-MM-DD path value as local midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	day, err := calendar.ParseDay(raw, loc)
	if err != nil {
		v := &ValidationError{}
		v.add("date", "must be formatted YYYY-MM-DD")
		return time.Time{}, v
	}
	return day, nil
}
