package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Document is the top-level payload stored in the ipfs_data column.
type Document struct {
	Application *Application `json:"application" validate:"required"`
}

// Application is a project's submission to a round.
type Application struct {
	Round     *string           `json:"round" validate:"required"`
	Recipient *string           `json:"recipient" validate:"required"`
	Project   *Project          `json:"project" validate:"required"`
	Answers   []json.RawMessage `json:"answers" validate:"required"`
}

// Project is the project profile attached to an application.
type Project struct {
	Title       *string   `json:"title" validate:"required"`
	Description *string   `json:"description" validate:"required"`
	Website     *string   `json:"website" validate:"required"`
	CreatedAt   Timestamp `json:"createdAt"`
	LogoImg     *string   `json:"logoImg"`
	BannerImg   *string   `json:"bannerImg"`
}

// Timestamp keeps the literal text of a createdAt value, which upstream
// exports as either a JSON number or a JSON string, usually in
// milliseconds.
type Timestamp struct {
	raw string
	set bool
}

// UnmarshalJSON implements custom JSON unmarshaling for Timestamp.
// Accepts a number or a string; null leaves the timestamp unset.
// Fractional and exponent numbers are kept in their canonical float form,
// e.g. 1.7e12 becomes "1700000000000.0".
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*t = Timestamp{}

		return nil

	case len(data) > 0 && data[0] == '"':
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}

		*t = Timestamp{raw: s, set: true}

		return nil

	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*t = Timestamp{raw: numberLiteral(string(data)), set: true}

		return nil

	default:
		return fmt.Errorf("expected number or string for timestamp, got %s", data)
	}
}

// numberLiteral returns integer literals unchanged and renders any other
// number as the shortest float form: plain digits with a fractional part
// for exponents in [-4, 16), scientific notation otherwise.
func numberLiteral(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		return lit
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return lit
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)

	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}

	return fixed
}

// NewTimestamp returns a set timestamp holding the given literal.
func NewTimestamp(raw string) Timestamp {
	return Timestamp{raw: raw, set: true}
}

// IsSet returns true if the payload carried a timestamp.
func (t Timestamp) IsSet() bool {
	return t.set
}

// Raw returns the literal text of the timestamp.
func (t Timestamp) Raw() string {
	return t.raw
}

// Seconds returns the Unix timestamp in seconds. Only the first ten
// characters of the literal are parsed, which strips millisecond precision;
// shorter literals are parsed as they are. If the timestamp is unset the
// fallback literal is used instead.
func (t Timestamp) Seconds(fallback string) (int64, error) {
	literal := fallback
	if t.set {
		literal = t.raw
	}

	raw := literal
	if len(raw) > 10 {
		raw = raw[:10]
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid createdAt %q: %w", literal, err)
	}

	return secs, nil
}

// deref returns the pointed-to string, or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// RoundAddress returns the round contract address.
func (a *Application) RoundAddress() string { return deref(a.Round) }

// RecipientAddress returns the recipient wallet address.
func (a *Application) RecipientAddress() string { return deref(a.Recipient) }

// Name returns the project title.
func (p *Project) Name() string { return deref(p.Title) }

// Summary returns the project description.
func (p *Project) Summary() string { return deref(p.Description) }

// URL returns the project website.
func (p *Project) URL() string { return deref(p.Website) }

// Logo returns the logo content identifier, or fallback if absent.
func (p *Project) Logo(fallback string) string {
	if p.LogoImg == nil {
		return fallback
	}

	return *p.LogoImg
}

// Banner returns the banner content identifier, or fallback if absent.
func (p *Project) Banner(fallback string) string {
	if p.BannerImg == nil {
		return fallback
	}

	return *p.BannerImg
}
