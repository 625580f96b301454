package exchange

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Strategy selects how a payload is embedded in the QR text.
type Strategy string

const (
	// StrategyRaw embeds the JSON payload itself.
	StrategyRaw Strategy = "raw"
	// StrategyURL embeds <BaseURL>/scan?qr=<percent-encoded JSON>, so a plain
	// camera app opens the web client.
	StrategyURL Strategy = "url"
)

// QueryParam is the URL query parameter carrying the payload.
const QueryParam = "qr"

// Encoder renders payloads for one deployment.
type Encoder struct {
	Strategy Strategy
	BaseURL  string
}

func (e Encoder) base() string {
	return strings.TrimRight(e.BaseURL, "/")
}

// Text returns the string embedded in the QR code.
func (e Encoder) Text(p Payload) (string, error) {
	p.Type = Marker
	if p.URL == "" && e.base() != "" && p.CompanyID != 0 {
		p.URL = e.base() + "/company/" + strconv.FormatInt(p.CompanyID, 10)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	switch e.Strategy {
	case StrategyRaw, "":
		return string(data), nil
	case StrategyURL:
		if e.base() == "" {
			return "", fmt.Errorf("url strategy needs a base url")
		}
		return e.base() + "/scan?" + QueryParam + "=" + percentEncode(string(data)), nil
	default:
		return "", fmt.Errorf("unknown qr strategy %q", e.Strategy)
	}
}

// percentEncode is url.QueryEscape with spaces as %20 rather than "+", so
// decodeURIComponent on the web client restores the JSON unchanged. A
// literal "+" is already escaped to %2B.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseText recovers a payload from scanned QR text. An absolute URL with a qr
// query parameter yields that parameter, anything else is parsed as JSON.
func ParseText(text string) (Payload, error) {
	text = strings.TrimSpace(text)

	body := text
	if u, err := url.Parse(text); err == nil && u.IsAbs() && u.Host != "" {
		q := u.Query().Get(QueryParam)
		if q == "" {
			return Payload{}, fmt.Errorf("%w: url has no %s parameter", ErrUnsupportedPayload, QueryParam)
		}
		body = q
	}

	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}
	if p.Type != Marker {
		return Payload{}, fmt.Errorf("%w: type %q", ErrWrongMarker, p.Type)
	}
	return p, nil
}
