// Package exchange converts company profiles to and from the QR payload that
// BitNet clients scan. It does no I/O beyond the bytes it is given.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/bitnet/internal/server/models"
)

// Marker is the value of the payload's type field.
const Marker = "bitnet_company"

var (
	ErrNoCodeFound        = errors.New("no QR code found in image")
	ErrUnsupportedPayload = errors.New("unsupported QR payload")
	ErrWrongMarker        = errors.New("QR code is not a BitNet company profile")
)

// Payload is the public part of a company profile carried by a QR code.
type Payload struct {
	Type         string `json:"type"`
	CompanyID    int64  `json:"companyId"`
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	Description  string `json:"description"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	// URL points at the public profile page when the server knows its base URL.
	URL string `json:"url,omitempty"`
}

// NewPayload builds the payload for c with the address flattened.
func NewPayload(c *models.Company) Payload {
	return Payload{
		Type:         Marker,
		CompanyID:    c.ID,
		Name:         c.Name,
		Industry:     c.Industry,
		Description:  c.Description,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		Website:      c.Website,
		Address:      c.Address.Format(),
	}
}

// UnmarshalJSON accepts companyId as a JSON number or a numeric string.
func (p *Payload) UnmarshalJSON(b []byte) error {
	type plain Payload
	var aux struct {
		plain
		CompanyID json.RawMessage `json:"companyId"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Payload(aux.plain)

	id, err := parseCompanyID(aux.CompanyID)
	if err != nil {
		return err
	}
	p.CompanyID = id
	return nil
}

func parseCompanyID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(str)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("companyId %q: %w", s, err)
	}
	return id, nil
}
