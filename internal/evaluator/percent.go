package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Percent is a percentage that decodes from either a JSON number or a numeric
// string ("50.0"). Clients have sent both.
type Percent float64

// NewPercent returns a pointer to p, for optional fields.
func NewPercent(p float64) *Percent {
	v := Percent(p)
	return &v
}

// Float returns the value as a float64.
func (p Percent) Float() float64 { return float64(p) }

// String formats with one decimal place.
func (p Percent) String() string {
	return strconv.FormatFloat(float64(p), 'f', 1, 64)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("percentage %q: %w", s, err)
		}
		*p = Percent(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Percent(f)
	return nil
}
