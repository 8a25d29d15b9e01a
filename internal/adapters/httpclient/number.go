package httpclient

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float decodes a JSON number or numeric string without ever failing the surrounding document.
// Missing, null and empty values become 0; anything present but unparsable becomes NaN.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	*f = Float(ParseFloat(data))
	return nil
}

func (f Float) Value() float64 { return float64(f) }

func ParseFloat(raw []byte) float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return math.NaN()
		}
		return ParseString(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func ParseString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
