package message

import (
	"encoding/json"
	"fmt"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
)

// ErrSkip signals a payload that parsed as JSON but does not represent a
// message this formatter should process further (spec §4.4 step 1:
// "an unrecognized kind or malformed payload yields 'skip'").
var ErrSkip = fmt.Errorf("message: skip")

// Formatter converts one decoder kind's raw JSON payload into a Record.
type Formatter func(raw []byte) (*Record, error)

// Formatters maps each decoder kind to its formatter.
var Formatters = map[config.Kind]Formatter{
	config.KindACARS: FormatACARS,
	config.KindVDLM2: FormatVDLM2,
	config.KindHFDL:  FormatHFDL,
	config.KindIMSL:  FormatIMSL,
	config.KindIRDM:  FormatIRDM,
}

// fields is a loosely-typed decode target shared by every per-kind formatter;
// unknown fields are ignored, absent fields decode to the zero value.
type fields map[string]any

func decode(raw []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f fields) str(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return trimFloat(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func (f fields) num(key string) float64 {
	v, ok := f[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		var out float64
		fmt.Sscanf(t, "%g", &out)
		return out
	default:
		return 0
	}
}

func (f fields) raw(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// formatPosition joins lat/lon into a single display string, or "" if
// neither is present.
func formatPosition(lat, lon string) string {
	if lat == "" && lon == "" {
		return ""
	}
	return lat + "," + lon
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
