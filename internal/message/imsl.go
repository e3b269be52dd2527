package message

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// FormatIMSL converts a raw Inmarsat ("IMS-L") decoder JSON payload into
// a Record. JAERO emits a flat object so no nested walk is required.
func FormatIMSL(raw []byte) (*Record, error) {
	f, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := f["timestamp"]; !ok {
		return nil, ErrSkip
	}

	return &Record{
		Kind:      config.KindIMSL,
		Time:      f.num("timestamp"),
		Station:   f.str("station_id"),
		Text:      f.str("text"),
		Label:     f.str("label"),
		Flight:    f.str("flight"),
		Tail:      f.str("tail"),
		ICAO:      f.str("icao"),
		Origin:    f.str("depa"),
		Dest:      f.str("dsta"),
		Freq:      PadFreq(f.str("freq")),
		Level:     f.str("level"),
		Errors:    int(f.num("errors")),
		ETA:       f.str("eta"),
		GateOut:   f.str("gtout"),
		GateIn:    f.str("gtin"),
		WheelsOff: f.str("wloff"),
		WheelsOn:  f.str("wlin"),
		Position:  formatPosition(f.str("lat"), f.str("lon")),
		Altitude:  f.str("alt"),
		Data:      f.raw("data"),
		Lat:       f.str("lat"),
		Lon:       f.str("lon"),
		Alt:       f.str("alt"),
	}, nil
}
