package message

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// FormatACARS converts a raw ACARS decoder payload into a Record.
// Field names follow acarsdec/acarsserver's JSON convention.
func FormatACARS(raw []byte) (*Record, error) {
	f, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := f["freq"]; !ok {
		return nil, ErrSkip
	}

	r := &Record{
		Kind:      config.KindACARS,
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
		Errors:    int(f.num("error")),
		ETA:       f.str("eta"),
		GateOut:   f.str("gtout"),
		GateIn:    f.str("gtin"),
		WheelsOff: f.str("wloff"),
		WheelsOn:  f.str("wlin"),
		Position:  formatPosition(f.str("lat"), f.str("lon")),
		Altitude:  f.str("alt"),
		Data:      f.raw("data"),
		Libacars:  f.raw("libacars"),
		Lat:       f.str("lat"),
		Lon:       f.str("lon"),
		Alt:       f.str("alt"),
	}
	return r, nil
}
