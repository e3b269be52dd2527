package message

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// FormatIRDM converts a raw Iridium ("IRDM") decoder JSON payload
// (iridium-toolkit style) into a Record.
func FormatIRDM(raw []byte) (*Record, error) {
	f, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := f["freq"]; !ok {
		return nil, ErrSkip
	}

	return &Record{
		Kind:     config.KindIRDM,
		Time:     f.num("timestamp"),
		Station:  f.str("station_id"),
		Text:     f.str("text"),
		Label:    f.str("label"),
		Flight:   f.str("flight"),
		Tail:     f.str("tail"),
		ICAO:     f.str("icao"),
		Origin:   f.str("depa"),
		Dest:     f.str("dsta"),
		Freq:     PadFreq(f.str("freq")),
		Level:    f.str("level"),
		Errors:   int(f.num("errors")),
		Position: formatPosition(f.str("lat"), f.str("lon")),
		Altitude: f.str("alt"),
		Data:     f.raw("data"),
		Lat:      f.str("lat"),
		Lon:      f.str("lon"),
		Alt:      f.str("alt"),
	}, nil
}
