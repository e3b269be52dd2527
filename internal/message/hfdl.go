package message

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// FormatHFDL converts a raw dumphfdl JSON payload into a Record. dumphfdl
// nests the HFDL frame under "hfdl" and any ACARS application data under
// "hfdl.lpdu.hfnpdu.acars".
func FormatHFDL(raw []byte) (*Record, error) {
	f, err := decode(raw)
	if err != nil {
		return nil, err
	}
	hfdl, ok := f["hfdl"].(map[string]any)
	if !ok {
		return nil, ErrSkip
	}
	h := fields(hfdl)

	r := &Record{
		Kind:    config.KindHFDL,
		Time:    h.num("t"),
		Station: h.str("station"),
		Freq:    PadFreq(h.str("freq")),
		Level:   h.str("sig_level"),
	}

	acars, ok := nested(h, "lpdu", "hfnpdu", "acars")
	if ok {
		r.Text = acars.str("msg_text")
		r.Label = acars.str("label")
		r.Flight = acars.str("flight")
		r.Tail = acars.str("reg")
		r.Origin = acars.str("depa")
		r.Dest = acars.str("dsta")
	}
	if icaoHolder, ok := nested(h, "lpdu", "hfnpdu"); ok {
		r.ICAO = icaoHolder.str("icao")
	}
	return r, nil
}
