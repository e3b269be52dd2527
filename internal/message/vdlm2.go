package message

import "github.com/sdr-enthusiasts/acarshub-core/internal/config"

// FormatVDLM2 converts a raw dumpvdl2 JSON payload into a Record. dumpvdl2
// nests most fields under "vdl2" and the ACARS application payload under
// "vdl2.avlc.acars".
func FormatVDLM2(raw []byte) (*Record, error) {
	f, err := decode(raw)
	if err != nil {
		return nil, err
	}
	vdl2, ok := f["vdl2"].(map[string]any)
	if !ok {
		return nil, ErrSkip
	}
	v := fields(vdl2)

	acars, _ := nested(v, "avlc", "acars")

	r := &Record{
		Kind:    config.KindVDLM2,
		Time:    v.num("t"),
		Station: v.str("station"),
		Freq:    PadFreq(v.str("freq")),
		Level:   v.str("sig_level"),
		Errors:  int(v.num("hdr_bits_fixed")),
	}
	if acars != nil {
		r.Text = acars.str("msg_text")
		r.Label = acars.str("label")
		r.Flight = acars.str("flight")
		r.Tail = acars.str("reg")
		r.Origin = acars.str("depa")
		r.Dest = acars.str("dsta")
		r.ETA = acars.str("eta")
		r.Data = acars.raw("msg_text")
	}
	r.ICAO = v.str("icao")
	return r, nil
}

// nested walks a chain of nested JSON objects and returns the innermost
// one as fields, or nil if any hop is missing.
func nested(f fields, keys ...string) (fields, bool) {
	cur := f
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
