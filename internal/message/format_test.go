package message

import (
	"testing"

	"github.com/sdr-enthusiasts/acarshub-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatACARS(t *testing.T) {
	raw := []byte(`{"timestamp":1700000000.5,"station_id":"GROUND1","text":"UAL123 departed","freq":"131.550","icao":"ABCDEF","tail":"N8560Z","flight":"UAL123","depa":"KORD","dsta":"KLAX"}`)
	r, err := FormatACARS(raw)
	require.NoError(t, err)
	assert.Equal(t, config.KindACARS, r.Kind)
	assert.Equal(t, "UAL123 departed", r.Text)
	assert.Equal(t, "131.550", r.Freq)
	assert.Equal(t, "ABCDEF", r.ICAO)
	assert.False(t, r.IsEmpty())
}

func TestFormatACARS_Skip(t *testing.T) {
	_, err := FormatACARS([]byte(`{"not_acars":true}`))
	assert.ErrorIs(t, err, ErrSkip)
}

func TestFormatACARS_MalformedJSON(t *testing.T) {
	_, err := FormatACARS([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSkip)
}

func TestFormatVDLM2_Nested(t *testing.T) {
	raw := []byte(`{"vdl2":{"t":1700000000,"station":"vdlm-1","freq":136975000,"sig_level":-12.5,"icao":"ABCDEF","avlc":{"acars":{"msg_text":"hello","label":"Q0","flight":"UAL1","reg":"N1"}}}}`)
	r, err := FormatVDLM2(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", r.Text)
	assert.Equal(t, "N1", r.Tail)
	assert.Equal(t, "ABCDEF", r.ICAO)
}

func TestFormatVDLM2_SkipsNonVDLM2(t *testing.T) {
	_, err := FormatVDLM2([]byte(`{"acars":{}}`))
	assert.ErrorIs(t, err, ErrSkip)
}

func TestPadFreq(t *testing.T) {
	assert.Equal(t, "0131.55", PadFreq("131.55"))
	assert.Equal(t, "131.5500", PadFreq("131.5500"))
}

func TestSplitFrame(t *testing.T) {
	got := SplitFrame(`{"a":1}{"b":2}`)
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestSplitFrame_AlreadyNewlineDelimited(t *testing.T) {
	got := SplitFrame("{\"a\":1}\n{\"b\":2}\n")
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestSplitFrame_Empty(t *testing.T) {
	assert.Nil(t, SplitFrame("   "))
}

func TestRecord_IsEmpty(t *testing.T) {
	assert.True(t, (&Record{}).IsEmpty())
	assert.False(t, (&Record{Text: "hi"}).IsEmpty())
	assert.False(t, (&Record{Lat: "1.0"}).IsEmpty())
}
