package adsb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot_ProjectsKnownFieldsAndCoercesStrings(t *testing.T) {
	body := []byte(`{
		"now": 1700000000.5,
		"aircraft": [
			{"hex": "a1b2c3", "flight": "UAL123", "alt_baro": "ground", "gs": 12.5,
			 "track": "180.0", "lat": 37.1, "lon": -122.2, "seen": 0.5, "seen_pos": 1.2,
			 "rssi": -12.3, "messages": 42, "category": "A3", "unknown_field": "dropped"}
		]
	}`)

	snap, err := parseSnapshot(body)
	require.NoError(t, err)
	assert.Equal(t, 1700000000.5, snap.Now)
	require.Len(t, snap.Aircraft, 1)

	a := snap.Aircraft[0]
	assert.Equal(t, "a1b2c3", a.Hex)
	assert.Equal(t, "UAL123", a.Flight)
	assert.Equal(t, float64(0), a.AltBaro, "non-numeric altitude string like \"ground\" coerces to 0")
	assert.Equal(t, 12.5, a.GS)
	assert.Equal(t, 180.0, a.Track)
	assert.Equal(t, 37.1, a.Lat)
	assert.Equal(t, -122.2, a.Lon)
	assert.Equal(t, int64(42), a.Messages)
	assert.Equal(t, "A3", a.Category)
}

func TestParseSnapshot_NumericStringCoercion(t *testing.T) {
	body := []byte(`{"now": 1, "aircraft": [{"hex": "abc123", "gs": "250.5", "messages": "7"}]}`)
	snap, err := parseSnapshot(body)
	require.NoError(t, err)
	require.Len(t, snap.Aircraft, 1)
	assert.Equal(t, 250.5, snap.Aircraft[0].GS)
	assert.Equal(t, int64(7), snap.Aircraft[0].Messages)
}

func TestParseSnapshot_EmptyAircraftList(t *testing.T) {
	snap, err := parseSnapshot([]byte(`{"now": 5, "aircraft": []}`))
	require.NoError(t, err)
	assert.Equal(t, float64(5), snap.Now)
	assert.Empty(t, snap.Aircraft)
}

func TestParseSnapshot_MalformedJSON(t *testing.T) {
	_, err := parseSnapshot([]byte(`not json`))
	assert.Error(t, err)
}
