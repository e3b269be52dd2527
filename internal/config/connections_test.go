package config

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseConnections_BareScheme(t *testing.T) {
	got := ParseConnections("udp", KindACARS)
	assert.Equal(t, []ConnectionDescriptor{{Transport: TransportUDP, Host: "0.0.0.0", Port: 5550}}, got)
}

func TestParseConnections_DefaultPortsNotInterchangeable(t *testing.T) {
	acars := ParseConnections("udp", KindACARS)
	vdlm2 := ParseConnections("udp", KindVDLM2)
	assert.Equal(t, 5550, acars[0].Port)
	assert.Equal(t, 5555, vdlm2[0].Port)
	assert.NotEqual(t, acars[0].Port, vdlm2[0].Port)
}

func TestParseConnections_SchemeHostPort(t *testing.T) {
	got := ParseConnections("udp,tcp://remote:15550", KindVDLM2)
	assert.Equal(t, []ConnectionDescriptor{
		{Transport: TransportUDP, Host: "0.0.0.0", Port: 5555},
		{Transport: TransportTCP, Host: "remote", Port: 15550},
	}, got)
}

func TestParseConnections_WhitespaceTrimmed(t *testing.T) {
	got := ParseConnections(" udp , tcp://remote:15550 ", KindHFDL)
	assert.Len(t, got, 2)
}

func TestParseConnections_EmptyInput(t *testing.T) {
	assert.Empty(t, ParseConnections("", KindACARS))
	assert.Empty(t, ParseConnections("   ", KindACARS))
}

func TestParseConnections_SkipsMalformedTokensButKeepsRest(t *testing.T) {
	got := ParseConnections("bogus,udp,scheme://nohost,tcp://host:999999", KindIMSL)
	assert.Equal(t, []ConnectionDescriptor{{Transport: TransportUDP, Host: "0.0.0.0", Port: 5557}}, got)
}

func TestParseConnections_PortOutOfRangeSkipped(t *testing.T) {
	got := ParseConnections("tcp://host:0,tcp://host:65536,tcp://host:65535", KindIRDM)
	assert.Equal(t, []ConnectionDescriptor{{Transport: TransportTCP, Host: "host", Port: 65535}}, got)
}

// TestParseConnections_WellFormedTotality is the property from spec §8.1:
// for all well-formed tokens scheme://host:port with 1<=port<=65535, the
// parser produces {scheme, host, port} and does not abort the rest.
func TestParseConnections_WellFormedTotality(t *testing.T) {
	schemes := []Transport{TransportUDP, TransportTCP, TransportZMQ}
	rapid.Check(t, func(t *rapid.T) {
		scheme := rapid.SampledFrom(schemes).Draw(t, "scheme")
		host := rapid.StringMatching(`[a-z][a-z0-9-]{0,10}`).Draw(t, "host")
		port := rapid.IntRange(1, 65535).Draw(t, "port")

		tok := string(scheme) + "://" + host + ":" + strconv.Itoa(port)
		got := ParseConnections(tok, KindACARS)
		if len(got) != 1 {
			t.Fatalf("expected one descriptor for %q, got %v", tok, got)
		}
		assert.Equal(t, scheme, got[0].Transport)
		assert.Equal(t, host, got[0].Host)
		assert.Equal(t, port, got[0].Port)
	})
}
