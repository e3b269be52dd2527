package config

// Kind identifies one of the decoder protocols the core ingests from.
type Kind string

const (
	KindACARS Kind = "ACARS"
	KindVDLM2 Kind = "VDL-M2"
	KindHFDL  Kind = "HFDL"
	KindIMSL  Kind = "IMS-L"
	KindIRDM  Kind = "IRDM"
)

// Kinds is the fixed, ordered set of decoder kinds the core understands.
var Kinds = []Kind{KindACARS, KindVDLM2, KindHFDL, KindIMSL, KindIRDM}

// DefaultPort is the well-known bare-scheme port for each decoder kind.
// Regression guard: VDL-M2 is 5555, not 5550 — the two must never be swapped.
var DefaultPort = map[Kind]int{
	KindACARS: 5550,
	KindVDLM2: 5555,
	KindHFDL:  5556,
	KindIMSL:  5557,
	KindIRDM:  5558,
}
