package domain

// RawRecord is an upstream JSON object as decoded, before field mapping.
type RawRecord = map[string]any

// MinDestinationIDLen is the shortest destination id accepted as real data.
// Shorter values are placeholders or corrupt codes.
const MinDestinationIDLen = 8

type Package struct {
	ID              string
	Name            string
	Description     string
	DestinationName string // comma-joined display names
	Destination     DestinationRef
	Hotels          []RawRecord // embedded hotel offers, if the package carries any
	Raw             RawRecord
}

type DestinationKind int

const (
	DestinationNone DestinationKind = iota
	DestinationList
	DestinationObject
	DestinationCode
)

func (k DestinationKind) String() string {
	switch k {
	case DestinationList:
		return "list"
	case DestinationObject:
		return "object"
	case DestinationCode:
		return "code"
	default:
		return "none"
	}
}

// DestinationRef is the package's destination field in one of its upstream shapes.
// Only the fields matching Kind are set.
type DestinationRef struct {
	Kind  DestinationKind
	Items []DestinationRef // DestinationList
	ID    string           // DestinationObject
	Name  string           // DestinationObject
	Code  string           // DestinationCode
}

// Destination is the provider's view of a destination id.
type Destination struct {
	ID   string
	Name string
	City string
}
