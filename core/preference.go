package core

import (
	"encoding/json"
	"strconv"
)

// PreferenceKind discriminates the value held by a Preference.
type PreferenceKind int

const (
	// PreferenceString holds a freeform string value.
	PreferenceString PreferenceKind = iota
	// PreferenceNumber holds a float64 value.
	PreferenceNumber
	// PreferenceBool holds a boolean value.
	PreferenceBool
)

// Preference is a loosely typed preference value. Profiles accept unknown
// preference names with any of the supported kinds, so stored documents stay
// forward compatible when new settings are introduced.
type Preference struct {
	kind PreferenceKind
	str  string
	num  float64
	b    bool
}

// StringPreference wraps a string value.
func StringPreference(v string) Preference { return Preference{kind: PreferenceString, str: v} }

// NumberPreference wraps a numeric value.
func NumberPreference(v float64) Preference { return Preference{kind: PreferenceNumber, num: v} }

// BoolPreference wraps a boolean value.
func BoolPreference(v bool) Preference { return Preference{kind: PreferenceBool, b: v} }

// Kind returns the discriminator for the held value.
func (p Preference) Kind() PreferenceKind { return p.kind }

// AsString returns the string value and whether the preference holds one.
func (p Preference) AsString() (string, bool) { return p.str, p.kind == PreferenceString }

// AsNumber returns the numeric value and whether the preference holds one.
func (p Preference) AsNumber() (float64, bool) { return p.num, p.kind == PreferenceNumber }

// AsBool returns the boolean value and whether the preference holds one.
func (p Preference) AsBool() (bool, bool) { return p.b, p.kind == PreferenceBool }

// String renders the value regardless of kind, mainly for prompts and logs.
func (p Preference) String() string {
	switch p.kind {
	case PreferenceNumber:
		return strconv.FormatFloat(p.num, 'f', -1, 64)
	case PreferenceBool:
		return strconv.FormatBool(p.b)
	default:
		return p.str
	}
}

// MarshalJSON encodes the preference as its bare JSON value.
func (p Preference) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PreferenceNumber:
		return json.Marshal(p.num)
	case PreferenceBool:
		return json.Marshal(p.b)
	default:
		return json.Marshal(p.str)
	}
}

// UnmarshalJSON sniffs the JSON value kind. Values that are neither bool,
// number nor string (arrays, objects) are preserved verbatim as a string so
// no stored data is lost on round-trip.
func (p *Preference) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*p = BoolPreference(b)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = NumberPreference(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = StringPreference(s)
		return nil
	}
	*p = StringPreference(string(data))
	return nil
}
