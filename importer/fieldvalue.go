package importer

import (
	"strconv"
	"time"
)

// RawValue is one typed field of a Firestore REST document. Exactly one
// of the members is present; integers arrive as decimal strings.
type RawValue struct {
	StringValue    *string  `json:"stringValue,omitempty"`
	IntegerValue   *string  `json:"integerValue,omitempty"`
	DoubleValue    *float64 `json:"doubleValue,omitempty"`
	BooleanValue   *bool    `json:"booleanValue,omitempty"`
	TimestampValue *string  `json:"timestampValue,omitempty"`
}

type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindStr
	KindInt
	KindDouble
	KindBool
	KindTimestamp
)

// FieldValue is the decoded form of a RawValue. Kind tells which member
// is meaningful.
type FieldValue struct {
	Kind   ValueKind
	Str    string
	Int    int64
	Double float64
	Bool   bool
	Time   time.Time
}

// Decode maps a raw typed field onto a FieldValue. A missing or
// malformed member yields KindAbsent.
func Decode(raw *RawValue) FieldValue {
	switch {
	case raw == nil:
		return FieldValue{Kind: KindAbsent}
	case raw.StringValue != nil:
		return FieldValue{Kind: KindStr, Str: *raw.StringValue}
	case raw.IntegerValue != nil:
		n, err := strconv.ParseInt(*raw.IntegerValue, 10, 64)
		if err != nil {
			return FieldValue{Kind: KindAbsent}
		}
		return FieldValue{Kind: KindInt, Int: n}
	case raw.DoubleValue != nil:
		return FieldValue{Kind: KindDouble, Double: *raw.DoubleValue}
	case raw.BooleanValue != nil:
		return FieldValue{Kind: KindBool, Bool: *raw.BooleanValue}
	case raw.TimestampValue != nil:
		t, err := time.Parse(time.RFC3339Nano, *raw.TimestampValue)
		if err != nil {
			return FieldValue{Kind: KindAbsent}
		}
		return FieldValue{Kind: KindTimestamp, Time: t}
	default:
		return FieldValue{Kind: KindAbsent}
	}
}

// Render formats a FieldValue as a spreadsheet cell. Timestamps are
// rendered in the given zone as yyyy-MM-dd HH:mm:ss.
func (v FieldValue) Render(loc *time.Location) string {
	switch v.Kind {
	case KindStr:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindDouble:
		return strconv.FormatFloat(v.Double, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTimestamp:
		return v.Time.In(loc).Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
