// Package resp implements the RESP2/RESP3 wire encoding used to talk to a
// Valkey/Redis-compatible server: a tagged-variant value tree (this file),
// a command encoder (encode.go), a streaming parser (parse.go), and a
// frame-completeness detector (frame.go) that lets the caller know when a
// byte buffer holds a full response without relying on transport framing.
package resp

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind tags which variant of Value is populated.
type Kind int

const (
	KindSimpleString Kind = iota
	KindSimpleError
	KindInteger
	KindBulkString
	KindArray
	KindNull
	KindBoolean
	KindDouble
	KindBigNumber
	KindBulkError
	KindVerbatimString
	KindMap
	KindSet
	KindPush
)

// Pair is one key/value entry of a Map value. Order of insertion is
// preserved so Map round-trips deterministically even though RESP3 maps
// have no defined wire ordering.
type Pair struct {
	Key   Value
	Value Value
}

// Value is a parsed RESP2/RESP3 value. Exactly one group of fields is
// meaningful, selected by Kind:
//
//	KindSimpleString, KindSimpleError, KindBigNumber -> Text
//	KindInteger                                      -> Int
//	KindBulkString, KindBulkError                    -> Bulk
//	KindArray, KindSet, KindPush                      -> Items
//	KindBoolean                                      -> Bool
//	KindDouble                                        -> Double
//	KindVerbatimString                                -> Format, Text
//	KindMap                                           -> Pairs
//	KindNull                                          -> (nothing)
type Value struct {
	Kind Kind

	Text   string
	Int    int64
	Bulk   []byte
	Items  []Value
	Bool   bool
	Double float64
	Format string
	Pairs  []Pair
}

// Constructors, one per variant; NewMap and NewSet also deduplicate
// their input (see below).

func SimpleString(s string) Value { return Value{Kind: KindSimpleString, Text: s} }
func SimpleError(s string) Value  { return Value{Kind: KindSimpleError, Text: s} }
func Integer(i int64) Value       { return Value{Kind: KindInteger, Int: i} }
func BulkString(b []byte) Value   { return Value{Kind: KindBulkString, Bulk: b} }
func Array(items []Value) Value   { return Value{Kind: KindArray, Items: items} }
func Null() Value                 { return Value{Kind: KindNull} }
func Boolean(b bool) Value        { return Value{Kind: KindBoolean, Bool: b} }
func Double(f float64) Value      { return Value{Kind: KindDouble, Double: f} }
func BigNumber(s string) Value    { return Value{Kind: KindBigNumber, Text: s} }
func BulkError(b []byte) Value    { return Value{Kind: KindBulkError, Bulk: b} }

func VerbatimString(format, data string) Value {
	return Value{Kind: KindVerbatimString, Format: format, Text: data}
}

// NewMap builds a Map value, deduplicating repeated keys by keeping the
// last value seen for a given key (mirrors Go/HashMap insert-overwrite
// semantics); parsed maps never contain duplicate keys in practice since
// each is read once off the wire, so this only matters for hand-built
// values.
func NewMap(pairs []Pair) Value {
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		replaced := false
		for i := range out {
			if out[i].Key.Equal(p.Key) {
				out[i].Value = p.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return Value{Kind: KindMap, Pairs: out}
}

// NewSet builds a Set value, deduplicating elements by Equal while
// preserving the order of first appearance.
func NewSet(items []Value) Value { return Value{Kind: KindSet, Items: dedupPreserveOrder(items)} }

func Push(items []Value) Value { return Value{Kind: KindPush, Items: items} }

func dedupPreserveOrder(items []Value) []Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		dup := false
		for _, seen := range out {
			if seen.Equal(item) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return out
}

// Equal reports structural equality per spec: scalars compare by value,
// Double follows IEEE-754 comparison (NaN != NaN, -0 == 0), and Map
// compares as a key/value multiset (order-independent).
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindSimpleString, KindSimpleError, KindBigNumber:
		return v.Text == other.Text
	case KindInteger:
		return v.Int == other.Int
	case KindBulkString, KindBulkError:
		return string(v.Bulk) == string(other.Bulk)
	case KindArray, KindPush:
		return equalSlices(v.Items, other.Items)
	case KindNull:
		return true
	case KindBoolean:
		return v.Bool == other.Bool
	case KindDouble:
		return v.Double == other.Double
	case KindVerbatimString:
		return v.Format == other.Format && v.Text == other.Text
	case KindMap:
		return equalMultiset(v.Pairs, other.Pairs)
	case KindSet:
		return equalAsMultiset(v.Items, other.Items)
	default:
		return false
	}
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// equalAsMultiset compares two already-deduplicated Set element lists
// order-independently (order of first appearance may legitimately
// differ between two otherwise-equal sets built from different input
// orders).
func equalAsMultiset(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for j, bv := range b {
			if used[j] {
				continue
			}
			if av.Equal(bv) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalMultiset(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ap := range a {
		found := false
		for j, bp := range b {
			if used[j] {
				continue
			}
			if ap.Key.Equal(bp.Key) && ap.Value.Equal(bp.Value) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// HashKey is a comparable surrogate for Value so it can be used as a Go
// map key. Every Map hashes to the same sentinel digest regardless of
// content (per spec: maps as keys collide but remain distinguishable by
// Equal, which Go map lookups don't use — so two distinct Maps used as
// keys are, as documented, indistinguishable once hashed).
type HashKey struct {
	kind   Kind
	digest string
}

func (v Value) HashKey() HashKey {
	var b strings.Builder
	v.writeDigest(&b)
	return HashKey{kind: v.Kind, digest: b.String()}
}

const mapHashSentinel = "\x7f\xff\xff\xff"

func (v Value) writeDigest(b *strings.Builder) {
	switch v.Kind {
	case KindSimpleString, KindSimpleError, KindBigNumber:
		b.WriteString(v.Text)
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case KindBulkString, KindBulkError:
		b.Write(v.Bulk)
	case KindArray, KindPush, KindSet:
		for _, item := range v.Items {
			item.writeDigest(b)
			b.WriteByte(0)
		}
	case KindNull:
	case KindBoolean:
		if v.Bool {
			b.WriteByte(1)
		} else {
			b.WriteByte(0)
		}
	case KindDouble:
		b.WriteString(strconv.FormatUint(math.Float64bits(v.Double), 16))
	case KindVerbatimString:
		b.WriteString(v.Format)
		b.WriteByte(':')
		b.WriteString(v.Text)
	case KindMap:
		b.WriteString(mapHashSentinel)
	}
}

// String renders the "human" display form described by spec.md §4.2:
// scalars render their payload, while containers (Array, Map, Set, Push)
// concatenate their children's wire-form (ToResp) encoding rather than
// their own display form. This is an intentional, non-recursive-display
// choice preserved from the source so downstream flattening sees
// something parseable back out of container children.
func (v Value) String() string {
	switch v.Kind {
	case KindSimpleString, KindSimpleError, KindBigNumber:
		return v.Text
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindBulkString:
		return utf8Lossy(v.Bulk)
	case KindBulkError:
		return utf8Lossy(v.Bulk)
	case KindArray, KindPush:
		var b strings.Builder
		for _, item := range v.Items {
			b.Write(item.ToResp())
		}
		return b.String()
	case KindNull:
		return ""
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case KindVerbatimString:
		return v.Format + ":" + v.Text
	case KindMap:
		var b strings.Builder
		for _, p := range v.Pairs {
			b.Write(p.Key.ToResp())
			b.Write(p.Value.ToResp())
		}
		return b.String()
	case KindSet:
		var b strings.Builder
		for _, item := range dedupPreserveOrder(v.Items) {
			b.Write(item.ToResp())
		}
		return b.String()
	default:
		return ""
	}
}

// ToFlatList flattens a value into a sequence of display strings:
// scalars contribute one string, containers flatten their children
// left-to-right (Map alternates key, value), Null contributes "".
func (v Value) ToFlatList() []string {
	switch v.Kind {
	case KindArray, KindSet, KindPush:
		out := make([]string, 0, len(v.Items))
		items := v.Items
		if v.Kind == KindSet {
			items = dedupPreserveOrder(items)
		}
		for _, item := range items {
			out = append(out, item.ToFlatList()...)
		}
		return out
	case KindMap:
		out := make([]string, 0, len(v.Pairs)*2)
		for _, p := range v.Pairs {
			out = append(out, p.Key.String())
			out = append(out, p.Value.String())
		}
		return out
	default:
		return []string{v.String()}
	}
}

// utf8Lossy mirrors Rust's String::from_utf8_lossy for BulkString /
// BulkError display: invalid sequences are replaced, valid ones pass
// through untouched.
func utf8Lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var out strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out.WriteRune(r)
		b = b[size:]
	}
	return out.String()
}
