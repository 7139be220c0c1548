package resp

import (
	"math"
	"strconv"
	"strings"
)

// EncodeCommand serializes argv as a RESP array-of-bulk-strings command
// frame: *N\r\n then, for each element, $len\r\n<bytes>\r\n. len counts
// bytes, not characters; the caller is responsible for pre-tokenizing —
// this function never quotes or escapes.
func EncodeCommand(argv [][]byte) []byte {
	var b strings.Builder
	b.WriteByte('*')
	b.WriteString(strconv.Itoa(len(argv)))
	b.WriteString("\r\n")
	for _, arg := range argv {
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(len(arg)))
		b.WriteString("\r\n")
		b.Write(arg)
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

// ToResp produces the canonical RESP3 wire encoding of v. Sets are
// deduplicated (preserving order of first appearance) before their
// header count is written, so the encoded count always matches the
// encoded element count.
func (v Value) ToResp() []byte {
	var b strings.Builder
	v.writeResp(&b)
	return []byte(b.String())
}

func (v Value) writeResp(b *strings.Builder) {
	switch v.Kind {
	case KindSimpleString:
		b.WriteByte('+')
		b.WriteString(v.Text)
		b.WriteString("\r\n")
	case KindSimpleError:
		b.WriteByte('-')
		b.WriteString(v.Text)
		b.WriteString("\r\n")
	case KindInteger:
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(v.Int, 10))
		b.WriteString("\r\n")
	case KindBulkString:
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(len(v.Bulk)))
		b.WriteString("\r\n")
		b.Write(v.Bulk)
		b.WriteString("\r\n")
	case KindArray:
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(len(v.Items)))
		b.WriteString("\r\n")
		for _, item := range v.Items {
			item.writeResp(b)
		}
	case KindNull:
		b.WriteString("_\r\n")
	case KindBoolean:
		b.WriteByte('#')
		if v.Bool {
			b.WriteByte('t')
		} else {
			b.WriteByte('f')
		}
		b.WriteString("\r\n")
	case KindDouble:
		b.WriteByte(',')
		b.WriteString(formatDouble(v.Double))
		b.WriteString("\r\n")
	case KindBigNumber:
		b.WriteByte('(')
		b.WriteString(v.Text)
		b.WriteString("\r\n")
	case KindBulkError:
		b.WriteByte('!')
		b.WriteString(strconv.Itoa(len(v.Bulk)))
		b.WriteString("\r\n")
		b.Write(v.Bulk)
		b.WriteString("\r\n")
	case KindVerbatimString:
		payload := v.Format + ":" + v.Text
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(len(payload)))
		b.WriteString("\r\n")
		b.WriteString(payload)
		b.WriteString("\r\n")
	case KindMap:
		b.WriteByte('%')
		b.WriteString(strconv.Itoa(len(v.Pairs)))
		b.WriteString("\r\n")
		for _, p := range v.Pairs {
			p.Key.writeResp(b)
			p.Value.writeResp(b)
		}
	case KindSet:
		items := dedupPreserveOrder(v.Items)
		b.WriteByte('~')
		b.WriteString(strconv.Itoa(len(items)))
		b.WriteString("\r\n")
		for _, item := range items {
			item.writeResp(b)
		}
	case KindPush:
		b.WriteByte('>')
		b.WriteString(strconv.Itoa(len(v.Items)))
		b.WriteString("\r\n")
		for _, item := range v.Items {
			item.writeResp(b)
		}
	}
}

// formatDouble renders a float64 the way RESP3 expects: the special
// values as bare "inf"/"-inf"/"nan" (no sign on nan), everything else as
// a round-trippable decimal.
func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
