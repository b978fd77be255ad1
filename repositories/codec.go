package repositories

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Values are stored with the protobuf wire format so records stay
// forward compatible: unknown field numbers are skipped on decode.

type recordWriter struct {
	b []byte
}

func (w *recordWriter) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendString(w.b, v)
}

func (w *recordWriter) strings(num protowire.Number, vs []string) {
	for _, v := range vs {
		w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
		w.b = protowire.AppendString(w.b, v)
	}
}

func (w *recordWriter) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.VarintType)
	w.b = protowire.AppendVarint(w.b, protowire.EncodeBool(v))
}

func (w *recordWriter) int64(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.VarintType)
	w.b = protowire.AppendVarint(w.b, uint64(v))
}

func (w *recordWriter) time(num protowire.Number, t *time.Time) {
	if t == nil || t.IsZero() {
		return
	}
	w.int64(num, t.UnixNano())
}

func (w *recordWriter) bytes() []byte {
	return w.b
}

// field is one decoded wire value. Only varint and length-delimited
// values are produced, other wire types are skipped.
type field struct {
	num    protowire.Number
	varint uint64
	raw    []byte
}

func (f field) str() string {
	return string(f.raw)
}

func (f field) boolean() bool {
	return protowire.DecodeBool(f.varint)
}

func (f field) timestamp() time.Time {
	return time.Unix(0, int64(f.varint)).UTC()
}

func readRecord(b []byte, visit func(f field)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			visit(field{num: num, varint: v})
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			visit(field{num: num, raw: append([]byte(nil), v...)})
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}
