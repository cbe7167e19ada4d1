package prettylog

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

const (
	iconDebug = "⚙"
	iconInfo  = "ℹ"
	iconWarn  = "⚠"
	iconError = "✖"
)

var bufPool = buffer.NewPool()

// Encoder formats zap log entries in a compact console style for development.
type Encoder struct {
	color  bool
	fields []field
}

type field struct {
	key string
	val string
}

// NewEncoder creates an Encoder. Set color=true for ANSI terminal output.
func NewEncoder(color bool) zapcore.Encoder {
	return &Encoder{color: color}
}

// ShouldColor returns true when terminal colors should be enabled.
func ShouldColor() bool {
	return os.Getenv("NO_COLOR") == ""
}

// Clone implements zapcore.Encoder.
func (e *Encoder) Clone() zapcore.Encoder {
	clone := &Encoder{
		color:  e.color,
		fields: make([]field, len(e.fields)),
	}
	copy(clone.fields, e.fields)
	return clone
}

// EncodeEntry implements zapcore.Encoder.
func (e *Encoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufPool.Get()

	merged := make([]field, 0, len(e.fields)+len(fields))
	merged = append(merged, e.fields...)
	merged = append(merged, flatten(fields)...)

	icon, color := iconInfo, ansiCyan
	switch entry.Level {
	case zapcore.DebugLevel:
		icon, color = iconDebug, ansiGray
	case zapcore.WarnLevel:
		icon, color = iconWarn, ansiYellow
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		icon, color = iconError, ansiRed
	}

	if e.color {
		buf.AppendString(ansiGray)
	}
	buf.AppendString(entry.Time.Format(time.TimeOnly))
	if e.color {
		buf.AppendString(ansiReset)
	}
	buf.AppendByte(' ')

	if e.color {
		buf.AppendString(color)
	}
	buf.AppendString(icon)
	if e.color {
		buf.AppendString(ansiReset)
	}
	buf.AppendByte(' ')
	buf.AppendString(entry.Message)

	for _, f := range merged {
		buf.AppendByte(' ')
		if e.color {
			buf.AppendString(ansiGreen)
		}
		buf.AppendString(f.key)
		buf.AppendByte('=')
		if e.color {
			buf.AppendString(ansiReset)
		}
		buf.AppendString(f.val)
	}
	buf.AppendByte('\n')
	return buf, nil
}

func flatten(fields []zapcore.Field) []field {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	out := make([]field, 0, len(enc.Fields))
	// Preserve caller-specified order, not map order.
	for _, f := range fields {
		if v, ok := enc.Fields[f.Key]; ok {
			out = append(out, field{key: f.Key, val: fmt.Sprintf("%v", v)})
		}
	}
	return out
}

func (e *Encoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	enc := zapcore.NewMapObjectEncoder()
	if err := enc.AddArray(key, arr); err != nil {
		return err
	}
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", enc.Fields[key])})
	return nil
}

func (e *Encoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	enc := zapcore.NewMapObjectEncoder()
	if err := enc.AddObject(key, obj); err != nil {
		return err
	}
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", enc.Fields[key])})
	return nil
}

func (e *Encoder) AddBinary(key string, value []byte) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%x", value)})
}

func (e *Encoder) AddByteString(key string, value []byte) {
	e.fields = append(e.fields, field{key: key, val: string(value)})
}

func (e *Encoder) AddBool(key string, value bool) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%t", value)})
}

func (e *Encoder) AddComplex128(key string, value complex128) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", value)})
}

func (e *Encoder) AddComplex64(key string, value complex64) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", value)})
}

func (e *Encoder) AddDuration(key string, value time.Duration) {
	e.fields = append(e.fields, field{key: key, val: value.String()})
}

func (e *Encoder) AddFloat64(key string, value float64) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", value)})
}

func (e *Encoder) AddFloat32(key string, value float32) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", value)})
}

func (e *Encoder) AddInt(key string, value int)     { e.addInt64(key, int64(value)) }
func (e *Encoder) AddInt64(key string, value int64) { e.addInt64(key, value) }
func (e *Encoder) AddInt32(key string, value int32) { e.addInt64(key, int64(value)) }
func (e *Encoder) AddInt16(key string, value int16) { e.addInt64(key, int64(value)) }
func (e *Encoder) AddInt8(key string, value int8)   { e.addInt64(key, int64(value)) }

func (e *Encoder) addInt64(key string, value int64) {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%d", value)})
}

func (e *Encoder) AddString(key, value string) {
	e.fields = append(e.fields, field{key: key, val: value})
}

func (e *Encoder) AddTime(key string, value time.Time) {
	e.fields = append(e.fields, field{key: key, val: value.Format(time.RFC3339)})
}

func (e *Encoder) AddUint(key string, value uint)       { e.addInt64(key, int64(value)) }
func (e *Encoder) AddUint64(key string, value uint64)   { e.addInt64(key, int64(value)) }
func (e *Encoder) AddUint32(key string, value uint32)   { e.addInt64(key, int64(value)) }
func (e *Encoder) AddUint16(key string, value uint16)   { e.addInt64(key, int64(value)) }
func (e *Encoder) AddUint8(key string, value uint8)     { e.addInt64(key, int64(value)) }
func (e *Encoder) AddUintptr(key string, value uintptr) { e.addInt64(key, int64(value)) }

func (e *Encoder) AddReflected(key string, value interface{}) error {
	e.fields = append(e.fields, field{key: key, val: fmt.Sprintf("%v", value)})
	return nil
}

func (e *Encoder) OpenNamespace(key string) {}
