package types

import (
	"encoding/binary"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// TaskKind is the 2-byte discriminant of a Task.
type TaskKind uint16

const (
	TaskHttpGet TaskKind = iota
	TaskJsonParse
	// TaskUint256 is kept under its historical wire tag.
	TaskUint256
	TaskUint128
	TaskUint32
)

func (k TaskKind) String() string {
	switch k {
	case TaskHttpGet:
		return "http_get"
	case TaskJsonParse:
		return "json_parse"
	case TaskUint256:
		return "uint256"
	case TaskUint128:
		return "uint128"
	case TaskUint32:
		return "uint32"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(k))
	}
}

// IsValid reports whether k is a known variant.
func (k TaskKind) IsValid() bool {
	return k <= TaskUint32
}

// IsCoerce reports whether k is one of the numeric coercion variants.
func (k TaskKind) IsCoerce() bool {
	return k == TaskUint256 || k == TaskUint128 || k == TaskUint32
}

// Width returns the bit width of a coercion variant, or 0 for any other kind.
func (k TaskKind) Width() int {
	switch k {
	case TaskUint256:
		return 256
	case TaskUint128:
		return 128
	case TaskUint32:
		return 32
	default:
		return 0
	}
}

// CoerceKindForWidth maps a bit width onto its coercion variant.
func CoerceKindForWidth(width int) (TaskKind, error) {
	switch width {
	case 256:
		return TaskUint256, nil
	case 128:
		return TaskUint128, nil
	case 32:
		return TaskUint32, nil
	default:
		return 0, errorsmod.Wrapf(ErrUnknownVariant, "no coercion for width %d", width)
	}
}

// Task is one step of an off-chain pipeline. Only the field matching Kind is meaningful.
type Task struct {
	Kind    TaskKind
	RawURL  [URLLen]byte
	RawPath [PathLen]byte
}

// NewHttpGetTask builds a fetch step. url must fit into URLLen bytes.
func NewHttpGetTask(url string) (Task, error) {
	t := Task{Kind: TaskHttpGet}
	if err := PutFixed(t.RawURL[:], []byte(url)); err != nil {
		return Task{}, errorsmod.Wrapf(err, "url %q", url)
	}
	return t, nil
}

// NewJsonParseTask builds a parse step. path must fit into PathLen bytes.
func NewJsonParseTask(path string) (Task, error) {
	t := Task{Kind: TaskJsonParse}
	if err := PutFixed(t.RawPath[:], []byte(path)); err != nil {
		return Task{}, errorsmod.Wrapf(err, "path %q", path)
	}
	return t, nil
}

// NewCoerceTask builds a numeric coercion step of the given kind.
func NewCoerceTask(kind TaskKind) (Task, error) {
	if !kind.IsCoerce() {
		return Task{}, errorsmod.Wrapf(ErrUnknownVariant, "%s is not a coercion", kind)
	}
	return Task{Kind: kind}, nil
}

// URL returns the fetch target without padding.
func (t Task) URL() string {
	return string(TrimFixed(t.RawURL[:]))
}

// Path returns the parse path without padding.
func (t Task) Path() string {
	return string(TrimFixed(t.RawPath[:]))
}

func (t Task) String() string {
	switch t.Kind {
	case TaskHttpGet:
		return fmt.Sprintf("%s(%s)", t.Kind, t.URL())
	case TaskJsonParse:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Path())
	default:
		return t.Kind.String()
	}
}

// Encode returns the 36-byte wire form of t. Padding is always zero.
func (t Task) Encode() [TaskLen]byte {
	var out [TaskLen]byte
	t.EncodeTo(out[:])
	return out
}

// EncodeTo writes the wire form of t into dst[:TaskLen].
func (t Task) EncodeTo(dst []byte) {
	_ = dst[TaskLen-1]
	binary.LittleEndian.PutUint16(dst[:TaskTagLen], uint16(t.Kind))
	payload := dst[TaskTagLen:TaskLen]
	for i := range payload {
		payload[i] = 0
	}
	switch t.Kind {
	case TaskHttpGet:
		copy(payload, t.RawURL[:])
	case TaskJsonParse:
		copy(payload, t.RawPath[:])
	}
}

// DecodeTask reads a Task from the first TaskLen bytes of bz.
func DecodeTask(bz []byte) (Task, error) {
	if len(bz) < TaskLen {
		return Task{}, errorsmod.Wrapf(ErrTruncated, "task needs %d bytes, got %d", TaskLen, len(bz))
	}
	kind := TaskKind(binary.LittleEndian.Uint16(bz[:TaskTagLen]))
	payload := bz[TaskTagLen:TaskLen]

	t := Task{Kind: kind}
	switch kind {
	case TaskHttpGet:
		copy(t.RawURL[:], payload)
	case TaskJsonParse:
		copy(t.RawPath[:], payload[:PathLen])
	case TaskUint256, TaskUint128, TaskUint32:
	default:
		return Task{}, errorsmod.Wrapf(ErrUnknownVariant, "task tag %d", uint16(kind))
	}
	return t, nil
}
