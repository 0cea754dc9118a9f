package types

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
)

// Layout selects how slot occupancy is encoded in an oracle account.
type Layout uint8

const (
	// LayoutSentinel packs bare requests; a slot is empty iff its first SentinelLen bytes are zero.
	LayoutSentinel Layout = iota
	// LayoutFlagged prefixes every request with an explicit occupancy byte.
	LayoutFlagged
)

const (
	slotEmpty    byte = 0
	slotOccupied byte = 1
)

// ParseLayout reads a layout name.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "sentinel":
		return LayoutSentinel, nil
	case "flagged":
		return LayoutFlagged, nil
	default:
		return 0, fmt.Errorf("unknown queue layout %q", s)
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutSentinel:
		return "sentinel"
	case LayoutFlagged:
		return "flagged"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// SlotLen is the number of bytes one slot occupies.
func (l Layout) SlotLen() int {
	if l == LayoutFlagged {
		return 1 + RequestLen
	}
	return RequestLen
}

// OracleAccountLen is the buffer size to allocate for an oracle account of layout l.
func OracleAccountLen(l Layout) int {
	return MaxRequests * l.SlotLen()
}

// Slot is one entry of a decoded queue. Request is nil when the slot is empty.
type Slot struct {
	Index   uint8
	Request *Request
}

// RequestQueue is a fixed-capacity table of requests living inside an account buffer.
// All operations read and write buf in place.
type RequestQueue struct {
	layout Layout
	buf    []byte
}

// NewRequestQueue wraps buf, picking the layout from its length.
func NewRequestQueue(buf []byte) (*RequestQueue, error) {
	switch len(buf) {
	case OracleAccountLen(LayoutSentinel):
		return &RequestQueue{layout: LayoutSentinel, buf: buf}, nil
	case OracleAccountLen(LayoutFlagged):
		return &RequestQueue{layout: LayoutFlagged, buf: buf}, nil
	default:
		return nil, errorsmod.Wrapf(ErrInvalidAccountData, "oracle account must be %d or %d bytes, got %d",
			OracleAccountLen(LayoutSentinel), OracleAccountLen(LayoutFlagged), len(buf))
	}
}

func (q *RequestQueue) Layout() Layout {
	return q.layout
}

func (q *RequestQueue) slot(i uint8) []byte {
	n := q.layout.SlotLen()
	return q.buf[int(i)*n : int(i+1)*n]
}

func (q *RequestQueue) requestBytes(i uint8) []byte {
	s := q.slot(i)
	if q.layout == LayoutFlagged {
		return s[1:]
	}
	return s
}

func (q *RequestQueue) isEmpty(i uint8) bool {
	if q.layout == LayoutFlagged {
		return q.slot(i)[0] == slotEmpty
	}
	return isZero(q.slot(i)[:SentinelLen])
}

// FindFirstEmptySlot returns the lowest free slot index.
func (q *RequestQueue) FindFirstEmptySlot() (uint8, bool) {
	for i := uint8(0); i < MaxRequests; i++ {
		if q.isEmpty(i) {
			return i, true
		}
	}
	return 0, false
}

// Insert stores req in the first free slot and returns its index. The stored request carries
// that index. On failure the buffer is left untouched.
func (q *RequestQueue) Insert(req Request) (uint8, error) {
	for i, t := range req.Tasks {
		if !t.Kind.IsValid() {
			return 0, errorsmod.Wrapf(ErrUnknownVariant, "task %d tag %d", i, uint16(t.Kind))
		}
	}

	idx, ok := q.FindFirstEmptySlot()
	if !ok {
		return 0, ErrQueueFull
	}

	req.Slot = idx
	encoded := req.Encode()
	if q.layout == LayoutSentinel && isZero(encoded[:SentinelLen]) {
		return 0, errorsmod.Wrapf(ErrAmbiguousRequest, "first %d bytes are zero", SentinelLen)
	}

	if q.layout == LayoutFlagged {
		q.slot(idx)[0] = slotOccupied
	}
	copy(q.requestBytes(idx), encoded[:])
	return idx, nil
}

// Remove zeroes a slot. Clearing an empty slot is a no-op.
func (q *RequestQueue) Remove(i uint8) error {
	if i >= MaxRequests {
		return errorsmod.Wrapf(ErrSlotOutOfRange, "slot %d", i)
	}
	s := q.slot(i)
	for j := range s {
		s[j] = 0
	}
	return nil
}

// Get decodes the request held in slot i. The bool is false for an empty slot.
func (q *RequestQueue) Get(i uint8) (Request, bool, error) {
	if i >= MaxRequests {
		return Request{}, false, errorsmod.Wrapf(ErrSlotOutOfRange, "slot %d", i)
	}
	if q.isEmpty(i) {
		return Request{}, false, nil
	}
	if q.layout == LayoutFlagged && q.slot(i)[0] != slotOccupied {
		return Request{}, false, errorsmod.Wrapf(ErrAccountDataCorrupt, "slot %d: flag %d", i, q.slot(i)[0])
	}
	req, err := DecodeRequest(q.requestBytes(i))
	if err != nil {
		return Request{}, false, ttptypes.WrapCause(errorsmod.Wrapf(ErrAccountDataCorrupt, "slot %d", i), err)
	}
	return req, true, nil
}

// DecodeAll returns one entry per slot in index order. Any undecodable occupied slot aborts.
func (q *RequestQueue) DecodeAll() ([]Slot, error) {
	slots := make([]Slot, 0, MaxRequests)
	for i := uint8(0); i < MaxRequests; i++ {
		req, ok, err := q.Get(i)
		if err != nil {
			return nil, err
		}
		s := Slot{Index: i}
		if ok {
			s.Request = &req
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// Snapshot copies the raw bytes of slot i.
func (q *RequestQueue) Snapshot(i uint8) []byte {
	return append([]byte(nil), q.slot(i)...)
}

// Restore writes back bytes previously taken with Snapshot.
func (q *RequestQueue) Restore(i uint8, raw []byte) {
	copy(q.slot(i), raw)
}

// Occupied counts the non-empty slots.
func (q *RequestQueue) Occupied() int {
	n := 0
	for i := uint8(0); i < MaxRequests; i++ {
		if !q.isEmpty(i) {
			n++
		}
	}
	return n
}
