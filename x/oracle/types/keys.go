package types

const (
	// ModuleName defines the module name
	ModuleName = "oracle"

	// MaxRequests is the number of request slots held by one oracle account
	MaxRequests = 10

	// TasksPerRequest is the fixed pipeline length: fetch, parse, coerce
	TasksPerRequest = 3

	// CallbackDeterminant is the leading byte reserved for callback payloads.
	// No normal instruction tag may have this value as its low byte.
	CallbackDeterminant byte = 255
)

// Wire sizes in bytes
const (
	TaskTagLen     = 2
	TaskPayloadLen = 34
	TaskLen        = TaskTagLen + TaskPayloadLen

	URLLen  = TaskPayloadLen
	PathLen = 12

	ProgramIDLen = 32
	SlotIndexLen = 1

	RequestLen = TasksPerRequest*TaskLen + ProgramIDLen + SlotIndexLen

	ResponseDataLen = 16
	ResponseLen     = ResponseDataLen + SlotIndexLen
	CallbackLen     = 1 + ResponseLen

	InstructionTagLen    = 2
	CreateRequestDataLen = InstructionTagLen + RequestLen

	// SentinelLen is the number of leading slot bytes that mark an empty slot when all zero
	SentinelLen = 8
)

// Normal instruction tags
const (
	InstructionCreateRequest uint16 = iota
)

// NormalInstructionTags lists every valid non-callback instruction tag.
var NormalInstructionTags = []uint16{InstructionCreateRequest}
