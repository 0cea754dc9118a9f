package types

import (
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "consumer"

	// InstructionRequestPrice asks the oracle for a price. The callback determinant is the only
	// other tag the consumer accepts.
	InstructionRequestPrice byte = 0

	// RequestTemplateLen is the size of an explicit request template following the tag.
	RequestTemplateLen = oracletypes.URLLen + oracletypes.PathLen + oracletypes.TaskTagLen

	// MaxRecordedResults bounds the in-memory result history.
	MaxRecordedResults = 256
)

// Default request, a BTC/USD spot price
const (
	DefaultURL  = "https://ftx.us/api/markets/BTC/USD"
	DefaultPath = "result.price"
)
