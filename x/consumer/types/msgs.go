package types

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// RequestTemplate describes the pipeline a consumer asks the oracle to run.
type RequestTemplate struct {
	URL    string
	Path   string
	Coerce oracletypes.TaskKind
}

// DefaultRequestTemplate returns the BTC/USD request used when none is given.
func DefaultRequestTemplate() RequestTemplate {
	return RequestTemplate{
		URL:    DefaultURL,
		Path:   DefaultPath,
		Coerce: oracletypes.TaskUint32,
	}
}

// Request builds the oracle request calling back into program.
func (t RequestTemplate) Request(program ttptypes.Address) (oracletypes.Request, error) {
	return oracletypes.NewRequest(t.URL, t.Path, t.Coerce, program)
}

// EncodeRequestPrice returns the consumer instruction carrying t: [0][url 34][path 12][coerce u16].
func EncodeRequestPrice(t RequestTemplate) ([]byte, error) {
	out := make([]byte, 1+RequestTemplateLen)
	out[0] = InstructionRequestPrice

	body := out[1:]
	if err := oracletypes.PutFixed(body[:oracletypes.URLLen], []byte(t.URL)); err != nil {
		return nil, err
	}
	if err := oracletypes.PutFixed(body[oracletypes.URLLen:oracletypes.URLLen+oracletypes.PathLen], []byte(t.Path)); err != nil {
		return nil, err
	}
	if !t.Coerce.IsCoerce() {
		return nil, errorsmod.Wrapf(oracletypes.ErrUnknownVariant, "%s is not a coercion", t.Coerce)
	}
	binary.LittleEndian.PutUint16(body[oracletypes.URLLen+oracletypes.PathLen:], uint16(t.Coerce))
	return out, nil
}

// DecodeRequestPrice reads the template following the tag byte. An empty body selects the default.
func DecodeRequestPrice(body []byte) (RequestTemplate, error) {
	if len(body) == 0 {
		return DefaultRequestTemplate(), nil
	}
	if len(body) != RequestTemplateLen {
		return RequestTemplate{}, errorsmod.Wrapf(ErrInvalidInstructionData, "request template must be %d bytes, got %d", RequestTemplateLen, len(body))
	}
	coerce := oracletypes.TaskKind(binary.LittleEndian.Uint16(body[oracletypes.URLLen+oracletypes.PathLen:]))
	if !coerce.IsCoerce() {
		return RequestTemplate{}, errorsmod.Wrapf(ErrInvalidInstructionData, "coercion tag %d", uint16(coerce))
	}
	return RequestTemplate{
		URL:    string(oracletypes.TrimFixed(body[:oracletypes.URLLen])),
		Path:   string(oracletypes.TrimFixed(body[oracletypes.URLLen : oracletypes.URLLen+oracletypes.PathLen])),
		Coerce: coerce,
	}, nil
}

// NewRequestPriceInstruction builds the instruction a client sends to the consumer program.
func NewRequestPriceInstruction(consumerProgram, oracleProgram, oracleAccount ttptypes.Address, t RequestTemplate) (ttptypes.Instruction, error) {
	data, err := EncodeRequestPrice(t)
	if err != nil {
		return ttptypes.Instruction{}, err
	}
	return ttptypes.Instruction{
		ProgramID: consumerProgram,
		Accounts: []ttptypes.AccountMeta{
			ttptypes.NewReadonlyAccountMeta(oracleProgram),
			ttptypes.NewAccountMeta(oracleAccount),
		},
		Data: data,
	}, nil
}
