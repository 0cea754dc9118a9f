package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

func TestRequestTemplateRoundTrip(t *testing.T) {
	tmpl := RequestTemplate{URL: "https://example.com/p", Path: "a.b", Coerce: oracletypes.TaskUint256}
	bz, err := EncodeRequestPrice(tmpl)
	require.NoError(t, err)
	require.Len(t, bz, 1+RequestTemplateLen)
	require.Equal(t, InstructionRequestPrice, bz[0])

	decoded, err := DecodeRequestPrice(bz[1:])
	require.NoError(t, err)
	require.Equal(t, tmpl, decoded)
}

func TestDefaultTemplateFitsWindows(t *testing.T) {
	tmpl, err := DecodeRequestPrice(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultRequestTemplate(), tmpl)
	require.Len(t, tmpl.URL, oracletypes.URLLen)
	require.Len(t, tmpl.Path, oracletypes.PathLen)

	req, err := tmpl.Request(ttptypes.DeriveAddress("test/consumer"))
	require.NoError(t, err)
	require.NoError(t, req.ValidateBasic())
}

func TestEncodeRequestPriceErrors(t *testing.T) {
	_, err := EncodeRequestPrice(RequestTemplate{URL: strings.Repeat("u", 40), Path: "p", Coerce: oracletypes.TaskUint32})
	require.ErrorIs(t, err, oracletypes.ErrFieldTooLong)

	_, err = EncodeRequestPrice(RequestTemplate{URL: "u", Path: "p", Coerce: oracletypes.TaskJsonParse})
	require.ErrorIs(t, err, oracletypes.ErrUnknownVariant)

	body := make([]byte, RequestTemplateLen)
	_, err = DecodeRequestPrice(body)
	require.ErrorIs(t, err, ErrInvalidInstructionData)
}

func TestNewRequestPriceInstruction(t *testing.T) {
	consumer := ttptypes.DeriveAddress("test/consumer")
	oracle := ttptypes.DeriveAddress("test/oracle")
	account := ttptypes.DeriveAddress("test/oracle-account")

	ix, err := NewRequestPriceInstruction(consumer, oracle, account, DefaultRequestTemplate())
	require.NoError(t, err)
	require.Equal(t, consumer, ix.ProgramID)
	require.Len(t, ix.Accounts, 2)
	require.False(t, ix.Accounts[0].IsWritable)
	require.True(t, ix.Accounts[1].IsWritable)
}
