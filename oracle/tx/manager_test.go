package tx

import (
	"context"
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

type mockExecutor struct {
	executed []ttptypes.Instruction
	err      error
}

func (m *mockExecutor) Execute(_ context.Context, ix ttptypes.Instruction) error {
	m.executed = append(m.executed, ix)
	return m.err
}

var (
	oracleProgram = ttptypes.DeriveAddress("test/oracle")
	oracleAccount = ttptypes.DeriveAddress("test/oracle-account")
)

func setupTxManagerTest(t *testing.T) (*TxManager, *mockExecutor) {
	log.InitLogger()
	exec := &mockExecutor{}
	return NewTxManager(exec, oracleProgram, oracleAccount, 4), exec
}

func TestBuildSubmitTx(t *testing.T) {
	txm, _ := setupTxManagerTest(t)

	ix, err := txm.BuildSubmitTx(&types.JobResult{JobID: "1/AB", Slot: 1, Value: sdkmath.NewUint(15439)})
	require.NoError(t, err)
	require.Equal(t, oracleProgram, ix.ProgramID)
	require.Len(t, ix.Accounts, 1)
	require.Equal(t, oracleAccount, ix.Accounts[0].Address)
	require.True(t, ix.Accounts[0].IsWritable)

	expected := make([]byte, oracletypes.CallbackLen)
	expected[0] = oracletypes.CallbackDeterminant
	expected[1] = 0x4F
	expected[2] = 0x3C
	expected[17] = 1
	require.Equal(t, expected, ix.Data)
}

func TestBuildSubmitTx_Overflow(t *testing.T) {
	txm, _ := setupTxManagerTest(t)

	big := sdkmath.NewUintFromString("340282366920938463463374607431768211456")
	_, err := txm.BuildSubmitTx(&types.JobResult{JobID: "0/00", Slot: 0, Value: big})
	require.ErrorIs(t, err, oracletypes.ErrValueOverflow)
}

func TestSubmit(t *testing.T) {
	txm, exec := setupTxManagerTest(t)

	require.NoError(t, txm.Submit(context.Background(), &types.JobResult{JobID: "2/CD", Slot: 2, Value: sdkmath.NewUint(7)}))
	require.Len(t, exec.executed, 1)

	exec.err = errors.New("slot empty")
	require.Error(t, txm.Submit(context.Background(), &types.JobResult{JobID: "2/CD", Slot: 2, Value: sdkmath.NewUint(7)}))
	require.Len(t, exec.executed, 2)
}

func TestNextResult(t *testing.T) {
	txm, _ := setupTxManagerTest(t)

	jr := &types.JobResult{JobID: "3/EF", Slot: 3, Value: sdkmath.NewUint(1)}
	txm.ResultQueue() <- jr
	got, ok := txm.NextResult(context.Background())
	require.True(t, ok)
	require.Equal(t, jr, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok = txm.NextResult(ctx)
	require.False(t, ok)
}
