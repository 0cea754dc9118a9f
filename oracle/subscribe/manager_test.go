package subscribe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"

	"github.com/GPTx-global/ttp-oracle/ledger"
	oraclelog "github.com/GPTx-global/ttp-oracle/oracle/log"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	"github.com/GPTx-global/ttp-oracle/x/oracle"
	"github.com/GPTx-global/ttp-oracle/x/oracle/keeper"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

var (
	oracleProgram = ttptypes.DeriveAddress("test/oracle")
	oracleAccount = ttptypes.DeriveAddress("test/oracle-account")
	consumer      = ttptypes.DeriveAddress("test/consumer")
)

type SubscribeTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	ledger *ledger.Ledger
	sm     *SubscribeManager
}

func TestSubscribeTestSuite(t *testing.T) {
	suite.Run(t, new(SubscribeTestSuite))
}

func (s *SubscribeTestSuite) SetupTest() {
	oraclelog.InitLogger()
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.ledger = ledger.New(dbm.NewMemDB(), log.NewNopLogger())
	s.ledger.Register(oracleProgram, oracle.NewHandler(keeper.NewKeeper(oracleProgram, log.NewNopLogger())))
	s.Require().NoError(s.ledger.CreateAccount(oracleAccount, oracleProgram, oracletypes.OracleAccountLen(oracletypes.LayoutSentinel)))

	s.sm = NewSubscribeManager(s.ctx, s.ledger, oracleProgram, oracleAccount, 10*time.Millisecond)
}

func (s *SubscribeTestSuite) TearDownTest() {
	s.sm.Stop()
	s.cancel()
}

func (s *SubscribeTestSuite) queue(n int) {
	req, err := oracletypes.NewRequest("https://api.example.com/btc", "data.amount", oracletypes.TaskUint32, consumer)
	s.Require().NoError(err)
	for i := 0; i < n; i++ {
		s.Require().NoError(s.ledger.Execute(s.ctx, oracletypes.NewCreateRequestInstruction(oracleProgram, oracleAccount, req)))
	}
}

func (s *SubscribeTestSuite) TestScanEmpty() {
	jobs, err := s.sm.Scan()
	s.Require().NoError(err)
	s.Require().Nil(jobs)
}

func (s *SubscribeTestSuite) TestSubscribeReturnsOccupiedSlots() {
	s.queue(3)

	jobs, done := s.sm.Subscribe()
	s.Require().False(done)
	s.Require().Len(jobs, 3)
	for i, job := range jobs {
		s.Require().Equal(uint8(i), job.Slot)
		s.Require().Equal(consumer, job.Request.Callback)
	}
}

func (s *SubscribeTestSuite) TestSubscribeStopsWithContext() {
	s.cancel()
	jobs, done := s.sm.Subscribe()
	s.Require().True(done)
	s.Require().Nil(jobs)
	s.Require().False(s.sm.Wait())
}

func (s *SubscribeTestSuite) TestLoadRequestsChecksOwner() {
	other := ttptypes.DeriveAddress("test/other-account")
	s.Require().NoError(s.ledger.CreateAccount(other, consumer, oracletypes.OracleAccountLen(oracletypes.LayoutSentinel)))

	sm := NewSubscribeManager(s.ctx, s.ledger, oracleProgram, other, time.Second)
	defer sm.Stop()
	_, err := sm.LoadRequests()
	s.Require().Error(err)
}
