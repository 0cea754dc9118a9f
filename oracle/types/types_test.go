package types

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

type TypesTestSuite struct {
	suite.Suite
	req oracletypes.Request
}

func TestTypesTestSuite(t *testing.T) {
	suite.Run(t, new(TypesTestSuite))
}

func (suite *TypesTestSuite) SetupSuite() {
	log.InitLogger()
}

func (suite *TypesTestSuite) SetupTest() {
	req, err := oracletypes.NewRequest("https://api.example.com/btc", "data.amount", oracletypes.TaskUint32,
		ttptypes.DeriveAddress("test/consumer"))
	suite.Require().NoError(err)
	suite.req = req
}

func (suite *TypesTestSuite) TestMakeJobs_SkipsEmptySlots() {
	req := suite.req
	slots := []oracletypes.Slot{
		{Index: 0},
		{Index: 1, Request: &req},
		{Index: 2},
	}

	jobs := MakeJobs(slots)
	suite.Require().Len(jobs, 1)
	suite.Require().Equal(uint8(1), jobs[0].Slot)
	suite.Require().Equal(req, jobs[0].Request)
	suite.Require().Equal(JobID(1, req), jobs[0].ID)
}

func (suite *TypesTestSuite) TestMakeJobs_Empty() {
	suite.Require().Nil(MakeJobs(nil))
	suite.Require().Nil(MakeJobs([]oracletypes.Slot{{Index: 0}}))
}

func (suite *TypesTestSuite) TestJobID_DistinguishesRecycledSlots() {
	other, err := oracletypes.NewRequest("https://api.example.com/eth", "data.amount", oracletypes.TaskUint32,
		ttptypes.DeriveAddress("test/consumer"))
	suite.Require().NoError(err)

	suite.Require().Equal(JobID(3, suite.req), JobID(3, suite.req))
	suite.Require().NotEqual(JobID(3, suite.req), JobID(3, other))
	suite.Require().NotEqual(JobID(3, suite.req), JobID(4, suite.req))
}
