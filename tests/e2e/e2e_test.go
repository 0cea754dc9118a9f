package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/GPTx-global/ttp-oracle/oracle/daemon"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	consumertypes "github.com/GPTx-global/ttp-oracle/x/consumer/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

func (s *IntegrationTestSuite) occupied() int {
	slots, err := s.app.Queue()
	s.Require().NoError(err)
	return len(slots)
}

// TestPriceRequests queues each case through the consumer program and waits for the daemon to
// answer it, or checks that it stays queued when the pipeline fails.
func (s *IntegrationTestSuite) TestPriceRequests() {
	for _, tc := range TestCases {
		s.Run(fmt.Sprintf("%s :: %s", tc.Endpoint, tc.Name), func() {
			coerce, err := oracletypes.CoerceKindForWidth(tc.Width)
			s.Require().NoError(err)

			answered := len(s.app.ConsumerKeeper.Results())
			queued := s.occupied()

			s.Require().NoError(s.app.RequestPrice(s.ctx, consumertypes.RequestTemplate{
				URL:    s.feed.URL + tc.Endpoint,
				Path:   tc.Path,
				Coerce: coerce,
			}))

			if tc.ExpPass {
				s.Require().Eventually(func() bool {
					return len(s.app.ConsumerKeeper.Results()) == answered+1
				}, 5*time.Second, pollInterval)

				res, ok := s.app.ConsumerKeeper.LastResult()
				s.Require().True(ok)
				s.Require().Equal(tc.Expected, res.Value.String())
				s.Require().Eventually(func() bool { return s.occupied() == queued }, time.Second, pollInterval)
				return
			}

			s.Require().Never(func() bool {
				return len(s.app.ConsumerKeeper.Results()) != answered
			}, 10*pollInterval, pollInterval)
			s.Require().Equal(queued+1, s.occupied())
		})
	}
}

// TestRepeatedRequestIsAnsweredAgain sends the same request twice into the same slot.
func (s *IntegrationTestSuite) TestRepeatedRequestIsAnsweredAgain() {
	tmpl := consumertypes.RequestTemplate{URL: s.feed.URL + "/btc", Path: "result.price", Coerce: oracletypes.TaskUint32}

	for i := 1; i <= 3; i++ {
		s.Require().NoError(s.app.RequestPrice(s.ctx, tmpl))
		s.Require().Eventually(func() bool {
			return len(s.app.ConsumerKeeper.Results()) == i
		}, 5*time.Second, pollInterval)
		s.Require().Eventually(func() bool { return s.occupied() == 0 }, time.Second, pollInterval)
	}

	for _, res := range s.app.ConsumerKeeper.Results() {
		s.Require().Equal(uint8(0), res.Slot)
		s.Require().Equal("15439", res.Value.String())
	}
}

// TestFailedCallbackKeepsSlot queues a request whose callback program does not exist. The
// response is rejected and the request stays in its slot.
func (s *IntegrationTestSuite) TestFailedCallbackKeepsSlot() {
	req, err := oracletypes.NewRequest(s.feed.URL+"/btc", "result.price", oracletypes.TaskUint32, ttptypes.DeriveAddress("e2e/program/missing"))
	s.Require().NoError(err)
	s.Require().NoError(s.app.Execute(s.ctx, oracletypes.NewCreateRequestInstruction(s.app.OracleProgram, s.app.OracleAccount, req)))

	s.Require().Never(func() bool { return s.occupied() == 0 }, 10*pollInterval, pollInterval)

	stored, err := s.app.Request(0)
	s.Require().NoError(err)
	s.Require().Equal(req.Encode(), stored.Encode())
	s.Require().Empty(s.app.ConsumerKeeper.Results())
}

// TestAPIRoundTrip queues a request over HTTP and reads the answer back.
func (s *IntegrationTestSuite) TestAPIRoundTrip() {
	bz, err := json.Marshal(daemon.CreateRequestBody{URL: s.feed.URL + "/eth", Path: "data.amount", Width: 128})
	s.Require().NoError(err)
	resp, err := http.Post(s.api.URL+"/v1/requests", "application/json", bytes.NewReader(bz))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	s.Require().Eventually(func() bool {
		resp, err := http.Get(s.api.URL + "/v1/results")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		var results []daemon.ResultResponse
		if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
			return false
		}
		return len(results) == 1 && results[0].Value == "3120"
	}, 5*time.Second, pollInterval)
}
