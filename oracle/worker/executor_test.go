package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/ttp-oracle/oracle/config"
	"github.com/GPTx-global/ttp-oracle/oracle/log"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
	ttptypes "github.com/GPTx-global/ttp-oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

type ExecutorSuite struct {
	suite.Suite
	server *httptest.Server
}

func (s *ExecutorSuite) SetupTest() {
	log.InitLogger()
	config.SetForTesting(s.T().TempDir(), oracletypes.LayoutSentinel, time.Second, "")

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"result":{"price":15439.87}}`))
		case "/list":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"t":[{"name":"BTC","last":60000}]}`))
		case "/name":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"n":"BTC"}`))
		case "/str":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"price":" 42.9 "}`))
		case "/big":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"v":"340282366920938463463374607431768211456"}`))
		case "/bad":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":"invalid`))
		case "/err":
			w.WriteHeader(http.StatusInternalServerError)
		case "/arr":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[{"price": 456.78}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	// Reset httpClient for each test to ensure isolation
	once = sync.Once{}
	httpClient = nil
	_ = executorClient()
}

func (s *ExecutorSuite) TearDownTest() {
	s.server.Close()
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorSuite))
}

func (s *ExecutorSuite) newJob(path, jsonPath string, kind oracletypes.TaskKind) *types.Job {
	req, err := oracletypes.NewRequest(s.server.URL+path, jsonPath, kind, ttptypes.DeriveAddress("test/consumer"))
	s.Require().NoError(err)
	req.Slot = 2
	return types.NewJob(2, req)
}

func (s *ExecutorSuite) TestExecuteJob() {
	testCases := []struct {
		name     string
		path     string
		jsonPath string
		kind     oracletypes.TaskKind
		expected uint64
	}{
		{"number", "/ok", "result.price", oracletypes.TaskUint32, 15439},
		{"array index", "/list", "t.0.last", oracletypes.TaskUint128, 60000},
		{"numeric string", "/str", "price", oracletypes.TaskUint256, 42},
		{"top-level array", "/arr", "price", oracletypes.TaskUint32, 456},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			job := s.newJob(tc.path, tc.jsonPath, tc.kind)
			jr, err := executeJob(context.Background(), job)
			s.Require().NoError(err)
			s.Require().Equal(job.ID, jr.JobID)
			s.Require().Equal(uint8(2), jr.Slot)
			s.Require().True(jr.Value.Equal(sdkmath.NewUint(tc.expected)), jr.Value.String())
		})
	}
}

func (s *ExecutorSuite) TestExecuteJobFailures() {
	testCases := []struct {
		name     string
		path     string
		jsonPath string
		kind     oracletypes.TaskKind
	}{
		{"server error", "/err", "x", oracletypes.TaskUint32},
		{"not found", "/404", "x", oracletypes.TaskUint32},
		{"invalid json", "/bad", "data", oracletypes.TaskUint32},
		{"missing path", "/ok", "result.vol", oracletypes.TaskUint32},
		{"not a number", "/name", "n", oracletypes.TaskUint32},
		{"string in array", "/list", "t.0.name", oracletypes.TaskUint32},
		{"overflow uint32", "/big", "v", oracletypes.TaskUint32},
		{"overflow response", "/big", "v", oracletypes.TaskUint256},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := executeJob(context.Background(), s.newJob(tc.path, tc.jsonPath, tc.kind))
			s.Require().Error(err)
		})
	}
}

func (s *ExecutorSuite) TestExecuteJobRejectsMalformedPipeline() {
	job := s.newJob("/ok", "result.price", oracletypes.TaskUint32)
	job.Request.Tasks[2] = job.Request.Tasks[1]
	_, err := executeJob(context.Background(), job)
	s.Require().ErrorIs(err, oracletypes.ErrInvalidRequest)
}

func (s *ExecutorSuite) TestCoerceNumber() {
	testCases := []struct {
		name     string
		raw      string
		width    int
		expected uint64
		ok       bool
	}{
		{"integer", `7`, 32, 7, true},
		{"truncates", `7.99`, 32, 7, true},
		{"exponent", `1.5e3`, 32, 1500, true},
		{"long fraction", `"1.1234567890123456789012"`, 32, 1, true},
		{"max uint32", `4294967295`, 32, 4294967295, true},
		{"over uint32", `4294967296`, 32, 0, false},
		{"negative", `-3`, 128, 0, false},
		{"bool", `true`, 32, 0, false},
		{"null", `null`, 32, 0, false},
		{"object", `{"a":1}`, 32, 0, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			v, err := coerceNumber(gjson.Parse(tc.raw), tc.width)
			if !tc.ok {
				s.Require().Error(err)
				return
			}
			s.Require().NoError(err)
			s.Require().True(v.Equal(sdkmath.NewUint(tc.expected)), v.String())
		})
	}
}

func (s *ExecutorSuite) TestFetchRawDataHonoursContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fetchRawData(ctx, s.server.URL+"/ok")
	s.Require().Error(err)
}
