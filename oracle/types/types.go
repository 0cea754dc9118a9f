package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/GPTx-global/ttp-oracle/oracle/log"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

type Job struct {
	ID      string
	Slot    uint8
	Request oracletypes.Request
}

type JobResult struct {
	JobID string
	Slot  uint8
	Value sdkmath.Uint
}

// JobID identifies a queued request by slot and content, so a recycled slot yields a new ID.
func JobID(slot uint8, req oracletypes.Request) string {
	encoded := req.Encode()
	return fmt.Sprintf("%d/%X", slot, tmhash.SumTruncated(encoded[:]))
}

func NewJob(slot uint8, req oracletypes.Request) *Job {
	return &Job{
		ID:      JobID(slot, req),
		Slot:    slot,
		Request: req,
	}
}

// MakeJobs turns the occupied slots of a queue into jobs.
func MakeJobs(slots []oracletypes.Slot) []*Job {
	log.Debugf("start making jobs")

	jobs := make([]*Job, 0)
	for _, slot := range slots {
		if slot.Request == nil {
			continue
		}
		jobs = append(jobs, NewJob(slot.Index, *slot.Request))
	}

	log.Debugf("end making jobs, %d", len(jobs))

	if len(jobs) == 0 {
		return nil
	}

	return jobs
}
