package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/ttp-oracle/oracle/config"
	"github.com/GPTx-global/ttp-oracle/oracle/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

const (
	maxBodySize = 1 << 20

	// sdk.Dec keeps 18 fractional digits
	maxDecimals = 18
)

var (
	once       sync.Once
	httpClient *http.Client
)

func executorClient() *http.Client {
	once.Do(func() {
		transport := new(http.Transport)
		transport.MaxIdleConns = 1000
		transport.MaxIdleConnsPerHost = 100
		transport.IdleConnTimeout = 90 * time.Second
		transport.MaxConnsPerHost = 200
		transport.WriteBufferSize = 32 * 1024
		transport.ReadBufferSize = 32 * 1024

		timeout := config.HTTPTimeout()
		if timeout <= 0 {
			timeout = 30 * time.Second
		}

		httpClient = new(http.Client)
		httpClient.Timeout = timeout
		httpClient.Transport = transport
	})

	return httpClient
}

// pipeline carries the value produced by each step into the next one.
type pipeline struct {
	body   []byte
	parsed *gjson.Result
	value  *sdkmath.Uint
}

// executeJob runs the request's steps in order and returns the coerced result.
var executeJob = func(ctx context.Context, job *types.Job) (*types.JobResult, error) {
	if err := job.Request.ValidateBasic(); err != nil {
		return nil, err
	}

	p := new(pipeline)
	for i, task := range job.Request.Tasks {
		if err := p.apply(ctx, task); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, task.Kind, err)
		}
	}
	if p.value == nil {
		return nil, fmt.Errorf("pipeline produced no value")
	}

	return &types.JobResult{
		JobID: job.ID,
		Slot:  job.Slot,
		Value: *p.value,
	}, nil
}

func (p *pipeline) apply(ctx context.Context, task oracletypes.Task) error {
	switch {
	case task.Kind == oracletypes.TaskHttpGet:
		body, err := fetchRawData(ctx, task.URL())
		if err != nil {
			return err
		}
		p.body = body
		return nil

	case task.Kind == oracletypes.TaskJsonParse:
		if p.body == nil {
			return fmt.Errorf("nothing fetched")
		}
		res, err := extractDataByPath(p.body, task.Path())
		if err != nil {
			return err
		}
		p.parsed = &res
		return nil

	case task.Kind.IsCoerce():
		if p.parsed == nil {
			return fmt.Errorf("nothing parsed")
		}
		v, err := coerceNumber(*p.parsed, task.Kind.Width())
		if err != nil {
			return err
		}
		p.value = &v
		return nil

	default:
		return errorsmod.Wrapf(oracletypes.ErrUnknownVariant, "task %s", task.Kind)
	}
}

func fetchRawData(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Oracle-Daemon/1.0")
	req.Header.Set("Accept", "application/json")

	res, err := executorClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw data: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", res.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// extractDataByPath looks path up in a JSON document. A top-level array is searched through its
// first element when the path does not address it directly.
func extractDataByPath(raw []byte, path string) (gjson.Result, error) {
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty path")
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("response is not valid JSON")
	}

	res := gjson.GetBytes(raw, path)
	if !res.Exists() && gjson.ParseBytes(raw).IsArray() {
		res = gjson.GetBytes(raw, "0."+path)
	}
	if !res.Exists() {
		return gjson.Result{}, fmt.Errorf("path %s not found", path)
	}

	return res, nil
}

// coerceNumber truncates a JSON number or numeric string toward zero and checks that it fits
// both width bits and the response window.
func coerceNumber(v gjson.Result, width int) (sdkmath.Uint, error) {
	var s string
	switch v.Type {
	case gjson.Number:
		s = v.Raw
	case gjson.String:
		s = strings.TrimSpace(v.Str)
	default:
		str, err := cast.ToStringE(v.Value())
		if err != nil {
			return sdkmath.Uint{}, fmt.Errorf("cannot coerce %s to a number", v.Type)
		}
		s = str
	}

	s, err := normalizeDecimal(s)
	if err != nil {
		return sdkmath.Uint{}, err
	}

	dec, err := sdk.NewDecFromStr(s)
	if err != nil {
		return sdkmath.Uint{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if dec.IsNegative() {
		return sdkmath.Uint{}, fmt.Errorf("negative value %s", dec)
	}

	bi := dec.TruncateInt().BigInt()
	if bi.BitLen() > width {
		return sdkmath.Uint{}, errorsmod.Wrapf(oracletypes.ErrValueOverflow, "%s does not fit %d bits", bi, width)
	}
	if bi.BitLen() > oracletypes.ResponseDataLen*8 {
		return sdkmath.Uint{}, errorsmod.Wrapf(oracletypes.ErrValueOverflow, "%s does not fit the response", bi)
	}

	return sdkmath.NewUintFromBigInt(bi), nil
}

// normalizeDecimal rewrites exponent notation and drops fractional digits sdk.Dec cannot hold.
func normalizeDecimal(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty value")
	}
	if strings.ContainsAny(s, "eE") {
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return "", fmt.Errorf("invalid number %q: %w", s, err)
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > maxDecimals {
		s = s[:i+1+maxDecimals]
	}
	return s, nil
}
