package daemon

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/GPTx-global/ttp-oracle/oracle/config"
	"github.com/GPTx-global/ttp-oracle/oracle/log"
	consumertypes "github.com/GPTx-global/ttp-oracle/x/consumer/types"
	oracletypes "github.com/GPTx-global/ttp-oracle/x/oracle/types"
)

// SlotResponse is the JSON form of an occupied queue slot.
type SlotResponse struct {
	Slot     uint8  `json:"slot"`
	URL      string `json:"url"`
	Path     string `json:"path"`
	Coerce   string `json:"coerce"`
	Callback string `json:"callback"`
}

// CreateRequestBody asks the consumer program to queue a request.
type CreateRequestBody struct {
	URL   string `json:"url"`
	Path  string `json:"path"`
	Width int    `json:"width"`
}

type ResultResponse struct {
	Slot  uint8  `json:"slot"`
	Value string `json:"value"`
}

type CheckResponse struct {
	Healthy   bool      `json:"healthy"`
	LastCheck time.Time `json:"last_check"`
	Error     string    `json:"error,omitempty"`
}

type HealthResponse struct {
	Status     string                   `json:"status"`
	ActiveJobs int                      `json:"active_jobs"`
	Occupied   int                      `json:"occupied"`
	Checks     map[string]CheckResponse `json:"checks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP API wrapped in the configured CORS policy.
func (d *Daemon) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", d.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/queue", d.handleQueue).Methods(http.MethodGet)
	v1.HandleFunc("/queue/{slot}", d.handleSlot).Methods(http.MethodGet)
	v1.HandleFunc("/requests", d.handleCreateRequest).Methods(http.MethodPost)
	v1.HandleFunc("/results", d.handleResults).Methods(http.MethodGet)
	v1.HandleFunc("/metrics", d.handleMetrics).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: config.CORSOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(r)
}

func newSlotResponse(slot oracletypes.Slot) SlotResponse {
	req := slot.Request
	return SlotResponse{
		Slot:     slot.Index,
		URL:      req.Tasks[0].URL(),
		Path:     req.Tasks[1].Path(),
		Coerce:   req.Tasks[2].Kind.String(),
		Callback: req.Callback.String(),
	}
}

func (d *Daemon) handleQueue(w http.ResponseWriter, _ *http.Request) {
	slots, err := d.app.Queue()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, newSlotResponse(slot))
	}
	writeJSON(w, http.StatusOK, out)
}

func (d *Daemon) handleSlot(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseUint(mux.Vars(r)["slot"], 10, 8)
	if err != nil || n >= oracletypes.MaxRequests {
		writeError(w, http.StatusBadRequest, errorsmod.Wrapf(oracletypes.ErrSlotOutOfRange, "slot %q", mux.Vars(r)["slot"]))
		return
	}

	req, err := d.app.Request(uint8(n))
	switch {
	case errorsmod.IsOf(err, oracletypes.ErrSlotEmpty):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, newSlotResponse(oracletypes.Slot{Index: uint8(n), Request: &req}))
	}
}

func (d *Daemon) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body CreateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tmpl := consumertypes.DefaultRequestTemplate()
	if body.URL != "" {
		tmpl.URL = body.URL
	}
	if body.Path != "" {
		tmpl.Path = body.Path
	}
	if body.Width != 0 {
		kind, err := oracletypes.CoerceKindForWidth(body.Width)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		tmpl.Coerce = kind
	}

	err := d.app.RequestPrice(r.Context(), tmpl)
	switch {
	case errorsmod.IsOf(err, oracletypes.ErrQueueFull):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case errorsmod.IsOf(err, oracletypes.ErrFieldTooLong, oracletypes.ErrInvalidRequest, oracletypes.ErrUnknownVariant, oracletypes.ErrAmbiguousRequest):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	log.Infof("request queued, url %s path %s coerce %s", tmpl.URL, tmpl.Path, tmpl.Coerce)
	d.handleQueue(w, r)
}

func (d *Daemon) handleResults(w http.ResponseWriter, _ *http.Request) {
	results := d.app.ConsumerKeeper.Results()
	out := make([]ResultResponse, 0, len(results))
	for _, res := range results {
		out = append(out, ResultResponse{Slot: res.Slot, Value: res.Value.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (d *Daemon) handleMetrics(w http.ResponseWriter, r *http.Request) {
	gr, err := d.metrics.Gather(r.FormValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", gr.ContentType)
	_, _ = w.Write(gr.Metrics)
}

func (d *Daemon) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := d.health.Refresh(r.Context())

	resp := HealthResponse{
		Status:     "ok",
		ActiveJobs: d.jobManager.ActiveJobs(),
		Checks:     make(map[string]CheckResponse, len(report.Checks)),
	}
	for name, res := range report.Checks {
		check := CheckResponse{Healthy: res.Healthy, LastCheck: res.CheckedAt}
		if res.Err != nil {
			check.Error = res.Err.Error()
		}
		resp.Checks[name] = check
	}
	if slots, err := d.app.Queue(); err == nil {
		resp.Occupied = len(slots)
	}

	if !report.Healthy {
		resp.Status = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
