package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/2beens/wellnesstracker/internal/store"
	"github.com/2beens/wellnesstracker/internal/telemetry/tracing"
	"github.com/2beens/wellnesstracker/internal/wellness/activity"
	"github.com/2beens/wellnesstracker/internal/wellness/entry"
	"github.com/2beens/wellnesstracker/internal/wellness/stats"
	"github.com/2beens/wellnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// maxEntryBodyBytes bounds the JSON body of the entry endpoints.
const maxEntryBodyBytes = 64 << 10

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

type RecordsResponse struct {
	View    string            `json:"view"`
	Total   int               `json:"total"`
	Records []activity.Record `json:"records"`
}

type UsersResponse struct {
	Users []string `json:"users"`
}

type EntryResponse struct {
	Sheet  string   `json:"sheet"`
	Values []string `json:"values"`
}

func (handler *Handler) parseFilter(w http.ResponseWriter, r *http.Request) (activity.Filter, bool) {
	f, err := FilterParamsFromQuery(r.URL.Query()).Filter()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return activity.Filter{}, false
	}
	return f, true
}

// readFailed answers a failed read. Bad selections are the caller's fault,
// anything else comes from the store.
func readFailed(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, activity.ErrInvalidFilter), errors.Is(err, ErrInvalidView):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, stats.ErrWeekUnavailable), errors.Is(err, ErrNoQuotes):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", what, err)
		http.Error(w, fmt.Sprintf("failed to get %s", what), http.StatusBadGateway)
	}
}

func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.overview")
	defer span.End()

	f, ok := handler.parseFilter(w, r)
	if !ok {
		return
	}
	overview, err := handler.service.Overview(ctx, f)
	if err != nil {
		readFailed(w, "overview", err)
		return
	}
	pkg.WriteJSON(w, overview, http.StatusOK)
}

func (handler *Handler) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.frequency")
	defer span.End()

	f, ok := handler.parseFilter(w, r)
	if !ok {
		return
	}
	frequency, err := handler.service.Frequency(ctx, f)
	if err != nil {
		readFailed(w, "frequency", err)
		return
	}
	pkg.WriteJSON(w, frequency, http.StatusOK)
}

func (handler *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.week")
	defer span.End()

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	week, err := strconv.Atoi(vars["week"])
	if err != nil {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}

	f, ok := handler.parseFilter(w, r)
	if !ok {
		return
	}
	row, err := handler.service.Week(ctx, f, year, week)
	if err != nil {
		readFailed(w, "week", err)
		return
	}
	pkg.WriteJSON(w, row, http.StatusOK)
}

func (handler *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.calendar")
	defer span.End()

	f, ok := handler.parseFilter(w, r)
	if !ok {
		return
	}
	calendar, err := handler.service.Calendar(ctx, f)
	if err != nil {
		readFailed(w, "calendar", err)
		return
	}
	pkg.WriteJSON(w, calendar, http.StatusOK)
}

func (handler *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.records")
	defer span.End()

	f, ok := handler.parseFilter(w, r)
	if !ok {
		return
	}
	view := r.URL.Query().Get("view")
	records, err := handler.service.Records(ctx, f, view)
	if err != nil {
		readFailed(w, "records", err)
		return
	}
	if view == "" {
		view = ViewFiltered
	}
	pkg.WriteJSON(w, RecordsResponse{
		View:    view,
		Total:   len(records),
		Records: records,
	}, http.StatusOK)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.export")
	defer span.End()

	f, ok := handler.parseFilter(w, r)
	if !ok {
		return
	}
	data, err := handler.service.ExportParquet(ctx, f)
	if err != nil {
		readFailed(w, "export", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="activities.parquet"`)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.Parquet, data)
}

func (handler *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.users")
	defer span.End()

	users, err := handler.service.Users(ctx)
	if err != nil {
		readFailed(w, "users", err)
		return
	}
	pkg.WriteJSON(w, UsersResponse{Users: users}, http.StatusOK)
}

func (handler *Handler) HandleRandomQuote(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.quote")
	defer span.End()

	quote, err := handler.service.RandomQuote(ctx)
	if err != nil {
		readFailed(w, "quote", err)
		return
	}
	pkg.WriteJSON(w, quote, http.StatusOK)
}

func (handler *Handler) HandleWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.weight")
	defer span.End()

	view, err := handler.service.Weights(ctx, FilterParamsFromQuery(r.URL.Query()).Users)
	if err != nil {
		readFailed(w, "weight", err)
		return
	}
	pkg.WriteJSON(w, view, http.StatusOK)
}

func decodeEntry(w http.ResponseWriter, r *http.Request, v any) bool {
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntryBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		log.Debugf("entry, unmarshal json: %s", err)
		http.Error(w, "invalid entry json", http.StatusBadRequest)
		return false
	}
	return true
}

// entryFailed maps a failed entry: validation problems are 400, a store
// failure is surfaced as 502 with its reason.
func entryFailed(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, entry.ErrInvalidSubmission) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reason := err.Error()
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		reason = storeErr.Err.Error()
	}
	log.Errorf("failed to append %s entry: %s", kind, err)
	http.Error(w, fmt.Sprintf("failed to save %s: %s", kind, reason), http.StatusBadGateway)
}

func (handler *Handler) HandleLogActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.logActivity")
	defer span.End()

	var sub entry.ActivitySubmission
	if !decodeEntry(w, r, &sub) {
		return
	}
	a, err := handler.service.LogActivity(ctx, sub)
	if err != nil {
		entryFailed(w, entryKindActivity, err)
		return
	}
	pkg.WriteJSON(w, EntryResponse{
		Sheet:  handler.service.sheets.Activities.Name,
		Values: a.Values(),
	}, http.StatusCreated)
}

func (handler *Handler) HandleLogWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.logWeight")
	defer span.End()

	var sub entry.WeightSubmission
	if !decodeEntry(w, r, &sub) {
		return
	}
	values, err := handler.service.LogWeight(ctx, sub)
	if err != nil {
		entryFailed(w, entryKindWeight, err)
		return
	}
	pkg.WriteJSON(w, EntryResponse{
		Sheet:  handler.service.sheets.Weights.Name,
		Values: values,
	}, http.StatusCreated)
}

func (handler *Handler) HandleSetTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.setTarget")
	defer span.End()

	var sub entry.TargetSubmission
	if !decodeEntry(w, r, &sub) {
		return
	}
	values, err := handler.service.SetTarget(ctx, sub)
	if err != nil {
		entryFailed(w, entryKindTarget, err)
		return
	}
	pkg.WriteJSON(w, EntryResponse{
		Sheet:  handler.service.sheets.Targets.Name,
		Values: values,
	}, http.StatusCreated)
}
