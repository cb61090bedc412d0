package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/wellnesstracker/internal/store"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputOptionRaw = "RAW"

// Store reads and appends rows of a single google spreadsheet.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
}

func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Store, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id not set")
	}
	// https://github.com/googleapis/google-api-go-client/blob/main/sheets/v4/sheets-gen.go
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new sheets service: %w", err)
	}
	return &Store{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// NewWithServiceAccount authenticates with a service account JSON key. The
// token exchange and the API calls both go through a traced transport.
func NewWithServiceAccount(ctx context.Context, spreadsheetID string, credentialsJSON []byte, readOnly bool) (*Store, error) {
	scope := sheets.SpreadsheetsScope
	if readOnly {
		scope = sheets.SpreadsheetsReadonlyScope
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, scope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	authCtx := context.WithValue(ctx, oauth2.HTTPClient, tracedHttpClient)

	return New(ctx, spreadsheetID, option.WithHTTPClient(jwtConfig.Client(authCtx)))
}

func (s *Store) Fetch(ctx context.Context, sheet, rangeSpec string) (store.Table, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, a1(sheet, rangeSpec)).
		Context(ctx).
		Do()
	if err != nil {
		return store.Table{}, translateErr(sheet, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		grid = append(grid, cells)
	}

	log.Tracef("sheets: fetched %d rows from [%s]", len(grid), sheet)
	return store.SplitHeader(grid), nil
}

func (s *Store) Append(ctx context.Context, sheet string, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, sheet, &sheets.ValueRange{
			Values: [][]interface{}{row},
		}).
		ValueInputOption(valueInputOptionRaw).
		Context(ctx).
		Do()
	if err != nil {
		return translateErr(sheet, err)
	}
	return nil
}

// SheetTitles lists the tabs of the spreadsheet.
func (s *Store) SheetTitles(ctx context.Context) ([]string, error) {
	resp, err := s.service.Spreadsheets.
		Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func a1(sheet, rangeSpec string) string {
	if rangeSpec == "" {
		return sheet
	}
	return sheet + "!" + rangeSpec
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

// translateErr maps the API's "Unable to parse range" (what an unknown tab
// produces) onto store.ErrSheetNotFound.
func translateErr(sheet string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) &&
		gerr.Code == http.StatusBadRequest &&
		strings.Contains(gerr.Message, "Unable to parse range") {
		return fmt.Errorf("%s: %w", sheet, store.ErrSheetNotFound)
	}
	return err
}
