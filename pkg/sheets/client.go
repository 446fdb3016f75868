// Package sheets publishes tabular exports as new Google spreadsheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/distributeaid/shipment-tracker/pkg/config"
)

const firstSheetRange = "A1"

var errCredentialsRequired = errors.New("google credentials json is required for sheets export")

// Writer creates a spreadsheet holding rows and returns its URL.
type Writer interface {
	CreateSheet(ctx context.Context, title string, rows [][]string) (string, error)
}

type spreadsheetAPI interface {
	create(ctx context.Context, title string) (id string, url string, err error)
	update(ctx context.Context, id string, values [][]interface{}) error
}

// Client writes spreadsheets through the Sheets v4 API.
type Client struct {
	api spreadsheetAPI
}

// NewClient authenticates with a service account credentials document.
func NewClient(ctx context.Context, gcp config.GCPConfig) (*Client, error) {
	creds := strings.TrimSpace(gcp.CredentialsJSON)
	if creds == "" {
		return nil, errCredentialsRequired
	}
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(creds)),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{api: &serviceAPI{svc: svc}}, nil
}

func (c *Client) CreateSheet(ctx context.Context, title string, rows [][]string) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("sheets client not configured")
	}
	id, url, err := c.api.create(ctx, title)
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}
	if err := c.api.update(ctx, id, toValues(rows)); err != nil {
		return "", fmt.Errorf("write spreadsheet %s: %w", id, err)
	}
	return url, nil
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}
	return values
}

type serviceAPI struct {
	svc *gsheets.Service
}

func (s *serviceAPI) create(ctx context.Context, title string) (string, string, error) {
	created, err := s.svc.Spreadsheets.Create(&gsheets.Spreadsheet{
		Properties: &gsheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return created.SpreadsheetId, created.SpreadsheetUrl, nil
}

func (s *serviceAPI) update(ctx context.Context, id string, values [][]interface{}) error {
	_, err := s.svc.Spreadsheets.Values.Update(id, firstSheetRange, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
