package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/distributeaid/shipment-tracker/pkg/config"
)

type fakeAPI struct {
	title     string
	updatedID string
	values    [][]interface{}
	createErr error
}

func (f *fakeAPI) create(_ context.Context, title string) (string, string, error) {
	f.title = title
	if f.createErr != nil {
		return "", "", f.createErr
	}
	return "sheet-1", "https://docs.google.com/spreadsheets/d/sheet-1", nil
}

func (f *fakeAPI) update(_ context.Context, id string, values [][]interface{}) error {
	f.updatedID = id
	f.values = values
	return nil
}

func TestCreateSheetWritesRows(t *testing.T) {
	api := &fakeAPI{}
	client := &Client{api: api}

	url, err := client.CreateSheet(context.Background(), "UkToFr 2025-03", [][]string{{"a", "b"}, {"1", "2"}})
	if err != nil {
		t.Fatalf("create sheet: %v", err)
	}
	if url != "https://docs.google.com/spreadsheets/d/sheet-1" {
		t.Fatalf("unexpected url %q", url)
	}
	if api.title != "UkToFr 2025-03" || api.updatedID != "sheet-1" {
		t.Fatalf("unexpected calls title=%q id=%q", api.title, api.updatedID)
	}
	if len(api.values) != 2 || api.values[1][1] != "2" {
		t.Fatalf("unexpected values %v", api.values)
	}
}

func TestCreateSheetPropagatesErrors(t *testing.T) {
	client := &Client{api: &fakeAPI{createErr: errors.New("quota")}}
	if _, err := client.CreateSheet(context.Background(), "t", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCPConfig{}); err == nil {
		t.Fatal("expected missing credentials to fail")
	}
}
