package source

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/view"
)

// NewFileFetcher returns a fetcher that reads a JSON array of records from
// path on every call, so edits to the file show up on the next refresh.
func NewFileFetcher(path string) view.Fetcher {
	return func(ctx context.Context) ([]record.Record, error) {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Op: "read", URL: path, Err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &FetchError{Op: "read", URL: path, Err: err}
		}
		records, err := record.DecodeList(data)
		if err != nil {
			return nil, &FetchError{Op: "decode", URL: path, Err: err}
		}
		return records, nil
	}
}

// Static returns a fetcher that always yields a copy of records.
func Static(records ...record.Record) view.Fetcher {
	fixed := slices.Clone(records)
	return func(context.Context) ([]record.Record, error) {
		out := slices.Clone(fixed)
		if out == nil {
			out = []record.Record{}
		}
		return out, nil
	}
}

// DetailsFromList returns a detail fetcher for sources that only serve the
// list, such as a file. It fetches the list and picks the row with id.
func DetailsFromList(fetch view.Fetcher) view.DetailFetcher {
	return func(ctx context.Context, id string) (record.Details, error) {
		records, err := fetch(ctx)
		if err != nil {
			return record.Details{}, err
		}
		for _, r := range records {
			if r.ID == id {
				return record.DetailsFromRecord(r), nil
			}
		}
		return record.Details{}, &FetchError{Op: "lookup", Err: fmt.Errorf("%w: %s", ErrNotFound, id)}
	}
}
