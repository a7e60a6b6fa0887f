package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/transferopt/snapshot"
	"github.com/katalvlaran/transferopt/store"
)

var errNoInput = errors.New("no input: pass --in <snapshot.json> or --db <sqlite file> (or set TRANSFEROPT_DB)")

// snapshotFile is the JSON layout of --in and generate --out.
type snapshotFile struct {
	Groups   []snapshot.Group   `json:"groups"`
	Requests []snapshot.Request `json:"requests"`
}

func readSnapshot(path string) ([]snapshot.Group, []snapshot.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var sf snapshotFile
	if err = json.NewDecoder(f).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	for i := range sf.Requests {
		if sf.Requests[i].FromGroups == nil {
			sf.Requests[i].FromGroups = []int64{}
		}
		if sf.Requests[i].ToGroups == nil {
			sf.Requests[i].ToGroups = []int64{}
		}
	}

	return sf.Groups, sf.Requests, nil
}

// loadInput prefers a snapshot file over the database.
func loadInput(ctx context.Context, in, db string) ([]snapshot.Group, []snapshot.Request, error) {
	switch {
	case in != "":
		return readSnapshot(in)
	case db != "":
		st, err := store.Open(db)
		if err != nil {
			return nil, nil, err
		}
		defer st.Close()

		return st.LoadSnapshot(ctx)
	default:
		return nil, nil, errNoInput
	}
}

// writeJSON writes v indented to path, or to w when path is "" or "-".
func writeJSON(w io.Writer, path string, v any) error {
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
