// Package files reads review exports from a directory of JSON files.
package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"review_dashboard/internal/adapters/observability"
	"review_dashboard/internal/domain"
)

// wrapperKeys are checked in order when a file holds an object instead of an array.
var wrapperKeys = []string{"reviews", "data", "items"}

var errNoRecords = errors.New("no review array found")

type Loader struct {
	dir string
}

func New(dir string) *Loader { return &Loader{dir: dir} }

func (l *Loader) Dir() string { return l.dir }

// Load never fails: a missing directory gives an empty batch and a bad file
// is reported and skipped.
func (l *Loader) Load(ctx context.Context) ([]domain.RawFile, domain.LoadReport) {
	rep := domain.LoadReport{DataDir: l.dir}

	names, err := listJSON(l.dir)
	if err != nil {
		rep.DirError = err.Error()
		log.Warn().Err(err).Str("dir", l.dir).Msg("data directory unavailable")
		return nil, rep
	}

	out := make([]domain.RawFile, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			rep.FileErrors = append(rep.FileErrors, domain.FileError{File: name, Err: ctx.Err().Error()})
			continue
		}
		rep.FilesSeen++
		recs, err := readFile(filepath.Join(l.dir, name))
		if err != nil {
			rep.FileErrors = append(rep.FileErrors, domain.FileError{File: name, Err: err.Error()})
			observability.ObserveFile("error")
			log.Warn().Err(err).Str("file", name).Msg("skipping unreadable file")
			continue
		}
		rep.FilesLoaded++
		observability.ObserveFile("loaded")
		out = append(out, domain.RawFile{Name: name, Records: recs})
	}
	return out, rep
}

func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func readFile(path string) ([]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeRecords(b)
}

// decodeRecords accepts a top-level array or an object wrapping one.
func decodeRecords(b []byte) ([]any, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		for _, k := range wrapperKeys {
			if arr, ok := t[k].([]any); ok {
				return arr, nil
			}
		}
	}
	return nil, errNoRecords
}
