// Package catalog loads the bulk hotel catalog (all_hotels.csv) into memory.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"tripbook/internal/adapters/observability"
	"tripbook/internal/domain"
)

// Columns holding serialized nested structures.
const (
	colLocation    = "location"
	colRoomDetails = "hotelRoomDetails"
)

var requiredColumns = []string{"hotelName", "hotelId", colLocation, colRoomDetails}

// Loader reads the catalog file once, on first use, and keeps it for the
// lifetime of the process. A failed load is cached as an empty catalog.
type Loader struct {
	path string

	mu     sync.RWMutex
	rows   []domain.CatalogRow
	loaded bool
	sf     singleflight.Group
}

func NewLoader(path string) *Loader { return &Loader{path: path} }

// Rows never returns an error for an unreadable catalog; it logs and
// returns an empty slice so callers degrade to "no hotels found".
func (l *Loader) Rows(ctx context.Context) ([]domain.CatalogRow, error) {
	l.mu.RLock()
	if l.loaded {
		rows := l.rows
		l.mu.RUnlock()
		return rows, nil
	}
	l.mu.RUnlock()

	v, err, _ := l.sf.Do("catalog", func() (any, error) {
		rows, err := l.load()
		if err != nil {
			log.Error().Err(err).Str("path", l.path).Msg("catalog load failed; continuing with empty catalog")
			rows = nil
		}
		l.mu.Lock()
		l.rows, l.loaded = rows, true
		l.mu.Unlock()
		observability.SetCatalogRows(len(rows))
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CatalogRow), nil
}

func (l *Loader) load() ([]domain.CatalogRow, error) {
	log.Info().Str("path", l.path).Msg("loading hotel catalog")
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rows", len(rows)).Msg("hotel catalog loaded")
	return rows, nil
}

// Parse reads catalog CSV from r. Rows whose nested columns fail to parse are
// kept with ParseErr set so the matcher can skip and report them.
func Parse(r io.Reader) ([]domain.CatalogRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("catalog is missing column %q", c)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return cleanCell(rec[i])
	}

	var out []domain.CatalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Debug().Err(err).Int("line", line).Msg("skipping unreadable catalog line")
			continue
		}
		row := domain.CatalogRow{
			HotelID:   field(rec, "hotelId"),
			HotelName: field(rec, "hotelName"),
			Review:    field(rec, "review"),
			ViewPoint: field(rec, "viewPoint"),
		}
		row.Location, row.RoomDetails, row.ParseErr = parseNested(field(rec, colLocation), field(rec, colRoomDetails))
		if row.ParseErr != nil {
			row.ParseErr = fmt.Errorf("line %d: %w", line, row.ParseErr)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseNested(locRaw, roomsRaw string) (map[string]any, []any, error) {
	lv, err := ParseLiteral(locRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", colLocation, err)
	}
	loc, ok := lv.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%s: expected mapping, got %T", colLocation, lv)
	}
	rv, err := ParseLiteral(roomsRaw)
	if err != nil {
		return loc, nil, fmt.Errorf("%s: %w", colRoomDetails, err)
	}
	rooms, ok := rv.([]any)
	if !ok {
		return loc, nil, fmt.Errorf("%s: expected sequence, got %T", colRoomDetails, rv)
	}
	return loc, rooms, nil
}

// cleanCell maps pandas-style missing markers to "".
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}
