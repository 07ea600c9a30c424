package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrMalformedExport is returned when an export does not have the expected shape.
var ErrMalformedExport = errors.New("malformed dashboard export")

// LoadExport reads a document export of the form
//
//	{"stats": {...} | null, "history": {"<id>": {...}, ...}}
//
// and returns normalized data with history sorted most recent first.
func LoadExport(r io.Reader) (*Data, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedExport)
	}

	data := &Data{Stats: DefaultStats()}
	switch s := doc["stats"].(type) {
	case nil:
	case map[string]any:
		data.Stats = NormalizeStats(s)
	default:
		return nil, fmt.Errorf("%w: stats is not an object", ErrMalformedExport)
	}

	var history map[string]any
	switch h := doc["history"].(type) {
	case nil:
	case map[string]any:
		history = h
	default:
		return nil, fmt.Errorf("%w: history is not an object", ErrMalformedExport)
	}

	// Map order is random; fix it before the stable sort
	ids := make([]string, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data.History = make([]HistoryEntry, 0, len(ids))
	for _, id := range ids {
		raw, ok := history[id].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: history entry %q is not an object", ErrMalformedExport, id)
		}
		data.History = append(data.History, NormalizeHistory(id, raw))
	}
	SortHistory(data.History)
	return data, nil
}
