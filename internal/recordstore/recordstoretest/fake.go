// Package recordstoretest provides an in-memory stand-in for the hosted-table
// API, for use in tests.
package recordstoretest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
)

type Record struct {
	ID     string                 `json:"id,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}

type envelope struct {
	Records []Record `json:"records"`
}

// Fake serves the records/error envelopes of the hosted-table API from
// memory, keyed by "baseId/tableId".
type Fake struct {
	mu       sync.Mutex
	tables   map[string][]Record
	requests int

	Server *httptest.Server
}

var formulaPattern = regexp.MustCompile(`^\{(\w+)\} = "(.*)"$`)

func New() *Fake {
	f := &Fake{tables: map[string][]Record{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *Fake) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	key := strings.Trim(r.URL.Path, "/")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		records := f.tables[key]
		if formula := r.URL.Query().Get("filterByFormula"); formula != "" {
			match := formulaPattern.FindStringSubmatch(formula)
			if match == nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				fmt.Fprintf(w, `{"error":{"type":"INVALID_FILTER_BY_FORMULA","message":"bad formula"}}`)
				return
			}
			field, value := match[1], match[2]
			filtered := []Record{}
			for _, rec := range records {
				if s, ok := rec.Fields[field].(string); ok && s == value {
					filtered = append(filtered, rec)
				}
			}
			records = filtered
		}
		json.NewEncoder(w).Encode(envelope{Records: records})
	case http.MethodPost:
		payload := envelope{}
		json.NewDecoder(r.Body).Decode(&payload)
		created := []Record{}
		for _, rec := range payload.Records {
			rec.ID = fmt.Sprintf("rec%06d", len(f.tables[key])+1)
			f.tables[key] = append(f.tables[key], rec)
			created = append(created, rec)
		}
		json.NewEncoder(w).Encode(envelope{Records: created})
	case http.MethodPatch:
		payload := envelope{}
		json.NewDecoder(r.Body).Decode(&payload)
		updated := []Record{}
		for _, rec := range payload.Records {
			for i, existing := range f.tables[key] {
				if existing.ID != rec.ID {
					continue
				}
				for k, v := range rec.Fields {
					f.tables[key][i].Fields[k] = v
				}
				updated = append(updated, f.tables[key][i])
			}
		}
		if len(updated) == 0 {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"error":{"type":"NOT_FOUND","message":"record not found"}}`)
			return
		}
		json.NewEncoder(w).Encode(envelope{Records: updated})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Seed inserts a record directly, bypassing the HTTP surface.
func (f *Fake) Seed(baseID, tableID, recordID string, fields map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := baseID + "/" + tableID
	f.tables[key] = append(f.tables[key], Record{ID: recordID, Fields: fields})
}

// Records returns a copy of the table's records.
func (f *Fake) Records(baseID, tableID string) []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Record{}, f.tables[baseID+"/"+tableID]...)
}

// Requests reports how many HTTP requests the fake has served.
func (f *Fake) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *Fake) Close() {
	f.Server.Close()
}
