package sync

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Ledger is the persisted set of document ids that have already been
// downloaded. It is the sole source of truth for "already downloaded":
// an id is recorded if and only if the document's bytes were written
// to disk without error. The backing file is a flat json array of
// string ids, a missing or unparseable file counts as an empty ledger.
type Ledger struct {
	path  string
	ids   map[string]bool
	order []string
}

func OpenLedger(path string) *Ledger {
	l := &Ledger{
		path: path,
		ids:  map[string]bool{},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read ledger, starting empty", "path", path, "err", err)
		}
		return l
	}

	var ids []string
	err = json.Unmarshal(raw, &ids)
	if err != nil {
		slog.Warn("failed to parse ledger, starting empty", "path", path, "err", err)
		return l
	}

	for _, id := range ids {
		if !l.ids[id] {
			l.ids[id] = true
			l.order = append(l.order, id)
		}
	}
	return l
}

func (l *Ledger) Contains(id string) bool {
	return l.ids[id]
}

func (l *Ledger) Len() int {
	return len(l.order)
}

func (l *Ledger) Ids() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// RecordSuccess adds the id and rewrites the ledger file immediately,
// so a crash mid-run loses at most the in-flight download and never a
// previously confirmed one.
func (l *Ledger) RecordSuccess(id string) error {
	if !l.ids[id] {
		l.ids[id] = true
		l.order = append(l.order, id)
	}

	raw, err := json.Marshal(l.order)
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, raw, 0644)
}
