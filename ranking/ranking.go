package ranking

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Ranking keeps cumulative scores per display name, ordered descending by
// score at all times. Among equal scores the earlier-inserted entry stays
// first. Entries live for the whole process; nothing is ever deleted.
//
// One instance is built at startup and injected wherever it is needed.
type Ranking struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Ranking {
	return &Ranking{}
}

// Add credits delta points to name, inserting the entry on first sight.
// The entry is then repositioned (remove + reinsert) so the slice stays
// sorted descending; it lands after every entry whose score is greater
// than or equal to its new score, which keeps ties in insertion order.
func (r *Ranking) Add(name string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	score := delta
	for i, e := range r.entries {
		if e.Name == name {
			score += e.Score
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}

	pos := 0
	for pos < len(r.entries) && r.entries[pos].Score >= score {
		pos++
	}

	r.entries = append(r.entries, Entry{})
	copy(r.entries[pos+1:], r.entries[pos:])
	r.entries[pos] = Entry{Name: name, Score: score}
}

// Score returns the cumulative score for name, zero when unknown.
func (r *Ranking) Score(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Name == name {
			return e.Score
		}
	}
	return 0
}

// TopN returns a copy of the first n entries of the maintained order, or
// fewer when the table is smaller.
func (r *Ranking) TopN(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > len(r.entries) {
		n = len(r.entries)
	}
	top := make([]Entry, n)
	copy(top, r.entries[:n])
	return top
}

// EncodeTop renders the first n entries for the wire: percent-encoded
// name=score pairs joined by "/". PathEscape keeps spaces as %20 so a
// standard percent-decoder recovers the exact name.
func (r *Ranking) EncodeTop(n int) string {
	top := r.TopN(n)
	pairs := make([]string, 0, len(top))
	for _, e := range top {
		pairs = append(pairs, url.PathEscape(e.Name)+"="+strconv.Itoa(e.Score))
	}
	return strings.Join(pairs, "/")
}
