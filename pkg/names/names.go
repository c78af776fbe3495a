// Package names interns package names and tracks how often each name was
// registered.
//
// Several packages in one SDK can share the same text name (two "Engine"
// packages living under different paths, for example). The [Table] hands out
// a stable [Handle] for every distinct text and counts its registrations, so
// each registrant can be given a zero-based collision ordinal:
//
//	t := names.New()
//	h, n := t.Register("Engine") // n == 0
//	_, m := t.Register("Game")   // m == 0
//	_, k := t.Register("Engine") // k == 1
//	text, unique := t.Resolve(h) // "Engine", false
//
// The first registrant of a text stays unique until a second registration of
// the same text arrives. There is no removal operation.
//
// A Table is not safe for concurrent use.
package names

import (
	"fmt"
)

// Handle identifies an interned text. Handles are dense and start at zero.
type Handle int32

// Invalid is the zero-information handle returned by failed lookups.
const Invalid Handle = -1

// Entry is the interned text together with its registration count.
type Entry struct {
	Text  string
	Count uint64
}

// IsUnique reports whether exactly one registrant used this text.
func (e Entry) IsUnique() bool { return e.Count <= 1 }

// Table maps texts to handles.
type Table struct {
	entries []Entry
	index   map[string]Handle
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]Handle)}
}

// Register inserts text if absent and records one more registration of it.
// It returns the handle and the collision ordinal of this registration,
// which is the number of earlier registrations of the same text.
func (t *Table) Register(text string) (Handle, uint64) {
	if h, ok := t.index[text]; ok {
		e := &t.entries[h]
		e.Count++
		return h, e.Count - 1
	}
	h := Handle(len(t.entries))
	t.entries = append(t.entries, Entry{Text: text, Count: 1})
	t.index[text] = h
	return h, 0
}

// Lookup returns the handle for text without registering it.
func (t *Table) Lookup(text string) (Handle, bool) {
	h, ok := t.index[text]
	if !ok {
		return Invalid, false
	}
	return h, true
}

// Resolve returns the text behind h and whether it is currently unique.
// It panics if h was not issued by this table.
func (t *Table) Resolve(h Handle) (string, bool) {
	e := t.Entry(h)
	return e.Text, e.IsUnique()
}

// Entry returns a copy of the entry behind h.
// It panics if h was not issued by this table.
func (t *Table) Entry(h Handle) Entry {
	if h < 0 || int(h) >= len(t.entries) {
		panic(fmt.Sprintf("names: handle %d out of range [0,%d)", h, len(t.entries)))
	}
	return t.entries[h]
}

// Len returns the number of distinct texts.
func (t *Table) Len() int { return len(t.entries) }

// Collisions returns the entries registered more than once, in handle order.
func (t *Table) Collisions() []Entry {
	var out []Entry
	for _, e := range t.entries {
		if !e.IsUnique() {
			out = append(out, e)
		}
	}
	return out
}
