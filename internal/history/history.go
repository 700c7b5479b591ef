// Package history persists prompt input across sessions so Alt+P/Alt+N
// can recall earlier requests in the TUI.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	historyFileName = "docgen_input_history"
	maxEntries      = 500
)

// History is a navigable, persisted list of past inputs. Entries are
// stored one per line with newlines escaped, newest last.
type History struct {
	mu      sync.Mutex
	entries []string
	// index is the navigation cursor; -1 means not navigating.
	index int
	// draft holds the in-progress input while navigating, so Next past
	// the newest entry restores it.
	draft string
	path  string
}

// NewHistory loads the persisted history, if any.
func NewHistory() *History {
	return newHistoryAt(filepath.Join(os.TempDir(), historyFileName))
}

func newHistoryAt(path string) *History {
	h := &History{index: -1, path: path}
	h.load()
	return h
}

// escape flattens an entry to a single storage line.
func escape(entry string) string {
	entry = strings.ReplaceAll(entry, "\\", "\\\\")
	return strings.ReplaceAll(entry, "\n", "\\n")
}

// unescape restores a storage line to its original entry.
func unescape(line string) string {
	line = strings.ReplaceAll(line, "\\n", "\n")
	return strings.ReplaceAll(line, "\\\\", "\\")
}

// capped drops the oldest entries beyond the size limit.
func capped(entries []string) []string {
	if len(entries) > maxEntries {
		return entries[len(entries)-maxEntries:]
	}
	return entries
}

func (h *History) load() {
	file, err := os.Open(h.path)
	if err != nil {
		return
	}
	defer file.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if entry := unescape(scanner.Text()); entry != "" {
			h.entries = append(h.entries, entry)
		}
	}
	h.entries = capped(h.entries)
}

// save persists the history. Failures are swallowed: losing input
// history is not worth interrupting a session for.
func (h *History) save() {
	file, err := os.Create(h.path)
	if err != nil {
		return
	}
	defer file.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	writer := bufio.NewWriter(file)
	for _, entry := range h.entries {
		writer.WriteString(escape(entry) + "\n")
	}
	writer.Flush()
}

// Add records a submitted input and resets navigation. Consecutive
// duplicates are collapsed.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	h.mu.Lock()
	h.index = -1
	h.draft = ""
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		h.mu.Unlock()
		return
	}
	h.entries = capped(append(h.entries, entry))
	h.mu.Unlock()

	h.save()
}

// Previous steps toward older entries. On the first step the current
// input is stashed as the draft. Returns false when already at the
// oldest entry.
func (h *History) Previous(currentInput string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}

	switch {
	case h.index == -1:
		h.draft = currentInput
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	default:
		return h.entries[0], false
	}
	return h.entries[h.index], true
}

// Next steps toward newer entries, restoring the stashed draft once the
// newest entry is passed. Returns false when not navigating.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == -1 {
		return "", false
	}

	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return h.draft, true
	}
	return h.entries[h.index], true
}

// Reset leaves navigation mode; called when the input is edited.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = -1
	h.draft = ""
}
