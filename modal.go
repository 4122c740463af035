package main

import (
	"dirview/internal/history"
)

// HistoryMenu is the list of recent directories, most recent first.
type HistoryMenu struct {
	Entries  []history.Entry
	Selected int
}

// NewHistoryMenu returns nil when there is nothing to show.
func NewHistoryMenu(entries []history.Entry) *HistoryMenu {
	if len(entries) == 0 {
		return nil
	}
	return &HistoryMenu{Entries: entries}
}

// Move changes the selection by delta, wrapping at both ends.
func (m *HistoryMenu) Move(delta int) {
	n := len(m.Entries)
	if n == 0 {
		return
	}
	m.Selected = ((m.Selected+delta)%n + n) % n
}

// Current returns the selected entry.
func (m *HistoryMenu) Current() (history.Entry, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Entries) {
		return history.Entry{}, false
	}
	return m.Entries[m.Selected], true
}

// Prompt is a yes/no question. The answer callback runs once.
type Prompt struct {
	Message  string
	onAnswer func(yes bool)
	onCancel func()
}

// NewPrompt creates a prompt calling onAnswer with the user's choice.
func NewPrompt(message string, onAnswer func(yes bool)) *Prompt {
	return &Prompt{Message: message, onAnswer: onAnswer}
}

// Answer delivers yes to the callback.
func (p *Prompt) Answer(yes bool) {
	if p.onAnswer != nil {
		f := p.onAnswer
		p.onAnswer = nil
		f(yes)
	}
}

// WithCancel sets what Cancel runs. Without it Cancel answers no.
func (p *Prompt) WithCancel(onCancel func()) *Prompt {
	p.onCancel = onCancel
	return p
}

// Cancel dismisses the prompt without an answer.
func (p *Prompt) Cancel() {
	if p.onCancel == nil {
		p.Answer(false)
		return
	}
	f := p.onCancel
	p.onCancel = nil
	p.onAnswer = nil
	f()
}

// Notice is a dismissible message box.
type Notice struct {
	Title string
	Lines []string

	// Suppressible notices show a "don't show again" toggle.
	Suppressible bool
	Suppressed   bool
}

// NoticeQueue shows notices one at a time in arrival order.
type NoticeQueue struct {
	items []*Notice
}

// Push appends n.
func (q *NoticeQueue) Push(n *Notice) {
	q.items = append(q.items, n)
}

// Current returns the notice on screen, or nil.
func (q *NoticeQueue) Current() *Notice {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop removes the notice on screen.
func (q *NoticeQueue) Pop() *Notice {
	if len(q.items) == 0 {
		return nil
	}
	n := q.items[0]
	q.items = q.items[1:]
	return n
}

// DropSuppressible removes every queued suppressible notice.
func (q *NoticeQueue) DropSuppressible() {
	kept := q.items[:0]
	for _, n := range q.items {
		if !n.Suppressible {
			kept = append(kept, n)
		}
	}
	q.items = kept
}

// Len returns the number of queued notices.
func (q *NoticeQueue) Len() int {
	return len(q.items)
}
