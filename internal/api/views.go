package api

import (
	"learnleap/internal/conversation"
	"learnleap/internal/models"
	"learnleap/internal/richcontent"
)

// messageView is a message plus its parsed rich blocks, so the widget never
// has to parse card markers itself.
type messageView struct {
	models.Message
	Blocks []richcontent.Block `json:"blocks"`
}

type sessionView struct {
	ID              string                       `json:"id"`
	IsOpen          bool                         `json:"is_open"`
	IsMinimized     bool                         `json:"is_minimized"`
	IsLoading       bool                         `json:"is_loading"`
	ShowSuggestions bool                         `json:"show_suggestions"`
	Messages        []messageView                `json:"messages"`
	Assessment      *conversation.AssessmentView `json:"assessment,omitempty"`
	Suggestions     []string                     `json:"suggestions"`
}

func newMessageView(msg models.Message) messageView {
	return messageView{Message: msg, Blocks: richcontent.Parse(msg.Content)}
}

func newMessageViews(msgs []models.Message) []messageView {
	out := make([]messageView, len(msgs))
	for i, msg := range msgs {
		out[i] = newMessageView(msg)
	}
	return out
}

func newSessionView(id string, snap conversation.Snapshot) sessionView {
	suggestions := snap.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return sessionView{
		ID:              id,
		IsOpen:          snap.State.IsOpen,
		IsMinimized:     snap.State.IsMinimized,
		IsLoading:       snap.State.IsLoading,
		ShowSuggestions: snap.State.ShowSuggestions,
		Messages:        newMessageViews(snap.State.Messages),
		Assessment:      snap.Assessment,
		Suggestions:     suggestions,
	}
}

// tail returns the messages appended after the first n.
func tail(msgs []models.Message, n int) []models.Message {
	if n < 0 || n > len(msgs) {
		return nil
	}
	return msgs[n:]
}
