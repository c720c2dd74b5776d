package models

import "strings"

// ConversationState is the observable state of one chat widget.
type ConversationState struct {
	IsOpen          bool      `json:"is_open"`
	IsMinimized     bool      `json:"is_minimized"`
	IsLoading       bool      `json:"is_loading"`
	ShowSuggestions bool      `json:"show_suggestions"`
	Messages        []Message `json:"messages"`
}

// Clone returns a copy that shares nothing mutable with s.
func (s ConversationState) Clone() ConversationState {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	for i, msg := range s.Messages {
		if msg.Attachment != nil {
			ref := *msg.Attachment
			msg.Attachment = &ref
		}
		out.Messages[i] = msg
	}
	return out
}

// LastMessage returns the most recent message, if any.
func (s ConversationState) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// PageContext is the host page the widget is embedded in.
type PageContext struct {
	Route    string `json:"route"`
	PageName string `json:"page_name"`
}

// NewPageContext derives the page name from the last path segment of route.
func NewPageContext(route string) PageContext {
	if route == "" {
		route = "/"
	}
	name := "home"
	segments := strings.Split(strings.Trim(route, "/"), "/")
	if last := segments[len(segments)-1]; last != "" {
		name = last
	}
	return PageContext{Route: route, PageName: name}
}
