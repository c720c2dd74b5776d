// Package richcontent extracts structured cards embedded in assistant replies.
//
// A reply may carry one card wrapped in a tag pair:
//
//	<text>[SKILL_CARD]{...}[/SKILL_CARD]<text>
//
// Parsing never fails. Anything that cannot be decoded is returned as text.
package richcontent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"learnleap/internal/models"
)

type Kind string

const (
	KindText        Kind = "text"
	KindSkill       Kind = "skill"
	KindScholarship Kind = "scholarship"
)

const (
	TagSkill       = "SKILL_CARD"
	TagScholarship = "SCHOLARSHIP_CARD"
)

// Block is one rendered piece of a message. Exactly one of Text, Skill or
// Scholarship is meaningful, selected by Kind.
type Block struct {
	Kind        Kind                `json:"kind"`
	Text        string              `json:"text,omitempty"`
	Skill       *models.Skill       `json:"skill,omitempty"`
	Scholarship *models.Scholarship `json:"scholarship,omitempty"`
}

func TextBlock(s string) Block {
	return Block{Kind: KindText, Text: s}
}

type decoder func(payload []byte) (Block, error)

// decoders is keyed by tag. Adding a card type means adding an entry here.
var decoders = map[string]decoder{
	TagSkill: func(payload []byte) (Block, error) {
		var skill models.Skill
		if err := decodeObject(payload, &skill); err != nil {
			return Block{}, err
		}
		return Block{Kind: KindSkill, Skill: &skill}, nil
	},
	TagScholarship: func(payload []byte) (Block, error) {
		var sch models.Scholarship
		if err := decodeObject(payload, &sch); err != nil {
			return Block{}, err
		}
		return Block{Kind: KindScholarship, Scholarship: &sch}, nil
	},
}

func openMarker(tag string) string  { return "[" + tag + "]" }
func closeMarker(tag string) string { return "[/" + tag + "]" }

// Parse splits content into blocks. Only the earliest recognized card is
// decoded; text after it is kept verbatim even if it holds more markers.
// Empty leading or trailing text is omitted.
func Parse(content string) []Block {
	tag, start := firstTag(content)
	if tag == "" {
		return []Block{TextBlock(content)}
	}
	openTok, closeTok := openMarker(tag), closeMarker(tag)
	payloadStart := start + len(openTok)
	end := strings.Index(content[payloadStart:], closeTok)
	if end < 0 {
		return []Block{TextBlock(content)}
	}
	payloadEnd := payloadStart + end

	card, err := decoders[tag]([]byte(content[payloadStart:payloadEnd]))
	if err != nil {
		return []Block{TextBlock(content)}
	}

	blocks := make([]Block, 0, 3)
	if prefix := content[:start]; prefix != "" {
		blocks = append(blocks, TextBlock(prefix))
	}
	blocks = append(blocks, card)
	if suffix := content[payloadEnd+len(closeTok):]; suffix != "" {
		blocks = append(blocks, TextBlock(suffix))
	}
	return blocks
}

// Wrap encodes v as a tagged card ready to be embedded in a reply.
func Wrap(tag string, v any) (string, error) {
	if _, ok := decoders[tag]; !ok {
		return "", fmt.Errorf("unknown card tag %q", tag)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", tag, err)
	}
	return openMarker(tag) + string(payload) + closeMarker(tag), nil
}

func firstTag(content string) (string, int) {
	best, bestIdx := "", -1
	for tag := range decoders {
		idx := strings.Index(content, openMarker(tag))
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best, bestIdx = tag, idx
		}
	}
	return best, bestIdx
}

func decodeObject(payload []byte, v any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("card payload is not a json object")
	}
	return json.Unmarshal(trimmed, v)
}
