// Package parser splits narrator output into narration and proposed events
// and leniently recovers event payloads from the events section.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EventsMarker starts the events section of a narrator response.
const EventsMarker = "EVENTS:"

var ErrUnparseable = errors.New("events section could not be parsed")

// Output is a narrator response split at the events marker.
type Output struct {
	Narration string
	Events    string
	HasEvents bool
}

// Split separates narration from the events section. Without a marker the
// whole response is narration and there are no events.
func Split(output string) Output {
	before, after, found := strings.Cut(output, EventsMarker)
	if !found {
		return Output{Narration: strings.TrimSpace(output)}
	}
	return Output{
		Narration: strings.TrimSpace(before),
		Events:    strings.TrimSpace(after),
		HasEvents: true,
	}
}

type Speaker string

const (
	SpeakerNarrator Speaker = "narrator"
	SpeakerNpc      Speaker = "npc"
	SpeakerParty    Speaker = "party"
)

// Line is one spoken or narrated line. Name is empty for the narrator.
type Line struct {
	Speaker Speaker `json:"speaker"`
	Name    string  `json:"name,omitempty"`
	Text    string  `json:"text"`
}

func (l Line) String() string {
	if l.Name == "" {
		return l.Text
	}
	return l.Name + ": " + l.Text
}

// ParseNarration tags each non-blank line by its [NARRATOR], [NPC: name] or
// [PARTY: name] prefix. Untagged lines belong to the narrator.
func ParseNarration(text string) []Line {
	var lines []Line
	for raw := range strings.Lines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "[NARRATOR]"); ok {
			lines = append(lines, Line{Speaker: SpeakerNarrator, Text: strings.TrimSpace(rest)})
			continue
		}
		if l, ok := speakerLine(line, "[NPC:", SpeakerNpc); ok {
			lines = append(lines, l)
			continue
		}
		if l, ok := speakerLine(line, "[PARTY:", SpeakerParty); ok {
			lines = append(lines, l)
			continue
		}
		lines = append(lines, Line{Speaker: SpeakerNarrator, Text: line})
	}
	return lines
}

func speakerLine(line, prefix string, speaker Speaker) (Line, bool) {
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return Line{}, false
	}
	name, text, ok := strings.Cut(rest, "]")
	if !ok {
		return Line{}, false
	}
	return Line{Speaker: speaker, Name: strings.TrimSpace(name), Text: strings.TrimSpace(text)}, true
}

// ExtractPayloads recovers event payloads from an events section. It accepts
// a JSON array, an object with an "events" array, a single event object, an
// array embedded in prose, loose "- kind { key: value }" lines and a bare
// kind name, with or without a code fence.
//
// When nothing works it returns a single payload describing the failure,
// which decodes as a malformed event, together with an error wrapping
// ErrUnparseable.
func ExtractPayloads(events string) ([]json.RawMessage, error) {
	s := normalize(events)
	if s == "" {
		return nil, nil
	}

	payloads, jsonErr := fromJSON(s)
	if jsonErr == nil {
		return payloads, nil
	}
	if embedded, ok := embeddedArray(s); ok {
		if payloads, err := fromJSON(embedded); err == nil {
			return payloads, nil
		}
	}
	if payloads, ok := looseLines(s); ok {
		return payloads, nil
	}
	if payload, ok := singleWord(s); ok {
		return []json.RawMessage{payload}, nil
	}

	return []json.RawMessage{failurePayload(s, jsonErr)}, fmt.Errorf("%w: %v", ErrUnparseable, jsonErr)
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, EventsMarker); ok {
		s = strings.TrimSpace(rest)
	}
	if strings.HasPrefix(s, "```") {
		_, body, ok := strings.Cut(s, "\n")
		if !ok {
			return ""
		}
		if end := strings.LastIndex(body, "```"); end >= 0 {
			body = body[:end]
		}
		s = strings.TrimSpace(body)
	}
	return s
}

func fromJSON(s string) ([]json.RawMessage, error) {
	data := []byte(s)
	switch {
	case bytes.HasPrefix(data, []byte("[")):
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	case bytes.HasPrefix(data, []byte("{")):
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		if raw, ok := obj["events"]; ok {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, errors.New("events must be a JSON array")
			}
			return items, nil
		}
		if _, ok := obj["type"]; ok {
			return []json.RawMessage{json.RawMessage(s)}, nil
		}
		return nil, errors.New("events must be a JSON array")
	default:
		return nil, errors.New("events must be a JSON array")
	}
}

func embeddedArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// looseLines parses "- kind { key: value, ... }" lines, reading the braces as
// a YAML flow mapping. Every non-blank line must be a dash line.
func looseLines(s string) ([]json.RawMessage, bool) {
	var payloads []json.RawMessage
	for raw := range strings.Lines(s) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		rest, ok := strings.CutPrefix(line, "-")
		if !ok {
			return nil, false
		}
		rest = strings.TrimSpace(rest)

		kind, body, hasBody := strings.Cut(rest, "{")
		kind = strings.TrimSpace(kind)
		if kind == "" || strings.ContainsAny(kind, " \t:[]") {
			return nil, false
		}

		fields := map[string]any{}
		if hasBody {
			if end := strings.LastIndex(body, "}"); end >= 0 {
				body = body[:end]
			}
			if err := yaml.Unmarshal([]byte("{"+body+"}"), &fields); err != nil {
				return nil, false
			}
		}
		fields["type"] = kind

		payload, err := json.Marshal(fields)
		if err != nil {
			return nil, false
		}
		payloads = append(payloads, payload)
	}
	return payloads, len(payloads) > 0
}

func singleWord(s string) (json.RawMessage, bool) {
	if strings.ContainsAny(s, " \t\r\n[{:") {
		return nil, false
	}
	payload, err := json.Marshal(map[string]string{"type": s})
	if err != nil {
		return nil, false
	}
	return payload, true
}

func failurePayload(s string, cause error) json.RawMessage {
	payload, _ := json.Marshal(map[string]string{
		"unparsed": s,
		"error":    cause.Error(),
	})
	return payload
}
