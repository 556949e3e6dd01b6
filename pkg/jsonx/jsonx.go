// Package jsonx recovers JSON payloads from loosely formatted model output.
// Models frequently wrap JSON in markdown fences, surround it with prose, or
// emit single-quoted pseudo-JSON; callers get a best-effort extraction and
// decide themselves what a nil result means.
package jsonx

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// Extract returns the first JSON value found in raw, or nil when every
// strategy fails. Strategies are tried in order and short-circuit on the
// first syntactically valid result:
//  1. strip code fences and parse the remainder directly;
//  2. scan for the first balanced brace- or bracket-delimited region;
//  3. substitute single quotes for double quotes and retry both.
func Extract(raw string) []byte {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	if m := fenceRe.FindStringSubmatch(text); len(m) > 1 {
		text = strings.TrimSpace(m[1])
	}

	if payload := tryValid(text); payload != nil {
		return payload
	}
	if payload := tryValid(balancedRegion(text)); payload != nil {
		return payload
	}

	// Last resort for models that emit Python-style dict literals.
	swapped := strings.ReplaceAll(text, "'", `"`)
	if payload := tryValid(swapped); payload != nil {
		return payload
	}
	return tryValid(balancedRegion(swapped))
}

// Decode extracts a JSON value from raw and unmarshals it into v.
// Returns false when extraction or unmarshalling fails; v is untouched
// on failure only if extraction already failed.
func Decode(raw string, v any) bool {
	payload := Extract(raw)
	if payload == nil {
		return false
	}
	return json.Unmarshal(payload, v) == nil
}

func tryValid(text string) []byte {
	if text == "" || !json.Valid([]byte(text)) {
		return nil
	}
	return []byte(text)
}

// balancedRegion returns the first balanced {...} or [...] substring of text,
// ignoring delimiters inside string literals.
func balancedRegion(text string) string {
	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return ""
	}

	open := text[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
