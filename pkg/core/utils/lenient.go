// Package utils holds the lenient text handling shared by the adapters: parsing hand-edited or
// pasted JSON scenario files, and rendering Markdown reports.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual hand-editing mistakes: unquoted keys, single quotes,
// trailing commas, comments and unclosed brackets.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses Hjson and returns the equivalent standard JSON.
//
// Decoding goes through JSON rather than straight into the target so that the target's
// UnmarshalText and UnmarshalJSON methods (month keys, decimals) still apply.
func ParseHJSON(data string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(data), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("hjson to json: %w", err)
	}
	return string(out), nil
}

// ParseStrict decodes input into v as plain JSON or, failing that, Hjson. Both grammars reject
// truncated documents, so nothing is guessed. Use it for request bodies.
func ParseStrict(input string, v interface{}) error {
	firstErr := json.Unmarshal([]byte(input), v)
	if firstErr == nil {
		return nil
	}
	converted, err := ParseHJSON(input)
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", firstErr)
	}
	if err := json.Unmarshal([]byte(converted), v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// SmartParse decodes input into v trying, in order, plain JSON, Hjson and repaired JSON.
// Repair can complete a cut-off document, so it is meant for hand-edited files only.
// Markdown code fences around the payload are stripped first. It returns the JSON text
// that was finally decoded.
func SmartParse(input string, v interface{}) (string, error) {
	input = StripCodeFence(input)

	// Try 1: standard JSON
	firstErr := json.Unmarshal([]byte(input), v)
	if firstErr == nil {
		return input, nil
	}

	// Try 2: Hjson
	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), v); err == nil {
			return converted, nil
		}
	}

	// Try 3: repaired JSON, the most lenient
	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return repaired, nil
		}
	}

	return "", fmt.Errorf("could not parse input as JSON, Hjson or repaired JSON: %w", firstErr)
}
