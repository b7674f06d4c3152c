// Package llmutils holds small helpers for shaping LLM inputs and outputs:
// JSON cleanup of model replies, backtick fencing, and prompt input merging.
package llmutils

import (
	"bytes"
	"encoding/json"
	"strings"
)

// CleanJSON returns JSON by trimming prefixes and postfixes.
// LLMs often wrap tool arguments like `Sure, here you go: {json}`.
func CleanJSON(bs []byte) []byte {
	return trimAfterJSON(trimBeforeJSON(bs))
}

func trimBeforeJSON(bs []byte) []byte {
	startObject := bytes.IndexByte(bs, '{')
	startArray := bytes.IndexByte(bs, '[')

	var start int
	switch {
	case startObject == -1 && startArray == -1:
		return bs
	case startObject == -1:
		start = startArray
	case startArray == -1:
		start = startObject
	default:
		start = min(startObject, startArray)
	}
	return bs[start:]
}

func trimAfterJSON(bs []byte) []byte {
	endObject := bytes.LastIndexByte(bs, '}')
	endArray := bytes.LastIndexByte(bs, ']')

	var end int
	switch {
	case endObject == -1 && endArray == -1:
		return bs
	case endObject == -1:
		end = endArray
	case endArray == -1:
		end = endObject
	default:
		end = max(endObject, endArray)
	}
	return bs[:end+1]
}

func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

// MergeInputs merges prompt inputs, user inputs override defaults.
func MergeInputs(defaults map[string]any, userInputs map[string]any) map[string]any {
	res := map[string]any{}
	for k, v := range defaults {
		res[k] = v
	}
	for k, v := range userInputs {
		res[k] = v
	}
	return res
}
