package dialogue

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Strategy identifies which parsing attempt produced a JSON value.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyDirect
	StrategyFenceStrip
	StrategyBraceScan
	StrategyKeyedObject
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyFenceStrip:
		return "fence_strip"
	case StrategyBraceScan:
		return "brace_scan"
	case StrategyKeyedObject:
		return "keyed_object"
	default:
		return "none"
	}
}

// Status is the outcome tag of Parse.
type Status int

const (
	StatusOK Status = iota
	StatusExtractionFailed
	StatusStructureInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusExtractionFailed:
		return "extraction_failed"
	case StatusStructureInvalid:
		return "structure_invalid"
	default:
		return "unknown"
	}
}

var (
	ErrNoValidJSON         = errors.New("no valid JSON found")
	ErrMalformedStructure  = errors.New("malformed structure")
	codeFencePattern       = regexp.MustCompile("```(?:json)?\n?")
	keyedObjectPattern     = regexp.MustCompile(`(?s)\{[^{}]*"santaResponse"[^{}]*"options".*\}`)
	errNotAnObject         = errors.New("reply is not a JSON object")
	errMissingSantaLine    = errors.New(`"santaResponse" must be a non-empty string`)
	errMissingOptionsArray = errors.New(`"options" must be an array`)
)

// ExtractionError reports why a model reply could not be turned into a Reply.
// Use errors.Is with ErrNoValidJSON or ErrMalformedStructure to tell the
// two failure kinds apart.
type ExtractionError struct {
	Kind  error
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return e.Kind.Error() + ": " + e.Cause.Error()
	}
	return e.Kind.Error()
}

func (e *ExtractionError) Is(target error) bool {
	return target == e.Kind
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Result is the tagged outcome of Parse. Reply is set only when Status is
// StatusOK; Err is set otherwise.
type Result struct {
	Status   Status
	Strategy Strategy
	Reply    *Reply
	Err      *ExtractionError
}

// OK reports whether the reply was extracted.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Parse runs the extraction strategies in order against raw model output.
// The first strategy that yields syntactically valid JSON wins, and its value
// is then checked for the required fields. Nothing beyond field presence is
// checked: option counts and point values pass through as given.
func Parse(raw string) Result {
	value, strategy, ok := locateJSON(raw)
	if !ok {
		return Result{
			Status: StatusExtractionFailed,
			Err:    &ExtractionError{Kind: ErrNoValidJSON},
		}
	}

	reply, err := decodeReply(value)
	if err != nil {
		return Result{
			Status:   StatusStructureInvalid,
			Strategy: strategy,
			Err:      &ExtractionError{Kind: ErrMalformedStructure, Cause: err},
		}
	}

	return Result{
		Status:   StatusOK,
		Strategy: strategy,
		Reply:    reply,
	}
}

// Extract is Parse for callers that only need the reply or an error.
func Extract(raw string) (*Reply, error) {
	res := Parse(raw)
	if !res.OK() {
		return nil, res.Err
	}
	return res.Reply, nil
}

func locateJSON(raw string) (json.RawMessage, Strategy, bool) {
	if v, ok := tryJSON(raw); ok {
		return v, StrategyDirect, true
	}

	stripped := strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, ""))
	if v, ok := tryJSON(stripped); ok {
		return v, StrategyFenceStrip, true
	}

	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		if v, ok := tryJSON(raw[start : end+1]); ok {
			return v, StrategyBraceScan, true
		}
	}

	if match := keyedObjectPattern.FindString(raw); match != "" {
		if v, ok := tryJSON(match); ok {
			return v, StrategyKeyedObject, true
		}
	}

	return nil, StrategyNone, false
}

func tryJSON(text string) (json.RawMessage, bool) {
	if !json.Valid([]byte(text)) {
		return nil, false
	}
	return json.RawMessage(strings.TrimSpace(text)), true
}

func decodeReply(value json.RawMessage) (*Reply, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil || fields == nil {
		return nil, errNotAnObject
	}

	var santa string
	if raw, ok := fields["santaResponse"]; !ok || json.Unmarshal(raw, &santa) != nil || santa == "" {
		return nil, errMissingSantaLine
	}

	raw, ok := fields["options"]
	if !ok {
		return nil, errMissingOptionsArray
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, errMissingOptionsArray
	}

	options := make([]Option, 0, len(items))
	for _, item := range items {
		var opt Option
		if err := json.Unmarshal(item, &opt); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	return &Reply{
		SantaResponse: santa,
		Options:       options,
	}, nil
}
