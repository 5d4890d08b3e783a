package learning

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var errNoContent = errors.New("no learning material recovered")

// Normalizer turns raw model text into a Material that always has all four
// fields. It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	maxRepairClosers int
	now              func() time.Time
}

type Option func(*Normalizer)

// WithMaxRepairClosers bounds the number of closers syntax repair may append.
// Inputs needing more are left to field extraction.
func WithMaxRepairClosers(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.maxRepairClosers = n
		}
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(nz *Normalizer) {
		if now != nil {
			nz.now = now
		}
	}
}

func NewNormalizer(opts ...Option) *Normalizer {
	nz := &Normalizer{
		maxRepairClosers: DefaultMaxRepairClosers,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

// Normalize runs the recovery ladder over raw: direct parse, syntax repair,
// per-field extraction and finally the parse-failure sentinel. It never
// panics and never returns an empty Material.
func (nz *Normalizer) Normalize(raw string) Generated {
	text := stripFences(raw)

	stages := []struct {
		stage Stage
		run   func(string) (Material, error)
	}{
		{StageDirect, parseDirect},
		{StageRepaired, nz.parseRepaired},
		{StagePartial, nz.extractFields},
	}
	for _, s := range stages {
		input := text
		if s.stage == StagePartial {
			input = raw
		}
		if m, err := try(s.run, input); err == nil {
			return nz.stamp(m, s.stage, false)
		}
	}
	return nz.stamp(ParseFailureMaterial(), StageFallback, false)
}

// UpstreamFailure is the result returned when the model call itself failed.
// It is flagged with Error so callers can tell it apart from a parse failure.
func (nz *Normalizer) UpstreamFailure() Generated {
	return nz.stamp(UpstreamFailureMaterial(), StageUpstreamError, true)
}

func (nz *Normalizer) stamp(m Material, stage Stage, failed bool) Generated {
	return Generated{
		Type:      MaterialType,
		Content:   m.withDefaults(),
		Timestamp: nz.now().UTC(),
		Error:     failed,
		Stage:     stage,
	}
}

// try runs one stage and converts a panic into that stage's failure.
func try(run func(string) (Material, error), input string) (m Material, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalizer stage panicked: %v", r)
		}
	}()
	m, err = run(input)
	if err == nil && m.IsEmpty() {
		err = errNoContent
	}
	return m, err
}

// stripFences removes a surrounding Markdown code block, labeled or not.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```json"), "```")
		}
	} else if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	}
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "```"); i >= 0 && strings.TrimSpace(s[i+3:]) == "" {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func parseDirect(text string) (Material, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return Material{}, err
	}
	return decodeObject(obj), nil
}

func (nz *Normalizer) parseRepaired(text string) (Material, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return Material{}, errNoContent
	}
	repaired, err := RepairSyntax(text[start:], nz.maxRepairClosers)
	if err != nil {
		return Material{}, err
	}

	// Decode only the first value so trailing prose after the object is ignored.
	var obj map[string]json.RawMessage
	if err := json.NewDecoder(strings.NewReader(repaired)).Decode(&obj); err != nil {
		return Material{}, err
	}
	return decodeObject(obj), nil
}
