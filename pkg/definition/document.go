package definition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a transition table.
//
//	name: turnstile
//	initial: locked
//	states:
//	  - name: unlocked
//	    on_entry: [start_timer]
//	transitions:
//	  - {from: locked, event: coin, to: unlocked, action: count}
//	  - {from: unlocked, event: push, to: locked}
//	  - {from: locked, event: push, internal: true, action: alarm}
//	payloads:
//	  coin: amount
type Document struct {
	Name        string            `yaml:"name"`
	Initial     string            `yaml:"initial,omitempty"`
	States      []StateSpec       `yaml:"states,omitempty"`
	Transitions []Transition      `yaml:"transitions"`
	Payloads    map[string]string `yaml:"payloads,omitempty"`
}

// StateSpec attaches entry and exit hooks to a state used by the transitions.
type StateSpec struct {
	Name    string `yaml:"name"`
	OnEntry Names  `yaml:"on_entry,omitempty"`
	OnExit  Names  `yaml:"on_exit,omitempty"`
}

// Transition is one rule. Guard and Action name registry entries; several
// guards must all pass and several actions run in order.
type Transition struct {
	From     string `yaml:"from"`
	Event    string `yaml:"event"`
	To       string `yaml:"to,omitempty"`
	Guard    Names  `yaml:"guard,omitempty"`
	Action   Names  `yaml:"action,omitempty"`
	Internal bool   `yaml:"internal,omitempty"`
	Name     string `yaml:"name,omitempty"`
}

// Names is a list of registry keys, written in YAML either as a single
// scalar or as a sequence.
type Names []string

func (n *Names) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*n = nil
			return nil
		}
		*n = Names{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*n = list
		return nil
	default:
		return fmt.Errorf("line %d: expected a name or a list of names", value.Line)
	}
}

// Parse decodes and validates a YAML document. Unknown fields are rejected.
func Parse(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrParsingCancelled, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Join(ErrInvalidDocument, errors.New("document is empty"))
		}
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads path from fsys and parses it.
func LoadFile(ctx context.Context, fsys fs.FS, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrParsingCancelled, err)
	}

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	doc, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate checks the document structure. Registry names are resolved
// later by Compile. All problems are reported together, joined with
// ErrInvalidDocument.
func (d *Document) Validate() error {
	var errs []error

	if len(d.Transitions) == 0 {
		errs = append(errs, errors.New("at least one transition is required"))
	}

	states := make(map[string]struct{})
	events := make(map[string]struct{})
	for i, t := range d.Transitions {
		if t.From == "" {
			errs = append(errs, fmt.Errorf("transition %d: from is required", i))
		}
		if t.Event == "" {
			errs = append(errs, fmt.Errorf("transition %d: event is required", i))
		}
		switch {
		case t.Internal && t.To != "" && t.To != t.From:
			errs = append(errs, fmt.Errorf("transition %d: internal transition cannot target %q", i, t.To))
		case !t.Internal && t.To == "":
			errs = append(errs, fmt.Errorf("transition %d: to is required", i))
		}
		errs = append(errs, checkNames(fmt.Sprintf("transition %d: guard", i), t.Guard)...)
		errs = append(errs, checkNames(fmt.Sprintf("transition %d: action", i), t.Action)...)

		states[t.From] = struct{}{}
		if t.To != "" {
			states[t.To] = struct{}{}
		}
		events[t.Event] = struct{}{}
	}

	if d.Initial != "" {
		if _, ok := states[d.Initial]; !ok {
			errs = append(errs, fmt.Errorf("initial state %q is not used by any transition", d.Initial))
		}
	}

	seen := make(map[string]struct{}, len(d.States))
	for i, s := range d.States {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("state %d: name is required", i))
			continue
		}
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("state %q is declared more than once", s.Name))
		}
		seen[s.Name] = struct{}{}
		if _, ok := states[s.Name]; !ok {
			errs = append(errs, fmt.Errorf("state %q is not used by any transition", s.Name))
		}
		errs = append(errs, checkNames(fmt.Sprintf("state %q: on_entry", s.Name), s.OnEntry)...)
		errs = append(errs, checkNames(fmt.Sprintf("state %q: on_exit", s.Name), s.OnExit)...)
	}

	for _, event := range slices.Sorted(maps.Keys(d.Payloads)) {
		typ := d.Payloads[event]
		if _, ok := events[event]; !ok {
			errs = append(errs, fmt.Errorf("payload for event %q which is not used by any transition", event))
		}
		if typ == "" {
			errs = append(errs, fmt.Errorf("payload for event %q: type is required", event))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidDocument}, errs...)...)
	}
	return nil
}

func checkNames(where string, names Names) []error {
	var errs []error
	for _, n := range names {
		if n == "" {
			errs = append(errs, fmt.Errorf("%s: empty name", where))
		}
	}
	return errs
}
