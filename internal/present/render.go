package present

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// Renderer writes a board snapshot in one output format.
type Renderer interface {
	Render(w io.Writer, s Snapshot) error
	Format() string
}

// Registry holds named renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates an empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer. Panics on duplicate format.
func (r *Registry) Register(rd Renderer) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.renderers[key]; ok {
		panic("duplicate renderer format: " + key)
	}
	r.renderers[key] = rd
}

// Get returns the renderer for format, or nil.
func (r *Registry) Get(format string) Renderer {
	return r.renderers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in renderers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CardsRenderer{})
	r.Register(&JSONRenderer{})
	r.Register(&CSVRenderer{})
	return r
}

// CardsRenderer prints one aligned line per card.
type CardsRenderer struct{}

// Format returns the renderer name.
func (*CardsRenderer) Format() string { return "cards" }

// Render writes the cards, followed by the error line if the board failed.
func (*CardsRenderer) Render(w io.Writer, s Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, c := range s.Cards {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", c.Slot, FormatValue(c.Slot, c.Value)); err != nil {
			return fmt.Errorf("writing card %s: %w", c.Slot, err)
		}
	}
	if s.Err != nil {
		if _, err := fmt.Fprintf(tw, "ERROR\t%s\n", s.Err); err != nil {
			return fmt.Errorf("writing error: %w", err)
		}
	}
	return tw.Flush()
}

// JSONRenderer writes the snapshot as one JSON object.
type JSONRenderer struct{}

// Format returns the renderer name.
func (*JSONRenderer) Format() string { return "json" }

type jsonCard struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
}

type jsonBoard struct {
	Cards []jsonCard `json:"cards"`
	Error string     `json:"error,omitempty"`
}

// Render writes {"cards":[{"slot":..,"value":..}],"error":..}.
func (*JSONRenderer) Render(w io.Writer, s Snapshot) error {
	out := jsonBoard{Cards: make([]jsonCard, len(s.Cards))}
	for i, c := range s.Cards {
		out.Cards[i] = jsonCard{Slot: string(c.Slot), Value: FormatValue(c.Slot, c.Value)}
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding board: %w", err)
	}
	return nil
}

// CSVRenderer writes a slot,value table.
type CSVRenderer struct{}

// Format returns the renderer name.
func (*CSVRenderer) Format() string { return "csv" }

// Render writes a header and one row per card. A failed board adds an
// "error" row.
func (*CSVRenderer) Render(w io.Writer, s Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"slot", "value"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range s.Cards {
		if err := cw.Write([]string{string(c.Slot), FormatValue(c.Slot, c.Value)}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if s.Err != nil {
		if err := cw.Write([]string{"error", s.Err.Error()}); err != nil {
			return fmt.Errorf("writing error row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
