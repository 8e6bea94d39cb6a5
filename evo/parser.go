package evo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/baldhumanity/neuroevo-go/nn"
)

// OutputField names a run of consecutive network outputs.
type OutputField struct {
	Label string
	Width int
}

// OutputParser maps a raw output vector onto labelled fields.
type OutputParser struct {
	fields []OutputField
	width  int
}

// NewOutputParser creates a parser over fields in order. Labels must be
// unique and non-empty, widths positive.
func NewOutputParser(fields ...OutputField) (*OutputParser, error) {
	if len(fields) == 0 {
		return nil, errors.New("output parser needs at least one field")
	}
	seen := make(map[string]bool, len(fields))
	p := &OutputParser{fields: make([]OutputField, len(fields))}
	for i, f := range fields {
		if f.Label == "" {
			return nil, fmt.Errorf("output field %d has an empty label", i)
		}
		if seen[f.Label] {
			return nil, fmt.Errorf("duplicate output label %q", f.Label)
		}
		if f.Width <= 0 {
			return nil, fmt.Errorf("output field %q must have a positive width, got %d", f.Label, f.Width)
		}
		seen[f.Label] = true
		p.fields[i] = f
		p.width += f.Width
	}
	return p, nil
}

// ParseOutputSpec reads a space separated "label:width" list. A bare label
// has width 1.
func ParseOutputSpec(spec string) (*OutputParser, error) {
	var fields []OutputField
	for _, tok := range strings.Fields(spec) {
		label, width, found := strings.Cut(tok, ":")
		f := OutputField{Label: label, Width: 1}
		if found {
			w, err := strconv.Atoi(width)
			if err != nil {
				return nil, fmt.Errorf("invalid width in %q: %w", tok, err)
			}
			f.Width = w
		}
		fields = append(fields, f)
	}
	return NewOutputParser(fields...)
}

// Fields returns the configured fields in order.
func (p *OutputParser) Fields() []OutputField {
	return append([]OutputField(nil), p.fields...)
}

// Width is the raw vector length the parser expects.
func (p *OutputParser) Width() int {
	return p.width
}

// Parse splits raw into the configured fields.
func (p *OutputParser) Parse(raw []float64) (Output, error) {
	if len(raw) != p.width {
		return Output{}, fmt.Errorf("%w: parser expects %d outputs, got %d", nn.ErrDimensionMismatch, p.width, len(raw))
	}
	out := Output{
		raw:     append([]float64(nil), raw...),
		labels:  make([]string, 0, len(p.fields)),
		scalars: make(map[string]float64),
		vectors: make(map[string][]float64),
	}
	index := 0
	for _, f := range p.fields {
		out.labels = append(out.labels, f.Label)
		if f.Width == 1 {
			out.scalars[f.Label] = out.raw[index]
		} else {
			out.vectors[f.Label] = out.raw[index : index+f.Width : index+f.Width]
		}
		index += f.Width
	}
	return out, nil
}

// Output is the result of an agent prediction. Raw is always available;
// labelled fields exist only when a parser was configured.
type Output struct {
	raw     []float64
	labels  []string
	scalars map[string]float64
	vectors map[string][]float64
}

// Raw returns the unparsed network output.
func (o Output) Raw() []float64 {
	return o.raw
}

// Labels returns the parsed field labels in encounter order.
func (o Output) Labels() []string {
	return o.labels
}

// Scalar returns a width-1 field.
func (o Output) Scalar(label string) (float64, bool) {
	v, ok := o.scalars[label]
	return v, ok
}

// Vector returns a field wider than 1.
func (o Output) Vector(label string) ([]float64, bool) {
	v, ok := o.vectors[label]
	return v, ok
}

// Parsed reports whether labelled fields are present.
func (o Output) Parsed() bool {
	return o.labels != nil
}
