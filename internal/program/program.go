// Package program holds the compiled-program aggregate produced by the
// lowerer and mutated in place by the peephole passes, plus the
// JSON/gob (de)serialization used for debug dumps and snapshots. This
// is a single-shot artifact, not a resumable search, so there are no
// progress/checkpoint fields — just the steps, coefficients, and
// verbatim MADRS lines a finished compile produces.
package program

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/oisee/aicadsp/internal/step"
)

// CompiledProgram is the full output of the lower+peephole pipeline:
// the step sequence, the parallel sparse coefficient vector (§3.2,
// zero where absent, value<<3 where present), and the verbatim MADRS
// definition lines collected from the source.
type CompiledProgram struct {
	Steps      []step.Word
	Coefs      []int16
	MadrsLines []string
}

// New returns an empty program ready for the lowerer to append to.
func New() *CompiledProgram {
	return &CompiledProgram{}
}

// AppendStep appends a step with an associated coefficient (0 if none).
func (p *CompiledProgram) AppendStep(w step.Word, coef int16) int {
	p.Steps = append(p.Steps, w)
	p.Coefs = append(p.Coefs, coef)
	return len(p.Steps) - 1
}

// Len returns the number of steps currently in the program.
func (p *CompiledProgram) Len() int {
	return len(p.Steps)
}

// Clone returns a deep copy, used by invariant checks that must not
// mutate the program under test (e.g. verify.TrickleIsFixedPoint).
func (p *CompiledProgram) Clone() *CompiledProgram {
	c := &CompiledProgram{
		Steps:      make([]step.Word, len(p.Steps)),
		Coefs:      make([]int16, len(p.Coefs)),
		MadrsLines: make([]string, len(p.MadrsLines)),
	}
	copy(c.Steps, p.Steps)
	copy(c.Coefs, p.Coefs)
	copy(c.MadrsLines, p.MadrsLines)
	return c
}

// jsonDoc is the on-disk JSON shape: step words are hex strings so a
// diff between two dumps is readable without decoding.
type jsonDoc struct {
	Steps      []string `json:"steps"`
	Coefs      []int16  `json:"coefs"`
	MadrsLines []string `json:"madrs_lines"`
}

// WriteJSON writes p as indented JSON to w.
func WriteJSON(w io.Writer, p *CompiledProgram) error {
	doc := jsonDoc{
		Steps:      make([]string, len(p.Steps)),
		Coefs:      p.Coefs,
		MadrsLines: p.MadrsLines,
	}
	for i, s := range p.Steps {
		doc.Steps[i] = fmt.Sprintf("0x%016x", uint64(s))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON reads a program previously written by WriteJSON.
func ReadJSON(r io.Reader) (*CompiledProgram, error) {
	var doc jsonDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	p := &CompiledProgram{
		Steps:      make([]step.Word, len(doc.Steps)),
		Coefs:      doc.Coefs,
		MadrsLines: doc.MadrsLines,
	}
	for i, s := range doc.Steps {
		var v uint64
		if _, err := fmt.Sscanf(s, "0x%x", &v); err != nil {
			return nil, fmt.Errorf("program: bad step %q: %w", s, err)
		}
		p.Steps[i] = step.Word(v)
	}
	return p, nil
}

func init() {
	gob.Register(step.Word(0))
}

// SaveSnapshot gob-encodes p to path, for golden-file regression tooling.
func SaveSnapshot(path string, p *CompiledProgram) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(p)
}

// LoadSnapshot decodes a program previously written by SaveSnapshot.
func LoadSnapshot(path string) (*CompiledProgram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var p CompiledProgram
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
