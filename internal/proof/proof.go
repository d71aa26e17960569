// Package proof turns the provenance recorded in a saturated store into
// justifications: for each goal fact, one proof per distinct method, each
// traced back to the premises it rests on.
package proof

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// Method is the category of argument a source uses.
type Method string

const (
	MethodDefinition        Method = "definition"
	MethodExteriorAngle     Method = "exterior-angle"
	MethodTwoRightAngles    Method = "two-right-angles"
	MethodSameArc           Method = "same-arc"
	MethodAngleSum          Method = "angle-sum"
	MethodEquidistantCenter Method = "equidistant-center"
	MethodPowerOfPoint      Method = "power-of-point"

	otherPrefix = "other:"
)

// priority orders methods for presentation. Unlisted methods sort after
// these in the order their sources were recorded.
var priority = []Method{
	MethodDefinition,
	MethodExteriorAngle,
	MethodTwoRightAngles,
	MethodSameArc,
	MethodAngleSum,
	MethodEquidistantCenter,
	MethodPowerOfPoint,
}

var keywords = []struct {
	method Method
	words  []string
}{
	{MethodDefinition, []string{"by definition", "given"}},
	{MethodExteriorAngle, []string{"exterior angle"}},
	{MethodTwoRightAngles, []string{"two opposite right angles"}},
	{MethodSameArc, []string{"subtend"}},
	{MethodAngleSum, []string{"sum to 180"}},
	{MethodEquidistantCenter, []string{"equidistant"}},
	{MethodPowerOfPoint, []string{"power of point"}},
}

// Classify maps a source reason to its method. Reasons matching no
// category form their own bucket, "other:<reason>".
func Classify(reason string) Method {
	r := strings.ToLower(reason)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(r, w) {
				return k.method
			}
		}
	}
	return Method(otherPrefix + reason)
}

func rank(m Method) int {
	for i, p := range priority {
		if p == m {
			return i
		}
	}
	return len(priority)
}

// Justification is one independent proof of a goal.
type Justification struct {
	Method Method
	Source domain.Source
	// Premises are the leaf facts the proof rests on, in trace order.
	Premises []*domain.Fact
	// Steps are the derived facts between the premises and the goal, each
	// after everything it depends on.
	Steps []*domain.Fact
}

type Extractor struct {
	store *kb.Store
}

func NewExtractor(store *kb.Store) *Extractor {
	return &Extractor{store: store}
}

// Explain returns one justification per distinct method among the goal's
// sources, ordered by method priority. Within a method the first recorded
// source wins. Every justification is traced with its own visited set, so
// shared lemmas appear in each proof that uses them.
func (x *Extractor) Explain(goal domain.FactID) []Justification {
	f := x.store.Fact(goal)
	if f == nil {
		return nil
	}

	seen := make(map[Method]bool)
	var out []Justification
	for _, src := range f.Sources {
		m := Classify(src.Reason)
		if seen[m] {
			continue
		}
		seen[m] = true

		j := Justification{Method: m, Source: src}
		trace, _ := x.store.TraceSource(src, nil)
		for _, step := range trace {
			if step.IsPremise() {
				j.Premises = append(j.Premises, step)
			} else {
				j.Steps = append(j.Steps, step)
			}
		}
		out = append(out, j)
	}

	sort.SliceStable(out, func(i, k int) bool {
		return rank(out[i].Method) < rank(out[k].Method)
	})
	return out
}

// Conclusion is a goal fact with its justifications.
type Conclusion struct {
	Fact           *domain.Fact
	Justifications []Justification
}

// Conclusions explains every goal fact in the store: contradictions first,
// then cyclic quadrilaterals, each in derivation order.
func (x *Extractor) Conclusions() []Conclusion {
	var out []Conclusion
	for _, kind := range []domain.Kind{domain.KindContradiction, domain.KindIsCyclic} {
		for _, f := range x.store.FactsOf(kind) {
			out = append(out, Conclusion{Fact: f, Justifications: x.Explain(f.ID)})
		}
	}
	return out
}

// Render writes a plain-text proof of a conclusion.
func Render(c Conclusion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %s\n", c.Fact.Statement())
	if len(c.Justifications) == 0 {
		b.WriteString("No justification recorded.\n")
		return b.String()
	}
	for i, j := range c.Justifications {
		fmt.Fprintf(&b, "\nProof %d (%s): %s\n", i+1, methodLabel(j.Method), j.Source.Reason)
		for _, p := range j.Premises {
			fmt.Fprintf(&b, "  + %s (%s)\n", p.Statement(), p.Primary().Reason)
		}
		for _, s := range j.Steps {
			fmt.Fprintf(&b, "  ⇒ %s (%s)\n", s.Statement(), s.Primary().Reason)
		}
		fmt.Fprintf(&b, "  ∴ %s\n", c.Fact.Statement())
	}
	return b.String()
}

func methodLabel(m Method) string {
	if strings.HasPrefix(string(m), otherPrefix) {
		return "other"
	}
	return string(m)
}
