package kmersim

import (
	"fmt"
	"strings"
)

// CompositionKind names how an external combiner merges the normalized
// values of a composition's operands.
type CompositionKind int

const (
	// Product2 multiplies the operands.
	Product2 CompositionKind = iota
	// SquareFirstProduct squares the first operand before multiplying.
	SquareFirstProduct
	// SquareSecondProduct squares the second operand before multiplying.
	SquareSecondProduct
	// SquareBothProduct squares both operands before multiplying.
	SquareBothProduct
)

var compositionNames = [...]string{
	Product2:            "product2",
	SquareFirstProduct:  "square_first_product",
	SquareSecondProduct: "square_second_product",
	SquareBothProduct:   "square_both_product",
}

// Valid reports whether k is a supported kind.
func (k CompositionKind) Valid() bool {
	return k >= Product2 && k <= SquareBothProduct
}

func (k CompositionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("CompositionKind(%d)", int(k))
	}
	return compositionNames[k]
}

// ParseCompositionKind resolves a kind by name (case-insensitive, '-' and
// '_' equivalent).
func ParseCompositionKind(s string) (CompositionKind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, n := range compositionNames {
		if n == name {
			return CompositionKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCompositionKind, s)
}

// Composition declares a combination of registered metrics. Operands are
// descriptor indices in the order they were requested.
type Composition struct {
	Kind     CompositionKind
	Operands []int
}

func (c Composition) clone() Composition {
	return Composition{Kind: c.Kind, Operands: append([]int(nil), c.Operands...)}
}
