package calculator

import "fmt"

// SlicesPerPizza is the number of slices that make one whole pizza.
const SlicesPerPizza = 6

// Balance is a normalized pizza debt.
type Balance struct {
	Pizzas int
	Slices int // always in [0, SlicesPerPizza)
}

// Combined returns the balance as a single slice count.
func (b Balance) Combined() int {
	return b.Pizzas*SlicesPerPizza + b.Slices
}

// String renders the balance as e.g. "2🍕 3/6".
func (b Balance) String() string {
	return fmt.Sprintf("%d🍕 %d/%d", b.Pizzas, b.Slices, SlicesPerPizza)
}

// FromCombined normalizes a slice count into a balance, flooring at zero.
func FromCombined(combined int) Balance {
	if combined < 0 {
		combined = 0
	}
	return Balance{
		Pizzas: combined / SlicesPerPizza,
		Slices: combined % SlicesPerPizza,
	}
}

// AddSlices folds a non-negative award into a balance, carrying every full six
// slices into a whole pizza. The combined slice count is conserved exactly.
// A negative add is treated as an adjustment and floor-clamped at zero.
func AddSlices(currentPizzas, currentSlices, add int) Balance {
	if add < 0 {
		return AdjustSlices(currentPizzas, currentSlices, add)
	}
	sum := currentSlices + add
	carry, rem := floorDivMod(sum, SlicesPerPizza)
	return Balance{
		Pizzas: currentPizzas + carry,
		Slices: rem,
	}
}

// AdjustSlices applies a signed delta. The combined balance never drops below
// zero: a delta that would make it negative clamps it to exactly zero.
func AdjustSlices(currentPizzas, currentSlices, delta int) Balance {
	return FromCombined(currentPizzas*SlicesPerPizza + currentSlices + delta)
}

// Clamped reports whether applying delta to b would hit the zero floor.
func Clamped(b Balance, delta int) bool {
	return b.Combined()+delta < 0
}

// floorDivMod is integer division rounding toward negative infinity, so the
// remainder is always in [0, d).
func floorDivMod(n, d int) (q, r int) {
	q, r = n/d, n%d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}
