package sampler

import (
	"fmt"
	"math"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/flowfield/common"
	"github.com/milk9111/flowfield/flowfield"
)

// costDispatchScript is appended to every cost script. The script must define
// `cost := func(x, y, z, radius) { ... }` returning a number; it is clamped to 0..255.
const costDispatchScript = `
__result := cost(__x, __y, __z, __radius)
`

// scriptModules are the stdlib modules a cost script may import. Nothing with side effects.
var scriptModules = []string{"math", "text", "enum"}

// Script samples cost by running a tengo script per cell.
type Script struct {
	name string
	pool sync.Pool
}

// NewScript compiles src once; each concurrent caller runs its own clone.
func NewScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(append(append([]byte(nil), src...), costDispatchScript...))
	_ = script.Add("__x", 0.0)
	_ = script.Add("__y", 0.0)
	_ = script.Add("__z", 0.0)
	_ = script.Add("__radius", 0.0)
	script.SetImports(stdlib.GetModuleMap(scriptModules...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("sampler: compile %s: %w", name, err)
	}

	s := &Script{name: name}
	s.pool.New = func() any {
		return compiled.Clone()
	}
	return s, nil
}

func (s *Script) SampleCost(pos common.Vec3, cellRadius float64) (uint8, error) {
	c := s.pool.Get().(*tengo.Compiled)
	defer s.pool.Put(c)

	if err := setAll(c, map[string]any{
		"__x":      pos.X,
		"__y":      pos.Y,
		"__z":      pos.Z,
		"__radius": cellRadius,
	}); err != nil {
		return 0, fmt.Errorf("sampler: %s: %w", s.name, err)
	}
	if err := c.Run(); err != nil {
		return 0, fmt.Errorf("sampler: run %s: %w", s.name, err)
	}

	v := c.Get("__result")
	switch n := v.Value().(type) {
	case int64:
		return clampCost(float64(n)), nil
	case float64:
		if !math.IsNaN(n) {
			return clampCost(n), nil
		}
	}
	return 0, fmt.Errorf("sampler: %s: cost returned %s, want a number, at (%.2f, %.2f)", s.name, v.ValueType(), pos.X, pos.Z)
}

// clampCost truncates n toward zero and limits it to 0..255.
func clampCost(n float64) uint8 {
	switch {
	case n <= 0:
		return 0
	case n >= float64(flowfield.CostImpassable):
		return flowfield.CostImpassable
	}
	return uint8(n)
}

func setAll(c *tengo.Compiled, values map[string]any) error {
	for name, v := range values {
		if err := c.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

var _ flowfield.CostSampler = (*Script)(nil)
