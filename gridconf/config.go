package gridconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/milk9111/flowfield/flowfield"
	"github.com/milk9111/flowfield/sampler"
	"gopkg.in/yaml.v3"
)

// Config describes one navigable grid and how its costs are sampled.
type Config struct {
	Name        string     `yaml:"name"`
	Size        [2]int     `yaml:"size"`
	CellRadius  float64    `yaml:"cell_radius"`
	Destination [2]int     `yaml:"destination"`
	SlowsByCost bool       `yaml:"slows_by_cost"`
	Workers     int        `yaml:"workers"`
	DefaultCost *int       `yaml:"default_cost"`
	Costs       []string   `yaml:"costs"`
	Obstacles   []Obstacle `yaml:"obstacles"`
	Script      string     `yaml:"script"`
	Agents      []Agent    `yaml:"agents"`

	// path is the file the config was loaded from; Script is resolved against its directory.
	path string
}

type Obstacle struct {
	Min  [2]float64 `yaml:"min"`
	Max  [2]float64 `yaml:"max"`
	Cost *int       `yaml:"cost"`
}

// Agent is a starting position and speed for the movement simulation.
type Agent struct {
	Position [3]float64 `yaml:"position"`
	Speed    float64    `yaml:"speed"`
}

// LoadFile reads and unmarshals a YAML file into T.
func LoadFile[T any](filename string) (T, error) {
	var zero T
	data, err := os.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("gridconf: load %s: %w", filename, err)
	}

	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("gridconf: unmarshal %s: %w", filename, err)
	}
	return out, nil
}

// Load reads a grid config and validates it.
func Load(filename string) (Config, error) {
	cfg, err := LoadFile[Config](filename)
	if err != nil {
		return Config{}, err
	}
	cfg.path = filename
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("gridconf: %s: %w", filename, err)
	}
	return cfg, nil
}

func (c Config) GridSize() flowfield.Size {
	return flowfield.Size{X: c.Size[0], Y: c.Size[1]}
}

func (c Config) DestinationIndex() flowfield.Index {
	return flowfield.Index{X: c.Destination[0], Y: c.Destination[1]}
}

func (c Config) Geometry() flowfield.Geometry {
	return flowfield.Geometry{Size: c.GridSize(), CellRadius: c.CellRadius}
}

// Path is the file the config was loaded from, empty for configs built in code.
func (c Config) Path() string {
	return c.path
}

// ScriptPath is the cost script location, relative paths resolved against the config's directory.
func (c Config) ScriptPath() string {
	if c.Script == "" || filepath.IsAbs(c.Script) {
		return c.Script
	}
	return filepath.Join(filepath.Dir(c.path), c.Script)
}

func (c Config) Validate() error {
	if err := c.Geometry().Validate(); err != nil {
		return err
	}
	if !c.GridSize().Contains(c.DestinationIndex()) {
		return fmt.Errorf("%w: (%d,%d)", flowfield.ErrInvalidDestinationIndex, c.Destination[0], c.Destination[1])
	}
	if c.DefaultCost != nil {
		if _, err := costValue(*c.DefaultCost); err != nil {
			return fmt.Errorf("default_cost: %w", err)
		}
	}
	if len(c.Costs) > 0 {
		if _, err := c.parseCosts(); err != nil {
			return err
		}
	}
	for i, o := range c.Obstacles {
		if o.Max[0] < o.Min[0] || o.Max[1] < o.Min[1] {
			return fmt.Errorf("obstacle %d: max %v below min %v", i, o.Max, o.Min)
		}
		if o.Cost != nil {
			if _, err := costValue(*o.Cost); err != nil {
				return fmt.Errorf("obstacle %d: %w", i, err)
			}
		}
	}
	return nil
}

func (c Config) baseCost() uint8 {
	if c.DefaultCost == nil {
		return flowfield.CostDefault
	}
	return uint8(*c.DefaultCost)
}

// Sampler builds the cost sampler the config describes: the cost table, obstacles and script
// combined with sampler.Max. With none of them every cell gets the default cost.
func (c Config) Sampler() (flowfield.CostSampler, error) {
	var parts sampler.Max

	if len(c.Costs) > 0 {
		costs, err := c.parseCosts()
		if err != nil {
			return nil, err
		}
		layer, err := sampler.NewLayer(c.Geometry(), costs)
		if err != nil {
			return nil, err
		}
		parts = append(parts, layer)
	}

	if len(c.Obstacles) > 0 {
		obstacles := make([]sampler.Obstacle, 0, len(c.Obstacles))
		for _, o := range c.Obstacles {
			cost := flowfield.CostImpassable
			if o.Cost != nil {
				cost = uint8(*o.Cost)
			}
			obstacles = append(obstacles, sampler.Obstacle{
				MinX: o.Min[0], MinZ: o.Min[1],
				MaxX: o.Max[0], MaxZ: o.Max[1],
				Cost: cost,
			})
		}
		parts = append(parts, sampler.NewPhysics(c.baseCost(), obstacles...))
	}

	if c.Script != "" {
		src, err := os.ReadFile(c.ScriptPath())
		if err != nil {
			return nil, fmt.Errorf("gridconf: load script %s: %w", c.Script, err)
		}
		script, err := sampler.NewScript(filepath.Base(c.Script), src)
		if err != nil {
			return nil, err
		}
		parts = append(parts, script)
	}

	if len(parts) == 0 {
		return flowfield.UniformCost(c.baseCost()), nil
	}
	return parts, nil
}

// parseCosts reads the cost rows into a flat table. Rows are listed north first, so the first
// row is y = size.Y-1. "X" marks an impassable cell.
func (c Config) parseCosts() ([]uint8, error) {
	size := c.GridSize()
	if len(c.Costs) != size.Y {
		return nil, fmt.Errorf("costs: %d rows for %d rows of grid", len(c.Costs), size.Y)
	}

	out := make([]uint8, size.Count())
	for r, row := range c.Costs {
		y := size.Y - 1 - r
		fields := strings.Fields(row)
		if len(fields) != size.X {
			return nil, fmt.Errorf("costs: row %d has %d cells, want %d", r, len(fields), size.X)
		}
		for x, f := range fields {
			if strings.EqualFold(f, "x") {
				out[size.FlatIndex(flowfield.Index{X: x, Y: y})] = flowfield.CostImpassable
				continue
			}
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("costs: row %d cell %d: %w", r, x, err)
			}
			v, err := costValue(n)
			if err != nil {
				return nil, fmt.Errorf("costs: row %d cell %d: %w", r, x, err)
			}
			out[size.FlatIndex(flowfield.Index{X: x, Y: y})] = v
		}
	}
	return out, nil
}

func costValue(n int) (uint8, error) {
	if n < 0 || n > int(flowfield.CostImpassable) {
		return 0, fmt.Errorf("cost %d out of range 0..255", n)
	}
	return uint8(n), nil
}
