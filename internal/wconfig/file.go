package wconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileOverlay mirrors a subset of Options as an optional YAML config file
// (e.g. wvcpsolve.yml): every field is a pointer so "absent" is distinguishable from
// "zero", and ApplyTo only overwrites fields the file actually set. Flags the
// user set explicitly are applied after the overlay, so they take precedence
// over the file.
type FileOverlay struct {
	Problem                   *string  `yaml:"problem"`
	Method                    *string  `yaml:"method"`
	RandSeed                  *int64   `yaml:"rand_seed"`
	Target                    *int     `yaml:"target"`
	UseTarget                 *bool    `yaml:"use_target"`
	Objective                 *string  `yaml:"objective"`
	TimeLimitSeconds          *int     `yaml:"time_limit_seconds"`
	NbMaxIterations           *int     `yaml:"nb_max_iterations"`
	Initialization            *string  `yaml:"initialization"`
	NbIterLocalSearch         *int     `yaml:"nb_iter_local_search"`
	MaxTimeLocalSearchSeconds *int     `yaml:"max_time_local_search_seconds"`
	OTime                     *int     `yaml:"o_time"`
	PTime                     *float64 `yaml:"p_time"`
	BoundNbColors             *int     `yaml:"bound_nb_colors"`
	LocalSearch               *string  `yaml:"local_search"`
	Adaptive                  *string  `yaml:"adaptive"`
	WindowSize                *int     `yaml:"window_size"`
	CoeffExploiExplo          *float64 `yaml:"coeff_exploi_explo"`
	Simulation                *string  `yaml:"simulation"`
	OutputDirectory           *string  `yaml:"output_directory"`
}

// LoadFile reads and parses a YAML overlay from path. A missing file is not
// an error — it returns (nil, nil), meaning "no config found, use defaults".
func LoadFile(path string) (*FileOverlay, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("wconfig: read config %s: %w", path, err)
	}

	var overlay FileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("wconfig: parse config %s: %w", path, err)
	}
	return &overlay, nil
}

// ApplyTo overlays every field f sets onto o, returning the merged Options.
// Fields f leaves nil are untouched.
func (f *FileOverlay) ApplyTo(o Options) Options {
	if f == nil {
		return o
	}
	if f.Problem != nil {
		o.Problem = Problem(*f.Problem)
	}
	if f.Method != nil {
		o.Method = *f.Method
	}
	if f.RandSeed != nil {
		o.RandSeed = *f.RandSeed
	}
	if f.Target != nil {
		o.Target = *f.Target
	}
	if f.UseTarget != nil {
		o.UseTarget = *f.UseTarget
	}
	if f.Objective != nil {
		o.Objective = Objective(*f.Objective)
	}
	if f.TimeLimitSeconds != nil {
		o.TimeLimit = time.Duration(*f.TimeLimitSeconds) * time.Second
	}
	if f.NbMaxIterations != nil {
		o.NbMaxIterations = *f.NbMaxIterations
	}
	if f.Initialization != nil {
		o.Initialization = *f.Initialization
	}
	if f.NbIterLocalSearch != nil {
		o.NbIterLocalSearch = *f.NbIterLocalSearch
	}
	if f.MaxTimeLocalSearchSeconds != nil {
		o.MaxTimeLocalSearch = time.Duration(*f.MaxTimeLocalSearchSeconds) * time.Second
	}
	if f.OTime != nil {
		o.OTime = *f.OTime
	}
	if f.PTime != nil {
		o.PTime = *f.PTime
	}
	if f.BoundNbColors != nil {
		o.BoundNbColors = *f.BoundNbColors
	}
	if f.LocalSearch != nil {
		o.LocalSearch = *f.LocalSearch
	}
	if f.Adaptive != nil {
		o.Adaptive = *f.Adaptive
	}
	if f.WindowSize != nil {
		o.WindowSize = *f.WindowSize
	}
	if f.CoeffExploiExplo != nil {
		o.CoeffExploiExplo = *f.CoeffExploiExplo
	}
	if f.Simulation != nil {
		o.Simulation = *f.Simulation
	}
	if f.OutputDirectory != nil {
		o.OutputDirectory = *f.OutputDirectory
	}
	return o
}
