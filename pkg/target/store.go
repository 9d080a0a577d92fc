package target

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/EESSI/stackinit/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed data/targets.yaml
	tableData []byte

	storeOnce    sync.Once
	cachedTables *tables
	cachedErr    error
)

// tables is the embedded target table document.
type tables struct {
	CPU   []Table      `json:"cpu" yaml:"cpu"`
	Accel []AccelTable `json:"accel" yaml:"accel"`
}

// loadTables parses and caches the embedded target tables.
// Because the data is embedded at build time, it is safe (and simpler) to
// parse it once and reuse the in-memory representation for the lifetime of
// the process.
func loadTables() (*tables, error) {
	storeOnce.Do(func() {
		var t tables
		if err := yaml.Unmarshal(tableData, &t); err != nil {
			cachedErr = err
			return
		}
		if err := t.validate(); err != nil {
			cachedErr = err
			return
		}
		cachedTables = &t
	})

	if cachedErr != nil {
		return nil, cachedErr
	}
	if cachedTables == nil {
		return nil, errors.New(errors.ErrCodeInternal, "target tables not initialized")
	}
	return cachedTables, nil
}

// Machines returns the machine types with built-in tables, in table order.
func Machines() ([]string, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	machines := make([]string, 0, len(t.CPU))
	for _, tbl := range t.CPU {
		machines = append(machines, tbl.Machine)
	}
	return machines, nil
}

// TableFor returns the built-in table for the given machine type, or nil
// when none exists.
func TableFor(machine string) (*Table, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	for i := range t.CPU {
		if t.CPU[i].Machine == machine {
			return &t.CPU[i], nil
		}
	}
	return nil, nil
}

// AccelTableFor returns the built-in accelerator table for the given device
// family, or nil when none exists.
func AccelTableFor(family string) (*AccelTable, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	for i := range t.Accel {
		if t.Accel[i].Family == family {
			return &t.Accel[i], nil
		}
	}
	return nil, nil
}

// AccelTables returns all built-in accelerator tables.
func AccelTables() ([]AccelTable, error) {
	t, err := loadTables()
	if err != nil {
		return nil, err
	}
	return t.Accel, nil
}

// validate checks the structural invariants of the table document: unique
// entry paths under their own machine table, resolvable parents with
// cumulative feature sets, and well formed tier names.
func (t *tables) validate() error {
	for _, tbl := range t.CPU {
		if tbl.Machine == "" {
			return fmt.Errorf("table with empty machine type")
		}
		if len(tbl.Entries) == 0 {
			return fmt.Errorf("table %q has no entries", tbl.Machine)
		}

		byPath := make(map[string]Entry, len(tbl.Entries))
		for _, e := range tbl.Entries {
			if e.Machine() != tbl.Machine {
				return fmt.Errorf("entry %q does not belong to machine table %q", e.Path, tbl.Machine)
			}
			if _, dup := byPath[e.Path]; dup {
				return fmt.Errorf("duplicate entry %q in table %q", e.Path, tbl.Machine)
			}
			byPath[e.Path] = e
		}

		for _, e := range tbl.Entries {
			if e.Parent == "" {
				continue
			}
			parent, ok := byPath[e.Parent]
			if !ok {
				return fmt.Errorf("entry %q references unknown parent %q", e.Path, e.Parent)
			}
			features := make(map[string]struct{}, len(e.Features))
			for _, f := range e.Features {
				features[f] = struct{}{}
			}
			for _, f := range parent.Features {
				if _, ok := features[f]; !ok {
					return fmt.Errorf("entry %q is missing feature %q required by parent %q", e.Path, f, e.Parent)
				}
			}
		}
	}

	for _, tbl := range t.Accel {
		if tbl.Family == "" {
			return fmt.Errorf("accelerator table with empty family")
		}
		for _, tier := range tbl.Tiers {
			if _, err := TierNumber(tier); err != nil {
				return fmt.Errorf("accelerator table %q: %w", tbl.Family, err)
			}
		}
	}

	return nil
}
