package cost

import (
	"os"

	"gopkg.in/yaml.v2"
)

// LoadPolicy reads a Policy from a YAML file at path, starting from
// DefaultPolicy and overwriting whichever fields the file sets. A missing
// file is not an error: it just yields the defaults, matching the
// teacher's "ambient config with defaults" convention.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}
