package modules

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Module is a declared platform module.
	Module struct {
		// Name is the module name, e.g. Magento_Store
		Name string

		// Sequence lists the modules that must be loaded before this one
		Sequence []string

		// Path is the module.xml the declaration was read from
		Path string
	}

	moduleXML struct {
		Module struct {
			Name     string `xml:"name,attr"`
			Sequence struct {
				Modules []struct {
					Name string `xml:"name,attr"`
				} `xml:"module"`
			} `xml:"sequence"`
		} `xml:"module"`
	}
)

// Discover reads every module.xml matching patterns, relative to root, and
// returns the declared modules in load order.
//
// Example:
//
//	mods, err := modules.Discover("/var/www/magento", consts.ModulePaths)
//	if err != nil {
//		return err
//	}
//
//	for _, mod := range mods {
//		fmt.Println(mod.Name)
//	}
func Discover(root string, patterns []string) ([]Module, error) {
	var mods []Module
	seen := make(map[string]string)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid module pattern: %s", pattern)
		}

		for _, path := range matches {
			mod, err := readModule(path)
			if err != nil {
				return nil, err
			}

			if prev, ok := seen[mod.Name]; ok {
				return nil, errors.Errorf("module %s is declared in both %s and %s", mod.Name, prev, path)
			}
			seen[mod.Name] = path

			mods = append(mods, mod)
		}
	}

	return Sort(mods)
}

func readModule(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Module{}, errors.Wrapf(err, "failed to read %s", path)
	}

	var doc moduleXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Module{}, errors.Wrapf(err, "failed to parse %s", path)
	}

	name := strings.TrimSpace(doc.Module.Name)
	if name == "" {
		return Module{}, errors.Errorf("missing module name in %s", path)
	}

	mod := Module{Name: name, Path: path}
	for _, dep := range doc.Module.Sequence.Modules {
		mod.Sequence = append(mod.Sequence, dep.Name)
	}

	return mod, nil
}

// Sort orders modules alphabetically, moving each module after the modules in
// its sequence. Sequence entries naming unknown modules are ignored.
func Sort(mods []Module) ([]Module, error) {
	byName := make(map[string]Module, len(mods))
	for _, mod := range mods {
		byName[mod.Name] = mod
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	const (
		visiting = 1
		done     = 2
	)

	state := make(map[string]int, len(names))
	sorted := make([]Module, 0, len(names))

	var visit func(name string) error
	visit = func(name string) error {
		state[name] = visiting

		deps := slices.Clone(byName[name].Sequence)
		slices.Sort(deps)
		for _, dep := range deps {
			if _, ok := byName[dep]; !ok {
				continue
			}

			switch state[dep] {
			case visiting:
				return errors.Errorf("Circular sequence reference from '%s' to '%s'.", name, dep)
			case done:
				continue
			}

			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = done
		sorted = append(sorted, byName[name])
		return nil
	}

	for _, name := range names {
		if state[name] == done {
			continue
		}

		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return sorted, nil
}

// Names returns the module names in order.
func Names(mods []Module) []string {
	names := make([]string, len(mods))
	for i, mod := range mods {
		names[i] = mod.Name
	}

	return names
}
