package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cleverage/tools/pkg/consts"
	"github.com/pkg/errors"
)

var (
	sectionPattern = regexp.MustCompile(`(?s)'modules'\s*=>\s*(?:\[.*?\]|array\s*\(.*?\))`)
	entryPattern   = regexp.MustCompile(`'([^']+)'\s*=>\s*(true|false|\d+)`)
	returnPattern  = regexp.MustCompile(`return\s*(?:\[|array\s*\()`)
)

// ReadConfig returns the module flags declared in the modules section of the
// config file at path. A missing file or section yields an empty map.
func ReadConfig(path string) (map[string]bool, error) {
	flags := make(map[string]bool)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return flags, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	section := sectionPattern.Find(data)
	if section == nil {
		return flags, nil
	}

	// skip the 'modules' key itself
	body := section[strings.Index(string(section), "=>")+2:]
	for _, m := range entryPattern.FindAllSubmatch(body, -1) {
		value := string(m[2])
		flags[string(m[1])] = value != "0" && value != "false"
	}

	return flags, nil
}

// WriteConfig persists states as the modules section of the config file at
// path. The section is replaced in place when present and added to the
// returned array otherwise. A missing file is created.
func WriteConfig(path string, states []State) error {
	section := renderSection(states)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", path)
		}
		data = []byte("<?php\nreturn [\n    " + section + "\n];\n")
	case err != nil:
		return errors.Wrapf(err, "failed to read %s", path)
	case sectionPattern.Match(data):
		loc := sectionPattern.FindIndex(data)
		data = []byte(string(data[:loc[0]]) + section + string(data[loc[1]:]))
	default:
		loc := returnPattern.FindIndex(data)
		if loc == nil {
			return errors.Errorf("no returned array found in %s", path)
		}
		data = []byte(string(data[:loc[1]]) + "\n    " + section + "," + string(data[loc[1]:]))
	}

	if err := os.WriteFile(path, data, consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}

func renderSection(states []State) string {
	var b strings.Builder
	b.WriteString("'modules' => [\n")
	for _, state := range states {
		flag := 0
		if state.Enabled {
			flag = 1
		}
		fmt.Fprintf(&b, "        '%s' => %d,\n", state.Name, flag)
	}
	b.WriteString("    ]")

	return b.String()
}
