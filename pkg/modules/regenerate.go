package modules

// Request configures a regeneration.
type Request struct {
	// Root is the platform root
	Root string

	// Paths are the module.xml globs, relative to Root
	Paths []string

	// ConfigFile is the config.php path
	ConfigFile string

	// Enable and Disable are comma separated module lists, or "all"
	Enable  string
	Disable string
}

// Regenerate discovers the modules, computes their flags and writes them to
// the config file. It returns the persisted flags.
func Regenerate(req Request) ([]State, error) {
	mods, err := Discover(req.Root, req.Paths)
	if err != nil {
		return nil, err
	}

	current, err := ReadConfig(req.ConfigFile)
	if err != nil {
		return nil, err
	}

	states, err := Compute(Names(mods), current, req.Enable, req.Disable)
	if err != nil {
		return nil, err
	}

	if err := WriteConfig(req.ConfigFile, states); err != nil {
		return nil, err
	}

	return states, nil
}
