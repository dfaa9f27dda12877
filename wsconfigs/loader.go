package wsconfigs

import (
	_ "embed"
	"os"
	"path/filepath"
	"slices"

	"github.com/reusee/whitespace/cmds"
	"github.com/reusee/whitespace/configs"
	"github.com/reusee/whitespace/logs"
)

//go:embed schema.cue
var schema string

var filenames = []string{
	"whitespace.cue",
	".whitespace.cue",
	"whitespace.toml",
	".whitespace.toml",
}

// files given on the command line, in order, before the searched ones
var configFlag = cmds.Collect[string]("-config")

// ConfigPaths returns config files, most specific first.
type ConfigPaths []string

func (Module) ConfigPaths() ConfigPaths {
	var dirs []string
	// working directory
	if dir, err := os.Getwd(); err == nil {
		dirs = append(dirs, dir)
	}
	// user config dir
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	// system wide dir
	dirs = append(dirs, "/etc")

	paths := ConfigPaths(slices.Clone(*configFlag))
	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

func (Module) ConfigsLoader(
	logger logs.Logger,
	paths ConfigPaths,
) configs.Loader {
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", []string(paths),
		)
	}
	return configs.NewLoader(paths, schema)
}
