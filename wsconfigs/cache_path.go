package wsconfigs

import (
	"github.com/reusee/whitespace/cmds"
	"github.com/reusee/whitespace/configs"
	"github.com/reusee/whitespace/vars"
)

// CachePath is the program cache database file. Empty disables caching.
type CachePath string

var cachePathFlag = cmds.Var[string]("-cache")

func (Module) CachePath(
	loader configs.Loader,
) CachePath {
	return CachePath(vars.FirstNonZero(
		*cachePathFlag,
		configs.First[string](loader, "cache"),
	))
}
