package storages

import (
	"context"

	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/wsconfigs"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs wsconfigs.Module
}

// OpenCache opens the configured cache, or returns nil if none is configured.
// The caller closes it.
type OpenCache func(ctx context.Context) (*ProgramCache, error)

func (Module) OpenCache(
	path wsconfigs.CachePath,
	logger logs.Logger,
) OpenCache {
	return func(ctx context.Context) (*ProgramCache, error) {
		if path == "" {
			return nil, nil
		}
		logger.DebugContext(ctx, "open program cache", "path", string(path))
		return OpenProgramCache(ctx, string(path))
	}
}
