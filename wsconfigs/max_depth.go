package wsconfigs

import (
	"github.com/reusee/whitespace/cmds"
	"github.com/reusee/whitespace/configs"
	"github.com/reusee/whitespace/vars"
)

// MaxDepth caps nested label invocations. Zero means the machine default.
type MaxDepth int

var maxDepthFlag = cmds.Var[int]("-max-depth")

func (Module) MaxDepth(
	loader configs.Loader,
) MaxDepth {
	return MaxDepth(vars.FirstNonZero(
		*maxDepthFlag,
		configs.First[int](loader, "max_depth"),
	))
}
