package engine

import (
	"github.com/rs/zerolog/log"
)

// cleanupStack collects acquired resources in acquisition order and releases
// them in reverse. A failing release is logged and discarded so it can
// neither mask the pipeline's error nor block the remaining releases.
type cleanupStack struct {
	names []string
	fns   []func() error
}

func newCleanupStack() *cleanupStack {
	return &cleanupStack{}
}

func (c *cleanupStack) add(name string, fn func() error) {
	c.names = append(c.names, name)
	c.fns = append(c.fns, fn)
}

func (c *cleanupStack) release() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i](); err != nil {
			log.Debug().Err(err).Str("resource", c.names[i]).Msg("cleanup failed")
		}
	}
	c.fns = nil
	c.names = nil
}
