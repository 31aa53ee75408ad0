package recipe

import (
	"fmt"
	"sync"
	"time"

	"github.com/calthrop/bastion/pkg/params"
)

// EvalTimeout is the hard limit for a single recipe evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	modules []params.ModuleParameters
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, returning a timeout
// error when the evaluation exceeds EvalTimeout. The generation
// counter discards stale results: a timed-out goroutine may still be
// running, and its eventual result must not be confused with a newer
// evaluation's.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) ([]params.ModuleParameters, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.modules, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
