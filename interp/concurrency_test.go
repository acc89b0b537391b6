package interp_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/exprvm"
	"github.com/dpotapov/superhtml/interp"
)

// TestConcurrentInterpretersAreIndependent drives many Interpreters against
// the same *exprvm.VM (which compiles and caches programs under its own
// mutex) concurrently, one goroutine per render, to check the per-evaluation
// scope state (value.Context threaded by value down the walk, per DESIGN.md's
// "arena as Go's own call stack" decision) never leaks between them.
func TestConcurrentInterpretersAreIndependent(t *testing.T) {
	vm := exprvm.New()
	const n = 64

	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf(`<ul><li :loop="$[%d,%d,%d]"><b :text="$loop.it"></b></li></ul>`, i, i+1, i+2)

			var out, errw strings.Builder
			ip := interp.New(vm, &out, &errw)
			ip.Start(source(t, fmt.Sprintf("content-%d.html", i), src))
			errs[i] = ip.Advance()
			results[i] = out.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i], "goroutine %d", i)
		want := fmt.Sprintf(`<ul><li><b>%d</b></li><li><b>%d</b></li><li><b>%d</b></li></ul>`, i, i+1, i+2)
		assert.Equal(t, want, results[i], "goroutine %d", i)
	}
}
