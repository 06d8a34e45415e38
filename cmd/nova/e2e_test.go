package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets the same test binary double as the nova executable:
// testscript re-execs it with a dispatch argument whenever a script
// says "exec nova", so scripts drive the real CLI without a separate
// go build step.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"nova": func() int { return run() },
	}))
}

func TestBuildScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}
