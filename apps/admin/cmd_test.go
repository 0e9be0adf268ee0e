package main

import (
	"testing"

	testutil "github.com/mealmatch/mealmatch/tests"
)

func Test_commandLine_run_help(t *testing.T) {
	cli := commandLine{conf: testutil.NewConfig()}

	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{"admin"}},
		{name: "unknown command", args: []string{"admin", "frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(tt.args); err != errHelp {
				t.Errorf("run(%v) = %v; want errHelp", tt.args, err)
			}
		})
	}
}
