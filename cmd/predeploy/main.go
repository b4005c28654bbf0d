package main

import (
	"fmt"
	"os"

	predeployerrors "github.com/alexisbeaulieu97/predeploy/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(predeployerrors.ExitCode(err))
	}
}
