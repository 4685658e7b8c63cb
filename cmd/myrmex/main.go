package main

import (
	"context"
	"fmt"
	"os"

	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/myrmex"

	_ "github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
	_ "github.com/myrmex-org/myrmex/pkg/plugins/cloudformation"
	_ "github.com/myrmex-org/myrmex/pkg/plugins/cors"
	_ "github.com/myrmex-org/myrmex/pkg/plugins/iam"
	_ "github.com/myrmex-org/myrmex/pkg/plugins/lambda"
	_ "github.com/myrmex-org/myrmex/pkg/plugins/packager"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	myrmex.Version = Version

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	e, closer, err := cli.Boot(context.Background(), "myrmex", Version, cwd, os.Environ())
	if err != nil {
		return err
	}

	code := e.Execute(os.Args[1:])

	closer.Close()

	os.Exit(code)

	return nil
}
