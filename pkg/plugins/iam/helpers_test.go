package iam_test

import (
	"bytes"

	"github.com/convox/logger"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/myrmex-org/myrmex/pkg/cli"
)

func init() {
	logger.Output = &bytes.Buffer{}
}

type result struct {
	Code   int
	Stdout string
	Stderr string
}

func testExecute(e *cli.Engine, cmd string) (*result, error) {
	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}

	e.Reader.Reader = &bytes.Buffer{}

	e.Writer.Color = false
	e.Writer.Stdout = &stdout
	e.Writer.Stderr = &stderr

	cp, err := shellquote.Split(cmd)
	if err != nil {
		return nil, err
	}

	return &result{
		Code:   e.Execute(cp),
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}
