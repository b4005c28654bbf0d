package runner

import (
	"bytes"
	"io"
	"os/exec"
	"strings"
)

// runStreaming tees the command's stdout/stderr into the supplied writers
// while collecting the output for failure reports.
func runStreaming(cmd *exec.Cmd, stdout, stderr io.Writer) (Outcome, error) {
	var stdoutBuf, stderrBuf bytes.Buffer

	if stdout != nil {
		cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	return Outcome{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}, err
}
