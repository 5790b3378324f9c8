// Package procs terminates background processes by command-line signature.
// Used before overwriting an installed binary so the running daemon does not
// keep the old executable pinned.
package procs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/itsameandrea/muesliup/internal/messages"
)

// settleDelay is the fixed pause after signaling, giving the daemon time to
// exit before its binary is replaced.
const settleDelay = time.Second

var (
	pgrepFn     = runPgrep
	killFn      = unix.Kill
	settleSleep = time.Sleep
)

// TerminateByPattern sends SIGTERM to every process whose full command line
// matches pattern, then waits the settle delay. "No such process" is
// tolerated both from pgrep and from the kill itself (the process may exit
// between the two). Returns the number of processes signaled.
func TerminateByPattern(ctx context.Context, pattern string) (int, error) {
	pids, err := pgrepFn(ctx, pattern)
	if err != nil {
		return 0, err
	}
	if len(pids) == 0 {
		return 0, nil
	}

	signaled := 0
	for _, pid := range pids {
		if err := killFn(pid, unix.SIGTERM); err != nil {
			if errors.Is(err, unix.ESRCH) {
				continue
			}
			return signaled, fmt.Errorf(messages.SystemSignalProcessFmt, pid, err)
		}
		signaled++
	}

	if signaled > 0 {
		settleSleep(settleDelay)
	}
	return signaled, nil
}

// runPgrep lists PIDs whose full command line matches pattern. pgrep exits 1
// when nothing matches; that is an empty result, not an error.
func runPgrep(ctx context.Context, pattern string) ([]int, error) {
	out, err := exec.CommandContext(ctx, "pgrep", "-f", pattern).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.SystemRunCommandFmt, "pgrep -f "+pattern, err)
	}

	var pids []int
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf(messages.SystemParsePidFmt, line, err)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}
