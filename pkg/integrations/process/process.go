// Package process resolves application names from process IDs through
// /proc, for windows that carry a PID but no usable class.
package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// procRoot is the procfs mount point.
var procRoot = "/proc"

// Name returns the executable name of pid as the kernel reports it in
// /proc/<pid>/stat.
func Name(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}

	data, err := os.ReadFile(filepath.Join(procRoot, strconv.Itoa(pid), "stat"))
	if err != nil {
		return "", err
	}

	name, ok := parseStatName(string(data))
	if !ok {
		return "", fmt.Errorf("malformed stat for pid %d", pid)
	}
	return name, nil
}

// parseStatName extracts the comm field. It is wrapped in parentheses and may
// itself contain spaces or parentheses, so the last ")" closes it.
func parseStatName(stat string) (string, bool) {
	start := strings.Index(stat, "(")
	end := strings.LastIndex(stat, ")")
	if start == -1 || end <= start+1 {
		return "", false
	}
	return stat[start+1 : end], true
}
