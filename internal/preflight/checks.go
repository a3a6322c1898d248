package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"storyreel/internal/story"
	"storyreel/internal/transcript"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckReadableFile verifies that path is a regular file the process can read.
func CheckReadableFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckStory verifies the story document parses and carries a title.
func CheckStory(name, path string) Result {
	if res := CheckReadableFile(name, path); !res.Passed {
		return res
	}
	st, err := story.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%q", st.Title)}
}

// CheckTranscript reports whether captions can be produced. A missing or
// empty transcript is not blocking; the schedule falls back to the title card.
func CheckTranscript(name, path string) Result {
	tr, err := transcript.Load(path)
	switch {
	case errors.Is(err, transcript.ErrUnavailable):
		return Result{Name: name, Optional: true, Detail: "unavailable (title card only until transcription finishes)"}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	case len(tr.Tokens) == 0:
		return Result{Name: name, Optional: true, Detail: "empty (title card only)"}
	}
	detail := fmt.Sprintf("%d tokens", len(tr.Tokens))
	if tr.Skipped > 0 {
		detail += fmt.Sprintf(", %d skipped", tr.Skipped)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckBinary reports whether command resolves on PATH.
func CheckBinary(name, command, description string) Result {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found (%s)", cmd, description)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}
