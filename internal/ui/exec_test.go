package ui

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

func TestStartDetachedReapsProcess(t *testing.T) {
	cmd := exec.Command(os.Args[0], "-test.run=^$")
	done, err := startDetached(cmd)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected exit error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("process was not reaped")
	}
	if cmd.ProcessState == nil || !cmd.ProcessState.Exited() {
		t.Fatalf("expected exit status to be collected")
	}
}

func TestStartDetachedReportsStartFailure(t *testing.T) {
	if _, err := startDetached(exec.Command("termext-no-such-binary")); err == nil {
		t.Fatalf("expected start error")
	}
}
