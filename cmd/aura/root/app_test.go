package root

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func useTempApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AURA_LOG", "")
	t.Setenv("AURA_PROFILE", "")
	flagDB = filepath.Join(dir, "data", "aura.db")
	flagConfig = filepath.Join(dir, "config.toml")
	flagProfile = ""
	t.Cleanup(func() { flagDB, flagConfig = "", "" })
	return dir
}

func TestLogPathFor(t *testing.T) {
	if got := logPathFor("/home/a/.aura/aura.db", "board.log"); got != "/home/a/.aura/board.log" {
		t.Fatalf("logPathFor=%q", got)
	}
	if got := logPathFor("/home/a/.aura/aura.db", "/tmp/x.log"); got != "/tmp/x.log" {
		t.Fatalf("absolute logPathFor=%q", got)
	}
}

func TestBoardAppLogsToFile(t *testing.T) {
	dir := useTempApp(t)
	ctx := context.Background()

	a, cleanup, err := openAppWith(ctx, boardLogFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.svc.Dashboard(ctx, a.profile, time.Now()); err != nil {
		cleanup()
		t.Fatalf("dashboard: %v", err)
	}
	cleanup()

	b, err := os.ReadFile(filepath.Join(dir, "data", boardLogFile))
	if err != nil {
		t.Fatalf("read board log: %v", err)
	}
	if !strings.Contains(string(b), "daily quests generated") {
		t.Fatalf("board log missing engine lines:\n%s", b)
	}
}
