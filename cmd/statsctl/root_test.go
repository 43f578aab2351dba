package main

import (
	"bytes"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "dev")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("QSTASH_ENABLED", "false")
	t.Setenv("STORE_SEED_FILE", "")

	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestClassify_Table(t *testing.T) {
	out, err := runCommand(t, "classify", "c Sharma b Kumar", "run out (Patel/Singh)", "not out")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, want := range []string{"caught", "Sharma", "Kumar", "run_out", "Patel, Singh", "not_out"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestClassify_RequiresStatus(t *testing.T) {
	if _, err := runCommand(t, "classify"); err == nil {
		t.Fatalf("expected an error without statuses")
	}
}

func TestShowPlayer_PreviewJSON(t *testing.T) {
	out, err := runCommand(t, "show", "player", "p-rohit", "--preview", "--json")
	if err != nil {
		t.Fatalf("show player: %v", err)
	}

	var view usecase.CareerView
	if err := sonic.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if view.Career.Batting.Runs != 169 {
		t.Fatalf("expected 169 runs, got %d", view.Career.Batting.Runs)
	}
	if view.Stored {
		t.Fatalf("preview must not be reported as stored")
	}
}

func TestShowPlayer_Table(t *testing.T) {
	out, err := runCommand(t, "show", "player", "p-bumrah")
	if err != nil {
		t.Fatalf("show player: %v", err)
	}
	if !strings.Contains(out, "p-bumrah") || !strings.Contains(out, "wickets") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestShowPlayer_UnknownPlayer(t *testing.T) {
	if _, err := runCommand(t, "show", "player", "p-nobody"); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestShowTeam_Table(t *testing.T) {
	out, err := runCommand(t, "show", "team", "team-mi")
	if err != nil {
		t.Fatalf("show team: %v", err)
	}
	if !strings.Contains(out, "team-mi") || !strings.Contains(out, "Win %") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestRecomputeAll_DryRunJSON(t *testing.T) {
	out, err := runCommand(t, "recompute", "all", "--dry-run", "--workers", "2", "--json")
	if err != nil {
		t.Fatalf("recompute all: %v", err)
	}

	var result usecase.RecomputeResult
	if err := sonic.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !result.DryRun || result.TaskCount != 6 || result.FailedCount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRecomputePlayer_ReportsFailures(t *testing.T) {
	out, err := runCommand(t, "recompute", "player", "p-rohit", "p-nobody")
	if err == nil {
		t.Fatalf("expected failure for unknown player")
	}
	if !strings.Contains(out, "p-rohit") || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("unexpected output %q / error %v", out, err)
	}
}
