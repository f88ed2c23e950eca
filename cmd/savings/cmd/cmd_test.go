package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/celosave/savings/internal/service"
	"github.com/spf13/cobra"
)

const testOwner = "0x00000000000000000000000000000000000000aa"

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "savings.db")+"?_pragma=busy_timeout(5000)")
	t.Setenv("LEDGER_CONTRACT_ADDRESS", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("S3_BUCKET", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "savings", SilenceUsage: true, SilenceErrors: true}
	AddFlags(root)
	root.AddCommand(GoalsCmd(), SummaryCmd(), TokenCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGoalCommands(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "--owner", testOwner, "goals", "create", "Emergency fund", "250", "--days", "10")
	if err != nil {
		t.Fatalf("create: %v\n%s", err, out)
	}
	if !strings.Contains(out, "create confirmed (relational)") {
		t.Fatalf("create output = %q", out)
	}

	out, err = run(t, "--owner", testOwner, "goals", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Emergency fund") || !strings.Contains(out, "250.00") {
		t.Fatalf("list output = %q", out)
	}

	id := goalIDFromList(t, out)
	out, err = run(t, "--owner", testOwner, "goals", "deposit", id, "100.5")
	if err != nil {
		t.Fatalf("deposit: %v\n%s", err, out)
	}

	out, err = run(t, "--owner", testOwner, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "saved:     100.50") {
		t.Errorf("summary output = %q", out)
	}

	if _, err := run(t, "--owner", testOwner, "goals", "withdraw", id, "1000"); err == nil {
		t.Error("over-withdraw should fail")
	}
	if _, err := run(t, "--owner", testOwner, "goals", "delete", id); err != nil {
		t.Errorf("delete: %v", err)
	}
}

func TestGoalCommandsRequireOwner(t *testing.T) {
	setupEnv(t)
	t.Setenv("SAVINGS_OWNER", "")

	if _, err := run(t, "--owner", "", "goals", "list"); err == nil {
		t.Error("expected an error without --owner")
	}
}

func TestTokenCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "token", testOwner)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	token := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])

	addr, err := service.NewAuthService("cli-secret", 0).Address(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if addr != testOwner {
		t.Errorf("address = %q", addr)
	}

	if _, err := run(t, "token", "not-an-address"); err == nil {
		t.Error("expected an error for an invalid address")
	}
}

func goalIDFromList(t *testing.T, out string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		t.Fatalf("no goal rows in %q", out)
	}
	return strings.Fields(lines[1])[0]
}
