package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/blaze-data/blaze/internal/testutil"
	"github.com/blaze-data/blaze/internal/version"
)

func executeCommand(args ...string) (string, string, error) {
	// Reset flag values before each test
	versionStyle = ""
	versionFormat = "text"
	versionPick = false
	stampBuild = false
	stampPick = false
	initForce = false
	historyLimit = 0
	queryData = ""
	queryWhere = ""
	querySelect = nil
	queryHead = 0
	queryFormat = "table"
	verbose = false
	jsonOutput = false

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)

	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "blaze") {
		t.Error("Help output should contain 'blaze'")
	}
	if !strings.Contains(stdout, "version") {
		t.Error("Help output should mention version derivation")
	}
}

func TestGlobalFlags(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help failed: %v", err)
	}

	if !strings.Contains(stdout, "--verbose") {
		t.Error("Should have --verbose flag")
	}
	if !strings.Contains(stdout, "--json") {
		t.Error("Should have --json flag")
	}
}

func TestVersionCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	stdout, _, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	if strings.TrimSpace(stdout) != "1.2.0" {
		t.Errorf("version output = %q, want 1.2.0", strings.TrimSpace(stdout))
	}
}

func TestVersionCommand_StyleOverride(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.ScriptGit("v1.2.0-3-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	stdout, _, err := executeCommand("version", "--style", "git-describe")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	if strings.TrimSpace(stdout) != "1.2.0-3-gabcdef1" {
		t.Errorf("version output = %q", strings.TrimSpace(stdout))
	}
}

func TestVersionCommand_JSONFormat(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	stdout, _, err := executeCommand("version", "--format", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	var info version.Info
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.FullRevisionID != "abcdef1234567890abcdef1234567890abcdef12" {
		t.Errorf("FullRevisionID = %q", info.FullRevisionID)
	}
}

func TestVersionCommand_PickWithoutTerminal(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.ScriptTags("v1.2.0|2024-03-01", "v1.1.0|2024-01-15")

	// Test binaries run without a terminal, so --pick falls back to the
	// plain tag listing and reports that a terminal is needed.
	stdout, _, err := executeCommand("version", "--pick")
	if err == nil {
		t.Error("--pick without a terminal should fail")
	}
	if !strings.Contains(stdout, "v1.2.0") || !strings.Contains(stdout, "v1.1.0") {
		t.Errorf("fallback should list the tags:\n%s", stdout)
	}
}

func TestVersionCommand_InvalidConfig(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg("[versioneer]\nstyle = not-a-style\n")

	_, _, err := executeCommand("version")
	if err == nil {
		t.Error("version with an invalid configuration should fail")
	}
}

func TestVersionCommand_Unknown(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	// Config present but no repo, no stamp, no matching parent dir.
	env.WriteSetupCfg(testutil.DefaultSetupCfg)

	stdout, _, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	if strings.TrimSpace(stdout) != "0+unknown" {
		t.Errorf("version output = %q, want 0+unknown", strings.TrimSpace(stdout))
	}
}

func TestStampCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	_, _, err := executeCommand("stamp")
	if err != nil {
		t.Fatalf("stamp failed: %v", err)
	}

	data := env.StampedVersion("blaze/_version.json")

	var info version.Info
	if err := json.Unmarshal(data, &info); err != nil {
		t.Fatalf("stamp is not JSON: %v", err)
	}
	if info.Version != "1.2.0" {
		t.Errorf("stamped version = %q", info.Version)
	}

	// Stamp is recorded in history
	stdout, _, err := executeCommand("history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(stdout, "1.2.0") {
		t.Errorf("history should list the stamp:\n%s", stdout)
	}
}

func TestStampCommand_RefreshesAfterNewTag(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	if _, _, err := executeCommand("stamp"); err != nil {
		t.Fatalf("first stamp failed: %v", err)
	}

	// A new release tag lands; re-stamping must pick it up rather than
	// re-reading the previous stamp.
	env.ScriptGit("v1.3.0-0-g1234567", "1234567890abcdef1234567890abcdef12345678", "main", "2024-04-01 09:00:00 +0100")

	if _, _, err := executeCommand("stamp"); err != nil {
		t.Fatalf("second stamp failed: %v", err)
	}

	var info version.Info
	if err := json.Unmarshal(env.StampedVersion("blaze/_version.json"), &info); err != nil {
		t.Fatalf("stamp is not JSON: %v", err)
	}
	if info.Version != "1.3.0" {
		t.Errorf("second stamp wrote %q, want 1.3.0", info.Version)
	}
}

func TestStampCommand_NoVersionfile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg("[versioneer]\nVCS = git\ntag_prefix = v\n")
	env.InitRepo()
	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	_, _, err := executeCommand("stamp")
	if err == nil {
		t.Error("stamp without versionfile_source should fail")
	}
}

func TestInitCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	_, _, err := executeCommand("init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	data, ok := env.FS.GetFile("/proj/setup.cfg")
	if !ok {
		t.Fatal("init should write setup.cfg")
	}
	if !strings.Contains(string(data), "[versioneer]") {
		t.Error("starter config should carry a [versioneer] section")
	}

	// Refuses to overwrite without --force
	_, _, err = executeCommand("init")
	if err == nil {
		t.Error("init over an existing setup.cfg should fail")
	}

	_, _, err = executeCommand("init", "--force")
	if err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.InitRepo()
	env.FS.AddDir("/proj/blaze")
	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	stdout, _, err := executeCommand("doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, stdout)
	}

	if !strings.Contains(stdout, "git binary") {
		t.Error("doctor should report the git check")
	}
	if !strings.Contains(stdout, "✓") {
		t.Error("doctor should mark passing checks")
	}
}

func TestDoctorCommand_NoConfig(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.ScriptGit("v1.2.0-0-gabcdef1", "abcdef1234567890abcdef1234567890abcdef12", "main", "2024-03-01 12:34:56 +0100")

	stdout, _, err := executeCommand("doctor")
	if err == nil {
		t.Errorf("doctor without configuration should fail:\n%s", stdout)
	}
}

func TestHistoryCommand_Empty(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	_, _, err := executeCommand("history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
}

func TestLintConfigCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)

	stdout, _, err := executeCommand("lint", "config")
	if err != nil {
		t.Fatalf("lint config failed: %v", err)
	}

	if !strings.Contains(stdout, "max-line-length: 160") {
		t.Errorf("output should show the line length:\n%s", stdout)
	}
	if !strings.Contains(stdout, "E203") {
		t.Errorf("output should show the ignore list:\n%s", stdout)
	}
}

func TestLintCheckCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)

	stdout, _, err := executeCommand("lint", "check", "E501", "W291")
	if err != nil {
		t.Fatalf("lint check failed: %v", err)
	}

	// E501 is ignored, W291 falls under the W select entry.
	if !strings.Contains(stdout, "E501: disabled") {
		t.Errorf("E501 should be disabled:\n%s", stdout)
	}
	if !strings.Contains(stdout, "W291: enabled") {
		t.Errorf("W291 should be enabled:\n%s", stdout)
	}
}

func TestLintRunCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.WriteFile("src/app.py", "x = 1 \n")

	stdout, _, err := executeCommand("lint", "run", "src/app.py")
	if err == nil {
		t.Error("lint run with findings should exit non-zero")
	}
	if !strings.Contains(stdout, "W291") {
		t.Errorf("findings should name the code:\n%s", stdout)
	}
}

func TestLintRunCommand_Clean(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.WriteFile("src/app.py", "x = 1\n")

	_, _, err := executeCommand("lint", "run", "src/app.py")
	if err != nil {
		t.Errorf("clean file should pass: %v", err)
	}
}

func TestQueryCommand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.WriteFile("accounts.csv", "name,balance\nAlice,100\nBob,-50\nCharlie,-20\n")

	stdout, _, err := executeCommand("query",
		"--data", "accounts.csv",
		"--where", "balance < 0",
		"--select", "name")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if !strings.Contains(stdout, "Bob") || !strings.Contains(stdout, "Charlie") {
		t.Errorf("query should return the negative balances:\n%s", stdout)
	}
	if strings.Contains(stdout, "Alice") {
		t.Errorf("query should filter out positive balances:\n%s", stdout)
	}
}

func TestQueryCommand_JSONData(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.WriteFile("rows.json", `[{"name":"Alice","balance":100},{"name":"Bob","balance":-50}]`)

	stdout, _, err := executeCommand("query",
		"--data", "rows.json",
		"--where", "balance >= 0",
		"--format", "json")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if len(rows) != 1 || rows[0]["name"] != "Alice" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestQueryCommand_Head(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.WriteFile("accounts.csv", "name,balance\nAlice,100\nBob,-50\nCharlie,-20\n")

	stdout, _, err := executeCommand("query", "--data", "accounts.csv", "--head", "1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if !strings.Contains(stdout, "Alice") || strings.Contains(stdout, "Bob") {
		t.Errorf("head should keep only the first row:\n%s", stdout)
	}
}

func TestQueryCommand_BadWhere(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()

	env.WriteSetupCfg(testutil.DefaultSetupCfg)
	env.WriteFile("accounts.csv", "name,balance\nAlice,100\n")

	_, _, err := executeCommand("query", "--data", "accounts.csv", "--where", "balance <>")
	if err == nil {
		t.Error("malformed --where clause should fail")
	}
}

func TestCommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"version", "--help"}, "--style"},
		{[]string{"stamp", "--help"}, "--build"},
		{[]string{"init", "--help"}, "--force"},
		{[]string{"history", "--help"}, "--limit"},
		{[]string{"lint", "--help"}, "config"},
		{[]string{"query", "--help"}, "--where"},
		{[]string{"doctor", "--help"}, "git"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			stdout, _, err := executeCommand(tt.args...)
			if err != nil {
				t.Fatalf("help failed: %v", err)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("help for %v should mention %q:\n%s", tt.args, tt.want, stdout)
			}
		})
	}
}
