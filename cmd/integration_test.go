package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const people = `first_name,last_name,company_name,address,city,county,state,zip,phone1,phone2,email,web
James,Butt,"Benton, John B Jr",6649 N Blue Gum St,New Orleans,Orleans,LA,70116,504-621-8927,504-845-1427,jbutt@gmail.com,http://www.bentonjohnbjr.com
Josephine,Darakjy,"Chanay, Jeffrey A Esq",4 B Blue Ridge Blvd,Brighton,Livingston,MI,48116,810-292-9388,,josephine_darakjy@darakjy.org,http://www.chanayjeffreyaesq.com
Art,Venere,"Chemel, James L Cpa",8 W Cerritos Ave #54,Bridgeport,Gloucester,NJ,08014,856-636-8749,856-264-4130,art@venere.org,http://www.chemeljameslcpa.com
Lenna,Paprocki,Feltz Printing Service,639 Main St,Anchorage,Anchorage,AK,99501,,907-921-2010,lpaprocki@hotmail.com,
Donette,Foller,Printing Dimensions,34 Center St,Hamilton,Butler,LA,45011,513-570-1893,513-549-4561,donette.foller@cox.net,http://www.printingdimensions.com
`

// resetFlags restores every flag to its default; cobra keeps values and
// Changed state across Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout and stderr.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out, errb bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errb)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errb.String(), err
}

func mustRun(t *testing.T, args ...string) (string, string) {
	t.Helper()
	out, errOut, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\nstderr: %s", args, err, errOut)
	}
	return out, errOut
}

// setup isolates HOME and writes the dataset fixture.
func setup(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := filepath.Join(home, "us-500.csv")
	if err := os.WriteFile(p, []byte(people), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return p
}

func TestCLI_SearchJSON(t *testing.T) {
	src := setup(t)
	out, errOut := mustRun(t, "search", "la", "-f", "state", "-o", "json", "--source", src)

	var got []map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("stdout is not json: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0]["first_name"] != "James" || got[1]["first_name"] != "Donette" {
		t.Fatalf("unexpected matches: %v", got)
	}
	if got[0]["company_name"] != "Benton, John B Jr" {
		t.Fatalf("quoted comma not kept: %q", got[0]["company_name"])
	}
	if !strings.Contains(errOut, "Showing 2 of 5 records") {
		t.Fatalf("status line missing from stderr: %q", errOut)
	}
}

func TestCLI_SearchSingleFirstNameShowsCard(t *testing.T) {
	src := setup(t)
	out, _ := mustRun(t, "search", "LENNA", "-f", "first_name", "--source", src)

	if !strings.Contains(out, "Showing 1 of 5 records") {
		t.Fatalf("missing status line: %s", out)
	}
	for _, want := range []string{"Lenna Paprocki", "Feltz Printing Service", "907-921-2010", "N/A"} {
		if !strings.Contains(out, want) {
			t.Fatalf("card missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "FIRST NAME") {
		t.Fatalf("table should not be shown with a card:\n%s", out)
	}
}

func TestCLI_SearchTableAndEmpty(t *testing.T) {
	src := setup(t)
	out, _ := mustRun(t, "search", "printing", "-f", "company_name", "--source", src)
	if !strings.Contains(out, "Showing 2 of 5 records") || !strings.Contains(out, "FIRST NAME") {
		t.Fatalf("expected table of two records:\n%s", out)
	}

	out, _ = mustRun(t, "search", "nobody", "-f", "last_name", "--source", src)
	if !strings.Contains(out, "Showing 0 of 5 records") || !strings.Contains(out, "No matching records found") {
		t.Fatalf("expected empty result:\n%s", out)
	}
}

func TestCLI_SearchWritesFile(t *testing.T) {
	src := setup(t)
	dest := filepath.Join(t.TempDir(), "out", "la.csv")
	out, _ := mustRun(t, "search", "LA", "-f", "state", "-o", "csv", "--out", dest, "--source", src)
	if !strings.Contains(out, "✓ Wrote 2 records to") {
		t.Fatalf("unexpected stdout: %s", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "first_name,last_name") {
		t.Fatalf("unexpected csv:\n%s", b)
	}
}

func TestCLI_SearchRejectsUnknownField(t *testing.T) {
	src := setup(t)
	if _, _, err := runCmd(t, "search", "x", "-f", "nickname", "--source", src); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestCLI_SummaryListAndCSV(t *testing.T) {
	src := setup(t)
	out, _ := mustRun(t, "summary", "--by", "state", "--list", "--source", src)
	want := "People per State:\nAK: 1\nLA: 2\nMI: 1\nNJ: 1\n"
	if out != want {
		t.Fatalf("list mismatch:\n got %q\nwant %q", out, want)
	}

	out, _ = mustRun(t, "summary", "--by", "state", "-o", "csv", "--source", src)
	if out != "value,count\nLA,2\nAK,1\nMI,1\nNJ,1\n" {
		t.Fatalf("csv mismatch: %q", out)
	}

	out, _ = mustRun(t, "summary", "--by", "county", "--bars", "--source", src)
	if !strings.HasPrefix(out, "Distribution by County:") || strings.Count(out, "\n") != 6 {
		t.Fatalf("bars mismatch:\n%s", out)
	}
}

func TestCLI_FallbackOnMissingSource(t *testing.T) {
	setup(t)
	missing := filepath.Join(t.TempDir(), "missing.csv")
	out, errOut := mustRun(t, "search", "-o", "json", "--source", missing)

	if !strings.Contains(errOut, "Note: server returned 404 Not Found. Using fallback data instead.") {
		t.Fatalf("missing fallback note: %q", errOut)
	}
	if !strings.Contains(errOut, "Showing 1 of 1 records (using fallback data)") {
		t.Fatalf("missing fallback status: %q", errOut)
	}
	if !strings.Contains(out, `"first_name": "-"`) {
		t.Fatalf("expected placeholder record: %s", out)
	}
}

func TestCLI_FallbackOnUndecodablePayload(t *testing.T) {
	src := setup(t)
	bad := filepath.Join(filepath.Dir(src), "bad.csv")
	if err := os.WriteFile(bad, []byte("just a header line\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, errOut := mustRun(t, "summary", "--list", "--source", bad)
	if !strings.Contains(errOut, "CSV parsing completed but no valid data found") {
		t.Fatalf("expected decode failure note: %q", errOut)
	}
}

func TestCLI_ProfileToFile(t *testing.T) {
	src := setup(t)
	dest := filepath.Join(t.TempDir(), "profile.md")
	mustRun(t, "profile", "-o", dest, "--source", src)
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !strings.Contains(string(b), "[DATASET PROFILE]") || !strings.Contains(string(b), "Rows: 5") {
		t.Fatalf("unexpected profile:\n%s", b)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	src := setup(t)
	mustRun(t, "config", "set", "source_url", src)
	mustRun(t, "config", "set", "summary_field", "City")
	if _, _, err := runCmd(t, "config", "set", "decoder", "fancy"); err == nil {
		t.Fatalf("expected invalid decoder error")
	}
	if _, _, err := runCmd(t, "config", "set", "retry_max_attempts", "0"); err == nil {
		t.Fatalf("expected invalid retry_max_attempts error")
	}

	out, _ := mustRun(t, "config", "show")
	if !strings.Contains(out, "source_url: "+src) || !strings.Contains(out, "summary_field: city") {
		t.Fatalf("config not persisted:\n%s", out)
	}

	// summary now reads the configured source and field
	out, _ = mustRun(t, "summary", "--list")
	if !strings.HasPrefix(out, "People per City:\n") {
		t.Fatalf("configured summary field not used:\n%s", out)
	}
}

func TestCLI_ConfigSetDecoderStoresCanonicalName(t *testing.T) {
	setup(t)
	mustRun(t, "config", "set", "decoder", " Compat")
	out, _ := mustRun(t, "config", "show")
	if !strings.Contains(out, "decoder: compat\n") {
		t.Fatalf("decoder not normalized:\n%s", out)
	}

	// an empty value selects the default decoder
	mustRun(t, "config", "set", "decoder", "")
	out, _ = mustRun(t, "config", "show")
	if !strings.Contains(out, "decoder: standard\n") {
		t.Fatalf("empty decoder not mapped to default:\n%s", out)
	}
}
