package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/e-gun/SimGraphServer/web"
)

func testserver(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(web.NewEchoServer(ctx))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv.URL
}

// run - execute sgsctl with args against base; stdin is in
func run(t *testing.T, base string, in string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetArgs(append([]string{"--server", base}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestYAMLPayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
		label string
		want  string
	}{
		{
			name:  "run with label",
			input: "label: Simulation 1\npoints:\n  - {x: 2020-05-01, y: 12}\n  - {x: 2020-05-02, y: 7}\n",
			want:  `["Simulation 1",[{"x":"2020-05-01","y":12},{"x":"2020-05-02","y":7}]]`,
		},
		{
			name:  "bare points get the flag label",
			input: "- {dayNumber: 0, y: 3, matureCount: 1, totalNumberOfCards: 4}\n",
			label: "flagged",
			want:  `["flagged",[{"dayNumber":0,"y":3,"matureCount":1,"totalNumberOfCards":4}]]`,
		},
		{
			name:  "no points",
			input: "label: empty\n",
			want:  `["empty",[]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := yamlpayload([]byte(tt.input), tt.label)
			if err != nil {
				t.Fatalf("yamlpayload() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("yamlpayload() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := yamlpayload([]byte("just a string"), ""); err == nil {
		t.Errorf("a scalar was accepted")
	}
	if _, err := yamlpayload([]byte(""), ""); err != errEmptyInput {
		t.Errorf("empty input error = %v", err)
	}
}

func TestRelabelAndSniffing(t *testing.T) {
	got, err := relabel([]byte(`["old", [{"y": 1}]]`), "new")
	if err != nil {
		t.Fatal(err)
	}
	var parts []json.RawMessage
	if err = json.Unmarshal([]byte(got), &parts); err != nil || string(parts[0]) != `"new"` {
		t.Errorf("relabel() = %s", got)
	}

	if isyaml("", []byte(` ["a", []]`)) || !isyaml("", []byte("label: a")) {
		t.Errorf("isyaml() sniffed wrong")
	}
	if !isyaml("run.yml", []byte(`["a", []]`)) || isyaml("run.json", []byte("label: a")) {
		t.Errorf("isyaml() ignored the extension")
	}
}

func TestRoundTripAgainstServer(t *testing.T) {
	base := testserver(t)

	id, err := run(t, base, "", "new")
	if err != nil || id == "" {
		t.Fatalf("new = %q, %v", id, err)
	}

	if out, err := run(t, base, "", "init", id, "--high-contrast"); err != nil || !strings.Contains(out, "high contrast: true") {
		t.Fatalf("init = %q, %v", out, err)
	}

	yml := filepath.Join(t.TempDir(), "run.yaml")
	if err = os.WriteFile(yml, []byte("label: From YAML\npoints:\n  - {y: 1000}\n  - {y: 2000}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if out, err := run(t, base, "", "add", id, yml); err != nil || !strings.Contains(out, "added 'From YAML'") {
		t.Fatalf("add yaml = %q, %v", out, err)
	}

	if out, err := run(t, base, `["", [{"y": 5}]]`, "add", id); err != nil || !strings.Contains(out, "Simulation 2") {
		t.Fatalf("add stdin = %q, %v", out, err)
	}

	out, err := run(t, base, "", "show", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3,000 reviews") || !strings.Contains(out, "Simulation 2") {
		t.Errorf("show = %q", out)
	}

	if out, err = run(t, base, "", "hover", id, "0", "1"); err != nil || !strings.Contains(out, "Day: 1") {
		t.Errorf("hover = %q, %v", out, err)
	}

	if out, err = run(t, base, "", "pop", id); err != nil || !strings.Contains(out, "removed 'Simulation 2'; 1 left") {
		t.Errorf("pop = %q, %v", out, err)
	}

	if _, err = run(t, base, `{"not":"an array"}`, "add", id, "-"); err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("malformed add error = %v", err)
	}

	if out, err = run(t, base, "", "drop", id); err != nil {
		t.Errorf("drop = %q, %v", out, err)
	}
	if _, err = run(t, base, "", "show", id); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("show after drop error = %v", err)
	}
}
