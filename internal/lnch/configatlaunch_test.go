package lnch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/e-gun/SimGraphServer/internal/vv"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantAct string
		check   func(t *testing.T, port int, gl int, hc bool, st int)
	}{
		{"none", nil, ACTRUN, func(t *testing.T, port, gl int, hc bool, st int) {
			if port != vv.SERVEDFROMPORT {
				t.Errorf("port = %d", port)
			}
		}},
		{"port and loglevel", []string{"-sp", "9000", "-gl", "4"}, ACTRUN, func(t *testing.T, port, gl int, hc bool, st int) {
			if port != 9000 || gl != 4 {
				t.Errorf("port = %d, gl = %d", port, gl)
			}
		}},
		{"high contrast and selftests", []string{"-hc", "-st", "-st"}, ACTRUN, func(t *testing.T, port, gl int, hc bool, st int) {
			if !hc || st != 2 {
				t.Errorf("hc = %v, st = %d", hc, st)
			}
		}},
		{"help", []string{"-h"}, ACTHELP, nil},
		{"version", []string{"-v"}, ACTVERSION, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BuildDefaultConfig()
			act, err := ParseArgs(c, tt.args)
			if err != nil {
				t.Fatalf("ParseArgs() error = %v", err)
			}
			if act != tt.wantAct {
				t.Errorf("action = %q, want %q", act, tt.wantAct)
			}
			if tt.check != nil {
				tt.check(t, c.HostPort, c.LogLevel, c.HighContrast, c.SelfTest)
			}
		})
	}
}

func TestParseArgsPolice(t *testing.T) {
	c := BuildDefaultConfig()
	if c.Police {
		t.Fatal("policing should be off by default")
	}
	if _, err := ParseArgs(c, []string{"-pr", "-q"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !c.Police || !c.QuietStart {
		t.Errorf("Police = %v, QuietStart = %v; want both true", c.Police, c.QuietStart)
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, args := range [][]string{{"-sp"}, {"-sp", "eighty"}, {"-gl", "x"}} {
		if _, err := ParseArgs(BuildDefaultConfig(), args); err == nil {
			t.Errorf("ParseArgs(%v) expected an error", args)
		}
	}
}

func TestLoadConfigFileKeepsDefaults(t *testing.T) {
	f := filepath.Join(t.TempDir(), vv.CONFIGBASIC)
	if err := os.WriteFile(f, []byte(`{"HostPort": 8555, "HighContrast": true}`), vv.WRITEPERMS); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfigFile(f)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if c.HostPort != 8555 || !c.HighContrast {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.Surface != vv.DEFAULTSURFACE || c.AssetsHost != vv.ASSETSHOST {
		t.Errorf("defaults lost: surface %q, assets %q", c.Surface, c.AssetsHost)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestHelpText(t *testing.T) {
	h, err := HelpText(*BuildDefaultConfig(), "/home/x/.config/")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(h, vv.CONFIGBASIC) || !strings.Contains(h, "8100") {
		t.Errorf("help text missing settings:\n%s", h)
	}
}
