//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"text/template"

	"github.com/e-gun/SimGraphServer/internal/str"
	"github.com/e-gun/SimGraphServer/internal/vv"
)

var (
	Config = BuildDefaultConfig()
	Msg    = NewMessageMakerWithDefaults()
)

// what ParseArgs wants done once the configuration is settled
const (
	ACTRUN      = ""
	ACTHELP     = "help"
	ACTVERSION  = "version"
	ACTVERSFULL = "fullversion"
)

// ConfigAtLaunch - read the configuration values from JSON and/or command line
func ConfigAtLaunch() {
	const (
		FAIL1 = `Could not parse the information in '%s'. Skipping and attempting to use built-in defaults instead.`
		FAIL2 = "ConfigAtLaunch() failed to execute help text template"
		LOADD = "'%s'%s loaded"
	)

	uh, _ := os.UserHomeDir()
	h := fmt.Sprintf(vv.CONFIGALTAPTH, uh)
	cfgfile := h + vv.CONFIGBASIC

	y := ""
	c, err := LoadConfigFile(cfgfile)
	if err != nil {
		y = " *not*"
		if !errors.Is(err, fs.ErrNotExist) {
			Msg.CRIT(fmt.Sprintf(FAIL1, cfgfile))
		}
		c = BuildDefaultConfig()
	}
	Config = c

	act, err := ParseArgs(Config, os.Args[1:])
	Msg.EC(err)
	UpdateMessageMakerWithConfig(Msg)

	switch act {
	case ACTVERSFULL:
		PrintVersion(*Config)
		PrintBuildInfo(*Config)
		os.Exit(1)
	case ACTVERSION:
		fmt.Println(vv.VERSION + VersSuppl)
		os.Exit(1)
	case ACTHELP:
		PrintVersion(*Config)
		PrintBuildInfo(*Config)
		t, e := HelpText(*Config, h)
		if e != nil {
			Msg.CRIT(FAIL2)
		}
		fmt.Println(Msg.ColStyle(t))
		os.Exit(0)
	default:
		// run
	}

	Msg.TMI(fmt.Sprintf(LOADD, cfgfile, y))
}

// LoadConfigFile - overlay the JSON in f on top of the defaults
func LoadConfigFile(f string) (*str.CurrentConfiguration, error) {
	loaded, err := os.Open(f)
	if err != nil {
		return nil, err
	}
	defer loaded.Close()

	c := BuildDefaultConfig()
	if err = json.NewDecoder(loaded).Decode(c); err != nil {
		return nil, err
	}

	// an old config file might have zeroed these out
	if c.Surface == "" {
		c.Surface = vv.DEFAULTSURFACE
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = vv.MAXSESSIONS
	}
	return c, nil
}

// ParseArgs - apply command line switches to c
func ParseArgs(c *str.CurrentConfiguration, args []string) (string, error) {
	const (
		FAIL1 = "flag '%s' needs a value"
		FAIL2 = "flag '%s' needs a number: %w"
	)

	act := ACTRUN

	next := func(i int) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf(FAIL1, args[i])
		}
		return args[i+1], nil
	}

	nextint := func(i int) (int, error) {
		v, err := next(i)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf(FAIL2, args[i], err)
		}
		return n, nil
	}

	for i, a := range args {
		var err error
		switch a {
		case "-vv":
			act = ACTVERSFULL
		case "-v":
			act = ACTVERSION
		case "-h":
			act = ACTHELP
		case "-ah":
			c.AssetsHost, err = next(i)
		case "-bw":
			c.BlackAndWhite = true
		case "-ch":
			c.ChartHeight, err = next(i)
		case "-el":
			c.EchoLog, err = nextint(i)
		case "-gl":
			c.LogLevel, err = nextint(i)
		case "-gz":
			c.Gzip = true
		case "-hc":
			c.HighContrast = true
		case "-pc":
			c.ProfileCPU = true
		case "-pm":
			c.ProfileMEM = true
		case "-pr":
			c.Police = true
		case "-q":
			c.QuietStart = true
		case "-sa":
			c.HostIP, err = next(i)
		case "-sp":
			c.HostPort, err = nextint(i)
		case "-st":
			c.SelfTest += 1
		default:
			// do nothing
		}
		if err != nil {
			return act, err
		}
	}
	return act, nil
}

// HelpText - fill out HELPTEXTTEMPLATE with the current settings
func HelpText(c str.CurrentConfiguration, home string) (string, error) {
	m := map[string]interface{}{
		"assets":   c.AssetsHost,
		"conffile": vv.CONFIGBASIC,
		"echoll":   c.EchoLog,
		"height":   c.ChartHeight,
		"home":     home,
		"host":     c.HostIP,
		"port":     c.HostPort,
		"projurl":  vv.PROJURL,
		"sgsll":    c.LogLevel,
	}

	t := template.Must(template.New("").Parse(vv.HELPTEXTTEMPLATE))

	var b bytes.Buffer
	if err := t.Execute(&b, m); err != nil {
		return "", err
	}
	return b.String(), nil
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.AssetsHost = vv.ASSETSHOST
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.ChartHeight = vv.DEFAULTCHRTHEIGHT
	c.ChartWidth = vv.DEFAULTCHRTWIDTH
	c.EchoLog = vv.DEFAULTECHOLOGLVL
	c.Gzip = vv.USEGZIP
	c.HighContrast = vv.HIGHCONTRAST
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.MaxBody = vv.MAXBODYSIZE
	c.MaxSessions = vv.MAXSESSIONS
	c.Police = vv.POLICEREQUESTS
	c.ProfileCPU = false
	c.ProfileMEM = false
	c.QuietStart = false
	c.SelfTest = 0
	c.Surface = vv.DEFAULTSURFACE
	return &c
}
