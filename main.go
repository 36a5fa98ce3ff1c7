//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"fmt"
	"time"

	"github.com/e-gun/SimGraphServer/internal/lnch"
	"github.com/e-gun/SimGraphServer/internal/vv"
	"github.com/e-gun/SimGraphServer/web"
	"github.com/pkg/profile"
)

func main() {
	const (
		LAUNCH = "C5%sC0 launching: charts will be drawn into '%s' via http://%s:%d/"
		READY  = "main() post-initialization"
	)

	start := time.Now()
	previous := time.Now()

	lnch.ConfigAtLaunch()

	// go tool pprof --pdf ./SimGraphServer /var/folders/.../cpu.pprof > profile.pdf
	// profile installs its own SIGINT hook: ctrl-c writes the profile
	switch {
	case lnch.Config.ProfileCPU:
		defer profile.Start().Stop()
	case lnch.Config.ProfileMEM:
		defer profile.Start(profile.MemProfile).Stop()
	}

	msg := lnch.NewMessageMakerConfigured()

	if !lnch.Config.QuietStart {
		lnch.PrintVersion(*lnch.Config)
		lnch.PrintBuildInfo(*lnch.Config)
		msg.MAND(fmt.Sprintf(vv.TERMINALTEXT, vv.PROJYEAR, vv.PROJAUTH, vv.PROJURL))
	}

	msg.NOTE(msg.Color(fmt.Sprintf(LAUNCH, vv.MYNAME, lnch.Config.Surface, lnch.Config.HostIP, lnch.Config.HostPort)))
	msg.Timer("A1", READY, start, previous)

	web.StartEchoServer()
}
