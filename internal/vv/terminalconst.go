//    SimGraphServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the  
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or 
      modify it under the terms of the GNU General Public License version 3.`

	PROJYEAR = "2022-24"
	PROJAUTH = "E. Gunderson"
	PROJURL  = "https://github.com/e-gun/SimGraphServer"

	HELPTEXTTEMPLATE = `S3command line optionsS0:
   C1-ahC0 C2{string}C0 where the browser fetches echarts from [C6currentC0: C3{{.assets}}C0]
   C1-bwC0          disable color output in the console
   C1-chC0 C2{string}C0 chart height as a css value [C6currentC0: C3{{.height}}C0]
   C1-elC0 C2{num}C0    set echo server log level (C10-3C0) [C6currentC0: C3{{.echoll}}C0]
   C1-glC0 C2{num}C0    set golang log level (C10-5C0) [C6currentC0: C3{{.sgsll}}C0]
   C1-gzC0          enable gzip compression of the server's output
   C1-hC0           print this help information
   C1-hcC0          new charts default to the high contrast (night mode) style
   C1-pcC0          enable CPU profiling run
   C1-pmC0          enable MEM profiling run
   C1-prC0          police requests: count response codes and blacklist IPs that probe for trouble
   C1-qC0           quiet startup: suppress copyright notice
   C1-saC0 C2{string}C0 server IP address [C6currentC0: C3{{.host}}C0]
   C1-spC0 C2{num}C0    server port [C6currentC0: C3{{.port}}C0]
   C1-stC0          run the self-test suite at launch; repeat the flag to iterate: e.g., "C1-st -stC0" will run twice
   C1-vC0           print version info and exit
   C1-vvC0          print full version info and exit

     S1NB:S0 a properly formatted version of "C3{{.conffile}}C0" in "C3{{.home}}C0" configures everything for you. 
         See the sample configuration files at
             C3{{.projurl}}C0
`
)
