package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const usageText = `Usage: cert-probe -h <host> -p <port> [-c <critical hours>] [-w <warning hours>] [-t <timeout seconds>] [-v]

Connects to host:port over TLS and reports how long the leaf certificate remains valid.

  -h <host>      host to connect to (required)
  -p <port>      port to connect to (required)
  -c <hours>     critical threshold in hours (default 72)
  -w <hours>     warning threshold in hours (default 120)
  -t <seconds>   timeout for the whole check (default 30)
  -v             print subject, serial and issuer of the certificate
      --config <file>   YAML file with additional settings
      --strict          exit UNKNOWN (3) on usage errors instead of 0

Exit codes: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.
`

type cliFlags struct {
	fs         *pflag.FlagSet
	configPath string
}

func newFlags() *cliFlags {
	fs := pflag.NewFlagSet("cert-probe", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	cf := &cliFlags{fs: fs}
	fs.StringP("host", "h", "", "host to connect to")
	fs.StringP("port", "p", "", "port to connect to")
	fs.IntP("critical", "c", 72, "critical threshold in hours")
	fs.IntP("warning", "w", 120, "warning threshold in hours")
	fs.IntP("timeout", "t", 30, "timeout in seconds")
	fs.BoolP("verbose", "v", false, "verbose output")
	fs.Bool("strict", false, "exit UNKNOWN on usage errors")
	fs.StringVar(&cf.configPath, "config", "", "YAML config file")
	return cf
}

// strict reports the --strict value parsed so far; it is used when parsing stops early.
func (cf *cliFlags) strict() bool {
	v, err := cf.fs.GetBool("strict")
	return err == nil && v
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, usageText)
}
