package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"

	"freesec/lib/cryptcfg"
	fl "freesec/lib/filelogger"
	"freesec/lib/logx"
)

const usage = `Usage: %s [global flags] command [flags] [args]

Commands:
	block -key HEX -in HEX [-salt N] [-count N]
	hash [-scheme traditional|extended] [-salt SALT] [-rounds N] [password]
	verify HASH [password]
	check [-users GLOB] PASSWDFILE  (reads user:password lines from stdin)
	trip INPUT

Global flags:
`

func printUsage() {
	fmt.Fprintf(os.Stderr, usage, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cfgfile := flag.String("config", "", "TOML config file")
	loglevel := flag.String("loglevel", "", "log level [debug, info, notice, warn, error, critical]")
	color := flag.String("color", "", "colored log output [auto, on, off]")
	flag.Usage = printUsage
	flag.Parse()

	c := cryptcfg.DefaultConfig
	if *cfgfile != "" {
		p, err := cryptcfg.Load(*cfgfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(2)
		}
		c = p.Config
	}
	if *loglevel != "" {
		c.LogLevel = *loglevel
	}
	if *color != "" {
		c.Color = *color
	}
	cfg, err := cryptcfg.Validate(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	lgr := fl.NewFileLogger(os.Stderr, cfg.Level, cfg.ColorMode)

	a := &app{
		cfg:      cfg,
		log:      logx.NewLogToX(lgr, "freesec"),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		rand:     rand.Reader,
		readPass: readPassword,
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	os.Exit(a.run(args))
}

type app struct {
	cfg      cryptcfg.Parsed
	log      logx.Logger
	stdin    io.Reader
	stdout   io.Writer
	rand     io.Reader
	readPass func(a *app) ([]byte, error)
}

// exit codes
const (
	exitOK       = 0
	exitMismatch = 1
	exitUsage    = 2
	exitFailure  = 3
)

func (a *app) run(args []string) int {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "block":
		return a.cmdBlock(args)
	case "hash":
		return a.cmdHash(args)
	case "verify":
		return a.cmdVerify(args)
	case "check":
		return a.cmdCheck(args)
	case "trip":
		return a.cmdTrip(args)
	}
	a.log.LogPrintf(logx.ERROR, "unknown command %q", cmd)
	return exitUsage
}
