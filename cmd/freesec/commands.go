package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/xerrors"

	"freesec/lib/cryptcfg"
	"freesec/lib/logx"
	"freesec/lib/userhashmap"
	"freesec/lib/utils/descipher"
	"freesec/lib/utils/descrypt"
	"freesec/lib/utils/legacytrip"
	upn "freesec/lib/utils/text/userpassnorm"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	return fs
}

func parseBlock(s string) (b [8]byte, err error) {
	x, err := hex.DecodeString(s)
	if err != nil {
		return
	}
	if len(x) != len(b) {
		err = xerrors.Errorf("%q is %d bytes long, need %d", s, len(x), len(b))
		return
	}
	copy(b[:], x)
	return
}

func (a *app) cmdBlock(args []string) int {
	fs := newFlagSet("block")
	keystr := fs.String("key", "", "8 byte key in hex")
	instr := fs.String("in", "0000000000000000", "8 byte block in hex")
	salt := fs.Uint("salt", 0, "24-bit salt")
	count := fs.Int("count", 1, "times to run the rounds")
	if err := fs.Parse(args); err != nil {
		a.log.LogPrintf(logx.ERROR, "block: %v", err)
		return exitUsage
	}

	key, err := parseBlock(*keystr)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "block: bad key: %v", err)
		return exitUsage
	}
	in, err := parseBlock(*instr)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "block: bad input: %v", err)
		return exitUsage
	}
	if *salt > 0xffffff {
		a.log.LogPrintf(logx.WARN, "block: salt %#x has more than 24 bits, extra bits ignored", *salt)
	}

	var out [8]byte
	err = descipher.EncryptBlock(&out, &key, &in, uint32(*salt), *count)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "block: %v", err)
		return exitUsage
	}
	fmt.Fprintf(a.stdout, "%x\n", out)
	return exitOK
}

func (a *app) cmdHash(args []string) int {
	fs := newFlagSet("hash")
	scheme := fs.String("scheme", a.cfg.Scheme, "traditional or extended")
	saltstr := fs.String("salt", "", "salt characters, random if empty")
	rounds := fs.Uint("rounds", uint(a.cfg.Rounds), "rounds for the extended scheme")
	if err := fs.Parse(args); err != nil {
		a.log.LogPrintf(logx.ERROR, "hash: %v", err)
		return exitUsage
	}

	pass, err := a.argOrPassword(fs.Args(), 0)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "hash: reading password: %v", err)
		return exitFailure
	}
	pass, err = normalisePass(pass)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "hash: %v", err)
		return exitUsage
	}

	var setting string
	switch *scheme {
	case cryptcfg.SchemeTraditional:
		if *saltstr != "" {
			setting = *saltstr
			break
		}
		s, err := descrypt.NewSalt(a.rand)
		if err != nil {
			a.log.LogPrintf(logx.ERROR, "hash: %v", err)
			return exitFailure
		}
		setting = string(s[:])
	case cryptcfg.SchemeExtended:
		if *saltstr != "" {
			setting = *saltstr
			break
		}
		if *rounds > descrypt.MaxRounds {
			a.log.LogPrintf(logx.ERROR, "hash: rounds %d too large", *rounds)
			return exitUsage
		}
		if *rounds%2 == 0 {
			a.log.LogPrintf(logx.NOTICE, "hash: even round count %d exposes weak keys", *rounds)
		}
		s, err := descrypt.NewExtendedSetting(a.rand, uint32(*rounds))
		if err != nil {
			a.log.LogPrintf(logx.ERROR, "hash: %v", err)
			return exitUsage
		}
		setting = string(s[:])
	default:
		a.log.LogPrintf(logx.ERROR, "hash: unknown scheme %q", *scheme)
		return exitUsage
	}

	if *scheme == cryptcfg.SchemeTraditional && len(pass) > 8 {
		a.log.LogPrintf(logx.NOTICE, "hash: only the first 8 characters of the password are used")
	}
	res, err := descrypt.Crypt(pass, setting)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "hash: %v", err)
		return exitUsage
	}
	fmt.Fprintln(a.stdout, res)
	return exitOK
}

func (a *app) cmdVerify(args []string) int {
	if len(args) < 1 {
		a.log.LogPrint(logx.ERROR, "verify: hash argument missing")
		return exitUsage
	}
	pass, err := a.argOrPassword(args, 1)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "verify: reading password: %v", err)
		return exitFailure
	}
	// hash and check never accept such a password either
	if pass, err = normalisePass(pass); err != nil {
		a.log.LogPrintf(logx.NOTICE, "verify: %v", err)
		fmt.Fprintln(a.stdout, "mismatch")
		return exitMismatch
	}
	if !descrypt.Verify(pass, args[0]) {
		fmt.Fprintln(a.stdout, "mismatch")
		return exitMismatch
	}
	fmt.Fprintln(a.stdout, "ok")
	return exitOK
}

func (a *app) cmdCheck(args []string) int {
	fs := newFlagSet("check")
	users := fs.String("users", "*", "glob selecting users to check")
	if err := fs.Parse(args); err != nil {
		a.log.LogPrintf(logx.ERROR, "check: %v", err)
		return exitUsage
	}
	if fs.NArg() != 1 {
		a.log.LogPrint(logx.ERROR, "check: need exactly one passwd file")
		return exitUsage
	}
	g, err := glob.Compile(*users)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "check: bad users glob %q: %v", *users, err)
		return exitUsage
	}

	m := userhashmap.NewUserHashMap()
	if err = m.Load(fs.Arg(0), a.log); err != nil {
		// broken lines were logged already, keep going with the rest
		a.log.LogPrintf(logx.WARN, "check: %v", err)
		if m.Len() == 0 {
			return exitFailure
		}
	}

	code := exitOK
	sc := bufio.NewScanner(a.stdin)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			a.log.LogPrint(logx.WARN, "check: input line without ':' skipped")
			continue
		}
		user, pass := line[:i], line[i+1:]
		if !g.Match(user) {
			a.log.LogPrintf(logx.DEBUG, "check: %q not selected", user)
			continue
		}
		if _, ok := m.HashByName(user); !ok {
			fmt.Fprintf(a.stdout, "%s: unknown\n", user)
			code = exitMismatch
			continue
		}
		if m.CheckUserPass(user, pass) {
			fmt.Fprintf(a.stdout, "%s: ok\n", user)
		} else {
			fmt.Fprintf(a.stdout, "%s: FAIL\n", user)
			code = exitMismatch
		}
	}
	if err = sc.Err(); err != nil {
		a.log.LogPrintf(logx.ERROR, "check: reading input: %v", err)
		return exitFailure
	}
	return code
}

func (a *app) cmdTrip(args []string) int {
	if len(args) != 1 {
		a.log.LogPrint(logx.ERROR, "trip: need exactly one input")
		return exitUsage
	}
	in := args[0]
	if n, err := upn.NormalisePass(in); err == nil {
		in = n
	} else {
		a.log.LogPrintf(logx.NOTICE, "trip: using input as is: %v", err)
	}
	trip, err := legacytrip.MakeLegacyTrip(in)
	if err != nil {
		a.log.LogPrintf(logx.ERROR, "trip: %v", err)
		return exitFailure
	}
	fmt.Fprintf(a.stdout, "!%s\n", trip)
	return exitOK
}
