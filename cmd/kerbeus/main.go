// Command kerbeus is a thin flag-based front end over the orchestrator
// package: one subcommand per ASK-table entry, plus brute, the two roasts,
// and golden/silver ticket forging. It does not parse krb5.conf or any
// other configuration file — every KDC address and credential comes from
// flags.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const usage = `kerbeus - Kerberos v5 credential tool

Usage:
  kerbeus <command> [flags]

Commands:
  asktgt        Request (or reuse a cached) TGT
  renew         Renew a cached TGT
  asktgs        Request a service ticket using a TGT
  s4u2self      Request an S4U2Self ticket impersonating a user
  s4u2proxy     Run the full S4U2Self + S4U2Proxy constrained-delegation chain
  brute         Try every username/password pair from two list files against the KDC and classify each result
  asreproast    Request an AS-REP for a user with no pre-auth and print a crack string
  kerberoast    Request service tickets for a list of SPNs and print crack strings
  golden        Forge a golden ticket (krbtgt key) entirely offline
  silver        Forge a silver ticket (service key) entirely offline
  dump          Print every credential currently in a vault file

Run "kerbeus <command> -h" for a command's flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var err error
	switch os.Args[1] {
	case "asktgt":
		err = runAskTGT(os.Args[2:])
	case "renew":
		err = runRenew(os.Args[2:])
	case "asktgs":
		err = runAskTGS(os.Args[2:])
	case "s4u2self":
		err = runS4U2Self(os.Args[2:])
	case "s4u2proxy":
		err = runS4U2Proxy(os.Args[2:])
	case "brute":
		err = runBrute(os.Args[2:])
	case "asreproast":
		err = runASREPRoast(os.Args[2:])
	case "kerberoast":
		err = runKerberoast(os.Args[2:])
	case "golden":
		err = runCraft(os.Args[2:], true)
	case "silver":
		err = runCraft(os.Args[2:], false)
	case "dump":
		err = runDump(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "kerbeus: unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "kerbeus: %v\n", err)
		os.Exit(1)
	}
}
