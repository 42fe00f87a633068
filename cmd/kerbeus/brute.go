package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sprout-sec/kerbeus-go/orchestrator"
)

func runBrute(args []string) error {
	fs := flag.NewFlagSet("brute", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	users := fs.String("users", "", "path to a newline-separated username list")
	passwords := fs.String("passwords", "", "path to a newline-separated password list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyLogLevel()

	o, err := common.orchestrator()
	if err != nil {
		return err
	}

	userList, err := readLines(*users)
	if err != nil {
		return err
	}
	passwordList, err := readLines(*passwords)
	if err != nil {
		return err
	}

	ctx := context.Background()
	for _, user := range userList {
		for _, password := range passwordList {
			res, err := o.Brute(ctx, common.realm, user, password)
			if err != nil {
				fmt.Fprintf(os.Stderr, "kerbeus: %s:%s: %v\n", user, password, err)
				continue
			}
			if res.Outcome == orchestrator.InvalidUser {
				break // no point trying further passwords against a nonexistent account
			}
			fmt.Printf("%-20s %-20s %s\n", user, password, outcomeString(res.Outcome))
			if res.Outcome == orchestrator.ValidPair {
				break
			}
		}
	}
	return nil
}

func outcomeString(o orchestrator.BruteOutcome) string {
	switch o {
	case orchestrator.ValidPair:
		return "VALID"
	case orchestrator.InvalidUser:
		return "INVALID_USER"
	case orchestrator.ValidUser:
		return "VALID_USER_WRONG_PASSWORD"
	case orchestrator.ExpiredPassword:
		return "PASSWORD_EXPIRED"
	case orchestrator.BlockedUser:
		return "ACCOUNT_BLOCKED"
	default:
		return "UNKNOWN"
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
