package main

import (
	"flag"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sprout-sec/kerbeus-go/channel"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/hashutils"
	"github.com/sprout-sec/kerbeus-go/krbuser"
	"github.com/sprout-sec/kerbeus-go/orchestrator"
	"github.com/sprout-sec/kerbeus-go/vault"
)

// commonFlags is the flag set every subcommand that talks to a KDC shares:
// how to reach it, what vault to read/write, and how noisy to be.
type commonFlags struct {
	realm     string
	kdc       string
	udp       bool
	vaultPath string
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.realm, "realm", "", "Kerberos realm, e.g. DOMAIN.COM")
	fs.StringVar(&c.kdc, "kdc", "", "KDC IP address (skips DNS resolution)")
	fs.BoolVar(&c.udp, "udp", false, "use UDP instead of TCP for the KDC exchange")
	fs.StringVar(&c.vaultPath, "vault", "", "vault file to read/write (.krb or .ccache); empty means memory-only")
	fs.BoolVar(&c.debug, "debug", false, "log every KDC request/response at debug level")
}

func (c *commonFlags) applyLogLevel() {
	if c.debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func (c *commonFlags) orchestrator() (*orchestrator.Orchestrator, error) {
	if c.realm == "" {
		return nil, errs.NewStringError("-realm is required")
	}

	transport := channel.TCP
	if c.udp {
		transport = channel.UDP
	}
	seed := map[string]string{}
	if c.kdc != "" {
		seed[c.realm] = c.kdc
	}
	comm := channel.NewKdcComm(transport, seed)

	v := c.openVault()
	return orchestrator.New(comm, v), nil
}

func (c *commonFlags) openVault() vault.Vault {
	if c.vaultPath == "" {
		return vault.NewMemoryVault("cli")
	}
	return vault.NewFileVault(c.vaultPath)
}

// keyFlags is the credential flags every flow authenticating as a user
// shares: exactly one of password/NT hash/AES key/keytab should be set.
type keyFlags struct {
	password   string
	ntHash     string
	aesKey     string
	keytabPath string
	kvno       int
}

func (k *keyFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&k.password, "password", "", "cleartext password")
	fs.StringVar(&k.ntHash, "hashes", "", "NT hash (32 hex chars) or LM:NT pair, LM half ignored")
	fs.StringVar(&k.aesKey, "aes", "", "AES128/256 key, hex-encoded")
	fs.StringVar(&k.keytabPath, "keytab", "", "path to a keytab file holding the principal's key")
	fs.IntVar(&k.kvno, "kvno", 0, "key version number to extract from -keytab")
}

// resolve builds a krbuser.Key from whichever of password/hashes/aes/keytab
// was set, in that preference order. principal is only consulted for
// -keytab, which must look up a specific principal's entry. Returns nil,
// nil if none were set (some flows, like requesting a ticket with an
// already-cached TGT, don't need one).
func (k *keyFlags) resolve(principal krbuser.KrbUser) (krbuser.Key, error) {
	switch {
	case k.password != "":
		return krbuser.SecretKey{Password: k.password}, nil
	case k.ntHash != "":
		hash := k.ntHash
		if len(hash) > 32 && hash[32] == ':' {
			hash = hash[33:] // LM:NT, keep the NT half
		} else if idx := strings.IndexByte(hash, ':'); idx >= 0 {
			hash = hash[idx+1:]
		}
		return krbuser.RawKeyFromHex(hash)
	case k.aesKey != "":
		if len(k.aesKey) == 32 {
			return krbuser.Aes128KeyFromHex(k.aesKey)
		}
		return krbuser.RawKeyFromHex(k.aesKey)
	case k.keytabPath != "":
		return krbuser.KeyFromKeytab(k.keytabPath, principal, k.kvno)
	default:
		return nil, nil
	}
}

func crackFormat(name string) hashutils.Format {
	if name == "john" {
		return hashutils.John
	}
	return hashutils.Hashcat
}
