// Package requester implements the single-shot request primitives: building
// one request, sending it over a channel.KdcComm, and handing the parsed
// reply back. Higher-level flows (referral chasing, vault interaction,
// retry policy beyond the one documented salt-hint recovery) live in
// orchestrator.
package requester

import (
	"encoding/asn1"

	"github.com/jcmturner/gokrb5/v8/iana/patype"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/errs"
)

type etypeInfo2Entry struct {
	EType     int32  `asn1:"explicit,tag:0"`
	Salt      string `asn1:"generalstring,explicit,optional,tag:1"`
	S2KParams []byte `asn1:"explicit,optional,tag:2"`
}

// etypeInfo2SaltFor extracts the salt the KDC prefers for etype from a
// KRB-ERROR's e-data, per spec's design note: the source skips the first
// two bytes of e-data (the DER tag+length wrapping KRB-ERROR's e-data
// SEQUENCE OF PA-DATA imposes) before parsing. Returns the salt of the entry
// for the requested etype, or of the first entry when none matches it.
// Returns ("", false) if no ETYPE-INFO2 PA-DATA (type 19) is present, or the
// chosen entry carries no salt.
func etypeInfo2SaltFor(eData []byte, etype int32) (string, bool) {
	if len(eData) < 2 {
		return "", false
	}

	var paSeq []types.PAData
	if _, err := asn1.Unmarshal(eData[2:], &paSeq); err != nil {
		return "", false
	}

	for _, pa := range paSeq {
		if pa.PADataType != patype.PA_ETYPE_INFO2 {
			continue
		}
		var entries []etypeInfo2Entry
		if _, err := asn1.Unmarshal(pa.PADataValue, &entries); err != nil {
			continue
		}
		for _, e := range entries {
			if e.EType == etype && e.Salt != "" {
				return e.Salt, true
			}
		}
		// No entry matched the requested etype exactly; fall back to the
		// first entry's salt, since AD usually returns one entry whose
		// etype is the account's preferred etype regardless of what was
		// requested.
		if len(entries) > 0 && entries[0].Salt != "" {
			return entries[0].Salt, true
		}
	}
	return "", false
}

func wrapDataError(op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewDataError(op, err)
}
