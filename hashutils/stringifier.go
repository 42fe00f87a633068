// Package hashutils formats the still-encrypted part of an AS-REP or a
// service ticket as a hashcat/john crack string, per spec §6. It never
// touches a key: its only input is the ciphertext bytes a roasting flow
// already has in hand.
package hashutils

import (
	"encoding/hex"
	"strconv"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
)

// Format names the cracking tool a crack string is meant for. Both split the
// ciphertext the same way (first 16 bytes as a checksum field, the rest as
// the encrypted body), and both currently produce the identical
// $krb5asrep$/$krb5tgs$ string: the Hashcat and John branches below emit
// the same scaffolding.
type Format int

const (
	Hashcat Format = iota
	John
)

// ASRepCrackString formats an AS-REP's still-encrypted part for offline
// cracking: $krb5asrep$<etype>$<user>@<realm>:<first-16-bytes-hex>$<remaining-hex>.
func ASRepCrackString(username, realm string, encPart types.EncryptedData, format Format) string {
	head, tail := splitCipher(encPart.Cipher)
	switch format {
	case John:
		return "$krb5asrep$" + strconv.Itoa(int(encPart.EType)) + "$" + username + "@" + realm + ":" + head + "$" + tail
	default:
		return "$krb5asrep$" + strconv.Itoa(int(encPart.EType)) + "$" + username + "@" + realm + ":" + head + "$" + tail
	}
}

// TGSCrackString formats a service ticket's encrypted part (the part
// encrypted under the service account's long-term key, the thing a
// kerberoast attack is trying to crack) for offline cracking:
// $krb5tgs$<etype>$*<user>$<realm>$<spn>*$<first-16-bytes-hex>$<remaining-hex>.
func TGSCrackString(username, realm, spn string, ticket messages.Ticket, format Format) string {
	head, tail := splitCipher(ticket.EncPart.Cipher)
	switch format {
	case John:
		return "$krb5tgs$" + strconv.Itoa(int(ticket.EncPart.EType)) + "$*" + username + "$" + realm + "$" + spn + "*$" + head + "$" + tail
	default:
		return "$krb5tgs$" + strconv.Itoa(int(ticket.EncPart.EType)) + "$*" + username + "$" + realm + "$" + spn + "*$" + head + "$" + tail
	}
}

// splitCipher divides raw into the leading 16-byte checksum field and the
// remaining encrypted body, both hex-encoded, per the hashcat/john
// $...$checksum$body convention for etype-23/17/18 Kerberos hashes. If raw
// is shorter than 16 bytes (malformed input), the whole thing becomes head
// and tail is empty, rather than panicking.
func splitCipher(raw []byte) (head, tail string) {
	if len(raw) <= 16 {
		return hex.EncodeToString(raw), ""
	}
	return hex.EncodeToString(raw[:16]), hex.EncodeToString(raw[16:])
}

