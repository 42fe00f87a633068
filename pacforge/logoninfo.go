package pacforge

import "strings"

// GroupMembership is one entry of KERB_VALIDATION_INFO's GroupIds array.
type GroupMembership struct {
	RelativeID uint32
	Attributes uint32
}

// Group membership attribute flags (MS-DTYP §2.4.2.1).
const (
	SEGroupMandatory        uint32 = 0x00000001
	SEGroupEnabledByDefault uint32 = 0x00000002
	SEGroupEnabled          uint32 = 0x00000004
)

// DefaultGroupAttributes is the flag combination spec §4.3 requires for
// every synthesized group membership: MANDATORY|ENABLED|ENABLED_BY_DEFAULT.
const DefaultGroupAttributes = SEGroupMandatory | SEGroupEnabled | SEGroupEnabledByDefault

// User account control flags (MS-SAMR / MS-PAC), the subset kerbeus-go
// sets on every forged logon.
const (
	UserNormalAccount        uint32 = 0x00000200
	UserDontExpirePassword   uint32 = 0x00010000
)

// PrimaryGroupDomainUsers is the well-known RID (513) spec §4.3 mandates as
// PrimaryGroupId for every forged PAC.
const PrimaryGroupDomainUsers uint32 = 513

// LogonInfo is the subset of KERB_VALIDATION_INFO (MS-PAC §2.6.1) kerbeus-go
// populates for a forged ticket: identity, group memberships, domain SID,
// and the account-control/time fields spec §4.3 calls out by name. Fields
// Windows always zeroes for a synthesized logon (session key, extra SIDs,
// resource groups) are omitted and encoded as empty/null.
type LogonInfo struct {
	EffectiveName string
	FullName      string
	LogonServer   string
	LogonDomain   string // NetBIOS domain name, upper-cased by normalize

	UserID         uint32
	GroupID        uint32 // defaults to PrimaryGroupDomainUsers if zero
	GroupIDs       []GroupMembership
	UserAccountControl uint32 // defaults to NormalAccount|DontExpirePassword if zero
	UserFlags      uint32

	DomainSID SID

	LogonTime           uint64 // caller-supplied logon time, as a FILETIME
	LogoffTime          uint64 // NeverExpiresFileTime
	KickOffTime         uint64 // NeverExpiresFileTime
	PasswordLastSet     uint64 // LogonTime
	PasswordCanChange   uint64 // NotSetFileTime
	PasswordMustChange  uint64 // NeverExpiresFileTime
}

// normalize fills in sensible defaults for any field the caller left zero.
func (l LogonInfo) normalize() LogonInfo {
	l.LogonDomain = strings.ToUpper(l.LogonDomain)
	if l.GroupID == 0 {
		l.GroupID = PrimaryGroupDomainUsers
	}
	if l.UserAccountControl == 0 {
		l.UserAccountControl = UserNormalAccount | UserDontExpirePassword
	}
	if l.LogoffTime == 0 {
		l.LogoffTime = NeverExpiresFileTime
	}
	if l.KickOffTime == 0 {
		l.KickOffTime = NeverExpiresFileTime
	}
	if l.PasswordLastSet == 0 {
		l.PasswordLastSet = l.LogonTime
	}
	if l.PasswordCanChange == 0 {
		l.PasswordCanChange = NotSetFileTime
	}
	if l.PasswordMustChange == 0 {
		l.PasswordMustChange = NeverExpiresFileTime
	}
	return l
}

// marshal encodes the LogonInfo as an NDR KERB_VALIDATION_INFO structure
// suitable for the PAC's LOGON_INFO buffer.
func (l LogonInfo) marshal() []byte {
	l = l.normalize()
	w := newNDRWriter()

	w.fileTime(l.LogonTime)
	w.fileTime(l.LogoffTime)
	w.fileTime(l.KickOffTime)
	w.fileTime(l.PasswordLastSet)
	w.fileTime(l.PasswordCanChange)
	w.fileTime(l.PasswordMustChange)

	w.rpcUnicodeString(l.EffectiveName)
	w.rpcUnicodeString(l.FullName)
	w.rpcUnicodeString("") // LogonScript
	w.rpcUnicodeString("") // ProfilePath
	w.rpcUnicodeString("") // HomeDirectory
	w.rpcUnicodeString("") // HomeDirectoryDrive

	w.u16(0) // LogonCount
	w.u16(0) // BadPasswordCount

	w.u32(l.UserID)
	w.u32(l.GroupID)

	w.u32(uint32(len(l.GroupIDs)))
	if len(l.GroupIDs) > 0 {
		w.ptr()
	} else {
		w.nullPtr()
	}

	w.u32(l.UserFlags)

	var zeroKey [16]byte
	w.fixed.Write(zeroKey[:])

	w.rpcUnicodeString(l.LogonServer)
	w.rpcUnicodeString(l.LogonDomain)

	w.ndrPointerToSID(l.DomainSID)

	w.u32(0) // Reserved1[0]
	w.u32(0) // Reserved1[1]

	w.u32(l.UserAccountControl)
	w.u32(0) // SubAuthStatus
	w.fileTime(NotSetFileTime) // LastSuccessfulILogon
	w.fileTime(NotSetFileTime) // LastFailedILogon
	w.u32(0)                   // FailedILogonCount
	w.u32(0)                   // Reserved3

	w.u32(0) // SidCount
	w.nullPtr() // ExtraSids

	w.nullPtr() // ResourceGroupDomainSid
	w.u32(0)    // ResourceGroupCount
	w.nullPtr() // ResourceGroupIds

	if len(l.GroupIDs) > 0 {
		w.deferU32(uint32(len(l.GroupIDs)))
		for _, g := range l.GroupIDs {
			var b [8]byte
			b[0], b[1], b[2], b[3] = byte(g.RelativeID), byte(g.RelativeID>>8), byte(g.RelativeID>>16), byte(g.RelativeID>>24)
			b[4], b[5], b[6], b[7] = byte(g.Attributes), byte(g.Attributes>>8), byte(g.Attributes>>16), byte(g.Attributes>>24)
			w.deferBytes(b[:])
		}
		w.deferAlign4()
	}

	return w.Bytes()
}
