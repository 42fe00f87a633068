package formatcodec

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/sprout-sec/kerbeus-go/credtypes"
	"github.com/sprout-sec/kerbeus-go/errs"
)

// ccacheFileFormatVersion is MIT krb5's "version 4" FCC format tag. Field
// layout below follows the publicly documented FCC_FVNO_4 structures: a
// two-byte version, a header block, a default-principal record, then
// credential records read until EOF. There is no Go library in this
// module's dependency set that writes this format (gokrb5's credentials
// package only loads it), so the encoder/decoder here is hand-written
// against that documented layout, the same way messageforge hand-rolls
// ASN.1 shapes gokrb5 doesn't expose.
const ccacheFileFormatVersion uint16 = 0x0504

// writeCountedString writes a 4-byte big-endian length followed by the raw
// bytes of s -- the "counted octet string" ccache uses for realms,
// principal components, and opaque blobs (tickets, keys).
func writeCountedString(buf *bytes.Buffer, s []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf.Write(lenBuf[:])
	buf.Write(s)
}

func readCountedString(r *bytes.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := r.Read(lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	b := make([]byte, n)
	if n > 0 {
		if _, err := r.Read(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func writePrincipal(buf *bytes.Buffer, p types.PrincipalName, realm string) {
	writeUint32(buf, uint32(p.NameType))
	writeUint32(buf, uint32(len(p.NameString)))
	writeCountedString(buf, []byte(realm))
	for _, c := range p.NameString {
		writeCountedString(buf, []byte(c))
	}
}

func readPrincipal(r *bytes.Reader) (types.PrincipalName, string, error) {
	nameType, err := readUint32(r)
	if err != nil {
		return types.PrincipalName{}, "", err
	}
	numComponents, err := readUint32(r)
	if err != nil {
		return types.PrincipalName{}, "", err
	}
	realmBytes, err := readCountedString(r)
	if err != nil {
		return types.PrincipalName{}, "", err
	}
	components := make([]string, numComponents)
	for i := range components {
		c, err := readCountedString(r)
		if err != nil {
			return types.PrincipalName{}, "", err
		}
		components[i] = string(c)
	}
	return types.PrincipalName{NameType: int32(nameType), NameString: components}, string(realmBytes), nil
}

func writeKeyBlock(buf *bytes.Buffer, key types.EncryptionKey) {
	writeUint16(buf, uint16(key.KeyType))
	writeCountedString(buf, key.KeyValue)
}

func readKeyBlock(r *bytes.Reader) (types.EncryptionKey, error) {
	keyType, err := readUint16(r)
	if err != nil {
		return types.EncryptionKey{}, err
	}
	value, err := readCountedString(r)
	if err != nil {
		return types.EncryptionKey{}, err
	}
	return types.EncryptionKey{KeyType: int32(keyType), KeyValue: value}, nil
}

func writeTime(buf *bytes.Buffer, t time.Time) {
	writeUint32(buf, uint32(t.Unix()))
}

func readTime(r *bytes.Reader) (time.Time, error) {
	u, err := readUint32(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(u), 0).UTC(), nil
}

// EncodeCCACHE serializes creds as an MIT ccache v4 file. The default
// principal recorded in the header is the client principal of the first
// credential; an empty input produces a header-only file with no default
// principal recognisable as a TGT owner.
func EncodeCCACHE(creds credtypes.TicketCreds) ([]byte, error) {
	var buf bytes.Buffer
	writeUint16(&buf, ccacheFileFormatVersion)
	writeUint16(&buf, 0) // headerlen: no DeltaTime header emitted

	if len(creds) > 0 {
		writePrincipal(&buf, creds[0].CredInfo.PName, creds[0].CredInfo.PRealm)
	} else {
		writePrincipal(&buf, types.PrincipalName{}, "")
	}

	for _, c := range creds {
		writePrincipal(&buf, c.CredInfo.PName, c.CredInfo.PRealm)
		writePrincipal(&buf, c.CredInfo.SName, c.CredInfo.SRealm)
		writeKeyBlock(&buf, c.CredInfo.Key)
		writeTime(&buf, c.CredInfo.AuthTime)
		writeTime(&buf, c.CredInfo.StartTime)
		writeTime(&buf, c.CredInfo.EndTime)
		writeTime(&buf, c.CredInfo.RenewTill)
		buf.WriteByte(0) // is_skey: never a second ticket's session key

		flags := uint32(0)
		if len(c.CredInfo.Flags.Bytes) >= 4 {
			flags = binary.BigEndian.Uint32(c.CredInfo.Flags.Bytes[:4])
		}
		writeUint32(&buf, flags)

		writeUint32(&buf, uint32(len(c.CredInfo.CAddr)))
		// Host addresses are never populated by this library's own
		// requests; CAddr is always empty in practice.

		writeUint32(&buf, 0) // authdata count

		ticketBytes, err := c.Ticket.Marshal()
		if err != nil {
			return nil, errs.NewDataError("marshal ticket for ccache", err)
		}
		writeCountedString(&buf, ticketBytes)
		writeCountedString(&buf, nil) // second_ticket: unused (no S4U2Proxy evidence ticket stored)
	}

	return buf.Bytes(), nil
}

// DecodeCCACHE parses an MIT ccache v4 byte stream into TicketCreds.
func DecodeCCACHE(data []byte) (credtypes.TicketCreds, error) {
	r := bytes.NewReader(data)

	version, err := readUint16(r)
	if err != nil {
		return nil, errs.NewDataError("read ccache version", err)
	}
	if version != ccacheFileFormatVersion {
		return nil, errs.NewDataError("read ccache version", errs.NewStringError("unsupported ccache version 0x%04x", version))
	}

	headerLen, err := readUint16(r)
	if err != nil {
		return nil, errs.NewDataError("read ccache header length", err)
	}
	if headerLen > 0 {
		hdr := make([]byte, headerLen)
		if _, err := r.Read(hdr); err != nil {
			return nil, errs.NewDataError("read ccache header", err)
		}
	}

	// Default principal record; not carried in any TicketCred, only used
	// by real ccache consumers to pick the primary identity.
	if _, _, err := readPrincipal(r); err != nil {
		return nil, errs.NewDataError("read ccache default principal", err)
	}

	var creds credtypes.TicketCreds
	for r.Len() > 0 {
		cname, crealm, err := readPrincipal(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache client principal", err)
		}
		sname, srealm, err := readPrincipal(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache server principal", err)
		}
		key, err := readKeyBlock(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache keyblock", err)
		}
		authTime, err := readTime(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache authtime", err)
		}
		startTime, err := readTime(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache starttime", err)
		}
		endTime, err := readTime(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache endtime", err)
		}
		renewTill, err := readTime(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache renew_till", err)
		}
		if _, err := r.ReadByte(); err != nil { // is_skey
			return nil, errs.NewDataError("read ccache is_skey", err)
		}
		flags, err := readUint32(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache ticket_flags", err)
		}
		addrCount, err := readUint32(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache address count", err)
		}
		for i := uint32(0); i < addrCount; i++ {
			if _, err := readUint16(r); err != nil {
				return nil, errs.NewDataError("read ccache address type", err)
			}
			if _, err := readCountedString(r); err != nil {
				return nil, errs.NewDataError("read ccache address data", err)
			}
		}
		authDataCount, err := readUint32(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache authdata count", err)
		}
		for i := uint32(0); i < authDataCount; i++ {
			if _, err := readUint16(r); err != nil {
				return nil, errs.NewDataError("read ccache authdata type", err)
			}
			if _, err := readCountedString(r); err != nil {
				return nil, errs.NewDataError("read ccache authdata data", err)
			}
		}
		ticketBytes, err := readCountedString(r)
		if err != nil {
			return nil, errs.NewDataError("read ccache ticket", err)
		}
		if _, err := readCountedString(r); err != nil { // second_ticket
			return nil, errs.NewDataError("read ccache second_ticket", err)
		}

		var ticket messages.Ticket
		if err := ticket.Unmarshal(ticketBytes); err != nil {
			return nil, errs.NewDataError("unmarshal ccache ticket", err)
		}

		flagBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(flagBytes, flags)

		creds = append(creds, credtypes.TicketCred{
			Ticket: ticket,
			CredInfo: types.KrbCredInfo{
				Key:       key,
				PName:     cname,
				PRealm:    crealm,
				SName:     sname,
				SRealm:    srealm,
				AuthTime:  authTime,
				StartTime: startTime,
				EndTime:   endTime,
				RenewTill: renewTill,
				Flags:     asn1BitString(flagBytes),
			},
		})
	}

	return creds, nil
}
