package channel

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sprout-sec/kerbeus-go/errs"
)

// DefaultKDCPort is the standard Kerberos KDC port for both TCP and UDP.
const DefaultKDCPort = 88

// connectTimeout is the one timeout this spec mandates (§5): it applies
// only to the TCP/UDP connect step. Read/write inherit OS defaults.
const connectTimeout = 5 * time.Second

// Transport selects TCP (length-framed) or UDP (single datagram) framing.
type Transport int

const (
	TCP Transport = iota
	UDP
)

// Channel opens a fresh transport per SendRecv call; it never pools
// connections and never holds a socket open between calls.
type Channel struct {
	Transport Transport
	Address   string // host:port
}

// NewTCPChannel builds a Channel that speaks length-framed TCP to
// host:DefaultKDCPort.
func NewTCPChannel(host string) Channel {
	return Channel{Transport: TCP, Address: net.JoinHostPort(host, portString())}
}

// NewUDPChannel builds a Channel that speaks single-datagram UDP to
// host:DefaultKDCPort.
func NewUDPChannel(host string) Channel {
	return Channel{Transport: UDP, Address: net.JoinHostPort(host, portString())}
}

func portString() string { return fmt.Sprintf("%d", DefaultKDCPort) }

// SendRecv writes the ASN.1 DER request and returns the KDC's reply bytes,
// with TCP's 32-bit big-endian length prefix applied/stripped transparently.
// A fresh connection is made for every call.
func (c Channel) SendRecv(ctx context.Context, req []byte) ([]byte, error) {
	dialer := net.Dialer{Timeout: connectTimeout}

	network := "tcp"
	if c.Transport == UDP {
		network = "udp"
	}

	conn, err := dialer.DialContext(ctx, network, c.Address)
	if err != nil {
		return nil, errs.NewNetworkError("dial "+c.Address, err)
	}
	defer conn.Close()

	if c.Transport == TCP {
		return sendRecvTCP(conn, req)
	}
	return sendRecvUDP(conn, req)
}

func sendRecvTCP(conn net.Conn, req []byte) ([]byte, error) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(req)))

	if _, err := conn.Write(prefix[:]); err != nil {
		return nil, errs.NewNetworkError("write length prefix", err)
	}
	if _, err := conn.Write(req); err != nil {
		return nil, errs.NewNetworkError("write request", err)
	}

	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return nil, errs.NewNetworkError("read length prefix", err)
	}
	respLen := binary.BigEndian.Uint32(prefix[:])

	resp := make([]byte, respLen)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return nil, errs.NewNetworkError("read response body", err)
	}
	return resp, nil
}

func sendRecvUDP(conn net.Conn, req []byte) ([]byte, error) {
	if _, err := conn.Write(req); err != nil {
		return nil, errs.NewNetworkError("write datagram", err)
	}

	buf := make([]byte, 65507) // max UDP datagram payload
	n, err := conn.Read(buf)
	if err != nil {
		return nil, errs.NewNetworkError("read datagram", err)
	}
	return buf[:n], nil
}
