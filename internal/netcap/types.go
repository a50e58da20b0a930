package netcap

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

var ErrInvalidAddress = errors.New("netcap: invalid address")

// Kind is the socket protocol.
type Kind uint8

const (
	TCP Kind = iota + 1
	UDP
)

func (k Kind) Valid() bool {
	return k == TCP || k == UDP
}

func (k Kind) String() string {
	switch k {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Family is the address family.
type Family uint8

const (
	IPv4 Family = iota + 1
	IPv6
)

// FamilyFor maps the scripting-side ipv6 flag to a Family.
func FamilyFor(ipv6 bool) Family {
	if ipv6 {
		return IPv6
	}
	return IPv4
}

func (f Family) Valid() bool {
	return f == IPv4 || f == IPv6
}

func (f Family) String() string {
	switch f {
	case IPv4:
		return "v4"
	case IPv6:
		return "v6"
	default:
		return fmt.Sprintf("family(%d)", uint8(f))
	}
}

// Address is an immutable socket address.
type Address struct {
	ip     netip.Addr
	family Family
	port   uint16
}

// MakeAddress converts a numeric host literal into an Address of the given
// family. An IPv4 literal is accepted for IPv6 as a v4-mapped address.
func MakeAddress(host string, family Family, port int) (Address, error) {
	if !family.Valid() {
		return Address{}, fmt.Errorf("%w: unknown family %s", ErrInvalidAddress, family)
	}
	if port < 0 || port > 0xffff {
		return Address{}, fmt.Errorf("%w: port %d out of range", ErrInvalidAddress, port)
	}
	ip, err := netip.ParseAddr(strings.TrimSpace(host))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if ip.Zone() != "" {
		return Address{}, fmt.Errorf("%w: zoned address %q not supported", ErrInvalidAddress, host)
	}

	switch family {
	case IPv4:
		ip = ip.Unmap()
		if !ip.Is4() {
			return Address{}, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidAddress, host)
		}
	case IPv6:
		if ip.Is4() {
			ip = netip.AddrFrom16(ip.As16())
		}
	}
	return Address{ip: ip, family: family, port: uint16(port)}, nil
}

func (a Address) IP() netip.Addr {
	return a.ip
}

func (a Address) Family() Family {
	return a.family
}

func (a Address) Port() uint16 {
	return a.port
}

// IsValid reports whether a was produced by MakeAddress.
func (a Address) IsValid() bool {
	return a.ip.IsValid() && a.family.Valid()
}

func (a Address) String() string {
	if !a.IsValid() {
		return "invalid address"
	}
	return netip.AddrPortFrom(a.ip, a.port).String()
}
