package netcap

import (
	"errors"
	"testing"

	"github.com/tyqualters/voidtools/internal/testutil/testlog"
)

func TestMakeAddressIPv4(t *testing.T) {
	testlog.Start(t)
	addr, err := MakeAddress(" 10.0.0.7 ", IPv4, 8080)
	if err != nil {
		t.Fatalf("make address: %v", err)
	}
	if addr.Family() != IPv4 || addr.Port() != 8080 || !addr.IP().Is4() {
		t.Fatalf("unexpected address: %s family=%s", addr, addr.Family())
	}
	if addr.String() != "10.0.0.7:8080" {
		t.Fatalf("unexpected string: %q", addr.String())
	}
}

func TestMakeAddressIPv6AndMapping(t *testing.T) {
	testlog.Start(t)
	addr, err := MakeAddress("::1", IPv6, 53)
	if err != nil {
		t.Fatalf("make address: %v", err)
	}
	if !addr.IP().Is6() || addr.String() != "[::1]:53" {
		t.Fatalf("unexpected v6 address: %s", addr)
	}

	mapped, err := MakeAddress("127.0.0.1", IPv6, 53)
	if err != nil {
		t.Fatalf("make mapped address: %v", err)
	}
	if !mapped.IP().Is4In6() {
		t.Fatalf("expected v4-mapped address, got %s", mapped.IP())
	}

	unmapped, err := MakeAddress("::ffff:192.168.1.1", IPv4, 1)
	if err != nil {
		t.Fatalf("make unmapped address: %v", err)
	}
	if !unmapped.IP().Is4() {
		t.Fatalf("expected plain v4 address, got %s", unmapped.IP())
	}
}

func TestMakeAddressRejectsInvalidInput(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		host   string
		family Family
		port   int
	}{
		{"not-an-ip", IPv4, 80},
		{"example.com", IPv4, 80},
		{"", IPv4, 80},
		{"::1", IPv4, 80},
		{"fe80::1%eth0", IPv6, 80},
		{"127.0.0.1", IPv4, -1},
		{"127.0.0.1", IPv4, 65536},
		{"127.0.0.1", Family(0), 80},
	}
	for _, tc := range cases {
		if _, err := MakeAddress(tc.host, tc.family, tc.port); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("expected ErrInvalidAddress for %+v, got %v", tc, err)
		}
	}
}

func TestZeroAddressIsInvalid(t *testing.T) {
	testlog.Start(t)
	var addr Address
	if addr.IsValid() {
		t.Fatalf("zero address must be invalid")
	}
	if addr.String() != "invalid address" {
		t.Fatalf("unexpected string: %q", addr.String())
	}
}

func TestKindAndFamilyVariants(t *testing.T) {
	testlog.Start(t)
	if !TCP.Valid() || !UDP.Valid() || Kind(0).Valid() || Kind(9).Valid() {
		t.Fatalf("unexpected kind validity")
	}
	if FamilyFor(true) != IPv6 || FamilyFor(false) != IPv4 {
		t.Fatalf("unexpected family mapping")
	}
	if TCP.String() != "tcp" || UDP.String() != "udp" || IPv4.String() != "v4" || IPv6.String() != "v6" {
		t.Fatalf("unexpected names")
	}
}
