//go:build windows

package netcap

import "golang.org/x/sys/windows"

// winsockVersion requests Winsock 2.2.
const winsockVersion = uint32(0x0202)

type winsock struct{}

func platformAPI() socketAPI {
	return winsock{}
}

func (winsock) startup() error {
	var data windows.WSAData
	return windows.WSAStartup(winsockVersion, &data)
}

func (winsock) cleanup() error {
	return windows.WSACleanup()
}

func (winsock) socket(kind Kind, family Family) (descriptor, error) {
	domain := windows.AF_INET
	if family == IPv6 {
		domain = windows.AF_INET6
	}
	typ := windows.SOCK_STREAM
	if kind == UDP {
		typ = windows.SOCK_DGRAM
	}
	h, err := windows.Socket(domain, typ, 0)
	if err != nil {
		return 0, err
	}
	return descriptor(h), nil
}

func (winsock) connect(fd descriptor, addr Address) error {
	var sa windows.Sockaddr
	if addr.Family() == IPv6 {
		sa = &windows.SockaddrInet6{Port: int(addr.Port()), Addr: addr.IP().As16()}
	} else {
		sa = &windows.SockaddrInet4{Port: int(addr.Port()), Addr: addr.IP().As4()}
	}
	return windows.Connect(windows.Handle(fd), sa)
}

func (winsock) send(fd descriptor, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	buf := windows.WSABuf{Len: uint32(len(p)), Buf: &p[0]}
	var sent uint32
	err := windows.WSASend(windows.Handle(fd), &buf, 1, &sent, 0, nil, nil)
	return int(sent), err
}

func (winsock) close(fd descriptor) error {
	return windows.Closesocket(windows.Handle(fd))
}
