//go:build unix

package netcap

import "golang.org/x/sys/unix"

type unixSockets struct{}

func platformAPI() socketAPI {
	return unixSockets{}
}

// The BSD socket API needs no process-wide startup.
func (unixSockets) startup() error { return nil }

func (unixSockets) cleanup() error { return nil }

func (unixSockets) socket(kind Kind, family Family) (descriptor, error) {
	domain := unix.AF_INET
	if family == IPv6 {
		domain = unix.AF_INET6
	}
	typ := unix.SOCK_STREAM
	if kind == UDP {
		typ = unix.SOCK_DGRAM
	}
	fd, err := unix.Socket(domain, typ, 0)
	if err != nil {
		return 0, err
	}
	unix.CloseOnExec(fd)
	return descriptor(fd), nil
}

func (unixSockets) connect(fd descriptor, addr Address) error {
	var sa unix.Sockaddr
	if addr.Family() == IPv6 {
		sa = &unix.SockaddrInet6{Port: int(addr.Port()), Addr: addr.IP().As16()}
	} else {
		sa = &unix.SockaddrInet4{Port: int(addr.Port()), Addr: addr.IP().As4()}
	}
	return unix.Connect(int(fd), sa)
}

func (unixSockets) send(fd descriptor, p []byte) (int, error) {
	for {
		n, err := unix.Write(int(fd), p)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

func (unixSockets) close(fd descriptor) error {
	return unix.Close(int(fd))
}
