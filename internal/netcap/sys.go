package netcap

// descriptor is a platform socket descriptor (fd on Unix, SOCKET on Windows).
type descriptor uintptr

// socketAPI is the raw OS surface the bridge drives.
type socketAPI interface {
	startup() error
	cleanup() error
	socket(kind Kind, family Family) (descriptor, error)
	connect(fd descriptor, addr Address) error
	send(fd descriptor, p []byte) (int, error)
	close(fd descriptor) error
}

// unavailableSockets fails every call with err.
type unavailableSockets struct {
	err error
}

func (u unavailableSockets) startup() error { return u.err }

func (unavailableSockets) cleanup() error { return nil }

func (u unavailableSockets) socket(Kind, Family) (descriptor, error) { return 0, u.err }

func (u unavailableSockets) connect(descriptor, Address) error { return u.err }

func (u unavailableSockets) send(descriptor, []byte) (int, error) { return 0, u.err }

func (u unavailableSockets) close(descriptor) error { return u.err }

// WithUnavailableSockets replaces the platform socket layer with one that
// fails every call, starting with Init, with err.
func WithUnavailableSockets(err error) Option {
	return withSocketAPI(unavailableSockets{err: err})
}
