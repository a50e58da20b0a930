//go:build !unix && !windows

package netcap

import "errors"

var errUnsupported = errors.New("netcap: raw sockets are not supported on this platform")

func platformAPI() socketAPI {
	return unavailableSockets{err: errUnsupported}
}
