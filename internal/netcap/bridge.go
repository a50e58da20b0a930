package netcap

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/tyqualters/voidtools/internal/observability"
)

var (
	ErrNotStarted       = errors.New("netcap: networking subsystem not started")
	ErrSubsystemStopped = errors.New("netcap: networking subsystem already shut down")
	ErrHandleClosed     = errors.New("netcap: socket already closed")
	ErrFamilyMismatch   = errors.New("netcap: address family does not match socket")
	ErrInvalidHandle    = errors.New("netcap: invalid socket handle")
)

type subsystemState int

const (
	stateNotStarted subsystemState = iota
	stateStarted
	stateStopped
)

type handleState int

const (
	handleCreated handleState = iota
	handleConnected
	handleClosed
)

// Handle is a socket created by CreateSocket. The zero value is not usable.
type Handle struct {
	fd     descriptor
	kind   Kind
	family Family
	state  handleState
}

func (h *Handle) Kind() Kind {
	return h.kind
}

func (h *Handle) Family() Family {
	return h.family
}

func (h *Handle) Connected() bool {
	return h.state == handleConnected
}

func (h *Handle) Closed() bool {
	return h.state == handleClosed
}

func (h *Handle) String() string {
	state := "open"
	switch h.state {
	case handleConnected:
		state = "connected"
	case handleClosed:
		state = "closed"
	}
	return fmt.Sprintf("socket(%s/%s, fd=%d, %s)", h.kind, h.family, uintptr(h.fd), state)
}

// Bridge owns the networking subsystem for one script host. It is not safe for
// concurrent use; the host drives it from a single goroutine.
type Bridge struct {
	api     socketAPI
	state   subsystemState
	logger  zerolog.Logger
	metrics *observability.CapabilityMetrics
}

type Option func(*Bridge)

// WithMetrics records capability calls into m.
func WithMetrics(m *observability.CapabilityMetrics) Option {
	return func(b *Bridge) {
		if m != nil {
			b.metrics = m
		}
	}
}

func withSocketAPI(api socketAPI) Option {
	return func(b *Bridge) {
		b.api = api
	}
}

// NewBridge returns a bridge in the NotStarted state. Diagnostics for failed
// socket calls go to logger.
func NewBridge(logger zerolog.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		api:     platformAPI(),
		logger:  logger.With().Str("component", "netcap").Logger(),
		metrics: observability.NewCapabilityMetrics(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) Metrics() *observability.CapabilityMetrics {
	return b.metrics
}

// Started reports whether socket operations are currently allowed.
func (b *Bridge) Started() bool {
	return b.state == stateStarted
}

// Init starts the networking subsystem. It is a no-op while started and
// fails once the subsystem has been shut down.
func (b *Bridge) Init() error {
	switch b.state {
	case stateStarted:
		return nil
	case stateStopped:
		b.metrics.RecordCall("init", false)
		return ErrSubsystemStopped
	}
	if err := b.api.startup(); err != nil {
		b.metrics.RecordCall("init", false)
		return fmt.Errorf("netcap: start networking: %w", err)
	}
	b.state = stateStarted
	b.metrics.RecordCall("init", true)
	b.logger.Debug().Msg("networking started")
	return nil
}

// Shutdown tears the subsystem down. Later calls are no-ops.
func (b *Bridge) Shutdown() error {
	if b.state == stateStopped {
		return nil
	}
	wasStarted := b.state == stateStarted
	b.state = stateStopped
	if !wasStarted {
		return nil
	}
	if err := b.api.cleanup(); err != nil {
		b.diagnose("shutdown", "failed to stop networking", err)
		return fmt.Errorf("netcap: stop networking: %w", err)
	}
	b.metrics.RecordCall("shutdown", true)
	b.logger.Debug().Msg("networking stopped")
	return nil
}

// CreateSocket allocates a socket. On failure it logs a diagnostic and
// returns false.
func (b *Bridge) CreateSocket(kind Kind, family Family) (*Handle, bool) {
	if !kind.Valid() || !family.Valid() {
		return nil, b.fail("create", "failed to create a socket",
			fmt.Errorf("%w: kind=%s family=%s", ErrInvalidHandle, kind, family))
	}
	if b.state != stateStarted {
		return nil, b.fail("create", "failed to create a socket", ErrNotStarted)
	}
	fd, err := b.api.socket(kind, family)
	if err != nil {
		return nil, b.fail("create", "failed to create a socket", err)
	}
	b.metrics.RecordCall("create", true)
	b.metrics.SocketOpened()
	return &Handle{fd: fd, kind: kind, family: family}, true
}

// MakeAddress is the diagnostic-emitting form of the package-level
// MakeAddress used by script bindings.
func (b *Bridge) MakeAddress(host string, family Family, port int) (Address, bool) {
	addr, err := MakeAddress(host, family, port)
	if err != nil {
		return Address{}, b.fail("address", "failed to build socket address", err)
	}
	b.metrics.RecordCall("address", true)
	return addr, true
}

// Connect connects h to addr. On failure h stays unconnected.
func (b *Bridge) Connect(h *Handle, addr Address) bool {
	const msg = "failed to connect to socket"
	if err := b.usable(h); err != nil {
		return b.fail("connect", msg, err)
	}
	if !addr.IsValid() {
		return b.fail("connect", msg, ErrInvalidAddress)
	}
	if addr.Family() != h.family {
		return b.fail("connect", msg,
			fmt.Errorf("%w: socket=%s address=%s", ErrFamilyMismatch, h.family, addr.Family()))
	}
	if err := b.api.connect(h.fd, addr); err != nil {
		return b.fail("connect", msg, err)
	}
	h.state = handleConnected
	b.metrics.RecordCall("connect", true)
	return true
}

// Send writes all of data to h, continuing after partial writes.
func (b *Bridge) Send(h *Handle, data []byte) bool {
	const msg = "failed to write to socket"
	if err := b.usable(h); err != nil {
		return b.fail("send", msg, err)
	}
	total := 0
	for total < len(data) {
		n, err := b.api.send(h.fd, data[total:])
		if err != nil {
			b.metrics.AddBytesSent(total)
			return b.fail("send", msg, err)
		}
		if n <= 0 {
			b.metrics.AddBytesSent(total)
			return b.fail("send", msg, io.ErrShortWrite)
		}
		total += min(n, len(data)-total)
	}
	b.metrics.AddBytesSent(total)
	b.metrics.RecordCall("send", true)
	return true
}

// Close releases h. Closing an already closed handle does nothing and
// returns false.
func (b *Bridge) Close(h *Handle) bool {
	if h == nil {
		return b.fail("close", "failed to close socket", ErrInvalidHandle)
	}
	if h.state == handleClosed {
		b.logger.Debug().Str("socket", h.String()).Msg("close on closed socket ignored")
		return false
	}
	err := b.api.close(h.fd)
	h.state = handleClosed
	b.metrics.SocketClosed()
	if err != nil {
		return b.fail("close", "failed to close socket", err)
	}
	b.metrics.RecordCall("close", true)
	return true
}

func (b *Bridge) usable(h *Handle) error {
	if h == nil {
		return ErrInvalidHandle
	}
	if h.state == handleClosed {
		return ErrHandleClosed
	}
	if b.state != stateStarted {
		return ErrNotStarted
	}
	return nil
}

// fail records a failed call through diagnose and returns false.
func (b *Bridge) fail(op, msg string, err error) bool {
	b.diagnose(op, msg, err)
	return false
}

// diagnose records a failed call and writes the platform code and message to
// the diagnostic stream.
func (b *Bridge) diagnose(op, msg string, err error) {
	b.metrics.RecordCall(op, false)
	event := b.logger.Error().Str("op", op).Err(err)
	var errno syscall.Errno
	if errors.As(err, &errno) {
		event = event.Int("code", int(errno)).Str("reason", errno.Error())
	}
	event.Msg(msg)
}
