package host

import (
	"github.com/rs/zerolog"
	"github.com/tyqualters/voidtools/internal/netcap"
	lua "github.com/yuin/gopher-lua"
)

// Capability names bound into the script's global namespace.
const (
	FnInitNetworking      = "InitNetworking"
	FnCreateTCPSocket     = "CreateTCPSocket"
	FnCreateUDPSocket     = "CreateUDPSocket"
	FnCreateSocketAddress = "CreateSocketAddress"
	FnConnectToSocket     = "ConnectToSocket"
	FnWriteToSocket       = "WriteToSocket"
	FnCloseSocket         = "CloseSocket"
	FnDestroyNetworking   = "DestroyNetworking"
)

const (
	socketTypeName  = "voidtools.socket"
	addressTypeName = "voidtools.address"
)

// capabilities adapts bridge calls to Lua. Native failures come back as nil
// or false; only misuse by the script (wrong argument types) raises.
type capabilities struct {
	bridge *netcap.Bridge
	logger zerolog.Logger
}

func registerCapabilities(L *lua.LState, bridge *netcap.Bridge, logger zerolog.Logger) {
	registerTypeName(L, socketTypeName)
	registerTypeName(L, addressTypeName)

	c := &capabilities{bridge: bridge, logger: logger}
	for name, fn := range map[string]lua.LGFunction{
		FnInitNetworking:      c.initNetworking,
		FnCreateTCPSocket:     c.createSocket(netcap.TCP),
		FnCreateUDPSocket:     c.createSocket(netcap.UDP),
		FnCreateSocketAddress: c.createSocketAddress,
		FnConnectToSocket:     c.connect,
		FnWriteToSocket:       c.write,
		FnCloseSocket:         c.close,
		FnDestroyNetworking:   c.destroyNetworking,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func registerTypeName(L *lua.LState, name string) {
	mt := L.NewTypeMetatable(name)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if s, ok := ud.Value.(interface{ String() string }); ok {
			L.Push(lua.LString(s.String()))
		} else {
			L.Push(lua.LString(name))
		}
		return 1
	}))
	L.SetField(mt, "__metatable", lua.LString(name))
}

func (c *capabilities) initNetworking(L *lua.LState) int {
	if err := c.bridge.Init(); err != nil {
		c.logger.Error().Err(err).Str("op", FnInitNetworking).Msg("networking unavailable")
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LTrue)
	return 1
}

// The bridge logs cleanup failures itself.
func (c *capabilities) destroyNetworking(L *lua.LState) int {
	L.Push(lua.LBool(c.bridge.Shutdown() == nil))
	return 1
}

func (c *capabilities) createSocket(kind netcap.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		family := netcap.FamilyFor(L.OptBool(1, false))
		h, ok := c.bridge.CreateSocket(kind, family)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(newUserData(L, h, socketTypeName))
		return 1
	}
}

func (c *capabilities) createSocketAddress(L *lua.LState) int {
	host := L.CheckString(1)
	family := netcap.FamilyFor(L.OptBool(2, false))
	port := L.CheckInt(3)
	addr, ok := c.bridge.MakeAddress(host, family, port)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(newUserData(L, addr, addressTypeName))
	return 1
}

func (c *capabilities) connect(L *lua.LState) int {
	h := checkSocket(L, 1)
	addr := checkAddress(L, 2)
	L.Push(lua.LBool(c.bridge.Connect(h, addr)))
	return 1
}

func (c *capabilities) write(L *lua.LState) int {
	h := checkSocket(L, 1)
	data := L.CheckString(2)
	L.Push(lua.LBool(c.bridge.Send(h, []byte(data))))
	return 1
}

func (c *capabilities) close(L *lua.LState) int {
	h := checkSocket(L, 1)
	L.Push(lua.LBool(c.bridge.Close(h)))
	return 1
}

func newUserData(L *lua.LState, v any, typeName string) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(typeName))
	return ud
}

func checkSocket(L *lua.LState, n int) *netcap.Handle {
	ud := L.CheckUserData(n)
	if h, ok := ud.Value.(*netcap.Handle); ok {
		return h
	}
	L.ArgError(n, "socket expected")
	return nil
}

func checkAddress(L *lua.LState, n int) netcap.Address {
	ud := L.CheckUserData(n)
	if addr, ok := ud.Value.(netcap.Address); ok {
		return addr
	}
	L.ArgError(n, "socket address expected")
	return netcap.Address{}
}
