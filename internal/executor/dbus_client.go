package executor

import (
	"github.com/godbus/dbus/v5"
)

// DBusClient defines the interface for D-Bus operations.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/autowallpaper/internal/executor DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// NameHasOwner reports whether a well-known name is currently owned
	NameHasOwner(name string) (bool, error)

	// Call invokes a method on a D-Bus object and waits for the reply
	// dest: The bus name (e.g., "org.kde.plasmashell")
	// path: The object path (e.g., "/PlasmaShell")
	// method: The fully qualified method (e.g., "org.kde.PlasmaShell.evaluateScript")
	Call(dest string, path dbus.ObjectPath, method string, args []any) error
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient creates a real D-Bus client connected to the session bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// NameHasOwner reports whether a well-known name is currently owned
func (c *StdDBusClient) NameHasOwner(name string) (bool, error) {
	var owned bool
	err := c.conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&owned)
	return owned, err
}

// Call invokes a method on a D-Bus object and waits for the reply
func (c *StdDBusClient) Call(dest string, path dbus.ObjectPath, method string, args []any) error {
	return c.conn.Object(dest, path).Call(method, 0, args...).Err
}
