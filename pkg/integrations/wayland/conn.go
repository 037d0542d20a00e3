package wayland

import (
	"fmt"
	"io"
)

// conn tracks the client side of one Wayland connection: the id allocator
// and the kind of every live object. It is used from a single goroutine.
type conn struct {
	rw      io.ReadWriteCloser
	nextID  uint32
	objects map[uint32]objectKind
}

func newConn(rw io.ReadWriteCloser) *conn {
	return &conn{
		rw:      rw,
		nextID:  displayID + 1,
		objects: map[uint32]objectKind{displayID: kindDisplay},
	}
}

func (c *conn) newObject(kind objectKind) uint32 {
	id := c.nextID
	c.nextID++
	c.objects[id] = kind
	return id
}

func (c *conn) send(sender uint32, opcode uint16, args *encoder) error {
	if args == nil {
		args = &encoder{}
	}
	if _, err := c.rw.Write(args.frame(sender, opcode)); err != nil {
		return fmt.Errorf("wayland: write request %d on object %d: %w", opcode, sender, err)
	}
	return nil
}

func (c *conn) read() (message, error) {
	return readMessage(c.rw)
}

func (c *conn) getRegistry() (uint32, error) {
	id := c.newObject(kindRegistry)
	return id, c.send(displayID, displayGetRegistry, (&encoder{}).uint(id))
}

func (c *conn) sync() (uint32, error) {
	id := c.newObject(kindCallback)
	return id, c.send(displayID, displaySync, (&encoder{}).uint(id))
}

// bind creates a client object for a registry global. The new_id argument of
// wl_registry.bind has no fixed interface, so the name and version travel
// with it.
func (c *conn) bind(registry uint32, g global, version uint32, kind objectKind) (uint32, error) {
	id := c.newObject(kind)
	args := (&encoder{}).uint(g.name).string(g.iface).uint(version).uint(id)
	return id, c.send(registry, registryBind, args)
}

func (c *conn) getIdleNotification(notifier uint32, timeoutMs uint32, seat uint32) (uint32, error) {
	id := c.newObject(kindIdleNotification)
	args := (&encoder{}).uint(id).uint(timeoutMs).uint(seat)
	return id, c.send(notifier, idleNotifierGetIdleNotification, args)
}

// track registers an object the compositor created, such as a toplevel handle.
func (c *conn) track(id uint32, kind objectKind) {
	c.objects[id] = kind
}

func (c *conn) destroy(id uint32, opcode uint16) error {
	delete(c.objects, id)
	return c.send(id, opcode, nil)
}

func (c *conn) Close() error {
	return c.rw.Close()
}
