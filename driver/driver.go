// Package driver defines the contract between the rhi
// front end and an underlying GPU implementation.
// It is designed to allow platform-specific APIs to be
// implemented in a mostly straightforward manner.
package driver

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same Context.
	// Callers should assume that Open is not safe for
	// parallel execution.
	Open() (Context, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	// Callers should assume that Close is not safe for
	// parallel execution.
	Close()
}

// ErrNotInstalled means that a platform-specific library
// required for the driver to work is not present in the
// system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNoDevice means that no suitable device could be
// found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrNoIntrospection means that the driver cannot report
// the variables of a linked program, so binding slots
// that were left unbound cannot be resolved against it.
var ErrNoIntrospection = errors.New("driver: program introspection not supported")

// ErrFatal means that the driver is in an unrecoverable
// state. Upon encountering such an error, the application
// must destroy everything that it created using the
// driver's Context and then call the Close method. It may
// call Open again to reinitialize the driver for further
// use.
var ErrFatal = errors.New("driver: fatal error")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then
// call this function from init. As such, drivers that do
// not register themselves on init will not be considered
// for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			log.Printf("[!] driver '%s' replaced", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	log.Printf("driver '%s' registered", drv.Name())
}

// Open opens any registered driver whose name contains
// the name string, ignoring case. If name is the empty
// string, all registered drivers are considered.
// It returns the Context of the first driver that opens
// successfully.
func Open(name string) (Context, error) {
	name = strings.ToLower(name)
	err := fmt.Errorf("%w (name %q)", ErrNoDevice, name)
	for _, drv := range Drivers() {
		if !strings.Contains(strings.ToLower(drv.Name()), name) {
			continue
		}
		var ctx Context
		if ctx, err = drv.Open(); err != nil {
			continue
		}
		return ctx, nil
	}
	return nil, err
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
