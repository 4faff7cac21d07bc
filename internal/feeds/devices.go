// SPDX-License-Identifier: MIT

// Package feeds implements the legacy video portal protocol: Atom feed
// endpoints, device registration and the download/thumbnail routes.
package feeds

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"
)

// DeviceKey is the static key every registration hands out. The firmware
// only checks that registration returned one; it never varies per device.
const DeviceKey = "ULxlVAAVMhZ2GeqZA/X1GgqEEIP1ibcd3S+42pkWfmk="

// deviceAlphabet matches the ID shape the retired service generated.
const (
	deviceAlphabet = "qwertyuiopasdfghjklzxcvbnm1234567890"
	deviceIDLen    = 7
)

// Device is one registered client.
type Device struct {
	ID           string
	RegisteredAt time.Time
	UserAgent    string
	RemoteAddr   string
}

// Registry holds registered devices in memory. Registrations do not survive
// a restart; the firmware silently re-registers on the next error.
type Registry struct {
	mu      sync.Mutex
	devices map[string]Device
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]Device)}
}

// Register creates a device with a fresh unique ID.
func (r *Registry) Register(userAgent, remoteAddr string) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id, err := randomID()
		if err != nil {
			return Device{}, err
		}
		if _, taken := r.devices[id]; taken {
			continue
		}
		d := Device{
			ID:           id,
			RegisteredAt: time.Now(),
			UserAgent:    userAgent,
			RemoteAddr:   remoteAddr,
		}
		r.devices[id] = d
		return d, nil
	}
}

// Lookup returns a registered device by ID.
func (r *Registry) Lookup(id string) (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	return d, ok
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

func randomID() (string, error) {
	buf := make([]byte, deviceIDLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate device id: %w", err)
	}
	for i, b := range buf {
		buf[i] = deviceAlphabet[int(b)%len(deviceAlphabet)]
	}
	return string(buf), nil
}
