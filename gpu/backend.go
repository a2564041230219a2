//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Backend acquisition errors.
var (
	// ErrBackendUnavailable is returned when no HAL backend is registered
	// for this platform.
	ErrBackendUnavailable = errors.New("gpu: no hal backend available")

	// ErrNoAdapter is returned when the instance exposes no GPU adapters.
	ErrNoAdapter = errors.New("gpu: no adapters found")
)

// Backend owns a standalone GPU device: instance, adapter, device and
// queue. Hosts that already hold a device should skip Backend and use
// NewCompositorFromProvider instead.
type Backend struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName string
}

// NewBackend acquires the platform HAL backend and opens a device on the
// best available adapter, preferring discrete over integrated GPUs.
func NewBackend() (*Backend, error) {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrBackendUnavailable
	}
	return openBackend(api)
}

// openBackend opens a device through the given HAL API. Split from
// NewBackend so tests can run it against the noop backend.
func openBackend(api hal.Backend) (*Backend, error) {
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := pickAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	b := &Backend{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		adapterName: selected.Info.Name,
	}
	slogger().Info("gpu: device opened",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType)
	return b, nil
}

// pickAdapter prefers discrete GPUs, then integrated, then whatever
// enumerates first.
func pickAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			return &adapters[i]
		}
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// Device returns the opened HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// Queue returns the device's queue.
func (b *Backend) Queue() hal.Queue { return b.queue }

// AdapterName returns the name of the selected adapter.
func (b *Backend) AdapterName() string { return b.adapterName }

// HalDevice exposes the device for the gpucontext provider contract,
// so a Backend can itself serve as a device provider for other gogpu
// consumers.
func (b *Backend) HalDevice() any { return b.device }

// HalQueue exposes the queue for the gpucontext provider contract.
func (b *Backend) HalQueue() any { return b.queue }

// Close releases the device and instance in reverse acquisition order.
// Safe to call more than once.
func (b *Backend) Close() {
	if b.device != nil {
		b.device.Destroy()
		b.device = nil
		b.queue = nil
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}
