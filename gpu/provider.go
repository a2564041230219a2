//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// deviceFromProvider extracts the HAL device and queue from a shared
// device provider. The provider must also implement the HAL accessor
// pair HalDevice() any / HalQueue() any returning hal.Device and
// hal.Queue.
func deviceFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}

// NewCompositorFromProvider creates a compositor on a device shared by an
// external host (e.g. a gogpu application), avoiding a second GPU instance.
// The compositor never destroys a shared device.
func NewCompositorFromProvider(provider gpucontext.DeviceProvider, cfg Config) (*Compositor, error) {
	device, queue, err := deviceFromProvider(provider)
	if err != nil {
		return nil, err
	}
	c, err := NewCompositor(device, queue, cfg)
	if err != nil {
		return nil, err
	}
	slogger().Debug("gpu: compositor using shared device")
	return c, nil
}
