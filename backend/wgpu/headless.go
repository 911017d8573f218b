// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/mapview/backend"
	"github.com/gogpu/mapview/gfx"
)

func init() {
	backend.Register(backend.WGPU, func(width, height int) (backend.Backend, error) {
		return OpenHeadless(width, height)
	})
}

// Headless is a Device drawing into an offscreen texture on the noop HAL
// backend. It implements backend.Backend.
type Headless struct {
	instance hal.Instance
	hal      hal.Device
	dev      *Device
	tex      hal.Texture
	target   Target
	closed   bool
}

// OpenHeadless opens the first noop adapter and creates a width by height
// BGRA8 render target.
func OpenHeadless(width, height int) (*Headless, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, width, height)
	}
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: %w: no adapter", backend.ErrBackendNotAvailable)
	}
	od, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open adapter: %w", err)
	}

	h := &Headless{
		instance: instance,
		hal:      od.Device,
		dev:      New(od.Device, od.Queue, gputypes.TextureFormatBGRA8Unorm),
	}
	w, ht := uint32(width), uint32(height)
	h.tex, err = od.Device.CreateTexture(&hal.TextureDescriptor{
		Label:         "mapview_target",
		Size:          hal.Extent3D{Width: w, Height: ht, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        h.dev.Format(),
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("wgpu: create target: %w", err)
	}
	view, err := od.Device.CreateTextureView(h.tex, &hal.TextureViewDescriptor{})
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("wgpu: create target view: %w", err)
	}
	h.target = Target{View: view, Width: w, Height: ht, Clear: gputypes.Color{A: 1}}

	slogger().Info("wgpu: headless target ready", "width", width, "height", height)
	return h, nil
}

// Name returns backend.WGPU.
func (h *Headless) Name() string { return backend.WGPU }

// Device returns the recording device.
func (h *Headless) Device() gfx.Device { return h.dev }

// GPU returns the device with its wgpu-specific methods.
func (h *Headless) GPU() *Device { return h.dev }

// Present submits the recorded frame to the offscreen target.
func (h *Headless) Present() error {
	if h.closed {
		return ErrDestroyed
	}
	return h.dev.Submit(h.target)
}

// Close destroys the device, the target and the HAL instance. Later calls
// are no-ops.
func (h *Headless) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.dev.Destroy()
	if h.target.View != nil {
		h.hal.DestroyTextureView(h.target.View)
	}
	if h.tex != nil {
		h.hal.DestroyTexture(h.tex)
	}
	h.hal.Destroy()
	h.instance.Destroy()
}

var _ backend.Backend = (*Headless)(nil)
