package viewer

import (
	"context"
	"fmt"
	"log"
	"time"

	"gridview/internal/assets"
	"gridview/internal/config"
	"gridview/internal/graphics"
	"gridview/internal/input"
	"gridview/internal/profiling"
	"gridview/internal/scene"
)

// OpenFunc creates the surface and its graphics device once every resource
// has loaded. Key events must be forwarded to im.
type OpenFunc func(cfg config.Config, im *input.InputManager) (Surface, graphics.Device, error)

// Launcher runs the startup chain and assembles an App
type Launcher struct {
	Loader   *assets.Loader
	Manifest assets.Manifest
	Open     OpenFunc
	// Override replaces the loaded configuration when set
	Override *config.Config
	// OnFrame observes every published readout
	OnFrame func(scene.Readout)
	// Clock returns the monotonic tick timestamp; defaults to time since launch
	Clock func() time.Duration
}

// Launch loads every resource in order and only then opens the surface and
// builds GPU objects. The first failure aborts startup; no surface is left
// open and no frame runs.
func (l *Launcher) Launch(ctx context.Context) (*App, error) {
	bundle, err := l.Loader.LoadBundle(ctx, l.Manifest)
	if err != nil {
		return nil, err
	}
	cfg := bundle.Config
	if l.Override != nil {
		cfg = *l.Override
		if cfg.OverlayFont != bundle.Config.OverlayFont {
			bundle.Font = nil
			if cfg.OverlayFont != "" {
				if bundle.Font, err = l.Loader.Fetch(ctx, cfg.OverlayFont); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	im := input.NewInputManager()
	surface, dev, err := l.Open(cfg, im)
	if err != nil {
		return nil, fmt.Errorf("could not open surface: %w", err)
	}

	app, err := assemble(dev, bundle, cfg, im)
	if err != nil {
		surface.Destroy()
		return nil, err
	}
	app.surface = surface
	app.onFrame = l.OnFrame
	app.clock = l.Clock
	if app.clock == nil {
		start := time.Now()
		app.clock = func() time.Duration { return time.Since(start) }
	}
	log.Printf("viewer: launched %dx%dx%d grid", cfg.Grid.N, cfg.Grid.M, cfg.Grid.L)
	return app, nil
}

func assemble(dev graphics.Device, bundle *assets.Bundle, cfg config.Config, im *input.InputManager) (*App, error) {
	program, err := graphics.CompileProgram(dev, bundle.VertexSource, bundle.FragmentSource, scene.Uniforms, graphics.Attributes)
	if err != nil {
		return nil, err
	}

	renderables := make([]*graphics.Renderable, 0, len(bundle.Meshes))
	release := func() {
		for _, r := range renderables {
			r.Delete()
		}
		program.Delete()
	}
	for i, mesh := range bundle.Meshes {
		r, err := graphics.NewRenderable(dev, program, mesh)
		if err != nil {
			release()
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		renderables = append(renderables, r)
	}

	camera := graphics.NewOrbitCamera(scene.OrbitSettingsFromConfig(cfg))
	settings := scene.SettingsFromConfig(cfg)
	sc, err := scene.New(dev, program, renderables, camera, settings)
	if err != nil {
		release()
		return nil, err
	}
	log.Printf("viewer: %d draws per frame over %d renderables", settings.Grid.Cells(), len(renderables))
	sc.Configure()
	im.OnDirection(sc.HandleDirection)

	var overlay *graphics.Overlay
	if cfg.Overlay {
		if overlay, err = graphics.NewOverlay(dev); err != nil {
			release()
			return nil, err
		}
		if len(bundle.Font) > 0 {
			face, err := graphics.LoadFace(bundle.Font, cfg.OverlayFontSize)
			if err != nil {
				overlay.Delete()
				release()
				return nil, fmt.Errorf("overlay font %s: %w", cfg.OverlayFont, err)
			}
			overlay.SetFace(face)
		}
	}

	return &App{
		dev:         dev,
		scene:       sc,
		overlay:     overlay,
		input:       im,
		limiter:     NewFPSLimiter(cfg.FPSLimit),
		profiler:    profiling.New(),
		title:       cfg.Window.Title,
		showOverlay: cfg.Overlay,
		release:     release,
	}, nil
}
