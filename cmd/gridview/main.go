package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"gridview/internal/assets"
	"gridview/internal/config"
	"gridview/internal/viewer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/mitchellh/go-homedir"
	"github.com/xlab/closer"
)

// teardownWait bounds how long a signal waits for the main thread to release GL state
const teardownWait = 2 * time.Second

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		base       = flag.String("assets", "assets", "directory or http(s) URL that asset references resolve against")
		configPath = flag.String("config", "", "configuration file (.yaml, .yml, .json or .toml) resolved against -assets")
		meshes     = flag.String("meshes", "", "comma separated mesh references overriding the default manifest")
		override   = flag.String("override", "", "local configuration file replacing the one named by -config")
	)
	flag.Parse()

	// closer runs bound funcs on its own goroutine and then exits, so a signal
	// only cancels the loop and waits here until main has released GL state.
	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan struct{})
	release := sync.OnceFunc(func() { close(released) })
	closer.Bind(func() {
		cancel()
		select {
		case <-released:
		case <-time.After(teardownWait):
			log.Printf("gridview: teardown did not finish in %v", teardownWait)
		}
		log.Printf("gridview: shutting down")
	})
	fatal := func(v ...any) {
		release()
		closer.Fatalln(v...)
	}

	manifest := assets.DefaultManifest()
	manifest.Config = *configPath
	if *meshes != "" {
		manifest.Meshes = strings.Split(*meshes, ",")
	}

	root, err := homedir.Expand(*base)
	if err != nil {
		fatal("gridview: bad -assets:", err)
	}

	launcher := &viewer.Launcher{
		Loader:   assets.NewLoader(root),
		Manifest: manifest,
		Open:     openWindow,
	}
	if *override != "" {
		cfg, err := loadOverride(*override)
		if err != nil {
			fatal("gridview: bad -override:", err)
		}
		launcher.Override = &cfg
	}

	if err := glfw.Init(); err != nil {
		fatal("gridview: could not initialize glfw:", err)
	}

	app, err := launcher.Launch(ctx)
	if err != nil {
		glfw.Terminate()
		fatal("gridview: startup failed:", err)
	}

	err = app.Run(ctx)
	app.Close()
	glfw.Terminate()
	release()
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal("gridview:", err)
	}
	closer.Close()
}

func loadOverride(name string) (config.Config, error) {
	path, err := homedir.Expand(name)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}
