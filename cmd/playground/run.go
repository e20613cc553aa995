package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"shader-playground/internal/debug"
	"shader-playground/internal/engineconfig"
	"shader-playground/internal/graphics"
	"shader-playground/internal/logger"
	"shader-playground/internal/scene"
	"shader-playground/internal/scenedef"
	"shader-playground/internal/shader"
	"shader-playground/internal/texture"
)

type runOptions struct {
	config    string
	variant   string
	scene     string
	shaderDir string
	hot       bool
	refresh   bool
	save      bool
}

// preferences loads the engine preferences and applies the command-line overrides.
func preferences(o runOptions) (engineconfig.EnginePrefs, error) {
	load := engineconfig.Load
	save := engineconfig.Save
	if o.config != "" {
		load = func() (engineconfig.EnginePrefs, error) { return engineconfig.LoadFrom(o.config) }
		save = func(p engineconfig.EnginePrefs) error { return engineconfig.SaveTo(o.config, p) }
	}
	prefs, err := load()
	if err != nil {
		return prefs, err
	}
	if o.variant != "" {
		prefs.Variant = o.variant
		prefs.ScenePath = ""
	}
	if o.scene != "" {
		prefs.ScenePath = o.scene
	}
	if o.shaderDir != "" {
		prefs.ShaderDir = o.shaderDir
	}
	if o.hot {
		prefs.HotReload = true
	}
	if o.save {
		if err := save(prefs); err != nil {
			return prefs, fmt.Errorf("save preferences: %w", err)
		}
	}
	return prefs, nil
}

// sceneDefinition resolves the scene file when one is set, otherwise the built-in variant.
func sceneDefinition(prefs engineconfig.EnginePrefs) (*scenedef.Scene, error) {
	if prefs.ScenePath != "" {
		return scenedef.Load(prefs.ScenePath)
	}
	return scenedef.Builtin(prefs.Variant)
}

func runPlayground(o runOptions) error {
	prefs, err := preferences(o)
	if err != nil {
		return err
	}
	def, err := sceneDefinition(prefs)
	if err != nil {
		return err
	}
	log := logger.New()
	if o.refresh {
		if err := texture.ClearCache(prefs.TextureCache); err != nil {
			log.Error(err)
		}
	}

	var watcher *shader.Watcher
	if prefs.HotReload && prefs.ShaderDir != "" {
		if err := shader.Export(prefs.ShaderDir); err != nil {
			return err
		}
		watcher, err = shader.Watch(prefs.ShaderDir)
		if err != nil {
			return err
		}
		defer watcher.Close()
		log.Logf("watching %s for shader edits", prefs.ShaderDir)
	}

	s, err := scene.New(def, scene.Options{
		Log:          log,
		Shaders:      shader.Loader{Dir: prefs.ShaderDir},
		TextureCache: prefs.TextureCache,
		Watcher:      watcher,
		Grid:         prefs.GridVisible,
	})
	if err != nil {
		return err
	}

	overlay := debug.New(log)
	overlay.ShowFPS = prefs.ShowFPS
	overlay.ShowLog = prefs.ShowLog
	overlay.Title = fmt.Sprintf("%s (%s shader)", s.Def.Name, s.Def.Pyramid.Shader)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return graphics.Run(graphics.Window{
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
		Title:      "shader playground - " + s.Def.Name,
		TargetFPS:  prefs.TargetFPS,
		MSAA:       prefs.MSAA,
		Background: s.Background,
	}, func() error {
		return s.Load(ctx)
	}, s.Update, func() {
		s.Draw()
		overlay.Draw()
	}, s.Unload)
}
