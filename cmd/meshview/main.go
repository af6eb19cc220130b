// Package main is the entry point for the meshview preview renderer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/render"
	"github.com/Faultbox/meshview/pkg/formats"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	paths := config.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: meshview [flags] model.stl [more.stl ...]")
		os.Exit(1)
	}

	// Meshes render in argument order
	var meshes []*formats.Mesh
	for _, path := range paths {
		mesh, err := formats.LoadSTL(path)
		if err != nil {
			logger.Error("failed to load mesh", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("loaded mesh",
			zap.String("path", path),
			zap.Int("triangles", len(mesh.Triangles)))
		meshes = append(meshes, mesh)
	}

	render.SetLogger(logger.Log)

	opts := render.Options{
		OutputPath:   cfg.Render.OutputPath,
		TileWidth:    cfg.Render.TileWidth,
		TileHeight:   cfg.Render.TileHeight,
		SampleStride: cfg.Render.SampleStride,
		Padding:      cfg.Render.Padding,
	}
	if err := render.Render(meshes, opts); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("preview written", zap.String("path", cfg.Render.OutputPath))
}
