package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lumen-render/lumen/config"
	"github.com/lumen-render/lumen/engine"
	"github.com/lumen-render/lumen/engine/convert"
	"github.com/lumen-render/lumen/engine/render"
	"github.com/lumen-render/lumen/engine/sync"
)

func main() {
	app := &cli.App{
		Name:        "lumen-sync",
		Description: "incremental scene synchronization driver",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "synchronize a scene description over its frame range",
				Action: commandSync,
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:  "config",
						Usage: "path to the scene description file",
						Value: "scene.hcl",
					},
					&cli.BoolFlag{
						Name:  "profile",
						Usage: "log pass timing and memory statistics",
						Value: false,
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "synchronize one frame and print the resulting scene",
				Action: commandInspect,
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:  "config",
						Usage: "path to the scene description file",
						Value: "scene.hcl",
					},
					&cli.IntFlag{
						Name:  "frame",
						Usage: "frame to synchronize",
						Value: 1,
					},
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// buildSession assembles the host scene, synchronizer, and frame loop from a
// scene description file.
func buildSession(path string) (engine.Session, *render.Scene, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	scene, err := cfg.BuildScene()
	if err != nil {
		return nil, nil, err
	}

	options, err := cfg.SyncOptions(scene)
	if err != nil {
		return nil, nil, err
	}

	target := render.NewScene()
	syncer := sync.New(scene, target, convert.NewBasic(
		convert.WithShaders(target.DefaultSurface, target.DefaultVolume),
	), options...)

	session := engine.NewSession(syncer, scene, cfg.SessionOptions()...)
	return session, target, nil
}

func commandSync(ctx *cli.Context) error {
	session, _, err := buildSession(ctx.Path("config"))
	if err != nil {
		return err
	}
	if ctx.Bool("profile") {
		session.EnableProfiler()
	}

	session.SetFrameCallback(func(frame int, stats sync.Stats) {
		log.Printf("frame %d: %d objects, %d lights, %d updated, %d removed",
			frame, stats.Objects, stats.Lights, stats.Updated, stats.Removed)
	})
	return session.Run()
}

func commandInspect(ctx *cli.Context) error {
	session, target, err := buildSession(ctx.Path("config"))
	if err != nil {
		return err
	}

	stats, err := session.SyncFrame(ctx.Int("frame"), 0)
	if err != nil {
		return err
	}

	fmt.Printf("frame %d\n", ctx.Int("frame"))
	fmt.Printf("  objects: %d (updated %d, skipped %d, culled %d, invisible %d)\n",
		stats.Objects, stats.Updated, stats.Skipped, stats.Culled, stats.Invisible)
	fmt.Printf("  lights: %d\n", stats.Lights)
	fmt.Printf("  geometry conversions: %d (%d failed)\n",
		stats.GeometryConversions, stats.ConversionErrors)
	fmt.Printf("  motion passes: %d\n", stats.MotionPasses)

	for _, ob := range target.Objects() {
		geomName := "<none>"
		if g := ob.Geometry(); g != nil {
			geomName = fmt.Sprintf("%s (%s, %d verts)", g.Name, g.Kind(), len(g.Vertices))
		}
		fmt.Printf("  object %q asset=%q geometry=%s visibility=%#x\n",
			ob.Name, ob.AssetName, geomName, ob.Visibility())
	}
	for _, light := range target.Lights() {
		fmt.Printf("  light %q type=%s\n", light.Name, light.Type())
	}
	return nil
}
