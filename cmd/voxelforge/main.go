// Headless demo of the meshing pipeline: generate terrain, orbit a camera
// around it, and let the dispatcher prioritize and mesh chunks tick by
// tick.
package main

import (
	"flag"
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxelforge/internal/catalog"
	"voxelforge/internal/config"
	"voxelforge/internal/dispatch"
	"voxelforge/internal/priority"
	"voxelforge/internal/store"
	"voxelforge/internal/voxel"
	"voxelforge/internal/worker"
	"voxelforge/internal/worldgen"
)

func main() {
	settingsPath := flag.String("settings", "", "YAML settings file (optional)")
	blocksPath := flag.String("blocks", "", "block catalog JSON (optional, default built-in)")
	atlasPath := flag.String("atlas", "", "texture atlas JSON (optional, default built-in)")
	radius := flag.Int("radius", 48, "terrain radius in voxels")
	ticks := flag.Int("ticks", 120, "camera ticks to run")
	seed := flag.Int64("seed", 1337, "terrain seed")
	flag.Parse()

	if *settingsPath != "" {
		if err := config.Load(*settingsPath); err != nil {
			log.Fatalf("load settings: %v", err)
		}
	}

	blocks, atlas, err := loadCatalogs(*blocksPath, *atlasPath)
	if err != nil {
		log.Fatalf("load catalogs: %v", err)
	}

	st := store.New()
	gen := worldgen.New(*seed)
	start := time.Now()
	gen.Populate(st, *radius)
	log.Printf("terrain: %d voxels in %d chunks (%s)", st.Len(), len(st.ChunkKeys()), time.Since(start).Round(time.Millisecond))

	cfg := config.Get()
	pool, err := worker.NewPool(cfg.Workers, cfg.QueueSize, blocks.Defs(), atlas.Entries())
	if err != nil {
		log.Fatalf("start pool: %v", err)
	}
	defer pool.Shutdown()

	d := dispatch.New(st, pool)
	d.OnError(func(key voxel.ChunkKey, err error) {
		log.Printf("mesh job %s failed: %v", key, err)
	})

	orbit(d, *ticks, float32(*radius))

	// let the tail of the queue finish
	time.Sleep(200 * time.Millisecond)
	d.DrainResults()

	stats := d.Snapshot()
	log.Printf("meshed %d chunks (%d installed, %d stale, %d failed, %d still pending)",
		stats.Meshes, stats.Installed, stats.Stale, stats.Failed, stats.Pending)
}

// orbit circles the camera around the terrain, ticking the dispatcher at
// each step.
func orbit(d *dispatch.Dispatcher, ticks int, radius float32) {
	for i := 0; i < ticks; i++ {
		angle := float64(i) / float64(ticks) * 2 * math.Pi
		cam := priority.NewCamera(mgl32.Vec3{
			radius * 1.5 * float32(math.Cos(angle)),
			24,
			radius * 1.5 * float32(math.Sin(angle)),
		})
		// look back at the origin
		cam.Yaw = angle*180/math.Pi + 180
		cam.Pitch = -15

		d.Tick(cam)
		time.Sleep(10 * time.Millisecond)
	}
}

func loadCatalogs(blocksPath, atlasPath string) (*catalog.BlockCatalog, *catalog.AtlasTable, error) {
	var blocks *catalog.BlockCatalog
	var atlas *catalog.AtlasTable
	var err error

	if blocksPath != "" {
		blocks, err = catalog.LoadBlockCatalog(blocksPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		blocks = catalog.NewBlockCatalog([]catalog.BlockDef{
			{ID: 1, Name: "grass"},
			{ID: 2, Name: "dirt"},
			{ID: 3, Name: "stone"},
		})
	}

	if atlasPath != "" {
		atlas, err = catalog.LoadAtlasTable(atlasPath)
		if err != nil {
			return nil, nil, err
		}
	} else {
		atlas = catalog.NewAtlasTable(map[string]catalog.UVRect{
			"1_py": {Left: 0, Right: 0.25, Top: 0, Bottom: 0.25},
			"1":    {Left: 0.25, Right: 0.5, Top: 0, Bottom: 0.25},
			"2":    {Left: 0.5, Right: 0.75, Top: 0, Bottom: 0.25},
			"3":    {Left: 0.75, Right: 1, Top: 0, Bottom: 0.25},
		})
	}
	return blocks, atlas, nil
}
