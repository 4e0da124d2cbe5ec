package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	vconfig "github.com/ridgeline-games/voxelworld/pkg/config"
	"github.com/ridgeline-games/voxelworld/pkg/mesh"
	"github.com/ridgeline-games/voxelworld/pkg/registry"
	"github.com/ridgeline-games/voxelworld/pkg/render"
	"github.com/ridgeline-games/voxelworld/pkg/terrain"
	"github.com/ridgeline-games/voxelworld/pkg/world"
)

func init() {
	// OpenGL calls must all come from the same OS thread.
	runtime.LockOSThread()
}

var (
	cfgFile string
	v       = viper.New()

	rootCmd = &cobra.Command{
		Use:           "voxels",
		Short:         "A streamed, double-buffered voxel world",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Open a window and walk around a generated world",
		RunE:  runRun,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: none, flags/env/defaults only)")
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("view-distance", 0, "chunk streaming radius (0 uses the config/default value)")
	runCmd.Flags().Int64("seed", 0, "terrain generation seed (0 uses the config/default value)")
	runCmd.Flags().String("assets", "", "directory containing blocks.yaml, textures.yaml, prefabs.yaml")
	runCmd.Flags().Int("width", 0, "window width in pixels")
	runCmd.Flags().Int("height", 0, "window height in pixels")

	v.SetEnvPrefix("VOXELS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindPFlag("view_distance", runCmd.Flags().Lookup("view-distance"))
	_ = v.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	_ = v.BindPFlag("assets", runCmd.Flags().Lookup("assets"))
	_ = v.BindPFlag("width", runCmd.Flags().Lookup("width"))
	_ = v.BindPFlag("height", runCmd.Flags().Lookup("height"))
}

// loadConfig reads flags > env (VOXELS_*) > YAML config file > defaults,
// in that precedence, mirroring the layering dittofs's viper setup uses.
func loadConfig() (vconfig.Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return vconfig.Config{}, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	var cfg vconfig.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return vconfig.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	vconfig.ApplyDefaults(&cfg)
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	blocks, textures, prefabs, err := loadRegistries(cfg.AssetsDir)
	if err != nil {
		log.Error("failed to load registries", zap.Error(err))
		return err
	}

	generator := terrain.NewGenerator(cfg.Seed, blocks, prefabs)
	manager := world.NewChunkManager(int32(cfg.ViewDistance), generator, log)
	w := world.NewWorld(manager)

	meshWorkers := runtime.NumCPU()
	if meshWorkers < 1 {
		meshWorkers = 1
	}

	renderer, err := render.NewRenderer(cfg.Width, cfg.Height, "voxels")
	if err != nil {
		log.Error("failed to initialize renderer", zap.Error(err))
		return err
	}
	pipeline := mesh.NewChunkMeshPipeline(manager, blocks, textures, meshWorkers, log)
	w.AttachMesher(pipeline)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	manager.Start(ctx)
	defer manager.Stop()
	pipeline.Start(ctx)
	defer pipeline.Stop()

	log.Info("starting voxels",
		zap.Int("view_distance", cfg.ViewDistance),
		zap.Int64("seed", cfg.Seed),
		zap.String("assets", cfg.AssetsDir))

	renderer.Run(w, pipeline)
	return nil
}

func loadRegistries(assetsDir string) (*registry.BlockRegistry, *registry.TextureRegistry, *registry.PrefabRegistry, error) {
	blocks := registry.NewBlockRegistry()
	if err := registry.LoadBlocksYAML(blocks, "core", filepath.Join(assetsDir, "blocks.yaml")); err != nil {
		return nil, nil, nil, err
	}

	textures := registry.NewTextureRegistry()
	if err := registry.LoadTexturesYAML(textures, filepath.Join(assetsDir, "textures.yaml")); err != nil {
		return nil, nil, nil, err
	}

	prefabs := registry.NewPrefabRegistry()
	if err := registry.LoadPrefabsYAML(prefabs, filepath.Join(assetsDir, "prefabs.yaml")); err != nil {
		return nil, nil, nil, err
	}

	return blocks, textures, prefabs, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if err := cfg.Level.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return cfg.Build()
}
