package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/loaders"
	"github.com/df07/go-stochastic-raytracer/pkg/output"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
	"github.com/df07/go-stochastic-raytracer/web/server"
)

const (
	appName   = "raytracer"
	envPrefix = "RAYTRACER"
	scenesDir = "scenes"

	keepSceneDepth = -1
)

// RenderConfig holds the settings of one render, from flags, environment or config file
type RenderConfig struct {
	Scene      string `mapstructure:"scene"`
	Width      int    `mapstructure:"width"`
	Samples    int    `mapstructure:"samples"` // 0 keeps the scene's value
	Depth      int    `mapstructure:"depth"`   // -1 keeps the scene's value
	Workers    int    `mapstructure:"workers"` // 0 uses every CPU
	Seed       int64  `mapstructure:"seed"`
	Output     string `mapstructure:"output"` // Empty picks output/<scene>/render_<timestamp>.png
	Debug      bool   `mapstructure:"debug"`
	Integrator string `mapstructure:"integrator"`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(viper.New()).ExecuteContext(ctx); err != nil {
		writeError(err)
	}
}

// newRootCommand builds the CLI; settings are resolved through v
func newRootCommand(v *viper.Viper) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Stochastic path tracer for spheres",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, configFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./raytracer.yaml or $HOME/.raytracer/raytracer.yaml)")

	rootCmd.AddCommand(newRenderCommand(v), newScenesCommand(), newServeCommand(v))
	return rootCmd
}

// initConfig reads the optional config file and enables RAYTRACER_* environment overrides
func initConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+appName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}

func newRenderCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var config RenderConfig
			if err := v.Unmarshal(&config); err != nil {
				return errors.Wrap(err, "invalid render settings")
			}

			if config.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Warn().Msg("debug logging enabled")
			}

			path, err := runRender(cmd.Context(), config, log.Logger)
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("render saved")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("scene", "default", "built-in scene name or path to a .yaml scene description")
	flags.Int("width", 400, "image width in pixels; height follows the camera aspect ratio")
	flags.Int("samples", 0, "samples per pixel (0 keeps the scene's value)")
	flags.Int("depth", keepSceneDepth, "maximum bounce depth (-1 keeps the scene's value, 0 renders black)")
	flags.Int("workers", 0, "number of parallel workers (0 uses every CPU)")
	flags.Int64("seed", 42, "seed of the per-pixel random streams")
	flags.String("output", "", "output file; the extension picks the format (.png, .bmp, .tiff, .ppm, .snap)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("integrator", "path", "light transport: path or normals")

	// Flags only fail to bind when they are nil
	_ = v.BindPFlags(flags)

	return cmd
}

func newScenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listScenes(cmd.OutOrStdout(), scene.DefaultRegistry(), scenesDir)
		},
	}
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web interface with live render progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			port := v.GetInt("port")
			if port <= 0 || port > 65535 {
				return errors.Errorf("invalid port %d", port)
			}

			logOutput := zerolog.ConsoleWriter{Out: cmd.OutOrStdout(), TimeFormat: time.RFC3339}
			return server.NewServer(port, scenesDir, logOutput).Start(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 8080, "port to serve on")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))

	return cmd
}

// listScenes prints the built-in scenes followed by the scene files found in dir
func listScenes(w io.Writer, registry *scene.Registry, dir string) error {
	for _, info := range registry.Infos() {
		fmt.Fprintf(w, "  %-14s %s\n", info.ID, info.Description)
	}

	files, err := scene.ListYAMLScenes(dir)
	if err != nil {
		return err
	}
	for _, info := range files {
		fmt.Fprintf(w, "  %-14s %s\n", info.FilePath, info.Name)
	}
	return nil
}

// createScene resolves a built-in scene name, a listed scene ID or a scene description path
func createScene(sceneType string, seed int64) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("scene name cannot be empty")
	}
	if strings.HasPrefix(sceneType, scene.YAMLScenePrefix) {
		info, err := scene.FindYAMLScene(scenesDir, sceneType)
		if err != nil {
			return nil, err
		}
		return loaders.LoadScene(info.FilePath)
	}
	if loaders.IsSceneFile(sceneType) {
		return loaders.LoadScene(sceneType)
	}
	return scene.DefaultRegistry().Lookup(sceneType, seed)
}

// createIntegrator returns the light transport algorithm selected by name
func createIntegrator(name string, sky integrator.SkyGradient) (integrator.Integrator, error) {
	switch name {
	case "path", "":
		return integrator.NewPathTracingIntegrator(sky), nil
	case "normals":
		return integrator.NewNormalIntegrator(sky), nil
	default:
		return nil, errors.Errorf("unknown integrator %q (expected path or normals)", name)
	}
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}

// runRender renders the configured scene and writes it to disk, returning the output path
func runRender(ctx context.Context, config RenderConfig, logger zerolog.Logger) (string, error) {
	if config.Width <= 0 {
		return "", errors.Errorf("width must be positive, got %d", config.Width)
	}
	if config.Samples < 0 {
		return "", errors.New("samples must not be negative")
	}
	if config.Depth < keepSceneDepth {
		return "", errors.Errorf("depth must not be negative, got %d", config.Depth)
	}

	selectedScene, err := createScene(config.Scene, config.Seed)
	if err != nil {
		return "", err
	}

	integ, err := createIntegrator(config.Integrator, selectedScene.Sky)
	if err != nil {
		return "", err
	}

	if config.Samples > 0 {
		selectedScene.Sampling.SamplesPerPixel = config.Samples
	}
	if config.Depth != keepSceneDepth {
		selectedScene.Sampling.MaxDepth = config.Depth
	}

	path := config.Output
	if path == "" {
		path = defaultOutputPath(selectedScene.Name, time.Now())
	}
	// Fail on an unknown format before spending time on the render
	if _, err := output.ForPath(path); err != nil {
		return "", err
	}

	raytracer := selectedScene.NewRaytracer(config.Width, integ)
	raytracer.SetOptions(renderer.Options{
		Workers: config.Workers,
		Seed:    config.Seed,
		Logger:  logger.With().Str("scene", selectedScene.Name).Logger(),
	})

	frame, stats, err := raytracer.Render(ctx)
	if err != nil {
		return "", errors.Wrap(err, "render aborted")
	}

	logger.Info().
		Str("render_id", stats.RenderID).
		Dur("duration", stats.Duration).
		Float64("samples_per_second", stats.SamplesPerSecond()).
		Float64("mean_luminance", stats.MeanLuminance).
		Float64("luminance_stddev", stats.LuminanceStdDev).
		Msg("render stats")

	if err := output.WriteFile(path, frame); err != nil {
		return "", err
	}
	return path, nil
}
