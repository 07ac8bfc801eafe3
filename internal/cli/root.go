// Package cli provides the command-line interface for wallhue.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/wallhue/wallhue/internal/cache"
	"github.com/wallhue/wallhue/internal/colour"
	"github.com/wallhue/wallhue/internal/image"
	"github.com/wallhue/wallhue/internal/theme"
	"github.com/wallhue/wallhue/internal/version"
)

var (
	flagCentrality string
	flagFormat     string
	flagCacheFile  string
	flagVerbose    bool

	flagDarker             uint8
	flagLighter            uint8
	flagComplementary      bool
	flagContrast           bool
	flagHueOffset          uint16
	flagTriadic            bool
	flagQuadratic          bool
	flagTetratic           bool
	flagAnalogous          bool
	flagSplitComplementary bool
	flagMonochromatic      uint8
	flagShades             uint8
	flagTints              uint8
	flagTones              uint8
	flagBlends             uint8

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "wallhue [image]",
		Short: "Generate cached colour schemes from images",
		Long: `Wallhue analyses an image, picks representative colours under a chosen
measure of centrality (average, median or prevalent) and turns them into a
colour scheme via the external gamut-cli tool.

Results are cached in a local database, so repeat requests for the same
image, centrality and transformation return instantly.

The image path can be passed as an argument or piped in:

  wallhue wallpaper.png
  echo wallpaper.png | wallhue --centrality median --darker 20`,
		Version:      version.Short(),
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGenerate,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagCacheFile, "cache-file", "", "cache database file (default: user cache dir)")

	rootCmd.Flags().StringVarP(&flagCentrality, "centrality", "c", string(colour.CentralityPrevalent), "measure of centrality (average, median, prevalent)")
	rootCmd.Flags().StringVarP(&flagFormat, "serialization-format", "s", formatJSON, "output format (json, yaml, text)")

	rootCmd.Flags().Uint8Var(&flagDarker, "darker", 0, "darken the selected colour by a percentage (0-100)")
	rootCmd.Flags().Uint8Var(&flagLighter, "lighter", 0, "lighten the selected colour by a percentage (0-100)")
	rootCmd.Flags().BoolVar(&flagComplementary, "complementary", false, "use the complementary colour")
	rootCmd.Flags().BoolVar(&flagContrast, "contrast", false, "use the highest-contrasting colour")
	rootCmd.Flags().Uint16Var(&flagHueOffset, "hue-offset", 0, "rotate the hue by an angle (0-360)")
	rootCmd.Flags().BoolVar(&flagTriadic, "triadic", false, "three equally spaced colours around the wheel")
	rootCmd.Flags().BoolVar(&flagQuadratic, "quadratic", false, "four equally spaced colours around the wheel")
	rootCmd.Flags().BoolVar(&flagTetratic, "tetratic", false, "two selected colours and their complements")
	rootCmd.Flags().BoolVar(&flagAnalogous, "analogous", false, "the two colours adjacent to the selected one")
	rootCmd.Flags().BoolVar(&flagSplitComplementary, "split-complementary", false, "the two colours adjacent to the complement")
	rootCmd.Flags().Uint8Var(&flagMonochromatic, "monochromatic", 0, "n same-hue colours with varied saturation")
	rootCmd.Flags().Uint8Var(&flagShades, "shades", 0, "n colours blended towards black")
	rootCmd.Flags().Uint8Var(&flagTints, "tints", 0, "n colours blended towards white")
	rootCmd.Flags().Uint8Var(&flagTones, "tones", 0, "n colours blended towards gray")
	rootCmd.Flags().Uint8Var(&flagBlends, "blends", 0, "n colours interpolated between two selected colours")

	// The transformation request is a mutually-exclusive group; the core
	// relies on this being enforced here.
	rootCmd.MarkFlagsMutuallyExclusive(themeFlagNames()...)

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
}

// themeFlagNames lists every flag belonging to the transformation group.
func themeFlagNames() []string {
	return []string{
		"darker", "lighter", "complementary", "contrast", "hue-offset",
		"triadic", "quadratic", "tetratic", "analogous",
		"split-complementary", "monochromatic", "shades", "tints",
		"tones", "blends",
	}
}

// newLogger builds the application logger; debug when verbose, warnings
// only otherwise.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if flagVerbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "wallhue",
		Output: os.Stderr,
		Level:  level,
	})
}

// resolveImagePath takes the image path from the positional argument, or
// from stdin when the process is on the receiving end of a pipe.
func resolveImagePath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("image path required: pass it as an argument or pipe it in")
	}

	scanner := bufio.NewScanner(os.Stdin)
	var input strings.Builder
	for scanner.Scan() {
		input.WriteString(scanner.Text())
		input.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read image path from stdin: %w", err)
	}

	path := strings.TrimSpace(input.String())
	if path == "" {
		return "", fmt.Errorf("no image path received on stdin")
	}
	return path, nil
}

// themeOptions builds the option vector from the flag values. Mutual
// exclusion has already been enforced by cobra at parse time.
func themeOptions() theme.Options {
	return theme.Options{
		Darker:             flagDarker,
		Lighter:            flagLighter,
		Complementary:      flagComplementary,
		Contrast:           flagContrast,
		HueOffset:          flagHueOffset,
		Triadic:            flagTriadic,
		Quadratic:          flagQuadratic,
		Tetratic:           flagTetratic,
		Analogous:          flagAnalogous,
		SplitComplementary: flagSplitComplementary,
		Monochromatic:      flagMonochromatic,
		Shades:             flagShades,
		Tints:              flagTints,
		Tones:              flagTones,
		Blends:             flagBlends,
	}
}

// runGenerate executes the default generation behaviour.
func runGenerate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	imagePath, err := resolveImagePath(args)
	if err != nil {
		return err
	}

	centrality, err := colour.ParseCentrality(flagCentrality)
	if err != nil {
		return err
	}

	opts := themeOptions()

	// Two-colour transformations can only be fed by the prevalent
	// statistic; the others produce a single colour.
	if opts.NeedsTwoColours() && centrality != colour.CentralityPrevalent {
		logger.Warn("transformation needs two colours, switching centrality to prevalent",
			"requested", centrality)
		centrality = colour.CentralityPrevalent
	}

	if logger.IsDebug() {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			logger.Debug("flag set", "name", f.Name, "value", f.Value.String())
		})
	}

	cachePath := flagCacheFile
	if cachePath == "" {
		cachePath, err = cache.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := cache.Open(cachePath, logger.Named("cache"))
	if err != nil {
		return err
	}
	defer store.Close()

	generator := theme.NewGenerator(
		store,
		image.NewSource(image.NewFileLoader()),
		theme.NewGamutCLI(theme.WithLogger(logger.Named("gamut"))),
		logger,
	)

	colours, err := generator.GetOrCompute(cmd.Context(), imagePath, centrality, opts)
	if err != nil {
		return err
	}

	output, err := renderPalette(colours, flagFormat)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
