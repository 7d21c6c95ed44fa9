// relayout is the command line front end for wrong-layout text
// reconstruction: convert text between keyboard layouts, score it against
// trained language models, and detect what a garbled string was meant to say.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"relayout/internal/alphabet"
	"relayout/internal/config"
	"relayout/internal/logging"
	"relayout/pkg/detect"
)

var (
	configPath  = flag.String("config", "", "path to config file")
	layoutsPath = flag.String("layouts", "", "path to layout definitions (default: built in)")
	modelDir    = flag.String("models", "", "directory with trigram model files")
	fromLayout  = flag.String("from", "", "source layout id for convert")
	toLayout    = flag.String("to", "", "target layout id for convert")
	langFlag    = flag.String("lang", "", "language for score (en, ru, he)")
	topN        = flag.Int("top", 5, "number of candidates to show for detect")
	jsonOut     = flag.Bool("json", false, "emit machine readable JSON")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	switch cmd {
	case "convert":
		cmdConvert(readInput(flag.Args()[1:]))
	case "score":
		cmdScore(readInput(flag.Args()[1:]))
	case "detect":
		cmdDetect(readInput(flag.Args()[1:]))
	case "layouts":
		cmdLayouts()
	case "models":
		cmdModels()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `relayout - Wrong keyboard layout text reconstruction

Usage: relayout [options] <command> [text]

Text is taken from the remaining arguments, or from stdin when absent.

Commands:
  convert   Remap text between two layouts (-from, -to)
  score     Score text under one language's model (-lang)
  detect    Rank the plausible readings of garbled text
  layouts   List known keyboard layouts
  models    List registered model artifacts
  help      Show this help message

Options:
  -config <path>    Path to config file
  -layouts <path>   Layout definitions file (default: built in)
  -models <dir>     Trigram model directory
  -from <layout>    Source layout id for convert
  -to <layout>      Target layout id for convert
  -lang <code>      Language for score: en, ru, he
  -top <n>          Candidates shown by detect (default 5)
  -json             Emit JSON instead of text`)
}

func loadConfig() *config.Config {
	path := *configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *layoutsPath != "" {
		cfg.Layouts.Path = *layoutsPath
	}
	if *modelDir != "" {
		cfg.Training.ModelDir = *modelDir
	}
	return cfg
}

func newEngine(cfg *config.Config) *detect.Engine {
	logger := newLogger(cfg, "relayout")

	engine, err := detect.New(detect.Options{
		LayoutsPath: cfg.Layouts.Path,
		ModelDir:    cfg.Training.ModelDir,
		Logger:      logger.Logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		os.Exit(1)
	}
	return engine
}

// newLogger builds a logger from the config's logging section, honoring
// output, file path, and rotation settings.
func newLogger(cfg *config.Config, component string) *logging.Logger {
	lcfg, err := cfg.LoggerConfig(component)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(lcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// readInput joins the remaining arguments, falling back to stdin.
func readInput(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
		os.Exit(1)
	}
	return strings.TrimRight(string(data), "\n")
}

func cmdConvert(text string) {
	if *fromLayout == "" || *toLayout == "" {
		fmt.Fprintln(os.Stderr, "Usage: relayout -from <layout> -to <layout> convert [text]")
		os.Exit(1)
	}

	cfg := loadConfig()
	engine := newEngine(cfg)

	out, err := engine.Convert(text, *fromLayout, *toLayout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(map[string]string{
			"from": *fromLayout,
			"to":   *toLayout,
			"text": out,
		})
		return
	}
	fmt.Println(out)
}

func cmdScore(text string) {
	if *langFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: relayout -lang <code> score [text]")
		os.Exit(1)
	}
	lang, err := alphabet.Parse(*langFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	engine := newEngine(cfg)

	score, ok, err := engine.Score(text, lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "No %s trigrams found in input\n", lang)
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"lang":  lang,
			"score": score,
		})
		return
	}
	fmt.Printf("%.4f\n", score)
}

func cmdDetect(text string) {
	cfg := loadConfig()
	engine := newEngine(cfg)

	result, err := engine.Detect(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	candidates := result.Candidates
	if len(candidates) > *topN {
		candidates = candidates[:*topN]
	}

	if *jsonOut {
		printJSON(candidates)
		return
	}

	if len(candidates) == 0 {
		fmt.Println("No plausible reading found.")
		return
	}

	fmt.Printf("%-6s %-10s %-26s %-10s %s\n", "Rank", "Lang", "Conversion", "Score", "Text")
	fmt.Println(strings.Repeat("-", 70))
	for i, c := range candidates {
		conversion := "as typed"
		if !c.Pure() {
			conversion = fmt.Sprintf("%s -> %s", c.TypedLayout, c.IntendedLayout)
		}
		fmt.Printf("%-6d %-10s %-26s %-10.4f %s\n", i+1, c.Intended, conversion, c.Score, c.Text)
	}
}

func cmdLayouts() {
	cfg := loadConfig()
	engine := newEngine(cfg)

	set := engine.Layouts()
	if *jsonOut {
		type layoutInfo struct {
			ID   string `json:"id"`
			Lang string `json:"lang"`
		}
		var infos []layoutInfo
		for _, lang := range set.Languages() {
			for _, def := range set.ByLanguage(lang) {
				infos = append(infos, layoutInfo{ID: def.ID, Lang: string(def.Lang)})
			}
		}
		printJSON(infos)
		return
	}

	fmt.Printf("%-28s %s\n", "Layout", "Language")
	fmt.Println(strings.Repeat("-", 40))
	for _, lang := range set.Languages() {
		for _, def := range set.ByLanguage(lang) {
			fmt.Printf("%-28s %s\n", def.ID, def.Lang)
		}
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
