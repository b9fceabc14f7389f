package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"larder/internal/config"
	"larder/internal/match"

	"github.com/joho/godotenv"
)

func main() {
	var serve bool
	var addr string
	var recipePath string
	var pantryPath string
	var help bool

	flag.BoolVar(&serve, "serve", false, "Run HTTP server mode")
	flag.StringVar(&addr, "addr", "", "Address to bind in server mode (overrides LARDER_ADDR)")
	flag.StringVar(&recipePath, "recipe", "", "Recipe JSON file for a one-off availability check")
	flag.StringVar(&pantryPath, "pantry", "", "Pantry JSON file for a one-off availability check")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		showHelp()
		return
	}

	// .env is optional; absence is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	if serve {
		if err := runServer(cfg); err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	if recipePath == "" || pantryPath == "" {
		fmt.Println("Error: provide -recipe and -pantry files (or use -serve for web mode)")
		showHelp()
		os.Exit(1)
	}

	if err := run(recipePath, pantryPath); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// run checks a single recipe against a pantry snapshot and prints the report.
func run(recipePath, pantryPath string) error {
	var recipe match.Recipe
	if err := readJSONFile(recipePath, &recipe); err != nil {
		return fmt.Errorf("could not read recipe: %w", err)
	}
	var pantry []match.Item
	if err := readJSONFile(pantryPath, &pantry); err != nil {
		return fmt.Errorf("could not read pantry: %w", err)
	}

	report := match.CheckAvailability(recipe, pantry)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func showHelp() {
	fmt.Println("Larder - pantry and grocery matching service")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  larder -serve [-addr :8080]")
	fmt.Println("  larder -recipe recipe.json -pantry pantry.json")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -serve          Run the HTTP server")
	fmt.Println("  -addr           Address to bind in server mode")
	fmt.Println("  -recipe         Recipe JSON file for a one-off check")
	fmt.Println("  -pantry         Pantry JSON file for a one-off check")
	fmt.Println("  -help, -h       Show this help message")
}
