//go:build ignore

// build.go - stockig build system
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, synthesize, rank, dashboard, dataset, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
)

const module = "stockig"

var (
	distDir = "dist"

	// Commands under ./cmd, in build order
	executables = []string{"synthesize", "rank", "dashboard"}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	var err error
	switch {
	case *target == "all":
		for _, name := range executables {
			if err = buildExecutable(name, *verbose); err != nil {
				break
			}
		}
	case slices.Contains(executables, *target):
		err = buildExecutable(*target, *verbose)
	case *target == "dataset":
		err = generateDataset()
	case *target == "test":
		err = runTests(*verbose)
	case *target == "clean":
		err = clean()
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "   Stock Information Gain - Build System   " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

// buildExecutable compiles ./cmd/<name> into dist/, stamping the build time
// into the dashboard's version endpoint
func buildExecutable(name string, verbose bool) error {
	printInfo(fmt.Sprintf("Building %s...", name))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", distDir, err)
	}

	exeName := name
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	outputPath := filepath.Join(distDir, exeName)

	ldflags := fmt.Sprintf("-s -w -X %s/internal/app.BuildTime=%s", module, time.Now().UTC().Format(time.RFC3339))
	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	if err := goCommand(verbose, args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
	return nil
}

// generateDataset runs the synthesizer with the default configuration
func generateDataset() error {
	printInfo("Generating synthetic dataset...")
	return goCommand(true, "run", "./cmd/synthesize")
}

func runTests(verbose bool) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	return goCommand(true, append(args, "./...")...)
}

func clean() error {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to clean %s: %w", distDir, err)
	}
	printSuccess("Build artifacts cleaned")
	return nil
}

func goCommand(stream bool, args ...string) error {
	cmd := exec.Command("go", args...)
	if stream {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all          Build synthesize, rank and dashboard into dist/")
	fmt.Println("  synthesize   Build the dataset synthesizer")
	fmt.Println("  rank         Build the console ranking tool")
	fmt.Println("  dashboard    Build the web dashboard")
	fmt.Println("  dataset      Generate the synthetic dataset")
	fmt.Println("  test         Run all Go tests with the race detector")
	fmt.Println("  clean        Remove dist/")
}
