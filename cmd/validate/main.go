package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/ashborne/pkg/world"
)

func main() {
	var w *world.World
	var err error
	if len(os.Args) < 2 {
		fmt.Println("Validating embedded world...")
		w, err = world.Default()
	} else {
		w, err = validateFile(os.Args[1])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(summary(w))
	fmt.Println("World file is valid!")
}

func validateFile(filename string) (*world.World, error) {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("world file must have .yaml or .yml extension: %s", baseName)
	}
	if !isValidWorldFilename(strings.TrimSuffix(baseName, ext)) {
		return nil, fmt.Errorf("world filename '%s' must be lowercase snake_case (e.g., my_world.yaml, not my-world.yaml or MyWorld.yaml)", baseName)
	}

	w, err := world.LoadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", filename, err)
	}
	return w, nil
}

func summary(w *world.World) string {
	choices := 0
	for _, s := range w.Scenes {
		choices += len(s.Choices)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  world:       %s\n", w.Name)
	fmt.Fprintf(&b, "  entry scene: %s\n", w.EntryScene)
	fmt.Fprintf(&b, "  scenes:      %d\n", len(w.Scenes))
	fmt.Fprintf(&b, "  choices:     %d\n", choices)
	fmt.Fprintf(&b, "  item uses:   %d\n", len(w.ItemUses))
	return b.String()
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidWorldFilename(name string) bool {
	// Allow 'x.' prefix for experimental worlds
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
