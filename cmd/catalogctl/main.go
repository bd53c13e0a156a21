package main

import (
	"fmt"
	"os"
	"sort"

	"mindstream/internal/catalog"
)

const defaultCatalogPath = "/data/catalog.json"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = defaultCatalogPath
	}
	if len(os.Args) > 2 {
		catalogPath = os.Args[2]
	}

	switch command {
	case "validate":
		if !validate(catalogPath) {
			os.Exit(1)
		}
	case "stats":
		if !showStats(catalogPath) {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage()
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for
// display, replacing anything outside [a-zA-Z0-9_-] with '_'.
func sanitizeCommand(cmd string) string {
	out := make([]rune, 0, len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}

func printUsage() {
	fmt.Println("Mindstream Catalog Management")
	fmt.Println("")
	fmt.Println("Usage: catalogctl <command> [catalog-path]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  validate - Parse the catalog and report dropped records")
	fmt.Println("  stats    - Print section and record counts")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Printf("  CATALOG_PATH - Path to catalog JSON (default: %s)\n", defaultCatalogPath)
}

func loadCatalog(path string) (catalog.LoadResult, bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open catalog: %v\n", err)
		return catalog.LoadResult{}, false
	}
	defer f.Close()

	result, err := catalog.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to parse catalog: %v\n", err)
		return catalog.LoadResult{}, false
	}
	return result, true
}

func validate(path string) bool {
	result, ok := loadCatalog(path)
	if !ok {
		return false
	}

	fmt.Printf("Catalog: %s\n", path)
	fmt.Printf("Valid records:   %d\n", len(result.Records))
	fmt.Printf("Dropped records: %d\n", len(result.Dropped))
	for _, d := range result.Dropped {
		fmt.Printf("  record %d: %s\n", d.Index, d.Reason)
	}
	return len(result.Dropped) == 0
}

func showStats(path string) bool {
	result, ok := loadCatalog(path)
	if !ok {
		return false
	}

	stats := catalog.CountStats(result.Records)
	fmt.Printf("Catalog: %s\n", path)
	fmt.Printf("Records:        %d\n", stats.TotalRecords)
	fmt.Printf("Unique streams: %d\n", stats.UniqueStreams)
	fmt.Printf("Sections:       %d\n", len(stats.Sections))

	sections := make([]string, 0, len(stats.Sections))
	for s := range stats.Sections {
		sections = append(sections, s)
	}
	sort.Strings(sections)
	for _, s := range sections {
		fmt.Printf("  %-30s %d\n", s, stats.Sections[s])
	}
	return true
}
