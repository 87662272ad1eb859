package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// mediaTypes maps the asset extensions we minify to their media types.
var mediaTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

func main() {
	var (
		outDir   = flag.String("out", "dist", "Output directory")
		inputs   = flag.String("dirs", "templates,static", "Comma-separated source directories")
		single   = flag.String("input", "", "Minify a single file instead of directories")
		output   = flag.String("output", "", "Output path for -input")
		fileType = flag.String("type", "", "File type for -input (css, js or html); inferred from the extension when empty")
	)
	flag.Parse()

	m := newMinifier()

	if *single != "" {
		if *output == "" {
			log.Fatal("Usage: go run ./cmd/minify -input=<file> -output=<file> [-type=<css|js|html>]")
		}
		mediaType, err := mediaTypeFor(*single, *fileType)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := minifyFile(m, *single, *output, mediaType); err != nil {
			log.Fatalf("Failed to minify %s: %v", *single, err)
		}
		return
	}

	var total, saved int
	for _, dir := range strings.Split(*inputs, ",") {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		n, s, err := minifyTree(m, dir, *outDir)
		if err != nil {
			log.Fatalf("Error minifying %s: %v", dir, err)
		}
		total += n
		saved += s
	}
	fmt.Printf("Minification complete: %d files, %d bytes saved, output in %s\n", total, saved, *outDir)
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return m
}

// mediaTypeFor resolves an explicit -type flag or falls back to the file extension.
func mediaTypeFor(path, fileType string) (string, error) {
	ext := "." + strings.ToLower(fileType)
	if fileType == "" {
		ext = strings.ToLower(filepath.Ext(path))
	}
	mt, ok := mediaTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q (supported: css, js, html)", strings.TrimPrefix(ext, "."))
	}
	return mt, nil
}

// minifyTree minifies every supported file under srcDir into outDir/srcDir,
// copying other files unchanged. It returns the number of minified files and
// bytes saved.
func minifyTree(m *minify.M, srcDir, outDir string) (int, int, error) {
	var count, saved int
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		dst := filepath.Join(outDir, path)
		mt, ok := mediaTypes[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return copyFile(path, dst)
		}
		s, err := minifyFile(m, path, dst, mt)
		if err != nil {
			return err
		}
		count++
		saved += s
		return nil
	})
	return count, saved, err
}

func minifyFile(m *minify.M, srcPath, dstPath, mediaType string) (int, error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return 0, err
	}

	minified, err := m.Bytes(mediaType, src)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dstPath, minified, 0644); err != nil {
		return 0, err
	}

	saved := len(src) - len(minified)
	if len(src) > 0 {
		fmt.Printf("%s: %d bytes -> %d bytes (%.1f%% reduction)\n",
			srcPath, len(src), len(minified), float64(saved)/float64(len(src))*100)
	}
	return saved, nil
}

func copyFile(srcPath, dstPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(dstPath, data, 0644)
}
