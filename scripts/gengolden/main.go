// Command gengolden compiles every sample program under samples/ and
// writes its emitted awmorp table to testdata/golden, so a future
// change that alters emitted output shows up as a diff instead of a
// silent behavior change.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"

	"github.com/tapelang/tmc/compiler"
)

var samples = map[string][]byte{
	"inc.tmc":       []byte("01#"),
	"add.tmc":       []byte("01+"),
	"bool-not.tmc":  []byte("01"),
	"dup-right.tmc": []byte("01"),
}

func main() {
	srcDir := flag.String("samples", "samples", "directory of .tmc source files")
	outDir := flag.String("out", "testdata/golden", "directory to write golden .awmorp files")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, *srcDir, *outDir); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, srcDir, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for name, alphabet := range samples {
		name, alphabet := name, alphabet
		eg.Go(func() error {
			return compileOne(ctx, filepath.Join(srcDir, name), outDir, alphabet)
		})
	}
	return eg.Wait()
}

func compileOne(ctx context.Context, path, outDir string, alphabet []byte) error {
	var out bytes.Buffer
	if _, err := compiler.Compile(ctx, path, &out, compiler.WithAlphabet(alphabet)); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	goldenPath := filepath.Join(outDir, base+".awmorp")
	return os.WriteFile(goldenPath, out.Bytes(), 0o644)
}
