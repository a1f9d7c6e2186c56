package gen

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// WriteFile creates `filePath` and its parent directories and streams the
// output of `generate` into it. The file is closed on every path but nothing
// is rolled back if `generate` fails.
func WriteFile(filePath string, generate func(w io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return errors.Wrapf(err, `failed to create directory for "%s"`, filePath)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, `failed to create file "%s"`, filePath)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, `failed to close file "%s"`, filePath)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := generate(bw); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrapf(err, `failed to write file "%s"`, filePath)
	}

	return nil
}
