package iterators

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ygrebnov/distributor"
)

// FileList reads fetch keys from a text file, one per line. A line of the form
// "fetchKey<TAB>emitKey" sets the emit key explicitly; otherwise the fetch key is
// reused. Blank lines and lines starting with '#' are skipped.
type FileList struct {
	Path string
}

func (f FileList) Enumerate(ctx context.Context, a distributor.Admitter) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	d := a.Defaults()
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Text()
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetchKey, emitKey, explicit := strings.Cut(raw, "\t")
		fetchKey = strings.TrimSpace(fetchKey)
		emitKey = strings.TrimSpace(emitKey)
		if fetchKey == "" {
			return fmt.Errorf("%s:%d: empty fetch key", f.Path, line)
		}
		if !explicit || emitKey == "" {
			emitKey = fetchKey
		}

		if err := a.Admit(ctx, d.Tuple(strconv.Itoa(line), fetchKey, emitKey)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
