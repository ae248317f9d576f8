package scanner

import (
	"bufio"
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/maxfischer2781/gridctl/internal/gcerrors"
	"github.com/maxfischer2781/gridctl/internal/model"
)

// FilesFromJobInfo parses a sibling job.info file and emits one tuple
// per "file*" entry, enriched with SE_OUTPUT_HASH_MD5, SE_OUTPUT_FILE,
// SE_OUTPUT_BASE and SE_OUTPUT_PATH (spec: "FilesFromJobInfo: parses a
// sibling job.info to emit tuples enriched with...").
//
// job.info lines look like `file0 = "<md5>  <local-name>  <dest-name>
// <path-on-se>"`, grounded on original_source's scanner_basic.py
// FilesFromJobInfo.getEntries.
type FilesFromJobInfo struct{}

func (FilesFromJobInfo) GuardKeys() (dataset, block []string) {
	return []string{"SE_OUTPUT_FILE"}, []string{"SE_OUTPUT_PATH"}
}

func (FilesFromJobInfo) Iter(_ context.Context, _ int, rec model.FileRecord) iter.Seq2[model.FileRecord, error] {
	return func(yield func(model.FileRecord, error) bool) {
		jobInfoPath := filepath.Join(rec.URL, "job.info")
		f, err := os.Open(jobInfoPath)
		if err != nil {
			yield(model.FileRecord{}, gcerrors.NewScannerError("FilesFromJobInfo", jobInfoPath, err))
			return
		}
		defer f.Close()

		scan := bufio.NewScanner(f)
		for scan.Scan() {
			line := scan.Text()
			key, value, found := strings.Cut(line, "=")
			key = strings.TrimSpace(key)
			if !found || !strings.HasPrefix(key, "file") {
				continue
			}
			fields := strings.Fields(strings.Trim(strings.TrimSpace(value), `"`))
			if len(fields) != 4 {
				if !yield(model.FileRecord{}, gcerrors.NewScannerError("FilesFromJobInfo", jobInfoPath,
					errInvalidJobInfoLine(line))) {
					return
				}
				continue
			}
			hashMD5, nameLocal, nameDest, pathSE := fields[0], fields[1], fields[2], fields[3]

			next := rec.Clone()
			next.Metadata["SE_OUTPUT_HASH_MD5"] = hashMD5
			next.Metadata["SE_OUTPUT_FILE"] = nameLocal
			next.Metadata["SE_OUTPUT_BASE"] = strings.TrimSuffix(nameLocal, filepath.Ext(nameLocal))
			next.Metadata["SE_OUTPUT_PATH"] = pathSE
			next.URL = filepath.Join(pathSE, nameDest)
			if !yield(next, nil) {
				return
			}
		}
		if err := scan.Err(); err != nil {
			yield(model.FileRecord{}, gcerrors.NewScannerError("FilesFromJobInfo", jobInfoPath, err))
		}
	}
}

type errInvalidJobInfoLine string

func (e errInvalidJobInfoLine) Error() string {
	return "malformed job.info file entry: " + string(e)
}
