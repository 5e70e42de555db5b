package baseline

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"strings"

	"rorcheck/internal/record"
	"rorcheck/pkg/domainerr"
)

// Load reads a baseline snapshot from a local path: a JSON file holding a
// list of records, or a zip archive carrying one. All failures come back as
// DataLoadError.
func Load(path string) (*DataSource, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return LoadZip(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, domainerr.NewDataLoadError(err, "open data dump %s", path)
	}
	defer f.Close()
	return decode(f, path)
}

// LoadZip reads the snapshot out of a zip archive. When the archive carries
// several JSON payloads, a schema_v2-marked one wins.
func LoadZip(path string) (*DataSource, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, domainerr.NewDataLoadError(err, "open archive %s", path)
	}
	defer zr.Close()

	entry := pickJSONEntry(zr.File)
	if entry == nil {
		return nil, domainerr.NewDataLoadError(nil, "archive %s carries no JSON payload", path)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, domainerr.NewDataLoadError(err, "open archive entry %s", entry.Name)
	}
	defer rc.Close()
	return decode(rc, entry.Name)
}

func pickJSONEntry(files []*zip.File) *zip.File {
	var first *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		if strings.Contains(f.Name, "schema_v2") {
			return f
		}
		if first == nil {
			first = f
		}
	}
	return first
}

func decode(r io.Reader, name string) (*DataSource, error) {
	var records []*record.Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, domainerr.NewDataLoadError(err, "decode %s", name)
	}
	for _, rec := range records {
		if rec == nil || rec.ID == "" {
			return nil, domainerr.NewDataLoadError(nil, "%s is not a list of records", name)
		}
	}
	return New(records), nil
}
