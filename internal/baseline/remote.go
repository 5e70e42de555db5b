package baseline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strconv"

	"rorcheck/pkg/domainerr"
)

// DefaultReleaseIndexURL is the published listing of baseline data dumps.
const DefaultReleaseIndexURL = "https://api.github.com/repos/ror-community/ror-data/contents"

var releaseNamePattern = regexp.MustCompile(`^v(\d+)\.(\d+)-(\d{4}-\d{2}-\d{2})-ror-data\.zip$`)

type releaseAsset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
}

type release struct {
	asset releaseAsset
	major int
	minor int
	date  string
}

// LoadRemote queries the release index, picks the newest data dump by
// (major, minor, date), downloads it to a temporary file, loads it, and
// removes the download. httpc may be nil to use http.DefaultClient.
func LoadRemote(ctx context.Context, httpc *http.Client, indexURL string) (*DataSource, error) {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if indexURL == "" {
		indexURL = DefaultReleaseIndexURL
	}

	assets, err := fetchIndex(ctx, httpc, indexURL)
	if err != nil {
		return nil, err
	}
	latest, ok := pickLatest(assets)
	if !ok {
		return nil, domainerr.NewDataLoadError(nil, "release index %s lists no data dumps", indexURL)
	}

	tmp, err := download(ctx, httpc, latest.asset.DownloadURL)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	return LoadZip(tmp)
}

func fetchIndex(ctx context.Context, httpc *http.Client, indexURL string) ([]releaseAsset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, domainerr.NewDataLoadError(err, "build index request")
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, domainerr.NewDataLoadError(err, "fetch release index")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, domainerr.NewDataLoadError(nil, "release index returned %s", resp.Status)
	}
	var assets []releaseAsset
	if err := json.NewDecoder(resp.Body).Decode(&assets); err != nil {
		return nil, domainerr.NewDataLoadError(err, "decode release index")
	}
	return assets, nil
}

func pickLatest(assets []releaseAsset) (release, bool) {
	var releases []release
	for _, a := range assets {
		m := releaseNamePattern.FindStringSubmatch(a.Name)
		if m == nil {
			continue
		}
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		releases = append(releases, release{asset: a, major: major, minor: minor, date: m[3]})
	}
	if len(releases) == 0 {
		return release{}, false
	}
	sort.Slice(releases, func(i, j int) bool {
		a, b := releases[i], releases[j]
		if a.major != b.major {
			return a.major > b.major
		}
		if a.minor != b.minor {
			return a.minor > b.minor
		}
		return a.date > b.date
	})
	return releases[0], true
}

func download(ctx context.Context, httpc *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domainerr.NewDataLoadError(err, "build download request")
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return "", domainerr.NewDataLoadError(err, "download data dump")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", domainerr.NewDataLoadError(nil, "data dump download returned %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "ror-data-*.zip")
	if err != nil {
		return "", domainerr.NewDataLoadError(err, "create temporary download")
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", domainerr.NewDataLoadError(err, "write temporary download")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", domainerr.NewDataLoadError(err, "close temporary download")
	}
	return tmp.Name(), nil
}
