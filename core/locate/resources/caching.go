package resources

import (
	"io"
	"net/http"
	"os"
	"path"

	"github.com/npillmayer/schuko/gconf"
)

// cacheDir ensures a folder inside the user's cache directory and returns
// its path. The base is `os.UserCacheDir()` plus an application specific
// key, taken as `app-key` from the global configuration. Sub-folders are
// created as necessary (with permissions 755).
func cacheDir(subfolders ...string) (string, error) {
	appkey := gconf.GetString("app-key")
	if appkey == "" {
		tracer().Errorf("application key is not set")
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := path.Join(append([]string{base, appkey}, subfolders...)...)
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return dir, os.MkdirAll(dir, 0755)
	}
	return dir, err
}

// cachedDownload returns the cache path of a downloaded file, fetching url
// into the cache directory first unless a previous call already did.
func cachedDownload(filename string, url string, subfolders ...string) (string, error) {
	dir, err := cacheDir(subfolders...)
	if err != nil {
		return "", err
	}
	filepath := path.Join(dir, filename)
	if _, err := os.Stat(filepath); err == nil {
		tracer().Debugf("cache hit for %s", filename)
		return filepath, nil
	}
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	out, err := os.Create(filepath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err = io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return filepath, nil
}
