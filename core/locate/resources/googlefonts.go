package resources

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/npillmayer/schuko/gconf"
	"github.com/pierrejoye/libraqm/core"
	"github.com/pierrejoye/libraqm/core/font"
	xfont "golang.org/x/image/font"
)

// GoogleFontInfo describes a font entry of the Google webfont service.
type GoogleFontInfo struct {
	Family   string            `json:"family"`
	Version  string            `json:"version"`
	Variants []string          `json:"variants"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
}

const googleFontsAPI = `https://www.googleapis.com/webfonts/v1/webfonts?`

var googleFonts struct {
	load  sync.Once
	items []GoogleFontInfo
	err   error
}

// googleFontsDirectory loads the font directory of the Google webfont
// service, at most once per process. The service requires an API-key,
// either as `google-api-key` in the global configuration or as
// GOOGLE_API_KEY in the environment.
func googleFontsDirectory() ([]GoogleFontInfo, error) {
	googleFonts.load.Do(func() {
		apikey := gconf.GetString("google-api-key")
		if apikey == "" {
			apikey = os.Getenv("GOOGLE_API_KEY")
		}
		if apikey == "" {
			err := errors.New("Google API key not set")
			googleFonts.err = core.WrapError(err, core.EMISSING,
				`Google Fonts API-key must be set in global configuration or as GOOGLE_API_KEY in environment;
      please refer to https://developers.google.com/fonts/docs/developer_api`)
			return
		}
		values := url.Values{
			"sort": []string{"alpha"},
			"key":  []string{apikey},
		}
		resp, err := http.Get(googleFontsAPI + values.Encode())
		if err != nil {
			tracer().Errorf("Google Fonts API request not OK: %s", err.Error())
			googleFonts.err = core.WrapError(err, core.ECONNECTION,
				"could not get fonts-directory from Google font service")
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			tracer().Errorf("Google Fonts API request not OK: %v", resp.Status)
			err := core.Error(resp.StatusCode, "response: %v", resp.Status)
			googleFonts.err = core.WrapError(err, core.ECONNECTION,
				"could not get fonts-directory from Google font service")
			return
		}
		var directory struct {
			Items []GoogleFontInfo `json:"items"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&directory); err != nil {
			googleFonts.err = core.WrapError(err, core.EINVALID,
				"could not decode fonts-list from Google font service")
			return
		}
		googleFonts.items = directory.Items
	})
	return googleFonts.items, googleFonts.err
}

// FindGoogleFont searches the Google font directory for a font variant
// matching pattern, style and weight.
//
// If not already done, the list of fonts will be downloaded from Google.
func FindGoogleFont(pattern string, style xfont.Style, weight xfont.Weight) (
	info GoogleFontInfo, variant string, err error) {
	//
	items, err := googleFontsDirectory()
	if err != nil {
		return
	}
	descs := make([]font.Descriptor, len(items))
	for i, finfo := range items {
		descs[i] = font.Descriptor{Family: finfo.Family, Variants: finfo.Variants}
	}
	desc, variant, confidence := font.ClosestMatch(descs, pattern, style, weight)
	if confidence > font.LowConfidence {
		for _, finfo := range items {
			if finfo.Family == desc.Family {
				return finfo, variant, nil
			}
		}
	}
	err = core.Error(core.EMISSING, "no Google font matches %s", pattern)
	return
}

// CacheGoogleFont loads a font variant from the Google webfont service,
// fetching the font file into the user's cache directory unless a previous
// session already did.
func CacheGoogleFont(pattern string, style xfont.Style, weight xfont.Weight) (*font.ScalableFont, error) {
	finfo, variant, err := FindGoogleFont(pattern, style, weight)
	if err != nil {
		return nil, err
	}
	fileurl, ok := finfo.Files[variant]
	if !ok {
		return nil, NotFound(pattern)
	}
	filename := font.NormalizeFontname(finfo.Family) + "-" + variant + ".ttf"
	filepath, err := cachedDownload(filename, fileurl, "fonts")
	if err != nil {
		return nil, err
	}
	return font.LoadOpenTypeFont(filepath)
}
