package resources

import (
	"bufio"
	"os"
	"os/exec"
	"path"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/gconf"
	"github.com/pierrejoye/libraqm/core/font"
	xfont "golang.org/x/image/font"
)

// fontConfig wraps the list of font descriptors obtained from the
// fontconfig system (https://www.freedesktop.org/wiki/Software/fontconfig/).
// The fc-list binary is called at most once; its output is kept in the
// user's config directory and re-used by subsequent sessions.
//
// We call the binary instead of using the C library because of possible
// version issues. fontconfig has to be enabled by setting key 'fontconfig'
// in the global configuration to the absolute path of 'fc-list'; without
// it, lookups silently find nothing.
type fontConfig struct {
	load  sync.Once
	descs []font.Descriptor
}

var fcList fontConfig

// descriptors returns the parsed fc-list output, loading it on first use.
func (fc *fontConfig) descriptors() []font.Descriptor {
	fc.load.Do(func() {
		listfile, err := fc.listFile()
		if err != nil {
			tracer().Infof("fontconfig not available: %v", err)
			return
		}
		fc.descs, err = parseFontList(listfile)
		if err != nil {
			tracer().Errorf("cannot read fontconfig font list: %v", err)
			return
		}
		tracer().Infof("loaded %d fontconfig descriptors", len(fc.descs))
	})
	return fc.descs
}

// listFile returns the path of the cached fc-list output, running the
// fc-list binary if no cached copy exists yet.
func (fc *fontConfig) listFile() (string, error) {
	appkey := gconf.GetString("app-key")
	uconfdir, err := os.UserConfigDir()
	if appkey == "" || err != nil {
		return "", errNoFontConfig("user config directory not set")
	}
	listfile := path.Join(uconfdir, appkey, "fontlist.txt")
	if _, err := os.Stat(listfile); err == nil {
		return listfile, nil // fontlist already cached
	}
	fcpath := gconf.GetString("fontconfig")
	if fcpath == "" {
		return "", errNoFontConfig("key 'fontconfig' should point to the 'fc-list' binary")
	}
	if !path.IsAbs(fcpath) {
		return "", errNoFontConfig("fc-list must be configured with an absolute path")
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		return "", errNoFontConfig("configuration points to an invalid fc-list binary")
	}
	if err := os.MkdirAll(path.Join(uconfdir, appkey), 0755); err != nil {
		return "", err
	}
	out, err := os.Create(listfile)
	if err != nil {
		return "", err
	}
	defer out.Close()
	fccmd := exec.Command(fcpath)
	fccmd.Stdout = out
	if err := fccmd.Run(); err != nil {
		return "", err
	}
	return listfile, nil
}

type errNoFontConfig string

func (e errNoFontConfig) Error() string {
	return string(e)
}

// fcVariants maps substrings of fc-list style fields to variant names.
var fcVariants = []struct{ style, variant string }{
	{"regular", "regular"},
	{"text", "regular"},
	{"light", "light"},
	{"italic", "italic"},
	{"bold", "bold"},
	{"black", "bold"},
}

// parseFontList reads cached fc-list output. Lines look like
//
//	/usr/share/fonts/DejaVuSans.ttf: DejaVu Sans:style=Book
//
// TrueType collections (*.ttc) are skipped: TTC not yet supported.
func parseFontList(listfile string) ([]font.Descriptor, error) {
	file, err := os.Open(listfile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var descs []font.Descriptor
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if desc, ok := parseFontListLine(scanner.Text()); ok {
			descs = append(descs, desc)
		}
	}
	return descs, scanner.Err()
}

func parseFontListLine(line string) (desc font.Descriptor, ok bool) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) < 3 {
		return desc, false
	}
	desc.Path = strings.TrimSpace(fields[0])
	if strings.HasSuffix(desc.Path, ".ttc") {
		return desc, false
	}
	desc.Family = strings.TrimPrefix(strings.TrimSpace(fields[1]), ".")
	style := strings.ToLower(fields[2])
	for _, v := range fcVariants {
		if strings.Contains(style, v.style) {
			desc.Variants = []string{v.variant}
			break
		}
	}
	return desc, true
}

// findFontConfigFont searches for a locally installed font variant, given a
// name pattern, a style and a weight. It returns an empty descriptor if
// fontconfig is not configured or no font matches well enough.
func findFontConfigFont(pattern string, style xfont.Style, weight xfont.Weight) (
	desc font.Descriptor, variant string) {
	//
	descs := fcList.descriptors()
	if len(descs) == 0 {
		return
	}
	var confidence font.MatchConfidence
	desc, variant, confidence = font.ClosestMatch(descs, pattern, style, weight)
	tracer().Debugf("closest fontconfig match confidence for %s|%s = %d", desc.Family, variant, confidence)
	if confidence > font.LowConfidence {
		return
	}
	return font.Descriptor{}, ""
}
