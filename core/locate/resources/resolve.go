package resources

import (
	"context"
	"fmt"

	"github.com/flopp/go-findfont"
	"github.com/pierrejoye/libraqm/core"
	"github.com/pierrejoye/libraqm/core/font"
	xfont "golang.org/x/image/font"
)

// NotFound returns an application error for a missing resource.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING, fmt.Sprintf("font not found: %s", res))
}

type fontPlusErr struct {
	font *font.TypeCase
	err  error
}

// TypeCasePromise is the promise type returned by ResolveTypeCase.
type TypeCasePromise interface {
	TypeCase() (*font.TypeCase, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.TypeCase, error)
}

func (loader fontLoader) TypeCase() (*font.TypeCase, error) {
	return loader.await(context.Background())
}

// ResolveTypeCase resolves a font typecase with a given size, given a font
// name pattern, a style and a weight.
//
// Resolving tries the global font registry first, then locally installed
// fonts (using go-findfont's system search and, if configured, fontconfig),
// and finally the Google webfont service. If everything fails, a typecase
// from the built-in fallback font is returned, together with an error.
func ResolveTypeCase(pattern string, style xfont.Style, weight xfont.Weight, size float64) TypeCasePromise {
	ch := make(chan fontPlusErr)
	go func(ch chan<- fontPlusErr) {
		result := fontPlusErr{}
		if t, err := font.GlobalRegistry().TypeCase(pattern, size); err == nil {
			result.font = t
			ch <- result
			close(ch)
			return
		}
		var f *font.ScalableFont
		if fpath, err := findfont.Find(pattern); err == nil && fpath != "" {
			tracer().Debugf("%s is a system font", pattern)
			f, result.err = font.LoadOpenTypeFont(fpath)
		}
		if f == nil {
			if desc, _ := findFontConfigFont(pattern, style, weight); desc.Path != "" {
				tracer().Debugf("%s found via fontconfig", desc.Family)
				f, result.err = font.LoadOpenTypeFont(desc.Path)
			}
		}
		if f == nil {
			f, result.err = CacheGoogleFont(pattern, style, weight)
		}
		if f == nil {
			if result.err == nil {
				result.err = NotFound(pattern)
			}
			fallback := font.FallbackFont()
			result.font, _ = fallback.PrepareCase(size)
			ch <- result
			close(ch)
			return
		}
		font.GlobalRegistry().StoreFont(f)
		result.font, result.err = f.PrepareCase(size)
		ch <- result
		close(ch)
	}(ch)
	loader := fontLoader{
		await: func(ctx context.Context) (*font.TypeCase, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case result := <-ch:
				return result.font, result.err
			}
		},
	}
	return loader
}
