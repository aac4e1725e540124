package url

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

const (
	resPrefix  = "res://"
	filePrefix = "file://"

	// maxModulePath bounds the module segment accepted by SecurityURL.
	maxModulePath = 260
)

// SplitResURL splits an encoded res: URL on its last '/' into the module path
// and the resource name. The module path may still carry a type segment; see
// SplitModuleType.
func SplitResURL(encoded string) (modulePath, name string, err error) {
	rest, ok := strings.CutPrefix(encoded, resPrefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not a res URL", entity.ErrInvalidScheme, encoded)
	}

	idx := strings.LastIndexByte(rest, '/')
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %q has no resource name", entity.ErrSyntax, encoded)
	}
	return rest[:idx], rest[idx+1:], nil
}

// SplitModuleType reinterprets a module path as module/type. ok is false when
// the path has no separator to split on.
func SplitModuleType(modulePath string) (module, typeHint string, ok bool) {
	idx := strings.LastIndexByte(modulePath, '/')
	if idx < 0 {
		return modulePath, "", false
	}
	return modulePath[:idx], modulePath[idx+1:], true
}

// SecurityURL rewrites "res://module/..." as "file://<absolute module path>".
// search resolves the module name on the standard search path. capacity is the
// caller's buffer size in characters; an undersized buffer yields a
// *entity.SizeError carrying the size to retry with.
func SecurityURL(rawURL string, capacity int, search func(name string) (string, error)) (string, error) {
	if len(rawURL) <= len(resPrefix) || !strings.HasPrefix(rawURL, resPrefix) {
		return "", fmt.Errorf("%w: %q is not a res URL", entity.ErrInvalidScheme, rawURL)
	}

	rest := rawURL[len(resPrefix):]
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return "", fmt.Errorf("%w: %q has no path after the module", entity.ErrSyntax, rawURL)
	}

	module := rest[:idx]
	if CharLen(module) >= maxModulePath {
		return "", fmt.Errorf("%w: module segment too long", entity.ErrSyntax)
	}

	fullPath, err := search(module)
	if err != nil {
		return "", fmt.Errorf("%w: could not find %s: %w", entity.ErrSyntax, module, err)
	}

	result := filePrefix + fullPath
	if required := CharLen(result) + 1; capacity < required {
		return "", &entity.SizeError{Required: required, Kind: entity.ErrBufferTooSmall}
	}
	return result, nil
}

// DomainSize answers a domain query. Neither scheme has a domain, so the
// result is always a *entity.SizeError of kind ErrNotApplicable carrying the
// size of the whole URL.
func DomainSize(rawURL string) error {
	return &entity.SizeError{Required: CharLen(rawURL) + 1, Kind: entity.ErrNotApplicable}
}

// CopyURL returns rawURL when capacity can hold it plus the terminator.
func CopyURL(rawURL string, capacity int) (string, error) {
	if required := CharLen(rawURL) + 1; capacity < required {
		return "", &entity.SizeError{Required: required, Kind: entity.ErrBufferTooSmall}
	}
	return rawURL, nil
}

// CharLen returns the length of s in wide characters.
func CharLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}
